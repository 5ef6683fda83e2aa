package main

import (
	"testing"

	"codeberg.org/mutker/wheelspeed/internal/status"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, " 120.0 RPM  count=2  uptime=4s  sensor=running",
		format(status.Snapshot{RPM: 120, Count: 2, Timestamp: 4, Running: true}))
	assert.Equal(t, "   0.0 RPM  count=9  uptime=30s  sensor=stopped",
		format(status.Snapshot{Count: 9, Timestamp: 30}))
}
