package config_test

import (
	"testing"
	"time"

	"codeberg.org/mutker/wheelspeed/internal/config"
	"codeberg.org/mutker/wheelspeed/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load("wheelspeed", nil)
	require.NoError(t, err, "Failed to load config")

	assert.Equal(t, config.DefaultLogLevel, cfg.LogLevel, "Expected default LogLevel info")
	assert.Equal(t, "gpiochip0", cfg.Chip)
	assert.Equal(t, 17, cfg.Line)
	assert.Equal(t, 2*time.Second, cfg.Timeout)
	assert.Equal(t, 20*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 3, cfg.Window)
	assert.Equal(t, "/tmp/wheel_speed.json", cfg.StatusPath)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("WHEELSPEED_LINE", "27")
	t.Setenv("WHEELSPEED_TIMEOUT", "500ms")
	t.Setenv("WHEELSPEED_DEBOUNCE", "5ms")
	t.Setenv("WHEELSPEED_WINDOW", "5")
	t.Setenv("WHEELSPEED_STATUS_PATH", "/run/wheel.json")
	t.Setenv("WHEELSPEED_LOG_LEVEL", "warning")

	cfg, err := config.Load("wheelspeed", nil)
	require.NoError(t, err)

	assert.Equal(t, 27, cfg.Line)
	assert.Equal(t, 500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, 5*time.Millisecond, cfg.Debounce)
	assert.Equal(t, 5, cfg.Window)
	assert.Equal(t, "/run/wheel.json", cfg.StatusPath)
	assert.Equal(t, "warning", cfg.LogLevel)
}

func TestLogLevelFlag(t *testing.T) {
	t.Setenv("WHEELSPEED_LOG_LEVEL", "error")

	cfg, err := config.Load("wheelspeed", []string{"--log-level", "DEBUG"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel, "Expected LogLevel to be set by flag")
}

func TestDebugFlag(t *testing.T) {
	cfg, err := config.Load("wheelspeed", []string{"--debug"})
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestInvalidLogLevel(t *testing.T) {
	_, err := config.Load("wheelspeed", []string{"--log-level", "invalid"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrInvalidLogLevel))
	assert.Contains(t, err.Error(), "invalid")
}

func TestUnknownFlag(t *testing.T) {
	_, err := config.Load("wheelspeed", []string{"--line", "4"})
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrParseFlags))
}

func TestValidate(t *testing.T) {
	valid := func() config.Config {
		return config.Config{
			LogLevel:   "info",
			Chip:       "gpiochip0",
			Line:       17,
			Timeout:    2 * time.Second,
			Debounce:   20 * time.Millisecond,
			Window:     3,
			StatusPath: "/tmp/wheel_speed.json",
		}
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		code   errors.ErrorCode
	}{
		{"valid", func(*config.Config) {}, ""},
		{"empty chip", func(c *config.Config) { c.Chip = "" }, errors.ErrInvalidConfig},
		{"negative line", func(c *config.Config) { c.Line = -1 }, errors.ErrInvalidConfig},
		{"zero window", func(c *config.Config) { c.Window = 0 }, errors.ErrInvalidConfig},
		{"empty path", func(c *config.Config) { c.StatusPath = "" }, errors.ErrInvalidConfig},
		{"zero timeout", func(c *config.Config) { c.Timeout = 0 }, errors.ErrInvalidTiming},
		{"debounce over timeout", func(c *config.Config) { c.Debounce = 3 * time.Second }, errors.ErrInvalidTiming},
		{"bad level", func(c *config.Config) { c.LogLevel = "trace" }, errors.ErrInvalidLogLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)

			err := cfg.Validate()
			if tt.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.HasCode(err, tt.code), "got %v", err)
		})
	}
}
