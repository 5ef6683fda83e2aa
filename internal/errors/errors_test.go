package errors_test

import (
	"fmt"
	"io"
	"testing"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestErrorMessage(t *testing.T) {
	f := errors.New()

	tests := []struct {
		name string
		err  errors.Error
		want string
	}{
		{"default message", f.New(errors.ErrAlreadyRunning), "Another instance is already running"},
		{"unknown code", f.New(errors.ErrorCode("gpio_line_busy")), "gpio_line_busy"},
		{"wrapped", f.Wrap(errors.ErrSensingLoop, io.EOF), "Error in sensing loop: EOF"},
		{"custom message", f.New(errors.ErrInternal).WithMessage("boom"), "boom"},
		{"data", f.WithData(errors.ErrInvalidTiming, "timeout must be positive"), "Invalid timing value: timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestWrapUnwrap(t *testing.T) {
	err := errors.New().Wrap(errors.ErrReadConfig, io.ErrShortWrite)

	assert.Equal(t, errors.ErrReadConfig, err.Code())
	assert.True(t, errors.Is(err, io.ErrShortWrite))
	assert.Equal(t, io.ErrShortWrite, errors.Unwrap(err))
}

func TestHasCode(t *testing.T) {
	lineBusy := errors.ErrorCode("gpio_line_busy")
	inner := errors.New().New(lineBusy)
	outer := fmt.Errorf("acquire: %w", errors.New().Wrap(errors.ErrInitFailed, inner))

	assert.True(t, errors.HasCode(outer, errors.ErrInitFailed))
	assert.True(t, errors.HasCode(outer, lineBusy))
	assert.False(t, errors.HasCode(outer, errors.ErrSensingLoop))
	assert.False(t, errors.HasCode(nil, errors.ErrSensingLoop))
}

func TestWithMessageKeepsCode(t *testing.T) {
	base := errors.New().Wrap(errors.ErrSensingLoop, io.EOF)
	err := base.WithMessage("edge source failed")

	assert.Equal(t, errors.ErrSensingLoop, err.Code())
	assert.Equal(t, "edge source failed: EOF", err.Error())
	assert.Equal(t, "Error in sensing loop: EOF", base.Error())
}
