package gpio

import (
	"os"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"github.com/warthog618/go-gpiocdev"
	"golang.org/x/sys/unix"
)

const (
	// Acquisition Errors
	ErrLineBusy         = errors.ErrorCode("gpio_line_busy")
	ErrPermissionDenied = errors.ErrorCode("gpio_permission_denied")
	ErrLineNotFound     = errors.ErrorCode("gpio_line_not_found")
	ErrRequestFailed    = errors.ErrorCode("gpio_request_failed")

	// Runtime Errors
	ErrNotAcquired   = errors.ErrorCode("gpio_not_acquired")
	ErrReleaseFailed = errors.ErrorCode("gpio_release_failed")
)

// classify maps a line request failure onto an acquisition error code
func classify(err error) errors.ErrorCode {
	switch {
	case errors.Is(err, unix.EBUSY):
		return ErrLineBusy
	case errors.Is(err, gpiocdev.ErrPermissionDenied),
		errors.Is(err, unix.EACCES), errors.Is(err, unix.EPERM), errors.Is(err, os.ErrPermission):
		return ErrPermissionDenied
	case errors.Is(err, gpiocdev.ErrInvalidOffset),
		errors.Is(err, gpiocdev.ErrNotFound),
		errors.Is(err, gpiocdev.ErrNotCharacterDevice),
		errors.Is(err, unix.ENOENT), errors.Is(err, unix.EINVAL), errors.Is(err, os.ErrNotExist):
		return ErrLineNotFound
	default:
		return ErrRequestFailed
	}
}
