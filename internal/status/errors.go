package status

import "codeberg.org/mutker/wheelspeed/internal/errors"

const (
	// Write Errors
	ErrInvalidPath   = errors.ErrorCode("status_invalid_path")
	ErrEncode        = errors.ErrorCode("status_encode_failed")
	ErrWriteFailed   = errors.ErrorCode("status_write_failed")
	ErrReplace       = errors.ErrorCode("status_replace_failed")
	ErrPublisherGone = errors.ErrorCode("status_publisher_closed")

	// Read Errors
	ErrStatusUnavailable = errors.ErrorCode("status_unavailable")
	ErrStatusDecode      = errors.ErrorCode("status_decode_failed")
	ErrWatchFailed       = errors.ErrorCode("status_watch_failed")
)
