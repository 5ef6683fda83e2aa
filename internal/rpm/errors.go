package rpm

import "codeberg.org/mutker/wheelspeed/internal/errors"

const (
	ErrInvalidInterval = errors.ErrorCode("rpm_invalid_interval")
)
