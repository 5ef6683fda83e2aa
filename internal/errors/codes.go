package errors

// Shared error codes. Packages with their own failure classes (gpio, rpm,
// status) declare them next to the code that raises them.
const (
	ErrInternal ErrorCode = "internal_error"

	// Configuration errors
	ErrInvalidConfig   ErrorCode = "invalid_configuration"
	ErrInvalidTiming   ErrorCode = "invalid_timing"
	ErrInvalidLogLevel ErrorCode = "invalid_log_level"
	ErrBindFlags       ErrorCode = "bind_flags_failed"
	ErrParseFlags      ErrorCode = "parse_flags_failed"
	ErrReadConfig      ErrorCode = "read_config_failed"

	// Process errors
	ErrAlreadyRunning ErrorCode = "already_running"
	ErrInitFailed     ErrorCode = "initialization_failed"
	ErrSensingLoop    ErrorCode = "sensing_loop_failed"
)

var errorMessages = map[ErrorCode]string{
	ErrInternal:        "Internal error occurred",
	ErrInvalidConfig:   "Invalid configuration",
	ErrInvalidTiming:   "Invalid timing value",
	ErrInvalidLogLevel: "Invalid log level",
	ErrBindFlags:       "Failed to bind flags",
	ErrParseFlags:      "Failed to parse flags",
	ErrReadConfig:      "Failed to read configuration",
	ErrAlreadyRunning:  "Another instance is already running",
	ErrInitFailed:      "Initialization failed",
	ErrSensingLoop:     "Error in sensing loop",
}

// GetErrorMessage returns the default message for code, or the code itself
func GetErrorMessage(code ErrorCode) string {
	if msg, ok := errorMessages[code]; ok {
		return msg
	}

	return string(code)
}
