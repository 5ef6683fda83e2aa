package errors

// ErrorCode identifies a failure class; it is logged as error_code
type ErrorCode string

// Error is an application error carrying a code and an optional cause
type Error interface {
	error
	Code() ErrorCode
	// WithMessage returns a copy that reports msg instead of the code's default text
	WithMessage(msg string) Error
	Unwrap() error
}

// Factory creates coded errors
type Factory interface {
	New(code ErrorCode) Error
	Wrap(code ErrorCode, err error) Error
	// WithData attaches a detail value that is appended to the message
	WithData(code ErrorCode, data any) Error
}
