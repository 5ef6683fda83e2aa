package gpio

import (
	"context"
	"time"
)

// EdgeSource reports falling edges on a single input line.
type EdgeSource interface {
	// Wait blocks until an edge arrives, the timeout elapses or ctx is done.
	// ok is false on timeout and on cancellation.
	Wait(ctx context.Context, timeout time.Duration) (edge Edge, ok bool, err error)

	// Now returns the current time on the clock edges are stamped with.
	Now() time.Duration

	// Release frees the line. It is safe to call more than once and on a
	// partially acquired source.
	Release() error
}

// Opener acquires an EdgeSource. On failure it may return a non-nil source
// holding partially acquired resources, which the caller must release.
type Opener func(cfg Config) (EdgeSource, error)

// Edge is a single detected falling transition.
type Edge struct {
	// Timestamp on the host monotonic clock.
	Timestamp time.Duration
	Offset    int
	Seqno     uint32
}

// Config selects and configures the input line.
type Config struct {
	Chip     string
	Offset   int
	Debounce time.Duration
	Consumer string
}
