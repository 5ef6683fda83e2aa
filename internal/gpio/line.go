package gpio

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"codeberg.org/mutker/wheelspeed/internal/logger"
	"github.com/warthog618/go-gpiocdev"
	"github.com/zoobzio/clockz"
	"golang.org/x/sys/unix"
)

const (
	defaultConsumer = "wheelspeed"
	edgeBufferSize  = 64
)

// Line is an EdgeSource backed by the Linux GPIO character device.
type Line struct {
	line    *gpiocdev.Line
	cfg     Config
	edges   chan Edge
	dropped atomic.Uint64
	clock   clockz.Clock
	logger  logger.Logger

	mu       sync.Mutex
	released bool
}

// NewOpener returns an Opener that requests cfg.Offset on cfg.Chip as a
// pulled-up input with falling edge detection and kernel debouncing.
func NewOpener(log logger.Logger) Opener {
	return func(cfg Config) (EdgeSource, error) {
		return open(cfg, clockz.RealClock, log)
	}
}

func open(cfg Config, clock clockz.Clock, log logger.Logger) (*Line, error) {
	errFactory := errors.New()

	if cfg.Consumer == "" {
		cfg.Consumer = defaultConsumer
	}

	l := newLine(cfg, clock, log)

	line, err := gpiocdev.RequestLine(cfg.Chip, cfg.Offset,
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithFallingEdge,
		gpiocdev.WithDebounce(cfg.Debounce),
		gpiocdev.WithConsumer(cfg.Consumer),
		gpiocdev.WithEventHandler(l.handle),
	)
	if err != nil {
		return l, errFactory.Wrap(classify(err), err).WithMessage(
			fmt.Sprintf("failed to request %s line %d", cfg.Chip, cfg.Offset))
	}
	l.line = line

	log.Debug().
		Str("chip", cfg.Chip).
		Int("line", cfg.Offset).
		Dur("debounce", cfg.Debounce).
		Msg("GPIO line requested")

	return l, nil
}

func newLine(cfg Config, clock clockz.Clock, log logger.Logger) *Line {
	return &Line{
		cfg:    cfg,
		edges:  make(chan Edge, edgeBufferSize),
		clock:  clock,
		logger: log,
	}
}

// handle runs on the gpiocdev event goroutine and must not block.
func (l *Line) handle(evt gpiocdev.LineEvent) {
	edge := Edge{
		Timestamp: evt.Timestamp,
		Offset:    evt.Offset,
		Seqno:     evt.LineSeqno,
	}

	select {
	case l.edges <- edge:
	default:
		l.dropped.Add(1)
	}
}

func (l *Line) Wait(ctx context.Context, timeout time.Duration) (Edge, bool, error) {
	l.mu.Lock()
	acquired := l.edges != nil && !l.released
	l.mu.Unlock()
	if !acquired {
		return Edge{}, false, errors.New().New(ErrNotAcquired)
	}

	if n := l.dropped.Swap(0); n > 0 {
		l.logger.Warn().Uint64("dropped", n).Msg("Edge buffer overflow, edges dropped")
	}

	timer := l.clock.NewTimer(timeout)
	defer timer.Stop()

	select {
	case edge := <-l.edges:
		return edge, true, nil
	case <-timer.C():
		return Edge{}, false, nil
	case <-ctx.Done():
		return Edge{}, false, nil
	}
}

// Now reads CLOCK_MONOTONIC, the clock gpiocdev stamps events with by default.
func (*Line) Now() time.Duration {
	var ts unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts); err != nil {
		return 0
	}

	return time.Duration(ts.Nano())
}

func (l *Line) Release() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.released {
		return nil
	}
	l.released = true

	if l.line == nil {
		return nil
	}

	if err := l.line.Close(); err != nil {
		return errors.New().Wrap(ErrReleaseFailed, err)
	}

	if l.logger != nil {
		l.logger.Debug().Int("line", l.cfg.Offset).Msg("GPIO line released")
	}

	return nil
}
