// Package shutdown turns the first operator interrupt into a cancellation
// token for the sensing loop.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"codeberg.org/mutker/wheelspeed/internal/logger"
)

// ErrRequested is the cancellation cause of a triggered shutdown.
const ErrRequested = errors.ErrorCode("shutdown_requested")

// Coordinator is set at most once, by the first signal or Trigger call. Its
// context is the token: it is cancelled with an ErrRequested cause carrying
// the trigger reason. It performs no cleanup itself.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelCauseFunc
	logger logger.Logger

	once sync.Once

	mu   sync.Mutex
	sigs chan os.Signal
}

func New(parent context.Context, log logger.Logger) *Coordinator {
	ctx, cancel := context.WithCancelCause(parent)

	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
		logger: log,
	}
}

// Listen starts waiting for signals (SIGINT and SIGTERM if none are given).
// The first one received triggers shutdown and listening stops.
func (c *Coordinator) Listen(signals ...os.Signal) {
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sigs != nil {
		return
	}

	sigs := make(chan os.Signal, 1)
	c.sigs = sigs
	signal.Notify(sigs, signals...)

	go func() {
		select {
		case sig := <-sigs:
			c.Trigger("signal " + sig.String())
		case <-c.ctx.Done():
		}
		c.stopListening()
	}()
}

// Trigger requests shutdown. Only the first call has an effect.
func (c *Coordinator) Trigger(reason string) {
	c.once.Do(func() {
		c.logger.Info().Str("reason", reason).Msg("Received termination signal.")
		c.cancel(errors.New().New(ErrRequested).WithMessage("shutdown requested: " + reason))
	})
}

// Requested reports whether the context was cancelled by Trigger, as opposed
// to Close or the parent.
func (c *Coordinator) Requested() bool {
	return errors.HasCode(context.Cause(c.ctx), ErrRequested)
}

// Context is cancelled when shutdown is triggered.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// Close stops listening and releases the context without marking shutdown
// as requested.
func (c *Coordinator) Close() {
	c.stopListening()
	c.cancel(nil)
}

func (c *Coordinator) stopListening() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.sigs != nil {
		signal.Stop(c.sigs)
	}
}
