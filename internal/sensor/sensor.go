// Package sensor runs the edge-driven sensing loop: it owns the rate
// estimator, drives the edge source and feeds the status publisher.
package sensor

import (
	"context"
	"sync/atomic"
	"time"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"codeberg.org/mutker/wheelspeed/internal/gpio"
	"codeberg.org/mutker/wheelspeed/internal/logger"
	"codeberg.org/mutker/wheelspeed/internal/rpm"
	"codeberg.org/mutker/wheelspeed/internal/status"
	"github.com/zoobzio/capitan"
	"github.com/zoobzio/clockz"
)

// Publisher accepts snapshots without blocking on I/O.
type Publisher interface {
	Publish(snapshot status.Snapshot) error
}

type Config struct {
	Line gpio.Config
	// Timeout bounds each wait for an edge; a wait that elapses marks the
	// wheel as stopped.
	Timeout time.Duration
	// Window is the number of intervals averaged into the reported rate.
	Window int
}

type Option func(*Sensor)

// WithClock sets the clock used for snapshot timestamps.
func WithClock(clock clockz.Clock) Option {
	return func(s *Sensor) {
		s.clock = clock
	}
}

// WithStartTime sets the instant snapshot timestamps count from. It defaults
// to the clock's time when the Sensor is created.
func WithStartTime(started time.Time) Option {
	return func(s *Sensor) {
		s.started = started
	}
}

func WithLogger(log logger.Logger) Option {
	return func(s *Sensor) {
		s.logger = log
	}
}

// WithEvents sets the capitan instance lifecycle signals are emitted on.
func WithEvents(events *capitan.Capitan) Option {
	return func(s *Sensor) {
		s.events = events
	}
}

type Sensor struct {
	cfg    Config
	open   gpio.Opener
	pub    Publisher
	clock  clockz.Clock
	logger logger.Logger
	events *capitan.Capitan

	state   atomic.Int32
	started time.Time
}

func New(cfg Config, open gpio.Opener, pub Publisher, opts ...Option) *Sensor {
	s := &Sensor{
		cfg:    cfg,
		open:   open,
		pub:    pub,
		clock:  clockz.RealClock,
		logger: logger.Default(),
		events: capitan.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.started.IsZero() {
		s.started = s.clock.Now()
	}

	return s
}

func (s *Sensor) State() State {
	return State(s.state.Load())
}

// Run acquires the line and samples it until ctx is cancelled. The line is
// released on every return path. A failed acquisition or edge source error
// is returned; cancellation is not an error.
func (s *Sensor) Run(ctx context.Context) error {
	errFactory := errors.New()
	emitCtx := context.WithoutCancel(ctx)

	s.setState(StateInitializing)
	s.logger.Info().
		Str("chip", s.cfg.Line.Chip).
		Int("line", s.cfg.Line.Offset).
		Msg("Initializing GPIO...")

	src, err := s.open(s.cfg.Line)
	var runErr error
	defer func() {
		s.release(src)
		s.setState(StateTerminated)

		if runErr != nil {
			s.events.Emit(emitCtx, SensorTerminated,
				KeyState.Field(StateTerminated.String()),
				KeyError.Field(runErr.Error()),
			)
			return
		}
		s.events.Emit(emitCtx, SensorTerminated, KeyState.Field(StateTerminated.String()))
	}()

	if err != nil {
		runErr = errFactory.Wrap(errors.ErrInitFailed, err)
		return runErr
	}

	est := rpm.NewEstimator(s.cfg.Window, src.Now())
	s.publish(rpm.Reading{}, true)

	s.logger.Info().
		Int("line", s.cfg.Line.Offset).
		Dur("debounce", s.cfg.Line.Debounce).
		Dur("timeout", s.cfg.Timeout).
		Int("window", s.cfg.Window).
		Msg("Monitoring wheel sensor")

	s.setState(StateRunning)
	s.events.Emit(emitCtx, SensorStarted, KeyLine.Field(s.cfg.Line.Offset))

	runErr = s.loop(ctx, src, est)

	s.setState(StateDraining)
	s.publish(rpm.Reading{Rate: est.Rate(), Count: est.Count()}, false)

	return runErr
}

func (s *Sensor) loop(ctx context.Context, src gpio.EdgeSource, est *rpm.Estimator) error {
	errFactory := errors.New()
	// capitan drops queued events whose context is cancelled.
	emitCtx := context.WithoutCancel(ctx)

	for ctx.Err() == nil {
		edge, ok, err := src.Wait(ctx, s.cfg.Timeout)
		if err != nil {
			return errFactory.Wrap(errors.ErrSensingLoop, err)
		}

		if ok {
			s.onEdge(emitCtx, est, edge)
			continue
		}

		// Cancelled mid-wait, not a timeout.
		if ctx.Err() != nil {
			break
		}

		if reading, changed := est.OnTimeout(); changed {
			s.publish(reading, true)
			s.logger.Info().
				Uint64("count", reading.Count).
				Msgf("Speed: 0.0 RPM (no rotation for %s)", s.cfg.Timeout)
			s.events.Emit(emitCtx, RotationStopped, KeyCount.Field(int(reading.Count)))
		}
	}

	s.logger.Debug().Str("cause", context.Cause(ctx).Error()).Msg("Sensing loop stopping")

	return nil
}

func (s *Sensor) onEdge(ctx context.Context, est *rpm.Estimator, edge gpio.Edge) {
	reading, err := est.OnEdge(edge.Timestamp)
	if err != nil {
		s.logger.Warn().
			Err(err).
			Uint32("seqno", edge.Seqno).
			Msg("Edge skipped")
		return
	}

	s.publish(reading, true)
	s.logger.Info().
		Uint64("count", reading.Count).
		Float64("rpm", reading.Rate).
		Msgf("Rotation %d: %.1f RPM", reading.Count, reading.Rate)
	s.events.Emit(ctx, RotationDetected, KeyCount.Field(int(reading.Count)))
}

func (s *Sensor) publish(reading rpm.Reading, running bool) {
	snapshot := status.Snapshot{
		RPM:       reading.Rate,
		Count:     reading.Count,
		Timestamp: uint64(s.clock.Since(s.started) / time.Second),
		Running:   running,
	}

	if err := s.pub.Publish(snapshot); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to queue status")
	}
}

func (s *Sensor) release(src gpio.EdgeSource) {
	if src == nil {
		return
	}

	if err := src.Release(); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			s.logger.ErrorWithCode(appErr).Msg("Failed to release GPIO line")
			return
		}
		s.logger.Error().Err(err).Msg("Failed to release GPIO line")
		return
	}

	s.logger.Debug().Int("line", s.cfg.Line.Offset).Msg("GPIO line released")
}

func (s *Sensor) setState(state State) {
	s.state.Store(int32(state))
}
