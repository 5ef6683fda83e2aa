package status

import (
	"sync"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"codeberg.org/mutker/wheelspeed/internal/logger"
)

// Publisher hands snapshots to a single background writer. Publish never
// waits for I/O: snapshots queue in an unbounded buffer and are written in
// submission order. A failed write is logged and not retried.
type Publisher struct {
	writer Writer
	logger logger.Logger

	mu     sync.Mutex
	buffer []Snapshot
	closed bool

	wakeChan chan struct{}
	doneChan chan struct{}
}

func NewPublisher(w Writer, log logger.Logger) *Publisher {
	p := &Publisher{
		writer:   w,
		logger:   log,
		wakeChan: make(chan struct{}, 1),
		doneChan: make(chan struct{}),
	}

	go p.drain()

	return p
}

// Publish queues snapshot for writing. After Close it returns
// ErrPublisherGone and drops the snapshot.
func (p *Publisher) Publish(snapshot Snapshot) error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		p.logger.Warn().Uint64("count", snapshot.Count).Msg("Status dropped, publisher closed")
		return errors.New().New(ErrPublisherGone)
	}
	p.buffer = append(p.buffer, snapshot)

	// Sent under mu so Close cannot close wakeChan underneath us.
	select {
	case p.wakeChan <- struct{}{}:
	default:
	}
	p.mu.Unlock()

	return nil
}

// Close stops accepting snapshots and waits until everything already queued
// has been written.
func (p *Publisher) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.wakeChan)
	}
	p.mu.Unlock()

	<-p.doneChan
}

func (p *Publisher) drain() {
	defer close(p.doneChan)

	for {
		_, open := <-p.wakeChan

		for {
			p.mu.Lock()
			if len(p.buffer) == 0 {
				p.mu.Unlock()
				break
			}
			batch := p.buffer
			p.buffer = nil
			p.mu.Unlock()

			for _, snapshot := range batch {
				p.write(snapshot)
			}
		}

		if !open {
			return
		}
	}
}

func (p *Publisher) write(snapshot Snapshot) {
	if err := p.writer.Write(snapshot); err != nil {
		var appErr errors.Error
		if errors.As(err, &appErr) {
			p.logger.ErrorWithCode(appErr).Uint64("count", snapshot.Count).Msg("Failed to write status")
			return
		}
		p.logger.Error().Err(err).Uint64("count", snapshot.Count).Msg("Failed to write status")
		return
	}

	p.logger.Debug().
		Float64("rpm", snapshot.RPM).
		Uint64("count", snapshot.Count).
		Bool("running", snapshot.Running).
		Msg("Status written")
}
