package gpio

import (
	"context"
	"sync"
	"time"
)

// Step is one scripted outcome of Fake.Wait.
type Step struct {
	edge *Edge
	err  error
}

// EdgeAt scripts an edge stamped at ts.
func EdgeAt(ts time.Duration) Step {
	return Step{edge: &Edge{Timestamp: ts}}
}

// Timeout scripts a wait that elapses without an edge.
func Timeout() Step {
	return Step{}
}

// Failure scripts a wait that returns err.
func Failure(err error) Step {
	return Step{err: err}
}

// Fake is an in-memory EdgeSource that replays a script of steps. Once the
// script is exhausted Wait blocks until its context is done.
type Fake struct {
	mu       sync.Mutex
	start    time.Duration
	steps    []Step
	seqno    uint32
	waits    int
	releases int

	drained   chan struct{}
	drainOnce sync.Once
}

func NewFake(start time.Duration, steps ...Step) *Fake {
	return &Fake{
		start:   start,
		steps:   steps,
		drained: make(chan struct{}),
	}
}

// FakeOpener returns an Opener handing out f, together with err if non-nil.
func FakeOpener(f *Fake, err error) Opener {
	return func(Config) (EdgeSource, error) {
		return f, err
	}
}

func (f *Fake) Wait(ctx context.Context, _ time.Duration) (Edge, bool, error) {
	if ctx.Err() != nil {
		return Edge{}, false, nil
	}

	f.mu.Lock()
	f.waits++
	if len(f.steps) == 0 {
		f.mu.Unlock()
		f.drainOnce.Do(func() { close(f.drained) })
		<-ctx.Done()
		return Edge{}, false, nil
	}

	step := f.steps[0]
	f.steps = f.steps[1:]
	f.mu.Unlock()

	switch {
	case step.err != nil:
		return Edge{}, false, step.err
	case step.edge == nil:
		return Edge{}, false, nil
	}

	f.mu.Lock()
	f.seqno++
	edge := *step.edge
	edge.Seqno = f.seqno
	f.mu.Unlock()

	return edge, true, nil
}

func (f *Fake) Now() time.Duration {
	return f.start
}

func (f *Fake) Release() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.releases++
	return nil
}

// Drained is closed once every scripted step has been consumed.
func (f *Fake) Drained() <-chan struct{} {
	return f.drained
}

// Releases returns how many times Release was called.
func (f *Fake) Releases() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.releases
}

// Waits returns how many times Wait was called.
func (f *Fake) Waits() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.waits
}
