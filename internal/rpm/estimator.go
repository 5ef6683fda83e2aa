// Package rpm turns edge timestamps into a smoothed rotational speed.
package rpm

import (
	"time"

	"codeberg.org/mutker/wheelspeed/internal/errors"
)

const secondsPerMinute = 60.0

// Reading is the estimator output after an edge or a timeout.
type Reading struct {
	Rate  float64
	Count uint64
}

// Estimator keeps a FIFO window of instantaneous rates, one edge per
// revolution. It is not safe for concurrent use.
type Estimator struct {
	capacity int
	window   []float64
	lastEdge time.Duration
	rate     float64
	count    uint64
}

// NewEstimator returns an estimator averaging over the last capacity
// intervals. Intervals are measured from start until the first edge.
func NewEstimator(capacity int, start time.Duration) *Estimator {
	if capacity < 1 {
		capacity = 1
	}

	return &Estimator{
		capacity: capacity,
		window:   make([]float64, 0, capacity),
		lastEdge: start,
	}
}

// OnEdge accepts an edge at now. A non-positive interval is rejected with
// ErrInvalidInterval and leaves the state untouched.
func (e *Estimator) OnEdge(now time.Duration) (Reading, error) {
	dt := now - e.lastEdge
	if dt <= 0 {
		return e.reading(), errors.New().WithData(ErrInvalidInterval, dt)
	}

	instant := secondsPerMinute / dt.Seconds()

	e.window = append(e.window, instant)
	if len(e.window) > e.capacity {
		e.window = e.window[1:]
	}

	sum := 0.0
	for _, r := range e.window {
		sum += r
	}
	e.rate = sum / float64(len(e.window))

	e.count++
	e.lastEdge = now

	return e.reading(), nil
}

// OnTimeout drops the rate to zero and empties the window. changed is false
// if the rate was already zero.
func (e *Estimator) OnTimeout() (reading Reading, changed bool) {
	if e.rate == 0 {
		return e.reading(), false
	}

	e.rate = 0
	e.window = e.window[:0]

	return e.reading(), true
}

func (e *Estimator) Rate() float64 {
	return e.rate
}

func (e *Estimator) Count() uint64 {
	return e.count
}

// Samples returns the number of instantaneous rates in the window.
func (e *Estimator) Samples() int {
	return len(e.window)
}

func (e *Estimator) reading() Reading {
	return Reading{Rate: e.rate, Count: e.count}
}
