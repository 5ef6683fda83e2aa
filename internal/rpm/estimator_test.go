package rpm_test

import (
	"math/rand"
	"testing"
	"time"

	"codeberg.org/mutker/wheelspeed/internal/errors"
	"codeberg.org/mutker/wheelspeed/internal/rpm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sec(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func TestSteadyOneHertz(t *testing.T) {
	e := rpm.NewEstimator(3, 0)

	for _, ts := range []float64{1, 2, 3} {
		_, err := e.OnEdge(sec(ts))
		require.NoError(t, err)
	}

	assert.InDelta(t, 60.0, e.Rate(), 1e-9)
	assert.Equal(t, uint64(3), e.Count())
	assert.Equal(t, 3, e.Samples())
}

func TestHalfSecondThenTimeout(t *testing.T) {
	e := rpm.NewEstimator(3, 0)

	_, err := e.OnEdge(sec(0.5))
	require.NoError(t, err)
	r, err := e.OnEdge(sec(1.0))
	require.NoError(t, err)
	assert.InDelta(t, 120.0, r.Rate, 1e-9)
	assert.Equal(t, uint64(2), r.Count)

	r, changed := e.OnTimeout()
	assert.True(t, changed)
	assert.Equal(t, rpm.Reading{Rate: 0, Count: 2}, r)
	assert.Equal(t, 0, e.Samples())

	r, changed = e.OnTimeout()
	assert.False(t, changed, "a second timeout must not report a change")
	assert.Equal(t, rpm.Reading{Rate: 0, Count: 2}, r)
}

func TestTimeoutBeforeAnyEdge(t *testing.T) {
	e := rpm.NewEstimator(3, 0)

	_, changed := e.OnTimeout()
	assert.False(t, changed)
}

func TestWindowEvictsOldest(t *testing.T) {
	e := rpm.NewEstimator(3, 0)

	// Intervals 1s, 0.5s, 0.25s, 0.25s -> rates 60, 120, 240, 240.
	for _, ts := range []float64{1, 1.5, 1.75, 2.0} {
		_, err := e.OnEdge(sec(ts))
		require.NoError(t, err)
	}

	assert.InDelta(t, (120.0+240.0+240.0)/3, e.Rate(), 1e-9)
	assert.Equal(t, 3, e.Samples())
	assert.Equal(t, uint64(4), e.Count())
}

func TestRestartAfterTimeout(t *testing.T) {
	e := rpm.NewEstimator(3, 0)

	_, _ = e.OnEdge(sec(1))
	_, _ = e.OnEdge(sec(2))
	e.OnTimeout()

	// The first interval after a stop is measured from the last edge.
	r, err := e.OnEdge(sec(6))
	require.NoError(t, err)
	assert.InDelta(t, 15.0, r.Rate, 1e-9)
	assert.Equal(t, uint64(3), r.Count)
	assert.Equal(t, 1, e.Samples())
}

func TestInvalidInterval(t *testing.T) {
	e := rpm.NewEstimator(3, sec(5))

	tests := []struct {
		name string
		at   time.Duration
	}{
		{"zero", sec(5)},
		{"negative", sec(4)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := e.OnEdge(tt.at)
			require.Error(t, err)
			assert.True(t, errors.HasCode(err, rpm.ErrInvalidInterval))
			assert.Equal(t, rpm.Reading{}, r)
			assert.Equal(t, uint64(0), e.Count())
			assert.Equal(t, 0, e.Samples())
		})
	}

	r, err := e.OnEdge(sec(6))
	require.NoError(t, err)
	assert.InDelta(t, 60.0, r.Rate, 1e-9)
}

func TestCapacityCoerced(t *testing.T) {
	e := rpm.NewEstimator(0, 0)

	_, _ = e.OnEdge(sec(1))
	_, _ = e.OnEdge(sec(1.5))

	assert.Equal(t, 1, e.Samples())
	assert.InDelta(t, 120.0, e.Rate(), 1e-9)
}

// After edge i the rate is the mean of the last min(i, 3) instantaneous rates.
func TestMeanOfLastThree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for trial := 0; trial < 50; trial++ {
		e := rpm.NewEstimator(3, 0)

		var (
			now   time.Duration
			rates []float64
		)
		for i := 1; i <= 20; i++ {
			d := time.Duration(1 + rng.Int63n(int64(3*time.Second))) // > 0
			now += d
			rates = append(rates, 60/d.Seconds())

			r, err := e.OnEdge(now)
			require.NoError(t, err)

			lo := max(0, len(rates)-3)
			sum := 0.0
			for _, x := range rates[lo:] {
				sum += x
			}
			want := sum / float64(len(rates)-lo)

			require.Equal(t, uint64(i), r.Count)
			require.InEpsilon(t, want, r.Rate, 1e-9)
		}
	}
}
