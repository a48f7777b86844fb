package heart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func beatNever(uint32) bool { return false }

func TestRestingFingerProducesSixtyBPM(t *testing.T) {
	est := NewEstimator(func(uint32) bool { return true })

	// Beats at 1000 ms intervals for 10 seconds.
	var r Reading
	for ts := int64(1000); ts <= 10000; ts += 1000 {
		r = est.Update(80000, ts)
		assert.Equal(t, 60, r.BPM)
		assert.True(t, r.Finger)
	}
	assert.Equal(t, 60, r.AvgBPM)
}

func TestWarmUpAverageDividesByFullRing(t *testing.T) {
	est := NewEstimator(func(uint32) bool { return true })

	// The average divides by 4 before the ring first fills; the early bias
	// is intentional.
	want := []int{15, 30, 45, 60}
	for i, ts := range []int64{1000, 2000, 3000, 4000} {
		r := est.Update(80000, ts)
		assert.Equal(t, want[i], r.AvgBPM, "after beat %d", i+1)
	}
}

func TestOutOfRangeBeatsStayOutOfRing(t *testing.T) {
	est := NewEstimator(func(uint32) bool { return true })

	// 200 ms delta -> 300 BPM: reported instantaneously, never averaged.
	r := est.Update(80000, 200)
	assert.Equal(t, 300, r.BPM)
	assert.Equal(t, 0, r.AvgBPM)

	// 4000 ms delta -> 15 BPM: also gated out.
	r = est.Update(80000, 4200)
	assert.Equal(t, 15, r.BPM)
	assert.Equal(t, 0, r.AvgBPM)

	// A plausible beat lands in the ring.
	r = est.Update(80000, 5200)
	assert.Equal(t, 60, r.BPM)
	assert.Equal(t, 15, r.AvgBPM)
}

func TestFingerRemovedFreezesRing(t *testing.T) {
	est := NewEstimator(nil)

	// Prime with beats through the default detector is fragile; instead
	// verify the flat low-IR stream: no beats, no ring movement, and the
	// finger is classified away on every reading.
	for ts := int64(2000); ts <= 10000; ts += 2000 {
		r := est.Update(10000, ts)
		assert.False(t, r.Finger)
		assert.Equal(t, 0, r.BPM)
		assert.Equal(t, 0, r.AvgBPM)
	}
}

func TestFingerThresholdBoundary(t *testing.T) {
	est := NewEstimator(beatNever)

	assert.False(t, est.Update(49999, 1000).Finger)
	assert.True(t, est.Update(50000, 2000).Finger)
}

func TestZeroDeltaDoesNotDivide(t *testing.T) {
	est := NewEstimator(func(uint32) bool { return true })
	r := est.Update(80000, 0)
	assert.Equal(t, 0, r.BPM)
	assert.Equal(t, 0, r.AvgBPM)
}
