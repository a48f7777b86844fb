package heart

// FingerThreshold is the IR count below which no finger is considered to be
// resting on the optical sensor.
const FingerThreshold = 50000

// ringSize is the number of accepted BPM values kept for smoothing.
const ringSize = 4

// BeatFunc is the beat-detection predicate applied to each incoming IR
// sample. It returns true exactly when the sample completes a heartbeat.
type BeatFunc func(ir uint32) bool

// Reading is what the estimator derives from one IR sample.
type Reading struct {
	IR     uint32
	BPM    int
	AvgBPM int
	Finger bool
}

// Estimator turns the tick-cadence IR stream into smoothed beats per minute.
// The ring buffer only ever holds values strictly inside (20, 255); the
// average divides by the full ring size even before the ring first fills,
// which biases early averages low on purpose.
type Estimator struct {
	detect BeatFunc

	ring     [ringSize]int
	spot     int
	lastBeat int64
	bpm      float64
	avg      int
}

// NewEstimator builds an estimator around the given beat predicate; a nil
// predicate selects the default rising-edge detector.
func NewEstimator(detect BeatFunc) *Estimator {
	if detect == nil {
		detect = NewBeatDetector().Check
	}
	return &Estimator{detect: detect}
}

// Update processes one IR sample taken at nowMs and returns the derived
// reading. It never fails; out-of-range beats are reported instantaneously
// but kept out of the average.
func (e *Estimator) Update(ir uint32, nowMs int64) Reading {
	if e.detect(ir) {
		delta := nowMs - e.lastBeat
		e.lastBeat = nowMs

		if delta > 0 {
			e.bpm = 60000.0 / float64(delta)
			if e.bpm > 20 && e.bpm < 255 {
				e.ring[e.spot] = int(e.bpm)
				e.spot = (e.spot + 1) % ringSize

				sum := 0
				for _, v := range e.ring {
					sum += v
				}
				e.avg = sum / ringSize
			}
		}
	}

	return Reading{
		IR:     ir,
		BPM:    int(e.bpm),
		AvgBPM: e.avg,
		Finger: ir >= FingerThreshold,
	}
}
