package heart

// BeatDetector is the default beat predicate: a slow exponential tracker
// follows the DC level of the IR signal, and a beat fires on the rising
// crossing of the AC residue above a small margin. A flat signal, with or
// without a finger present, produces no beats.
type BeatDetector struct {
	baseline float64
	prevAC   float64
	primed   bool
}

func NewBeatDetector() *BeatDetector {
	return &BeatDetector{}
}

// Check consumes one IR sample and reports whether it completes a beat.
func (d *BeatDetector) Check(ir uint32) bool {
	v := float64(ir)
	if !d.primed {
		d.baseline = v
		d.primed = true
		return false
	}

	d.baseline += (v - d.baseline) / 16
	ac := v - d.baseline

	margin := d.baseline / 500
	if margin < 25 {
		margin = 25
	}

	fired := d.prevAC <= margin && ac > margin
	d.prevAC = ac
	return fired
}
