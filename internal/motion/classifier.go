package motion

import "math"

// Orientation of the bracelet derived from the dominant axis.
type Orientation string

const (
	FaceUp    Orientation = "boca_arriba"
	FaceDown  Orientation = "boca_abajo"
	Undefined Orientation = "indefinida"
)

const (
	axisLimitG    = 4.0 // beyond this a single axis is a transient glitch
	movingLimitG  = 1.5
	dominanceMinG = 0.5
)

// Reading is the classification of one acceleration triple. Axis validity
// gates publication only; an out-of-range axis never marks the sensor
// unhealthy.
type Reading struct {
	X, Y, Z     float64
	XValid      bool
	YValid      bool
	ZValid      bool
	Magnitude   float64
	Orientation Orientation
	Moving      bool
}

// Classify derives magnitude, orientation and movement from a triple in
// g-units. Orientation is Undefined unless z dominates both other axes and
// |z| clears the 0.5 g threshold.
func Classify(x, y, z float64) Reading {
	r := Reading{
		X: x, Y: y, Z: z,
		XValid:    x >= -axisLimitG && x <= axisLimitG,
		YValid:    y >= -axisLimitG && y <= axisLimitG,
		ZValid:    z >= -axisLimitG && z <= axisLimitG,
		Magnitude: math.Sqrt(x*x + y*y + z*z),
	}

	r.Orientation = Undefined
	if math.Abs(z) > math.Abs(x) && math.Abs(z) > math.Abs(y) {
		switch {
		case z > dominanceMinG:
			r.Orientation = FaceUp
		case z < -dominanceMinG:
			r.Orientation = FaceDown
		}
	}

	r.Moving = r.Magnitude > movingLimitG
	return r
}
