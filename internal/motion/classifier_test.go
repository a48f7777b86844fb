package motion

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		x, y, z     float64
		orientation Orientation
		moving      bool
	}{
		{"face up and still", 0.01, -0.02, 1.00, FaceUp, false},
		{"face down", 0.03, 0.05, -0.98, FaceDown, false},
		{"shaken", 1.2, -1.3, 1.1, Undefined, true},
		{"on its side", 0.98, 0.02, 0.10, Undefined, false},
		{"z dominant but weak", 0.1, 0.1, 0.3, Undefined, false},
		{"z dominant but weak negative", 0.1, 0.1, -0.3, Undefined, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(tt.x, tt.y, tt.z)
			assert.Equal(t, tt.orientation, r.Orientation)
			assert.Equal(t, tt.moving, r.Moving)
		})
	}
}

func TestMagnitude(t *testing.T) {
	r := Classify(0.01, -0.02, 1.00)
	assert.InDelta(t, 1.000, r.Magnitude, 0.001)

	r = Classify(1.2, -1.3, 1.1)
	assert.InDelta(t, 2.083, r.Magnitude, 0.001)
	assert.True(t, r.Moving)
}

func TestAxisValidityGatesPublicationOnly(t *testing.T) {
	r := Classify(5.2, 0.0, 1.0)
	assert.False(t, r.XValid)
	assert.True(t, r.YValid)
	assert.True(t, r.ZValid)
	// Classification still happens on the raw triple.
	assert.NotZero(t, r.Magnitude)
}

func TestOrientationExclusive(t *testing.T) {
	// Sweep a grid of triples; face_up and face_down can never hold at once
	// because they need opposite signs of z.
	for _, z := range []float64{-2, -1, -0.5, 0, 0.5, 1, 2} {
		for _, x := range []float64{-1, 0, 1} {
			r := Classify(x, 0.2, z)
			if r.Orientation == FaceUp {
				assert.Greater(t, r.Z, 0.5)
			}
			if r.Orientation == FaceDown {
				assert.Less(t, r.Z, -0.5)
			}
		}
	}
}
