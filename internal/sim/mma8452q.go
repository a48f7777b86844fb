package sim

import "fmt"

// MMA8452Q simulates the accelerometer resting face up. X, Y, Z are in
// g-units and get re-encoded as the left-justified 12-bit counts the driver
// expects.
type MMA8452Q struct {
	X, Y, Z float64
	regs    map[byte]byte
}

func NewMMA8452Q() *MMA8452Q {
	return &MMA8452Q{
		X: 0.01, Y: -0.02, Z: 1.00,
		regs: map[byte]byte{0x0D: 0x2A}, // WHO_AM_I
	}
}

func (d *MMA8452Q) Tx(w, r []byte) error {
	switch {
	case len(w) == 2 && len(r) == 0:
		d.regs[w[0]] = w[1]
		return nil
	case len(w) == 1 && len(r) == 1:
		if w[0] == 0x00 { // STATUS: fresh data on every poll
			r[0] = 0x08
			return nil
		}
		r[0] = d.regs[w[0]]
		return nil
	case len(w) == 1 && len(r) == 6 && w[0] == 0x01:
		encode(r[0:2], d.X)
		encode(r[2:4], d.Y)
		encode(r[4:6], d.Z)
		return nil
	}
	return fmt.Errorf("sim mma8452q: unsupported transaction w=%d r=%d", len(w), len(r))
}

// encode packs a g-unit value as a left-justified signed 12-bit count.
func encode(out []byte, g float64) {
	counts := int16(g * 1024)
	if counts > 2047 {
		counts = 2047
	}
	if counts < -2048 {
		counts = -2048
	}
	v := counts << 4
	out[0] = byte(uint16(v) >> 8)
	out[1] = byte(uint16(v))
}
