package sim

import (
	"fmt"
	"math"
)

// MAX30105 simulates the optical front end. The IR channel carries a
// synthetic photoplethysmogram: a DC level with a small periodic pulse on
// top. With the default baseline a finger reads as present.
type MAX30105 struct {
	Baseline  float64 // IR DC level in counts
	Amplitude float64 // pulse height in counts
	Period    int     // samples per simulated beat

	regs   map[byte]byte
	rdPtr  byte
	wrPtr  byte
	sample int
}

func NewMAX30105() *MAX30105 {
	return &MAX30105{
		Baseline:  82000,
		Amplitude: 1400,
		Period:    4,
		regs:      map[byte]byte{0xFF: 0x15}, // part ID
	}
}

func (d *MAX30105) Tx(w, r []byte) error {
	switch {
	case len(w) == 2 && len(r) == 0:
		d.regs[w[0]] = w[1]
		return nil
	case len(w) == 1 && len(r) == 1:
		return d.readReg(w[0], r)
	case len(w) == 1 && len(r) == 6 && w[0] == 0x07:
		d.readFIFO(r)
		return nil
	}
	return fmt.Errorf("sim max30105: unsupported transaction w=%d r=%d", len(w), len(r))
}

func (d *MAX30105) readReg(reg byte, r []byte) error {
	switch reg {
	case 0x04: // FIFO write pointer: one new sample per poll
		d.wrPtr = d.rdPtr + 1
		r[0] = d.wrPtr
	case 0x06:
		r[0] = d.rdPtr
	default:
		r[0] = d.regs[reg]
	}
	return nil
}

func (d *MAX30105) readFIFO(r []byte) {
	ir := uint32(d.ir())
	red := ir / 4

	r[0] = byte(red >> 16)
	r[1] = byte(red >> 8)
	r[2] = byte(red)
	r[3] = byte(ir >> 16)
	r[4] = byte(ir >> 8)
	r[5] = byte(ir)

	d.rdPtr = d.wrPtr
	d.sample++
}

func (d *MAX30105) ir() float64 {
	if d.Period <= 0 {
		return d.Baseline
	}
	phase := 2 * math.Pi * float64(d.sample%d.Period) / float64(d.Period)
	pulse := math.Sin(phase)
	if pulse < 0 {
		pulse = 0
	}
	return d.Baseline + d.Amplitude*pulse
}
