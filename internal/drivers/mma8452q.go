package drivers

import (
	"errors"
	"fmt"

	"pulsera-firmware/internal/bus"
)

// MMA8452Q 3-axis accelerometer, ±2 g full scale, 12-bit samples.
const (
	mma8452qAddr uint16 = 0x1D

	mma8452qRegStatus     byte = 0x00
	mma8452qRegOutXMSB    byte = 0x01
	mma8452qRegWhoAmI     byte = 0x0D
	mma8452qRegXYZDataCfg byte = 0x0E
	mma8452qRegCtrl1      byte = 0x2A

	mma8452qWhoAmI   byte = 0x2A
	mma8452qScale2G  byte = 0x00
	mma8452qODR12Hz  byte = 0x28 // 12.5 Hz, plenty for a 2 s tick
	mma8452qActive   byte = 0x01
	mma8452qZYXDataR byte = 0x08

	mma8452qCountsPerG = 1024.0 // 12-bit at ±2 g
)

// ErrNoData reports that the accelerometer has not produced a new sample
// since the last read. Transient and non-fatal.
var ErrNoData = errors.New("mma8452q: no new sample")

// AccelSample is one acceleration triple in g-units.
type AccelSample struct {
	X, Y, Z float64
}

type MMA8452Q struct {
	bus *bus.Host
}

func NewMMA8452Q(b *bus.Host) *MMA8452Q {
	return &MMA8452Q{bus: b}
}

// Init verifies WHO_AM_I, then configures ±2 g full scale and a low output
// data rate. Configuration registers only accept writes in standby.
func (d *MMA8452Q) Init() error {
	id, err := d.bus.ReadReg(mma8452qAddr, mma8452qRegWhoAmI)
	if err != nil {
		return fmt.Errorf("mma8452q who_am_i: %w", err)
	}
	if id != mma8452qWhoAmI {
		return fmt.Errorf("mma8452q unexpected who_am_i 0x%02X", id)
	}

	if err := d.bus.WriteReg(mma8452qAddr, mma8452qRegCtrl1, 0x00); err != nil {
		return fmt.Errorf("mma8452q standby: %w", err)
	}
	if err := d.bus.WriteReg(mma8452qAddr, mma8452qRegXYZDataCfg, mma8452qScale2G); err != nil {
		return fmt.Errorf("mma8452q scale: %w", err)
	}
	if err := d.bus.WriteReg(mma8452qAddr, mma8452qRegCtrl1, mma8452qODR12Hz|mma8452qActive); err != nil {
		return fmt.Errorf("mma8452q activate: %w", err)
	}
	return nil
}

// TryRead returns the latest triple, or ErrNoData when the sensor has not
// refreshed since the previous read.
func (d *MMA8452Q) TryRead() (AccelSample, error) {
	status, err := d.bus.ReadReg(mma8452qAddr, mma8452qRegStatus)
	if err != nil {
		return AccelSample{}, fmt.Errorf("mma8452q status: %w", err)
	}
	if status&mma8452qZYXDataR == 0 {
		return AccelSample{}, ErrNoData
	}

	var raw [6]byte
	if err := d.bus.ReadRegs(mma8452qAddr, mma8452qRegOutXMSB, raw[:]); err != nil {
		return AccelSample{}, fmt.Errorf("mma8452q data: %w", err)
	}
	return AccelSample{
		X: counts(raw[0], raw[1]) / mma8452qCountsPerG,
		Y: counts(raw[2], raw[3]) / mma8452qCountsPerG,
		Z: counts(raw[4], raw[5]) / mma8452qCountsPerG,
	}, nil
}

// counts converts a left-justified 12-bit big-endian pair to a signed count.
func counts(msb, lsb byte) float64 {
	return float64(int16(uint16(msb)<<8|uint16(lsb)) / 16)
}
