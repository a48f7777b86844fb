package bus

import (
	"fmt"

	"tinygo.org/x/drivers"
)

// Host owns the shared two-wire bus. Every sensor driver talks to its device
// through a Host; none of them holds the underlying I2C directly. The system
// is single-threaded, so no locking is needed or wanted here.
type Host struct {
	i2c     drivers.I2C
	SDAPin  int
	SCLPin  int
	ClockHz int
}

// New wraps an already-configured I2C transport. The transport must have been
// opened at the pins and clock recorded here; the Host only keeps them for
// the boot-time config report.
func New(i2c drivers.I2C, sdaPin, sclPin, clockHz int) *Host {
	return &Host{i2c: i2c, SDAPin: sdaPin, SCLPin: sclPin, ClockHz: clockHz}
}

// Describe returns the bus configuration line published on sensores/config.
func (h *Host) Describe() string {
	return fmt.Sprintf("I2C: SDA=GPIO%d, SCL=GPIO%d, %dkHz", h.SDAPin, h.SCLPin, h.ClockHz/1000)
}

// WriteCmd sends a bare command byte (HTU21D command style).
func (h *Host) WriteCmd(addr uint16, cmd byte) error {
	if err := h.i2c.Tx(addr, []byte{cmd}, nil); err != nil {
		return fmt.Errorf("i2c write cmd 0x%02X to 0x%02X: %w", cmd, addr, err)
	}
	return nil
}

// WriteReg writes one byte to a device register.
func (h *Host) WriteReg(addr uint16, reg, val byte) error {
	if err := h.i2c.Tx(addr, []byte{reg, val}, nil); err != nil {
		return fmt.Errorf("i2c write reg 0x%02X on 0x%02X: %w", reg, addr, err)
	}
	return nil
}

// ReadReg reads one byte from a device register.
func (h *Host) ReadReg(addr uint16, reg byte) (byte, error) {
	var buf [1]byte
	if err := h.i2c.Tx(addr, []byte{reg}, buf[:]); err != nil {
		return 0, fmt.Errorf("i2c read reg 0x%02X on 0x%02X: %w", reg, addr, err)
	}
	return buf[0], nil
}

// ReadRegs reads len(buf) bytes starting at a device register.
func (h *Host) ReadRegs(addr uint16, reg byte, buf []byte) error {
	if err := h.i2c.Tx(addr, []byte{reg}, buf); err != nil {
		return fmt.Errorf("i2c read %d bytes at 0x%02X on 0x%02X: %w", len(buf), reg, addr, err)
	}
	return nil
}

// Read reads len(buf) bytes without addressing a register first, used for
// no-hold measurement results.
func (h *Host) Read(addr uint16, buf []byte) error {
	if err := h.i2c.Tx(addr, nil, buf); err != nil {
		return fmt.Errorf("i2c read %d bytes from 0x%02X: %w", len(buf), addr, err)
	}
	return nil
}
