// Package sim provides a register-accurate simulated two-wire bus so the
// firmware can run end-to-end on a development host. Each simulated device
// answers the same register protocol as its hardware counterpart.
package sim

import "fmt"

// Device handles one bus transaction addressed to it.
type Device interface {
	Tx(w, r []byte) error
}

// Bus implements drivers.I2C over a set of attached simulated devices.
type Bus struct {
	devices map[uint16]Device
}

// NewBus returns a bus with the full bracelet sensor set attached: an
// HTU21D at a comfortable room climate, a MAX30105 with a finger resting on
// it, and an MMA8452Q lying face up and still.
func NewBus() *Bus {
	b := &Bus{devices: map[uint16]Device{}}
	b.Attach(0x40, NewHTU21D())
	b.Attach(0x57, NewMAX30105())
	b.Attach(0x1D, NewMMA8452Q())
	return b
}

// NewEmptyBus returns a bus with nothing attached; every transaction fails
// the way an unpopulated hardware bus would.
func NewEmptyBus() *Bus {
	return &Bus{devices: map[uint16]Device{}}
}

func (b *Bus) Attach(addr uint16, d Device) { b.devices[addr] = d }

func (b *Bus) Detach(addr uint16) { delete(b.devices, addr) }

// Tx routes one transaction to the device at addr.
func (b *Bus) Tx(addr uint16, w, r []byte) error {
	d, ok := b.devices[addr]
	if !ok {
		return fmt.Errorf("sim bus: no device answers at 0x%02X", addr)
	}
	return d.Tx(w, r)
}
