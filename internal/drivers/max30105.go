package drivers

import (
	"fmt"
	"time"

	"pulsera-firmware/internal/bus"
	"pulsera-firmware/internal/clock"
)

// MAX30105 pulse-oximetry front end, used here for IR-only heart-rate input.
const (
	max30105Addr uint16 = 0x57

	max30105RegFIFOWrPtr byte = 0x04
	max30105RegOvfCount  byte = 0x05
	max30105RegFIFORdPtr byte = 0x06
	max30105RegFIFOData  byte = 0x07
	max30105RegFIFOCfg   byte = 0x08
	max30105RegModeCfg   byte = 0x09
	max30105RegSpO2Cfg   byte = 0x0A
	max30105RegLed1PA    byte = 0x0C // red
	max30105RegLed2PA    byte = 0x0D // IR
	max30105RegLed3PA    byte = 0x0E // green
	max30105RegPartID    byte = 0xFF

	max30105PartID byte = 0x15

	max30105Reset     byte = 0x40
	max30105ModeSpO2  byte = 0x03 // red + IR
	max30105FIFOAvg4  byte = 0x40
	max30105Rollover  byte = 0x10
	max30105ADC4096   byte = 0x20
	max30105Rate100   byte = 0x04
	max30105Pulse411  byte = 0x03
	max30105RedLowPA  byte = 0x0A // low but visible, shows the sensor is running
	max30105IRDrivePA byte = 0x1F
)

// MAX30105 exposes the latest IR photodiode count without ever blocking for
// a new conversion; when the FIFO has nothing new, the previous count is
// returned again.
type MAX30105 struct {
	bus    *bus.Host
	clk    clock.Clock
	lastIR uint32
}

func NewMAX30105(b *bus.Host, clk clock.Clock) *MAX30105 {
	return &MAX30105{bus: b, clk: clk}
}

// Init resets the part, verifies its ID and configures red+IR acquisition
// with the red LED at low drive and the green LED off.
func (d *MAX30105) Init() error {
	if err := d.bus.WriteReg(max30105Addr, max30105RegModeCfg, max30105Reset); err != nil {
		return fmt.Errorf("max30105 reset: %w", err)
	}
	d.clk.Sleep(10 * time.Millisecond)

	id, err := d.bus.ReadReg(max30105Addr, max30105RegPartID)
	if err != nil {
		return fmt.Errorf("max30105 part id: %w", err)
	}
	if id != max30105PartID {
		return fmt.Errorf("max30105 unexpected part id 0x%02X", id)
	}

	steps := []struct {
		reg, val byte
	}{
		{max30105RegFIFOCfg, max30105FIFOAvg4 | max30105Rollover},
		{max30105RegModeCfg, max30105ModeSpO2},
		{max30105RegSpO2Cfg, max30105ADC4096 | max30105Rate100 | max30105Pulse411},
		{max30105RegLed1PA, max30105RedLowPA},
		{max30105RegLed2PA, max30105IRDrivePA},
		{max30105RegLed3PA, 0x00},
		{max30105RegFIFOWrPtr, 0x00},
		{max30105RegOvfCount, 0x00},
		{max30105RegFIFORdPtr, 0x00},
	}
	for _, s := range steps {
		if err := d.bus.WriteReg(max30105Addr, s.reg, s.val); err != nil {
			return fmt.Errorf("max30105 setup reg 0x%02X: %w", s.reg, err)
		}
	}
	return nil
}

// ReadIR drains one red+IR pair from the FIFO if a new one is available and
// returns the IR count. Without new data it repeats the previous count.
func (d *MAX30105) ReadIR() (uint32, error) {
	wr, err := d.bus.ReadReg(max30105Addr, max30105RegFIFOWrPtr)
	if err != nil {
		return 0, fmt.Errorf("max30105 fifo wr ptr: %w", err)
	}
	rd, err := d.bus.ReadReg(max30105Addr, max30105RegFIFORdPtr)
	if err != nil {
		return 0, fmt.Errorf("max30105 fifo rd ptr: %w", err)
	}
	if wr == rd {
		return d.lastIR, nil
	}

	var frame [6]byte // 3 bytes red, 3 bytes IR
	if err := d.bus.ReadRegs(max30105Addr, max30105RegFIFOData, frame[:]); err != nil {
		return 0, fmt.Errorf("max30105 fifo data: %w", err)
	}
	ir := uint32(frame[3])<<16 | uint32(frame[4])<<8 | uint32(frame[5])
	d.lastIR = ir & 0x3FFFF // ADC is 18 bit
	return d.lastIR, nil
}
