package drivers

import (
	"fmt"
	"math"
	"time"

	"pulsera-firmware/internal/bus"
	"pulsera-firmware/internal/clock"
)

// HTU21D ambient temperature/humidity sensor.
const (
	htu21dAddr uint16 = 0x40

	htu21dCmdTempNoHold  byte = 0xF3
	htu21dCmdHumidNoHold byte = 0xF5
	htu21dCmdReadUserReg byte = 0xE7
	htu21dCmdSoftReset   byte = 0xFE
)

// EnvSample is one temperature/humidity measurement. Fields outside the
// physical range of the sensor are flagged invalid rather than dropped, so
// the other field of the pair can still be published.
type EnvSample struct {
	Temperature float64
	Humidity    float64
	TempValid   bool
	HumValid    bool
}

// HTU21D adapts the temperature/humidity sensor to the acquisition tick.
type HTU21D struct {
	bus *bus.Host
	clk clock.Clock
}

func NewHTU21D(b *bus.Host, clk clock.Clock) *HTU21D {
	return &HTU21D{bus: b, clk: clk}
}

// Init soft-resets the sensor and probes the user register to confirm the
// device answers on the bus.
func (d *HTU21D) Init() error {
	if err := d.bus.WriteCmd(htu21dAddr, htu21dCmdSoftReset); err != nil {
		return fmt.Errorf("htu21d reset: %w", err)
	}
	d.clk.Sleep(15 * time.Millisecond)

	if _, err := d.bus.ReadReg(htu21dAddr, htu21dCmdReadUserReg); err != nil {
		return fmt.Errorf("htu21d probe: %w", err)
	}
	return nil
}

// Sample runs a no-hold temperature and humidity conversion. A bus or CRC
// failure aborts the whole sample; out-of-range values only clear the
// corresponding validity flag.
func (d *HTU21D) Sample() (EnvSample, error) {
	rawTemp, err := d.measure(htu21dCmdTempNoHold, 50*time.Millisecond)
	if err != nil {
		return EnvSample{}, fmt.Errorf("htu21d temperature: %w", err)
	}
	rawHum, err := d.measure(htu21dCmdHumidNoHold, 16*time.Millisecond)
	if err != nil {
		return EnvSample{}, fmt.Errorf("htu21d humidity: %w", err)
	}

	s := EnvSample{
		// Datasheet conversions.
		Temperature: -46.85 + 175.72*float64(rawTemp)/65536.0,
		Humidity:    -6.0 + 125.0*float64(rawHum)/65536.0,
	}
	s.TempValid = !math.IsNaN(s.Temperature) && s.Temperature >= -40 && s.Temperature <= 125
	s.HumValid = !math.IsNaN(s.Humidity) && s.Humidity >= 0 && s.Humidity <= 100
	return s, nil
}

func (d *HTU21D) measure(cmd byte, conversion time.Duration) (uint16, error) {
	if err := d.bus.WriteCmd(htu21dAddr, cmd); err != nil {
		return 0, err
	}
	d.clk.Sleep(conversion)

	var frame [3]byte
	if err := d.bus.Read(htu21dAddr, frame[:]); err != nil {
		return 0, err
	}
	if crc8(frame[:2]) != frame[2] {
		return 0, fmt.Errorf("crc mismatch on frame %02X %02X %02X", frame[0], frame[1], frame[2])
	}

	raw := uint16(frame[0])<<8 | uint16(frame[1])
	return raw &^ 0x0003, nil // strip the two status bits
}

// crc8 implements the HTU21D checksum, polynomial x^8 + x^5 + x^4 + 1.
func crc8(data []byte) byte {
	var crc byte
	for _, b := range data {
		crc ^= b
		for i := 0; i < 8; i++ {
			if crc&0x80 != 0 {
				crc = crc<<1 ^ 0x31
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}
