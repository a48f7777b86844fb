package sim

import "fmt"

// HTU21D simulates the temperature/humidity sensor. Measurements are
// encoded through the inverse datasheet formulas so the driver's conversion
// and CRC paths are exercised for real.
type HTU21D struct {
	Temperature float64
	Humidity    float64

	lastCmd byte
}

func NewHTU21D() *HTU21D {
	return &HTU21D{Temperature: 22.5, Humidity: 45.0}
}

func (d *HTU21D) Tx(w, r []byte) error {
	if len(w) > 0 {
		d.lastCmd = w[0]
	}
	if len(r) == 0 {
		return nil
	}

	switch d.lastCmd {
	case 0xE7: // user register probe
		r[0] = 0x02
		return nil
	case 0xF3:
		d.frame(r, (d.Temperature+46.85)/175.72)
		return nil
	case 0xF5:
		d.frame(r, (d.Humidity+6.0)/125.0)
		return nil
	}
	return fmt.Errorf("sim htu21d: read after unsupported command 0x%02X", d.lastCmd)
}

func (d *HTU21D) frame(r []byte, fraction float64) {
	raw := uint16(fraction*65536.0) &^ 0x0003
	if len(r) >= 3 {
		r[0] = byte(raw >> 8)
		r[1] = byte(raw)
		r[2] = crc8(r[:2])
	}
}

// crc8 mirrors the sensor checksum, polynomial x^8 + x^5 + x^4 + 1.
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
