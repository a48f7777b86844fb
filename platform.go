package main

import (
	"fmt"

	"tinygo.org/x/drivers"

	"pulsera-firmware/config"
	"pulsera-firmware/internal/sim"
)

// openI2C selects the two-wire transport. Hosted builds default to the
// simulated bus; on-target builds replace this seam with the machine I2C of
// the microcontroller.
func openI2C(cfg config.BusConfig) (drivers.I2C, error) {
	switch cfg.Driver {
	case "sim":
		return sim.NewBus(), nil
	case "sim-empty":
		return sim.NewEmptyBus(), nil
	}
	return nil, fmt.Errorf("unknown bus driver %q", cfg.Driver)
}
