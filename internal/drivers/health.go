package drivers

// Health is the per-sensor bring-up record. It is written once during boot
// and downgraded never; a sensor that fails Init stays out for the whole
// session.
type Health struct {
	OK     bool
	Reason string
}

// Pass marks the sensor healthy.
func (h *Health) Pass() {
	h.OK = true
	h.Reason = ""
}

// Fail marks the sensor unhealthy with the reason reported at bring-up.
func (h *Health) Fail(reason string) {
	h.OK = false
	h.Reason = reason
}
