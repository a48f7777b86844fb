package drivers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pulsera-firmware/internal/bus"
	"pulsera-firmware/internal/clock"
	"pulsera-firmware/internal/sim"
)

func testHost(i2c *sim.Bus) *bus.Host {
	return bus.New(i2c, 6, 7, 100000)
}

// regRecorder is a bare register device: reads come from a canned map,
// writes are captured for assertions.
type regRecorder struct {
	reads  map[byte]byte
	writes map[byte]byte
}

func newRecorder(reads map[byte]byte) *regRecorder {
	return &regRecorder{reads: reads, writes: map[byte]byte{}}
}

func (d *regRecorder) Tx(w, r []byte) error {
	switch {
	case len(w) == 2 && len(r) == 0:
		d.writes[w[0]] = w[1]
	case len(w) == 1 && len(r) >= 1:
		r[0] = d.reads[w[0]]
	}
	return nil
}

func TestHTU21DSample(t *testing.T) {
	clk := &clock.Fake{}
	d := NewHTU21D(testHost(sim.NewBus()), clk)

	require.NoError(t, d.Init())

	s, err := d.Sample()
	require.NoError(t, err)
	assert.True(t, s.TempValid)
	assert.True(t, s.HumValid)
	assert.InDelta(t, 22.5, s.Temperature, 0.02)
	assert.InDelta(t, 45.0, s.Humidity, 0.02)
}

func TestHTU21DMissingAtBoot(t *testing.T) {
	d := NewHTU21D(testHost(sim.NewEmptyBus()), &clock.Fake{})
	assert.Error(t, d.Init())
}

type corruptFrame struct{}

func (corruptFrame) Tx(w, r []byte) error {
	if len(r) == 3 {
		r[0], r[1], r[2] = 0x66, 0x4C, 0x00 // wrong checksum
	} else if len(r) == 1 {
		r[0] = 0x02
	}
	return nil
}

func TestHTU21DCRCMismatchFailsSample(t *testing.T) {
	b := sim.NewEmptyBus()
	b.Attach(0x40, corruptFrame{})
	d := NewHTU21D(testHost(b), &clock.Fake{})

	require.NoError(t, d.Init())
	_, err := d.Sample()
	assert.ErrorContains(t, err, "crc mismatch")
}

func TestMAX30105InitConfiguresLEDs(t *testing.T) {
	rec := newRecorder(map[byte]byte{0xFF: 0x15})
	b := sim.NewEmptyBus()
	b.Attach(0x57, rec)

	d := NewMAX30105(testHost(b), &clock.Fake{})
	require.NoError(t, d.Init())

	// Red LED low but non-zero, green off, red+IR mode.
	assert.Equal(t, byte(0x0A), rec.writes[0x0C])
	assert.NotZero(t, rec.writes[0x0D], "IR drive must stay on")
	assert.Equal(t, byte(0x00), rec.writes[0x0E])
	assert.Equal(t, byte(0x03), rec.writes[0x09])
}

func TestMAX30105RejectsWrongPartID(t *testing.T) {
	rec := newRecorder(map[byte]byte{0xFF: 0x11})
	b := sim.NewEmptyBus()
	b.Attach(0x57, rec)

	d := NewMAX30105(testHost(b), &clock.Fake{})
	assert.ErrorContains(t, d.Init(), "part id")
}

func TestMAX30105ReadIR(t *testing.T) {
	d := NewMAX30105(testHost(sim.NewBus()), &clock.Fake{})
	require.NoError(t, d.Init())

	ir, err := d.ReadIR()
	require.NoError(t, err)
	assert.Equal(t, uint32(82000), ir)

	// Next FIFO sample sits on the pulse crest.
	ir, err = d.ReadIR()
	require.NoError(t, err)
	assert.Equal(t, uint32(83400), ir)
}

func TestMAX30105RepeatsLastSampleWhenFIFOEmpty(t *testing.T) {
	rec := newRecorder(map[byte]byte{0xFF: 0x15, 0x04: 5, 0x06: 5})
	b := sim.NewEmptyBus()
	b.Attach(0x57, rec)

	d := NewMAX30105(testHost(b), &clock.Fake{})
	require.NoError(t, d.Init())

	ir, err := d.ReadIR()
	require.NoError(t, err)
	assert.Zero(t, ir, "nothing read yet, nothing to repeat")
}

func TestMMA8452QInit(t *testing.T) {
	rec := newRecorder(map[byte]byte{0x0D: 0x2A})
	b := sim.NewEmptyBus()
	b.Attach(0x1D, rec)

	d := NewMMA8452Q(testHost(b))
	require.NoError(t, d.Init())

	assert.Equal(t, byte(0x00), rec.writes[0x0E], "±2 g full scale")
	assert.Equal(t, byte(0x29), rec.writes[0x2A], "12.5 Hz, active")
}

func TestMMA8452QTryRead(t *testing.T) {
	d := NewMMA8452Q(testHost(sim.NewBus()))
	require.NoError(t, d.Init())

	s, err := d.TryRead()
	require.NoError(t, err)
	assert.InDelta(t, 0.01, s.X, 0.002)
	assert.InDelta(t, -0.02, s.Y, 0.002)
	assert.InDelta(t, 1.00, s.Z, 0.002)
}

func TestMMA8452QNoData(t *testing.T) {
	rec := newRecorder(map[byte]byte{0x0D: 0x2A, 0x00: 0x00})
	b := sim.NewEmptyBus()
	b.Attach(0x1D, rec)

	d := NewMMA8452Q(testHost(b))
	require.NoError(t, d.Init())

	_, err := d.TryRead()
	assert.ErrorIs(t, err, ErrNoData)
}

func TestBusDescribe(t *testing.T) {
	h := bus.New(sim.NewEmptyBus(), 6, 7, 100000)
	assert.Equal(t, "I2C: SDA=GPIO6, SCL=GPIO7, 100kHz", h.Describe())
}
