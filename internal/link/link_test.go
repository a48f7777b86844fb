package link

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"pulsera-firmware/internal/clock"
)

type published struct {
	topic, payload string
}

type fakeBroker struct {
	connected  bool
	connectErr error
	connects   int
	msgs       []published
}

func (f *fakeBroker) Connect() error {
	f.connects++
	if f.connectErr != nil {
		return f.connectErr
	}
	f.connected = true
	return nil
}

func (f *fakeBroker) Publish(topic, payload string) error {
	f.msgs = append(f.msgs, published{topic, payload})
	return nil
}

func (f *fakeBroker) IsConnected() bool { return f.connected }

func (f *fakeBroker) Disconnect() { f.connected = false }

type fakeStation struct {
	associated bool
	ip         string
}

func (f *fakeStation) Associate() error { return nil }
func (f *fakeStation) Associated() bool { return f.associated }
func (f *fakeStation) IP() string       { return f.ip }

func newTestLink(station *fakeStation, broker *fakeBroker) (*Link, *clock.Fake) {
	clk := &clock.Fake{}
	return New(station, broker, clk, zap.NewNop()), clk
}

func TestPublishDroppedBeforeBrokerConnect(t *testing.T) {
	broker := &fakeBroker{}
	l, _ := newTestLink(&fakeStation{associated: true}, broker)

	l.Publish("sensores/contador", "1")
	assert.Empty(t, broker.msgs)
}

func TestEnsureBrokerPublishesOnlineNotice(t *testing.T) {
	broker := &fakeBroker{}
	l, _ := newTestLink(&fakeStation{associated: true, ip: "10.0.0.9"}, broker)

	l.EnsureBroker()
	require.True(t, l.Connected())
	require.Len(t, broker.msgs, 1)
	assert.Equal(t, "sensores/status", broker.msgs[0].topic)
	assert.Contains(t, broker.msgs[0].payload, "conectada")

	// Already connected: no second notice.
	l.EnsureBroker()
	assert.Len(t, broker.msgs, 1)
}

func TestEnsureBrokerBacksOffOnFailure(t *testing.T) {
	broker := &fakeBroker{connectErr: errors.New("refused")}
	l, clk := newTestLink(&fakeStation{associated: true}, broker)

	l.EnsureBroker()
	assert.Equal(t, BrokerDisconnected, l.State())
	require.Len(t, clk.Slept, 1)
	assert.Equal(t, 5*time.Second, clk.Slept[0])
}

func TestEnsureBrokerWaitsForAssociation(t *testing.T) {
	broker := &fakeBroker{}
	l, _ := newTestLink(&fakeStation{}, broker)

	l.EnsureBroker()
	assert.Zero(t, broker.connects)
	assert.False(t, l.Connected())
}

func TestAssociateBoundedPoll(t *testing.T) {
	l, clk := newTestLink(&fakeStation{}, &fakeBroker{})

	l.Associate()
	assert.Equal(t, Associating, l.State())
	assert.Len(t, clk.Slept, 30)
	assert.Equal(t, 500*time.Millisecond, clk.Slept[0])
}

func TestPumpDetectsRegression(t *testing.T) {
	broker := &fakeBroker{}
	l, _ := newTestLink(&fakeStation{associated: true}, broker)

	l.EnsureBroker()
	require.True(t, l.Connected())

	broker.connected = false
	l.Pump()
	assert.Equal(t, BrokerDisconnected, l.State())

	l.Publish("sensores/contador", "6")
	assert.Len(t, broker.msgs, 1, "only the online notice went out")

	// Recovery path: the next reconnect reannounces the session.
	l.EnsureBroker()
	assert.True(t, l.Connected())
	assert.Len(t, broker.msgs, 2)
}
