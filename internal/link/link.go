package link

import (
	"time"

	"go.uber.org/zap"

	"pulsera-firmware/internal/clock"
)

// State of the network link, from radio association up to a live broker
// session.
type State int

const (
	Disassociated State = iota
	Associating
	Associated
	BrokerDisconnected
	BrokerConnected
)

func (s State) String() string {
	switch s {
	case Disassociated:
		return "disassociated"
	case Associating:
		return "associating"
	case Associated:
		return "associated"
	case BrokerDisconnected:
		return "broker-disconnected"
	case BrokerConnected:
		return "broker-connected"
	}
	return "unknown"
}

// Broker is the publish/subscribe client contract. The concrete transport
// lives in internal/services and is out of scope here.
type Broker interface {
	Connect() error
	Publish(topic, payload string) error
	IsConnected() bool
	Disconnect()
}

// Station is the Wi-Fi association contract.
type Station interface {
	Associate() error
	Associated() bool
	IP() string
}

const (
	assocAttempts = 30
	assocPoll     = 500 * time.Millisecond
	brokerBackoff = 5 * time.Second

	statusTopic  = "sensores/status"
	onlineNotice = "Pulsera conectada - Iniciando lecturas de sensores"
)

// Link drives the association and broker state machine. It is owned by the
// scheduler and advanced from the cooperative loop only.
type Link struct {
	station Station
	broker  Broker
	clk     clock.Clock
	log     *zap.Logger
	state   State
}

func New(station Station, broker Broker, clk clock.Clock, log *zap.Logger) *Link {
	return &Link{station: station, broker: broker, clk: clk, log: log}
}

func (l *Link) State() State { return l.state }

// Associate runs the bounded boot-time association poll. Failing to
// associate is not fatal; the link keeps rechecking on every EnsureBroker.
func (l *Link) Associate() {
	l.state = Associating
	if err := l.station.Associate(); err != nil {
		l.log.Warn("wifi association request failed", zap.Error(err))
	}

	for i := 0; i < assocAttempts; i++ {
		if l.station.Associated() {
			l.state = Associated
			l.log.Info("wifi associated", zap.String("ip", l.station.IP()))
			return
		}
		l.clk.Sleep(assocPoll)
	}
	l.log.Warn("wifi not associated after bounded poll, continuing")
}

// EnsureBroker makes at most one broker connection attempt, sleeping the
// backoff on failure. The scheduler calls it every iteration while the
// session is down.
func (l *Link) EnsureBroker() {
	if l.state < Associated {
		if !l.station.Associated() {
			return
		}
		l.state = Associated
	}

	if l.broker.IsConnected() {
		l.state = BrokerConnected
		return
	}

	if err := l.broker.Connect(); err != nil {
		l.log.Warn("broker connect failed, backing off", zap.Error(err))
		l.state = BrokerDisconnected
		l.clk.Sleep(brokerBackoff)
		return
	}

	l.state = BrokerConnected
	l.log.Info("broker connected")
	l.Publish(statusTopic, onlineNotice)
}

// Pump advances the link once per scheduler iteration: it observes broker
// regressions so the scheduler re-enters the reconnect routine.
func (l *Link) Pump() {
	if l.state == BrokerConnected && !l.broker.IsConnected() {
		l.log.Warn("broker connection lost")
		l.state = BrokerDisconnected
	}
}

// Publish is best-effort QoS 0: payloads are silently dropped unless the
// broker session is up.
func (l *Link) Publish(topic, payload string) {
	if l.state != BrokerConnected {
		return
	}
	if err := l.broker.Publish(topic, payload); err != nil {
		l.log.Warn("publish failed", zap.String("topic", topic), zap.Error(err))
	}
}

// Connected reports whether the broker session is up.
func (l *Link) Connected() bool { return l.state == BrokerConnected }

// Associated reports whether the radio side of the link is up.
func (l *Link) Associated() bool { return l.station.Associated() }

// IP returns the station address for the sistema/wifi_ip topic.
func (l *Link) IP() string { return l.station.IP() }

// Close tears the broker session down on reset.
func (l *Link) Close() {
	l.broker.Disconnect()
}
