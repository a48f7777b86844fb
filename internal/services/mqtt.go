package services

import (
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"pulsera-firmware/config"
)

const (
	connectTimeout = 10 * time.Second
	publishTimeout = time.Second
)

// MqttBroker wraps the paho client behind the link.Broker contract.
// Auto-reconnect stays off: the scheduler owns the reconnect loop and its
// backoff, so the client must not race it with a background retry.
type MqttBroker struct {
	client mqtt.Client
	log    *zap.Logger
}

func NewMqttBroker(cfg config.MQTTConfig, log *zap.Logger) *MqttBroker {
	opts := mqtt.NewClientOptions()
	opts.AddBroker(fmt.Sprintf("tcp://%s:%d", cfg.Host, cfg.Port))
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(false)
	opts.SetCleanSession(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		log.Warn("mqtt connection lost", zap.Error(err))
	})

	return &MqttBroker{client: mqtt.NewClient(opts), log: log}
}

func (b *MqttBroker) Connect() error {
	token := b.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return fmt.Errorf("mqtt connect timed out after %s", connectTimeout)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt connect: %w", err)
	}
	return nil
}

// Publish sends one QoS 0 message. The wait only covers handing the packet
// to the network; there is no delivery guarantee at QoS 0.
func (b *MqttBroker) Publish(topic, payload string) error {
	token := b.client.Publish(topic, 0, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish to %s: %w", topic, err)
	}
	return nil
}

func (b *MqttBroker) IsConnected() bool {
	return b.client.IsConnected()
}

func (b *MqttBroker) Disconnect() {
	b.client.Disconnect(250)
}
