package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"pulsera-firmware/config"
)

func TestWifiStationUnknownInterface(t *testing.T) {
	s := NewWifiStation(config.WifiConfig{SSID: "xiaomi", Interface: "wlanDoesNotExist0"}, zap.NewNop())

	assert.NoError(t, s.Associate())
	assert.False(t, s.Associated())
	assert.Equal(t, "0.0.0.0", s.IP())
}
