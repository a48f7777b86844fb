package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Wifi WifiConfig
	MQTT MQTTConfig
	Bus  BusConfig
	Log  LogConfig

	// TickMs is the acquisition cadence in milliseconds.
	TickMs int64
}

type WifiConfig struct {
	SSID      string
	Password  string
	Interface string
}

type MQTTConfig struct {
	Host     string
	Port     int
	ClientID string
	Username string
	Password string
}

type BusConfig struct {
	SDAPin  int
	SCLPin  int
	ClockHz int
	Driver  string
}

type LogConfig struct {
	Level  string
	Format string
}

func LoadConfig() *Config {
	viper.SetConfigFile(".env")
	viper.ReadInConfig()

	viper.SetDefault("MQTT_PORT", 1883)
	viper.SetDefault("I2C_SDA_PIN", 6)
	viper.SetDefault("I2C_SCL_PIN", 7)
	viper.SetDefault("I2C_CLOCK_HZ", 100000)
	viper.SetDefault("BUS_DRIVER", "sim")
	viper.SetDefault("TICK_INTERVAL_MS", 2000)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "console")

	return &Config{
		Wifi: WifiConfig{
			SSID:      viper.GetString("WIFI_SSID"),
			Password:  viper.GetString("WIFI_PASSWORD"),
			Interface: viper.GetString("WIFI_INTERFACE"),
		},
		MQTT: MQTTConfig{
			Host:     viper.GetString("MQTT_HOST"),
			Port:     viper.GetInt("MQTT_PORT"),
			ClientID: viper.GetString("MQTT_CLIENT_ID"),
			Username: viper.GetString("MQTT_USERNAME"),
			Password: viper.GetString("MQTT_PASSWORD"),
		},
		Bus: BusConfig{
			SDAPin:  viper.GetInt("I2C_SDA_PIN"),
			SCLPin:  viper.GetInt("I2C_SCL_PIN"),
			ClockHz: viper.GetInt("I2C_CLOCK_HZ"),
			Driver:  viper.GetString("BUS_DRIVER"),
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		TickMs: viper.GetInt64("TICK_INTERVAL_MS"),
	}
}

// Validate rejects a boot with missing credentials. Wi-Fi and broker
// credentials are required and carry no defaults.
func (c *Config) Validate() error {
	var missing []string
	required := []struct {
		key, val string
	}{
		{"WIFI_SSID", c.Wifi.SSID},
		{"WIFI_PASSWORD", c.Wifi.Password},
		{"MQTT_HOST", c.MQTT.Host},
		{"MQTT_CLIENT_ID", c.MQTT.ClientID},
		{"MQTT_USERNAME", c.MQTT.Username},
		{"MQTT_PASSWORD", c.MQTT.Password},
	}
	for _, r := range required {
		if r.val == "" {
			missing = append(missing, r.key)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}
	if c.TickMs <= 0 {
		return fmt.Errorf("TICK_INTERVAL_MS must be positive, got %d", c.TickMs)
	}
	return nil
}
