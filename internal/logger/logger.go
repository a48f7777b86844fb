package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pulsera-firmware/config"
)

// New builds the firmware logger: console encoding for bench work, JSON for
// fleet log collection.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	switch cfg.Level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "warn":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		zapLevel = zapcore.InfoLevel
	}

	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
		zcfg.EncoderConfig.TimeKey = "timestamp"
		zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		zcfg.OutputPaths = []string{"stdout"}
		zcfg.ErrorOutputPaths = []string{"stderr"}
	}
	zcfg.Level = zap.NewAtomicLevelAt(zapLevel)

	log, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return log.With(zap.String("service_name", "pulsera-firmware")), nil
}
