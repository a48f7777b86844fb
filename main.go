package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"pulsera-firmware/config"
	"pulsera-firmware/internal/bus"
	"pulsera-firmware/internal/clock"
	"pulsera-firmware/internal/drivers"
	"pulsera-firmware/internal/heart"
	"pulsera-firmware/internal/link"
	"pulsera-firmware/internal/logger"
	"pulsera-firmware/internal/scheduler"
	"pulsera-firmware/internal/services"
	"pulsera-firmware/internal/telemetry"
)

const LOGO = `
                __
    ___  __ __ / /___ ___  ____ ___ _
   / _ \/ // // /(_-</ -_)/ __// _ '/
  / .__/\_,_//_//___/\__//_/   \_,_/
 /_/
`

const SERVICENAME = "Pulsera Sensor Firmware"
const VERSION = "v1.0.0"

func main() {
	fmt.Print(LOGO + SERVICENAME + " " + VERSION + "\n\n")

	// Load the configuration
	cfg := config.LoadConfig()

	zlog, err := logger.New(cfg.Log)
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer zlog.Sync()

	if err := cfg.Validate(); err != nil {
		zlog.Fatal("invalid configuration", zap.Error(err))
	}

	// Create a context with cancellation; cancelling is the hosted
	// equivalent of a device reset.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigs
		cancel()
	}()

	// Bring up the shared bus before any driver touches it. This is the
	// only fatal hardware error.
	i2c, err := openI2C(cfg.Bus)
	if err != nil {
		zlog.Fatal("bus bring-up failed", zap.Error(err))
	}
	host := bus.New(i2c, cfg.Bus.SDAPin, cfg.Bus.SCLPin, cfg.Bus.ClockHz)
	clk := clock.NewSystem()

	env := drivers.NewHTU21D(host, clk)
	optical := drivers.NewMAX30105(host, clk)
	accel := drivers.NewMMA8452Q(host)

	broker := services.NewMqttBroker(cfg.MQTT, zlog)
	station := services.NewWifiStation(cfg.Wifi, zlog)
	netlink := link.New(station, broker, clk, zlog)

	sched := scheduler.New(scheduler.Deps{
		Link:      netlink,
		Publisher: telemetry.New(netlink, zlog),
		Env:       env,
		Optical:   optical,
		Accel:     accel,
		Estimator: heart.NewEstimator(nil),
		Clock:     clk,
		Log:       zlog,
	}, cfg.TickMs, host.Describe())

	zlog.Info("starting cooperative loop",
		zap.Int64("tick_ms", cfg.TickMs),
		zap.String("bus", host.Describe()))

	sched.Run(ctx)

	netlink.Close()
	zlog.Info("shut down")
}
