package telemetry

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"pulsera-firmware/internal/drivers"
	"pulsera-firmware/internal/heart"
	"pulsera-firmware/internal/motion"
)

// Sink is where formatted payloads go; in production it is the network link.
type Sink interface {
	Publish(topic, payload string)
}

// Sensor display names, also used to build per-sensor topics.
const (
	SensorEnv     = "HTU21D"
	SensorOptical = "MAX30105"
	SensorAccel   = "MMA8452Q"
)

const (
	topicInfo     = "sensores/info"
	topicConfig   = "sensores/config"
	topicResumen  = "sensores/resumen"
	topicContador = "sensores/contador"
	topicTemp     = "sensores/temperatura"
	topicHum      = "sensores/humedad"
	topicIR       = "sensores/ir_value"
	topicBPM      = "sensores/bpm"
	topicBPMAvg   = "sensores/bpm_avg"
	topicFinger   = "sensores/finger_status"
	topicHeart    = "sensores/heart_data"
	topicAccelMag = "sensores/accel_mag"
	topicOrient   = "sensores/orientacion"
	topicMove     = "sensores/movimiento"
	topicAccel    = "sensores/accel_datos"
	topicError    = "sensores/error"
	topicWifiIP   = "sistema/wifi_ip"
	topicWifiStat = "sistema/wifi_status"
	topicUptime   = "sistema/uptime"
)

type heartData struct {
	IR     uint32 `json:"ir"`
	BPM    int    `json:"bpm"`
	BPMAvg int    `json:"bpm_avg"`
	Finger string `json:"finger"`
}

// Publisher renders readings into the UTF-8 text payloads of the topic table
// and hands them to the sink. It holds no state of its own.
type Publisher struct {
	sink Sink
	log  *zap.Logger
}

func New(sink Sink, log *zap.Logger) *Publisher {
	return &Publisher{sink: sink, log: log}
}

// Boot announces bring-up context once.
func (p *Publisher) Boot(busDescription string) {
	p.sink.Publish(topicInfo, "Inicializando sensores en pulsera")
	p.sink.Publish(topicConfig, busDescription)
}

// InitResult reports a sensor's bring-up outcome on its own topic, or on the
// error topic when the sensor was not found.
func (p *Publisher) InitResult(sensor string, ok bool) {
	if !ok {
		p.Error(sensor + " no encontrado")
		return
	}
	msg := sensor + " inicializado correctamente"
	if sensor == SensorAccel {
		msg += " - Escala 2g"
	}
	p.sink.Publish("sensores/"+strings.ToLower(sensor), msg)
}

// Summary lists the healthy sensors.
func (p *Publisher) Summary(env, optical, accel drivers.Health) {
	resumen := "Sensores activos: "
	if env.OK {
		resumen += SensorEnv + " "
	}
	if optical.OK {
		resumen += SensorOptical + " "
	}
	if accel.OK {
		resumen += SensorAccel + " "
	}
	if !env.OK && !optical.OK && !accel.OK {
		resumen += "NINGUNO"
	}
	p.sink.Publish(topicResumen, strings.TrimRight(resumen, " "))
}

// Tick publishes the acquisition counter.
func (p *Publisher) Tick(counter uint64) {
	p.sink.Publish(topicContador, strconv.FormatUint(counter, 10))
}

// Env publishes the valid halves of a temperature/humidity sample and an
// error notice for each invalid half.
func (p *Publisher) Env(s drivers.EnvSample) {
	if s.TempValid {
		p.sink.Publish(topicTemp, f2(s.Temperature))
	} else {
		p.Error(SensorEnv + ": temperatura invalida")
	}
	if s.HumValid {
		p.sink.Publish(topicHum, f2(s.Humidity))
	} else {
		p.Error(SensorEnv + ": humedad invalida")
	}
}

// Heart publishes the full optical/heart-rate reading set.
func (p *Publisher) Heart(r heart.Reading) {
	finger := "no_detectado"
	if r.Finger {
		finger = "detectado"
	}

	p.sink.Publish(topicIR, strconv.FormatUint(uint64(r.IR), 10))
	p.sink.Publish(topicBPM, strconv.Itoa(r.BPM))
	p.sink.Publish(topicBPMAvg, strconv.Itoa(r.AvgBPM))
	p.sink.Publish(topicFinger, finger)

	data, err := json.Marshal(heartData{IR: r.IR, BPM: r.BPM, BPMAvg: r.AvgBPM, Finger: finger})
	if err != nil {
		p.log.Error("marshal heart data", zap.Error(err))
		return
	}
	p.sink.Publish(topicHeart, string(data))
}

// Motion publishes per-axis values (suppressing out-of-range axes),
// magnitude, orientation and the movement flag.
func (p *Publisher) Motion(r motion.Reading) {
	if r.XValid {
		p.sink.Publish("sensores/accel_x", f3(r.X))
	}
	if r.YValid {
		p.sink.Publish("sensores/accel_y", f3(r.Y))
	}
	if r.ZValid {
		p.sink.Publish("sensores/accel_z", f3(r.Z))
	}

	p.sink.Publish(topicAccelMag, f3(r.Magnitude))
	p.sink.Publish(topicOrient, string(r.Orientation))

	move := "NO"
	if r.Moving {
		move = "SI"
	}
	p.sink.Publish(topicMove, move)

	p.sink.Publish(topicAccel, fmt.Sprintf(`{"x":%s,"y":%s,"z":%s,"mag":%s}`,
		f3(r.X), f3(r.Y), f3(r.Z), f3(r.Magnitude)))
}

// System publishes link info and uptime.
func (p *Publisher) System(ip string, associated bool, uptimeSeconds int64) {
	status := "desconectado"
	if associated {
		status = "conectado"
	}
	p.sink.Publish(topicWifiIP, ip)
	p.sink.Publish(topicWifiStat, status)
	p.sink.Publish(topicUptime, strconv.FormatInt(uptimeSeconds, 10))
}

// HealthFlags echoes each sensor's bring-up state.
func (p *Publisher) HealthFlags(env, optical, accel drivers.Health) {
	p.sink.Publish("sensores/estado_htu21d", okError(env.OK))
	p.sink.Publish("sensores/estado_max30105", okError(optical.OK))
	p.sink.Publish("sensores/estado_mma8452q", okError(accel.OK))
}

// Error publishes a free-text error description.
func (p *Publisher) Error(msg string) {
	p.sink.Publish(topicError, msg)
}

func okError(ok bool) string {
	if ok {
		return "OK"
	}
	return "ERROR"
}

func f2(v float64) string { return strconv.FormatFloat(v, 'f', 2, 64) }
func f3(v float64) string { return strconv.FormatFloat(v, 'f', 3, 64) }
