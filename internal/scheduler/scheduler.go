package scheduler

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"pulsera-firmware/internal/clock"
	"pulsera-firmware/internal/drivers"
	"pulsera-firmware/internal/heart"
	"pulsera-firmware/internal/motion"
	"pulsera-firmware/internal/telemetry"
)

const (
	summaryEveryTicks = 10
	healthEveryTicks  = 5
	loopPause         = 50 * time.Millisecond
)

// EnvSensor, OpticalSensor and AccelSensor are the driver contracts the loop
// polls each tick.
type EnvSensor interface {
	Init() error
	Sample() (drivers.EnvSample, error)
}

type OpticalSensor interface {
	Init() error
	ReadIR() (uint32, error)
}

type AccelSensor interface {
	Init() error
	TryRead() (drivers.AccelSample, error)
}

// NetLink is the scheduler's view of the network link.
type NetLink interface {
	Associate()
	EnsureBroker()
	Pump()
	Connected() bool
	Associated() bool
	IP() string
}

// Deps wires the scheduler to its collaborators.
type Deps struct {
	Link      NetLink
	Publisher *telemetry.Publisher
	Env       EnvSensor
	Optical   OpticalSensor
	Accel     AccelSensor
	Estimator *heart.Estimator
	Clock     clock.Clock
	Log       *zap.Logger
}

// Scheduler is the single cooperative loop of the firmware. It owns the
// per-sensor health records, the tick counter and the acquisition cadence;
// everything else is driven through the Deps contracts.
type Scheduler struct {
	Deps

	tickMs  int64
	busDesc string

	envHealth     drivers.Health
	opticalHealth drivers.Health
	accelHealth   drivers.Health

	counter    uint64
	lastTickMs int64
	booted     bool
}

func New(deps Deps, tickMs int64, busDescription string) *Scheduler {
	return &Scheduler{Deps: deps, tickMs: tickMs, busDesc: busDescription}
}

// Run boots the device and then iterates until the context is cancelled,
// which is the hosted equivalent of a reset.
func (s *Scheduler) Run(ctx context.Context) {
	s.Boot()
	for ctx.Err() == nil {
		s.Iterate()
		s.Clock.Sleep(loopPause)
	}
	s.Log.Info("scheduler stopped", zap.Uint64("ticks", s.counter))
}

// Boot associates, makes one bounded broker attempt, then brings up every
// sensor exactly once. A sensor that fails here stays out for the session.
func (s *Scheduler) Boot() {
	if s.booted {
		return
	}
	s.booted = true

	s.Link.Associate()
	s.Link.EnsureBroker()

	s.Publisher.Boot(s.busDesc)

	s.initSensor(&s.envHealth, telemetry.SensorEnv, s.Env.Init)
	s.initSensor(&s.opticalHealth, telemetry.SensorOptical, s.Optical.Init)
	s.initSensor(&s.accelHealth, telemetry.SensorAccel, s.Accel.Init)

	s.Publisher.Summary(s.envHealth, s.opticalHealth, s.accelHealth)
}

func (s *Scheduler) initSensor(h *drivers.Health, name string, init func() error) {
	if err := init(); err != nil {
		h.Fail(err.Error())
		s.Log.Warn("sensor bring-up failed", zap.String("sensor", name), zap.Error(err))
		s.Publisher.InitResult(name, false)
		return
	}
	h.Pass()
	s.Log.Info("sensor ready", zap.String("sensor", name))
	s.Publisher.InitResult(name, true)
}

// Iterate runs one pass of the cooperative loop: reconnect when needed, pump
// the link, and fire at most one acquisition tick when the interval elapsed.
func (s *Scheduler) Iterate() {
	if !s.Link.Connected() {
		s.Link.EnsureBroker()
	}
	s.Link.Pump()

	now := s.Clock.NowMs()
	if now-s.lastTickMs >= s.tickMs {
		// A reconnect longer than the interval fires a single catch-up
		// tick; missed ticks are not replayed.
		s.lastTickMs = now
		s.tick(now)
	}
}

func (s *Scheduler) tick(nowMs int64) {
	s.counter++
	s.Publisher.Tick(s.counter)

	if s.counter%summaryEveryTicks == 1 {
		s.Publisher.Summary(s.envHealth, s.opticalHealth, s.accelHealth)
	}

	if s.envHealth.OK {
		s.readEnv()
	}
	if s.opticalHealth.OK {
		s.readOptical(nowMs)
	}
	if s.accelHealth.OK {
		s.readAccel()
	}

	s.Publisher.System(s.Link.IP(), s.Link.Associated(), nowMs/1000)

	if s.counter%healthEveryTicks == 0 {
		s.Publisher.HealthFlags(s.envHealth, s.opticalHealth, s.accelHealth)
	}
}

func (s *Scheduler) readEnv() {
	sample, err := s.Env.Sample()
	if err != nil {
		s.Log.Warn("env read failed", zap.Error(err))
		s.Publisher.Error(telemetry.SensorEnv + ": fallo en medicion")
		return
	}
	s.Publisher.Env(sample)
}

func (s *Scheduler) readOptical(nowMs int64) {
	ir, err := s.Optical.ReadIR()
	if err != nil {
		s.Log.Warn("optical read failed", zap.Error(err))
		s.Publisher.Error(telemetry.SensorOptical + ": fallo en lectura")
		return
	}
	s.Publisher.Heart(s.Estimator.Update(ir, nowMs))
}

func (s *Scheduler) readAccel() {
	sample, err := s.Accel.TryRead()
	if errors.Is(err, drivers.ErrNoData) {
		s.Publisher.Error(telemetry.SensorAccel + ": sin nuevos datos")
		return
	}
	if err != nil {
		s.Log.Warn("accel read failed", zap.Error(err))
		s.Publisher.Error(telemetry.SensorAccel + ": fallo en lectura")
		return
	}
	s.Publisher.Motion(motion.Classify(sample.X, sample.Y, sample.Z))
}

// TickCount returns the strictly monotonic tick counter.
func (s *Scheduler) TickCount() uint64 { return s.counter }
