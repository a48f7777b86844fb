package clock

import "time"

// Clock provides monotonic milliseconds since boot plus a cooperative sleep.
// The firmware never consults wall-clock time; uptime is all it needs.
type Clock interface {
	NowMs() int64
	Sleep(d time.Duration)
}

type systemClock struct {
	boot time.Time
}

// NewSystem returns a Clock anchored at the moment of the call, so NowMs
// doubles as device uptime in milliseconds.
func NewSystem() Clock {
	return &systemClock{boot: time.Now()}
}

func (c *systemClock) NowMs() int64 {
	return time.Since(c.boot).Milliseconds()
}

func (c *systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

// Fake is a manually advanced Clock for tests. Sleep advances time instead of
// blocking, so backoff paths run instantly.
type Fake struct {
	Ms    int64
	Slept []time.Duration
}

func (f *Fake) NowMs() int64 { return f.Ms }

func (f *Fake) Sleep(d time.Duration) {
	f.Slept = append(f.Slept, d)
	f.Ms += d.Milliseconds()
}

// Advance moves the fake clock forward by ms milliseconds.
func (f *Fake) Advance(ms int64) { f.Ms += ms }
