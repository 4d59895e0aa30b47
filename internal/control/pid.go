package control

import (
	"fmt"
	"math"
	"time"
)

const DefaultMinDt = time.Microsecond

// PID is a time-driven proportional-integral-derivative regulator. The
// elapsed time between updates is read from a monotonic clock, so callers
// only supply the set-point and the measurement.
//
// Not safe for concurrent use. Independent instances share nothing.
type PID struct {
	kp float64
	ki float64
	kd float64

	integral      float64
	integralLimit float64
	prevErr       float64
	prevT         time.Time
	started       bool
	minDt         time.Duration

	last  Terms
	clock Clock
}

// Terms is the breakdown of the most recent correction.
type Terms struct {
	Error        float64
	Proportional float64
	Integral     float64
	Derivative   float64
	Dt           float64
}

func (t Terms) Output() float64 {
	return t.Proportional + t.Integral + t.Derivative
}

type Option func(*PID)

// WithClock replaces the monotonic clock, mainly for tests.
func WithClock(c Clock) Option {
	return func(p *PID) {
		p.clock = c
	}
}

// WithIntegralLimit bounds the accumulated error to [-limit, limit].
// Zero leaves it unbounded, which is the default.
func WithIntegralLimit(limit float64) Option {
	return func(p *PID) {
		p.integralLimit = math.Abs(limit)
	}
}

// WithMinDt sets the shortest interval that still produces a new correction.
func WithMinDt(d time.Duration) Option {
	return func(p *PID) {
		p.minDt = d
	}
}

func NewPID(kp, ki, kd float64, opts ...Option) *PID {
	p := &PID{
		kp:    kp,
		ki:    ki,
		kd:    kd,
		minDt: DefaultMinDt,
		clock: SystemClock{},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Start clears the accumulated history and takes the current time as the
// timing origin. It may be called again at any point to restart.
func (p *PID) Start() {
	p.integral = 0
	p.prevErr = 0
	p.last = Terms{}
	p.prevT = p.clock.Now()
	p.started = true
}

// Started reports whether Start has been called.
func (p *PID) Started() bool {
	return p.started
}

// Update computes the correction for the error setPoint-measured.
//
// An interval shorter than the minimum dt (including two calls at the same
// instant) would make the derivative term blow up. Such an update is
// skipped: the previous output is returned and no state changes, so the
// next call integrates over the whole elapsed time.
func (p *PID) Update(setPoint, measured float64) (float64, error) {
	if !p.started {
		return 0, ErrNotStarted
	}

	now := p.clock.Now()
	elapsed := now.Sub(p.prevT)
	if elapsed <= 0 || elapsed < p.minDt {
		return p.last.Output(), nil
	}
	dt := elapsed.Seconds()

	err := setPoint - measured

	p.integral += err * dt
	if p.integralLimit > 0 {
		p.integral = math.Max(-p.integralLimit, math.Min(p.integralLimit, p.integral))
	}

	p.last = Terms{
		Error:        err,
		Proportional: p.kp * err,
		Integral:     p.ki * p.integral,
		Derivative:   p.kd * (err - p.prevErr) / dt,
		Dt:           dt,
	}

	p.prevErr = err
	p.prevT = now

	return p.last.Output(), nil
}

// Terms returns the contributions of the latest accepted update.
func (p *PID) Terms() Terms {
	return p.last
}

// AccumulatedError returns the running integral of error over time.
func (p *PID) AccumulatedError() float64 {
	return p.integral
}

func (p *PID) Kp() float64 { return p.kp }
func (p *PID) Ki() float64 { return p.ki }
func (p *PID) Kd() float64 { return p.kd }

func (p *PID) SetKp(v float64) { p.kp = v }
func (p *PID) SetKi(v float64) { p.ki = v }
func (p *PID) SetKd(v float64) { p.kd = v }

// GetParams returns tunable parameters for live adjustment
func (p *PID) GetParams() map[string]float64 {
	return map[string]float64{
		"Kp":            p.kp,
		"Ki":            p.ki,
		"Kd":            p.kd,
		"IntegralLimit": p.integralLimit,
	}
}

// SetParam adjusts a PID parameter by name. State is kept.
func (p *PID) SetParam(name string, value float64) error {
	switch name {
	case "Kp":
		p.kp = value
	case "Ki":
		p.ki = value
	case "Kd":
		p.kd = value
	case "IntegralLimit":
		p.integralLimit = math.Abs(value)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownParam, name)
	}
	return nil
}
