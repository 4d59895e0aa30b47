package servo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/san-kum/markservo/internal/control"
	"github.com/san-kum/markservo/internal/marker"
)

const FollowLargest = -1

// Loop drives one regulator per axis from marker observations. When the
// marker is missing or degenerate the previous command is re-applied and
// the regulators are left untouched.
//
// Loop is synchronous and NOT safe for concurrent use.
type Loop[I any] struct {
	locator  *marker.Locator[I]
	axes     []Axis
	actuator Actuator
	target   int
	log      zerolog.Logger
	clock    control.Clock
	metrics  []Metric

	started bool
	origin  time.Time
	frame   int
	last    Command
}

type Option func(*options)

type options struct {
	target int
	log    zerolog.Logger
	clock  control.Clock
}

// WithTarget follows the marker with the given id instead of the largest one.
func WithTarget(id int) Option {
	return func(o *options) {
		o.target = id
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(o *options) {
		o.log = l
	}
}

// WithClock sets the clock used to timestamp samples.
func WithClock(c control.Clock) Option {
	return func(o *options) {
		o.clock = c
	}
}

func New[I any](locator *marker.Locator[I], axes []Axis, actuator Actuator, opts ...Option) (*Loop[I], error) {
	if len(axes) == 0 {
		return nil, errors.New("servo: no axes configured")
	}
	for i, a := range axes {
		if a.PID == nil {
			return nil, fmt.Errorf("servo: axis %d (%s) has no regulator", i, a.Name)
		}
	}
	o := options{
		target: FollowLargest,
		log:    zerolog.Nop(),
		clock:  control.SystemClock{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loop[I]{
		locator:  locator,
		axes:     axes,
		actuator: actuator,
		target:   o.target,
		log:      o.log.With().Str("component", "servo").Logger(),
		clock:    o.clock,
	}, nil
}

func (l *Loop[I]) AddMetric(m Metric) {
	l.metrics = append(l.metrics, m)
}

func (l *Loop[I]) AxisNames() []string {
	names := make([]string, len(l.axes))
	for i, a := range l.axes {
		names[i] = a.Name
	}
	return names
}

// Start (re)starts every regulator and clears the held command.
func (l *Loop[I]) Start() {
	for _, a := range l.axes {
		a.PID.Start()
	}
	for _, m := range l.metrics {
		m.Reset()
	}
	l.origin = l.clock.Now()
	l.frame = 0
	l.last = Command{Outputs: make([]float64, len(l.axes))}
	l.started = true
}

// Step runs one control cycle on img.
func (l *Loop[I]) Step(ctx context.Context, img I) (Sample, error) {
	if !l.started {
		return Sample{}, control.ErrNotStarted
	}

	s := Sample{
		Frame:    l.frame,
		Time:     l.clock.Now().Sub(l.origin).Seconds(),
		MarkerID: l.target,
	}
	l.frame++

	obs, err := l.selectMarker(img)
	if err == nil {
		s.Measured, err = l.measure(obs)
	}
	switch {
	case err == nil:
		s.Found = true
		s.MarkerID = obs.ID
		if err := l.regulate(&s); err != nil {
			return s, err
		}
	case errors.Is(err, marker.ErrNotFound), errors.Is(err, marker.ErrInsufficientGeometry):
		l.log.Warn().Err(err).Int("frame", s.Frame).Msg("holding previous command")
		s.Held = true
		s.Outputs = append([]float64(nil), l.last.Outputs...)
	default:
		return s, err
	}

	cmd := Command{Frame: s.Frame, Outputs: s.Outputs, Held: s.Held}
	if err := l.actuator.Apply(ctx, cmd); err != nil {
		return s, fmt.Errorf("servo: actuator: %w", err)
	}
	l.last = cmd

	for _, m := range l.metrics {
		m.Observe(s)
	}
	return s, nil
}

// Run steps through src until it is exhausted or ctx is cancelled.
func (l *Loop[I]) Run(ctx context.Context, src Source[I]) (*Trace, error) {
	if !l.started {
		l.Start()
	}
	trace := &Trace{Axes: l.AxisNames()}

	for {
		if err := ctx.Err(); err != nil {
			l.finish(trace)
			return trace, err
		}
		img, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			l.finish(trace)
			return trace, fmt.Errorf("servo: frame source: %w", err)
		}
		s, err := l.Step(ctx, img)
		if err != nil {
			l.finish(trace)
			return trace, err
		}
		trace.Samples = append(trace.Samples, s)
	}

	l.finish(trace)
	l.log.Info().Int("frames", len(trace.Samples)).Msg("source exhausted")
	return trace, nil
}

func (l *Loop[I]) finish(trace *Trace) {
	trace.Metrics = make(map[string]float64, len(l.metrics))
	for _, m := range l.metrics {
		trace.Metrics[m.Name()] = m.Value()
	}
}

func (l *Loop[I]) selectMarker(img I) (marker.Observation, error) {
	if l.target == FollowLargest {
		return l.locator.SelectLargest(img)
	}
	return l.locator.SelectByID(img, l.target)
}

func (l *Loop[I]) measure(obs marker.Observation) ([]float64, error) {
	values := make([]float64, len(l.axes))
	for i, a := range l.axes {
		v, err := a.Feature.Measure(obs)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func (l *Loop[I]) regulate(s *Sample) error {
	s.Errors = make([]float64, len(l.axes))
	s.Outputs = make([]float64, len(l.axes))
	for i, a := range l.axes {
		out, err := a.PID.Update(a.SetPoint, s.Measured[i])
		if err != nil {
			return fmt.Errorf("servo: axis %s: %w", a.Name, err)
		}
		if a.Invert {
			out = -out
		}
		s.Errors[i] = a.SetPoint - s.Measured[i]
		s.Outputs[i] = out
	}
	return nil
}
