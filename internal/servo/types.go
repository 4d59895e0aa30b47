package servo

import (
	"context"
	"fmt"
	"strings"

	"github.com/san-kum/markservo/internal/control"
	"github.com/san-kum/markservo/internal/marker"
)

// Feature is the marker measurement an axis regulates.
type Feature int

const (
	CentroidX Feature = iota + 1
	CentroidY
	Area
)

func (f Feature) String() string {
	switch f {
	case CentroidX:
		return "centroid_x"
	case CentroidY:
		return "centroid_y"
	case Area:
		return "area"
	default:
		return fmt.Sprintf("Feature(%d)", int(f))
	}
}

func ParseFeature(s string) (Feature, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "centroid_x", "x":
		return CentroidX, nil
	case "centroid_y", "y":
		return CentroidY, nil
	case "area":
		return Area, nil
	}
	return 0, fmt.Errorf("servo: unknown feature %q", s)
}

// Measure extracts the feature value from one observation.
func (f Feature) Measure(obs marker.Observation) (float64, error) {
	switch f {
	case CentroidX, CentroidY:
		c, err := obs.Centroid()
		if err != nil {
			return 0, err
		}
		if f == CentroidX {
			return c.X, nil
		}
		return c.Y, nil
	case Area:
		return obs.Area()
	}
	return 0, fmt.Errorf("servo: unknown feature %d", int(f))
}

// Axis is one controlled degree of freedom: a feature, the value it should
// settle at, and the regulator driving it.
type Axis struct {
	Name     string
	Feature  Feature
	SetPoint float64
	// Invert flips the sign of the correction for actuators mounted the
	// other way round.
	Invert bool
	PID    *control.PID
}

// Command is what the loop hands to the actuator each frame. Outputs are in
// axis order.
type Command struct {
	Frame   int
	Outputs []float64
	Held    bool
}

type Actuator interface {
	Apply(ctx context.Context, cmd Command) error
}

// ActuatorFunc adapts a function to the Actuator interface.
type ActuatorFunc func(ctx context.Context, cmd Command) error

func (f ActuatorFunc) Apply(ctx context.Context, cmd Command) error {
	return f(ctx, cmd)
}

// Source yields frames until it returns io.EOF.
type Source[I any] interface {
	Next(ctx context.Context) (I, error)
}

// Sample records one loop cycle.
type Sample struct {
	Frame    int
	Time     float64
	Found    bool
	MarkerID int
	Measured []float64
	Errors   []float64
	Outputs  []float64
	Held     bool
}

type Metric interface {
	Name() string
	Observe(s Sample)
	Value() float64
	Reset()
}

// Trace is the history of a Run.
type Trace struct {
	Axes    []string
	Samples []Sample
	Metrics map[string]float64
}
