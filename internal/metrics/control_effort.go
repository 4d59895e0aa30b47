package metrics

import (
	"math"

	"github.com/san-kum/markservo/internal/servo"
)

// ControlEffort is the mean absolute correction sent to the actuator,
// summed over axes. Held frames count too since the actuator still moves.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s servo.Sample) {
	for _, val := range s.Outputs {
		c.sum += math.Abs(val)
	}
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}
