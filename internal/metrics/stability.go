package metrics

import (
	"math"

	"github.com/san-kum/markservo/internal/servo"
)

// Settled is the fraction of tracked frames in which every axis error is
// within threshold. Frames without the marker are ignored.
type Settled struct {
	name      string
	threshold float64
	inside    int
	samples   int
}

func NewSettled(threshold float64) *Settled {
	return &Settled{
		name:      "settled",
		threshold: threshold,
	}
}

func (s *Settled) Name() string {
	return s.name
}

func (s *Settled) Observe(sample servo.Sample) {
	if !sample.Found {
		return
	}
	s.samples++
	for _, e := range sample.Errors {
		if math.Abs(e) > s.threshold {
			return
		}
	}
	s.inside++
}

func (s *Settled) Value() float64 {
	if s.samples == 0 {
		return 0
	}
	return float64(s.inside) / float64(s.samples)
}

func (s *Settled) Reset() {
	s.inside = 0
	s.samples = 0
}
