package metrics

import (
	"math"

	"github.com/san-kum/markservo/internal/servo"
)

type DetectionRate struct {
	found   int
	samples int
}

func NewDetectionRate() *DetectionRate {
	return &DetectionRate{}
}

func (d *DetectionRate) Name() string { return "detection_rate" }

func (d *DetectionRate) Observe(s servo.Sample) {
	d.samples++
	if s.Found {
		d.found++
	}
}

func (d *DetectionRate) Value() float64 {
	if d.samples == 0 {
		return 0
	}
	return float64(d.found) / float64(d.samples)
}

func (d *DetectionRate) Reset() {
	d.found = 0
	d.samples = 0
}

// MeanAbsError averages |error| over every axis of every tracked frame.
type MeanAbsError struct {
	sum float64
	n   int
}

func NewMeanAbsError() *MeanAbsError {
	return &MeanAbsError{}
}

func (m *MeanAbsError) Name() string { return "mean_abs_error" }

func (m *MeanAbsError) Observe(s servo.Sample) {
	if !s.Found {
		return
	}
	for _, e := range s.Errors {
		m.sum += math.Abs(e)
		m.n++
	}
}

func (m *MeanAbsError) Value() float64 {
	if m.n == 0 {
		return 0
	}
	return m.sum / float64(m.n)
}

func (m *MeanAbsError) Reset() {
	m.sum = 0
	m.n = 0
}

// Defaults returns the metrics attached to every run.
func Defaults(settleThreshold float64) []servo.Metric {
	return []servo.Metric{
		NewControlEffort(),
		NewDetectionRate(),
		NewMeanAbsError(),
		NewSettled(settleThreshold),
	}
}
