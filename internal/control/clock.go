package control

import "time"

// Clock supplies monotonic timestamps. time.Now carries a monotonic reading,
// so durations between its values are immune to wall-clock jumps.
type Clock interface {
	Now() time.Time
}

type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

// ManualClock is a Clock advanced explicitly by the caller.
type ManualClock struct {
	t time.Time
}

func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{t: start}
}

func (c *ManualClock) Now() time.Time {
	return c.t
}

func (c *ManualClock) Advance(d time.Duration) {
	c.t = c.t.Add(d)
}
