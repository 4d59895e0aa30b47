package servo

import (
	"context"
	"errors"
	"io"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/markservo/internal/control"
	"github.com/san-kum/markservo/internal/marker"
)

type frame struct {
	set marker.Set
}

func square(id int, x, y, side float64) marker.Observation {
	return marker.Observation{ID: id, Corners: marker.Polygon{
		{X: x, Y: y}, {X: x + side, Y: y}, {X: x + side, Y: y + side}, {X: x, Y: y + side},
	}}
}

func withMarkers(obs ...marker.Observation) frame {
	return frame{set: marker.Set{Markers: obs}}
}

// sliceSource advances the clock by step before handing out each frame.
type sliceSource struct {
	frames []frame
	clock  *control.ManualClock
	step   time.Duration
	i      int
}

func (s *sliceSource) Next(ctx context.Context) (frame, error) {
	if s.i >= len(s.frames) {
		return frame{}, io.EOF
	}
	s.clock.Advance(s.step)
	f := s.frames[s.i]
	s.i++
	return f, nil
}

type recorder struct {
	cmds []Command
	err  error
}

func (r *recorder) Apply(ctx context.Context, cmd Command) error {
	if r.err != nil {
		return r.err
	}
	r.cmds = append(r.cmds, cmd)
	return nil
}

type countMetric struct {
	found, total int
}

func (m *countMetric) Name() string { return "found" }
func (m *countMetric) Observe(s Sample) {
	m.total++
	if s.Found {
		m.found++
	}
}
func (m *countMetric) Value() float64 { return float64(m.found) }
func (m *countMetric) Reset()         { m.found, m.total = 0, 0 }

var _ = Describe("Loop", func() {
	var (
		clock *control.ManualClock
		loc   *marker.Locator[frame]
		rec   *recorder
		xPID  *control.PID
		aPID  *control.PID
		axes  []Axis
		ctx   context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		clock = control.NewManualClock(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
		loc = marker.NewLocator[frame](marker.DetectorFunc[frame](func(f frame) (marker.Set, error) {
			return f.set, nil
		}))
		rec = &recorder{}
		xPID = control.NewPID(0.5, 0, 0, control.WithClock(clock))
		aPID = control.NewPID(0.01, 0, 0, control.WithClock(clock))
		axes = []Axis{
			{Name: "pan", Feature: CentroidX, SetPoint: 10, PID: xPID},
			{Name: "zoom", Feature: Area, SetPoint: 100, PID: aPID},
		}
	})

	newLoop := func(opts ...Option) *Loop[frame] {
		l, err := New[frame](loc, axes, rec, append([]Option{WithClock(clock)}, opts...)...)
		Expect(err).NotTo(HaveOccurred())
		return l
	}

	It("rejects a loop without axes or regulators", func() {
		_, err := New[frame](loc, nil, rec)
		Expect(err).To(HaveOccurred())

		_, err = New[frame](loc, []Axis{{Name: "pan", Feature: CentroidX}}, rec)
		Expect(err).To(HaveOccurred())
	})

	It("fails with ErrNotStarted before Start", func() {
		l := newLoop()
		_, err := l.Step(ctx, withMarkers(square(1, 0, 0, 4)))
		Expect(errors.Is(err, control.ErrNotStarted)).To(BeTrue())
		Expect(rec.cmds).To(BeEmpty())
	})

	It("regulates every axis from one observation", func() {
		l := newLoop()
		l.Start()
		clock.Advance(100 * time.Millisecond)

		s, err := l.Step(ctx, withMarkers(square(7, 0, 0, 4)))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Found).To(BeTrue())
		Expect(s.MarkerID).To(Equal(7))
		Expect(s.Measured).To(Equal([]float64{2, 16}))
		Expect(s.Errors).To(Equal([]float64{8, 84}))
		Expect(s.Outputs[0]).To(BeNumerically("~", 4, 1e-12))
		Expect(s.Outputs[1]).To(BeNumerically("~", 0.84, 1e-12))

		Expect(rec.cmds).To(HaveLen(1))
		Expect(rec.cmds[0].Held).To(BeFalse())
		Expect(rec.cmds[0].Outputs).To(Equal(s.Outputs))
	})

	It("follows the largest marker by default", func() {
		l := newLoop()
		l.Start()
		clock.Advance(time.Second)

		s, err := l.Step(ctx, withMarkers(square(3, 0, 0, 2), square(7, 40, 0, 4)))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.MarkerID).To(Equal(7))
		Expect(s.Measured[0]).To(Equal(42.0))
	})

	It("follows a fixed id when configured", func() {
		l := newLoop(WithTarget(3))
		l.Start()
		clock.Advance(time.Second)

		s, err := l.Step(ctx, withMarkers(square(3, 0, 0, 2), square(7, 40, 0, 4)))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.MarkerID).To(Equal(3))
		Expect(s.Measured).To(Equal([]float64{1, 4}))
	})

	It("holds the previous command when the marker is missing", func() {
		l := newLoop(WithTarget(7))
		l.Start()
		clock.Advance(time.Second)

		first, err := l.Step(ctx, withMarkers(square(7, 0, 0, 4)))
		Expect(err).NotTo(HaveOccurred())
		integral := xPID.AccumulatedError()

		clock.Advance(time.Second)
		held, err := l.Step(ctx, withMarkers(square(9, 0, 0, 4)))
		Expect(err).NotTo(HaveOccurred())
		Expect(held.Found).To(BeFalse())
		Expect(held.Held).To(BeTrue())
		Expect(held.Outputs).To(Equal(first.Outputs))
		Expect(xPID.AccumulatedError()).To(Equal(integral))

		Expect(rec.cmds).To(HaveLen(2))
		Expect(rec.cmds[1].Held).To(BeTrue())
		Expect(rec.cmds[1].Frame).To(Equal(1))
	})

	It("holds zero outputs when the first frame has no marker", func() {
		l := newLoop()
		l.Start()

		s, err := l.Step(ctx, withMarkers())
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Held).To(BeTrue())
		Expect(s.Outputs).To(Equal([]float64{0, 0}))
	})

	It("holds on degenerate geometry", func() {
		l := newLoop()
		l.Start()
		clock.Advance(time.Second)

		tri := marker.Observation{ID: 1, Corners: marker.Polygon{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 0, Y: 4}}}
		s, err := l.Step(ctx, withMarkers(tri))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Held).To(BeTrue())
	})

	It("inverts the correction of an inverted axis", func() {
		axes[0].Invert = true
		l := newLoop()
		l.Start()
		clock.Advance(time.Second)

		s, err := l.Step(ctx, withMarkers(square(7, 0, 0, 4)))
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Outputs[0]).To(BeNumerically("~", -4, 1e-12))
	})

	It("returns actuator failures", func() {
		rec.err = errors.New("bus down")
		l := newLoop()
		l.Start()
		clock.Advance(time.Second)

		_, err := l.Step(ctx, withMarkers(square(7, 0, 0, 4)))
		Expect(err).To(MatchError(rec.err))
	})

	Describe("Run", func() {
		It("consumes the source and reports metrics", func() {
			src := &sliceSource{
				clock: clock,
				step:  50 * time.Millisecond,
				frames: []frame{
					withMarkers(square(7, 0, 0, 4)),
					withMarkers(),
					withMarkers(square(7, 2, 2, 4)),
				},
			}
			l := newLoop()
			m := &countMetric{}
			l.AddMetric(m)

			trace, err := l.Run(ctx, src)
			Expect(err).NotTo(HaveOccurred())
			Expect(trace.Axes).To(Equal([]string{"pan", "zoom"}))
			Expect(trace.Samples).To(HaveLen(3))
			Expect(trace.Samples[1].Held).To(BeTrue())
			Expect(trace.Samples[2].Time).To(BeNumerically("~", 0.15, 1e-9))
			Expect(trace.Metrics).To(HaveKeyWithValue("found", 2.0))
			Expect(rec.cmds).To(HaveLen(3))
		})

		It("stops on cancellation", func() {
			src := &sliceSource{clock: clock, step: time.Millisecond, frames: []frame{withMarkers()}}
			cctx, cancel := context.WithCancel(ctx)
			cancel()

			trace, err := newLoop().Run(cctx, src)
			Expect(errors.Is(err, context.Canceled)).To(BeTrue())
			Expect(trace.Samples).To(BeEmpty())
		})
	})
})
