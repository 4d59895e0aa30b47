package marker

import (
	"fmt"

	"github.com/rs/zerolog"
)

// Locator runs a Detector over frames and selects markers from the result.
type Locator[I any] struct {
	detector Detector[I]
	log      zerolog.Logger
}

type LocatorOption func(*locatorOptions)

type locatorOptions struct {
	log zerolog.Logger
}

// WithLogger sets the logger used for selection failures.
func WithLogger(l zerolog.Logger) LocatorOption {
	return func(o *locatorOptions) {
		o.log = l
	}
}

func NewLocator[I any](detector Detector[I], opts ...LocatorOption) *Locator[I] {
	o := locatorOptions{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return &Locator[I]{
		detector: detector,
		log:      o.log.With().Str("component", "locator").Logger(),
	}
}

// DetectAll returns every marker in the frame. A frame without markers
// yields an empty Set and no error.
func (l *Locator[I]) DetectAll(img I) (Set, error) {
	set, err := l.detector.Detect(img)
	if err != nil {
		return Set{}, fmt.Errorf("marker: detect: %w", err)
	}
	return set, nil
}

// SelectLargest returns the marker with the largest contour area. Equal
// areas keep the marker detected first.
func (l *Locator[I]) SelectLargest(img I) (Observation, error) {
	set, err := l.DetectAll(img)
	if err != nil {
		return Observation{}, err
	}
	obs, err := Largest(set)
	if err != nil {
		l.log.Debug().Err(err).Msg("no marker to select")
		return Observation{}, err
	}
	return obs, nil
}

// SelectByID returns the first marker, in detection order, whose id is id.
func (l *Locator[I]) SelectByID(img I, id int) (Observation, error) {
	set, err := l.DetectAll(img)
	if err != nil {
		return Observation{}, err
	}
	obs, err := ByID(set, id)
	if err != nil {
		l.log.Debug().Err(err).Int("id", id).Ints("detected", set.IDs()).Msg("marker not in frame")
		return Observation{}, err
	}
	return obs, nil
}

// Area returns the contour area of marker id.
func (l *Locator[I]) Area(img I, id int) (float64, error) {
	obs, err := l.SelectByID(img, id)
	if err != nil {
		return 0, err
	}
	area, err := obs.Area()
	if err != nil {
		l.log.Debug().Err(err).Int("corners", len(obs.Corners)).Msg("cannot measure area")
		return 0, err
	}
	return area, nil
}

// Centroid returns the mean corner position of marker id.
func (l *Locator[I]) Centroid(img I, id int) (Point, error) {
	obs, err := l.SelectByID(img, id)
	if err != nil {
		return Point{}, err
	}
	c, err := obs.Centroid()
	if err != nil {
		l.log.Debug().Err(err).Msg("cannot measure centroid")
		return Point{}, err
	}
	return c, nil
}

// Largest picks the maximal-area observation from an existing Set.
func Largest(set Set) (Observation, error) {
	if len(set.Markers) == 0 {
		return Observation{}, &LookupError{Op: "select largest", ID: -1, Err: ErrNotFound}
	}
	best := 0
	bestArea := set.Markers[0].Corners.ContourArea()
	for i := 1; i < len(set.Markers); i++ {
		if a := set.Markers[i].Corners.ContourArea(); a > bestArea {
			best = i
			bestArea = a
		}
	}
	return set.Markers[best], nil
}

// ByID picks the first observation with the given id from an existing Set.
func ByID(set Set, id int) (Observation, error) {
	for _, m := range set.Markers {
		if m.ID == id {
			return m, nil
		}
	}
	return Observation{}, &LookupError{Op: "select", ID: id, Err: ErrNotFound}
}
