package marker

// Point is a sub-pixel image coordinate.
type Point struct {
	X float64
	Y float64
}

// Polygon is an ordered list of marker corners. Winding is whatever the
// detector produced.
type Polygon []Point

// Observation is one decoded marker: its id and its corner polygon.
type Observation struct {
	ID      int
	Corners Polygon
}

// Set is the result of one detection pass. Markers keep detector order.
// Rejected holds candidates the detector could not decode.
type Set struct {
	Markers  []Observation
	Rejected []Polygon
}

func (s Set) Len() int {
	return len(s.Markers)
}

// IDs returns the decoded ids in detection order.
func (s Set) IDs() []int {
	ids := make([]int, len(s.Markers))
	for i, m := range s.Markers {
		ids[i] = m.ID
	}
	return ids
}

// Detector is the recognition primitive behind a Locator. It returns an
// empty Set when the frame holds no markers; an error means the frame could
// not be processed at all.
type Detector[I any] interface {
	Detect(img I) (Set, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc[I any] func(img I) (Set, error)

func (f DetectorFunc[I]) Detect(img I) (Set, error) {
	return f(img)
}
