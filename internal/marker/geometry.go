package marker

import "math"

const (
	minAreaCorners     = 4
	minCentroidCorners = 1
)

// ContourArea returns the enclosed area of the polygon using the shoelace
// formula. Polygons with fewer than three vertices have zero area.
func (p Polygon) ContourArea() float64 {
	n := len(p)
	if n < 3 {
		return 0
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		j := (i + 1) % n
		sum += p[i].X*p[j].Y - p[j].X*p[i].Y
	}
	return math.Abs(sum) / 2
}

// Mean returns the arithmetic mean of the vertices. It is not the polygon
// centroid; the two differ for irregular quadrilaterals.
func (p Polygon) Mean() Point {
	if len(p) == 0 {
		return Point{}
	}
	var sx, sy float64
	for _, c := range p {
		sx += c.X
		sy += c.Y
	}
	n := float64(len(p))
	return Point{X: sx / n, Y: sy / n}
}

// Area returns the contour area of the marker. At least four corners are
// required.
func (o Observation) Area() (float64, error) {
	if len(o.Corners) < minAreaCorners {
		return 0, &LookupError{Op: "area", ID: o.ID, Err: ErrInsufficientGeometry}
	}
	return o.Corners.ContourArea(), nil
}

// Centroid returns the mean of the marker corners.
func (o Observation) Centroid() (Point, error) {
	if len(o.Corners) < minCentroidCorners {
		return Point{}, &LookupError{Op: "centroid", ID: o.ID, Err: ErrInsufficientGeometry}
	}
	return o.Corners.Mean(), nil
}
