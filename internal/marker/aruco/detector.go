// Package aruco implements marker.Detector on top of the OpenCV ArUco module.
package aruco

import (
	"errors"

	"gocv.io/x/gocv"

	"github.com/san-kum/markservo/internal/marker"
)

var ErrEmptyFrame = errors.New("aruco: empty frame")

// Detector recognises markers of one dictionary. Not safe for concurrent use.
type Detector struct {
	dict     Dictionary
	detector gocv.ArucoDetector
}

var _ marker.Detector[gocv.Mat] = (*Detector)(nil)

func NewDetector(dict Dictionary) (*Detector, error) {
	if _, ok := lookup(dict); !ok {
		return nil, ErrUnknownDictionary
	}
	d := gocv.GetPredefinedDictionary(gocv.ArucoDictionaryCode(dict))
	params := gocv.NewArucoDetectorParameters()
	return &Detector{
		dict:     dict,
		detector: gocv.NewArucoDetectorWithParams(d, params),
	}, nil
}

func (d *Detector) Dictionary() Dictionary {
	return d.dict
}

// Detect runs marker detection over img.
func (d *Detector) Detect(img gocv.Mat) (marker.Set, error) {
	if img.Empty() {
		return marker.Set{}, ErrEmptyFrame
	}

	corners, ids, rejected := d.detector.DetectMarkers(img)

	n := len(ids)
	if len(corners) < n {
		n = len(corners)
	}
	set := marker.Set{
		Markers:  make([]marker.Observation, 0, n),
		Rejected: make([]marker.Polygon, 0, len(rejected)),
	}
	for i := 0; i < n; i++ {
		set.Markers = append(set.Markers, marker.Observation{
			ID:      ids[i],
			Corners: toPolygon(corners[i]),
		})
	}
	for _, r := range rejected {
		set.Rejected = append(set.Rejected, toPolygon(r))
	}
	return set, nil
}

func (d *Detector) Close() error {
	d.detector.Close()
	return nil
}

func toPolygon(pts []gocv.Point2f) marker.Polygon {
	p := make(marker.Polygon, len(pts))
	for i, pt := range pts {
		p[i] = marker.Point{X: float64(pt.X), Y: float64(pt.Y)}
	}
	return p
}

func lookup(dict Dictionary) (string, bool) {
	for name, v := range dictionaries {
		if v == dict {
			return name, true
		}
	}
	return "", false
}
