// Package marker locates planar fiducial markers in a frame and reduces them
// to geometric features usable as control feedback.
//
// Recognition itself is delegated to a [Detector]; this package only
// selects among the returned candidates and measures them:
//
//   - [Locator.DetectAll]: every marker found in the frame
//   - [Locator.SelectLargest]: the marker with the largest contour area
//   - [Locator.SelectByID]: the first marker carrying a given id
//   - [Locator.Area], [Locator.Centroid]: features of one marker
//
// # Usage
//
//	det, _ := aruco.NewDetector(aruco.DefaultDictionary)
//	defer det.Close()
//	loc := marker.NewLocator[gocv.Mat](det)
//	c, err := loc.Centroid(frame, 7)
//	if errors.Is(err, marker.ErrNotFound) {
//	    // skip the cycle
//	}
//
// # Thread Safety
//
// A Locator is NOT safe for concurrent use; detectors keep mutable state
// between calls.
package marker
