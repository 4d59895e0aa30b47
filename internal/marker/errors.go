package marker

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound indicates the requested marker is absent from the frame.
	ErrNotFound = errors.New("marker: not found")

	// ErrInsufficientGeometry indicates a marker polygon has too few corners
	// for the requested measurement.
	ErrInsufficientGeometry = errors.New("marker: insufficient corner points")
)

// LookupError wraps a selection or measurement failure with the operation
// and marker id that caused it.
type LookupError struct {
	Op  string
	ID  int
	Err error
}

func (e *LookupError) Error() string {
	if e.ID < 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s id=%d: %v", e.Op, e.ID, e.Err)
}

func (e *LookupError) Unwrap() error {
	return e.Err
}
