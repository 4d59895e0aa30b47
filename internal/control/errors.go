package control

import "errors"

var (
	// ErrNotStarted indicates Update was called before Start.
	ErrNotStarted = errors.New("control: regulator not started, call Start before Update")

	// ErrUnknownParam indicates SetParam received a name it does not tune.
	ErrUnknownParam = errors.New("control: unknown parameter")
)
