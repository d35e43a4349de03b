package inspector

import "errors"

// Domain errors for the inspector package.
var (
	// ErrUnknownEvent is returned when a window sends an event tag the
	// router does not handle.
	ErrUnknownEvent = errors.New("inspector: unknown event")

	// ErrUnknownAction is returned when a window action is not valid for
	// the window kind.
	ErrUnknownAction = errors.New("inspector: unknown window action")
)
