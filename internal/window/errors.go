package window

import "errors"

// Domain errors for the window package.
var (
	// ErrNoTargetWindow is returned when a delivery targets a kind with no
	// live window, or whose window does not accept that delivery.
	// Callers treat it as a silent drop.
	ErrNoTargetWindow = errors.New("window: no target window")

	// ErrUnknownKind is returned when a window kind string is not recognised.
	ErrUnknownKind = errors.New("window: unknown kind")

	// ErrMalformedMessage is returned when a message payload cannot be decoded.
	ErrMalformedMessage = errors.New("window: malformed message")

	// ErrNoLauncher is returned by Open when the registry has no launcher.
	ErrNoLauncher = errors.New("window: no launcher configured")
)
