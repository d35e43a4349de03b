package settings

import "errors"

// Domain errors for the settings package.
var (
	// ErrInvalidMapping is returned when a ValueMapping sub-field contains
	// a separator character and cannot be serialised losslessly.
	ErrInvalidMapping = errors.New("settings: invalid value mapping")

	// ErrUnknownKind is returned when an action kind string is not one of
	// the closed set.
	ErrUnknownKind = errors.New("settings: unknown action kind")
)
