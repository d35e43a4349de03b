package lookup

import "errors"

// MissingSelectionPrompt is shown when an import is attempted with no row
// selected.
const MissingSelectionPrompt = "Please select a row first"

// Domain errors for the lookup package.
var (
	// ErrMissingSelection is returned when an import runs with no row
	// selected. The import is aborted.
	ErrMissingSelection = errors.New("lookup: no row selected")

	// ErrRowOutOfRange is returned when selecting a row index that does
	// not exist.
	ErrRowOutOfRange = errors.New("lookup: row index out of range")
)
