package window

import (
	"fmt"
	"strings"
)

// Kind identifies an auxiliary window type.
type Kind string

// Window kinds.
const (
	KindLookup Kind = "idlookup"
	KindComms  Kind = "comms"
	KindHelp   Kind = "help"

	// KindConfig is the passthrough-action configuration window.
	KindConfig Kind = "dcsbios"
)

// allKinds is ordered for stable listings.
var allKinds = []Kind{KindLookup, KindComms, KindHelp, KindConfig}

// Kinds returns every known window kind.
func Kinds() []Kind {
	out := make([]Kind, len(allKinds))
	copy(out, allKinds)
	return out
}

// ParseKind converts a string into a Kind. Matching is case-insensitive
// and accepts the "idLookup" spelling used by form buttons.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range allKinds {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Title returns the human-readable window title.
func (k Kind) Title() string {
	switch k {
	case KindLookup:
		return "ID Lookup"
	case KindComms:
		return "Comms Settings"
	case KindHelp:
		return "Help"
	case KindConfig:
		return "Button Configuration"
	default:
		return string(k)
	}
}
