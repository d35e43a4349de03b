package settings

import (
	"fmt"
	"strings"
)

// ActionKind is the behaviour class of an instance, inferred from the
// host-supplied action identifier.
type ActionKind string

// Action kinds.
const (
	KindMomentary    ActionKind = "momentary"
	KindSwitch       ActionKind = "switch"
	KindIncrementing ActionKind = "incrementing"
	KindPassthrough  ActionKind = "passthrough"
)

// Layout is the physical control an instance is bound to.
type Layout string

// Layouts.
const (
	LayoutButton  Layout = "button"
	LayoutEncoder Layout = "encoder"
)

// ParseKind converts a string into an ActionKind.
func ParseKind(s string) (ActionKind, error) {
	switch k := ActionKind(strings.ToLower(s)); k {
	case KindMomentary, KindSwitch, KindIncrementing, KindPassthrough:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// KindFromAction infers the action kind from an action identifier such as
// "com.ctytler.dcs.static.switch". Unknown identifiers are momentary.
func KindFromAction(action string) ActionKind {
	a := strings.ToLower(action)
	switch {
	case strings.Contains(a, "dcs-bios"), strings.Contains(a, "dcsbios"), strings.Contains(a, "dcs_bios"):
		return KindPassthrough
	case strings.Contains(a, "switch"):
		return KindSwitch
	case strings.Contains(a, "increment"), strings.Contains(a, "encoder"):
		return KindIncrementing
	default:
		return KindMomentary
	}
}

// LayoutFromAction infers the control layout from an action identifier.
func LayoutFromAction(action string) Layout {
	if strings.Contains(strings.ToLower(action), "encoder") {
		return LayoutEncoder
	}
	return LayoutButton
}

// Instance identifies one configurable button or encoder.
type Instance struct {
	// Context is the host-assigned identity token for this instance.
	Context string `json:"context"`
	Action  string `json:"action"`

	Kind   ActionKind `json:"kind"`
	Layout Layout     `json:"layout"`
}

// NewInstance builds an Instance, inferring kind and layout from action.
// An empty action leaves the kind undetermined until SetAction is called.
func NewInstance(context, action string) Instance {
	inst := Instance{Context: context}
	inst.SetAction(action)
	return inst
}

// SetAction records action and re-derives kind and layout.
func (i *Instance) SetAction(action string) {
	i.Action = action
	if action == "" {
		i.Kind = ""
		i.Layout = LayoutButton
		return
	}
	i.Kind = KindFromAction(action)
	i.Layout = LayoutFromAction(action)
}

// KindKnown reports whether the action kind has been determined.
func (i Instance) KindKnown() bool {
	return i.Kind != ""
}
