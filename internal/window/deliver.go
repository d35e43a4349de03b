package window

import "fmt"

// DeliverInstalledModules hands modules to the live lookup window.
// It returns ErrNoTargetWindow when no lookup window is live or it does
// not accept module lists. Nothing is queued for later delivery.
func (r *Registry) DeliverInstalledModules(modules []string) error {
	h, ok := r.Lookup(KindLookup)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTargetWindow, KindLookup)
	}
	recv, ok := h.window.(ModuleReceiver)
	if !ok {
		return fmt.Errorf("%w: %s does not accept modules", ErrNoTargetWindow, KindLookup)
	}
	recv.GotInstalledModules(modules)
	return nil
}

// DeliverClickableData hands raw clickable-data rows to the live lookup
// window under the same rules as DeliverInstalledModules.
func (r *Registry) DeliverClickableData(rows []string) error {
	h, ok := r.Lookup(KindLookup)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTargetWindow, KindLookup)
	}
	recv, ok := h.window.(ClickableDataReceiver)
	if !ok {
		return fmt.Errorf("%w: %s does not accept clickable data", ErrNoTargetWindow, KindLookup)
	}
	recv.GotClickableData(rows)
	return nil
}

// DeliverGameState hands the current game state, or nil, to the live
// diagnostics window.
func (r *Registry) DeliverGameState(state map[string]any) error {
	h, ok := r.Lookup(KindComms)
	if !ok {
		return fmt.Errorf("%w: %s", ErrNoTargetWindow, KindComms)
	}
	recv, ok := h.window.(GameStateReceiver)
	if !ok {
		return fmt.Errorf("%w: %s does not accept game state", ErrNoTargetWindow, KindComms)
	}
	recv.GotDcsGameState(state)
	return nil
}
