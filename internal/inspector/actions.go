package inspector

import (
	"context"
	"fmt"

	"github.com/nerrad567/dcs-inspector-core/internal/diagnostics"
	"github.com/nerrad567/dcs-inspector-core/internal/lookup"
	"github.com/nerrad567/dcs-inspector-core/internal/reconcile"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// Window action names.
const (
	ActionSelect                    = "select"
	ActionSearch                    = "search"
	ActionModule                    = "module"
	ActionPaths                     = "paths"
	ActionRefreshModules            = "refresh_modules"
	ActionImportCommand             = "import_command"
	ActionImportImageChange         = "import_image_change"
	ActionImportTextChange          = "import_text_change"
	ActionImportSwitchFirstToSecond = "import_switch_first_to_second"
	ActionImportSwitchSecondToFirst = "import_switch_second_to_first"
	ActionUpdateConnection          = "update_connection"
	ActionRefresh                   = "refresh"
	ActionClose                     = "close"
)

// Intent is a user action performed in a window.
type Intent struct {
	Action string `json:"action"`

	// Lookup window fields.
	Index          int    `json:"index,omitempty"`
	Query          string `json:"query,omitempty"`
	Module         string `json:"module,omitempty"`
	InstallPath    string `json:"dcs_install_path,omitempty"`
	SavedGamesPath string `json:"dcs_savedgames_path,omitempty"`
	Direction      string `json:"direction,omitempty"`

	// Comms window fields.
	Connection diagnostics.Connection `json:"connection"`
}

// WindowView returns the display snapshot of the live window of kind.
func (i *Inspector) WindowView(kind string) (any, error) {
	w, err := i.liveWindow(kind)
	if err != nil {
		return nil, err
	}

	switch v := w.(type) {
	case *lookup.Window:
		return v.View(), nil
	case *diagnostics.Window:
		return v.View(), nil
	case *helpWindow:
		return v.View(), nil
	case *configWindow:
		return v.View(), nil
	default:
		return nil, fmt.Errorf("%w: %s has no view", window.ErrNoTargetWindow, kind)
	}
}

// Act performs intent on the live window of kind.
func (i *Inspector) Act(ctx context.Context, kind string, intent Intent) error {
	if intent.Action == ActionClose {
		return i.CloseWindow(kind)
	}

	w, err := i.liveWindow(kind)
	if err != nil {
		return err
	}

	switch v := w.(type) {
	case *lookup.Window:
		return actLookup(ctx, v, intent)
	case *diagnostics.Window:
		return actComms(ctx, v, intent)
	default:
		return fmt.Errorf("%w: %q on %s", ErrUnknownAction, intent.Action, kind)
	}
}

func actLookup(ctx context.Context, w *lookup.Window, in Intent) error {
	switch in.Action {
	case ActionSelect:
		return w.Select(in.Index)
	case ActionSearch:
		return w.SetSearch(ctx, in.Query)
	case ActionModule:
		return w.SetModule(ctx, in.Module)
	case ActionPaths:
		w.SetPaths(in.InstallPath, in.SavedGamesPath)
		return nil
	case ActionRefreshModules:
		return w.RefreshModules(ctx)
	case ActionImportCommand:
		switch in.Direction {
		case "", reconcile.FirstToSecond, reconcile.SecondToFirst:
		default:
			return fmt.Errorf("%w: direction %q", ErrUnknownAction, in.Direction)
		}
		return w.ImportCommand(ctx, in.Direction)
	case ActionImportImageChange:
		return w.ImportImageChange(ctx)
	case ActionImportTextChange:
		return w.ImportTextChange(ctx)
	case ActionImportSwitchFirstToSecond:
		return w.ImportSwitchFirstToSecond(ctx)
	case ActionImportSwitchSecondToFirst:
		return w.ImportSwitchSecondToFirst(ctx)
	default:
		return fmt.Errorf("%w: %q on %s", ErrUnknownAction, in.Action, w.Kind())
	}
}

func actComms(ctx context.Context, w *diagnostics.Window, in Intent) error {
	switch in.Action {
	case ActionUpdateConnection:
		return w.UpdateConnection(ctx, in.Connection)
	case ActionRefresh:
		return w.Refresh(ctx)
	default:
		return fmt.Errorf("%w: %q on %s", ErrUnknownAction, in.Action, w.Kind())
	}
}

func (i *Inspector) liveWindow(kind string) (window.Window, error) {
	k, err := window.ParseKind(kind)
	if err != nil {
		return nil, err
	}
	h, ok := i.registry.Lookup(k)
	if !ok {
		return nil, fmt.Errorf("%w: %s", window.ErrNoTargetWindow, k)
	}
	return h.Window(), nil
}
