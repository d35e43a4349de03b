package inspector

import (
	"context"
	"fmt"

	"github.com/nerrad567/dcs-inspector-core/internal/diagnostics"
	"github.com/nerrad567/dcs-inspector-core/internal/lookup"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// helpWindow shows static help text and has no behaviour beyond its
// lifecycle.
type helpWindow struct {
	*window.Base
}

// HelpView is the help window snapshot.
type HelpView struct {
	Title string `json:"title"`
}

func (w *helpWindow) View() HelpView {
	return HelpView{Title: w.Kind().Title()}
}

// configWindow edits the instance settings of a passthrough action.
type configWindow struct {
	*window.Base

	instance func() settings.Instance
	store    SettingsReader
}

// ConfigView is the configuration window snapshot.
type ConfigView struct {
	Instance settings.Instance `json:"instance"`
	Settings settings.Record   `json:"settings"`
}

func (w *configWindow) View() ConfigView {
	return ConfigView{
		Instance: w.instance(),
		Settings: w.store.Settings(),
	}
}

// localLauncher creates windows in-process. Every window it creates talks
// to the router as its opener.
type localLauncher struct {
	opener   window.Opener
	fallback settings.Record
	instance func() settings.Instance
	store    SettingsReader

	onChange func(kind window.Kind)
	prompt   func(kind window.Kind, msg string)
}

// Launch implements window.Launcher.
func (l *localLauncher) Launch(_ context.Context, kind window.Kind) (window.Window, error) {
	changed := func() {
		if l.onChange != nil {
			l.onChange(kind)
		}
	}

	switch kind {
	case window.KindLookup:
		w := lookup.New(l.opener, l.fallback)
		w.SetOnChange(changed)
		w.SetPrompter(func(msg string) {
			if l.prompt != nil {
				l.prompt(kind, msg)
			}
		})
		return w, nil

	case window.KindComms:
		w := diagnostics.New(l.opener, l.fallback)
		w.SetOnChange(changed)
		return w, nil

	case window.KindHelp:
		return &helpWindow{Base: window.NewBase(kind)}, nil

	case window.KindConfig:
		return &configWindow{
			Base:     window.NewBase(kind),
			instance: l.instance,
			store:    l.store,
		}, nil

	default:
		return nil, fmt.Errorf("%w: %q", window.ErrUnknownKind, kind)
	}
}
