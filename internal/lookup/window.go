package lookup

import (
	"context"
	"fmt"
	"sync"

	"github.com/nerrad567/dcs-inspector-core/internal/reconcile"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// Window is the ID lookup window model.
//
// All public methods are thread-safe. The opener is always called without
// the window lock held.
type Window struct {
	*window.Base

	opener window.Opener

	mu             sync.RWMutex
	installPath    string
	savedGamesPath string
	module         string
	search         string
	modules        []string
	rows           []Row
	selected       int // index into rows, -1 when nothing is selected

	onChange func()
	prompt   func(msg string)
}

// View is a snapshot of the window for display.
type View struct {
	InstallPath    string       `json:"dcs_install_path"`
	SavedGamesPath string       `json:"dcs_savedgames_path"`
	Module         string       `json:"module"`
	Search         string       `json:"search"`
	Modules        []string     `json:"modules"`
	Rows           []IndexedRow `json:"rows"`
	Selected       *IndexedRow  `json:"selected,omitempty"`
	TotalRows      int          `json:"total_rows"`
}

// New creates a lookup window restored from the opener's global settings.
// fallback supplies the install paths when the global record has none.
func New(opener window.Opener, fallback settings.Record) *Window {
	g := opener.GlobalSettings()
	pick := func(field string) string {
		if v := g.String(field); v != "" {
			return v
		}
		return fallback.String(field)
	}

	return &Window{
		Base:           window.NewBase(window.KindLookup),
		opener:         opener,
		installPath:    pick(settings.GlobalInstallPath),
		savedGamesPath: pick(settings.GlobalSavedGamesPath),
		module:         g.String(settings.GlobalLastModule),
		search:         g.String(settings.GlobalLastSearchQuery),
		selected:       -1,
	}
}

// SetOnChange registers a callback fired after any state change.
func (w *Window) SetOnChange(fn func()) {
	w.mu.Lock()
	w.onChange = fn
	w.mu.Unlock()
}

// SetPrompter registers the callback that shows user-facing prompts.
func (w *Window) SetPrompter(fn func(msg string)) {
	w.mu.Lock()
	w.prompt = fn
	w.mu.Unlock()
}

func (w *Window) changed() {
	w.mu.RLock()
	fn := w.onChange
	w.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

// Loaded asks the opener for the installed-module list.
func (w *Window) Loaded(ctx context.Context) error {
	w.mu.RLock()
	paths := window.PathsPayload{InstallPath: w.installPath, SavedGamesPath: w.savedGamesPath}
	w.mu.RUnlock()

	return w.send(ctx, window.EventRequestInstalledModules, paths)
}

// View returns a snapshot with the rows filtered by the current search.
func (w *Window) View() View {
	w.mu.RLock()
	defer w.mu.RUnlock()

	v := View{
		InstallPath:    w.installPath,
		SavedGamesPath: w.savedGamesPath,
		Module:         w.module,
		Search:         w.search,
		Modules:        append([]string(nil), w.modules...),
		Rows:           Filter(w.rows, w.search),
		TotalRows:      len(w.rows),
	}
	if w.selected >= 0 {
		v.Selected = &IndexedRow{Index: w.selected, Row: w.rows[w.selected]}
	}
	return v
}

// GotInstalledModules receives the module list. When the last-used module
// is installed its table is requested straight away.
func (w *Window) GotInstalledModules(modules []string) {
	normalized := NormalizeModules(modules)
	g := w.opener.GlobalSettings()
	lastModule := g.String(settings.GlobalLastModule)

	w.mu.Lock()
	w.modules = normalized
	if lastModule != "" {
		w.module = lastModule
	}
	w.search = g.String(settings.GlobalLastSearchQuery)
	req := window.IDLookupPayload{
		PathsPayload: window.PathsPayload{InstallPath: w.installPath, SavedGamesPath: w.savedGamesPath},
		Module:       lastModule,
	}
	w.mu.Unlock()

	if lastModule != "" && containsModule(normalized, lastModule) {
		//nolint:errcheck // Delivery callback has no caller to report to; the opener logs failures
		w.send(context.Background(), window.EventRequestIDLookup, req)
	}
	w.changed()
}

// GotClickableData receives the raw table rows for the selected module.
func (w *Window) GotClickableData(rows []string) {
	parsed := ParseClickable(rows)

	w.mu.Lock()
	w.rows = parsed
	w.selected = -1
	w.mu.Unlock()

	w.changed()
}

// SetPaths updates the install paths locally. RefreshModules sends them.
func (w *Window) SetPaths(installPath, savedGamesPath string) {
	w.mu.Lock()
	w.installPath = installPath
	w.savedGamesPath = savedGamesPath
	w.mu.Unlock()
	w.changed()
}

// RefreshModules requests the module list for the current paths and saves
// the window fields.
func (w *Window) RefreshModules(ctx context.Context) error {
	w.mu.RLock()
	paths := window.PathsPayload{InstallPath: w.installPath, SavedGamesPath: w.savedGamesPath}
	w.mu.RUnlock()

	if err := w.send(ctx, window.EventRequestInstalledModules, paths); err != nil {
		return err
	}
	return w.saveGlobals(ctx)
}

// SetModule selects a module and requests its table with a cleared search.
func (w *Window) SetModule(ctx context.Context, module string) error {
	w.mu.Lock()
	w.module = module
	w.mu.Unlock()

	if module == "" {
		w.changed()
		return nil
	}
	return w.RequestIDLookup(ctx, true)
}

// RequestIDLookup clears the table and asks for the current module's
// table. clearSearch also resets the search text.
func (w *Window) RequestIDLookup(ctx context.Context, clearSearch bool) error {
	w.mu.Lock()
	w.rows = nil
	w.selected = -1
	if clearSearch {
		w.search = ""
	}
	module := w.module
	req := window.IDLookupPayload{
		PathsPayload: window.PathsPayload{InstallPath: w.installPath, SavedGamesPath: w.savedGamesPath},
		Module:       module,
	}
	w.mu.Unlock()
	w.changed()

	if module != "" {
		if err := w.send(ctx, window.EventRequestIDLookup, req); err != nil {
			return err
		}
	}
	return w.saveGlobals(ctx)
}

// SetSearch updates the search text and saves it.
func (w *Window) SetSearch(ctx context.Context, query string) error {
	w.mu.Lock()
	w.search = query
	w.mu.Unlock()
	w.changed()

	return w.saveGlobals(ctx)
}

// Select marks the row at index (in the unfiltered table) as selected.
func (w *Window) Select(index int) error {
	w.mu.Lock()
	if index < 0 || index >= len(w.rows) {
		w.mu.Unlock()
		return fmt.Errorf("%w: %d", ErrRowOutOfRange, index)
	}
	w.selected = index
	w.mu.Unlock()

	w.changed()
	return nil
}

// selection returns the selected row.
func (w *Window) selection() (Row, error) {
	w.mu.RLock()
	idx := w.selected
	var row Row
	if idx >= 0 {
		row = w.rows[idx]
	}
	prompt := w.prompt
	w.mu.RUnlock()

	if idx < 0 {
		if prompt != nil {
			prompt(MissingSelectionPrompt)
		}
		return Row{}, ErrMissingSelection
	}
	return row, nil
}

// ImportCommand imports the selected row as a command. direction is ""
// or one of the reconcile switch directions.
func (w *Window) ImportCommand(ctx context.Context, direction string) error {
	row, err := w.selection()
	if err != nil {
		return err
	}

	sel := row.Selection(direction)
	if err := w.send(ctx, window.EventImportDcsCommand, window.CommandPayload(sel)); err != nil {
		return err
	}
	return w.finishImport(ctx)
}

// ImportImageChange imports the selected row's id as the image monitor.
func (w *Window) ImportImageChange(ctx context.Context) error {
	return w.importMonitor(ctx, window.EventImportImageChange)
}

// ImportTextChange imports the selected row's id as the title monitor.
func (w *Window) ImportTextChange(ctx context.Context) error {
	return w.importMonitor(ctx, window.EventImportTextChange)
}

func (w *Window) importMonitor(ctx context.Context, event string) error {
	row, err := w.selection()
	if err != nil {
		return err
	}

	if err := w.send(ctx, event, window.MonitorPayload{DcsID: row.DcsID}); err != nil {
		return err
	}
	return w.finishImport(ctx)
}

// ImportSwitchFirstToSecond imports the row as the first-to-second switch
// command and then as the image monitor. The two imports are independent:
// the second runs even though the first has already closed the window.
func (w *Window) ImportSwitchFirstToSecond(ctx context.Context) error {
	return w.importSwitch(ctx, reconcile.FirstToSecond)
}

// ImportSwitchSecondToFirst is the second-to-first counterpart of
// ImportSwitchFirstToSecond.
func (w *Window) ImportSwitchSecondToFirst(ctx context.Context) error {
	return w.importSwitch(ctx, reconcile.SecondToFirst)
}

func (w *Window) importSwitch(ctx context.Context, direction string) error {
	if err := w.ImportCommand(ctx, direction); err != nil {
		return err
	}
	return w.ImportImageChange(ctx)
}

// finishImport saves the window fields and closes the window.
func (w *Window) finishImport(ctx context.Context) error {
	err := w.saveGlobals(ctx)
	w.Close() //nolint:errcheck // Base.Close never fails
	return err
}

// saveGlobals sends the window's own global fields to the opener.
// Only named fields are sent so fields owned by other windows survive.
func (w *Window) saveGlobals(ctx context.Context) error {
	w.mu.RLock()
	partial := settings.Record{
		settings.GlobalInstallPath:     w.installPath,
		settings.GlobalSavedGamesPath:  w.savedGamesPath,
		settings.GlobalLastSearchQuery: w.search,
	}
	if w.module != "" {
		partial[settings.GlobalLastModule] = w.module
	}
	w.mu.RUnlock()

	return w.send(ctx, window.EventUpdateGlobalSettings, partial)
}

func (w *Window) send(ctx context.Context, event string, payload any) error {
	msg, err := window.NewMessage(event, payload)
	if err != nil {
		return err
	}
	if err := w.opener.Call(ctx, msg); err != nil {
		return fmt.Errorf("sending %s: %w", event, err)
	}
	return nil
}
