package diagnostics

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/nerrad567/dcs-inspector-core/internal/settings"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// Entry is one exported value from the game state.
type Entry struct {
	DcsID string `json:"dcs_id"`
	Value string `json:"value"`
}

// Connection holds the export-script connection settings.
type Connection struct {
	IPAddress    string `json:"ip_address"`
	ListenerPort string `json:"listener_port"`
	SendPort     string `json:"send_port"`
}

// View is a snapshot of the window for display.
type View struct {
	Connection       Connection `json:"connection"`
	NoModuleDetected bool       `json:"no_module_detected"`
	Entries          []Entry    `json:"entries"`
}

// Window is the comms window model. All public methods are thread-safe.
type Window struct {
	*window.Base

	opener window.Opener

	mu       sync.RWMutex
	conn     Connection
	noModule bool
	entries  []Entry
	onChange func()
}

// New creates a comms window restored from the opener's global settings.
// fallback supplies any connection field the global record lacks.
func New(opener window.Opener, fallback settings.Record) *Window {
	g := opener.GlobalSettings()
	pick := func(field string) string {
		if v := g.String(field); v != "" {
			return v
		}
		return fallback.String(field)
	}

	return &Window{
		Base:   window.NewBase(window.KindComms),
		opener: opener,
		conn: Connection{
			IPAddress:    pick(settings.GlobalIPAddress),
			ListenerPort: pick(settings.GlobalListenerPort),
			SendPort:     pick(settings.GlobalSendPort),
		},
	}
}

// SetOnChange registers a callback fired after any state change.
func (w *Window) SetOnChange(fn func()) {
	w.mu.Lock()
	w.onChange = fn
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

// View returns a snapshot of the window.
func (w *Window) View() View {
	w.mu.RLock()
	defer w.mu.RUnlock()

	return View{
		Connection:       w.conn,
		NoModuleDetected: w.noModule,
		Entries:          append([]Entry(nil), w.entries...),
	}
}

// UpdateConnection stores the connection settings and sends them to the
// opener as a global-settings update.
func (w *Window) UpdateConnection(ctx context.Context, c Connection) error {
	w.mu.Lock()
	w.conn = c
	w.mu.Unlock()
	w.changed()

	return w.send(ctx, window.EventUpdateGlobalSettingsComm, settings.Record{
		settings.GlobalIPAddress:    c.IPAddress,
		settings.GlobalListenerPort: c.ListenerPort,
		settings.GlobalSendPort:     c.SendPort,
	})
}

// Refresh asks the host for a fresh game-state snapshot.
func (w *Window) Refresh(ctx context.Context) error {
	return w.send(ctx, window.EventRefreshDcsState, nil)
}

// GotDcsGameState receives a game-state snapshot. nil means no module
// is running and clears the table.
func (w *Window) GotDcsGameState(state map[string]any) {
	w.mu.Lock()
	if state == nil {
		w.noModule = true
		w.entries = nil
	} else {
		w.noModule = false
		w.entries = Entries(state)
	}
	w.mu.Unlock()

	w.changed()
}

// Entries flattens a game-state snapshot into rows ordered by numeric
// export id. Non-numeric ids sort after numeric ones.
func Entries(state map[string]any) []Entry {
	out := make([]Entry, 0, len(state))
	for id, v := range state {
		out = append(out, Entry{DcsID: id, Value: settings.FormatValue(v)})
	}

	sort.Slice(out, func(i, j int) bool {
		a, aerr := strconv.ParseFloat(out[i].DcsID, 64)
		b, berr := strconv.ParseFloat(out[j].DcsID, 64)
		switch {
		case aerr == nil && berr == nil && a != b:
			return a < b
		case aerr == nil && berr != nil:
			return true
		case aerr != nil && berr == nil:
			return false
		default:
			return out[i].DcsID < out[j].DcsID
		}
	})
	return out
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
