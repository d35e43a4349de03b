package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/nerrad567/dcs-inspector-core/internal/reconcile"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// pluginEventDcsStateUpdate asks the plugin to push a game-state snapshot.
const pluginEventDcsStateUpdate = "RequestDcsStateUpdate"

// Logger defines the logging interface used by the inspector.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// HostConn is the part of the host connection the router writes through.
// host.Conn implements it.
type HostConn interface {
	Instance() settings.Instance
	SendToHost(payload any) error
	SendGlobalScoped(payload any) error
	SetSettings(partial settings.Record) (settings.Record, error)
	SetGlobalSettings(record settings.Record) (settings.Record, error)
}

// SettingsReader reads the local settings snapshots. settings.Store
// implements it.
type SettingsReader interface {
	Settings() settings.Record
	Global() settings.Record
}

// Forwarder delivers host payloads to live windows. window.Registry
// implements it.
type Forwarder interface {
	DeliverInstalledModules(modules []string) error
	DeliverClickableData(rows []string) error
	DeliverGameState(state map[string]any) error
}

// GameStateSink receives every non-empty game-state snapshot.
type GameStateSink interface {
	PublishGameState(ctx context.Context, state map[string]any) error
}

// Router dispatches host events and window messages.
//
// Writes to the settings records are serialised by mu, so a
// read-modify-write such as a derived field never interleaves with
// another. Window deliveries happen without mu held.
type Router struct {
	conn    HostConn
	store   SettingsReader
	windows Forwarder

	mu sync.Mutex

	sinksMu sync.RWMutex
	sinks   []GameStateSink

	logger Logger
}

// NewRouter creates a router.
func NewRouter(conn HostConn, store SettingsReader, windows Forwarder) *Router {
	return &Router{
		conn:    conn,
		store:   store,
		windows: windows,
		logger:  noopLogger{},
	}
}

// SetLogger sets the logger for the router.
func (r *Router) SetLogger(logger Logger) {
	r.logger = logger
}

// AddSink registers a game-state sink.
func (r *Router) AddSink(sink GameStateSink) {
	r.sinksMu.Lock()
	r.sinks = append(r.sinks, sink)
	r.sinksMu.Unlock()
}

// GlobalSettings returns a copy of the global-settings snapshot.
func (r *Router) GlobalSettings() settings.Record {
	return r.store.Global()
}

// Update computes a partial record from the current instance settings and
// writes it. fn runs under the router lock.
func (r *Router) Update(fn func(current settings.Record) settings.Record) (settings.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	partial := fn(r.store.Settings())
	if len(partial) == 0 {
		return r.store.Settings(), nil
	}
	return r.conn.SetSettings(partial)
}

// SendToPlugin passes payload to the plugin on the instance channel, so
// the plugin answers for this action instance only.
func (r *Router) SendToPlugin(payload json.RawMessage) error {
	if !json.Valid(payload) {
		return fmt.Errorf("%w: plugin payload is not valid JSON", window.ErrMalformedMessage)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.SendToHost(payload)
}

// UpdateGlobal merges partial into the global snapshot and sends the full
// record, since the host replaces global settings wholesale.
func (r *Router) UpdateGlobal(partial settings.Record) (settings.Record, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.conn.SetGlobalSettings(r.store.Global().Merge(partial))
}

// Call handles a message from a window.
func (r *Router) Call(ctx context.Context, msg window.Message) error {
	r.logger.Debug("window message", "event", msg.Event)

	switch msg.Event {
	case window.EventUpdateGlobalSettings, window.EventUpdateGlobalSettingsComm:
		if !msg.HasPayload() {
			return nil
		}
		var partial settings.Record
		if err := msg.Decode(&partial); err != nil {
			return err
		}
		_, err := r.UpdateGlobal(partial)
		return err

	case window.EventRequestInstalledModules:
		var p window.PathsPayload
		if err := msg.Decode(&p); err != nil {
			return err
		}
		return r.conn.SendGlobalScoped(map[string]any{
			"event":                       window.EventRequestInstalledModules,
			settings.GlobalInstallPath:    p.InstallPath,
			settings.GlobalSavedGamesPath: p.SavedGamesPath,
		})

	case window.EventRequestIDLookup:
		var p window.IDLookupPayload
		if err := msg.Decode(&p); err != nil {
			return err
		}
		return r.conn.SendGlobalScoped(map[string]any{
			"event":                       window.EventRequestIDLookup,
			settings.GlobalInstallPath:    p.InstallPath,
			settings.GlobalSavedGamesPath: p.SavedGamesPath,
			"module":                      p.Module,
		})

	case window.EventRefreshDcsState:
		return r.conn.SendGlobalScoped(map[string]any{"event": pluginEventDcsStateUpdate})

	case window.EventRequestGlobalSettings:
		// The snapshot is always current; windows read it via GlobalSettings.
		return nil

	case window.EventImportDcsCommand:
		var p window.CommandPayload
		if err := msg.Decode(&p); err != nil {
			return err
		}
		return r.importRecord(func(settings.Instance) settings.Record {
			return reconcile.Command(reconcile.Selection(p))
		})

	case window.EventImportImageChange, window.EventImportComparisonMonitor:
		return r.importMonitor(msg, reconcile.MonitorImage)

	case window.EventImportTextChange, window.EventImportStringMonitor:
		return r.importMonitor(msg, reconcile.MonitorText)

	case window.EventImportSwitchFirstToSecond:
		return r.importSwitch(msg, reconcile.FirstToSecond)

	case window.EventImportSwitchSecondToFirst:
		return r.importSwitch(msg, reconcile.SecondToFirst)

	default:
		return fmt.Errorf("%w: %q", ErrUnknownEvent, msg.Event)
	}
}

func (r *Router) importRecord(build func(settings.Instance) settings.Record) error {
	inst := r.conn.Instance()
	_, err := r.Update(func(settings.Record) settings.Record {
		return build(inst)
	})
	return err
}

func (r *Router) importMonitor(msg window.Message, target reconcile.MonitorTarget) error {
	var p window.MonitorPayload
	if err := msg.Decode(&p); err != nil {
		return err
	}
	return r.importRecord(func(inst settings.Instance) settings.Record {
		return reconcile.Monitor(inst.Layout, target, p.DcsID)
	})
}

func (r *Router) importSwitch(msg window.Message, direction string) error {
	var p window.SwitchPayload
	if err := msg.Decode(&p); err != nil {
		return err
	}
	return r.importRecord(func(inst settings.Instance) settings.Record {
		return reconcile.Switch(inst.Layout, direction, p.ButtonID, p.DeviceID, p.Value)
	})
}

// HandleHostSettings fills in any defaults the host's record lacks.
func (r *Router) HandleHostSettings(_ context.Context, record settings.Record) {
	inst := r.conn.Instance()
	if !inst.KindKnown() {
		return
	}
	if _, err := r.Update(func(current settings.Record) settings.Record {
		return settings.MissingDefaults(inst.Kind, current)
	}); err != nil {
		r.logger.Warn("writing default settings failed", "error", err)
	}
	r.logger.Debug("host settings received", "fields", len(record))
}

// HandleHostGlobalSettings is notified after the global snapshot merged the
// host's record.
func (r *Router) HandleHostGlobalSettings(_ context.Context, record settings.Record) {
	r.logger.Debug("host global settings received", "fields", len(record))
}

// pluginPayload holds the fields of every forwarded plugin event.
type pluginPayload struct {
	InstalledModules []string       `json:"installed_modules"`
	Clickabledata    []string       `json:"clickabledata"`
	CurrentGameState map[string]any `json:"current_game_state"`
}

// HandlePluginMessage forwards plugin events to the window that displays
// them. A delivery with no live target window is dropped.
func (r *Router) HandlePluginMessage(ctx context.Context, event string, payload json.RawMessage) {
	var p pluginPayload
	if err := json.Unmarshal(payload, &p); err != nil {
		r.logger.Warn("dropping plugin message", "event", event, "error", fmt.Errorf("%w: %v", window.ErrMalformedMessage, err))
		return
	}

	var err error
	switch event {
	case window.EventInstalledModules:
		if p.InstalledModules == nil {
			return
		}
		err = r.windows.DeliverInstalledModules(p.InstalledModules)

	case window.EventClickabledata:
		if p.Clickabledata == nil {
			return
		}
		err = r.windows.DeliverClickableData(p.Clickabledata)

	case window.EventDebugDcsGameState:
		r.publishGameState(ctx, p.CurrentGameState)
		err = r.windows.DeliverGameState(p.CurrentGameState)

	default:
		r.logger.Debug("ignoring plugin event", "event", event)
		return
	}

	if errors.Is(err, window.ErrNoTargetWindow) {
		r.logger.Debug("plugin event dropped", "event", event, "reason", err)
	} else if err != nil {
		r.logger.Warn("plugin event delivery failed", "event", event, "error", err)
	}
}

func (r *Router) publishGameState(ctx context.Context, state map[string]any) {
	if len(state) == 0 {
		return
	}
	r.sinksMu.RLock()
	sinks := make([]GameStateSink, len(r.sinks))
	copy(sinks, r.sinks)
	r.sinksMu.RUnlock()

	for _, s := range sinks {
		if err := s.PublishGameState(ctx, state); err != nil {
			r.logger.Warn("publishing game state failed", "error", err)
		}
	}
}
