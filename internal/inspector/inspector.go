package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/nerrad567/dcs-inspector-core/internal/host"
	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/config"
	"github.com/nerrad567/dcs-inspector-core/internal/reconcile"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// Event names emitted to listeners.
const (
	EventWindowOpened     = "window.opened"
	EventWindowClosed     = "window.closed"
	EventWindowUpdated    = "window.updated"
	EventHostStateChanged = "host.state_changed"
	EventSettingsChanged  = "settings.changed"
	EventPrompt           = "prompt"
)

// EventFunc receives inspector events. It must not block.
type EventFunc func(event string, payload any)

// Snapshot is the inspector state exposed to the control surface.
type Snapshot struct {
	State    string            `json:"state"`
	Instance settings.Instance `json:"instance"`
	Settings settings.Record   `json:"settings"`
	Global   settings.Record   `json:"global"`
	Windows  []*window.Handle  `json:"windows"`
}

// Inspector composes the settings store, the host connection, the window
// registry and the router for one action instance.
type Inspector struct {
	cfg      *config.Config
	store    *settings.Store
	conn     *host.Conn
	registry *window.Registry
	router   *Router

	listenersMu sync.RWMutex
	listeners   []EventFunc

	stopWatch context.CancelFunc
	closeOnce sync.Once

	logger Logger
}

// New builds an inspector for reg. Nothing connects until Start.
func New(cfg *config.Config, reg host.Registration) *Inspector {
	seed := settings.DefaultGlobal(cfg.Defaults)
	store := settings.NewStore(reg.ActionInfo.Payload.Settings, seed)
	conn := host.NewConn(cfg.Host, reg, store)

	i := &Inspector{
		cfg:    cfg,
		store:  store,
		conn:   conn,
		logger: noopLogger{},
	}

	launcher := &localLauncher{
		fallback: seed,
		instance: conn.Instance,
		store:    store,
		onChange: func(kind window.Kind) {
			i.emit(EventWindowUpdated, map[string]any{"kind": kind})
		},
		prompt: func(kind window.Kind, msg string) {
			i.emit(EventPrompt, map[string]any{"kind": kind, "message": msg})
		},
	}
	i.registry = window.NewRegistry(launcher)
	i.router = NewRouter(conn, store, i.registry)
	launcher.opener = i.router

	conn.SetHandler(i.router)
	conn.SetOnStateChange(func(from, to host.State) {
		i.emit(EventHostStateChanged, map[string]any{"from": from.String(), "to": to.String()})
	})
	store.SetOnChange(func(scope settings.Scope, record settings.Record) {
		i.emit(EventSettingsChanged, map[string]any{"scope": scope, "settings": record})
	})
	i.registry.SetOnOpen(func(h *window.Handle) {
		i.emit(EventWindowOpened, h)
	})
	i.registry.SetOnClose(func(kind window.Kind, id string) {
		i.emit(EventWindowClosed, map[string]any{"kind": kind, "id": id})
	})

	return i
}

// SetLogger sets the logger for the inspector and its components.
func (i *Inspector) SetLogger(logger Logger) {
	i.logger = logger
	i.conn.SetLogger(logger)
	i.registry.SetLogger(logger)
	i.router.SetLogger(logger)
}

// Subscribe registers fn for every inspector event.
func (i *Inspector) Subscribe(fn EventFunc) {
	i.listenersMu.Lock()
	i.listeners = append(i.listeners, fn)
	i.listenersMu.Unlock()
}

// AddSink registers a game-state sink.
func (i *Inspector) AddSink(sink GameStateSink) {
	i.router.AddSink(sink)
}

func (i *Inspector) emit(event string, payload any) {
	i.listenersMu.RLock()
	listeners := make([]EventFunc, len(i.listeners))
	copy(listeners, i.listeners)
	i.listenersMu.RUnlock()

	for _, fn := range listeners {
		fn(event, payload)
	}
}

// Start connects to the host, writes any missing defaults and starts
// window liveness polling. Polling stops when ctx is cancelled or on Close.
func (i *Inspector) Start(ctx context.Context) error {
	if err := i.conn.Connect(ctx); err != nil {
		return fmt.Errorf("connecting to host: %w", err)
	}

	if err := i.applyDefaults(); err != nil {
		i.logger.Warn("writing default settings failed", "error", err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	i.stopWatch = cancel
	go i.registry.Watch(watchCtx, i.cfg.GetPollInterval())

	i.logger.Info("inspector started",
		"context", i.conn.Instance().Context,
		"action", i.conn.Instance().Action,
	)
	return nil
}

// Close closes every window and the host connection.
func (i *Inspector) Close() error {
	var err error
	i.closeOnce.Do(func() {
		if i.stopWatch != nil {
			i.stopWatch()
		}
		err = errors.Join(i.registry.CloseAll(), i.conn.Close())
	})
	return err
}

// Done is closed when the host connection closes.
func (i *Inspector) Done() <-chan struct{} {
	return i.conn.Done()
}

// Router returns the inspector's message router.
func (i *Inspector) Router() *Router {
	return i.router
}

// applyDefaults writes the defaults missing for the instance kind. It does
// nothing while the kind is undetermined.
func (i *Inspector) applyDefaults() error {
	inst := i.conn.Instance()
	if !inst.KindKnown() {
		i.logger.Debug("action kind not yet known, defaults deferred")
		return nil
	}
	_, err := i.router.Update(func(current settings.Record) settings.Record {
		return settings.MissingDefaults(inst.Kind, current)
	})
	return err
}

// SetAction records the action identifier once it is known and applies
// the defaults for its kind.
func (i *Inspector) SetAction(action string) (settings.Instance, error) {
	inst := i.conn.SetAction(action)
	return inst, i.applyDefaults()
}

// SetField writes one field from user input together with any fields
// derived from it.
func (i *Inspector) SetField(field string, value any) (settings.Record, error) {
	return i.router.Update(func(current settings.Record) settings.Record {
		return settings.ComputeDerived(field, value, current)
	})
}

// SetFields writes several fields at once. Derived fields are computed
// against the record with the earlier writes applied.
func (i *Inspector) SetFields(fields settings.Record) (settings.Record, error) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	return i.router.Update(func(current settings.Record) settings.Record {
		partial := settings.Record{}
		for _, k := range keys {
			partial = partial.Merge(settings.ComputeDerived(k, fields[k], current.Merge(partial)))
		}
		return partial
	})
}

// SetMappings encodes mappings into the value-text mapping field for the
// instance layout.
func (i *Inspector) SetMappings(mappings []settings.ValueMapping) (settings.Record, error) {
	encoded, err := settings.FormatMappings(mappings)
	if err != nil {
		return nil, err
	}
	return i.SetField(i.mappingField(), encoded)
}

func (i *Inspector) mappingField() string {
	if i.conn.Instance().Layout == settings.LayoutEncoder {
		return settings.FieldEncoderValueTextMapping
	}
	return settings.FieldStringMonitorMapping
}

// Mappings decodes the value-text mappings of the instance layout.
func (i *Inspector) Mappings() []settings.ValueMapping {
	return settings.ParseMappings(i.store.Settings().String(i.mappingField()))
}

// MappingFor returns the mapping that displays value, if any.
func (i *Inspector) MappingFor(value string) (settings.ValueMapping, bool) {
	return settings.FindMapping(i.Mappings(), value)
}

// SetGlobal merges partial into the global settings and sends them.
func (i *Inspector) SetGlobal(partial settings.Record) (settings.Record, error) {
	return i.router.UpdateGlobal(partial)
}

// SendToPlugin sends payload to the plugin for this instance.
func (i *Inspector) SendToPlugin(payload json.RawMessage) error {
	return i.router.SendToPlugin(payload)
}

// ClearCommand clears the imported command fields.
func (i *Inspector) ClearCommand() (settings.Record, error) {
	layout := i.conn.Instance().Layout
	return i.router.Update(func(settings.Record) settings.Record {
		return reconcile.ClearCommand(layout)
	})
}

// ClearCompareMonitor clears the image comparison monitor.
func (i *Inspector) ClearCompareMonitor() (settings.Record, error) {
	return i.router.Update(func(settings.Record) settings.Record {
		return reconcile.ClearCompareMonitor()
	})
}

// ClearStringMonitor clears the title string monitor.
func (i *Inspector) ClearStringMonitor() (settings.Record, error) {
	return i.router.Update(func(settings.Record) settings.Record {
		return reconcile.ClearStringMonitor()
	})
}

// ClearIncrementMonitor clears the encoder's monitored value.
func (i *Inspector) ClearIncrementMonitor() (settings.Record, error) {
	return i.router.Update(func(settings.Record) settings.Record {
		return reconcile.ClearIncrementMonitor()
	})
}

// Snapshot returns the current inspector state.
func (i *Inspector) Snapshot() Snapshot {
	return Snapshot{
		State:    i.conn.State().String(),
		Instance: i.conn.Instance(),
		Settings: i.store.Settings(),
		Global:   i.store.Global(),
		Windows:  i.registry.Handles(),
	}
}

// OpenWindow opens the window of kind, or returns the live one.
func (i *Inspector) OpenWindow(ctx context.Context, kind string) (*window.Handle, bool, error) {
	k, err := window.ParseKind(kind)
	if err != nil {
		return nil, false, err
	}
	return i.registry.Open(ctx, k)
}

// CloseWindow closes the live window of kind.
func (i *Inspector) CloseWindow(kind string) error {
	k, err := window.ParseKind(kind)
	if err != nil {
		return err
	}
	return i.registry.Close(k)
}

// CloseWindows closes every live window.
func (i *Inspector) CloseWindows() error {
	return i.registry.CloseAll()
}

// PollWindows clears the handles of windows that have closed.
func (i *Inspector) PollWindows() []window.Kind {
	return i.registry.PollLiveness()
}
