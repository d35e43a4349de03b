package inspector

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"

	"github.com/nerrad567/dcs-inspector-core/internal/host"
	"github.com/nerrad567/dcs-inspector-core/internal/settings"
	"github.com/nerrad567/dcs-inspector-core/internal/window"
)

// fakeConn records writes and applies them to a real store.
type fakeConn struct {
	mu        sync.Mutex
	store     *settings.Store
	inst      settings.Instance
	connected bool
	globalOut []any
	pluginOut []any
	setOut    []settings.Record
	globalSet []settings.Record
}

func newFakeConn(action string, initial settings.Record) *fakeConn {
	return &fakeConn{
		store:     settings.NewStore(initial, settings.Record{settings.GlobalIPAddress: "127.0.0.1"}),
		inst:      settings.NewInstance("CTX-1", action),
		connected: true,
	}
}

func (c *fakeConn) Instance() settings.Instance { return c.inst }

func (c *fakeConn) SendToHost(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return host.ErrNotConnected
	}
	c.pluginOut = append(c.pluginOut, payload)
	return nil
}

func (c *fakeConn) SendGlobalScoped(payload any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return host.ErrNotConnected
	}
	c.globalOut = append(c.globalOut, payload)
	return nil
}

func (c *fakeConn) SetSettings(partial settings.Record) (settings.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil, host.ErrNotConnected
	}
	merged := c.store.Merge(partial)
	c.setOut = append(c.setOut, merged)
	return merged, nil
}

func (c *fakeConn) SetGlobalSettings(record settings.Record) (settings.Record, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.connected {
		return nil, host.ErrNotConnected
	}
	c.globalSet = append(c.globalSet, record)
	return c.store.MergeGlobal(record), nil
}

func (c *fakeConn) lastGlobalOut(t *testing.T) map[string]any {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.globalOut) == 0 {
		t.Fatal("no global-scoped send")
	}
	return c.globalOut[len(c.globalOut)-1].(map[string]any)
}

// fakeForwarder records deliveries. missing makes every delivery report
// no target window.
type fakeForwarder struct {
	mu        sync.Mutex
	modules   [][]string
	rows      [][]string
	states    []map[string]any
	stateSeen int
	missing   bool
}

func (f *fakeForwarder) DeliverInstalledModules(m []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing {
		return window.ErrNoTargetWindow
	}
	f.modules = append(f.modules, m)
	return nil
}

func (f *fakeForwarder) DeliverClickableData(r []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.missing {
		return window.ErrNoTargetWindow
	}
	f.rows = append(f.rows, r)
	return nil
}

func (f *fakeForwarder) DeliverGameState(s map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateSeen++
	if f.missing {
		return window.ErrNoTargetWindow
	}
	f.states = append(f.states, s)
	return nil
}

type recordingSink struct {
	got []map[string]any
}

func (s *recordingSink) PublishGameState(_ context.Context, state map[string]any) error {
	s.got = append(s.got, state)
	return nil
}

func mustMessage(t *testing.T, event string, payload any) window.Message {
	t.Helper()
	msg, err := window.NewMessage(event, payload)
	if err != nil {
		t.Fatalf("NewMessage() error = %v", err)
	}
	return msg
}

func TestRouter_ImportDcsCommand(t *testing.T) {
	conn := newFakeConn("com.ctytler.dcs.static.switch.two-state", settings.Record{"press_value": "5"})
	r := NewRouter(conn, conn.store, &fakeForwarder{})

	msg := mustMessage(t, window.EventImportDcsCommand, window.CommandPayload{
		DeviceID:        "3",
		ButtonID:        "7",
		DcsID:           "1",
		ClickValue:      "0",
		LimitMin:        "0",
		LimitMax:        "1",
		SwitchDirection: "1st_to_2nd",
	})
	if err := r.Call(context.Background(), msg); err != nil {
		t.Fatalf("Call() error = %v", err)
	}

	got := conn.store.Settings()
	want := map[string]string{
		"button_id":                   "7",
		"device_id":                   "3",
		"send_address":                "3,7",
		"press_value":                 "0",
		"release_value":               "0",
		"dcs_id_increment_monitor":    "1",
		"increment_value":             "0",
		"increment_min":               "0",
		"increment_max":               "1",
		"increment_cw":                "0",
		"increment_ccw":               "0",
		"send_when_first_state_value": "0",
	}
	for field, v := range want {
		if got.String(field) != v {
			t.Errorf("%s = %q, want %q", field, got.String(field), v)
		}
	}
	if got.Has("send_when_second_state_value") {
		t.Error("second state value should not be written for 1st_to_2nd")
	}
}

func TestRouter_ImportMonitorByLayout(t *testing.T) {
	tests := []struct {
		name   string
		action string
		event  string
		field  string
	}{
		{"button image", "com.ctytler.dcs.static.button", window.EventImportImageChange, settings.FieldCompareMonitor},
		{"button text", "com.ctytler.dcs.static.button", window.EventImportTextChange, settings.FieldStringMonitor},
		{"encoder comparison", "com.ctytler.dcs.encoder", window.EventImportComparisonMonitor, settings.FieldIncrementMonitor},
		{"encoder string", "com.ctytler.dcs.encoder", window.EventImportStringMonitor, settings.FieldIncrementMonitor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn(tt.action, nil)
			r := NewRouter(conn, conn.store, &fakeForwarder{})

			msg := mustMessage(t, tt.event, window.MonitorPayload{DcsID: "404"})
			if err := r.Call(context.Background(), msg); err != nil {
				t.Fatalf("Call() error = %v", err)
			}
			if got := conn.store.Settings().String(tt.field); got != "404" {
				t.Errorf("%s = %q, want 404", tt.field, got)
			}
		})
	}
}

func TestRouter_ImportSwitch(t *testing.T) {
	tests := []struct {
		name   string
		action string
		event  string
		field  string
	}{
		{"button first", "com.ctytler.dcs.switch", window.EventImportSwitchFirstToSecond, settings.FieldFirstStateValue},
		{"button second", "com.ctytler.dcs.switch", window.EventImportSwitchSecondToFirst, settings.FieldSecondStateValue},
		{"encoder cw", "com.ctytler.dcs.encoder", window.EventImportSwitchFirstToSecond, settings.FieldIncrementCW},
		{"encoder ccw", "com.ctytler.dcs.encoder", window.EventImportSwitchSecondToFirst, settings.FieldIncrementCCW},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn(tt.action, nil)
			r := NewRouter(conn, conn.store, &fakeForwarder{})

			msg := mustMessage(t, tt.event, window.SwitchPayload{ButtonID: "2", DeviceID: "9", Value: "0.5"})
			if err := r.Call(context.Background(), msg); err != nil {
				t.Fatalf("Call() error = %v", err)
			}
			got := conn.store.Settings()
			if got.String(tt.field) != "0.5" {
				t.Errorf("%s = %q, want 0.5", tt.field, got.String(tt.field))
			}
			if got.String(settings.FieldSendAddress) != "9,2" {
				t.Errorf("send_address = %q, want 9,2", got.String(settings.FieldSendAddress))
			}
		})
	}
}

func TestRouter_UpdateGlobalSendsFullRecord(t *testing.T) {
	conn := newFakeConn("com.ctytler.dcs.button", nil)
	r := NewRouter(conn, conn.store, &fakeForwarder{})

	for _, event := range []string{window.EventUpdateGlobalSettings, window.EventUpdateGlobalSettingsComm} {
		msg := mustMessage(t, event, settings.Record{settings.GlobalSendPort: "27000"})
		if err := r.Call(context.Background(), msg); err != nil {
			t.Fatalf("Call(%s) error = %v", event, err)
		}
	}

	if len(conn.globalSet) != 2 {
		t.Fatalf("global writes = %d, want 2", len(conn.globalSet))
	}
	sent := conn.globalSet[1]
	if sent.String(settings.GlobalIPAddress) != "127.0.0.1" {
		t.Errorf("sent record lost ip_address: %v", sent)
	}
	if sent.String(settings.GlobalSendPort) != "27000" {
		t.Errorf("send_port = %q, want 27000", sent.String(settings.GlobalSendPort))
	}
	if r.GlobalSettings().String(settings.GlobalSendPort) != "27000" {
		t.Error("global snapshot not merged optimistically")
	}
}

func TestRouter_GlobalScopedRequests(t *testing.T) {
	conn := newFakeConn("com.ctytler.dcs.button", nil)
	r := NewRouter(conn, conn.store, &fakeForwarder{})
	ctx := context.Background()

	// A bare string is an install path with no saved-games path.
	raw := window.Message{Event: window.EventRequestInstalledModules, Payload: json.RawMessage(`"C:/DCS"`)}
	if err := r.Call(ctx, raw); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	got := conn.lastGlobalOut(t)
	if got["event"] != "RequestInstalledModules" || got["dcs_install_path"] != "C:/DCS" || got["dcs_savedgames_path"] != "" {
		t.Errorf("RequestInstalledModules payload = %v", got)
	}

	lookupMsg := mustMessage(t, window.EventRequestIDLookup, window.IDLookupPayload{
		PathsPayload: window.PathsPayload{InstallPath: "C:/DCS", SavedGamesPath: "C:/Saved"},
		Module:       "F-16C",
	})
	if err := r.Call(ctx, lookupMsg); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	got = conn.lastGlobalOut(t)
	if got["event"] != "RequestIdLookup" || got["module"] != "F-16C" || got["dcs_savedgames_path"] != "C:/Saved" {
		t.Errorf("RequestIdLookup payload = %v", got)
	}

	if err := r.Call(ctx, window.Message{Event: window.EventRefreshDcsState}); err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	got = conn.lastGlobalOut(t)
	if got["event"] != "RequestDcsStateUpdate" {
		t.Errorf("refresh payload = %v", got)
	}
}

func TestRouter_SendToPluginUsesInstanceChannel(t *testing.T) {
	conn := newFakeConn("com.ctytler.dcs.button", nil)
	r := NewRouter(conn, conn.store, &fakeForwarder{})

	if err := r.SendToPlugin(json.RawMessage(`{"event":"RequestDcsBiosConfig"}`)); err != nil {
		t.Fatalf("SendToPlugin() error = %v", err)
	}
	conn.mu.Lock()
	sent, global := len(conn.pluginOut), len(conn.globalOut)
	conn.mu.Unlock()
	if sent != 1 || global != 0 {
		t.Errorf("instance sends = %d, global sends = %d; want 1, 0", sent, global)
	}

	if err := r.SendToPlugin(json.RawMessage(`{not json`)); !errors.Is(err, window.ErrMalformedMessage) {
		t.Errorf("invalid payload error = %v, want ErrMalformedMessage", err)
	}

	conn.mu.Lock()
	conn.connected = false
	conn.mu.Unlock()
	if err := r.SendToPlugin(json.RawMessage(`{}`)); !errors.Is(err, host.ErrNotConnected) {
		t.Errorf("disconnected error = %v, want ErrNotConnected", err)
	}
}

func TestRouter_CallErrors(t *testing.T) {
	conn := newFakeConn("com.ctytler.dcs.button", nil)
	r := NewRouter(conn, conn.store, &fakeForwarder{})
	ctx := context.Background()

	if err := r.Call(ctx, window.Message{Event: "Bogus"}); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("unknown event error = %v, want ErrUnknownEvent", err)
	}
	if err := r.Call(ctx, window.Message{Event: window.EventImportDcsCommand}); !errors.Is(err, window.ErrMalformedMessage) {
		t.Errorf("missing payload error = %v, want ErrMalformedMessage", err)
	}
	if err := r.Call(ctx, window.Message{Event: window.EventRequestGlobalSettings}); err != nil {
		t.Errorf("requestGlobalSettings error = %v, want nil", err)
	}

	conn.connected = false
	if err := r.Call(ctx, window.Message{Event: window.EventRefreshDcsState}); !errors.Is(err, host.ErrNotConnected) {
		t.Errorf("disconnected error = %v, want ErrNotConnected", err)
	}
}

func TestRouter_HandlePluginMessage(t *testing.T) {
	tests := []struct {
		name        string
		event       string
		payload     string
		wantModules int
		wantRows    int
		wantStates  int
	}{
		{"modules", "InstalledModules", `{"event":"InstalledModules","installed_modules":["A-10C"]}`, 1, 0, 0},
		{"empty module list still forwarded", "InstalledModules", `{"installed_modules":[]}`, 1, 0, 0},
		{"modules missing", "InstalledModules", `{"event":"InstalledModules"}`, 0, 0, 0},
		{"clickabledata", "Clickabledata", `{"clickabledata":["a,b"]}`, 0, 1, 0},
		{"clickabledata null", "Clickabledata", `{"clickabledata":null}`, 0, 0, 0},
		{"game state", "DebugDcsGameState", `{"current_game_state":{"1":"0.5"}}`, 0, 0, 1},
		{"unknown event", "SomethingElse", `{}`, 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn := newFakeConn("com.ctytler.dcs.button", nil)
			fwd := &fakeForwarder{}
			r := NewRouter(conn, conn.store, fwd)

			r.HandlePluginMessage(context.Background(), tt.event, json.RawMessage(tt.payload))

			if len(fwd.modules) != tt.wantModules {
				t.Errorf("module deliveries = %d, want %d", len(fwd.modules), tt.wantModules)
			}
			if len(fwd.rows) != tt.wantRows {
				t.Errorf("row deliveries = %d, want %d", len(fwd.rows), tt.wantRows)
			}
			if len(fwd.states) != tt.wantStates {
				t.Errorf("state deliveries = %d, want %d", len(fwd.states), tt.wantStates)
			}
		})
	}
}

func TestRouter_GameStateNullAndSinks(t *testing.T) {
	conn := newFakeConn("com.ctytler.dcs.button", nil)
	fwd := &fakeForwarder{}
	sink := &recordingSink{}
	r := NewRouter(conn, conn.store, fwd)
	r.AddSink(sink)
	ctx := context.Background()

	r.HandlePluginMessage(ctx, "DebugDcsGameState", json.RawMessage(`{"event":"DebugDcsGameState"}`))
	r.HandlePluginMessage(ctx, "DebugDcsGameState", json.RawMessage(`{"current_game_state":{"7":1}}`))

	if len(fwd.states) != 2 {
		t.Fatalf("state deliveries = %d, want 2", len(fwd.states))
	}
	if fwd.states[0] != nil {
		t.Errorf("missing state delivered as %v, want nil", fwd.states[0])
	}
	if len(sink.got) != 1 {
		t.Errorf("sink received %d snapshots, want 1", len(sink.got))
	}
}

func TestRouter_NoTargetWindowIsDropped(t *testing.T) {
	conn := newFakeConn("com.ctytler.dcs.button", nil)
	fwd := &fakeForwarder{missing: true}
	r := NewRouter(conn, conn.store, fwd)

	r.HandlePluginMessage(context.Background(), "DebugDcsGameState", json.RawMessage(`{"current_game_state":{"1":2}}`))

	if fwd.stateSeen != 1 {
		t.Errorf("delivery attempts = %d, want 1", fwd.stateSeen)
	}
	if len(conn.setOut) != 0 || len(conn.globalOut) != 0 {
		t.Error("dropped delivery should not write anything")
	}
}

func TestRouter_HandleHostSettingsFillsDefaults(t *testing.T) {
	conn := newFakeConn("com.ctytler.dcs.static.switch.two-state", settings.Record{
		settings.FieldFirstStateValue: "5",
	})
	r := NewRouter(conn, conn.store, &fakeForwarder{})

	r.HandleHostSettings(context.Background(), conn.store.Settings())

	got := conn.store.Settings()
	if got.String(settings.FieldFirstStateValue) != "5" {
		t.Errorf("existing value overwritten: %q", got.String(settings.FieldFirstStateValue))
	}
	if got.String(settings.FieldSecondStateValue) != "-1" {
		t.Errorf("second state default = %q, want -1", got.String(settings.FieldSecondStateValue))
	}

	// A second pass has nothing to add and must not write.
	writes := len(conn.setOut)
	r.HandleHostSettings(context.Background(), conn.store.Settings())
	if len(conn.setOut) != writes {
		t.Errorf("writes = %d, want %d after idempotent pass", len(conn.setOut), writes)
	}
}

func TestRouter_HandleHostSettingsUnknownKind(t *testing.T) {
	conn := newFakeConn("", nil)
	r := NewRouter(conn, conn.store, &fakeForwarder{})

	r.HandleHostSettings(context.Background(), settings.Record{})

	if len(conn.setOut) != 0 {
		t.Errorf("writes = %d, want 0 while kind is unknown", len(conn.setOut))
	}
}
