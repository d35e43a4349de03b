package window

import (
	"encoding/json"
	"fmt"
)

// Event tags a window sends to its opener.
const (
	EventUpdateGlobalSettings      = "UpdateGlobalSettings"
	EventRequestInstalledModules   = "RequestInstalledModules"
	EventRequestIDLookup           = "RequestIdLookup"
	EventImportDcsCommand          = "ImportDcsCommand"
	EventImportImageChange         = "ImportImageChange"
	EventImportComparisonMonitor   = "ImportComparisonMonitor"
	EventImportTextChange          = "ImportTextChange"
	EventImportStringMonitor       = "ImportStringMonitor"
	EventImportSwitchFirstToSecond = "ImportSwitchFirstToSecond"
	EventImportSwitchSecondToFirst = "ImportSwitchSecondToFirst"

	// Diagnostics window tags use lower camel case.
	EventRequestGlobalSettings    = "requestGlobalSettings"
	EventUpdateGlobalSettingsComm = "updateGlobalSettings"
	EventRefreshDcsState          = "refreshDcsState"
)

// Event tags the host pushes inside a sendToPropertyInspector envelope that
// are forwarded to a window.
const (
	EventInstalledModules  = "InstalledModules"
	EventClickabledata     = "Clickabledata"
	EventDebugDcsGameState = "DebugDcsGameState"
)

// Message is one call from a window to its opener.
type Message struct {
	Event   string          `json:"event"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// NewMessage builds a Message, encoding payload as JSON.
// A nil payload produces a message without one.
func NewMessage(event string, payload any) (Message, error) {
	msg := Message{Event: event}
	if payload == nil {
		return msg, nil
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encoding %s payload: %w", event, err)
	}
	msg.Payload = data
	return msg, nil
}

// HasPayload reports whether the message carries a non-null payload.
func (m Message) HasPayload() bool {
	return len(m.Payload) > 0 && string(m.Payload) != "null"
}

// Decode unmarshals the payload into v.
func (m Message) Decode(v any) error {
	if !m.HasPayload() {
		return fmt.Errorf("%w: %s has no payload", ErrMalformedMessage, m.Event)
	}
	if err := json.Unmarshal(m.Payload, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrMalformedMessage, m.Event, err)
	}
	return nil
}

// PathsPayload carries the simulator install locations.
type PathsPayload struct {
	InstallPath    string `json:"dcs_install_path"`
	SavedGamesPath string `json:"dcs_savedgames_path"`
}

// UnmarshalJSON accepts either an object or a bare install-path string,
// which older lookup windows send.
func (p *PathsPayload) UnmarshalJSON(data []byte) error {
	var path string
	if err := json.Unmarshal(data, &path); err == nil {
		*p = PathsPayload{InstallPath: path}
		return nil
	}
	type plain PathsPayload
	var v plain
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = PathsPayload(v)
	return nil
}

// IDLookupPayload requests the clickable-data table for a module.
type IDLookupPayload struct {
	PathsPayload
	Module string `json:"module"`
}

// UnmarshalJSON decodes the embedded paths and the module name.
// It is needed because PathsPayload's own UnmarshalJSON would otherwise be
// promoted and swallow the module field.
func (p *IDLookupPayload) UnmarshalJSON(data []byte) error {
	var v struct {
		InstallPath    string `json:"dcs_install_path"`
		SavedGamesPath string `json:"dcs_savedgames_path"`
		Module         string `json:"module"`
	}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	p.InstallPath = v.InstallPath
	p.SavedGamesPath = v.SavedGamesPath
	p.Module = v.Module
	return nil
}

// CommandPayload is a selected lookup row imported as a command.
type CommandPayload struct {
	DeviceID        string `json:"device_id"`
	ButtonID        string `json:"button_id"`
	DcsID           string `json:"dcs_id"`
	ClickValue      string `json:"click_value"`
	LimitMin        string `json:"limit_min"`
	LimitMax        string `json:"limit_max"`
	SwitchDirection string `json:"switch_direction"`
}

// MonitorPayload names the export id to monitor.
type MonitorPayload struct {
	DcsID string `json:"dcs_id"`
}

// SwitchPayload sets one state of a two-state switch.
type SwitchPayload struct {
	ButtonID string `json:"button_id"`
	DeviceID string `json:"device_id"`
	Value    string `json:"value"`
}
