package host

import (
	"encoding/json"

	"github.com/nerrad567/dcs-inspector-core/internal/settings"
)

// Outbound event names.
const (
	EventGetGlobalSettings = "getGlobalSettings"
	EventSetSettings       = "setSettings"
	EventSetGlobalSettings = "setGlobalSettings"
	EventSendToPlugin      = "sendToPlugin"
)

// Inbound event names.
const (
	EventDidReceiveSettings       = "didReceiveSettings"
	EventDidReceiveGlobalSettings = "didReceiveGlobalSettings"
	EventSendToPropertyInspector  = "sendToPropertyInspector"
)

// outbound is one frame sent to the host.
type outbound struct {
	Event   string `json:"event"`
	UUID    string `json:"uuid,omitempty"`
	Context string `json:"context,omitempty"`
	Action  string `json:"action,omitempty"`
	Payload any    `json:"payload,omitempty"`
}

// inbound is one frame received from the host.
type inbound struct {
	Event   string          `json:"event"`
	Action  string          `json:"action,omitempty"`
	Context string          `json:"context,omitempty"`
	Device  string          `json:"device,omitempty"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// settingsPayload is the payload of didReceiveSettings and
// didReceiveGlobalSettings.
type settingsPayload struct {
	Settings settings.Record `json:"settings"`
}

// envelope is the inner event tag of a sendToPropertyInspector payload.
type envelope struct {
	Event string `json:"event"`
}
