package host

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/nerrad567/dcs-inspector-core/internal/settings"
)

// Registration holds the arguments the host passes when it launches an
// inspector.
type Registration struct {
	Port int

	// InspectorUUID is the inspector's own identity token. It is used to
	// register and as the context of global-scope requests.
	InspectorUUID string

	RegisterEvent string
	Info          json.RawMessage
	ActionInfo    ActionInfo
}

// ActionInfo describes the action instance the inspector configures.
type ActionInfo struct {
	Action  string            `json:"action"`
	Context string            `json:"context"`
	Device  string            `json:"device"`
	Payload ActionInfoPayload `json:"payload"`
}

// ActionInfoPayload carries the instance settings at launch.
type ActionInfoPayload struct {
	Settings settings.Record `json:"settings"`
}

// Instance returns the instance described by the action info.
func (a ActionInfo) Instance() settings.Instance {
	return settings.NewInstance(a.Context, a.Action)
}

// ParseRegistration validates and decodes launch arguments.
// actionInfo may be empty, in which case the instance kind stays unknown
// until it is supplied later.
func ParseRegistration(port, inspectorUUID, registerEvent, info, actionInfo string) (Registration, error) {
	p, err := strconv.Atoi(strings.TrimSpace(port))
	if err != nil || p < 1 || p > 65535 {
		return Registration{}, fmt.Errorf("%w: port %q", ErrInvalidRegistration, port)
	}
	if inspectorUUID == "" {
		return Registration{}, fmt.Errorf("%w: inspector uuid is required", ErrInvalidRegistration)
	}
	if registerEvent == "" {
		return Registration{}, fmt.Errorf("%w: register event is required", ErrInvalidRegistration)
	}

	reg := Registration{
		Port:          p,
		InspectorUUID: inspectorUUID,
		RegisterEvent: registerEvent,
	}

	if info != "" {
		if !json.Valid([]byte(info)) {
			return Registration{}, fmt.Errorf("%w: info is not valid JSON", ErrInvalidRegistration)
		}
		reg.Info = json.RawMessage(info)
	}

	if actionInfo != "" {
		ai, err := ParseActionInfo(actionInfo)
		if err != nil {
			return Registration{}, err
		}
		reg.ActionInfo = ai
	}

	return reg, nil
}

// ParseActionInfo decodes the action-info JSON document.
func ParseActionInfo(s string) (ActionInfo, error) {
	var ai ActionInfo
	if err := json.Unmarshal([]byte(s), &ai); err != nil {
		return ActionInfo{}, fmt.Errorf("%w: action info: %v", ErrInvalidRegistration, err)
	}
	if ai.Payload.Settings == nil {
		ai.Payload.Settings = settings.Record{}
	}
	return ai, nil
}
