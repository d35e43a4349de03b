package reconcile

import (
	"math"
	"strconv"
	"strings"

	"github.com/nerrad567/dcs-inspector-core/internal/settings"
)

// Switch directions.
const (
	FirstToSecond = "1st_to_2nd"
	SecondToFirst = "2nd_to_1st"
)

// MonitorTarget selects which monitor an import feeds.
type MonitorTarget int

// Monitor targets.
const (
	// MonitorImage drives image changes from a numeric comparison.
	MonitorImage MonitorTarget = iota
	// MonitorText drives the title from a string value.
	MonitorText
)

// Selection is one clickable-data row chosen in the lookup window.
type Selection struct {
	DeviceID        string `json:"device_id"`
	ButtonID        string `json:"button_id"`
	DcsID           string `json:"dcs_id"`
	ClickValue      string `json:"click_value"`
	LimitMin        string `json:"limit_min"`
	LimitMax        string `json:"limit_max"`
	SwitchDirection string `json:"switch_direction"`
}

// Command maps an imported command row onto every field that any action
// kind reads, so the result is valid whichever kind the instance is.
//
// For device D, button B and click value V:
//
//	button_id=B device_id=D send_address="D,B"
//	press_value=V release_value="0" increment_value=V
//	dcs_id_increment_monitor=dcs_id increment_min/max=limits
//	increment_cw=|V| increment_ccw=-|V|
//
// plus send_when_first_state_value or send_when_second_state_value = V
// when a switch direction is given. When V is not numeric the rotation
// fields are left out.
func Command(sel Selection) settings.Record {
	out := settings.Record{
		settings.FieldButtonID:         sel.ButtonID,
		settings.FieldDeviceID:         sel.DeviceID,
		settings.FieldSendAddress:      sel.DeviceID + "," + sel.ButtonID,
		settings.FieldPressValue:       sel.ClickValue,
		settings.FieldReleaseValue:     "0",
		settings.FieldIncrementMonitor: sel.DcsID,
		settings.FieldIncrementValue:   sel.ClickValue,
		settings.FieldIncrementMin:     sel.LimitMin,
		settings.FieldIncrementMax:     sel.LimitMax,
	}

	if cw, ccw, ok := Rotation(sel.ClickValue); ok {
		out[settings.FieldIncrementCW] = cw
		out[settings.FieldIncrementCCW] = ccw
	}

	switch sel.SwitchDirection {
	case FirstToSecond:
		out[settings.FieldFirstStateValue] = sel.ClickValue
	case SecondToFirst:
		out[settings.FieldSecondStateValue] = sel.ClickValue
	}

	return out
}

// Rotation returns |v| and -|v| formatted without trailing zeros.
// ok is false when v is not a number.
func Rotation(v string) (cw, ccw string, ok bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return "", "", false
	}
	mag := math.Abs(f)
	if mag == 0 {
		return "0", "0", true
	}
	return formatNumber(mag), formatNumber(-mag), true
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Monitor maps a monitor import onto the field the layout reads.
// Buttons have separate image and text monitors; encoders have a single
// monitored value that drives both.
func Monitor(layout settings.Layout, target MonitorTarget, dcsID string) settings.Record {
	if layout == settings.LayoutEncoder {
		return settings.Record{settings.FieldIncrementMonitor: dcsID}
	}
	if target == MonitorText {
		return settings.Record{settings.FieldStringMonitor: dcsID}
	}
	return settings.Record{settings.FieldCompareMonitor: dcsID}
}

// Switch maps one state of a two-state switch import. Buttons write the
// first or second state value; encoders write the clockwise or
// counter-clockwise increment. The derived send_address is included.
func Switch(layout settings.Layout, direction, buttonID, deviceID, value string) settings.Record {
	out := settings.Record{
		settings.FieldButtonID: buttonID,
		settings.FieldDeviceID: deviceID,
	}
	if addr, ok := settings.SendAddress(deviceID, buttonID); ok {
		out[settings.FieldSendAddress] = addr
	}

	var field string
	switch {
	case layout == settings.LayoutEncoder && direction == SecondToFirst:
		field = settings.FieldIncrementCCW
	case layout == settings.LayoutEncoder:
		field = settings.FieldIncrementCW
	case direction == SecondToFirst:
		field = settings.FieldSecondStateValue
	default:
		field = settings.FieldFirstStateValue
	}
	out[field] = value

	return out
}
