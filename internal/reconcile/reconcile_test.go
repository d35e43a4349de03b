package reconcile

import (
	"testing"

	"github.com/nerrad567/dcs-inspector-core/internal/settings"
)

func TestCommand_FirstToSecond(t *testing.T) {
	got := Command(Selection{
		DeviceID:        "3",
		ButtonID:        "7",
		DcsID:           "42",
		ClickValue:      "1",
		LimitMin:        "0",
		LimitMax:        "1",
		SwitchDirection: FirstToSecond,
	})

	want := map[string]string{
		settings.FieldButtonID:         "7",
		settings.FieldDeviceID:         "3",
		settings.FieldSendAddress:      "3,7",
		settings.FieldFirstStateValue:  "1",
		settings.FieldIncrementCW:      "1",
		settings.FieldIncrementCCW:     "-1",
		settings.FieldPressValue:       "1",
		settings.FieldReleaseValue:     "0",
		settings.FieldIncrementMonitor: "42",
		settings.FieldIncrementValue:   "1",
		settings.FieldIncrementMin:     "0",
		settings.FieldIncrementMax:     "1",
	}
	for field, v := range want {
		if got.String(field) != v {
			t.Errorf("%s = %q, want %q", field, got.String(field), v)
		}
	}
	if got.Has(settings.FieldSecondStateValue) {
		t.Error("second state value written for 1st_to_2nd")
	}
}

func TestCommand_Directions(t *testing.T) {
	tests := []struct {
		direction  string
		wantFirst  bool
		wantSecond bool
	}{
		{"", false, false},
		{FirstToSecond, true, false},
		{SecondToFirst, false, true},
		{"sideways", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.direction, func(t *testing.T) {
			got := Command(Selection{DeviceID: "1", ButtonID: "2", ClickValue: "-0.5", SwitchDirection: tt.direction})

			if got.Has(settings.FieldFirstStateValue) != tt.wantFirst {
				t.Errorf("first state present = %v, want %v", got.Has(settings.FieldFirstStateValue), tt.wantFirst)
			}
			if got.Has(settings.FieldSecondStateValue) != tt.wantSecond {
				t.Errorf("second state present = %v, want %v", got.Has(settings.FieldSecondStateValue), tt.wantSecond)
			}
			if got.String(settings.FieldIncrementCW) != "0.5" || got.String(settings.FieldIncrementCCW) != "-0.5" {
				t.Errorf("rotation = %q/%q, want 0.5/-0.5", got.String(settings.FieldIncrementCW), got.String(settings.FieldIncrementCCW))
			}
		})
	}
}

func TestRotation(t *testing.T) {
	tests := []struct {
		in      string
		cw, ccw string
		ok      bool
	}{
		{"1", "1", "-1", true},
		{"-1", "1", "-1", true},
		{"0.1", "0.1", "-0.1", true},
		{"0", "0", "0", true},
		{"-0", "0", "0", true},
		{" 2.50 ", "2.5", "-2.5", true},
		{"", "", "", false},
		{"abc", "", "", false},
		{"NaN", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			cw, ccw, ok := Rotation(tt.in)
			if ok != tt.ok || cw != tt.cw || ccw != tt.ccw {
				t.Errorf("Rotation(%q) = %q, %q, %v; want %q, %q, %v", tt.in, cw, ccw, ok, tt.cw, tt.ccw, tt.ok)
			}
		})
	}
}

func TestCommand_NonNumericClickValue(t *testing.T) {
	got := Command(Selection{DeviceID: "1", ButtonID: "2", ClickValue: "TOGGLE"})

	if got.Has(settings.FieldIncrementCW) || got.Has(settings.FieldIncrementCCW) {
		t.Errorf("rotation written for non-numeric value: %v", got)
	}
	if got.String(settings.FieldPressValue) != "TOGGLE" {
		t.Errorf("press_value = %q", got.String(settings.FieldPressValue))
	}
}

func TestMonitor(t *testing.T) {
	tests := []struct {
		name   string
		layout settings.Layout
		target MonitorTarget
		field  string
	}{
		{"button image", settings.LayoutButton, MonitorImage, settings.FieldCompareMonitor},
		{"button text", settings.LayoutButton, MonitorText, settings.FieldStringMonitor},
		{"encoder comparison", settings.LayoutEncoder, MonitorImage, settings.FieldIncrementMonitor},
		{"encoder string", settings.LayoutEncoder, MonitorText, settings.FieldIncrementMonitor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Monitor(tt.layout, tt.target, "404")
			if len(got) != 1 || got.String(tt.field) != "404" {
				t.Errorf("Monitor() = %v, want only %s=404", got, tt.field)
			}
		})
	}
}

func TestSwitch(t *testing.T) {
	tests := []struct {
		name      string
		layout    settings.Layout
		direction string
		field     string
	}{
		{"button first", settings.LayoutButton, FirstToSecond, settings.FieldFirstStateValue},
		{"button second", settings.LayoutButton, SecondToFirst, settings.FieldSecondStateValue},
		{"encoder cw", settings.LayoutEncoder, FirstToSecond, settings.FieldIncrementCW},
		{"encoder ccw", settings.LayoutEncoder, SecondToFirst, settings.FieldIncrementCCW},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Switch(tt.layout, tt.direction, "7", "3", "0.5")

			if got.String(tt.field) != "0.5" {
				t.Errorf("%s = %q, want 0.5", tt.field, got.String(tt.field))
			}
			if got.String(settings.FieldSendAddress) != "3,7" {
				t.Errorf("send_address = %q, want 3,7", got.String(settings.FieldSendAddress))
			}
			if len(got) != 4 {
				t.Errorf("Switch() wrote %d fields, want 4: %v", len(got), got)
			}
		})
	}
}

func TestSwitch_MissingHalfSkipsAddress(t *testing.T) {
	got := Switch(settings.LayoutButton, FirstToSecond, "", "3", "1")
	if got.Has(settings.FieldSendAddress) {
		t.Errorf("send_address written with empty button id: %v", got)
	}
}

func TestClearHelpers(t *testing.T) {
	if got := ClearCommand(settings.LayoutButton); !got.Has(settings.FieldSendAddress) {
		t.Errorf("ClearCommand(button) = %v, want send_address cleared", got)
	}
	if got := ClearCommand(settings.LayoutEncoder); got.Has(settings.FieldSendAddress) {
		t.Errorf("ClearCommand(encoder) = %v, want send_address untouched", got)
	}
	if got := ClearCompareMonitor(); got.String(settings.FieldComparisonValue) != "0" {
		t.Errorf("ClearCompareMonitor() = %v", got)
	}
	if got := ClearStringMonitor(); !got.Has(settings.FieldStringMonitorMapping) {
		t.Errorf("ClearStringMonitor() = %v", got)
	}
	if got := ClearIncrementMonitor(); got.String(settings.FieldIncrementMonitor) != "" || len(got) != 1 {
		t.Errorf("ClearIncrementMonitor() = %v", got)
	}
}
