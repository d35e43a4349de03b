package reconcile

import "github.com/nerrad567/dcs-inspector-core/internal/settings"

// ClearCommand blanks the command address fields.
func ClearCommand(layout settings.Layout) settings.Record {
	out := settings.Record{
		settings.FieldButtonID: "",
		settings.FieldDeviceID: "",
	}
	if layout == settings.LayoutButton {
		out[settings.FieldSendAddress] = ""
	}
	return out
}

// ClearCompareMonitor blanks the image monitor and resets its threshold.
func ClearCompareMonitor() settings.Record {
	return settings.Record{
		settings.FieldCompareMonitor:  "",
		settings.FieldComparisonValue: "0",
	}
}

// ClearStringMonitor blanks the title monitor and its mapping.
func ClearStringMonitor() settings.Record {
	return settings.Record{
		settings.FieldStringMonitor:        "",
		settings.FieldStringMonitorMapping: "",
	}
}

// ClearIncrementMonitor blanks the encoder's monitored value.
func ClearIncrementMonitor() settings.Record {
	return settings.Record{
		settings.FieldIncrementMonitor: "",
	}
}
