package settings

import "testing"

func TestApplyDefaults_FillsAbsentFields(t *testing.T) {
	got := ApplyDefaults(KindSwitch, Record{})

	want := Record{
		FieldFirstStateValue:        "1",
		FieldSecondStateValue:       "-1",
		FieldComparisonValue:        "0",
		FieldStringVerticalSpacing:  "0",
		FieldStringPassthroughCheck: true,
	}
	if !got.Equal(want) {
		t.Errorf("ApplyDefaults(switch) = %v, want %v", got, want)
	}
}

func TestApplyDefaults_NeverOverwritesPresentValues(t *testing.T) {
	current := Record{
		FieldPressValue:             float64(0),
		FieldDisableReleaseCheck:    true,
		FieldStringPassthroughCheck: false,
		FieldReleaseValue:           "",
	}

	got := ApplyDefaults(KindMomentary, current)

	if got[FieldPressValue] != float64(0) {
		t.Errorf("press_value = %v, want 0", got[FieldPressValue])
	}
	if got[FieldDisableReleaseCheck] != true {
		t.Errorf("disable_release_check = %v, want true", got[FieldDisableReleaseCheck])
	}
	if got[FieldStringPassthroughCheck] != false {
		t.Errorf("string_monitor_passthrough_check = %v, want false", got[FieldStringPassthroughCheck])
	}
	if got[FieldReleaseValue] != "" {
		t.Errorf("release_value = %v, want empty string kept", got[FieldReleaseValue])
	}
	if got.String(FieldComparisonValue) != "0" {
		t.Errorf("dcs_id_comparison_value = %v, want 0", got[FieldComparisonValue])
	}
}

func TestApplyDefaults_Idempotent(t *testing.T) {
	kinds := []ActionKind{KindMomentary, KindSwitch, KindIncrementing, KindPassthrough}

	for _, kind := range kinds {
		t.Run(string(kind), func(t *testing.T) {
			start := Record{FieldButtonID: "7", FieldIncrementMin: "-1"}
			once := ApplyDefaults(kind, start)
			twice := ApplyDefaults(kind, once)

			if !once.Equal(twice) {
				t.Errorf("ApplyDefaults twice = %v, once = %v", twice, once)
			}
			if len(MissingDefaults(kind, once)) != 0 {
				t.Errorf("MissingDefaults after apply = %v, want empty", MissingDefaults(kind, once))
			}
		})
	}
}

func TestDefaults_Tables(t *testing.T) {
	tests := []struct {
		kind  ActionKind
		field string
		want  string
	}{
		{KindIncrementing, FieldIncrementValue, "0.1"},
		{KindIncrementing, FieldIncrementMax, "1"},
		{KindIncrementing, FieldIncrementCycleAllowed, "false"},
		{KindMomentary, FieldPressValue, "1"},
		{KindMomentary, FieldReleaseValue, "0"},
		{KindSwitch, FieldSecondStateValue, "-1"},
	}

	for _, tt := range tests {
		t.Run(string(tt.kind)+"/"+tt.field, func(t *testing.T) {
			if got := Defaults(tt.kind).String(tt.field); got != tt.want {
				t.Errorf("Defaults(%s)[%s] = %q, want %q", tt.kind, tt.field, got, tt.want)
			}
		})
	}

	if n := len(Defaults(KindPassthrough)); n != 0 {
		t.Errorf("Defaults(passthrough) has %d fields, want 0", n)
	}
	if n := len(Defaults("")); n != 0 {
		t.Errorf("Defaults(undetermined) has %d fields, want 0", n)
	}
}

func TestDefaults_ReturnsCopy(t *testing.T) {
	d := Defaults(KindSwitch)
	d[FieldFirstStateValue] = "changed"

	if Defaults(KindSwitch).String(FieldFirstStateValue) != "1" {
		t.Error("Defaults() exposed the shared table")
	}
}
