package settings

import "testing"

func TestRecord_String(t *testing.T) {
	r := Record{
		"s":     "abc",
		"int":   float64(3),
		"float": 0.1,
		"neg":   float64(-1),
		"bool":  true,
		"nil":   nil,
	}

	tests := []struct {
		field string
		want  string
	}{
		{"s", "abc"},
		{"int", "3"},
		{"float", "0.1"},
		{"neg", "-1"},
		{"bool", "true"},
		{"nil", ""},
		{"missing", ""},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			if got := r.String(tt.field); got != tt.want {
				t.Errorf("String(%q) = %q, want %q", tt.field, got, tt.want)
			}
		})
	}
}

func TestRecord_Has(t *testing.T) {
	r := Record{"zero": float64(0), "false": false, "empty": "", "nil": nil}

	for _, field := range []string{"zero", "false", "empty"} {
		if !r.Has(field) {
			t.Errorf("Has(%q) = false, want true", field)
		}
	}
	for _, field := range []string{"nil", "missing"} {
		if r.Has(field) {
			t.Errorf("Has(%q) = true, want false", field)
		}
	}
}

func TestRecord_Bool(t *testing.T) {
	r := Record{"b": true, "s": "true", "one": "1", "num": float64(1), "no": "false"}

	for _, field := range []string{"b", "s", "one", "num"} {
		if !r.Bool(field) {
			t.Errorf("Bool(%q) = false, want true", field)
		}
	}
	if r.Bool("no") || r.Bool("missing") {
		t.Error("Bool() = true for false or missing field")
	}
}

func TestRecord_MergeLastWriteWins(t *testing.T) {
	base := Record{"a": "1", "b": "2"}

	merged := base.Merge(Record{"b": "3", "c": "4"})

	want := Record{"a": "1", "b": "3", "c": "4"}
	if !merged.Equal(want) {
		t.Errorf("Merge() = %v, want %v", merged, want)
	}
	if base.String("b") != "2" {
		t.Error("Merge() mutated the receiver")
	}
}

func TestRecord_MergeSequenceIsFieldwiseUnion(t *testing.T) {
	partials := []Record{
		{"button_id": "7"},
		{"device_id": "3"},
		{"button_id": "8", "press_value": "1"},
		{"release_value": "0"},
	}

	r := Record{}
	for _, p := range partials {
		r = r.Merge(p)
	}

	want := Record{"button_id": "8", "device_id": "3", "press_value": "1", "release_value": "0"}
	if !r.Equal(want) {
		t.Errorf("merged = %v, want %v", r, want)
	}
}

func TestRecord_Equal(t *testing.T) {
	tests := []struct {
		name string
		a, b Record
		want bool
	}{
		{"same", Record{"a": "1"}, Record{"a": "1"}, true},
		{"coerced number", Record{"a": "3"}, Record{"a": float64(3)}, true},
		{"different value", Record{"a": "1"}, Record{"a": "2"}, false},
		{"different keys", Record{"a": "1"}, Record{"b": "1"}, false},
		{"nil vs empty", Record{"a": nil}, Record{"a": ""}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Equal(tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}
