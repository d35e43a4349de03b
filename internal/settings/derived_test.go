package settings

import "testing"

func TestComputeDerived(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    any
		current  Record
		wantAddr string
		wantSet  bool
	}{
		{
			name:     "second half completes the pair",
			field:    FieldButtonID,
			value:    "7",
			current:  Record{FieldDeviceID: "3"},
			wantAddr: "3,7",
			wantSet:  true,
		},
		{
			name:     "rewrite recomputes",
			field:    FieldDeviceID,
			value:    "25",
			current:  Record{FieldDeviceID: "3", FieldButtonID: "7", FieldSendAddress: "3,7"},
			wantAddr: "25,7",
			wantSet:  true,
		},
		{
			name:    "first half alone",
			field:   FieldDeviceID,
			value:   "3",
			current: Record{},
			wantSet: false,
		},
		{
			name:    "clearing a half",
			field:   FieldButtonID,
			value:   "",
			current: Record{FieldDeviceID: "3", FieldButtonID: "7"},
			wantSet: false,
		},
		{
			name:     "numeric halves",
			field:    FieldButtonID,
			value:    float64(3001),
			current:  Record{FieldDeviceID: float64(12)},
			wantAddr: "12,3001",
			wantSet:  true,
		},
		{
			name:    "unrelated field",
			field:   FieldPressValue,
			value:   "1",
			current: Record{FieldDeviceID: "3", FieldButtonID: "7"},
			wantSet: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ComputeDerived(tt.field, tt.value, tt.current)

			if got[tt.field] != tt.value {
				t.Errorf("partial[%s] = %v, want %v", tt.field, got[tt.field], tt.value)
			}
			addr, ok := got[FieldSendAddress]
			if ok != tt.wantSet {
				t.Fatalf("send_address present = %v, want %v (partial %v)", ok, tt.wantSet, got)
			}
			if ok && addr != tt.wantAddr {
				t.Errorf("send_address = %v, want %q", addr, tt.wantAddr)
			}
		})
	}
}

func TestComputeDerived_DoesNotMutateCurrent(t *testing.T) {
	current := Record{FieldDeviceID: "3"}
	ComputeDerived(FieldButtonID, "7", current)

	if current.Has(FieldButtonID) || current.Has(FieldSendAddress) {
		t.Errorf("current mutated: %v", current)
	}
}
