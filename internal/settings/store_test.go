package settings

import (
	"sync"
	"testing"

	"github.com/nerrad567/dcs-inspector-core/internal/infrastructure/config"
)

func TestStore_MergeReturnsFullRecord(t *testing.T) {
	s := NewStore(Record{"a": "1"}, nil)

	got := s.Merge(Record{"b": "2"})

	if !got.Equal(Record{"a": "1", "b": "2"}) {
		t.Errorf("Merge() = %v", got)
	}
	if !s.Settings().Equal(got) {
		t.Errorf("Settings() = %v, want %v", s.Settings(), got)
	}
}

func TestStore_ReplaceDropsUntouchedFields(t *testing.T) {
	s := NewStore(Record{"a": "1", "b": "2"}, nil)

	s.Replace(Record{"c": "3"})

	if !s.Settings().Equal(Record{"c": "3"}) {
		t.Errorf("Settings() = %v, want only c", s.Settings())
	}

	s.Replace(nil)
	if len(s.Settings()) != 0 {
		t.Errorf("Settings() after Replace(nil) = %v, want empty", s.Settings())
	}
}

func TestStore_MergeGlobalNeverReplaces(t *testing.T) {
	s := NewStore(nil, Record{GlobalIPAddress: "127.0.0.1", GlobalListenerPort: "1725"})

	s.MergeGlobal(Record{GlobalLastModule: "A-10C"})
	got := s.MergeGlobal(Record{GlobalListenerPort: "1800"})

	want := Record{
		GlobalIPAddress:    "127.0.0.1",
		GlobalListenerPort: "1800",
		GlobalLastModule:   "A-10C",
	}
	if !got.Equal(want) {
		t.Errorf("MergeGlobal() = %v, want %v", got, want)
	}
}

func TestStore_ReadsAreCopies(t *testing.T) {
	s := NewStore(Record{"a": "1"}, Record{"g": "1"})

	s.Settings()["a"] = "changed"
	s.Global()["g"] = "changed"

	if s.Settings().String("a") != "1" || s.Global().String("g") != "1" {
		t.Error("store state changed through a returned copy")
	}
}

func TestStore_OnChange(t *testing.T) {
	s := NewStore(nil, nil)

	var scopes []Scope
	var last Record
	s.SetOnChange(func(scope Scope, record Record) {
		scopes = append(scopes, scope)
		last = record
	})

	s.Merge(Record{"a": "1"})
	s.MergeGlobal(Record{"g": "1"})
	s.Replace(Record{"b": "2"})

	want := []Scope{ScopeInstance, ScopeGlobal, ScopeInstance}
	if len(scopes) != len(want) {
		t.Fatalf("got %d notifications, want %d", len(scopes), len(want))
	}
	for i := range want {
		if scopes[i] != want[i] {
			t.Errorf("notification %d scope = %q, want %q", i, scopes[i], want[i])
		}
	}
	if !last.Equal(Record{"b": "2"}) {
		t.Errorf("last record = %v", last)
	}
}

func TestStore_ConcurrentMerges(t *testing.T) {
	s := NewStore(nil, nil)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s.MergeGlobal(Record{string(rune('a' + i%26)): i})
		}(i)
	}
	wg.Wait()

	if n := len(s.Global()); n != 26 {
		t.Errorf("global has %d fields, want 26", n)
	}
}

func TestDefaultGlobal(t *testing.T) {
	g := DefaultGlobal(config.Default().Defaults)

	if g.String(GlobalListenerPort) != "1725" || g.String(GlobalSendPort) != "26027" {
		t.Errorf("DefaultGlobal() ports = %v", g)
	}
	if g.Has(GlobalLastModule) {
		t.Error("DefaultGlobal() included an empty last_selected_module")
	}
}
