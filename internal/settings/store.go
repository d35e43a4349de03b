package settings

import "sync"

// Scope identifies which record a change touched.
type Scope string

// Change scopes.
const (
	ScopeInstance Scope = "instance"
	ScopeGlobal   Scope = "global"
)

// ChangeFunc is notified after a record changes. It receives a copy of
// the full record and is called without the store lock held.
type ChangeFunc func(scope Scope, record Record)

// Store holds the per-instance settings record and the shared
// global-settings snapshot.
//
// The global snapshot is only ever merged into, never replaced, because
// other inspectors and windows write named fields concurrently.
//
// All public methods are thread-safe.
type Store struct {
	mu       sync.RWMutex
	settings Record
	global   Record
	onChange ChangeFunc
}

// NewStore creates a store seeded with the instance settings received at
// launch and a global seed.
func NewStore(initial, globalSeed Record) *Store {
	s := &Store{
		settings: Record{},
		global:   Record{},
	}
	if initial != nil {
		s.settings = initial.Clone()
	}
	if globalSeed != nil {
		s.global = globalSeed.Clone()
	}
	return s
}

// SetOnChange registers a callback for record changes.
func (s *Store) SetOnChange(fn ChangeFunc) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

// Settings returns a copy of the instance record.
func (s *Store) Settings() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.Clone()
}

// Global returns a best-effort copy of the global snapshot.
func (s *Store) Global() Record {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.global.Clone()
}

// Replace overwrites the instance record. Used when the host pushes
// didReceiveSettings.
func (s *Store) Replace(record Record) {
	if record == nil {
		record = Record{}
	}
	s.mu.Lock()
	s.settings = record.Clone()
	out, fn := s.settings.Clone(), s.onChange
	s.mu.Unlock()

	notify(fn, ScopeInstance, out)
}

// Merge applies partial over the instance record and returns the full
// merged record.
func (s *Store) Merge(partial Record) Record {
	s.mu.Lock()
	s.settings = s.settings.Merge(partial)
	out, fn := s.settings.Clone(), s.onChange
	s.mu.Unlock()

	notify(fn, ScopeInstance, out)
	return out
}

// MergeGlobal applies partial over the global snapshot and returns the
// full merged snapshot.
func (s *Store) MergeGlobal(partial Record) Record {
	s.mu.Lock()
	s.global = s.global.Merge(partial)
	out, fn := s.global.Clone(), s.onChange
	s.mu.Unlock()

	notify(fn, ScopeGlobal, out)
	return out
}

func notify(fn ChangeFunc, scope Scope, record Record) {
	if fn != nil {
		fn(scope, record)
	}
}
