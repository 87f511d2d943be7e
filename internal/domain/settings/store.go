package settings

import "sync"

// Store is the single holder of the live Settings. All mutation goes
// through Update so readers never observe a half-applied change.
type Store struct {
	mu sync.RWMutex
	s  *Settings
}

func NewStore(s *Settings) *Store {
	if s == nil {
		s = New()
	}
	return &Store{s: s}
}

// Snapshot returns a deep copy of the current settings.
func (st *Store) Snapshot() *Settings {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return st.s.clone()
}

// Update applies fn to the settings under the write lock.
func (st *Store) Update(fn func(*Settings)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	fn(st.s)
}
