package session

import (
	"fmt"
	"sync"
)

// Store is the keyed registry of in-flight call sessions. The map is the
// only cross-session shared state; per-session mutation happens under the
// session's own lock.
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
}

// NewStore creates an empty session store.
func NewStore() *Store {
	return &Store{sessions: make(map[string]*Session)}
}

// Create registers a new session for a provider call id. Provider call
// ids are unique; a duplicate id is an error, never a silent overwrite.
func (st *Store) Create(id, phone, batchID string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if _, exists := st.sessions[id]; exists {
		return nil, fmt.Errorf("session %s already exists", id)
	}
	s := newSession(id, phone, batchID)
	st.sessions[id] = s
	return s, nil
}

// Get returns the session for a call id, or false when absent. Absence on
// a webhook means a stale or duplicate delivery; callers must respond
// with a safe hangup, never recreate state.
func (st *Store) Get(id string) (*Session, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

// Delete evicts a session. Idempotent.
func (st *Store) Delete(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len returns the number of in-flight sessions.
func (st *Store) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}
