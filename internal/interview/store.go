package interview

import (
	"sync"
	"time"
)

// entry guards one session. Holding mu serialises every operation on the
// session; removed is set under mu when the session ends so that waiters
// queued on mu observe the removal.
type entry struct {
	mu      sync.Mutex
	session Session
	removed bool
}

// Store holds the live sessions of one Manager
type Store struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

// NewStore creates an empty session store
func NewStore() *Store {
	return &Store{
		entries: make(map[string]*entry),
	}
}

// Len returns the number of live sessions
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) insert(sess Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[sess.ID] = &entry{session: sess}
}

// acquire locks the session with the given id. The caller must call
// release on the returned entry.
func (s *Store) acquire(id string) (*entry, error) {
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	if !ok {
		return nil, &SessionNotFoundError{SessionID: id}
	}

	e.mu.Lock()
	if e.removed {
		e.mu.Unlock()
		return nil, &SessionNotFoundError{SessionID: id}
	}
	return e, nil
}

func (e *entry) release() {
	e.mu.Unlock()
}

// remove deletes a session whose entry lock is held by the caller
func (s *Store) remove(e *entry) {
	e.removed = true
	s.mu.Lock()
	defer s.mu.Unlock()
	if cur, ok := s.entries[e.session.ID]; ok && cur == e {
		delete(s.entries, e.session.ID)
	}
}

// removeIdle deletes sessions whose last activity is before cutoff. Sessions
// with an operation in flight are skipped. The removed sessions are returned.
func (s *Store) removeIdle(cutoff time.Time) []Session {
	s.mu.RLock()
	candidates := make([]*entry, 0, len(s.entries))
	for _, e := range s.entries {
		candidates = append(candidates, e)
	}
	s.mu.RUnlock()

	var removed []Session
	for _, e := range candidates {
		if !e.mu.TryLock() {
			continue
		}
		if !e.removed && e.session.UpdatedAt.Before(cutoff) {
			s.remove(e)
			removed = append(removed, e.session.clone())
		}
		e.mu.Unlock()
	}
	return removed
}
