package session

import (
	"sort"
	"sync"

	"github.com/roach88/overs/internal/match"
)

// Manager holds independent sessions keyed by handle.
//
// Each session keeps its own lock, so matches in different sessions never
// block each other. The manager lock only guards the map.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	opts     []Option
}

// NewManager creates a manager whose sessions are built with opts.
func NewManager(opts ...Option) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// Create registers a new session. extra options are applied after the
// manager's own.
func (m *Manager) Create(extra ...Option) *Session {
	opts := append(append([]Option(nil), m.opts...), extra...)
	s := New(opts...)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID()] = s
	return s
}

// Get returns the session for handle, or NO_ACTIVE_MATCH if there is none.
func (m *Manager) Get(handle string) (*Session, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s, ok := m.sessions[handle]
	if !ok {
		return nil, match.NewNoActiveMatch("session " + handle)
	}
	return s, nil
}

// Remove drops a session. It reports whether the handle existed.
func (m *Manager) Remove(handle string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[handle]; !ok {
		return false
	}
	delete(m.sessions, handle)
	return true
}

// Handles returns every handle in sorted order.
func (m *Manager) Handles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]string, 0, len(m.sessions))
	for h := range m.sessions {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Len returns the number of sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
