// Package store keeps dashboard sessions between requests. Sessions are stored
// as JSON so both stores hand out private copies and share the same encoding.
package store

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/mymatch/dashboard/internal/logic"
)

type memoryEntry struct {
	data    []byte
	expires time.Time
}

// MemoryStore is a process-local SessionStore for single-instance deployments
type MemoryStore struct {
	mu       sync.Mutex
	sessions map[string]memoryEntry
	ttl      time.Duration
	now      func() time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]memoryEntry),
		ttl:      ttl,
		now:      time.Now,
	}
}

func (m *MemoryStore) Create(ctx context.Context, s *logic.Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = memoryEntry{data: data, expires: m.now().Add(m.ttl)}
	sessionsCreated.WithLabelValues("memory").Inc()
	return nil
}

// load returns the live entry for id. Callers hold mu.
func (m *MemoryStore) load(id string) (*logic.Session, error) {
	e, ok := m.sessions[id]
	if !ok {
		return nil, logic.ErrSessionNotFound
	}
	if m.now().After(e.expires) {
		delete(m.sessions, id)
		return nil, logic.ErrSessionNotFound
	}
	var s logic.Session
	if err := json.Unmarshal(e.data, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (m *MemoryStore) Get(ctx context.Context, id string) (*logic.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.load(id)
}

// Update runs fn under the store lock; access refreshes the TTL
func (m *MemoryStore) Update(ctx context.Context, id string, fn func(*logic.Session) error) (*logic.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, err := m.load(id)
	if err != nil {
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	m.sessions[id] = memoryEntry{data: data, expires: m.now().Add(m.ttl)}
	return s, nil
}

func (m *MemoryStore) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

func (m *MemoryStore) Ping(ctx context.Context) error {
	return nil
}

// Len returns the number of stored sessions, expired ones included
func (m *MemoryStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops expired sessions and returns how many were removed
func (m *MemoryStore) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	removed := 0
	for id, e := range m.sessions {
		if now.After(e.expires) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// RunJanitor sweeps on every tick until ctx is done
func (m *MemoryStore) RunJanitor(ctx context.Context, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				sessionsExpired.Add(float64(n))
			}
		}
	}
}
