package guild

import (
	"strconv"
	"sync"
)

// Store is the process-wide registry of guild contexts, keyed by guild ID.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	guilds map[int64]*Guild
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{guilds: make(map[int64]*Guild)}
}

// Get returns the guild with the given ID.
func (s *Store) Get(id int64) (*Guild, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.guilds[id]
	return g, ok
}

// Lookup returns the guild whose string ID matches. An unparseable ID is
// treated as not found.
func (s *Store) Lookup(stringID string) (*Guild, bool) {
	id, err := strconv.ParseInt(stringID, 10, 64)
	if err != nil {
		return nil, false
	}
	return s.Get(id)
}

// GetOrCreate returns the guild with the given ID, creating it with the
// given prefix if it is not yet registered. The upsert is atomic; concurrent
// callers for the same ID receive the same instance.
func (s *Store) GetOrCreate(id int64, prefix string) *Guild {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g, ok := s.guilds[id]; ok {
		return g
	}
	g := New(id, prefix)
	s.guilds[id] = g
	return g
}

// Remove deletes the guild with the given ID.
func (s *Store) Remove(id int64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.guilds[id]; !ok {
		return false
	}
	delete(s.guilds, id)
	return true
}

// All returns a snapshot of all registered guilds.
func (s *Store) All() []*Guild {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*Guild, 0, len(s.guilds))
	for _, g := range s.guilds {
		out = append(out, g)
	}
	return out
}

// Len returns the number of registered guilds.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.guilds)
}
