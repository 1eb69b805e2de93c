package state

import (
	"context"
	"sort"
	"sync"

	"github.com/doeshing/alfred-sf/internal/domain"
	"github.com/doeshing/alfred-sf/internal/ports"
)

// MemoryStore keeps coordination state in process memory.
type MemoryStore struct {
	mu      sync.RWMutex
	latest  *domain.LatestRequest
	entries map[string]domain.CacheEntry
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]domain.CacheEntry)}
}

func (s *MemoryStore) LatestRequest(context.Context) (domain.LatestRequest, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.latest == nil {
		return domain.LatestRequest{}, false, nil
	}
	return *s.latest, true, nil
}

func (s *MemoryStore) SetLatestRequest(_ context.Context, req domain.LatestRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = &req
	return nil
}

func (s *MemoryStore) CacheEntry(_ context.Context, key string) (domain.CacheEntry, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	if !ok {
		return domain.CacheEntry{}, false, nil
	}
	entry.Payload = append([]byte(nil), entry.Payload...)
	return entry, true, nil
}

func (s *MemoryStore) SetCacheEntry(_ context.Context, entry domain.CacheEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	entry.Payload = append([]byte(nil), entry.Payload...)
	s.entries[entry.Key] = entry
	return nil
}

// Entries lists cached entries ordered by key.
func (s *MemoryStore) Entries(context.Context) ([]domain.CacheEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.CacheEntry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

// Clear drops the request pointer and every cache entry.
func (s *MemoryStore) Clear(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latest = nil
	s.entries = make(map[string]domain.CacheEntry)
	return nil
}

// Dir has no meaning for memory state.
func (s *MemoryStore) Dir() string { return "" }

var _ ports.StateStore = (*MemoryStore)(nil)
var _ ports.CacheInspector = (*MemoryStore)(nil)
