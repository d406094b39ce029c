package emulator

import (
	"context"
	"sync"

	"github.com/nucleus/hkv-connector/pkg/hkvpb"
	"github.com/nucleus/hkv-connector/pkg/keys"
)

// memoryStore is the process-local fallback used when no Postgres DSN
// is configured: a scoped in-memory map keyed the same way the
// Postgres-backed store partitions its rows.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[scopeKey]map[string]*hkvpb.Entity
}

func newMemoryStore() *memoryStore {
	return &memoryStore{entries: make(map[scopeKey]map[string]*hkvpb.Entity)}
}

func (s *memoryStore) Put(ctx context.Context, key keys.Key, entity *hkvpb.Entity) error {
	scope := scopeOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket := s.entries[scope]
	if bucket == nil {
		bucket = make(map[string]*hkvpb.Entity)
		s.entries[scope] = bucket
	}
	bucket[key.Encode()] = entity
	return nil
}

func (s *memoryStore) Delete(ctx context.Context, key keys.Key) error {
	scope := scopeOf(key)
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries[scope], key.Encode())
	return nil
}

func (s *memoryStore) Scan(ctx context.Context, scope scopeKey) ([]*hkvpb.Entity, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucket := s.entries[scope]
	out := make([]*hkvpb.Entity, 0, len(bucket))
	for _, e := range bucket {
		out = append(out, e)
	}
	return out, nil
}

func (s *memoryStore) Close() error { return nil }
