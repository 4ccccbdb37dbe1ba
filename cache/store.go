package cache

import (
	"context"
	"sort"
	"sync"
)

// Store holds the last fetched response per key. Invalidation never fails a
// read; it only forces the next read of the key to go to the network.
type Store interface {
	Get(ctx context.Context, key Key) (interface{}, bool, error)
	Set(ctx context.Context, key Key, val interface{}) error
	Invalidate(ctx context.Context, keys ...Key) error
	// InvalidateKind drops every key of the given kind.
	InvalidateKind(ctx context.Context, kind Kind) error
	// InvalidatePrefix drops every key whose name starts with prefix.
	InvalidatePrefix(ctx context.Context, prefix string) error
	// InvalidateContaining drops every key whose name contains substr.
	InvalidateContaining(ctx context.Context, substr string) error
	Clear(ctx context.Context) error
	// Keys lists keys that currently hold a value.
	Keys(ctx context.Context) ([]Key, error)
}

type memoryEntry struct {
	key   Key
	val   interface{}
	valid bool
}

// MemoryStore is an in-process Store. Invalidated entries are kept with a
// nil value rather than deleted.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]*memoryEntry
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{entries: make(map[string]*memoryEntry)}
}

func (s *MemoryStore) Get(_ context.Context, key Key) (interface{}, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[key.String()]
	if !ok || !e.valid {
		return nil, false, nil
	}
	return e.val, true, nil
}

func (s *MemoryStore) Set(_ context.Context, key Key, val interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key.String()] = &memoryEntry{key: key, val: val, valid: val != nil}
	return nil
}

func (s *MemoryStore) Invalidate(_ context.Context, keys ...Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, k := range keys {
		if e, ok := s.entries[k.String()]; ok {
			e.val, e.valid = nil, false
		}
	}
	return nil
}

func (s *MemoryStore) invalidateWhere(match func(Key) bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.entries {
		if match(e.key) {
			e.val, e.valid = nil, false
		}
	}
}

func (s *MemoryStore) InvalidateKind(_ context.Context, kind Kind) error {
	s.invalidateWhere(func(k Key) bool { return k.Kind == kind })
	return nil
}

func (s *MemoryStore) InvalidatePrefix(_ context.Context, prefix string) error {
	s.invalidateWhere(func(k Key) bool { return k.HasPrefix(prefix) })
	return nil
}

func (s *MemoryStore) InvalidateContaining(_ context.Context, substr string) error {
	s.invalidateWhere(func(k Key) bool { return k.Contains(substr) })
	return nil
}

func (s *MemoryStore) Clear(_ context.Context) error {
	s.invalidateWhere(func(Key) bool { return true })
	return nil
}

func (s *MemoryStore) Keys(_ context.Context) ([]Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]Key, 0, len(s.entries))
	for _, e := range s.entries {
		if e.valid {
			keys = append(keys, e.key)
		}
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys, nil
}
