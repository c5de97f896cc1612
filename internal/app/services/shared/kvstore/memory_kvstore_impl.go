package kvstore

import (
	"context"
	"hicm-service/internal/app/contracts"
	"hicm-service/internal/pkg/exceptions"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}

type memoryKeyValueStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	now     func() time.Time
}

func NewMemoryKeyValueStore() contracts.KeyValueStore {
	return &memoryKeyValueStore{
		entries: map[string]memoryEntry{},
		now:     time.Now,
	}
}

func (m *memoryKeyValueStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return "", nil
	}
	if entry.expired(m.now()) {
		m.evict(key)
		return "", nil
	}
	return entry.value, nil
}

// evict drops key only while it is still expired. A Set that landed after
// the read keeps its fresh value.
func (m *memoryKeyValueStore) evict(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.entries[key]; ok && entry.expired(m.now()) {
		delete(m.entries, key)
	}
}

func (m *memoryKeyValueStore) Set(ctx context.Context, key string, value interface{}, exp time.Duration) error {
	jsonValue, err := json.Marshal(value)
	if err != nil {
		return exceptions.ErrCannotMarshalJSON(err)
	}

	entry := memoryEntry{value: string(jsonValue)}
	if exp > 0 {
		entry.expiresAt = m.now().Add(exp)
	}

	m.mu.Lock()
	m.entries[key] = entry
	m.mu.Unlock()
	return nil
}

func (m *memoryKeyValueStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return nil
}
