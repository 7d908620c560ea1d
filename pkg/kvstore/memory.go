package kvstore

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value     string
	expiresAt time.Time
}

// Memory is a mutex-guarded in-process Store/Denylist. Expired entries are
// dropped lazily on read. Used in tests and single-node setups without Redis.
type Memory struct {
	mu    sync.RWMutex
	items map[string]memoryEntry
}

func NewMemory() *Memory {
	return &Memory{items: make(map[string]memoryEntry)}
}

func (m *Memory) Put(_ context.Context, key, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = memoryEntry{value: value, expiresAt: time.Now().Add(ttl)}
	return nil
}

func (m *Memory) Get(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	entry, ok := m.items[key]
	m.mu.RUnlock()
	if !ok {
		return "", ErrNotFound
	}
	if time.Now().After(entry.expiresAt) {
		m.mu.Lock()
		// Re-check under the write lock: a concurrent Put may have
		// replaced the expired entry with a live one, which must not
		// be dropped.
		if cur, still := m.items[key]; still && time.Now().After(cur.expiresAt) {
			delete(m.items, key)
		}
		m.mu.Unlock()
		return "", ErrNotFound
	}
	return entry.value, nil
}

func (m *Memory) Forget(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

func (m *Memory) Add(ctx context.Context, jti string, ttl time.Duration) error {
	return m.Put(ctx, denylistPrefix+jti, "1", ttl)
}

func (m *Memory) Has(ctx context.Context, jti string) (bool, error) {
	_, err := m.Get(ctx, denylistPrefix+jti)
	if err == ErrNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
