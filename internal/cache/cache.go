// Package cache provides the session-scoped stores that hold dashboard view
// state between requests: the fetched inbox pages, the page token, the
// multi-select set and the held history copy.
package cache

import (
	"context"
	"sync"
	"time"
)

// Store is a string key/value store scoped to one browsing session
type Store interface {
	// Get returns the value for key and whether it was present
	Get(ctx context.Context, key string) (string, bool, error)
	// Set stores value under key
	Set(ctx context.Context, key, value string) error
	// Clear removes key. Clearing a missing key is not an error.
	Clear(ctx context.Context, key string) error
}

// cacheItem represents a cached value with expiration
type cacheItem struct {
	value     string
	expiresAt time.Time
}

// MemoryStore is an in-memory Store whose entries expire after the session TTL
type MemoryStore struct {
	items map[string]*cacheItem
	ttl   time.Duration
	mutex sync.RWMutex
}

// NewMemoryStore creates a new in-memory store. Every Set extends the
// entry's lifetime by ttl.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		items: make(map[string]*cacheItem),
		ttl:   ttl,
	}
}

// Get retrieves an item from the store
func (m *MemoryStore) Get(_ context.Context, key string) (string, bool, error) {
	m.mutex.RLock()
	item, exists := m.items[key]
	m.mutex.RUnlock()

	if !exists {
		return "", false, nil
	}

	if time.Now().After(item.expiresAt) {
		m.mutex.Lock()
		// Re-check under the write lock, a concurrent Set may have refreshed it
		if current, ok := m.items[key]; ok && current == item {
			delete(m.items, key)
		}
		m.mutex.Unlock()
		return "", false, nil
	}

	return item.value, true, nil
}

// Set stores an item in the store
func (m *MemoryStore) Set(_ context.Context, key, value string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.items[key] = &cacheItem{
		value:     value,
		expiresAt: time.Now().Add(m.ttl),
	}
	return nil
}

// Clear removes an item from the store
func (m *MemoryStore) Clear(_ context.Context, key string) error {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	delete(m.items, key)
	return nil
}

// Health always succeeds for the in-process store
func (m *MemoryStore) Health(_ context.Context) error {
	return nil
}

// Len returns the number of entries, expired ones included
func (m *MemoryStore) Len() int {
	m.mutex.RLock()
	defer m.mutex.RUnlock()
	return len(m.items)
}

// PurgeExpired removes every expired entry and returns how many were removed
func (m *MemoryStore) PurgeExpired() int {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	now := time.Now()
	removed := 0
	for key, item := range m.items {
		if now.After(item.expiresAt) {
			delete(m.items, key)
			removed++
		}
	}
	return removed
}

// namespaced prefixes every key of an underlying store
type namespaced struct {
	store  Store
	prefix string
}

// Namespace returns a Store that prefixes every key with prefix
func Namespace(store Store, prefix string) Store {
	return &namespaced{store: store, prefix: prefix}
}

func (n *namespaced) Get(ctx context.Context, key string) (string, bool, error) {
	return n.store.Get(ctx, n.prefix+key)
}

func (n *namespaced) Set(ctx context.Context, key, value string) error {
	return n.store.Set(ctx, n.prefix+key, value)
}

func (n *namespaced) Clear(ctx context.Context, key string) error {
	return n.store.Clear(ctx, n.prefix+key)
}
