package cache

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// Keys of the vocabularies kept hot between requests
const (
	KeyDerivedTags   = "tags:derived"
	KeyCanonicalTags = "tags:canonical"
)

type Manager struct {
	cache *cache.Cache
	mu    sync.RWMutex
}

func NewManager(defaultTTL time.Duration) *Manager {
	return &Manager{
		cache: cache.New(defaultTTL, 10*time.Minute),
	}
}

func (m *Manager) Get(key string) (interface{}, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cache.Get(key)
}

// GetStrings returns a copy of a cached string list
func (m *Manager) GetStrings(key string) ([]string, bool) {
	cached, found := m.Get(key)
	if !found {
		return nil, false
	}
	values, ok := cached.([]string)
	if !ok {
		return nil, false
	}
	return copyStrings(values), true
}

// Set stores value; a zero ttl uses the default expiration
func (m *Manager) Set(key string, value interface{}, ttl time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Set(key, value, ttl)
}

// SetStrings stores a copy of values so callers cannot mutate the cached list
func (m *Manager) SetStrings(key string, values []string) {
	m.Set(key, copyStrings(values), 0)
}

func copyStrings(values []string) []string {
	out := make([]string, len(values))
	copy(out, values)
	return out
}

func (m *Manager) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Delete(key)
}

// InvalidateDerivedTags drops the vocabulary derived from stored articles.
// The canonical list is file-backed and is left alone.
func (m *Manager) InvalidateDerivedTags() {
	m.Delete(KeyDerivedTags)
}
