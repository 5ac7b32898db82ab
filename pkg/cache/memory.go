package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// Memory is an in-process Store. Values are stored as JSON so a driver
// swap to Redis never changes behaviour. Expired entries are evicted
// lazily on read and swept opportunistically on write.
type Memory struct {
	mu      sync.RWMutex
	entries map[string]entry
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]entry)}
}

func (m *Memory) Get(key string, dest interface{}) bool {
	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok {
		return false
	}
	if time.Now().After(e.expiresAt) {
		m.mu.Lock()
		delete(m.entries, key)
		m.mu.Unlock()
		return false
	}

	return json.Unmarshal(e.data, dest) == nil
}

func (m *Memory) Put(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	now := time.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	// Sweep expired entries while we hold the write lock anyway.
	for k, e := range m.entries {
		if now.After(e.expiresAt) {
			delete(m.entries, k)
		}
	}

	m.entries[key] = entry{data: data, expiresAt: now.Add(ttl)}
	return nil
}

func (m *Memory) Invalidate(prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for k := range m.entries {
		if strings.HasPrefix(k, prefix) {
			delete(m.entries, k)
		}
	}
	return nil
}

func (m *Memory) Flush() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[string]entry)
	return nil
}

// Len reports the number of live entries. Used by tests.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
