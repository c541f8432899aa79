package store

import (
	"encoding/json"
	"sync"
)

// Memory is an in-process Store used in tests and as a fallback when no
// store path is configured.
type Memory struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewMemory creates an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{entries: make(map[string][]byte)}
}

func (m *Memory) Get(key string, out any) bool {
	m.mu.RLock()
	raw, ok := m.entries[key]
	m.mu.RUnlock()
	if !ok {
		return false
	}
	return json.Unmarshal(raw, out) == nil
}

func (m *Memory) Set(key string, value any) bool {
	raw, err := json.Marshal(value)
	if err != nil {
		return false
	}
	m.mu.Lock()
	m.entries[key] = raw
	m.mu.Unlock()
	return true
}

func (m *Memory) Remove(key string) bool {
	m.mu.Lock()
	delete(m.entries, key)
	m.mu.Unlock()
	return true
}

func (m *Memory) Clear() bool {
	m.mu.Lock()
	m.entries = make(map[string][]byte)
	m.mu.Unlock()
	return true
}

// Len reports the number of stored keys.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries)
}
