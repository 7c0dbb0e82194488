// Package localcache is the synchronous client side persistence used for instant startup state. It plays the role a
// browser's local storage plays for the web client: a small string map that is always available.
package localcache

import "sync"

type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

type Memory struct {
	lock    sync.Mutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(key string) (string, bool, error) {
	m.lock.Lock()
	defer m.lock.Unlock()
	v, ok := m.entries[key]
	return v, ok, nil
}

func (m *Memory) Set(key, value string) error {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.entries[key] = value
	return nil
}
