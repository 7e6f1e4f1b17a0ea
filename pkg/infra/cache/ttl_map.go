package cache

import (
	"sync"
	"time"
)

type ttlEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// TTLMap is a thread-safe map whose entries expire a fixed duration after
// they are written. Expired entries are dropped lazily or by Sweep.
type TTLMap[V any] struct {
	mu   sync.RWMutex
	data map[string]ttlEntry[V]
	ttl  time.Duration
	now  func() time.Time
}

func NewTTLMap[V any](ttl time.Duration) *TTLMap[V] {
	return &TTLMap[V]{
		data: make(map[string]ttlEntry[V]),
		ttl:  ttl,
		now:  time.Now,
	}
}

// WithClock replaces the time source, for tests.
func (m *TTLMap[V]) WithClock(now func() time.Time) *TTLMap[V] {
	m.now = now
	return m
}

func (m *TTLMap[V]) Get(key string) (V, bool) {
	var zero V
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return zero, false
	}
	if m.now().Before(entry.expiresAt) {
		return entry.value, true
	}

	m.mu.Lock()
	if current, ok := m.data[key]; ok && !m.now().Before(current.expiresAt) {
		delete(m.data, key)
	}
	m.mu.Unlock()
	return zero, false
}

func (m *TTLMap[V]) Set(key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = ttlEntry[V]{value: value, expiresAt: m.now().Add(m.ttl)}
}

// SetIfAbsent stores value unless a live entry exists and reports whether it
// stored it.
func (m *TTLMap[V]) SetIfAbsent(key string, value V) bool {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.data[key]; ok && now.Before(entry.expiresAt) {
		return false
	}
	m.data[key] = ttlEntry[V]{value: value, expiresAt: now.Add(m.ttl)}
	return true
}

func (m *TTLMap[V]) Delete(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
}

// Sweep removes expired entries and returns how many were removed.
func (m *TTLMap[V]) Sweep() int {
	now := m.now()
	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for key, entry := range m.data {
		if !now.Before(entry.expiresAt) {
			delete(m.data, key)
			removed++
		}
	}
	return removed
}

func (m *TTLMap[V]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
