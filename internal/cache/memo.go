// Package cache memoizes expensive loads and derived tables for the lifetime
// of a dashboard session.
package cache

import "sync"

// Memo caches one value per key. Failed computations are not cached, so a
// later Get retries them.
type Memo[K comparable, V any] struct {
	mu     sync.Mutex
	values map[K]V
	hits   int
	misses int
}

// New returns an empty Memo.
func New[K comparable, V any]() *Memo[K, V] {
	return &Memo[K, V]{values: make(map[K]V)}
}

// Get returns the cached value for key, computing it with fn on a miss.
// fn runs with the lock held; callers never render concurrently.
func (m *Memo[K, V]) Get(key K, fn func() (V, error)) (V, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.values[key]; ok {
		m.hits++
		return v, nil
	}
	m.misses++
	v, err := fn()
	if err != nil {
		var zero V
		return zero, err
	}
	m.values[key] = v
	return v, nil
}

// Peek returns the cached value without computing it.
func (m *Memo[K, V]) Peek(key K) (V, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

// Invalidate drops the cached value for key.
func (m *Memo[K, V]) Invalidate(key K) {
	m.mu.Lock()
	delete(m.values, key)
	m.mu.Unlock()
}

// Reset drops every cached value.
func (m *Memo[K, V]) Reset() {
	m.mu.Lock()
	m.values = make(map[K]V)
	m.mu.Unlock()
}

// Len returns the number of cached keys.
func (m *Memo[K, V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.values)
}

// Stats returns the hit and miss counts.
func (m *Memo[K, V]) Stats() (hits, misses int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits, m.misses
}
