// Package registry holds small process-lifetime lookups filled from downstream answers.
package registry

import "sync"

// Registry is a string-keyed map safe for concurrent use
type Registry[V any] struct {
	mu     sync.RWMutex
	values map[string]V
}

// New creates an empty registry
func New[V any]() *Registry[V] {
	return &Registry[V]{values: make(map[string]V)}
}

// Set stores value under key, replacing any previous value
func (r *Registry[V]) Set(key string, value V) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
}

// Get returns the value under key
func (r *Registry[V]) Get(key string) (V, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	value, ok := r.values[key]
	return value, ok
}

// Len returns the number of keys
func (r *Registry[V]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.values)
}

// Snapshot returns a copy of every key and value
func (r *Registry[V]) Snapshot() map[string]V {
	r.mu.RLock()
	defer r.mu.RUnlock()
	snapshot := make(map[string]V, len(r.values))
	for key, value := range r.values {
		snapshot[key] = value
	}
	return snapshot
}
