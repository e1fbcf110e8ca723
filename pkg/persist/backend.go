// ABOUTME: Key-value backend abstraction for annotation persistence
// ABOUTME: In-memory implementation with an optional byte quota

package persist

import "sync"

// Backend is the process-lifetime key-value store the annotation
// engine persists into. Reads and writes are synchronous; there is no
// blocking I/O expected on the capture hot path.
type Backend interface {
	Get(key string) (string, bool)
	Set(key, value string) error
	Delete(key string) error
	Keys() []string
}

// MemoryBackend is a quota-limited in-memory Backend. A MaxBytes of
// zero means unlimited.
type MemoryBackend struct {
	MaxBytes int

	mu   sync.Mutex
	data map[string]string
	used int
}

// NewMemoryBackend creates an empty in-memory backend
func NewMemoryBackend(maxBytes int) *MemoryBackend {
	return &MemoryBackend{
		MaxBytes: maxBytes,
		data:     make(map[string]string),
	}
}

// Get returns the value stored under key
func (mb *MemoryBackend) Get(key string) (string, bool) {
	mb.mu.Lock()
	defer mb.mu.Unlock()
	v, ok := mb.data[key]
	return v, ok
}

// Set stores value under key, enforcing the byte quota
func (mb *MemoryBackend) Set(key, value string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	delta := len(key) + len(value)
	if old, ok := mb.data[key]; ok {
		delta -= len(key) + len(old)
	}

	if mb.MaxBytes > 0 && mb.used+delta > mb.MaxBytes {
		return ErrQuotaExceeded
	}

	mb.data[key] = value
	mb.used += delta
	return nil
}

// Delete removes key, reclaiming its quota
func (mb *MemoryBackend) Delete(key string) error {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	if old, ok := mb.data[key]; ok {
		mb.used -= len(key) + len(old)
		delete(mb.data, key)
	}
	return nil
}

// Keys returns all stored keys in unspecified order
func (mb *MemoryBackend) Keys() []string {
	mb.mu.Lock()
	defer mb.mu.Unlock()

	keys := make([]string, 0, len(mb.data))
	for k := range mb.data {
		keys = append(keys, k)
	}
	return keys
}
