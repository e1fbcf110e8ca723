// ABOUTME: File-backed Backend for annotations that outlive the process
// ABOUTME: Single JSON file, loaded on Open and flushed on every write

package persist

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// FileBackend persists the key-value map to a JSON file on disk.
type FileBackend struct {
	Path string

	mu     sync.Mutex
	data   map[string]string
	opened bool
}

// Open loads the backing file. A missing file starts an empty store;
// an unreadable one is an error.
func (fb *FileBackend) Open() error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	fb.data = make(map[string]string)

	raw, err := os.ReadFile(fb.Path)
	if err != nil {
		if os.IsNotExist(err) {
			fb.opened = true
			return nil
		}
		return fmt.Errorf("open %s: %w", fb.Path, err)
	}

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &fb.data); err != nil {
			return fmt.Errorf("decode %s: %w", fb.Path, err)
		}
	}

	fb.opened = true
	return nil
}

// Close flushes and marks the backend closed
func (fb *FileBackend) Close() error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if !fb.opened {
		return nil
	}
	err := fb.flushLocked()
	fb.opened = false
	return err
}

// Get returns the value stored under key
func (fb *FileBackend) Get(key string) (string, bool) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	v, ok := fb.data[key]
	return v, ok
}

// Set stores value under key and flushes to disk
func (fb *FileBackend) Set(key, value string) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if !fb.opened {
		return ErrStoreClosed
	}

	fb.data[key] = value
	return fb.flushLocked()
}

// Delete removes key and flushes to disk
func (fb *FileBackend) Delete(key string) error {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	if !fb.opened {
		return ErrStoreClosed
	}
	delete(fb.data, key)
	return fb.flushLocked()
}

// Keys returns all stored keys in unspecified order
func (fb *FileBackend) Keys() []string {
	fb.mu.Lock()
	defer fb.mu.Unlock()

	keys := make([]string, 0, len(fb.data))
	for k := range fb.data {
		keys = append(keys, k)
	}
	return keys
}

// flushLocked writes the map through a temp file and rename so a crash
// mid-write never truncates the previous snapshot.
func (fb *FileBackend) flushLocked() error {
	raw, err := json.Marshal(fb.data)
	if err != nil {
		return err
	}

	tmp := fb.Path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, fb.Path)
}
