package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
)

// SharedMemory is the output-key store for one brainstorming run. Each hat
// publishes its answer under its output key; the manager's instruction
// reads them back through {key} placeholders.
type SharedMemory struct {
	mu        sync.RWMutex
	data      map[string]interface{}
	sessionID string
	// changed is closed and replaced on every Set to wake waiters.
	changed chan struct{}
}

// NewSharedMemory creates a new SharedMemory instance for a session
func NewSharedMemory(sessionID string) *SharedMemory {
	return &SharedMemory{
		data:      make(map[string]interface{}),
		sessionID: sessionID,
		changed:   make(chan struct{}),
	}
}

// Set stores a value under a key and wakes any waiters.
func (sm *SharedMemory) Set(key string, value interface{}) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.data[key] = value
	close(sm.changed)
	sm.changed = make(chan struct{})
}

// Get retrieves a value by key.
func (sm *SharedMemory) Get(key string) (interface{}, bool) {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	val, ok := sm.data[key]
	return val, ok
}

// GetString retrieves a value formatted as a string. Returns empty string
// if not found.
func (sm *SharedMemory) GetString(key string) string {
	val, ok := sm.Get(key)
	if !ok {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return fmt.Sprintf("%v", val)
}

// WaitForContext blocks until key is set or ctx is done.
func (sm *SharedMemory) WaitForContext(ctx context.Context, key string) (interface{}, error) {
	for {
		sm.mu.RLock()
		val, ok := sm.data[key]
		changed := sm.changed
		sm.mu.RUnlock()

		if ok {
			return val, nil
		}

		select {
		case <-changed:
		case <-ctx.Done():
			return nil, fmt.Errorf("waiting for key '%s': %w", key, ctx.Err())
		}
	}
}

// Keys returns all keys currently in shared memory, sorted
func (sm *SharedMemory) Keys() []string {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	keys := make([]string, 0, len(sm.data))
	for k := range sm.data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetSessionID returns the session ID this shared memory belongs to
func (sm *SharedMemory) GetSessionID() string {
	return sm.sessionID
}
