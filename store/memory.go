package store

import (
	"sync"

	"github.com/reena96/unseenedgeai-sub001/core"
)

// MemoryStore provides thread-safe in-memory storage for window states
type MemoryStore struct {
	states sync.Map // map[string]*core.WindowState
}

// Ensure MemoryStore implements Store interface
var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a new in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Get retrieves the window state for a resource
func (s *MemoryStore) Get(resource string) *core.WindowState {
	val, ok := s.states.Load(resource)
	if !ok {
		return nil
	}
	return val.(*core.WindowState)
}

// Set stores the window state for a resource
func (s *MemoryStore) Set(resource string, state *core.WindowState) {
	s.states.Store(resource, state)
}

// Delete removes the window state for a resource
func (s *MemoryStore) Delete(resource string) {
	s.states.Delete(resource)
}

// Clear removes all window states
func (s *MemoryStore) Clear() {
	s.states.Range(func(key, value interface{}) bool {
		s.states.Delete(key)
		return true
	})
}
