package store

import (
	"github.com/reena96/unseenedgeai-sub001/core"
)

// Store defines the interface for window state storage backends.
// This allows the check service to run with local memory or share state
// across instances through Redis.
type Store interface {
	// Get retrieves the window state for a resource, nil if unknown
	Get(resource string) *core.WindowState

	// Set stores the window state for a resource
	Set(resource string, state *core.WindowState)

	// Delete removes the window state for a resource
	Delete(resource string)

	// Clear removes all window states
	Clear()
}
