package ratelimit

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"
)

// Registry maps resource names to their limiters and originating configs.
// Construct one explicitly and pass it to the call sites that need it;
// there is no package-level global.
//
// Lookups are guarded by a read-write lock, so late registration is safe
// against concurrent traffic, though the expected pattern is to register
// everything during startup.
type Registry struct {
	logger *slog.Logger
	now    func() time.Time

	mu      sync.RWMutex
	entries map[string]*registryEntry
}

type registryEntry struct {
	limiter *Limiter
	config  LimitConfig
}

// NewRegistry creates an empty registry.
func NewRegistry(opts ...Option) (*Registry, error) {
	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	return &Registry{
		logger:  s.logger,
		now:     s.now,
		entries: make(map[string]*registryEntry),
	}, nil
}

// Register creates a fresh limiter at full capacity for the resource,
// overwriting any prior entry under that name. Overwriting discards the
// previous limiter's accumulated token state: re-registering is a reset.
func (r *Registry) Register(resource string, config LimitConfig) error {
	limiter, err := NewLimiter(resource, config, WithLogger(r.logger), WithClock(r.now))
	if err != nil {
		return fmt.Errorf("failed to register %q: %w", resource, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.entries[resource]; exists {
		r.logger.Info("re-registering resource, token state reset",
			"resource", resource,
			"calls_per_minute", config.CallsPerMinute,
			"calls_per_hour", config.CallsPerHour)
	}

	r.entries[resource] = &registryEntry{
		limiter: limiter,
		config:  config,
	}

	return nil
}

// Get returns the limiter for the resource, if one is registered.
func (r *Registry) Get(resource string) (*Limiter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[resource]
	if !ok {
		return nil, false
	}
	return entry.limiter, true
}

// Config returns the limits the resource was registered with.
func (r *Registry) Config(resource string) (LimitConfig, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[resource]
	if !ok {
		return LimitConfig{}, false
	}
	return entry.config, true
}

// Resources returns the registered resource names in sorted order.
func (r *Registry) Resources() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
