package ratelimit

import (
	"fmt"
	"log/slog"
	"math"
	"sync"
	"time"
)

const (
	minuteWindow = time.Minute
	hourWindow   = time.Hour
)

// Limiter enforces dual-window (per-minute and per-hour) token bucket limits
// for a single named resource. Both buckets start at full capacity.
//
// Acquire is a fail-fast admission gate: it never blocks waiting for tokens
// to regenerate. Callers that want backoff must layer it on top.
type Limiter struct {
	resource string
	config   LimitConfig
	logger   *slog.Logger
	now      func() time.Time

	mu               sync.Mutex // Protects all window state below
	minuteTokens     float64
	hourTokens       float64
	lastMinuteRefill time.Time
	lastHourRefill   time.Time
}

// NewLimiter creates a limiter for the named resource with both buckets full.
func NewLimiter(resource string, config LimitConfig, opts ...Option) (*Limiter, error) {
	if resource == "" {
		return nil, ErrEmptyResource
	}
	if err := config.Validate(); err != nil {
		return nil, err
	}

	s := defaultSettings()
	for _, opt := range opts {
		if err := opt(&s); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	now := s.now()
	return &Limiter{
		resource:         resource,
		config:           config,
		logger:           s.logger,
		now:              s.now,
		minuteTokens:     float64(config.CallsPerMinute), // Start with full buckets
		hourTokens:       float64(config.CallsPerHour),
		lastMinuteRefill: now,
		lastHourRefill:   now,
	}, nil
}

// Acquire attempts to consume one call from both windows.
// Returns nil if the call is admitted, or a *RateLimitError naming the
// tripped window if either bucket is exhausted.
//
// Refill, check and consume run as one critical section: concurrent callers
// can never race past a check and overdraw a bucket. A rejection leaves both
// counters untouched, so a failed attempt costs nothing.
func (l *Limiter) Acquire() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	elapsedMinute := refill(&l.minuteTokens, &l.lastMinuteRefill, float64(l.config.CallsPerMinute), minuteWindow, now)
	elapsedHour := refill(&l.hourTokens, &l.lastHourRefill, float64(l.config.CallsPerHour), hourWindow, now)

	// Minute window is checked first: a caller over both limits always
	// receives the minute rejection.
	if l.minuteTokens < 1 {
		return l.reject(WindowMinute, l.config.CallsPerMinute, minuteWindow, elapsedMinute)
	}
	if l.hourTokens < 1 {
		return l.reject(WindowHour, l.config.CallsPerHour, hourWindow, elapsedHour)
	}

	l.minuteTokens--
	l.hourTokens--

	l.logger.Debug("call admitted",
		"resource", l.resource,
		"minute_remaining", l.minuteTokens,
		"hour_remaining", l.hourTokens)

	return nil
}

// reject builds the rejection for the tripped window and logs it.
// MUST be called with l.mu locked.
func (l *Limiter) reject(window Window, limit int, windowSize, elapsed time.Duration) error {
	retryAfter := windowSize - elapsed
	if retryAfter < 0 {
		retryAfter = 0
	} else if retryAfter > windowSize {
		retryAfter = windowSize
	}

	err := &RateLimitError{
		Resource:   l.resource,
		Window:     window,
		Limit:      limit,
		RetryAfter: retryAfter,
	}

	l.logger.Warn("rate limit exceeded",
		"resource", l.resource,
		"window", string(window),
		"limit", limit,
		"retry_after", retryAfter)

	return err
}

// refill replenishes one window based on time elapsed since its last reset.
// A full window elapsed means a hard reset to capacity, which also advances
// the timestamp; a partial elapse refills linearly against the fixed
// last-reset instant WITHOUT advancing the timestamp, so repeated partial
// refills within one window converge instead of double-counting.
// Non-positive elapsed (clock went backwards) leaves the state untouched.
// MUST be called with the limiter's mutex locked.
func refill(tokens *float64, lastRefill *time.Time, capacity float64, window time.Duration, now time.Time) time.Duration {
	elapsed := now.Sub(*lastRefill)

	switch {
	case elapsed >= window:
		*tokens = capacity
		*lastRefill = now
	case elapsed > 0:
		fraction := elapsed.Seconds() / window.Seconds()
		*tokens = math.Min(capacity, *tokens+fraction*capacity)
	}

	return elapsed
}

// Resource returns the name of the resource this limiter protects.
func (l *Limiter) Resource() string {
	return l.resource
}

// Config returns the limits this limiter was created with.
func (l *Limiter) Config() LimitConfig {
	return l.config
}

// Remaining returns the tokens currently available in each window, after
// applying any pending refill. This is a snapshot and may change immediately
// under concurrent access.
func (l *Limiter) Remaining() (minute, hour float64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	refill(&l.minuteTokens, &l.lastMinuteRefill, float64(l.config.CallsPerMinute), minuteWindow, now)
	refill(&l.hourTokens, &l.lastHourRefill, float64(l.config.CallsPerHour), hourWindow, now)

	return l.minuteTokens, l.hourTokens
}
