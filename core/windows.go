package core

import (
	"math"
	"time"
)

// DualWindow implements the dual-window token bucket admission algorithm
// as a pure function over explicit state: no locks, no clock, no I/O.
// Callers own synchronization and supply the current time.
type DualWindow struct {
	config Config
}

// NewDualWindow creates an admission checker for the given policy
func NewDualWindow(config Config) *DualWindow {
	return &DualWindow{config: config}
}

// Check refills both windows, applies the admission decision and returns the
// updated state alongside the result. The input state is never mutated; a nil
// state means a fresh resource and starts both windows at full capacity.
//
// The minute window is evaluated first, so a call over both limits reports
// the minute rejection. A rejected call consumes nothing.
func (d *DualWindow) Check(state *WindowState, now time.Time) (*WindowState, CheckResult) {
	if state == nil {
		state = &WindowState{
			MinuteTokens:     d.config.CallsPerMinute,
			HourTokens:       d.config.CallsPerHour,
			LastMinuteRefill: now,
			LastHourRefill:   now,
		}
	}

	next := *state
	elapsedMinute := refillWindow(&next.MinuteTokens, &next.LastMinuteRefill, d.config.CallsPerMinute, time.Minute, now)
	elapsedHour := refillWindow(&next.HourTokens, &next.LastHourRefill, d.config.CallsPerHour, time.Hour, now)

	if next.MinuteTokens < 1 {
		return &next, d.blocked(&next, "minute", d.config.CallsPerMinute, time.Minute, elapsedMinute)
	}
	if next.HourTokens < 1 {
		return &next, d.blocked(&next, "hour", d.config.CallsPerHour, time.Hour, elapsedHour)
	}

	next.MinuteTokens--
	next.HourTokens--

	return &next, CheckResult{
		Allowed:         true,
		MinuteRemaining: next.MinuteTokens,
		HourRemaining:   next.HourTokens,
	}
}

func (d *DualWindow) blocked(state *WindowState, window string, limit float64, windowSize, elapsed time.Duration) CheckResult {
	retryAfter := windowSize - elapsed
	if retryAfter < 0 {
		retryAfter = 0
	} else if retryAfter > windowSize {
		retryAfter = windowSize
	}

	return CheckResult{
		Allowed:         false,
		Window:          window,
		MinuteRemaining: state.MinuteTokens,
		HourRemaining:   state.HourTokens,
		Limit:           limit,
		RetryAfterMs:    int64(math.Ceil(retryAfter.Seconds() * 1000)),
	}
}

// refillWindow replenishes one window in place. A full window elapsed hard
// resets to capacity and advances the timestamp; a partial elapse refills
// linearly against the fixed last-reset instant without advancing it.
// Non-positive elapsed leaves the state untouched.
func refillWindow(tokens *float64, lastRefill *time.Time, capacity float64, window time.Duration, now time.Time) time.Duration {
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
