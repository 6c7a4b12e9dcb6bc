package ratelimit

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrInvalidConfig is returned when configuration is invalid
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrNonPositiveMinuteLimit is returned when calls per minute is zero or negative
	ErrNonPositiveMinuteLimit = errors.New("calls per minute must be positive")

	// ErrNonPositiveHourLimit is returned when calls per hour is zero or negative
	ErrNonPositiveHourLimit = errors.New("calls per hour must be positive")

	// ErrHourBelowMinute is returned when the hour limit is lower than the minute limit
	ErrHourBelowMinute = errors.New("calls per hour must be at least calls per minute")

	// ErrNegativeBurstSize is returned when burst size is negative
	ErrNegativeBurstSize = errors.New("burst size cannot be negative")

	// ErrEmptyResource is returned when the resource name is empty
	ErrEmptyResource = errors.New("resource name cannot be empty")

	// ErrRateLimitExceeded matches any *RateLimitError via errors.Is
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
)

// Window identifies which enforcement window tripped a rejection.
type Window string

const (
	WindowMinute Window = "minute"
	WindowHour   Window = "hour"
)

// RateLimitError is returned by Acquire when either window is exhausted.
// RetryAfter is the minimum wait before the tripped window is expected to
// admit another call.
type RateLimitError struct {
	Resource   string
	Window     Window
	Limit      int
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %d calls per %s, retry after %.1fs",
		e.Resource, e.Limit, e.Window, e.RetryAfter.Seconds())
}

// Is reports true for ErrRateLimitExceeded so callers can match the
// rejection without naming the concrete type.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrRateLimitExceeded
}
