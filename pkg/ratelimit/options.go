package ratelimit

import (
	"fmt"
	"log/slog"
	"time"
)

// settings are shared by Registry and Limiter constructors.
type settings struct {
	logger *slog.Logger
	now    func() time.Time
}

func defaultSettings() settings {
	return settings{
		logger: slog.Default(),
		now:    time.Now,
	}
}

// Option is a functional option for configuring a Registry or Limiter.
type Option func(*settings) error

// WithLogger sets the structured logger used for admission observations.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) error {
		if logger == nil {
			return fmt.Errorf("%w: logger cannot be nil", ErrInvalidConfig)
		}
		s.logger = logger
		return nil
	}
}

// WithClock sets the time source used for refill arithmetic.
// Defaults to time.Now. Useful for tests that need to control elapsed time.
func WithClock(now func() time.Time) Option {
	return func(s *settings) error {
		if now == nil {
			return fmt.Errorf("%w: clock cannot be nil", ErrInvalidConfig)
		}
		s.now = now
		return nil
	}
}
