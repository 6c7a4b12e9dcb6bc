package core

import "time"

// Config defines the dual-window admission policy for one resource
type Config struct {
	CallsPerMinute float64 // Maximum calls admitted per minute window
	CallsPerHour   float64 // Maximum calls admitted per hour window
}

// WindowState is the serializable counter state of both windows
type WindowState struct {
	MinuteTokens     float64   `json:"minute_tokens"`
	HourTokens       float64   `json:"hour_tokens"`
	LastMinuteRefill time.Time `json:"last_minute_refill"`
	LastHourRefill   time.Time `json:"last_hour_refill"`
}

// CheckResult contains the result of an admission check
type CheckResult struct {
	Allowed         bool    // Whether the call is admitted
	Window          string  // Which window tripped ("minute" or "hour"), empty when allowed
	MinuteRemaining float64 // Tokens remaining in the minute window
	HourRemaining   float64 // Tokens remaining in the hour window
	Limit           float64 // Limit of the tripped window (0 when allowed)
	RetryAfterMs    int64   // Milliseconds until the tripped window admits again
}
