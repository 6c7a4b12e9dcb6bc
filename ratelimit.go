package unseenedge

import (
	"github.com/reena96/unseenedgeai-sub001/pkg/ratelimit"
)

// Re-export main types for convenience
type (
	LimitConfig    = ratelimit.LimitConfig
	Limiter        = ratelimit.Limiter
	Registry       = ratelimit.Registry
	RateLimitError = ratelimit.RateLimitError
	Window         = ratelimit.Window
	Option         = ratelimit.Option
)

// Sentinel errors
var (
	ErrRateLimitExceeded = ratelimit.ErrRateLimitExceeded
	ErrInvalidConfig     = ratelimit.ErrInvalidConfig
)

// Constructors
var (
	NewRegistry           = ratelimit.NewRegistry
	NewLimiter            = ratelimit.NewLimiter
	NewRegistryFromConfig = ratelimit.NewRegistryFromConfig
	LoadConfigFromFile    = ratelimit.LoadConfigFromFile
)
