package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net/http"

	"github.com/reena96/unseenedgeai-sub001/pkg/ratelimit"
)

// ResourceFunc maps a request to the named resource it consumes
type ResourceFunc func(*http.Request) string

// RateLimiter provides HTTP middleware that gates a route behind the
// limiter registered for a resource, translating rejections into 429
// responses. This is the calling-layer adapter: the limiter itself only
// decides, it never writes responses.
type RateLimiter struct {
	registry     *ratelimit.Registry
	resourceFunc ResourceFunc
	logger       *slog.Logger
}

// Config for creating the middleware
type Config struct {
	Registry *ratelimit.Registry // Required: where limiters are registered
	Resource string              // Fixed resource name for every request through this route
	// Optional: derive the resource per request instead of using Resource
	ResourceFunc ResourceFunc
	Logger       *slog.Logger // Optional: defaults to slog.Default()
}

// NewRateLimiter creates a new rate limiting middleware
func NewRateLimiter(config Config) *RateLimiter {
	resourceFunc := config.ResourceFunc
	if resourceFunc == nil {
		resource := config.Resource
		resourceFunc = func(*http.Request) string { return resource }
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &RateLimiter{
		registry:     config.Registry,
		resourceFunc: resourceFunc,
		logger:       logger,
	}
}

// Middleware wraps an http.Handler with rate limiting
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		resource := rl.resourceFunc(r)

		limiter, ok := rl.registry.Get(resource)
		if !ok {
			// Fail open: an unconfigured resource must not disable the route
			rl.logger.Warn("no rate limit registered, proceeding unprotected",
				"resource", resource)
			next.ServeHTTP(w, r)
			return
		}

		err := limiter.Acquire()

		config := limiter.Config()
		minuteRemaining, hourRemaining := limiter.Remaining()
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", config.CallsPerMinute))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", int64(minuteRemaining)))
		w.Header().Set("X-RateLimit-Hourly-Limit", fmt.Sprintf("%d", config.CallsPerHour))
		w.Header().Set("X-RateLimit-Hourly-Remaining", fmt.Sprintf("%d", int64(hourRemaining)))

		var limitErr *ratelimit.RateLimitError
		if errors.As(err, &limitErr) {
			retryAfterSec := int64(math.Ceil(limitErr.RetryAfter.Seconds()))
			if retryAfterSec == 0 {
				retryAfterSec = 1
			}
			w.Header().Set("Retry-After", fmt.Sprintf("%d", retryAfterSec))
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)

			json.NewEncoder(w).Encode(map[string]interface{}{
				"error":          "rate_limit_exceeded",
				"message":        "Too many requests. Please try again later.",
				"resource":       limitErr.Resource,
				"window":         string(limitErr.Window),
				"retry_after_ms": limitErr.RetryAfter.Milliseconds(),
			})
			return
		}

		next.ServeHTTP(w, r)
	})
}
