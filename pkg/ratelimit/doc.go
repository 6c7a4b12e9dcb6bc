// Package ratelimit throttles calls into costly or rate-limited external
// services (LLM APIs, third-party HTTP APIs) with dual-window token buckets.
//
// Each protected resource gets one limiter enforcing a per-minute and a
// per-hour budget at the same time. A call is admitted only when both
// windows have at least one token; refill, check and consume happen inside
// a single critical section, so concurrent callers can never overdraw a
// bucket.
//
// # Quick Start
//
//	registry, err := ratelimit.NewRegistry()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	registry.Register("openai-chat", ratelimit.LimitConfig{
//	    CallsPerMinute: 60,
//	    CallsPerHour:   1000,
//	})
//
//	reply, err := ratelimit.Guard(ctx, registry, "openai-chat",
//	    func(ctx context.Context) (string, error) {
//	        return callModel(ctx, prompt)
//	    })
//
//	var limitErr *ratelimit.RateLimitError
//	if errors.As(err, &limitErr) {
//	    fmt.Printf("throttled on the %s window, retry in %v\n",
//	        limitErr.Window, limitErr.RetryAfter)
//	}
//
// # Admission Semantics
//
// Buckets start full and drain by one per admitted call. Tokens regenerate
// linearly within a window and hard-reset to capacity once a full window has
// elapsed, which keeps repeated partial refills from accumulating
// floating-point drift. The minute window is always checked before the hour
// window, so a caller over both limits sees the minute rejection with the
// shorter retry hint.
//
// Acquire never blocks waiting for tokens: it either admits the call or
// fails immediately with a *RateLimitError carrying the tripped window and a
// retry-after hint. Rejected calls consume nothing.
//
// An unregistered resource is not an error: Guard logs a warning and runs
// the operation unprotected. Misconfiguration should not turn off a feature.
//
// # Configuration
//
// Limits can be loaded from a YAML file and registered in one step:
//
//	resources:
//	  openai-chat:
//	    calls_per_minute: 60
//	    calls_per_hour: 1000
//	  anthropic-messages:
//	    calls_per_minute: 50
//	    calls_per_hour: 800
//
//	registry, err := ratelimit.NewRegistryFromConfig(config)
//
// # Concurrency
//
// All operations are safe for concurrent use. Each limiter owns its own
// mutex, so contention on one resource never blocks calls on another. The
// critical section is pure arithmetic with no I/O.
package ratelimit
