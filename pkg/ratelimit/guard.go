package ratelimit

import (
	"context"
)

// Guard runs op through the limiter registered for the resource.
//
// If no limiter is registered, the operation runs unprotected and a warning
// is logged: a missing entry fails open so a configuration gap cannot
// silently disable a dependent feature. Once a limiter exists the gate fails
// closed, and a *RateLimitError is returned without invoking op.
//
// Guard performs no retry, backoff or queuing; the operation's result and
// error pass through unchanged.
func Guard[T any](ctx context.Context, registry *Registry, resource string, op func(context.Context) (T, error)) (T, error) {
	limiter, ok := registry.Get(resource)
	if !ok {
		registry.logger.Warn("no rate limit registered, proceeding unprotected",
			"resource", resource)
		return op(ctx)
	}

	if err := limiter.Acquire(); err != nil {
		var zero T
		return zero, err
	}

	return op(ctx)
}

// Do is Guard for operations that return only an error.
func Do(ctx context.Context, registry *Registry, resource string, op func(context.Context) error) error {
	_, err := Guard(ctx, registry, resource, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}
