package store

import (
	"context"
	"time"
)

// Network backends ping their server this many times before giving up.
const (
	connectAttempts = 3
	connectDelay    = 250 * time.Millisecond
)

// retry runs fn up to attempts times. The delay doubles after each failed
// attempt. It returns nil on the first success, ctx.Err() if ctx ends while
// waiting, and otherwise the last error.
func retry(ctx context.Context, attempts int, delay time.Duration, fn func(context.Context) error) error {
	attempts = max(attempts, 1)
	var lastErr error

	for i := range attempts {
		if lastErr = fn(ctx); lastErr == nil {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		if i < attempts-1 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay *= 2
			}
		}
	}
	return lastErr
}
