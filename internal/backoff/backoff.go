// Package backoff implements the exponential-backoff retry loop shared
// by the query planner and the mutation writer: a fixed initial delay,
// doubling per attempt, capped at a maximum attempt count. Generalized
// from a fixed attempt budget to a caller-supplied one so both callers
// can set their own retry policy.
package backoff

import (
	"context"
	"time"
)

// Policy configures a retry loop.
type Policy struct {
	Initial    time.Duration
	MaxRetries int
}

// Sleep returns the delay before retry attempt n (0-indexed, n=0 is the
// first retry after the initial failure): Initial * 2^n.
func (p Policy) Sleep(n int) time.Duration {
	return p.Initial << uint(n)
}

// Retry calls fn until it succeeds, returns a non-retryable error (per
// shouldRetry), or exhausts p.MaxRetries. It sleeps p.Sleep(attempt)
// between attempts, respecting ctx cancellation. On exhaustion it
// returns the last error observed.
func Retry(ctx context.Context, p Policy, shouldRetry func(error) bool, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= p.MaxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err
		if !shouldRetry(err) {
			return err
		}
		if attempt == p.MaxRetries {
			break
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(p.Sleep(attempt)):
		}
	}
	return lastErr
}
