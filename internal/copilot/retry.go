package copilot

import (
	"context"
	"time"
)

// RetryPolicy bounds the retry loop around the completion call.
// MaxRetries counts the extra attempts after the first one; BaseDelay is the
// wait before the first retry and doubles on every subsequent one.
type RetryPolicy struct {
	MaxRetries int
	BaseDelay  time.Duration
}

// retryWithBackoff runs fn up to 1+MaxRetries times, sleeping
// BaseDelay, 2*BaseDelay, 4*BaseDelay, ... between attempts.
// Only errors for which retryable returns true are retried; the last
// error is returned once the attempts are exhausted.
func retryWithBackoff(ctx context.Context, p RetryPolicy, retryable func(error) bool, fn func(context.Context) error) error {
	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil {
			return nil
		}
		if attempt >= p.MaxRetries || !retryable(err) {
			return err
		}

		delay := p.BaseDelay << uint(attempt)
		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}
