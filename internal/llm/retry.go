package llm

import (
	"context"
	"time"
)

// RetryPolicy is the standalone retry/backoff schedule applied by the
// Gateway. It owns no state beyond its configuration, so it can be
// unit-tested without a network dependency.
type RetryPolicy struct {
	MaxRetries     int           // additional attempts after the first
	InitialBackoff time.Duration // doubles on each retry
	AttemptTimeout time.Duration // per-attempt bound, raced via context
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:     3,
		InitialBackoff: 1 * time.Second,
		AttemptTimeout: 30 * time.Second,
	}
}

// Backoff returns the wait before retry number retry (0-based):
// 1s, 2s, 4s, ... for the default policy.
func (p RetryPolicy) Backoff(retry int) time.Duration {
	d := p.InitialBackoff
	for i := 0; i < retry; i++ {
		d *= 2
	}
	return d
}

// sleepCtx waits d or until the context is done, whichever is first.
func sleepCtx(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
