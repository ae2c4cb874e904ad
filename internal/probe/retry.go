package probe

import (
	"context"
	"time"
)

// RetryProber re-runs failed probes before reporting a failure. Every attempt
// shares the caller's ctx, so retries never extend past the check timeout.
type RetryProber struct {
	Inner    Prober
	Attempts int
	Backoff  time.Duration
}

func NewRetryProber(inner Prober, attempts int, backoff time.Duration) *RetryProber {
	if attempts < 1 {
		attempts = 1
	}
	return &RetryProber{Inner: inner, Attempts: attempts, Backoff: backoff}
}

func (r *RetryProber) CheckHost(ctx context.Context, address string) Result {
	return r.retry(ctx, func() Result { return r.Inner.CheckHost(ctx, address) })
}

func (r *RetryProber) CheckService(ctx context.Context, address string, port int) Result {
	return r.retry(ctx, func() Result { return r.Inner.CheckService(ctx, address, port) })
}

func (r *RetryProber) retry(ctx context.Context, once func() Result) Result {
	attempts := r.Attempts
	if attempts < 1 {
		attempts = 1
	}
	var last Result
	for i := 0; i < attempts; i++ {
		last = once()
		if last.Success {
			return last
		}
		if i == attempts-1 {
			break
		}
		if !wait(ctx, r.Backoff) {
			return last
		}
	}
	if attempts > 1 {
		// annotate message so you can see it was a retry series
		last.Detail = last.Detail + " (after retries)"
	}
	return last
}

func wait(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
