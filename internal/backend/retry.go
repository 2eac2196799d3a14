package backend

import (
	"context"
	"errors"
	"time"
)

// RetryPolicy re-issues failed calls at the transport layer. Attempts are
// strictly sequential: each one completes before the next is considered.
// Callers see a single resolved or failed outcome.
type RetryPolicy struct {
	// MaxRetries is the number of re-issues after the first attempt.
	MaxRetries int
	// Backoff maps the retry number (1-based) to a wait before that retry.
	Backoff func(retry int) time.Duration
	// Retryable decides whether a failure is transient. Nil retries nothing.
	Retryable func(err error) bool

	// sleep is swapped out by tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// DefaultRetryPolicy is the single policy shared by all call sites: two
// retries with linearly increasing backoff, transient failures only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries: 2,
		Backoff:    LinearBackoff(time.Second),
		Retryable:  Transient,
	}
}

// LinearBackoff waits retry × unit before each retry.
func LinearBackoff(unit time.Duration) func(int) time.Duration {
	return func(retry int) time.Duration {
		return time.Duration(retry) * unit
	}
}

// Transient reports whether a failure is worth retrying: network errors,
// timeouts, and 5xx responses. Every 4xx is permanent, auth failures included.
func Transient(err error) bool {
	var he *HTTPError
	if errors.As(err, &he) {
		return he.Status >= 500
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	var ne *NetworkError
	var te *TimeoutError
	return errors.As(err, &ne) || errors.As(err, &te)
}

// Do runs fn, retrying per the policy. The last error is returned when the
// budget is exhausted.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	sleep := p.sleep
	if sleep == nil {
		sleep = sleepCtx
	}

	var err error
	for attempt := 0; ; attempt++ {
		err = fn(ctx)
		if err == nil || attempt >= p.MaxRetries {
			return err
		}
		if p.Retryable == nil || !p.Retryable(err) {
			return err
		}

		var wait time.Duration
		if p.Backoff != nil {
			wait = p.Backoff(attempt + 1)
		}
		if serr := sleep(ctx, wait); serr != nil {
			return err
		}
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
