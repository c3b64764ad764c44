package sicetac

import (
	"context"
	"errors"
	"time"
)

// transientError marks a transport failure worth another attempt: connection
// errors, timeouts and 5xx responses. Anything not wrapped in it fails fast.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

func isTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}

// cause strips the transient marker so TransportError carries the real
// failure underneath.
func cause(err error) error {
	var te *transientError
	if errors.As(err, &te) {
		return te.err
	}
	return err
}

// RetryPolicy is an explicit retry schedule: total attempt budget and an
// exponential backoff window. The zero value is unusable; use
// DefaultRetryPolicy unless a test needs its own schedule.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration

	// Sleep is swapped for a fake in tests. Nil means a context-aware wait.
	Sleep func(ctx context.Context, d time.Duration) error
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   time.Second,
		MaxDelay:    10 * time.Second,
	}
}

// Backoff returns the delay before the given attempt (1-based), doubling from
// BaseDelay and capped at MaxDelay.
func (p RetryPolicy) Backoff(attempt int) time.Duration {
	delay := p.BaseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
		if delay >= p.MaxDelay {
			return p.MaxDelay
		}
	}
	if delay > p.MaxDelay {
		return p.MaxDelay
	}
	return delay
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Do runs fn until it succeeds, fails permanently, or the attempt budget is
// spent. The returned TransportError carries the last attempt's cause.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !isTransient(err) {
			return &TransportError{Attempts: attempt, Err: err}
		}
		lastErr = cause(err)
		if attempt == p.MaxAttempts {
			break
		}
		if serr := p.sleep(ctx, p.Backoff(attempt)); serr != nil {
			return &TransportError{Attempts: attempt, Err: serr}
		}
	}
	return &TransportError{Attempts: p.MaxAttempts, Err: lastErr}
}
