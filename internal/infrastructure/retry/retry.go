// Package retry wraps calls to external services in a bounded exponential
// backoff behind a circuit breaker.
package retry

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/sony/gobreaker/v2"
)

type Policy struct {
	MaxAttempts     uint64
	InitialInterval time.Duration
	MaxInterval     time.Duration
	BreakerFailures uint32
	BreakerTimeout  time.Duration
}

// StatusError is a non-2xx answer from an HTTP dependency.
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Retryable reports whether err is worth another attempt. Client errors are
// final; throttling, server errors and transport failures are not.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == http.StatusTooManyRequests || se.StatusCode >= 500
	}
	var pe *backoff.PermanentError
	return !errors.As(err, &pe)
}

// Caller guards one external service.
type Caller struct {
	name    string
	policy  Policy
	breaker *gobreaker.CircuitBreaker[any]
}

func New(name string, p Policy) *Caller {
	if p.MaxAttempts == 0 {
		p.MaxAttempts = 1
	}
	failures := p.BreakerFailures
	if failures == 0 {
		failures = 5
	}
	return &Caller{
		name:   name,
		policy: p,
		breaker: gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
			Name:    name,
			Timeout: p.BreakerTimeout,
			ReadyToTrip: func(c gobreaker.Counts) bool {
				return c.ConsecutiveFailures >= failures
			},
			IsSuccessful: func(err error) bool {
				return err == nil || !Retryable(err)
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				log.Printf("[retry][breaker] state change name=%s from=%s to=%s", name, from, to)
			},
		}),
	}
}

// Permanent marks err as not worth retrying.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Do runs fn under c's policy and returns its last result.
func Do[T any](ctx context.Context, c *Caller, fn func(ctx context.Context) (T, error)) (T, error) {
	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(c.policy.InitialInterval),
		backoff.WithMaxInterval(c.policy.MaxInterval),
		backoff.WithMaxElapsedTime(0),
	)
	bo := backoff.WithContext(backoff.WithMaxRetries(b, c.policy.MaxAttempts-1), ctx)

	attempt := 0
	return backoff.RetryWithData(func() (T, error) {
		attempt++
		var zero T
		v, err := c.breaker.Execute(func() (any, error) { return fn(ctx) })
		if err == nil {
			out, _ := v.(T)
			return out, nil
		}
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return zero, backoff.Permanent(fmt.Errorf("%s: %w", c.name, err))
		}
		if !Retryable(err) {
			return zero, backoff.Permanent(err)
		}
		log.Printf("[retry][%s] attempt=%d failed err=%v", c.name, attempt, err)
		return zero, err
	}, bo)
}
