package polygon

import (
	"context"
	"errors"
	"net"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

const (
	defaultMaxAttempts  = 5
	defaultInitialDelay = 500 * time.Millisecond
	defaultMaxDelay     = 8 * time.Second
	defaultMultiplier   = 2.0
)

// RetryPolicy decides how often and how long the client waits between attempts
// of a single GET. Only errors accepted by Retryable are retried.
type RetryPolicy struct {
	MaxAttempts  int // total attempts, including the first
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
	Retryable    func(error) bool
	// Timer drives the waits between attempts. Nil uses a real timer.
	Timer backoff.Timer
}

// DefaultRetryPolicy returns 5 attempts with delays 0.5s, 1s, 2s, 4s (capped at 8s),
// retrying transient network failures only.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:  defaultMaxAttempts,
		InitialDelay: defaultInitialDelay,
		MaxDelay:     defaultMaxDelay,
		Multiplier:   defaultMultiplier,
		Retryable:    IsTransient,
	}
}

// Delays returns the wait schedule between attempts, len == MaxAttempts-1.
func (p RetryPolicy) Delays() []time.Duration {
	b := p.backOff()
	b.Reset()
	out := make([]time.Duration, 0, max(p.MaxAttempts-1, 0))
	for i := 1; i < p.MaxAttempts; i++ {
		out = append(out, b.NextBackOff())
	}
	return out
}

func (p RetryPolicy) backOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = p.InitialDelay
	b.MaxInterval = p.MaxDelay
	b.Multiplier = p.Multiplier
	b.RandomizationFactor = 0
	b.MaxElapsedTime = 0
	return b
}

// Do runs op until it succeeds, fails with a non-retryable error, attempts run out
// or ctx is done. On exhaustion the last error from op is returned unchanged.
// notify, when non-nil, is called before each wait.
func (p RetryPolicy) Do(ctx context.Context, op func() error, notify func(attempt int, err error, delay time.Duration)) error {
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}
	attempts := max(p.MaxAttempts, 1)

	var b backoff.BackOff = backoff.WithMaxRetries(p.backOff(), uint64(attempts-1))
	b = backoff.WithContext(b, ctx)

	attempt := 0
	operation := func() error {
		attempt++
		err := op()
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !retryable(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	var onRetry backoff.Notify
	if notify != nil {
		onRetry = func(err error, d time.Duration) { notify(attempt, err, d) }
	}
	return backoff.RetryNotifyWithTimer(operation, b, onRetry, p.Timer)
}

// IsTransient reports whether err is a connection-establishment failure, a reset
// or a timeout. Caller cancellation is not transient.
func IsTransient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) {
		return true
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}
	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
