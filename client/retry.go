package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/persistorai/followgraph/internal/metrics"
)

// Retry defaults: four attempts in total, waiting 1s, 2s, then 3s between them.
const (
	DefaultAttempts     = 4
	DefaultBaseInterval = time.Second
)

// RetryPolicy bounds how often and how patiently a request is repeated.
type RetryPolicy struct {
	Attempts     int
	BaseInterval time.Duration
}

// DefaultRetryPolicy returns the reference policy.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{Attempts: DefaultAttempts, BaseInterval: DefaultBaseInterval}
}

// Delay returns the wait after the given failed attempt (1-based): attempt × BaseInterval.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	return time.Duration(attempt) * p.BaseInterval
}

// Wait suspends for d or until ctx is done, whichever comes first. It
// returns ctx.Err() when the context ends the wait.
func Wait(ctx context.Context, d time.Duration) error {
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

// withRetry calls fn until it succeeds, returns a non-transport error, or the
// budget runs out. It reports the number of attempts made and the last error.
// A context cancelled during a backoff wait ends the loop at once with the
// last failure joined to the context error.
func (c *Client) withRetry(ctx context.Context, op string, fn func(attempt int) error) (int, error) {
	attempts := max(c.retry.Attempts, 1)

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, errors.Join(lastErr, err)
		}

		err := fn(attempt)
		if err == nil {
			metrics.ClientAttemptsTotal.WithLabelValues(op, "success").Inc()
			return attempt, nil
		}

		if !IsTransport(err) {
			metrics.ClientAttemptsTotal.WithLabelValues(op, "fatal").Inc()
			return attempt, err
		}

		metrics.ClientAttemptsTotal.WithLabelValues(op, "retryable").Inc()
		lastErr = err

		if attempt == attempts {
			break
		}

		delay := c.retry.Delay(attempt)
		c.log.WithError(err).WithFields(logrus.Fields{
			"op":           op,
			"attempt":      attempt,
			"max_attempts": attempts,
			"delay":        delay.String(),
		}).Warn("request failed, retrying")

		metrics.RetryWaitSeconds.WithLabelValues(op).Observe(delay.Seconds())
		if err := Wait(ctx, delay); err != nil {
			return attempt, errors.Join(lastErr, fmt.Errorf("%s backoff interrupted: %w", op, err))
		}
	}

	return attempts, lastErr
}
