package tracker

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"time"

	"github.com/abhisek/syllabus/internal/store"
)

// RetryConfig controls how Advance retries after losing a concurrent write.
// Each retry re-reads the student's progress and validates again, so a
// retried request can still be rejected.
type RetryConfig struct {
	MaxAttempts int
	InitialWait time.Duration
	MaxWait     time.Duration
	Multiplier  float64
}

// DefaultRetryConfig returns the retry settings used when none are given.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 5 * time.Millisecond,
		MaxWait:     50 * time.Millisecond,
		Multiplier:  2.0,
	}
}

func WithRetry(cfg RetryConfig) Option {
	return func(s *Service) { s.retry = cfg }
}

// withRetry runs fn until it succeeds, fails with something other than a
// write conflict, or runs out of attempts.
func (s *Service) withRetry(ctx context.Context, fn func() error) error {
	attempts := max(s.retry.MaxAttempts, 1)

	var lastErr error
	for attempt := range attempts {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		if !errors.Is(err, store.ErrConflict) {
			return err
		}

		// No sleep after the final attempt.
		if attempt == attempts-1 {
			break
		}

		wait := s.backoff(attempt)
		s.logger.Debug("write conflict, retrying", "attempt", attempt+1, "wait", wait)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

// backoff computes the wait duration for the given attempt.
func (s *Service) backoff(attempt int) time.Duration {
	wait := float64(s.retry.InitialWait) * math.Pow(s.retry.Multiplier, float64(attempt))
	if wait > float64(s.retry.MaxWait) {
		wait = float64(s.retry.MaxWait)
	}

	// Add ±20% jitter.
	wait += wait * 0.2 * (2*rand.Float64() - 1)
	if wait < 0 {
		wait = 0
	}
	return time.Duration(wait)
}
