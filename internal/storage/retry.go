package storage

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"time"
)

// RetryConfig holds configuration for retrying storage writes
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Jitter      bool
}

// DefaultRetryConfig retries a write three times starting at 100ms
var DefaultRetryConfig = RetryConfig{
	MaxAttempts: 3,
	BaseDelay:   100 * time.Millisecond,
	MaxDelay:    2 * time.Second,
	Jitter:      true,
}

// RetryError is returned once every attempt has failed
type RetryError struct {
	Err      error
	Attempts int
}

func (e *RetryError) Error() string {
	return fmt.Sprintf("operation failed after %d attempts: %v", e.Attempts, e.Err)
}

func (e *RetryError) Unwrap() error {
	return e.Err
}

// retry runs fn until it succeeds, fails permanently, attempts run out or
// ctx is done. Delays double on every attempt.
func retry(ctx context.Context, config RetryConfig, fn func(attempt int) error) error {
	if config.MaxAttempts < 1 {
		config.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= config.MaxAttempts; attempt++ {
		err := fn(attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		if !isTransient(err) {
			return err
		}
		if attempt == config.MaxAttempts {
			break
		}

		delay := backoff(config, attempt)
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		}
	}

	return &RetryError{Err: lastErr, Attempts: config.MaxAttempts}
}

func backoff(config RetryConfig, attempt int) time.Duration {
	delay := config.BaseDelay << (attempt - 1)
	if config.MaxDelay > 0 && delay > config.MaxDelay {
		delay = config.MaxDelay
	}
	if config.Jitter {
		// ±25%
		delay = time.Duration(float64(delay) * (1 + (rand.Float64()-0.5)*0.5))
	}
	return delay
}

// isTransient reports whether a storage failure may succeed on a second try.
// Missing paths and permission problems will not.
func isTransient(err error) bool {
	switch {
	case errors.Is(err, os.ErrNotExist), errors.Is(err, os.ErrPermission), errors.Is(err, os.ErrInvalid):
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}
	return true
}
