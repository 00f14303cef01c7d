package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/vvka-141/sparkify/pkg/sparkify"
)

// Executor orchestrates retry attempts with backoff and error classification.
// Execute is safe for concurrent use; WithOnRetry returns a copy.
type Executor struct {
	classifier sparkify.ErrorClassifier
	strategy   sparkify.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor.
// Panics if classifier or strategy is nil.
func NewExecutor(classifier sparkify.ErrorClassifier, strategy sparkify.BackoffStrategy) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// NewConnectExecutor returns the executor used for establishing database
// connections: PostgreSQL classification, default backoff, and a verbose
// log line before every retry.
func NewConnectExecutor(logger sparkify.Logger) *Executor {
	strategy := NewExponentialBackoff(sparkify.DefaultRetryMaxAttempts,
		WithInitialDelay(sparkify.DefaultRetryInitialDelay),
		WithMaxDelay(sparkify.DefaultRetryMaxDelay),
	)
	e := NewExecutor(NewPostgreSQLErrorClassifier(), strategy)
	if logger == nil {
		return e
	}
	return e.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Verbose("connection attempt %d failed (%v); retrying in %v", attempt+1, err, delay.Round(time.Millisecond))
	})
}

// WithOnRetry returns a copy of the executor that calls callback before each retry.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails with a non-transient error,
// the context ends, or the strategy's attempts are exhausted. When retries are
// exhausted the last error is returned annotated with the attempt count.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	lastErr := operation(ctx)
	if lastErr == nil || !e.classifier.IsTransient(lastErr) {
		return lastErr
	}

	maxAttempts := e.strategy.MaxAttempts()
	attempt := 0
	for ; maxAttempts < 0 || attempt < maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		delay := e.strategy.NextDelay(attempt)
		if e.onRetry != nil {
			e.onRetry(attempt, lastErr, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}

		lastErr = operation(ctx)
		if lastErr == nil || !e.classifier.IsTransient(lastErr) {
			return lastErr
		}
	}

	if attempt == 0 {
		return lastErr
	}
	return fmt.Errorf("giving up after %d attempts: %w", attempt+1, lastErr)
}
