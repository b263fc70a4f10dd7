// Package decorator provides decorators for cross-cutting concerns around
// the unit of work.
package decorator

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/fintrack/pkg/repository"
)

// RetryPolicy bounds how often a unit of work is re-run after transient
// contention.
type RetryPolicy struct {
	// Attempts is the total number of tries, including the first one.
	Attempts int
	// Backoff is the pause before the second attempt. Each later attempt
	// waits Backoff times the attempt number.
	Backoff time.Duration
	// IsTransient classifies errors that may succeed on a fresh attempt,
	// such as deadlocks, serialization failures or a busy database.
	IsTransient func(error) bool
}

// RetryingUnitOfWork wraps a UnitOfWork and re-runs Do from scratch when it
// fails with transient lock contention.
//
// Retrying is always safe: a failed Do rolled its transaction back, so no
// partial effect of the previous attempt is visible. The function passed to
// Do must therefore not keep results from an earlier attempt; assign outputs
// only once the work inside the transaction has succeeded.
//
// Every other error, including validation and insufficient funds, is
// returned on the first occurrence.
//
// Example:
//
//	uow := decorator.NewRetryingUnitOfWork(infra.NewUoW(db), decorator.RetryPolicy{
//	    Attempts:    3,
//	    Backoff:     25 * time.Millisecond,
//	    IsTransient: infra.IsTransient,
//	}, logger)
type RetryingUnitOfWork struct {
	repository.UnitOfWork
	policy RetryPolicy
	logger *slog.Logger
}

// NewRetryingUnitOfWork decorates uow. Attempts below one are treated as one.
func NewRetryingUnitOfWork(
	uow repository.UnitOfWork,
	policy RetryPolicy,
	logger *slog.Logger,
) *RetryingUnitOfWork {
	if policy.Attempts < 1 {
		policy.Attempts = 1
	}
	if policy.IsTransient == nil {
		policy.IsTransient = func(error) bool { return false }
	}
	return &RetryingUnitOfWork{
		UnitOfWork: uow,
		policy:     policy,
		logger:     logger.With("decorator", "retry"),
	}
}

// Do runs fn through the wrapped UnitOfWork, retrying transient failures.
// It stops early when ctx is done.
func (r *RetryingUnitOfWork) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	for attempt := 1; ; attempt++ {
		err := r.UnitOfWork.Do(ctx, fn)
		if err == nil {
			return nil
		}
		if attempt >= r.policy.Attempts || !r.policy.IsTransient(err) {
			return err
		}

		wait := r.policy.Backoff * time.Duration(attempt)
		r.logger.Warn("Retrying unit of work after transient failure",
			"attempt", attempt,
			"max_attempts", r.policy.Attempts,
			"wait", wait,
			"error", err,
		)
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return err
		case <-timer.C:
		}
	}
}

var _ repository.UnitOfWork = (*RetryingUnitOfWork)(nil)
