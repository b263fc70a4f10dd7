package decorator

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"reflect"
	"testing"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

var errBusy = errors.New("database is locked")

type mockUoW struct {
	mock.Mock
}

func (m *mockUoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *mockUoW) GetRepository(reflect.Type) (any, error) { return nil, nil }
func (m *mockUoW) AccountRepository() (repository.AccountRepository, error) {
	return nil, nil
}
func (m *mockUoW) TransactionRepository() (repository.TransactionRepository, error) {
	return nil, nil
}
func (m *mockUoW) CategoryRepository() (repository.CategoryRepository, error) {
	return nil, nil
}
func (m *mockUoW) BudgetRepository() (repository.BudgetRepository, error) {
	return nil, nil
}

func newRetrying(inner repository.UnitOfWork, attempts int) *RetryingUnitOfWork {
	return NewRetryingUnitOfWork(inner, RetryPolicy{
		Attempts:    attempts,
		Backoff:     time.Millisecond,
		IsTransient: func(err error) bool { return errors.Is(err, errBusy) },
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	inner := &mockUoW{}
	inner.On("Do", mock.Anything).Return(errBusy).Twice()
	inner.On("Do", mock.Anything).Return(nil).Once()

	calls := 0
	err := newRetrying(inner, 3).Do(context.Background(), func(repository.UnitOfWork) error {
		calls++
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 1, calls)
	inner.AssertNumberOfCalls(t, "Do", 3)
}

func TestRetry_GivesUpAfterAttempts(t *testing.T) {
	inner := &mockUoW{}
	inner.On("Do", mock.Anything).Return(errBusy)

	err := newRetrying(inner, 3).Do(context.Background(), func(repository.UnitOfWork) error { return nil })

	assert.ErrorIs(t, err, errBusy)
	inner.AssertNumberOfCalls(t, "Do", 3)
}

func TestRetry_DoesNotRetryDomainErrors(t *testing.T) {
	inner := &mockUoW{}
	inner.On("Do", mock.Anything).Return(nil)

	calls := 0
	err := newRetrying(inner, 5).Do(context.Background(), func(repository.UnitOfWork) error {
		calls++
		return domain.ErrInsufficientFunds
	})

	assert.ErrorIs(t, err, domain.ErrInsufficientFunds)
	assert.Equal(t, 1, calls)
	inner.AssertNumberOfCalls(t, "Do", 1)
}

func TestRetry_StopsWhenContextIsDone(t *testing.T) {
	inner := &mockUoW{}
	inner.On("Do", mock.Anything).Return(errBusy)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := NewRetryingUnitOfWork(inner, RetryPolicy{
		Attempts:    10,
		Backoff:     time.Hour,
		IsTransient: func(error) bool { return true },
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	err := r.Do(ctx, func(repository.UnitOfWork) error { return nil })
	assert.ErrorIs(t, err, errBusy)
	inner.AssertNumberOfCalls(t, "Do", 1)
}

func TestRetry_ZeroAttemptsRunsOnce(t *testing.T) {
	inner := &mockUoW{}
	inner.On("Do", mock.Anything).Return(errBusy)

	err := newRetrying(inner, 0).Do(context.Background(), func(repository.UnitOfWork) error { return nil })
	assert.ErrorIs(t, err, errBusy)
	inner.AssertNumberOfCalls(t, "Do", 1)
}
