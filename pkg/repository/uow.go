package repository

import (
	"context"
	"reflect"
)

// UnitOfWork defines the contract for transactional work and type-safe repository access.
//
// Do runs fn inside one database transaction. Every repository obtained from
// the UnitOfWork handed to fn shares that transaction, so the writes commit
// together or not at all. Repositories obtained outside Do run against the
// plain connection and are suitable for reads.
//
//	err := uow.Do(ctx, func(uow repository.UnitOfWork) error {
//		repo, err := uow.AccountRepository()
//		...
//	})
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. If fn returns an error
	// the transaction is rolled back and the error is returned.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// GetRepository returns a repository of the requested interface type,
	// bound to the current transaction or session.
	GetRepository(repoType reflect.Type) (any, error)

	AccountRepository() (AccountRepository, error)
	TransactionRepository() (TransactionRepository, error)
	CategoryRepository() (CategoryRepository, error)
	BudgetRepository() (BudgetRepository, error)
}
