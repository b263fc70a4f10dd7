// Package resolver turns caller-supplied id-or-name references into owned
// accounts and categories.
//
// Resolution runs inside the caller's unit of work so that an entity created
// on first use by name commits or rolls back together with the write that
// needed it.
package resolver

import (
	"context"
	"errors"
	"log/slog"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/domain/category"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
)

// Resolver resolves domain.Ref values against the repositories of a unit
// of work.
type Resolver struct {
	defaultCurrency string
	logger          *slog.Logger
}

// New creates a Resolver. Accounts created by name get defaultCurrency, or
// USD when it is blank.
func New(defaultCurrency string, logger *slog.Logger) *Resolver {
	if defaultCurrency == "" {
		defaultCurrency = account.DefaultCurrency
	}
	return &Resolver{defaultCurrency: defaultCurrency, logger: logger}
}

// Account resolves a required account reference.
//
//   - ByID: the account must exist and belong to owner, else ErrAccountNotFound.
//   - ByName: a new account with that name, the default currency and a zero
//     balance is created. Names are never matched against existing accounts.
//   - zero Ref: ErrInvalidRef.
func (r *Resolver) Account(
	ctx context.Context,
	uow repository.UnitOfWork,
	owner uuid.UUID,
	ref domain.Ref,
) (*account.Account, error) {
	repo, err := uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	switch ref.Kind() {
	case domain.RefByID:
		return repo.Get(ctx, owner, ref.ID())
	case domain.RefByName:
		acc, err := account.New().
			WithOwner(owner).
			WithName(ref.Name()).
			WithCurrency(r.defaultCurrency).
			Build()
		if err != nil {
			return nil, err
		}
		if err := repo.Create(ctx, acc); err != nil {
			return nil, err
		}
		r.logger.Info("Account created by name", "owner", owner, "account_id", acc.ID, "name", acc.Name)
		return acc, nil
	default:
		return nil, domain.ErrInvalidRef
	}
}

// Category resolves an optional category reference. The zero Ref resolves
// to nil.
//
//   - ByID: the category must exist and belong to owner, else ErrCategoryNotFound.
//   - ByName: the owner's category with exactly that name is reused, or
//     created when none exists.
func (r *Resolver) Category(
	ctx context.Context,
	uow repository.UnitOfWork,
	owner uuid.UUID,
	ref domain.Ref,
) (*category.Category, error) {
	repo, err := uow.CategoryRepository()
	if err != nil {
		return nil, err
	}
	switch ref.Kind() {
	case domain.RefNone:
		return nil, nil
	case domain.RefByID:
		return repo.Get(ctx, owner, ref.ID())
	case domain.RefByName:
		existing, err := repo.FindByName(ctx, owner, ref.Name())
		if err == nil {
			return existing, nil
		}
		if !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		c, err := category.New(owner, ref.Name(), nil)
		if err != nil {
			return nil, err
		}
		if err := repo.Create(ctx, c); err != nil {
			return nil, err
		}
		r.logger.Info("Category created by name", "owner", owner, "category_id", c.ID, "name", c.Name)
		return c, nil
	default:
		return nil, domain.ErrInvalidRef
	}
}
