package repository

import (
	"context"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/domain/budget"
	"github.com/amirasaad/fintrack/pkg/domain/category"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/google/uuid"
)

// AccountRepository persists accounts. Every lookup is scoped to an owner;
// rows owned by someone else are reported as not found.
type AccountRepository interface {
	Create(ctx context.Context, a *account.Account) error
	Get(ctx context.Context, owner uuid.UUID, id uint) (*account.Account, error)
	// GetForUpdate loads the account and holds a write lock on its row until
	// the surrounding unit of work ends.
	GetForUpdate(ctx context.Context, owner uuid.UUID, id uint) (*account.Account, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*account.Account, error)
	UpdateName(ctx context.Context, a *account.Account) error
	// SaveBalance writes the balance held by a; callers must have locked the
	// row with GetForUpdate in the same unit of work.
	SaveBalance(ctx context.Context, a *account.Account) error
	Delete(ctx context.Context, owner uuid.UUID, id uint) error
}

// TransactionFilter narrows ListTransactions. Nil fields impose no
// constraint; From and To are inclusive calendar dates.
type TransactionFilter struct {
	AccountID *uint
	From      *time.Time
	To        *time.Time
}

// ExpenseFilter selects expense transactions for budget consumption.
// From is inclusive and To, when set, exclusive.
type ExpenseFilter struct {
	CategoryID *uint
	From       time.Time
	To         *time.Time
}

// TransactionRepository persists transactions. Returned transactions carry
// the joined account and category names.
type TransactionRepository interface {
	Create(ctx context.Context, tx *account.Transaction) error
	Get(ctx context.Context, owner uuid.UUID, id uint) (*account.Transaction, error)
	// List orders by date, then creation time, newest first.
	List(ctx context.Context, owner uuid.UUID, filter TransactionFilter) ([]*account.Transaction, error)
	// SumExpenses returns the sum of absolute values of matching expense
	// amounts, zero when none match.
	SumExpenses(ctx context.Context, owner uuid.UUID, filter ExpenseFilter) (money.Money, error)
	SumByAccount(ctx context.Context, accountID uint) (money.Money, error)
	CountByAccount(ctx context.Context, accountID uint) (int64, error)
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Create(ctx context.Context, c *category.Category) error
	Get(ctx context.Context, owner uuid.UUID, id uint) (*category.Category, error)
	// FindByName matches the name exactly, case included. The oldest match
	// wins when duplicates exist.
	FindByName(ctx context.Context, owner uuid.UUID, name string) (*category.Category, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*category.Category, error)
	HasChildren(ctx context.Context, id uint) (bool, error)
	Delete(ctx context.Context, owner uuid.UUID, id uint) error
}

// BudgetRepository persists budgets. Spent figures are never stored.
type BudgetRepository interface {
	Create(ctx context.Context, b *budget.Budget) error
	Get(ctx context.Context, owner uuid.UUID, id uint) (*budget.Budget, error)
	ListByOwner(ctx context.Context, owner uuid.UUID) ([]*budget.Budget, error)
	Update(ctx context.Context, b *budget.Budget) error
	Delete(ctx context.Context, owner uuid.UUID, id uint) error
	CountByCategory(ctx context.Context, categoryID uint) (int64, error)
}
