package repository_test

import (
	"context"
	"testing"
	"time"

	infrarepo "github.com/amirasaad/fintrack/infra/repository"
	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/domain/budget"
	"github.com/amirasaad/fintrack/pkg/domain/category"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/amirasaad/fintrack/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type repos struct {
	accounts     repository.AccountRepository
	transactions repository.TransactionRepository
	categories   repository.CategoryRepository
	budgets      repository.BudgetRepository
}

func newRepos(t *testing.T) repos {
	t.Helper()
	db := testutils.NewDB(t)
	return repos{
		accounts:     infrarepo.NewAccountRepository(db),
		transactions: infrarepo.NewTransactionRepository(db),
		categories:   infrarepo.NewCategoryRepository(db),
		budgets:      infrarepo.NewBudgetRepository(db),
	}
}

func date(month time.Month, day int) time.Time {
	return time.Date(2026, month, day, 0, 0, 0, 0, time.UTC)
}

func (r repos) account(t *testing.T, owner uuid.UUID, name string) *account.Account {
	t.Helper()
	acc, err := account.New().WithOwner(owner).WithName(name).Build()
	require.NoError(t, err)
	require.NoError(t, r.accounts.Create(context.Background(), acc))
	return acc
}

func (r repos) post(t *testing.T, acc *account.Account, categoryID *uint, amount string, on time.Time) *account.Transaction {
	t.Helper()
	tx, err := account.NewPosting(acc, categoryID, money.MustParse(amount), on, nil)
	require.NoError(t, err)
	require.NoError(t, r.transactions.Create(context.Background(), tx))
	return tx
}

func TestAccountRepository_OwnerScoping(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	acc := r.account(t, owner, "Checking")
	require.NotZero(t, acc.ID)

	got, err := r.accounts.Get(ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.Name)
	assert.Equal(t, account.DefaultCurrency, got.Currency)
	assert.True(t, got.Balance().IsZero())

	_, err = r.accounts.Get(ctx, uuid.New(), acc.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)

	stranger := account.NewFromData(acc.ID, uuid.New(), "Hijack", "USD", money.Zero, time.Time{})
	assert.ErrorIs(t, r.accounts.UpdateName(ctx, stranger), domain.ErrAccountNotFound)
	assert.ErrorIs(t, r.accounts.Delete(ctx, uuid.New(), acc.ID), domain.ErrAccountNotFound)
}

func TestAccountRepository_SaveBalanceKeepsPrecision(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	acc := r.account(t, owner, "Precise")

	tx := r.post(t, acc, nil, "0.1", date(10, 1))
	require.NoError(t, acc.Apply(tx))
	tx = r.post(t, acc, nil, "0.2", date(10, 1))
	require.NoError(t, acc.Apply(tx))
	require.NoError(t, r.accounts.SaveBalance(ctx, acc))

	got, err := r.accounts.GetForUpdate(ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.True(t, money.MustParse("0.3").Equal(got.Balance()))

	sum, err := r.transactions.SumByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance().Equal(sum))
}

func TestTransactionRepository_JoinsNames(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	acc := r.account(t, owner, "Checking")
	food, err := category.New(owner, "Food", nil)
	require.NoError(t, err)
	require.NoError(t, r.categories.Create(ctx, food))

	tx := r.post(t, acc, &food.ID, "-12.30", date(10, 3))
	got, err := r.transactions.Get(ctx, owner, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Checking", got.AccountName)
	require.NotNil(t, got.CategoryName)
	assert.Equal(t, "Food", *got.CategoryName)
	assert.Equal(t, account.KindExpense, got.Kind)
	assert.True(t, date(10, 3).Equal(got.Date))

	plain := r.post(t, acc, nil, "5", date(10, 3))
	got, err = r.transactions.Get(ctx, owner, plain.ID)
	require.NoError(t, err)
	assert.Nil(t, got.CategoryName)

	_, err = r.transactions.Get(ctx, uuid.New(), tx.ID)
	assert.ErrorIs(t, err, domain.ErrTransactionNotFound)
}

func TestTransactionRepository_SumExpenses(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	acc := r.account(t, owner, "Checking")
	food, err := category.New(owner, "Food", nil)
	require.NoError(t, err)
	require.NoError(t, r.categories.Create(ctx, food))

	r.post(t, acc, &food.ID, "-0.10", date(10, 1))
	r.post(t, acc, &food.ID, "-0.20", date(10, 31))
	r.post(t, acc, &food.ID, "-9", date(11, 1))
	r.post(t, acc, nil, "-1", date(10, 15))
	r.post(t, acc, &food.ID, "100", date(10, 15))

	next := date(11, 1)
	sum, err := r.transactions.SumExpenses(ctx, owner, repository.ExpenseFilter{
		CategoryID: &food.ID, From: date(10, 1), To: &next,
	})
	require.NoError(t, err)
	assert.Equal(t, "0.30", sum.String())

	sum, err = r.transactions.SumExpenses(ctx, owner, repository.ExpenseFilter{From: date(10, 1)})
	require.NoError(t, err)
	assert.Equal(t, "10.30", sum.String())

	n, err := r.transactions.CountByCategory(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 4, n)
	n, err = r.transactions.CountByAccount(ctx, acc.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 5, n)
}

func TestCategoryRepository_FindByNameAndChildren(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := uuid.New()

	first, err := category.New(owner, "Food", nil)
	require.NoError(t, err)
	require.NoError(t, r.categories.Create(ctx, first))
	dup, err := category.New(owner, "Food", nil)
	require.NoError(t, err)
	require.NoError(t, r.categories.Create(ctx, dup))

	found, err := r.categories.FindByName(ctx, owner, "Food")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)

	_, err = r.categories.FindByName(ctx, owner, "food")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
	_, err = r.categories.FindByName(ctx, uuid.New(), "Food")
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	child, err := category.New(owner, "Groceries", &first.ID)
	require.NoError(t, err)
	require.NoError(t, r.categories.Create(ctx, child))
	has, err := r.categories.HasChildren(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, has)
	has, err = r.categories.HasChildren(ctx, child.ID)
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBudgetRepository_CRUD(t *testing.T) {
	r := newRepos(t)
	ctx := context.Background()
	owner := uuid.New()
	food, err := category.New(owner, "Food", nil)
	require.NoError(t, err)
	require.NoError(t, r.categories.Create(ctx, food))

	b, err := budget.New(owner, &food.ID, money.MustParse("250"), budget.PeriodMonthly, date(10, 1))
	require.NoError(t, err)
	require.NoError(t, r.budgets.Create(ctx, b))

	got, err := r.budgets.Get(ctx, owner, b.ID)
	require.NoError(t, err)
	require.NotNil(t, got.CategoryName)
	assert.Equal(t, "Food", *got.CategoryName)
	assert.Equal(t, "250.00", got.Amount.String())

	require.NoError(t, got.Revise(money.MustParse("300"), "yearly", date(1, 1)))
	require.NoError(t, r.budgets.Update(ctx, got))
	got, err = r.budgets.Get(ctx, owner, b.ID)
	require.NoError(t, err)
	assert.Equal(t, budget.Period("yearly"), got.Period)
	assert.True(t, date(1, 1).Equal(got.StartDate))

	n, err := r.budgets.CountByCategory(ctx, food.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)

	got.OwnerID = uuid.New()
	assert.ErrorIs(t, r.budgets.Update(ctx, got), domain.ErrBudgetNotFound)

	list, err := r.budgets.ListByOwner(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, r.budgets.Delete(ctx, owner, b.ID))
	assert.ErrorIs(t, r.budgets.Delete(ctx, owner, b.ID), domain.ErrBudgetNotFound)
}
