package ledger_test

import (
	"context"
	"fmt"
	"math/rand/v2"
	"testing"
	"time"

	infraeventbus "github.com/amirasaad/fintrack/infra/eventbus"
	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/domain/events"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/amirasaad/fintrack/pkg/service/ledger"
	"github.com/amirasaad/fintrack/pkg/testutils"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func newService(t *testing.T) (*ledger.Service, *infraeventbus.MemoryEventBus) {
	t.Helper()
	bus := infraeventbus.NewWithMemory(testutils.Logger())
	return ledger.NewService(testutils.Deps(t, bus)), bus
}

func strPtr(s string) *string { return &s }

func TestRecordTransaction_ByNameCreatesAccountAndCategory(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	tx, err := svc.RecordTransaction(ctx, owner, ledger.RecordInput{
		Account:  domain.ByName("Checking"),
		Category: domain.ByName("Food"),
		Amount:   "-42.50",
	})
	require.NoError(t, err)
	assert.Equal(t, account.KindExpense, tx.Kind)
	assert.Equal(t, "Checking", tx.AccountName)
	require.NotNil(t, tx.CategoryName)
	assert.Equal(t, "Food", *tx.CategoryName)
	assert.True(t, testutils.Today.Equal(tx.Date), "date defaults to today")

	acc, err := svc.GetAccount(ctx, owner, tx.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "-42.50", acc.Balance().String())

	published := bus.Published()
	require.Len(t, published, 1)
	evt, ok := published[0].(events.TransactionRecorded)
	require.True(t, ok)
	assert.Equal(t, tx.ID, evt.TransactionID)
	assert.Equal(t, "-42.50", evt.Balance.String())
}

func TestRecordTransaction_CategoryByNameIsReused(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	acc, err := svc.CreateAccount(ctx, owner, "Checking", "")
	require.NoError(t, err)
	assert.Equal(t, "USD", acc.Currency)

	first, err := svc.RecordTransaction(ctx, owner, ledger.RecordInput{
		Account: domain.ByID(acc.ID), Category: domain.ByName("Food"), Amount: "-1",
	})
	require.NoError(t, err)
	second, err := svc.RecordTransaction(ctx, owner, ledger.RecordInput{
		Account: domain.ByID(acc.ID), Category: domain.ByName("Food"), Amount: "-2",
	})
	require.NoError(t, err)
	assert.Equal(t, *first.CategoryID, *second.CategoryID)

	cats, err := svc.ListCategories(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, cats, 1)
}

func TestRecordTransaction_AccountByNameAlwaysCreates(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	for range 2 {
		_, err := svc.RecordTransaction(ctx, owner, ledger.RecordInput{
			Account: domain.ByName("Wallet"), Amount: "10",
		})
		require.NoError(t, err)
	}
	accounts, err := svc.ListAccounts(ctx, owner)
	require.NoError(t, err)
	assert.Len(t, accounts, 2)
}

func TestRecordTransaction_Rejections(t *testing.T) {
	svc, bus := newService(t)
	ctx := context.Background()
	owner := uuid.New()
	acc, err := svc.CreateAccount(ctx, owner, "Checking", "USD")
	require.NoError(t, err)

	tests := []struct {
		name    string
		in      ledger.RecordInput
		wantErr error
	}{
		{"zero amount", ledger.RecordInput{Account: domain.ByID(acc.ID), Amount: "0"}, domain.ErrInvalidAmount},
		{"malformed amount", ledger.RecordInput{Account: domain.ByID(acc.ID), Amount: "ten"}, domain.ErrInvalidAmount},
		{"missing account", ledger.RecordInput{Account: domain.ByID(9999), Amount: "1"}, domain.ErrAccountNotFound},
		{"no account reference", ledger.RecordInput{Amount: "1"}, domain.ErrInvalidRef},
		{"missing category", ledger.RecordInput{Account: domain.ByID(acc.ID), Category: domain.ByID(9999), Amount: "1"}, domain.ErrCategoryNotFound},
		{"blank account name", ledger.RecordInput{Account: domain.ByName("  "), Amount: "1"}, domain.ErrInvalidName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.RecordTransaction(ctx, owner, tt.in)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	got, err := svc.GetAccount(ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.True(t, got.Balance().IsZero())
	assert.Empty(t, bus.Published())
}

func TestRecordTransaction_OtherOwnersAccountIsNotFound(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	acc, err := svc.CreateAccount(ctx, uuid.New(), "Mine", "")
	require.NoError(t, err)

	_, err = svc.RecordTransaction(ctx, uuid.New(), ledger.RecordInput{
		Account: domain.ByID(acc.ID), Amount: "5",
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestBalanceEqualsSumOfTransactions(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()
	acc, err := svc.CreateAccount(ctx, owner, "Checking", "")
	require.NoError(t, err)

	rng := rand.New(rand.NewPCG(7, 11))
	want := money.Zero
	for range 40 {
		cents := rng.Int64N(200001) - 100000
		if cents == 0 {
			continue
		}
		amount := money.New(cents, -2)
		_, err := svc.RecordTransaction(ctx, owner, ledger.RecordInput{
			Account: domain.ByID(acc.ID), Amount: amount.String(),
		})
		require.NoError(t, err)
		want = want.Add(amount)
	}

	audit, err := svc.VerifyAccount(ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
	assert.True(t, want.Equal(audit.Balance), "want %s got %s", want, audit.Balance)
}

func TestConcurrentPostingsKeepBalanceExact(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()
	acc, err := svc.CreateAccount(ctx, owner, "Shared", "")
	require.NoError(t, err)
	_, err = svc.RecordTransaction(ctx, owner, ledger.RecordInput{Account: domain.ByID(acc.ID), Amount: "100"})
	require.NoError(t, err)

	g, gctx := errgroup.WithContext(ctx)
	for i := range 20 {
		amount := "-5"
		if i%2 == 1 {
			amount = "5"
		}
		g.Go(func() error {
			_, err := svc.RecordTransaction(gctx, owner, ledger.RecordInput{
				Account: domain.ByID(acc.ID), Amount: amount,
			})
			return err
		})
	}
	require.NoError(t, g.Wait())

	audit, err := svc.VerifyAccount(ctx, owner, acc.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", audit.Balance.String())
	assert.True(t, audit.Consistent)

	txs, err := svc.ListTransactions(ctx, owner, repository.TransactionFilter{AccountID: &acc.ID})
	require.NoError(t, err)
	assert.Len(t, txs, 21)
}

func TestListTransactions_OrderAndFilters(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()
	a, err := svc.CreateAccount(ctx, owner, "A", "")
	require.NoError(t, err)
	b, err := svc.CreateAccount(ctx, owner, "B", "")
	require.NoError(t, err)

	day := func(d int) *time.Time {
		v := time.Date(2026, 10, d, 0, 0, 0, 0, time.UTC)
		return &v
	}
	record := func(accID uint, amount string, date *time.Time, desc string) *account.Transaction {
		tx, err := svc.RecordTransaction(ctx, owner, ledger.RecordInput{
			Account: domain.ByID(accID), Amount: amount, Date: date, Description: strPtr(desc),
		})
		require.NoError(t, err)
		return tx
	}
	record(a.ID, "1", day(1), "first")
	record(a.ID, "2", day(3), "older same day")
	record(a.ID, "3", day(3), "newer same day")
	record(b.ID, "4", day(2), "other account")

	all, err := svc.ListTransactions(ctx, owner, repository.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 4)
	var order []string
	for _, tx := range all {
		order = append(order, *tx.Description)
	}
	assert.Equal(t, []string{"newer same day", "older same day", "other account", "first"}, order)

	onlyA, err := svc.ListTransactions(ctx, owner, repository.TransactionFilter{AccountID: &a.ID})
	require.NoError(t, err)
	assert.Len(t, onlyA, 3)

	ranged, err := svc.ListTransactions(ctx, owner, repository.TransactionFilter{From: day(2), To: day(2)})
	require.NoError(t, err)
	require.Len(t, ranged, 1)
	assert.Equal(t, "other account", *ranged[0].Description)

	none, err := svc.ListTransactions(ctx, uuid.New(), repository.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestAccountLifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	acc, err := svc.CreateAccount(ctx, owner, "Savings", "EUR")
	require.NoError(t, err)

	renamed, err := svc.RenameAccount(ctx, owner, acc.ID, "Rainy day")
	require.NoError(t, err)
	assert.Equal(t, "Rainy day", renamed.Name)

	_, err = svc.RenameAccount(ctx, owner, acc.ID, "")
	assert.ErrorIs(t, err, domain.ErrInvalidName)

	_, err = svc.RecordTransaction(ctx, owner, ledger.RecordInput{Account: domain.ByID(acc.ID), Amount: "1"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, owner, acc.ID), domain.ErrAccountInUse)

	empty, err := svc.CreateAccount(ctx, owner, "Empty", "")
	require.NoError(t, err)
	require.NoError(t, svc.DeleteAccount(ctx, owner, empty.ID))
	_, err = svc.GetAccount(ctx, owner, empty.ID)
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, owner, empty.ID), domain.ErrNotFound)
}

func TestCreateAccount_NameTooLong(t *testing.T) {
	svc, _ := newService(t)
	_, err := svc.CreateAccount(context.Background(), uuid.New(), fmt.Sprintf("%051d", 0), "")
	assert.ErrorIs(t, err, domain.ErrInvalidName)
}

func TestCategoryLifecycle(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	owner := uuid.New()

	parent, err := svc.CreateCategory(ctx, owner, "Living", nil)
	require.NoError(t, err)
	child, err := svc.CreateCategory(ctx, owner, "Rent", &parent.ID)
	require.NoError(t, err)
	require.NotNil(t, child.ParentID)

	_, err = svc.CreateCategory(ctx, uuid.New(), "Stolen parent", &parent.ID)
	assert.ErrorIs(t, err, domain.ErrCategoryNotFound)

	assert.ErrorIs(t, svc.DeleteCategory(ctx, owner, parent.ID), domain.ErrHasChildren)

	_, err = svc.RecordTransaction(ctx, owner, ledger.RecordInput{
		Account: domain.ByName("Checking"), Category: domain.ByID(child.ID), Amount: "-900",
	})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.DeleteCategory(ctx, owner, child.ID), domain.ErrCategoryInUse)

	spare, err := svc.CreateCategory(ctx, owner, "Spare", nil)
	require.NoError(t, err)
	require.NoError(t, svc.DeleteCategory(ctx, owner, spare.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, owner, spare.ID), domain.ErrNotFound)
}
