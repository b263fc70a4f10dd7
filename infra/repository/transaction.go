package repository

import (
	"context"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a gorm-backed TransactionRepository.
func NewTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &transactionRepository{db: db}
}

// transactionRow is a transaction joined with its display names.
type transactionRow struct {
	Transaction
	AccountName  string
	CategoryName *string
}

func (r *transactionRepository) Create(ctx context.Context, tx *account.Transaction) error {
	m := Transaction{
		OwnerID:     tx.OwnerID,
		AccountID:   tx.AccountID,
		CategoryID:  tx.CategoryID,
		Amount:      tx.Amount,
		Kind:        string(tx.Kind),
		Date:        domain.DateOf(tx.Date),
		Description: tx.Description,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	tx.ID = m.ID
	tx.CreatedAt = m.CreatedAt
	return nil
}

func (r *transactionRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&Transaction{}).
		Select("transactions.*, accounts.name AS account_name, categories.name AS category_name").
		Joins("JOIN accounts ON accounts.id = transactions.account_id").
		Joins("LEFT JOIN categories ON categories.id = transactions.category_id")
}

func (r *transactionRepository) Get(ctx context.Context, owner uuid.UUID, id uint) (*account.Transaction, error) {
	var rows []transactionRow
	err := r.joined(ctx).
		Where("transactions.id = ? AND transactions.owner_id = ?", id, owner).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrTransactionNotFound
	}
	return mapTransaction(&rows[0]), nil
}

func (r *transactionRepository) List(
	ctx context.Context,
	owner uuid.UUID,
	filter repository.TransactionFilter,
) ([]*account.Transaction, error) {
	q := r.joined(ctx).Where("transactions.owner_id = ?", owner)
	if filter.AccountID != nil {
		q = q.Where("transactions.account_id = ?", *filter.AccountID)
	}
	if filter.From != nil {
		q = q.Where("transactions.date >= ?", domain.DateOf(*filter.From))
	}
	if filter.To != nil {
		q = q.Where("transactions.date <= ?", domain.DateOf(*filter.To))
	}
	var rows []transactionRow
	err := q.Order("transactions.date DESC, transactions.created_at DESC, transactions.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Transaction, 0, len(rows))
	for i := range rows {
		out = append(out, mapTransaction(&rows[i]))
	}
	return out, nil
}

func (r *transactionRepository) SumExpenses(
	ctx context.Context,
	owner uuid.UUID,
	filter repository.ExpenseFilter,
) (money.Money, error) {
	q := r.db.WithContext(ctx).
		Model(&Transaction{}).
		Where("owner_id = ? AND kind = ? AND date >= ?", owner, string(account.KindExpense), domain.DateOf(filter.From))
	if filter.To != nil {
		q = q.Where("date < ?", domain.DateOf(*filter.To))
	}
	if filter.CategoryID != nil {
		q = q.Where("category_id = ?", *filter.CategoryID)
	}
	return sumAmounts(q, true)
}

func (r *transactionRepository) SumByAccount(ctx context.Context, accountID uint) (money.Money, error) {
	q := r.db.WithContext(ctx).Model(&Transaction{}).Where("account_id = ?", accountID)
	return sumAmounts(q, false)
}

// sumAmounts adds the amount column in Go. SQL SUM over a text column on
// sqlite would go through floating point.
func sumAmounts(q *gorm.DB, abs bool) (money.Money, error) {
	rows, err := q.Select("amount").Rows()
	if err != nil {
		return money.Zero, MapGormErrorToDomain(err)
	}
	defer rows.Close() //nolint:errcheck

	total := money.Zero
	for rows.Next() {
		var m money.Money
		if err := rows.Scan(&m); err != nil {
			return money.Zero, MapGormErrorToDomain(err)
		}
		if abs {
			m = m.Abs()
		}
		total = total.Add(m)
	}
	if err := rows.Err(); err != nil {
		return money.Zero, MapGormErrorToDomain(err)
	}
	return total, nil
}

func (r *transactionRepository) CountByAccount(ctx context.Context, accountID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).Where("account_id = ?", accountID).Count(&n).Error
	return n, MapGormErrorToDomain(err)
}

func (r *transactionRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Transaction{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, MapGormErrorToDomain(err)
}

func mapTransaction(row *transactionRow) *account.Transaction {
	return &account.Transaction{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		AccountID:    row.AccountID,
		AccountName:  row.AccountName,
		CategoryID:   row.CategoryID,
		CategoryName: row.CategoryName,
		Amount:       row.Amount,
		Kind:         account.Kind(row.Kind),
		Date:         asDate(row.Date),
		Description:  row.Description,
		CreatedAt:    row.CreatedAt,
	}
}

// asDate normalises a date column read back from any driver to UTC midnight.
func asDate(t time.Time) time.Time {
	return domain.DateOf(t)
}
