package repository

import (
	"context"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type accountRepository struct {
	db *gorm.DB
}

// NewAccountRepository creates a gorm-backed AccountRepository.
func NewAccountRepository(db *gorm.DB) repository.AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, a *account.Account) error {
	m := Account{
		OwnerID:  a.OwnerID,
		Name:     a.Name,
		Currency: a.Currency,
		Balance:  a.Balance(),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	return nil
}

func (r *accountRepository) Get(ctx context.Context, owner uuid.UUID, id uint) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx), owner, id)
}

func (r *accountRepository) GetForUpdate(ctx context.Context, owner uuid.UUID, id uint) (*account.Account, error) {
	return r.first(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), owner, id)
}

func (r *accountRepository) first(q *gorm.DB, owner uuid.UUID, id uint) (*account.Account, error) {
	var m Account
	if err := q.Where("id = ? AND owner_id = ?", id, owner).First(&m).Error; err != nil {
		return nil, notFound(err, domain.ErrAccountNotFound)
	}
	return mapAccount(&m), nil
}

func (r *accountRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*account.Account, error) {
	var rows []Account
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*account.Account, 0, len(rows))
	for i := range rows {
		out = append(out, mapAccount(&rows[i]))
	}
	return out, nil
}

func (r *accountRepository) UpdateName(ctx context.Context, a *account.Account) error {
	return r.update(ctx, a, "name", a.Name)
}

func (r *accountRepository) SaveBalance(ctx context.Context, a *account.Account) error {
	return r.update(ctx, a, "balance", a.Balance())
}

func (r *accountRepository) update(ctx context.Context, a *account.Account, column string, value any) error {
	res := r.db.WithContext(ctx).
		Model(&Account{}).
		Where("id = ? AND owner_id = ?", a.ID, a.OwnerID).
		Update(column, value)
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func (r *accountRepository) Delete(ctx context.Context, owner uuid.UUID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).Delete(&Account{})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

func mapAccount(m *Account) *account.Account {
	return account.NewFromData(m.ID, m.OwnerID, m.Name, m.Currency, m.Balance, m.CreatedAt)
}
