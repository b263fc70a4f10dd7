package repository

import (
	"context"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/budget"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type budgetRepository struct {
	db *gorm.DB
}

// NewBudgetRepository creates a gorm-backed BudgetRepository.
func NewBudgetRepository(db *gorm.DB) repository.BudgetRepository {
	return &budgetRepository{db: db}
}

type budgetRow struct {
	Budget
	CategoryName *string
}

func (r *budgetRepository) joined(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&Budget{}).
		Select("budgets.*, categories.name AS category_name").
		Joins("LEFT JOIN categories ON categories.id = budgets.category_id")
}

func (r *budgetRepository) Create(ctx context.Context, b *budget.Budget) error {
	m := Budget{
		OwnerID:    b.OwnerID,
		CategoryID: b.CategoryID,
		Amount:     b.Amount,
		Period:     string(b.Period),
		StartDate:  domain.DateOf(b.StartDate),
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	b.ID = m.ID
	b.CreatedAt = m.CreatedAt
	b.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *budgetRepository) Get(ctx context.Context, owner uuid.UUID, id uint) (*budget.Budget, error) {
	var rows []budgetRow
	err := r.joined(ctx).
		Where("budgets.id = ? AND budgets.owner_id = ?", id, owner).
		Limit(1).
		Scan(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrBudgetNotFound
	}
	return mapBudget(&rows[0]), nil
}

func (r *budgetRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*budget.Budget, error) {
	var rows []budgetRow
	err := r.joined(ctx).
		Where("budgets.owner_id = ?", owner).
		Order("budgets.created_at DESC, budgets.id DESC").
		Scan(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*budget.Budget, 0, len(rows))
	for i := range rows {
		out = append(out, mapBudget(&rows[i]))
	}
	return out, nil
}

func (r *budgetRepository) Update(ctx context.Context, b *budget.Budget) error {
	res := r.db.WithContext(ctx).
		Model(&Budget{ID: b.ID}).
		Where("owner_id = ?", b.OwnerID).
		Updates(map[string]any{
			"amount":     b.Amount,
			"period":     string(b.Period),
			"start_date": domain.DateOf(b.StartDate),
		})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *budgetRepository) Delete(ctx context.Context, owner uuid.UUID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).Delete(&Budget{})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrBudgetNotFound
	}
	return nil
}

func (r *budgetRepository) CountByCategory(ctx context.Context, categoryID uint) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&Budget{}).Where("category_id = ?", categoryID).Count(&n).Error
	return n, MapGormErrorToDomain(err)
}

func mapBudget(row *budgetRow) *budget.Budget {
	return &budget.Budget{
		ID:           row.ID,
		OwnerID:      row.OwnerID,
		CategoryID:   row.CategoryID,
		CategoryName: row.CategoryName,
		Amount:       row.Amount,
		Period:       budget.Period(row.Period),
		StartDate:    asDate(row.StartDate),
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}
