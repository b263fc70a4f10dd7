package repository

import (
	"context"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/category"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type categoryRepository struct {
	db *gorm.DB
}

// NewCategoryRepository creates a gorm-backed CategoryRepository.
func NewCategoryRepository(db *gorm.DB) repository.CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, c *category.Category) error {
	m := Category{OwnerID: c.OwnerID, Name: c.Name, ParentID: c.ParentID}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return MapGormErrorToDomain(err)
	}
	c.ID = m.ID
	c.CreatedAt = m.CreatedAt
	return nil
}

func (r *categoryRepository) Get(ctx context.Context, owner uuid.UUID, id uint) (*category.Category, error) {
	var m Category
	err := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).First(&m).Error
	if err != nil {
		return nil, notFound(err, domain.ErrCategoryNotFound)
	}
	return mapCategory(&m), nil
}

func (r *categoryRepository) FindByName(ctx context.Context, owner uuid.UUID, name string) (*category.Category, error) {
	var m Category
	err := r.db.WithContext(ctx).
		Where("owner_id = ? AND name = ?", owner, name).
		Order("id ASC").
		First(&m).Error
	if err != nil {
		return nil, notFound(err, domain.ErrCategoryNotFound)
	}
	return mapCategory(&m), nil
}

func (r *categoryRepository) ListByOwner(ctx context.Context, owner uuid.UUID) ([]*category.Category, error) {
	var rows []Category
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", owner).
		Order("created_at DESC, id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, MapGormErrorToDomain(err)
	}
	out := make([]*category.Category, 0, len(rows))
	for i := range rows {
		out = append(out, mapCategory(&rows[i]))
	}
	return out, nil
}

func (r *categoryRepository) HasChildren(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&Category{}).Where("parent_id = ?", id).Count(&n).Error; err != nil {
		return false, MapGormErrorToDomain(err)
	}
	return n > 0, nil
}

func (r *categoryRepository) Delete(ctx context.Context, owner uuid.UUID, id uint) error {
	res := r.db.WithContext(ctx).Where("id = ? AND owner_id = ?", id, owner).Delete(&Category{})
	if res.Error != nil {
		return MapGormErrorToDomain(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}

func mapCategory(m *Category) *category.Category {
	return &category.Category{
		ID:        m.ID,
		OwnerID:   m.OwnerID,
		Name:      m.Name,
		ParentID:  m.ParentID,
		CreatedAt: m.CreatedAt,
	}
}
