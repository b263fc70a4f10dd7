package ledger

import (
	"context"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/category"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
)

// CreateCategory creates a category, optionally nested under an owned parent.
func (s *Service) CreateCategory(
	ctx context.Context,
	owner uuid.UUID,
	name string,
	parentID *uint,
) (c *category.Category, err error) {
	c, err = category.New(owner, name, parentID)
	if err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		if parentID != nil {
			if _, err := repo.Get(ctx, owner, *parentID); err != nil {
				return err
			}
		}
		return repo.Create(ctx, c)
	})
	if err != nil {
		s.logger.Error("CreateCategory failed", "owner", owner, "name", name, "error", err)
		return nil, err
	}
	return c, nil
}

// ListCategories returns the owner's categories, newest first.
func (s *Service) ListCategories(ctx context.Context, owner uuid.UUID) ([]*category.Category, error) {
	repo, err := s.uow.CategoryRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByOwner(ctx, owner)
}

// DeleteCategory removes an owned category. It fails with ErrHasChildren
// while another category names it as parent, and with ErrCategoryInUse
// while transactions or budgets reference it.
func (s *Service) DeleteCategory(ctx context.Context, owner uuid.UUID, id uint) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		categories, err := uow.CategoryRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		budgets, err := uow.BudgetRepository()
		if err != nil {
			return err
		}

		if _, err := categories.Get(ctx, owner, id); err != nil {
			return err
		}
		hasChildren, err := categories.HasChildren(ctx, id)
		if err != nil {
			return err
		}
		if hasChildren {
			return domain.ErrHasChildren
		}
		inTxs, err := txs.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		inBudgets, err := budgets.CountByCategory(ctx, id)
		if err != nil {
			return err
		}
		if inTxs+inBudgets > 0 {
			return domain.ErrCategoryInUse
		}
		return categories.Delete(ctx, owner, id)
	})
	if err != nil {
		s.logger.Error("DeleteCategory failed", "owner", owner, "category_id", id, "error", err)
		return err
	}
	s.logger.Info("Category deleted", "owner", owner, "category_id", id)
	return nil
}
