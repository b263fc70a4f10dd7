// Package budget evaluates budgets against the live ledger. Spent figures
// are always computed from expense transactions on demand; nothing is
// cached or stored.
package budget

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/budget"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

const defaultWorkers = 4

// Service manages budgets and their evaluation.
type Service struct {
	uow     repository.UnitOfWork
	logger  *slog.Logger
	clock   domain.Clock
	workers int
}

// NewService creates a new budget Service.
func NewService(deps config.Deps) *Service {
	workers := defaultWorkers
	if deps.Config != nil && deps.Config.Ledger != nil && deps.Config.Ledger.BudgetWorkers > 0 {
		workers = deps.Config.Ledger.BudgetWorkers
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: deps.Uow, logger: logger, clock: deps.Clock, workers: workers}
}

// View is a budget together with its live evaluation.
type View struct {
	*budget.Budget
	budget.Evaluation
}

// SpentFor sums the absolute value of the owner's expenses in the window
// that period and anchor describe. A nil categoryID covers every category.
// Income and transfers never count.
func (s *Service) SpentFor(
	ctx context.Context,
	owner uuid.UUID,
	categoryID *uint,
	period budget.Period,
	anchor time.Time,
) (money.Money, error) {
	w := budget.WindowFor(period, anchor, s.clock.Today())
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return money.Zero, err
	}
	return repo.SumExpenses(ctx, owner, repository.ExpenseFilter{
		CategoryID: categoryID,
		From:       w.From,
		To:         w.To,
	})
}

// Evaluate computes spent, remaining and overspend for b.
func (s *Service) Evaluate(ctx context.Context, b *budget.Budget) (budget.Evaluation, error) {
	spent, err := s.SpentFor(ctx, b.OwnerID, b.CategoryID, b.Period, b.StartDate)
	if err != nil {
		return budget.Evaluation{}, err
	}
	return b.Evaluate(spent), nil
}

func (s *Service) view(ctx context.Context, b *budget.Budget) (*View, error) {
	eval, err := s.Evaluate(ctx, b)
	if err != nil {
		return nil, err
	}
	return &View{Budget: b, Evaluation: eval}, nil
}

// CreateInput describes a new budget. A blank Period means monthly and a
// nil StartDate means today.
type CreateInput struct {
	CategoryID *uint
	Amount     string
	Period     string
	StartDate  *time.Time
}

// Create validates and stores a budget, then returns it evaluated.
func (s *Service) Create(ctx context.Context, owner uuid.UUID, in CreateInput) (*View, error) {
	logger := s.logger.With("owner", owner)
	amount, err := money.Parse(in.Amount)
	if err != nil {
		return nil, err
	}
	start := s.clock.Today()
	if in.StartDate != nil {
		start = domain.DateOf(*in.StartDate)
	}
	b, err := budget.New(owner, in.CategoryID, amount, budget.ParsePeriod(in.Period), start)
	if err != nil {
		return nil, err
	}

	var stored *budget.Budget
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		if in.CategoryID != nil {
			categories, err := uow.CategoryRepository()
			if err != nil {
				return err
			}
			if _, err := categories.Get(ctx, owner, *in.CategoryID); err != nil {
				return err
			}
		}
		budgets, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		if err := budgets.Create(ctx, b); err != nil {
			return err
		}
		stored, err = budgets.Get(ctx, owner, b.ID)
		return err
	})
	if err != nil {
		logger.Error("CreateBudget failed", "error", err)
		return nil, err
	}
	logger.Info("Budget created", "budget_id", stored.ID, "period", stored.Period)
	return s.view(ctx, stored)
}

// Get returns one owned budget, evaluated.
func (s *Service) Get(ctx context.Context, owner uuid.UUID, id uint) (*View, error) {
	repo, err := s.uow.BudgetRepository()
	if err != nil {
		return nil, err
	}
	b, err := repo.Get(ctx, owner, id)
	if err != nil {
		return nil, err
	}
	return s.view(ctx, b)
}

// List returns every budget of the owner, each evaluated against the
// ledger. Evaluations run concurrently, bounded by the configured worker
// count; the result keeps the repository order.
func (s *Service) List(ctx context.Context, owner uuid.UUID) ([]*View, error) {
	repo, err := s.uow.BudgetRepository()
	if err != nil {
		return nil, err
	}
	budgets, err := repo.ListByOwner(ctx, owner)
	if err != nil {
		return nil, err
	}

	views := make([]*View, len(budgets))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i, b := range budgets {
		g.Go(func() error {
			v, err := s.view(gctx, b)
			if err != nil {
				return err
			}
			views[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.logger.Error("ListBudgets failed", "owner", owner, "error", err)
		return nil, err
	}
	return views, nil
}

// UpdateInput replaces a budget's target, period and anchor. A blank Period
// means monthly and a nil StartDate re-anchors the budget on today.
type UpdateInput struct {
	Amount    string
	Period    string
	StartDate *time.Time
}

// Update revises an owned budget and returns it evaluated.
func (s *Service) Update(ctx context.Context, owner uuid.UUID, id uint, in UpdateInput) (*View, error) {
	amount, err := money.Parse(in.Amount)
	if err != nil {
		return nil, err
	}
	var stored *budget.Budget
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		budgets, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		b, err := budgets.Get(ctx, owner, id)
		if err != nil {
			return err
		}
		start := s.clock.Today()
		if in.StartDate != nil {
			start = *in.StartDate
		}
		if err := b.Revise(amount, budget.ParsePeriod(in.Period), start); err != nil {
			return err
		}
		if err := budgets.Update(ctx, b); err != nil {
			return err
		}
		stored, err = budgets.Get(ctx, owner, id)
		return err
	})
	if err != nil {
		s.logger.Error("UpdateBudget failed", "owner", owner, "budget_id", id, "error", err)
		return nil, err
	}
	return s.view(ctx, stored)
}

// Delete removes an owned budget.
func (s *Service) Delete(ctx context.Context, owner uuid.UUID, id uint) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		budgets, err := uow.BudgetRepository()
		if err != nil {
			return err
		}
		return budgets.Delete(ctx, owner, id)
	})
	if err != nil {
		s.logger.Error("DeleteBudget failed", "owner", owner, "budget_id", id, "error", err)
	}
	return err
}
