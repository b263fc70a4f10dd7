// Package budget models spending ceilings and the window over which their
// consumption is measured. Spent amounts are never stored on a Budget.
package budget

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/google/uuid"
)

// Period names how a budget's window is computed. Monthly is the only kind
// with special handling; any other value means "since the anchor date".
type Period string

const PeriodMonthly Period = "monthly"

// ParsePeriod trims the input and falls back to monthly when it is blank.
func ParsePeriod(s string) Period {
	if s = strings.TrimSpace(s); s == "" {
		return PeriodMonthly
	}
	return Period(s)
}

// Budget is a target ceiling for one category, or for all categories when
// CategoryID is nil.
type Budget struct {
	ID           uint
	OwnerID      uuid.UUID
	CategoryID   *uint
	CategoryName *string
	Amount       money.Money
	Period       Period
	StartDate    time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// New validates and returns an unsaved budget. The target must be strictly
// positive.
func New(
	owner uuid.UUID,
	categoryID *uint,
	amount money.Money,
	period Period,
	start time.Time,
) (*Budget, error) {
	if owner == uuid.Nil {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrValidation)
	}
	b := &Budget{OwnerID: owner, CategoryID: categoryID}
	if err := b.Revise(amount, period, start); err != nil {
		return nil, err
	}
	return b, nil
}

// Revise replaces the target, period and anchor date.
func (b *Budget) Revise(amount money.Money, period Period, start time.Time) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: budget amount must be positive", domain.ErrInvalidAmount)
	}
	if period == "" {
		period = PeriodMonthly
	}
	b.Amount = amount
	b.Period = period
	b.StartDate = domain.DateOf(start)
	return nil
}

// Window is the half-open date range [From, To). A nil To is unbounded.
type Window struct {
	From time.Time
	To   *time.Time
}

// WindowFor computes the consumption window. Monthly budgets always measure
// the calendar month containing today and ignore the anchor. Every other
// period accumulates from the anchor onwards.
func WindowFor(period Period, anchor, today time.Time) Window {
	if period == PeriodMonthly {
		today = domain.DateOf(today)
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, time.UTC)
		next := first.AddDate(0, 1, 0)
		return Window{From: first, To: &next}
	}
	return Window{From: domain.DateOf(anchor)}
}

// Evaluation is the live standing of a budget against the ledger.
type Evaluation struct {
	Spent     money.Money `json:"spent"`
	Remaining money.Money `json:"remaining"`
	IsOver    bool        `json:"is_over"`
}

// Evaluate compares spent against the target.
func (b *Budget) Evaluate(spent money.Money) Evaluation {
	return Evaluation{
		Spent:     spent,
		Remaining: b.Amount.Sub(spent),
		IsOver:    spent.GreaterThan(b.Amount),
	}
}
