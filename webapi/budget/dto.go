package budget

import (
	"encoding/json"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/money"
	budgetsvc "github.com/amirasaad/fintrack/pkg/service/budget"
)

//revive:disable

// CreateBudgetRequest is the body of POST /budgets. Omitting category_id
// budgets across all categories.
type CreateBudgetRequest struct {
	CategoryID *uint       `json:"category_id"`
	Amount     json.Number `json:"amount" validate:"required" swaggertype:"string" example:"250.00"`
	Period     string      `json:"period" validate:"omitempty,max=32" example:"monthly"`
	StartDate  string      `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateBudgetRequest is the body of PUT /budgets/:id.
type UpdateBudgetRequest struct {
	Amount    json.Number `json:"amount" validate:"required" swaggertype:"string"`
	Period    string      `json:"period" validate:"omitempty,max=32"`
	StartDate string      `json:"start_date" validate:"omitempty,datetime=2006-01-02"`
}

// BudgetDTO is a budget with its live evaluation.
type BudgetDTO struct {
	ID           uint        `json:"id"`
	CategoryID   *uint       `json:"category_id,omitempty"`
	CategoryName *string     `json:"category_name,omitempty"`
	Amount       money.Money `json:"amount" swaggertype:"string"`
	Period       string      `json:"period"`
	StartDate    string      `json:"start_date"`
	Spent        money.Money `json:"spent" swaggertype:"string"`
	Remaining    money.Money `json:"remaining" swaggertype:"string"`
	IsOver       bool        `json:"is_over"`
	CreatedAt    time.Time   `json:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at"`
}

func ToBudgetDTO(v *budgetsvc.View) *BudgetDTO {
	return &BudgetDTO{
		ID:           v.ID,
		CategoryID:   v.CategoryID,
		CategoryName: v.CategoryName,
		Amount:       v.Amount,
		Period:       string(v.Period),
		StartDate:    v.StartDate.Format(domain.DateLayout),
		Spent:        v.Spent,
		Remaining:    v.Remaining,
		IsOver:       v.IsOver,
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}
