package transaction

import (
	"encoding/json"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/money"
)

//revive:disable

// CreateTransactionRequest is the body of POST /transactions. The account
// is named by exactly one of account_id and account_name; the category by
// at most one of category_id and category_name.
type CreateTransactionRequest struct {
	AccountID    *uint       `json:"account_id"`
	AccountName  *string     `json:"account_name" validate:"omitempty,max=50"`
	CategoryID   *uint       `json:"category_id"`
	CategoryName *string     `json:"category_name" validate:"omitempty,max=50"`
	Amount       json.Number `json:"amount" validate:"required" swaggertype:"string" example:"-42.50"`
	Date         string      `json:"date" validate:"omitempty,datetime=2006-01-02" example:"2026-10-15"`
	Description  *string     `json:"description" validate:"omitempty,max=255"`
}

// TransactionDTO is the API representation of a transaction.
type TransactionDTO struct {
	ID           uint        `json:"id"`
	AccountID    uint        `json:"account_id"`
	AccountName  string      `json:"account_name"`
	CategoryID   *uint       `json:"category_id,omitempty"`
	CategoryName *string     `json:"category_name,omitempty"`
	Amount       money.Money `json:"amount" swaggertype:"string"`
	Kind         string      `json:"kind"`
	Date         string      `json:"date"`
	Description  *string     `json:"description,omitempty"`
	CreatedAt    time.Time   `json:"created_at"`
}

// ToTransactionDTO maps a domain transaction to its API form.
func ToTransactionDTO(tx *account.Transaction) *TransactionDTO {
	if tx == nil {
		return nil
	}
	return &TransactionDTO{
		ID:           tx.ID,
		AccountID:    tx.AccountID,
		AccountName:  tx.AccountName,
		CategoryID:   tx.CategoryID,
		CategoryName: tx.CategoryName,
		Amount:       tx.Amount,
		Kind:         string(tx.Kind),
		Date:         tx.Date.Format(domain.DateLayout),
		Description:  tx.Description,
		CreatedAt:    tx.CreatedAt,
	}
}

// ToTransactionDTOs maps a list of transactions.
func ToTransactionDTOs(txs []*account.Transaction) []*TransactionDTO {
	out := make([]*TransactionDTO, 0, len(txs))
	for _, tx := range txs {
		out = append(out, ToTransactionDTO(tx))
	}
	return out
}
