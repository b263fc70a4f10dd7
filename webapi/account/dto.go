package account

import (
	"encoding/json"
	"time"

	domainaccount "github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/amirasaad/fintrack/pkg/service/ledger"
	"github.com/amirasaad/fintrack/webapi/transaction"
)

//revive:disable

// CreateAccountRequest represents the request body for creating a new account.
type CreateAccountRequest struct {
	Name     string `json:"name" validate:"required,max=50"`
	Currency string `json:"currency" validate:"omitempty,len=3,uppercase,alpha"`
}

// RenameAccountRequest represents the request body for renaming an account.
type RenameAccountRequest struct {
	Name string `json:"name" validate:"required,max=50"`
}

// TransferRequest represents the request body for transferring funds between accounts.
type TransferRequest struct {
	DestinationAccountID uint        `json:"destination_account_id" validate:"required"`
	Amount               json.Number `json:"amount" validate:"required" swaggertype:"string" example:"30.00"`
	Date                 string      `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Description          *string     `json:"description" validate:"omitempty,max=255"`
}

// AccountDTO is the API representation of an account.
type AccountDTO struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Currency  string      `json:"currency"`
	Balance   money.Money `json:"balance" swaggertype:"string"`
	CreatedAt time.Time   `json:"created_at"`
}

// TransferResponseDTO holds both legs of a completed transfer.
type TransferResponseDTO struct {
	Outgoing *transaction.TransactionDTO `json:"outgoing_transaction"`
	Incoming *transaction.TransactionDTO `json:"incoming_transaction"`
}

// AuditDTO reports whether an account's balance matches its transactions.
type AuditDTO struct {
	AccountID  uint        `json:"account_id"`
	Balance    money.Money `json:"balance" swaggertype:"string"`
	Computed   money.Money `json:"computed" swaggertype:"string"`
	Consistent bool        `json:"consistent"`
}

func ToAccountDTO(a *domainaccount.Account) *AccountDTO {
	return &AccountDTO{
		ID:        a.ID,
		Name:      a.Name,
		Currency:  a.Currency,
		Balance:   a.Balance(),
		CreatedAt: a.CreatedAt,
	}
}

func ToAuditDTO(a *ledger.Audit) *AuditDTO {
	return &AuditDTO{
		AccountID:  a.AccountID,
		Balance:    a.Balance,
		Computed:   a.Computed,
		Consistent: a.Consistent,
	}
}
