package events

import (
	"time"

	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/google/uuid"
)

// EventType names a ledger event on the wire.
type EventType string

const (
	EventTypeTransactionRecorded EventType = "transaction.recorded"
	EventTypeTransferCompleted   EventType = "transfer.completed"
)

// Event is anything published on the bus after a ledger write commits.
type Event interface {
	Type() string
}

// TransactionRecorded is emitted after an ordinary posting commits.
type TransactionRecorded struct {
	TransactionID uint        `json:"transaction_id"`
	OwnerID       uuid.UUID   `json:"owner_id"`
	AccountID     uint        `json:"account_id"`
	CategoryID    *uint       `json:"category_id,omitempty"`
	Amount        money.Money `json:"amount"`
	Kind          string      `json:"kind"`
	Date          time.Time   `json:"date"`
	Balance       money.Money `json:"balance"`
}

// TransferCompleted is emitted after both legs of a transfer commit.
type TransferCompleted struct {
	OwnerID       uuid.UUID   `json:"owner_id"`
	FromAccountID uint        `json:"from_account_id"`
	ToAccountID   uint        `json:"to_account_id"`
	DebitID       uint        `json:"debit_id"`
	CreditID      uint        `json:"credit_id"`
	Amount        money.Money `json:"amount"`
	Date          time.Time   `json:"date"`
}

func (TransactionRecorded) Type() string { return string(EventTypeTransactionRecorded) }
func (TransferCompleted) Type() string   { return string(EventTypeTransferCompleted) }
