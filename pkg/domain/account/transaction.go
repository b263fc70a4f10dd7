package account

import (
	"fmt"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/google/uuid"
)

// Kind classifies a transaction.
type Kind string

// Transaction kinds. Income and expense are derived from the sign of an
// ordinary posting; transfer is fixed for both legs of a transfer.
const (
	KindIncome   Kind = "income"
	KindExpense  Kind = "expense"
	KindTransfer Kind = "transfer"
)

// KindFor derives the kind of an ordinary posting from its sign.
func KindFor(amount money.Money) (Kind, error) {
	switch amount.Sign() {
	case 1:
		return KindIncome, nil
	case -1:
		return KindExpense, nil
	default:
		return "", fmt.Errorf("%w: amount must not be zero", domain.ErrInvalidAmount)
	}
}

// Transaction is an immutable signed posting against one account.
// AccountName and CategoryName are display data joined in on reads.
type Transaction struct {
	ID           uint
	OwnerID      uuid.UUID
	AccountID    uint
	AccountName  string
	CategoryID   *uint
	CategoryName *string
	Amount       money.Money
	Kind         Kind
	Date         time.Time
	Description  *string
	CreatedAt    time.Time
}

// NewPosting builds an income or expense transaction on acc. The kind is
// derived from the amount, which must not be zero.
func NewPosting(
	acc *Account,
	categoryID *uint,
	amount money.Money,
	date time.Time,
	description *string,
) (*Transaction, error) {
	kind, err := KindFor(amount)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		OwnerID:     acc.OwnerID,
		AccountID:   acc.ID,
		AccountName: acc.Name,
		CategoryID:  categoryID,
		Amount:      amount,
		Kind:        kind,
		Date:        domain.DateOf(date),
		Description: description,
	}, nil
}

// TransferDescription is the description given to transfer legs when the
// caller supplies none.
func TransferDescription(fromID, toID uint) string {
	return fmt.Sprintf("Transfer from account %d to account %d", fromID, toID)
}

// NewTransferLegs builds the debit leg on from and the credit leg on to.
// Both legs share the date and description and have no category.
func NewTransferLegs(
	from, to *Account,
	amount money.Money,
	date time.Time,
	description *string,
) (debit, credit *Transaction, err error) {
	if err := from.ValidateTransfer(to, amount); err != nil {
		return nil, nil, err
	}
	if description == nil {
		d := TransferDescription(from.ID, to.ID)
		description = &d
	}
	date = domain.DateOf(date)
	debit = &Transaction{
		OwnerID:     from.OwnerID,
		AccountID:   from.ID,
		AccountName: from.Name,
		Amount:      amount.Neg(),
		Kind:        KindTransfer,
		Date:        date,
		Description: description,
	}
	credit = &Transaction{
		OwnerID:     to.OwnerID,
		AccountID:   to.ID,
		AccountName: to.Name,
		Amount:      amount,
		Kind:        KindTransfer,
		Date:        date,
		Description: description,
	}
	return debit, credit, nil
}
