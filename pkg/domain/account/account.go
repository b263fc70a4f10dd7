package account

import (
	"fmt"
	"strings"
	"time"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/google/uuid"
)

// DefaultCurrency is used when an account is created without one.
const DefaultCurrency = "USD"

// Account is an owned, named monetary bucket.
//
// Invariants:
//   - The balance equals the sum of the signed amounts of every transaction
//     that references the account.
//   - The balance only changes through Apply, which requires the transaction
//     that justifies the change.
type Account struct {
	ID        uint
	OwnerID   uuid.UUID
	Name      string
	Currency  string
	CreatedAt time.Time

	balance money.Money
}

// Balance returns the current balance.
func (a *Account) Balance() money.Money { return a.balance }

// Rename validates and sets a new display name.
func (a *Account) Rename(name string) error {
	if err := domain.ValidateName(name); err != nil {
		return err
	}
	a.Name = name
	return nil
}

// Apply adds the transaction's amount to the balance. The transaction must
// reference this account and carry a non-zero amount.
func (a *Account) Apply(tx *Transaction) error {
	if tx == nil || tx.AccountID != a.ID {
		return fmt.Errorf("%w: transaction does not belong to account %d", domain.ErrValidation, a.ID)
	}
	if tx.Amount.IsZero() {
		return fmt.Errorf("%w: amount must not be zero", domain.ErrInvalidAmount)
	}
	a.balance = a.balance.Add(tx.Amount)
	return nil
}

// ValidateTransfer checks, in order, that the destination differs from the
// source, that the amount is strictly positive and that the source balance
// covers it.
func (a *Account) ValidateTransfer(dest *Account, amount money.Money) error {
	if dest == nil || a.ID == dest.ID {
		return domain.ErrSameAccount
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: transfer amount must be positive", domain.ErrInvalidAmount)
	}
	if a.balance.LessThan(amount) {
		return &InsufficientFundsError{Balance: a.balance, Requested: amount}
	}
	return nil
}

// Builder provides a fluent API for constructing new accounts. Built
// accounts always start at a zero balance.
type Builder struct {
	ownerID  uuid.UUID
	name     string
	currency string
}

// New creates a Builder with the default currency.
func New() *Builder {
	return &Builder{currency: DefaultCurrency}
}

// WithOwner sets the owner. This is a mandatory field.
func (b *Builder) WithOwner(owner uuid.UUID) *Builder {
	b.ownerID = owner
	return b
}

func (b *Builder) WithName(name string) *Builder {
	b.name = name
	return b
}

// WithCurrency sets a free-form currency code. Blank keeps the default.
func (b *Builder) WithCurrency(code string) *Builder {
	if code = strings.TrimSpace(code); code != "" {
		b.currency = code
	}
	return b
}

// Build validates the accumulated fields.
func (b *Builder) Build() (*Account, error) {
	if b.ownerID == uuid.Nil {
		return nil, fmt.Errorf("%w: owner is required", domain.ErrValidation)
	}
	if err := domain.ValidateName(b.name); err != nil {
		return nil, err
	}
	return &Account{
		OwnerID:  b.ownerID,
		Name:     b.name,
		Currency: b.currency,
		balance:  money.Zero,
	}, nil
}

// NewFromData rebuilds an account from storage. It bypasses validation and
// must only be used when hydrating persisted rows.
func NewFromData(
	id uint,
	owner uuid.UUID,
	name, currency string,
	balance money.Money,
	createdAt time.Time,
) *Account {
	return &Account{
		ID:        id,
		OwnerID:   owner,
		Name:      name,
		Currency:  currency,
		CreatedAt: createdAt,
		balance:   balance,
	}
}
