package account

import (
	"fmt"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/money"
)

// InsufficientFundsError is returned when a transfer exceeds the balance
// observed inside its atomic unit. It matches domain.ErrInsufficientFunds.
type InsufficientFundsError struct {
	Balance   money.Money
	Requested money.Money
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds: balance %s, requested %s", e.Balance, e.Requested)
}

func (e *InsufficientFundsError) Is(target error) bool {
	return target == domain.ErrInsufficientFunds
}
