package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every error surfaced by the ledger wraps exactly one of
// these so callers can branch with errors.Is.
var (
	// ErrValidation is returned when input validation fails
	ErrValidation = errors.New("validation error")
	// ErrNotFound is returned when a requested resource is not found or is not
	// owned by the caller
	ErrNotFound = errors.New("resource not found")
	// ErrConflict is returned when an operation conflicts with existing state
	ErrConflict = errors.New("conflict")
	// ErrInsufficientFunds is returned when a transfer exceeds the source balance
	ErrInsufficientFunds = errors.New("insufficient funds")
	// ErrStorage is returned when the backing store fails
	ErrStorage = errors.New("storage error")
	// ErrUnauthorized is returned when the caller identity is missing or invalid
	ErrUnauthorized = errors.New("unauthorized")
)

// Specific errors, each wrapping its category.
var (
	ErrInvalidAmount = fmt.Errorf("%w: invalid amount", ErrValidation)
	ErrInvalidName   = fmt.Errorf("%w: invalid name", ErrValidation)
	ErrInvalidRef    = fmt.Errorf("%w: specify either an id or a name", ErrValidation)
	ErrInvalidDate   = fmt.Errorf("%w: invalid date", ErrValidation)

	ErrAccountNotFound     = fmt.Errorf("%w: account", ErrNotFound)
	ErrCategoryNotFound    = fmt.Errorf("%w: category", ErrNotFound)
	ErrBudgetNotFound      = fmt.Errorf("%w: budget", ErrNotFound)
	ErrTransactionNotFound = fmt.Errorf("%w: transaction", ErrNotFound)

	ErrAlreadyExists = fmt.Errorf("%w: resource already exists", ErrConflict)
	ErrSameAccount   = fmt.Errorf("%w: cannot transfer to the same account", ErrConflict)
	ErrHasChildren   = fmt.Errorf("%w: category has child categories", ErrConflict)
	ErrAccountInUse  = fmt.Errorf("%w: account has transactions", ErrConflict)
	ErrCategoryInUse = fmt.Errorf("%w: category is referenced by transactions or budgets", ErrConflict)
)
