package money

import "github.com/amirasaad/fintrack/pkg/domain"

// ErrInvalidAmount is returned by Parse. It aliases the domain error so
// callers outside this package can match either.
var ErrInvalidAmount = domain.ErrInvalidAmount
