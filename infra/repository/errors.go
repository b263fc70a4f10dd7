package repository

import (
	"errors"
	"fmt"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"gorm.io/gorm"
)

// MapGormErrorToDomain converts GORM and driver errors to domain errors.
// Errors that already carry a domain category pass through untouched, and
// anything unclassified becomes ErrStorage with the original kept in the chain.
func MapGormErrorToDomain(err error) error {
	if err == nil {
		return nil
	}
	for _, category := range []error{
		domain.ErrValidation,
		domain.ErrNotFound,
		domain.ErrConflict,
		domain.ErrInsufficientFunds,
		domain.ErrStorage,
		domain.ErrUnauthorized,
	} {
		if errors.Is(err, category) {
			return err
		}
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return domain.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return domain.ErrAlreadyExists
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", domain.ErrConflict, err)
	}
	return fmt.Errorf("%w: %w", domain.ErrStorage, err)
}

// notFound maps gorm.ErrRecordNotFound to the given specific error and
// everything else through MapGormErrorToDomain.
func notFound(err, specific error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return specific
	}
	return MapGormErrorToDomain(err)
}

// IsTransient reports whether err is lock contention that a fresh attempt
// of the whole unit of work may resolve: postgres serialization failures,
// deadlocks and lock timeouts, and sqlite busy or locked databases.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001", "40P01", "55P03":
			return true
		}
		return false
	}
	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		return liteErr.Code == sqlite3.ErrBusy || liteErr.Code == sqlite3.ErrLocked
	}
	return false
}
