package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMapGormErrorToDomain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    error
		expected error
	}{
		{name: "record not found", input: gorm.ErrRecordNotFound, expected: domain.ErrNotFound},
		{name: "duplicate key", input: gorm.ErrDuplicatedKey, expected: domain.ErrAlreadyExists},
		{name: "foreign key", input: gorm.ErrForeignKeyViolated, expected: domain.ErrConflict},
		{name: "wrapped record not found", input: errors.Join(errors.New("outer"), gorm.ErrRecordNotFound), expected: domain.ErrNotFound},
		{name: "unknown error", input: errors.New("disk on fire"), expected: domain.ErrStorage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			result := MapGormErrorToDomain(tt.input)
			require.Error(t, result)
			assert.ErrorIs(t, result, tt.expected)
		})
	}
}

func TestMapGormErrorToDomain_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, MapGormErrorToDomain(nil))
}

func TestMapGormErrorToDomain_KeepsDomainErrors(t *testing.T) {
	t.Parallel()

	for _, err := range []error{
		domain.ErrAccountNotFound,
		domain.ErrSameAccount,
		domain.ErrInvalidAmount,
		domain.ErrInsufficientFunds,
		fmt.Errorf("%w: wrapped", domain.ErrHasChildren),
	} {
		assert.Same(t, err, MapGormErrorToDomain(err))
	}
}

func TestMapGormErrorToDomain_StorageKeepsCause(t *testing.T) {
	t.Parallel()

	cause := &pgconn.PgError{Code: "40001"}
	result := MapGormErrorToDomain(cause)
	assert.ErrorIs(t, result, domain.ErrStorage)

	var pgErr *pgconn.PgError
	require.ErrorAs(t, result, &pgErr)
	assert.Equal(t, "40001", pgErr.Code)
}

func TestNotFound(t *testing.T) {
	t.Parallel()
	assert.Equal(t, domain.ErrCategoryNotFound, notFound(gorm.ErrRecordNotFound, domain.ErrCategoryNotFound))
	assert.ErrorIs(t, notFound(errors.New("boom"), domain.ErrCategoryNotFound), domain.ErrStorage)
}

func TestIsTransient(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", errors.New("boom"), false},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, true},
		{"unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"sqlite busy", sqlite3.Error{Code: sqlite3.ErrBusy}, true},
		{"sqlite locked", sqlite3.Error{Code: sqlite3.ErrLocked}, true},
		{"sqlite constraint", sqlite3.Error{Code: sqlite3.ErrConstraint}, false},
		{"mapped busy", MapGormErrorToDomain(sqlite3.Error{Code: sqlite3.ErrBusy}), true},
		{"domain error", domain.ErrInsufficientFunds, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, IsTransient(tt.err))
		})
	}
}
