// Package testutils provides shared fixtures for ledger tests: a migrated
// sqlite database per test, quiet loggers and a pinned clock.
package testutils

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/amirasaad/fintrack/infra/database"
	infrarepo "github.com/amirasaad/fintrack/infra/repository"
	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/decorator"
	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/eventbus"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// Today is the date returned by FixedClock.
var Today = time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)

// FixedClock always reports noon on Today.
func FixedClock() time.Time { return Today.Add(12 * time.Hour) }

// Logger returns a logger that discards output.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewDB opens a migrated sqlite database in the test's temp dir.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := database.OpenSQLite(filepath.Join(t.TempDir(), "ledger.db"), nil)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, config.DriverSQLite))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// NewUoW returns a retrying unit of work over a fresh database, configured
// the way the server wires it.
func NewUoW(t testing.TB) repository.UnitOfWork {
	t.Helper()
	return decorator.NewRetryingUnitOfWork(infrarepo.NewUoW(NewDB(t)), decorator.RetryPolicy{
		Attempts:    5,
		Backoff:     5 * time.Millisecond,
		IsTransient: infrarepo.IsTransient,
	}, Logger())
}

// Deps builds service dependencies over a fresh database and the given bus.
func Deps(t testing.TB, bus eventbus.Bus) config.Deps {
	t.Helper()
	if bus == nil {
		bus = eventbus.Nop{}
	}
	return config.Deps{
		Uow:      NewUoW(t),
		EventBus: bus,
		Logger:   Logger(),
		Clock:    domain.Clock(FixedClock),
		Config: &config.App{
			Ledger: &config.Ledger{
				RetryAttempts:   5,
				RetryBackoff:    5 * time.Millisecond,
				DefaultCurrency: "USD",
				BudgetWorkers:   4,
			},
		},
	}
}
