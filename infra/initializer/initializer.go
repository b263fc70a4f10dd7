// Package initializer wires configuration into a running ledger: database,
// migrations, the retrying unit of work, the event bus and the services.
package initializer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/amirasaad/fintrack/infra/database"
	infra_eventbus "github.com/amirasaad/fintrack/infra/eventbus"
	infra_repository "github.com/amirasaad/fintrack/infra/repository"
	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/decorator"
	"github.com/amirasaad/fintrack/pkg/eventbus"
	"github.com/amirasaad/fintrack/pkg/service/budget"
	"github.com/amirasaad/fintrack/pkg/service/ledger"
	"github.com/amirasaad/fintrack/pkg/service/transfer"
)

// Services groups the ledger services built from one set of Deps.
type Services struct {
	Ledger   *ledger.Service
	Transfer *transfer.Service
	Budget   *budget.Service
}

// NewServices builds every service from deps.
func NewServices(deps config.Deps) Services {
	return Services{
		Ledger:   ledger.NewService(deps),
		Transfer: transfer.NewService(deps),
		Budget:   budget.NewService(deps),
	}
}

// Runtime owns the initialized dependencies and releases them on Close.
type Runtime struct {
	Deps     config.Deps
	Services Services
	closers  []io.Closer
}

// Close releases the event bus and database connections.
func (r *Runtime) Close() error {
	var errs []error
	for i := len(r.closers) - 1; i >= 0; i-- {
		if err := r.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// InitializeDependencies initializes all the application dependencies.
func InitializeDependencies(ctx context.Context, cfg *config.App) (_ *Runtime, err error) {
	logger := SetupLogger(cfg.Log, os.Stdout)
	rt := &Runtime{}
	defer func() {
		if err != nil {
			_ = rt.Close()
		}
	}()

	db, err := database.New(cfg.DB, cfg.Env)
	if err != nil {
		logger.Error("Failed to initialize database", "error", err)
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	rt.closers = append(rt.closers, sqlDB)

	if cfg.DB.Migrate {
		if err = database.Migrate(db, cfg.DB.Driver); err != nil {
			logger.Error("Failed to migrate database", "error", err)
			return nil, err
		}
	}

	policy := decorator.RetryPolicy{
		Attempts:    3,
		IsTransient: infra_repository.IsTransient,
	}
	if cfg.Ledger != nil {
		policy.Attempts = cfg.Ledger.RetryAttempts
		policy.Backoff = cfg.Ledger.RetryBackoff
	}
	uow := decorator.NewRetryingUnitOfWork(infra_repository.NewUoW(db), policy, logger)

	bus, err := initEventBus(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	if c, ok := bus.(io.Closer); ok {
		rt.closers = append(rt.closers, c)
	}

	rt.Deps = config.Deps{
		Uow:      uow,
		EventBus: bus,
		Logger:   logger,
		Clock:    time.Now,
		Config:   cfg,
	}
	rt.Services = NewServices(rt.Deps)
	return rt, nil
}

// initEventBus selects the event bus driver. An unreachable broker falls
// back to the in-memory bus so the ledger keeps accepting writes; a missing
// broker URL is a configuration error.
func initEventBus(ctx context.Context, cfg *config.App, logger *slog.Logger) (eventbus.Bus, error) {
	driver := config.EventBusMemory
	if cfg.EventBus != nil && cfg.EventBus.Driver != "" {
		driver = cfg.EventBus.Driver
	}

	switch driver {
	case config.EventBusMemory:
		return infra_eventbus.NewWithMemory(logger), nil
	case config.EventBusNone:
		return eventbus.Nop{}, nil
	case config.EventBusRedis:
		if cfg.EventBus.RedisURL == "" {
			return nil, errors.New("EVENTBUS_REDIS_URL is required for the redis event bus")
		}
		bus, err := infra_eventbus.NewWithRedis(ctx, cfg.EventBus.RedisURL, cfg.EventBus.Stream, logger)
		if err != nil {
			logger.Warn("Redis event bus unavailable, using in-memory bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	case config.EventBusAMQP:
		if cfg.EventBus.AMQPURL == "" {
			return nil, errors.New("EVENTBUS_AMQP_URL is required for the amqp event bus")
		}
		bus, err := infra_eventbus.NewWithAMQP(cfg.EventBus.AMQPURL, cfg.EventBus.Exchange, logger)
		if err != nil {
			logger.Warn("AMQP event bus unavailable, using in-memory bus", "error", err)
			return infra_eventbus.NewWithMemory(logger), nil
		}
		return bus, nil
	default:
		return nil, fmt.Errorf("unsupported event bus driver %q", driver)
	}
}
