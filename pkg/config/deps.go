package config

import (
	"log/slog"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/eventbus"
	"github.com/amirasaad/fintrack/pkg/repository"
)

// Deps holds the infrastructure the ledger services are built from.
type Deps struct {
	Uow      repository.UnitOfWork
	EventBus eventbus.Bus
	Logger   *slog.Logger
	Clock    domain.Clock
	Config   *App
}
