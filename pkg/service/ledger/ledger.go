// Package ledger implements the ledger store: ordinary postings, account and
// category management and transaction queries.
//
// Every write runs in one unit of work. A posting locks its account row,
// inserts the transaction and stores the new balance before committing, so
// the balance always equals the sum of the account's transactions.
package ledger

import (
	"context"
	"log/slog"
	"time"

	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/domain/events"
	"github.com/amirasaad/fintrack/pkg/eventbus"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/amirasaad/fintrack/pkg/service/resolver"
	"github.com/google/uuid"
)

// Service provides the ledger operations.
type Service struct {
	uow             repository.UnitOfWork
	resolver        *resolver.Resolver
	bus             eventbus.Bus
	logger          *slog.Logger
	clock           domain.Clock
	defaultCurrency string
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	currency := account.DefaultCurrency
	if deps.Config != nil && deps.Config.Ledger != nil && deps.Config.Ledger.DefaultCurrency != "" {
		currency = deps.Config.Ledger.DefaultCurrency
	}
	bus := deps.EventBus
	if bus == nil {
		bus = eventbus.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		uow:             deps.Uow,
		resolver:        resolver.New(currency, logger),
		bus:             bus,
		logger:          logger,
		clock:           deps.Clock,
		defaultCurrency: currency,
	}
}

// RecordInput describes an ordinary posting. Account is required; a zero
// Category leaves the transaction uncategorised. A nil Date means today.
type RecordInput struct {
	Account     domain.Ref
	Category    domain.Ref
	Amount      string
	Date        *time.Time
	Description *string
}

// RecordTransaction validates the amount, resolves the account and
// category, then inserts the transaction and applies it to the account
// balance in one unit of work. The kind is derived from the amount's sign.
// The returned transaction carries the joined account and category names.
func (s *Service) RecordTransaction(
	ctx context.Context,
	owner uuid.UUID,
	in RecordInput,
) (tx *account.Transaction, err error) {
	logger := s.logger.With("owner", owner, "account", in.Account.String())
	logger.Info("RecordTransaction started")

	amount, err := money.Parse(in.Amount)
	if err != nil {
		logger.Error("RecordTransaction failed: invalid amount", "error", err)
		return nil, err
	}
	if _, err = account.KindFor(amount); err != nil {
		logger.Error("RecordTransaction failed: invalid amount", "error", err)
		return nil, err
	}
	date := s.clock.Today()
	if in.Date != nil {
		date = domain.DateOf(*in.Date)
	}

	var balance money.Money
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		acc, err := s.resolver.Account(ctx, uow, owner, in.Account)
		if err != nil {
			return err
		}
		cat, err := s.resolver.Category(ctx, uow, owner, in.Category)
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		locked, err := accounts.GetForUpdate(ctx, owner, acc.ID)
		if err != nil {
			return err
		}
		var categoryID *uint
		if cat != nil {
			categoryID = &cat.ID
		}
		posting, err := account.NewPosting(locked, categoryID, amount, date, in.Description)
		if err != nil {
			return err
		}
		if err := txs.Create(ctx, posting); err != nil {
			return err
		}
		if err := locked.Apply(posting); err != nil {
			return err
		}
		if err := accounts.SaveBalance(ctx, locked); err != nil {
			return err
		}
		view, err := txs.Get(ctx, owner, posting.ID)
		if err != nil {
			return err
		}
		tx, balance = view, locked.Balance()
		return nil
	})
	if err != nil {
		logger.Error("RecordTransaction failed", "error", err)
		return nil, err
	}

	logger.Info("RecordTransaction completed", "transaction_id", tx.ID, "kind", tx.Kind, "balance", balance)
	eventbus.PublishAll(ctx, s.bus, logger, events.TransactionRecorded{
		TransactionID: tx.ID,
		OwnerID:       owner,
		AccountID:     tx.AccountID,
		CategoryID:    tx.CategoryID,
		Amount:        tx.Amount,
		Kind:          string(tx.Kind),
		Date:          tx.Date,
		Balance:       balance,
	})
	return tx, nil
}

// ListTransactions returns the owner's transactions matching filter, newest
// date first and newest creation first within a date.
func (s *Service) ListTransactions(
	ctx context.Context,
	owner uuid.UUID,
	filter repository.TransactionFilter,
) ([]*account.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	txs, err := repo.List(ctx, owner, filter)
	if err != nil {
		s.logger.Error("ListTransactions failed", "owner", owner, "error", err)
		return nil, err
	}
	return txs, nil
}

// GetTransaction returns one owned transaction.
func (s *Service) GetTransaction(ctx context.Context, owner uuid.UUID, id uint) (*account.Transaction, error) {
	repo, err := s.uow.TransactionRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, owner, id)
}
