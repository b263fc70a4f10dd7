// Package transfer moves money between two accounts of the same owner.
package transfer

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"github.com/amirasaad/fintrack/pkg/config"
	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/domain/events"
	"github.com/amirasaad/fintrack/pkg/eventbus"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
)

// Service provides account to account transfers.
type Service struct {
	uow    repository.UnitOfWork
	bus    eventbus.Bus
	logger *slog.Logger
	clock  domain.Clock
}

// NewService creates a new transfer Service.
func NewService(deps config.Deps) *Service {
	bus := deps.EventBus
	if bus == nil {
		bus = eventbus.Nop{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{uow: deps.Uow, bus: bus, logger: logger, clock: deps.Clock}
}

// Input describes a transfer. A nil Date means today and a nil Description
// gets the generated "Transfer from account X to account Y" text.
type Input struct {
	FromAccountID uint
	ToAccountID   uint
	Amount        string
	Date          *time.Time
	Description   *string
}

// Transfer debits the source and credits the destination by the same amount
// in one unit of work. Both accounts are locked in ascending id order before
// the balance is checked, so concurrent transfers cannot overdraw the source
// or deadlock each other. Either both legs are written or neither is.
func (s *Service) Transfer(
	ctx context.Context,
	owner uuid.UUID,
	in Input,
) (debit, credit *account.Transaction, err error) {
	logger := s.logger.With("owner", owner, "from", in.FromAccountID, "to", in.ToAccountID, "amount", in.Amount)
	logger.Info("Transfer started")

	date := s.clock.Today()
	if in.Date != nil {
		date = domain.DateOf(*in.Date)
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		ids := []uint{in.FromAccountID, in.ToAccountID}
		slices.Sort(ids)
		ids = slices.Compact(ids)
		locked := make(map[uint]*account.Account, len(ids))
		for _, id := range ids {
			acc, err := accounts.GetForUpdate(ctx, owner, id)
			if err != nil {
				return err
			}
			locked[id] = acc
		}
		if in.FromAccountID == in.ToAccountID {
			return domain.ErrSameAccount
		}
		from, to := locked[in.FromAccountID], locked[in.ToAccountID]

		amount, err := money.Parse(in.Amount)
		if err != nil {
			return err
		}
		d, c, err := account.NewTransferLegs(from, to, amount, date, in.Description)
		if err != nil {
			return err
		}
		if err := txs.Create(ctx, d); err != nil {
			return err
		}
		if err := txs.Create(ctx, c); err != nil {
			return err
		}
		if err := from.Apply(d); err != nil {
			return err
		}
		if err := to.Apply(c); err != nil {
			return err
		}
		if err := accounts.SaveBalance(ctx, from); err != nil {
			return err
		}
		if err := accounts.SaveBalance(ctx, to); err != nil {
			return err
		}

		dv, err := txs.Get(ctx, owner, d.ID)
		if err != nil {
			return err
		}
		cv, err := txs.Get(ctx, owner, c.ID)
		if err != nil {
			return err
		}
		debit, credit = dv, cv
		return nil
	})
	if err != nil {
		logger.Error("Transfer failed", "error", err)
		return nil, nil, err
	}

	logger.Info("Transfer completed", "debit_id", debit.ID, "credit_id", credit.ID)
	eventbus.PublishAll(ctx, s.bus, logger, events.TransferCompleted{
		OwnerID:       owner,
		FromAccountID: in.FromAccountID,
		ToAccountID:   in.ToAccountID,
		DebitID:       debit.ID,
		CreditID:      credit.ID,
		Amount:        credit.Amount,
		Date:          credit.Date,
	})
	return debit, credit, nil
}
