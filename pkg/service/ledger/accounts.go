package ledger

import (
	"context"

	"github.com/amirasaad/fintrack/pkg/domain"
	"github.com/amirasaad/fintrack/pkg/domain/account"
	"github.com/amirasaad/fintrack/pkg/money"
	"github.com/amirasaad/fintrack/pkg/repository"
	"github.com/google/uuid"
)

// CreateAccount creates an empty account. A blank currency selects the
// configured default.
func (s *Service) CreateAccount(
	ctx context.Context,
	owner uuid.UUID,
	name, currency string,
) (acc *account.Account, err error) {
	logger := s.logger.With("owner", owner, "name", name)
	if currency == "" {
		currency = s.defaultCurrency
	}
	acc, err = account.New().WithOwner(owner).WithName(name).WithCurrency(currency).Build()
	if err != nil {
		logger.Error("CreateAccount failed: domain error", "error", err)
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		return repo.Create(ctx, acc)
	})
	if err != nil {
		logger.Error("CreateAccount failed", "error", err)
		return nil, err
	}
	logger.Info("Account created", "account_id", acc.ID, "currency", acc.Currency)
	return acc, nil
}

// GetAccount returns one owned account.
func (s *Service) GetAccount(ctx context.Context, owner uuid.UUID, id uint) (*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.Get(ctx, owner, id)
}

// ListAccounts returns the owner's accounts, newest first.
func (s *Service) ListAccounts(ctx context.Context, owner uuid.UUID) ([]*account.Account, error) {
	repo, err := s.uow.AccountRepository()
	if err != nil {
		return nil, err
	}
	return repo.ListByOwner(ctx, owner)
}

// RenameAccount changes the display name of an owned account.
func (s *Service) RenameAccount(
	ctx context.Context,
	owner uuid.UUID,
	id uint,
	name string,
) (acc *account.Account, err error) {
	if err = domain.ValidateName(name); err != nil {
		return nil, err
	}
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		locked, err := repo.GetForUpdate(ctx, owner, id)
		if err != nil {
			return err
		}
		if err := locked.Rename(name); err != nil {
			return err
		}
		if err := repo.UpdateName(ctx, locked); err != nil {
			return err
		}
		acc = locked
		return nil
	})
	if err != nil {
		s.logger.Error("RenameAccount failed", "owner", owner, "account_id", id, "error", err)
		return nil, err
	}
	return acc, nil
}

// DeleteAccount removes an owned account. Accounts that still have
// transactions are kept and ErrAccountInUse is returned, so no transaction
// is left pointing at a missing account.
func (s *Service) DeleteAccount(ctx context.Context, owner uuid.UUID, id uint) error {
	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		if _, err := accounts.GetForUpdate(ctx, owner, id); err != nil {
			return err
		}
		n, err := txs.CountByAccount(ctx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return domain.ErrAccountInUse
		}
		return accounts.Delete(ctx, owner, id)
	})
	if err != nil {
		s.logger.Error("DeleteAccount failed", "owner", owner, "account_id", id, "error", err)
		return err
	}
	s.logger.Info("Account deleted", "owner", owner, "account_id", id)
	return nil
}

// Audit compares an account's stored balance with the sum of its
// transactions.
type Audit struct {
	AccountID  uint        `json:"account_id"`
	Balance    money.Money `json:"balance"`
	Computed   money.Money `json:"computed"`
	Consistent bool        `json:"consistent"`
}

// VerifyAccount recomputes the balance of an owned account from its
// transactions while holding the account lock.
func (s *Service) VerifyAccount(ctx context.Context, owner uuid.UUID, id uint) (audit *Audit, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		txs, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		acc, err := accounts.GetForUpdate(ctx, owner, id)
		if err != nil {
			return err
		}
		sum, err := txs.SumByAccount(ctx, id)
		if err != nil {
			return err
		}
		audit = &Audit{
			AccountID:  id,
			Balance:    acc.Balance(),
			Computed:   sum,
			Consistent: acc.Balance().Equal(sum),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if !audit.Consistent {
		s.logger.Error("Account balance does not match its transactions",
			"owner", owner, "account_id", id, "balance", audit.Balance, "computed", audit.Computed)
	}
	return audit, nil
}
