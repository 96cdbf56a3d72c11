// Package transaction implements the ledger's transaction usecases: posting
// a transaction updates the two affected accounts and the storage balance
// atomically, editing re-derives the debit/credit postings when the
// classification or amount changes, and deleting reverses the original
// postings.
package transaction

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/dto"
	"github.com/midas-bot/midas/pkg/money"
	"github.com/midas-bot/midas/pkg/repository"
)

// Service provides the transaction usecases. Every method opens exactly one
// unit-of-work and commits once; no partial posting is ever visible.
type Service struct {
	uow      repository.UnitOfWork
	validate *validator.Validate
	logger   *slog.Logger
	clock    func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New creates a transaction Service with a UnitOfWork and logger.
func New(uow repository.UnitOfWork, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{
		uow:      uow,
		validate: validator.New(),
		logger:   logger,
		clock:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create posts a new transaction for the user and applies its effect to the
// affected accounts and the storage.
//
// INCOME postings debit the income account and raise the storage; every
// other type debits its own expense account, credits the income account and
// lowers the storage. The two account mutations, the storage mutation and
// the insert commit atomically.
func (s *Service) Create(
	ctx context.Context,
	create dto.TransactionCreate,
) (tx *domain.Transaction, err error) {
	s.logger.Debug("creating transaction", "user_id", create.UserID, "type", create.Type)

	if err = s.validate.Struct(create); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !create.Type.Valid() {
		return nil, fmt.Errorf("%w: invalid transaction type %d", domain.ErrValidation, create.Type)
	}
	if err = money.ValidatePositive(create.Amount); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		storages, err := uow.StorageRepository()
		if err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		user, err := users.Get(ctx, create.UserID)
		if err != nil {
			return fmt.Errorf("user %d: %w", create.UserID, err)
		}

		// Registration guarantees the income account and its storage exist.
		income, err := accounts.GetByUserAndType(ctx, user.ID, domain.TypeIncome, true)
		if err != nil {
			return err
		}
		storage := income.Storage

		var debit, credit *domain.Account
		if create.Type.IsIncome() {
			debit = income
			debit.DebitAmount = debit.DebitAmount.Add(create.Amount)
			storage.Amount = storage.Amount.Add(create.Amount)
		} else {
			debit, err = accounts.GetByUserAndType(ctx, user.ID, create.Type, false)
			if err != nil {
				return err
			}
			credit = income
			debit.DebitAmount = debit.DebitAmount.Add(create.Amount)
			credit.CreditAmount = credit.CreditAmount.Add(create.Amount)
			storage.Amount = storage.Amount.Sub(create.Amount)
		}

		tx = &domain.Transaction{
			ID:             uuid.New(),
			UserID:         user.ID,
			Type:           create.Type,
			Title:          create.Title,
			Description:    create.Description,
			Amount:         create.Amount,
			CreatedAt:      s.clock().UTC(),
			DebitAccountID: debit.ID,
		}
		if credit != nil {
			creditID := credit.ID
			tx.CreditAccountID = &creditID
		}

		if err := accounts.Update(ctx, debit); err != nil {
			return err
		}
		if credit != nil {
			if err := accounts.Update(ctx, credit); err != nil {
				return err
			}
		}
		if err := storages.Update(ctx, storage); err != nil {
			return err
		}
		return transactions.Create(ctx, tx)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created transaction", "id", tx.ID, "user_id", tx.UserID)
	return tx, nil
}

// Delete reverses the postings the transaction originally made, then removes
// the row. Deleting the same id twice fails with domain.ErrNotFound and
// leaves all balances untouched.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	s.logger.Debug("deleting transaction", "id", id)

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		storages, err := uow.StorageRepository()
		if err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		tx, err := transactions.Get(ctx, id, true)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", id, err)
		}

		debit := tx.DebitAccount
		credit := tx.CreditAccount
		storage := tx.IncomeAccount().Storage

		if tx.Type.IsIncome() {
			debit.DebitAmount = debit.DebitAmount.Sub(tx.Amount)
			storage.Amount = storage.Amount.Sub(tx.Amount)
		} else {
			debit.DebitAmount = debit.DebitAmount.Sub(tx.Amount)
			credit.CreditAmount = credit.CreditAmount.Sub(tx.Amount)
			storage.Amount = storage.Amount.Add(tx.Amount)
		}

		if err := accounts.Update(ctx, debit); err != nil {
			return err
		}
		if credit != nil {
			if err := accounts.Update(ctx, credit); err != nil {
				return err
			}
		}
		if err := storages.Update(ctx, storage); err != nil {
			return err
		}
		return transactions.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("deleted transaction", "id", id)
	return nil
}

// ListRecent returns up to limit of the user's transactions, newest first.
// An unknown user yields an empty slice.
func (s *Service) ListRecent(
	ctx context.Context,
	userID int64,
	limit int,
) (txs []*domain.Transaction, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}
		txs, err = transactions.ListRecent(ctx, userID, limit)
		return err
	})
	return txs, err
}
