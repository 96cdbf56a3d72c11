// Package user implements the user lifecycle usecases: registration
// bootstraps the per-user chart of accounts and the storage, deletion
// cascades over all owned entities, and profile edits follow the
// effective-update rule.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/dto"
	"github.com/midas-bot/midas/pkg/repository"
)

// Service provides the user lifecycle usecases.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
	clock  func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// New creates a user Service with a UnitOfWork and logger.
func New(uow repository.UnitOfWork, logger *slog.Logger, opts ...Option) *Service {
	s := &Service{uow: uow, logger: logger, clock: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register creates the user, one account per transaction type and a storage
// bound to the INCOME account, all in one commit. A taken id fails with
// domain.ErrUserExists.
func (s *Service) Register(
	ctx context.Context,
	userID int64,
	currency domain.Currency,
) (u *domain.User, err error) {
	s.logger.Debug("registering user", "user_id", userID, "currency", currency)

	if !currency.Valid() {
		return nil, fmt.Errorf("%w: invalid currency %d", domain.ErrValidation, currency)
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

		if _, err := users.Get(ctx, userID); err == nil {
			return fmt.Errorf("user %d: %w", userID, domain.ErrUserExists)
		} else if !errors.Is(err, domain.ErrNotFound) {
			// An infrastructure failure must not pass for a free id.
			return err
		}

		u = &domain.User{
			ID:        userID,
			Currency:  currency,
			CreatedAt: s.clock().UTC(),
		}
		if err := users.Create(ctx, u); err != nil {
			return err
		}

		chart := make([]*domain.Account, 0, len(domain.TransactionTypes()))
		for _, t := range domain.TransactionTypes() {
			chart = append(chart, &domain.Account{UserID: userID, Type: t})
		}
		if err := accounts.CreateBatch(ctx, chart); err != nil {
			return err
		}

		var income *domain.Account
		for _, account := range chart {
			if account.Type.IsIncome() {
				income = account
				break
			}
		}
		return storages.Create(ctx, &domain.Storage{
			UserID:    userID,
			AccountID: income.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("registered user", "user_id", userID)
	return u, nil
}

// Edit applies a partial profile update. At least one field must differ from
// the stored value, otherwise domain.ErrNoEffectiveChange is returned.
func (s *Service) Edit(ctx context.Context, userID int64, update dto.UserUpdate) error {
	s.logger.Debug("editing user", "user_id", userID)

	if update.Currency != nil && !update.Currency.Valid() {
		return fmt.Errorf("%w: invalid currency %d", domain.ErrValidation, *update.Currency)
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}

		u, err := users.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("user %d: %w", userID, err)
		}

		changed := false
		if update.Currency != nil && *update.Currency != u.Currency {
			u.Currency = *update.Currency
			changed = true
		}
		if update.SendNotifications != nil && *update.SendNotifications != u.SendNotifications {
			u.SendNotifications = *update.SendNotifications
			changed = true
		}
		if !changed {
			return fmt.Errorf("user %d: %w", userID, domain.ErrNoEffectiveChange)
		}

		return users.Update(ctx, u)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("edited user", "user_id", userID)
	return nil
}

// Delete purges everything the user owns and then the user row itself,
// children before parents: transactions, storages, accounts, events, user.
// Irreversible.
func (s *Service) Delete(ctx context.Context, userID int64) error {
	s.logger.Debug("deleting user", "user_id", userID)

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
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
		events, err := uow.EventRepository()
		if err != nil {
			return err
		}

		if _, err := users.Get(ctx, userID); err != nil {
			return fmt.Errorf("user %d: %w", userID, err)
		}

		if err := transactions.PurgeByUser(ctx, userID); err != nil {
			return err
		}
		if err := storages.PurgeByUser(ctx, userID); err != nil {
			return err
		}
		if err := accounts.PurgeByUser(ctx, userID); err != nil {
			return err
		}
		if err := events.PurgeByUser(ctx, userID); err != nil {
			return err
		}
		return users.Delete(ctx, userID)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("deleted user", "user_id", userID)
	return nil
}

// Get returns the user or domain.ErrNotFound.
func (s *Service) Get(ctx context.Context, userID int64) (u *domain.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		u, err = users.Get(ctx, userID)
		if err != nil {
			return fmt.Errorf("user %d: %w", userID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return u, nil
}

// StorageOf returns the user's net cash position. Unlike the report's
// period-scoped account balances, the storage survives report clearing.
func (s *Service) StorageOf(ctx context.Context, userID int64) (st *domain.Storage, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		storages, err := uow.StorageRepository()
		if err != nil {
			return err
		}
		st, err = storages.GetByUser(ctx, userID)
		if err != nil {
			return fmt.Errorf("user %d: %w", userID, err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// ListAll returns every registered user.
func (s *Service) ListAll(ctx context.Context) (users []*domain.User, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := uow.UserRepository()
		if err != nil {
			return err
		}
		users, err = repo.GetAll(ctx)
		return err
	})
	return users, err
}
