// Package event implements the recurring-event usecases. Events are
// templates for transactions, not ledger entries: editing or deleting one
// never rebalances postings or touches transactions it previously spawned.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator"
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/dto"
	"github.com/midas-bot/midas/pkg/money"
	"github.com/midas-bot/midas/pkg/repository"
)

// Service provides the event usecases.
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

// New creates an event Service with a UnitOfWork and logger.
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

func (s *Service) today() time.Time {
	now := s.clock().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Create defines a new recurring event for the user. LastRunOn is set to
// today even though the event has not run yet; NextRunOn is today plus the
// resolved interval, where MONTHLY resolves to the day count of the current
// month.
func (s *Service) Create(ctx context.Context, create dto.EventCreate) (ev *domain.Event, err error) {
	s.logger.Debug("creating event", "user_id", create.UserID, "type", create.Type)

	if err = s.validate.Struct(create); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if !create.Type.Valid() {
		return nil, fmt.Errorf("%w: invalid transaction type %d", domain.ErrValidation, create.Type)
	}
	if !create.Frequency.Valid() {
		return nil, fmt.Errorf("%w: invalid frequency %d", domain.ErrValidation, create.Frequency)
	}
	if err = money.ValidatePositive(create.Amount); err != nil {
		return nil, err
	}

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		users, err := uow.UserRepository()
		if err != nil {
			return err
		}
		events, err := uow.EventRepository()
		if err != nil {
			return err
		}

		user, err := users.Get(ctx, create.UserID)
		if err != nil {
			return fmt.Errorf("user %d: %w", create.UserID, err)
		}

		today := s.today()
		ev = &domain.Event{
			UserID:      user.ID,
			Type:        create.Type,
			Title:       create.Title,
			Description: create.Description,
			Amount:      create.Amount,
			Frequency:   create.Frequency,
			LastRunOn:   today,
			NextRunOn:   today.AddDate(0, 0, create.Frequency.ResolvedDays(today)),
		}
		return events.Create(ctx, ev)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("created event", "id", ev.ID, "next_run_on", ev.NextRunOn)
	return ev, nil
}

// Edit applies a partial update to an event. At least one field must differ
// from the stored value, otherwise domain.ErrNoEffectiveChange is returned.
func (s *Service) Edit(ctx context.Context, id int64, update dto.EventUpdate) error {
	s.logger.Debug("editing event", "id", id)

	if err := s.validate.Struct(update); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if update.Type != nil && !update.Type.Valid() {
		return fmt.Errorf("%w: invalid transaction type %d", domain.ErrValidation, *update.Type)
	}
	if update.Frequency != nil && !update.Frequency.Valid() {
		return fmt.Errorf("%w: invalid frequency %d", domain.ErrValidation, *update.Frequency)
	}
	if update.Amount != nil {
		if err := money.ValidatePositive(*update.Amount); err != nil {
			return err
		}
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		events, err := uow.EventRepository()
		if err != nil {
			return err
		}

		ev, err := events.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("event %d: %w", id, err)
		}

		changed := false
		if update.Type != nil && *update.Type != ev.Type {
			ev.Type = *update.Type
			changed = true
		}
		if update.Title != nil && *update.Title != ev.Title {
			ev.Title = *update.Title
			changed = true
		}
		if update.Amount != nil && !update.Amount.Equal(ev.Amount) {
			ev.Amount = *update.Amount
			changed = true
		}
		if update.Description != nil && *update.Description != ev.Description {
			ev.Description = *update.Description
			changed = true
		}
		if update.Frequency != nil && *update.Frequency != ev.Frequency {
			ev.Frequency = *update.Frequency
			changed = true
		}
		if !changed {
			return fmt.Errorf("event %d: %w", id, domain.ErrNoEffectiveChange)
		}

		return events.Update(ctx, ev)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("edited event", "id", id)
	return nil
}

// Delete removes the event definition. Transactions it previously spawned
// are left untouched.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Debug("deleting event", "id", id)

	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		events, err := uow.EventRepository()
		if err != nil {
			return err
		}
		if err := events.Delete(ctx, id); err != nil {
			return fmt.Errorf("event %d: %w", id, err)
		}
		return nil
	})
}

// Upcoming returns every event due on or before today, eager-loaded with the
// owning user so the caller can check the notification preference.
func (s *Service) Upcoming(ctx context.Context) (due []*domain.Event, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		events, err := uow.EventRepository()
		if err != nil {
			return err
		}
		due, err = events.ListDue(ctx, s.today(), true)
		return err
	})
	return due, err
}

// MarkRun advances the event after a firing: LastRunOn becomes today and
// NextRunOn is recomputed from today's date, so a MONTHLY event picks up the
// day count of the current month. The scheduler must call this exactly once
// per firing, after the corresponding transaction has been posted.
func (s *Service) MarkRun(ctx context.Context, id int64) error {
	s.logger.Debug("marking event run", "id", id)

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		events, err := uow.EventRepository()
		if err != nil {
			return err
		}

		ev, err := events.Get(ctx, id)
		if err != nil {
			return fmt.Errorf("event %d: %w", id, err)
		}

		today := s.today()
		ev.LastRunOn = today
		ev.NextRunOn = today.AddDate(0, 0, ev.Frequency.ResolvedDays(today))
		return events.Update(ctx, ev)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("marked event run", "id", id)
	return nil
}

// ListByUser returns up to limit of the user's events. An unknown user
// yields an empty slice.
func (s *Service) ListByUser(
	ctx context.Context,
	userID int64,
	limit int,
) (evs []*domain.Event, err error) {
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		events, err := uow.EventRepository()
		if err != nil {
			return err
		}
		evs, err = events.ListByUser(ctx, userID, limit)
		return err
	})
	return evs, err
}
