package repository

import (
	"context"
	"time"

	"github.com/midas-bot/midas/pkg/domain"
	"gorm.io/gorm"
)

type eventRepository struct {
	db *gorm.DB
}

func (r *eventRepository) Get(ctx context.Context, id int64) (*domain.Event, error) {
	var e Event
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&e, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return mapEventToDomain(&e), nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	row := mapEventToModel(e)
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(row).Error
	}); err != nil {
		return err
	}
	e.ID = row.ID
	return nil
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Model(&Event{}).
			Where("id = ?", e.ID).
			Updates(map[string]any{
				"transaction_type_id": int(e.Type),
				"title":               e.Title,
				"description":         optionalString(e.Description),
				"amount":              e.Amount,
				"interval":            int(e.Frequency),
				"last_run_on":         e.LastRunOn,
				"next_run_on":         e.NextRunOn,
			}).Error
	})
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	return WrapError(func() error {
		res := r.db.WithContext(ctx).Delete(&Event{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *eventRepository) ListByUser(
	ctx context.Context,
	userID int64,
	limit int,
) ([]*domain.Event, error) {
	var rows []Event
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("next_run_on ASC").
			Limit(limit).
			Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	return mapEventsToDomain(rows), nil
}

func (r *eventRepository) ListDue(
	ctx context.Context,
	due time.Time,
	eager bool,
) ([]*domain.Event, error) {
	q := r.db.WithContext(ctx)
	if eager {
		q = q.Preload("User")
	}
	var rows []Event
	if err := WrapError(func() error {
		return q.Where("next_run_on <= ?", due).Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	return mapEventsToDomain(rows), nil
}

func (r *eventRepository) PurgeByUser(ctx context.Context, userID int64) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Delete(&Event{}, "user_id = ?", userID).Error
	})
}

func mapEventsToDomain(rows []Event) []*domain.Event {
	result := make([]*domain.Event, 0, len(rows))
	for i := range rows {
		result = append(result, mapEventToDomain(&rows[i]))
	}
	return result
}

func mapEventToDomain(e *Event) *domain.Event {
	ev := &domain.Event{
		ID:        e.ID,
		UserID:    e.UserID,
		Type:      domain.TransactionType(e.TransactionTypeID),
		Title:     e.Title,
		Amount:    e.Amount,
		Frequency: domain.Frequency(e.Interval),
		LastRunOn: e.LastRunOn,
		NextRunOn: e.NextRunOn,
	}
	if e.Description != nil {
		ev.Description = *e.Description
	}
	if e.User != nil {
		ev.User = mapUserToDomain(e.User)
	}
	return ev
}

func mapEventToModel(e *domain.Event) *Event {
	return &Event{
		ID:                e.ID,
		UserID:            e.UserID,
		TransactionTypeID: int(e.Type),
		Title:             e.Title,
		Description:       optionalString(e.Description),
		Amount:            e.Amount,
		LastRunOn:         e.LastRunOn,
		Interval:          int(e.Frequency),
		NextRunOn:         e.NextRunOn,
	}
}
