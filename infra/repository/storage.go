package repository

import (
	"context"

	"github.com/midas-bot/midas/pkg/domain"
	"gorm.io/gorm"
)

type storageRepository struct {
	db *gorm.DB
}

func (r *storageRepository) GetByUser(ctx context.Context, userID int64) (*domain.Storage, error) {
	var s Storage
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&s, "user_id = ?", userID).Error
	}); err != nil {
		return nil, err
	}
	return mapStorageToDomain(&s), nil
}

func (r *storageRepository) Create(ctx context.Context, s *domain.Storage) error {
	row := &Storage{
		UserID:    s.UserID,
		AccountID: s.AccountID,
		Amount:    s.Amount,
	}
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(row).Error
	}); err != nil {
		return err
	}
	s.ID = row.ID
	return nil
}

func (r *storageRepository) Update(ctx context.Context, s *domain.Storage) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Model(&Storage{}).
			Where("id = ?", s.ID).
			Update("amount", s.Amount).Error
	})
}

func (r *storageRepository) PurgeByUser(ctx context.Context, userID int64) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Delete(&Storage{}, "user_id = ?", userID).Error
	})
}

func mapStorageToDomain(s *Storage) *domain.Storage {
	return &domain.Storage{
		ID:        s.ID,
		UserID:    s.UserID,
		AccountID: s.AccountID,
		Amount:    s.Amount,
	}
}
