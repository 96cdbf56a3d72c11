package repository

import (
	"context"

	"github.com/midas-bot/midas/pkg/domain"
	"gorm.io/gorm"
)

type userRepository struct {
	db *gorm.DB
}

func (r *userRepository) Get(ctx context.Context, id int64) (*domain.User, error) {
	var u User
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).First(&u, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return mapUserToDomain(&u), nil
}

func (r *userRepository) GetAll(ctx context.Context) ([]*domain.User, error) {
	var users []User
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Find(&users).Error
	}); err != nil {
		return nil, err
	}
	result := make([]*domain.User, 0, len(users))
	for i := range users {
		result = append(result, mapUserToDomain(&users[i]))
	}
	return result, nil
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	row := mapUserToModel(u)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(row).Error
	})
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Model(&User{}).
			Where("id = ?", u.ID).
			Updates(map[string]any{
				"currency_id":        int(u.Currency),
				"send_notifications": u.SendNotifications,
			}).Error
	})
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	return WrapError(func() error {
		res := r.db.WithContext(ctx).Delete(&User{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func mapUserToDomain(u *User) *domain.User {
	return &domain.User{
		ID:                u.ID,
		Currency:          domain.Currency(u.CurrencyID),
		SendNotifications: u.SendNotifications,
		CreatedAt:         u.CreatedAt,
	}
}

func mapUserToModel(u *domain.User) *User {
	return &User{
		ID:                u.ID,
		CurrencyID:        int(u.Currency),
		SendNotifications: u.SendNotifications,
		CreatedAt:         u.CreatedAt,
	}
}
