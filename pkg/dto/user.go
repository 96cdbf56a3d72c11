package dto

import "github.com/midas-bot/midas/pkg/domain"

// UserUpdate carries a partial profile edit; nil fields are left untouched.
type UserUpdate struct {
	Currency          *domain.Currency
	SendNotifications *bool
}
