package dto

import (
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/shopspring/decimal"
)

// EventCreate carries the input for defining a new recurring event.
type EventCreate struct {
	UserID      int64                  `validate:"required"`
	Type        domain.TransactionType `validate:"required"`
	Title       string                 `validate:"required,max=64"`
	Description string                 `validate:"max=256"`
	Amount      decimal.Decimal
	Frequency   domain.Frequency `validate:"required"`
}

// EventUpdate carries a partial edit; nil fields are left untouched.
// Events are templates, not ledger entries, so no postings are rebalanced.
type EventUpdate struct {
	Type        *domain.TransactionType
	Title       *string `validate:"omitempty,min=1,max=64"`
	Amount      *decimal.Decimal
	Description *string `validate:"omitempty,max=256"`
	Frequency   *domain.Frequency
}
