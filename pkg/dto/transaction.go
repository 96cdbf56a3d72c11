package dto

import (
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/shopspring/decimal"
)

// TransactionCreate carries the input for posting a new transaction.
type TransactionCreate struct {
	UserID      int64                  `validate:"required"`
	Type        domain.TransactionType `validate:"required"`
	Title       string                 `validate:"required,max=64"`
	Description string                 `validate:"max=256"`
	Amount      decimal.Decimal
}

// TransactionUpdate carries a partial edit; nil fields are left untouched.
// At least one field must differ from the stored value.
type TransactionUpdate struct {
	Type        *domain.TransactionType
	Title       *string `validate:"omitempty,min=1,max=64"`
	Amount      *decimal.Decimal
	Description *string `validate:"omitempty,max=256"`
}
