package domain

import "github.com/shopspring/decimal"

// Storage is the per-user net cash-position accumulator, 1:1 with the user's
// INCOME account. It increases on income and decreases on expense,
// independent of the gross Account accumulators.
type Storage struct {
	ID        int64
	UserID    int64
	AccountID int64
	Amount    decimal.Decimal
}
