package domain

import "github.com/shopspring/decimal"

// Report summarizes a user's account balances for one reporting period.
// Result is the INCOME account balance, surfaced as the headline figure.
type Report struct {
	UserID   int64
	Result   decimal.Decimal
	Accounts map[string]decimal.Decimal
}
