package domain

import "github.com/shopspring/decimal"

// Account accumulates gross debit and credit totals for one
// (user, transaction type) pair. Accounts are periodic counters cleared by
// report generation; Storage, not Account, is the source of truth for net
// worth. Created in bulk at registration and purged only with the user.
type Account struct {
	ID           int64
	UserID       int64
	Type         TransactionType
	DebitAmount  decimal.Decimal
	CreditAmount decimal.Decimal

	// Storage is populated only when the account was fetched eagerly and is
	// the INCOME account. Accessing it otherwise is a programming error.
	Storage *Storage
}

// Balance returns debit minus credit.
func (a *Account) Balance() decimal.Decimal {
	return a.DebitAmount.Sub(a.CreditAmount)
}
