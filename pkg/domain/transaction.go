package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is a posted ledger entry.
//
//	| Account name | Debit | Credit |
//	+--------------+-------+--------+
//	| Income       | X     |        |
//	| Income debit |       | X      |
//
// The "income debit" contra-account is never materialized, so INCOME
// transactions carry a nil credit account and touch the income account only.
// For every other type the debit account is the type's own expense account
// and the credit account is the user's INCOME account.
type Transaction struct {
	ID          uuid.UUID
	UserID      int64
	Type        TransactionType
	Title       string
	Description string
	Amount      decimal.Decimal
	CreatedAt   time.Time

	DebitAccountID  int64
	CreditAccountID *int64 // nil exactly when Type is INCOME

	// DebitAccount and CreditAccount are populated only on eager fetches.
	// The income side of the pair carries its Storage.
	DebitAccount  *Account
	CreditAccount *Account
}

// IncomeAccount returns the eagerly loaded account on the income side of the
// posting: the debit account for INCOME transactions, the credit account
// otherwise.
func (t *Transaction) IncomeAccount() *Account {
	if t.Type.IsIncome() {
		return t.DebitAccount
	}
	return t.CreditAccount
}
