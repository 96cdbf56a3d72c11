package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event is a template for a recurring transaction. The scheduler posts a
// transaction from its fields each time it comes due, then advances
// LastRunOn and NextRunOn. Deleting an event never touches transactions it
// previously spawned.
type Event struct {
	ID          int64
	UserID      int64
	Type        TransactionType
	Title       string
	Description string
	Amount      decimal.Decimal
	Frequency   Frequency
	LastRunOn   time.Time
	NextRunOn   time.Time

	// User is populated only on eager fetches; the scheduler needs the
	// notification preference downstream.
	User *User
}
