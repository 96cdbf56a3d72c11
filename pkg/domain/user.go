package domain

import "time"

// User is a registered bot user. The id is the external platform user id and
// is never generated locally. A user owns one account per transaction type,
// one storage bound to the INCOME account, and any number of transactions
// and events.
type User struct {
	ID                int64
	Currency          Currency
	SendNotifications bool
	CreatedAt         time.Time
}
