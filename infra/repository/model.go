package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user record in the database. The id is the external
// platform user id, so auto-increment is disabled.
type User struct {
	ID                int64 `gorm:"primaryKey;autoIncrement:false"`
	CurrencyID        int   `gorm:"not null"`
	SendNotifications bool  `gorm:"not null;default:false"`
	CreatedAt         time.Time
}

// TableName specifies the table name for the User model.
func (User) TableName() string {
	return "users"
}

// Currency represents a seeded currency record. Reference data only; the
// core never mutates it.
type Currency struct {
	ID     int    `gorm:"primaryKey;autoIncrement:false"`
	Name   string `gorm:"size:32;not null"`
	Code   string `gorm:"size:4;not null"`
	Symbol string `gorm:"size:4;not null"`
}

// TableName specifies the table name for the Currency model.
func (Currency) TableName() string {
	return "currencies"
}

// TransactionType represents a seeded transaction type record.
type TransactionType struct {
	ID   int    `gorm:"primaryKey;autoIncrement:false"`
	Name string `gorm:"size:32;not null;uniqueIndex"`
}

// TableName specifies the table name for the TransactionType model.
func (TransactionType) TableName() string {
	return "transaction_types"
}

// Account represents an account record in the database. The composite unique
// index enforces at most one account per user per type.
type Account struct {
	ID                int64           `gorm:"primaryKey"`
	UserID            int64           `gorm:"not null;uniqueIndex:idx_accounts_user_type"`
	TransactionTypeID int             `gorm:"not null;uniqueIndex:idx_accounts_user_type"`
	DebitAmount       decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
	CreditAmount      decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`

	Storage *Storage `gorm:"foreignKey:AccountID"`
}

// TableName specifies the table name for the Account model.
func (Account) TableName() string {
	return "accounts"
}

// Storage represents a storage record in the database, 1:1 with the user's
// income account.
type Storage struct {
	ID        int64           `gorm:"primaryKey"`
	UserID    int64           `gorm:"not null;index"`
	AccountID int64           `gorm:"not null;uniqueIndex"`
	Amount    decimal.Decimal `gorm:"type:numeric(12,2);not null;default:0"`
}

// TableName specifies the table name for the Storage model.
func (Storage) TableName() string {
	return "storages"
}

// Transaction represents a persisted ledger entry. CreditAccountID is null
// exactly for income transactions.
type Transaction struct {
	ID                uuid.UUID       `gorm:"type:uuid;primaryKey"`
	UserID            int64           `gorm:"not null;index"`
	TransactionTypeID int             `gorm:"not null"`
	CreatedAt         time.Time       `gorm:"not null"`
	Title             string          `gorm:"size:64;not null"`
	Description       *string         `gorm:"size:256"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	DebitAccountID    int64           `gorm:"not null"`
	CreditAccountID   *int64

	DebitAccount  *Account `gorm:"foreignKey:DebitAccountID"`
	CreditAccount *Account `gorm:"foreignKey:CreditAccountID"`
}

// TableName specifies the table name for the Transaction model.
func (Transaction) TableName() string {
	return "transactions"
}

// Event represents a recurring-event record in the database. Interval stores
// the frequency tag code, never a resolved monthly day count.
type Event struct {
	ID                int64           `gorm:"primaryKey"`
	UserID            int64           `gorm:"not null;index"`
	TransactionTypeID int             `gorm:"not null"`
	Title             string          `gorm:"size:64;not null"`
	Description       *string         `gorm:"size:256"`
	Amount            decimal.Decimal `gorm:"type:numeric(12,2);not null"`
	LastRunOn         time.Time       `gorm:"type:date;not null"`
	Interval          int             `gorm:"not null"`
	NextRunOn         time.Time       `gorm:"type:date;not null;index"`

	User *User `gorm:"foreignKey:UserID"`
}

// TableName specifies the table name for the Event model.
func (Event) TableName() string {
	return "events"
}
