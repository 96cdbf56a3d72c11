// Package repository defines the data-access contracts the ledger usecases
// depend on. Implementations translate their backend errors to the sentinel
// errors in pkg/domain.
//
// Relation loading is explicit: methods with an eager flag populate the
// related entity pointers in the same round trip, and callers that will touch
// a relation inside the unit-of-work must request it. There is no lazy
// loading; a relation that was not fetched eagerly stays nil.
package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/midas-bot/midas/pkg/domain"
)

// UserRepository provides access to user rows.
type UserRepository interface {
	// Get returns the user or domain.ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.User, error)
	// GetAll returns every registered user.
	GetAll(ctx context.Context) ([]*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
	// Delete removes the user row or returns domain.ErrNotFound.
	Delete(ctx context.Context, id int64) error
}

// AccountRepository provides access to per-type account rows. Accounts are
// never deleted individually; they are purged with their owner.
type AccountRepository interface {
	// GetByUserAndType returns the user's account for the given type or
	// domain.ErrNotFound. With eager set, the account's Storage is fetched in
	// the same round trip (only the INCOME account has one).
	GetByUserAndType(ctx context.Context, userID int64, t domain.TransactionType, eager bool) (*domain.Account, error)
	// CreateBatch inserts the registration chart of accounts in one statement
	// and fills in the generated ids.
	CreateBatch(ctx context.Context, accounts []*domain.Account) error
	// Update persists the debit/credit accumulators.
	Update(ctx context.Context, a *domain.Account) error
	// PurgeByUser bulk-deletes the user's accounts; zero rows is not an error.
	PurgeByUser(ctx context.Context, userID int64) error
}

// StorageRepository provides access to storage rows.
type StorageRepository interface {
	// GetByUser returns the user's storage or domain.ErrNotFound.
	GetByUser(ctx context.Context, userID int64) (*domain.Storage, error)
	Create(ctx context.Context, s *domain.Storage) error
	// Update persists the net cash-position accumulator.
	Update(ctx context.Context, s *domain.Storage) error
	PurgeByUser(ctx context.Context, userID int64) error
}

// TransactionRepository provides access to transaction rows.
type TransactionRepository interface {
	// Get returns the transaction or domain.ErrNotFound. With eager set, both
	// accounts are fetched in the same round trip, with the Storage attached
	// to the income side.
	Get(ctx context.Context, id uuid.UUID, eager bool) (*domain.Transaction, error)
	Create(ctx context.Context, t *domain.Transaction) error
	Update(ctx context.Context, t *domain.Transaction) error
	// Delete removes the row or returns domain.ErrNotFound.
	Delete(ctx context.Context, id uuid.UUID) error
	// ListRecent returns up to limit transactions, newest first. An unknown
	// owner yields an empty slice, never an error.
	ListRecent(ctx context.Context, userID int64, limit int) ([]*domain.Transaction, error)
	PurgeByUser(ctx context.Context, userID int64) error
}

// EventRepository provides access to recurring-event rows.
type EventRepository interface {
	// Get returns the event or domain.ErrNotFound.
	Get(ctx context.Context, id int64) (*domain.Event, error)
	Create(ctx context.Context, e *domain.Event) error
	Update(ctx context.Context, e *domain.Event) error
	Delete(ctx context.Context, id int64) error
	// ListByUser returns up to limit of the user's events; empty slice for an
	// unknown owner.
	ListByUser(ctx context.Context, userID int64, limit int) ([]*domain.Event, error)
	// ListDue returns every event with NextRunOn on or before the given date.
	// With eager set, the owning User is fetched in the same round trip.
	ListDue(ctx context.Context, due time.Time, eager bool) ([]*domain.Event, error)
	PurgeByUser(ctx context.Context, userID int64) error
}
