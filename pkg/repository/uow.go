package repository

import (
	"context"
	"errors"
)

// ErrNoActiveUnitOfWork is returned when a repository accessor is used
// outside a Do closure. Repository access after the unit-of-work ends is a
// hard error, never a stale read.
var ErrNoActiveUnitOfWork = errors.New("no active unit of work")

// UnitOfWork is the single atomic transactional scope of a usecase
// invocation. Each usecase call opens exactly one unit-of-work and commits
// once at the end; if the closure returns an error nothing is persisted.
//
// The repository accessors are part of UnitOfWork so that every repository
// inside a Do closure shares the same transaction session, which is what
// makes the multi-row ledger postings atomic.
type UnitOfWork interface {
	// Do executes fn within a transaction boundary. The UnitOfWork passed to
	// fn is bound to the open transaction; the transaction is rolled back if
	// fn returns an error and committed otherwise.
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error

	// Repository accessors bound to the current transaction. Outside a Do
	// closure they return ErrNoActiveUnitOfWork.
	UserRepository() (UserRepository, error)
	AccountRepository() (AccountRepository, error)
	StorageRepository() (StorageRepository, error)
	TransactionRepository() (TransactionRepository, error)
	EventRepository() (EventRepository, error)
}
