package repository

import (
	"context"

	"github.com/midas-bot/midas/pkg/repository"
	"gorm.io/gorm"
)

// UoW provides the transaction boundary and repository access in one
// abstraction. Repository accessors are part of the UoW so every repository
// used inside a Do closure shares the same gorm transaction session; using
// an accessor outside Do is a hard error rather than an implicit
// non-transactional session, which is what makes stale post-commit access
// impossible.
type UoW struct {
	db *gorm.DB
	tx *gorm.DB
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{db: db}
}

// Do runs the given function in a transaction boundary, providing a UoW
// bound to the open transaction. The transaction is rolled back if fn
// returns an error and committed otherwise.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx})
	})
}

func (u *UoW) session() (*gorm.DB, error) {
	if u.tx == nil {
		return nil, repository.ErrNoActiveUnitOfWork
	}
	return u.tx, nil
}

// UserRepository returns a user repository bound to the open transaction.
func (u *UoW) UserRepository() (repository.UserRepository, error) {
	tx, err := u.session()
	if err != nil {
		return nil, err
	}
	return &userRepository{db: tx}, nil
}

// AccountRepository returns an account repository bound to the open transaction.
func (u *UoW) AccountRepository() (repository.AccountRepository, error) {
	tx, err := u.session()
	if err != nil {
		return nil, err
	}
	return &accountRepository{db: tx}, nil
}

// StorageRepository returns a storage repository bound to the open transaction.
func (u *UoW) StorageRepository() (repository.StorageRepository, error) {
	tx, err := u.session()
	if err != nil {
		return nil, err
	}
	return &storageRepository{db: tx}, nil
}

// TransactionRepository returns a transaction repository bound to the open transaction.
func (u *UoW) TransactionRepository() (repository.TransactionRepository, error) {
	tx, err := u.session()
	if err != nil {
		return nil, err
	}
	return &transactionRepository{db: tx}, nil
}

// EventRepository returns an event repository bound to the open transaction.
func (u *UoW) EventRepository() (repository.EventRepository, error) {
	tx, err := u.session()
	if err != nil {
		return nil, err
	}
	return &eventRepository{db: tx}, nil
}
