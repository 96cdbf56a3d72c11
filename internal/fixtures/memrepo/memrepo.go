// Package memrepo provides an in-memory implementation of the repository
// contracts for service tests. Reads hand out copies and writes store
// copies, so a mutation becomes visible only once the corresponding Update
// or Create ran, mirroring how the gorm-backed repositories behave inside a
// unit-of-work.
package memrepo

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/repository"
)

// Store is an in-memory database implementing repository.UnitOfWork.
type Store struct {
	mu sync.Mutex

	users        map[int64]*domain.User
	accounts     map[int64]*domain.Account
	storages     map[int64]*domain.Storage
	transactions map[uuid.UUID]*domain.Transaction
	events       map[int64]*domain.Event

	nextAccountID int64
	nextStorageID int64
	nextEventID   int64
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		users:        make(map[int64]*domain.User),
		accounts:     make(map[int64]*domain.Account),
		storages:     make(map[int64]*domain.Storage),
		transactions: make(map[uuid.UUID]*domain.Transaction),
		events:       make(map[int64]*domain.Event),
	}
}

// Do runs fn against the store itself. The fake has no rollback; the
// services only write after all reads and rule checks succeeded, which is
// what the tests rely on.
func (s *Store) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	return fn(s)
}

// UserRepository implements repository.UnitOfWork.
func (s *Store) UserRepository() (repository.UserRepository, error) {
	return &userRepo{s}, nil
}

// AccountRepository implements repository.UnitOfWork.
func (s *Store) AccountRepository() (repository.AccountRepository, error) {
	return &accountRepo{s}, nil
}

// StorageRepository implements repository.UnitOfWork.
func (s *Store) StorageRepository() (repository.StorageRepository, error) {
	return &storageRepo{s}, nil
}

// TransactionRepository implements repository.UnitOfWork.
func (s *Store) TransactionRepository() (repository.TransactionRepository, error) {
	return &transactionRepo{s}, nil
}

// EventRepository implements repository.UnitOfWork.
func (s *Store) EventRepository() (repository.EventRepository, error) {
	return &eventRepo{s}, nil
}

// StorageOf returns the stored storage row bound to the user's income
// account, for assertions.
func (s *Store) StorageOf(userID int64) *domain.Storage {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, st := range s.storages {
		if st.UserID == userID {
			return copyStorage(st)
		}
	}
	return nil
}

// AccountOf returns the stored account row for (user, type), for assertions.
func (s *Store) AccountOf(userID int64, t domain.TransactionType) *domain.Account {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.UserID == userID && a.Type == t {
			return copyAccount(a)
		}
	}
	return nil
}

// CountAccounts returns how many account rows (user, type) has, for
// uniqueness assertions.
func (s *Store) CountAccounts(userID int64, t domain.TransactionType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, a := range s.accounts {
		if a.UserID == userID && a.Type == t {
			n++
		}
	}
	return n
}

type userRepo struct{ s *Store }

func (r *userRepo) Get(_ context.Context, id int64) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyUser(u), nil
}

func (r *userRepo) GetAll(_ context.Context) ([]*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	users := make([]*domain.User, 0, len(r.s.users))
	for _, u := range r.s.users {
		users = append(users, copyUser(u))
	}
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users, nil
}

func (r *userRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; ok {
		return domain.ErrUserExists
	}
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r *userRepo) Update(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[u.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.users[u.ID] = copyUser(u)
	return nil
}

func (r *userRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.users, id)
	return nil
}

type accountRepo struct{ s *Store }

func (r *accountRepo) GetByUserAndType(
	_ context.Context,
	userID int64,
	t domain.TransactionType,
	eager bool,
) (*domain.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range r.s.accounts {
		if a.UserID == userID && a.Type == t {
			account := copyAccount(a)
			if eager {
				account.Storage = r.s.storageForAccount(a.ID)
			}
			return account, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *accountRepo) CreateBatch(_ context.Context, accounts []*domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, a := range accounts {
		r.s.nextAccountID++
		a.ID = r.s.nextAccountID
		r.s.accounts[a.ID] = copyAccount(a)
	}
	return nil
}

func (r *accountRepo) Update(_ context.Context, a *domain.Account) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[a.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.accounts[a.ID] = copyAccount(a)
	return nil
}

func (r *accountRepo) PurgeByUser(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, a := range r.s.accounts {
		if a.UserID == userID {
			delete(r.s.accounts, id)
		}
	}
	return nil
}

type storageRepo struct{ s *Store }

func (r *storageRepo) GetByUser(_ context.Context, userID int64) (*domain.Storage, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, st := range r.s.storages {
		if st.UserID == userID {
			return copyStorage(st), nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *storageRepo) Create(_ context.Context, st *domain.Storage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextStorageID++
	st.ID = r.s.nextStorageID
	r.s.storages[st.ID] = copyStorage(st)
	return nil
}

func (r *storageRepo) Update(_ context.Context, st *domain.Storage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.storages[st.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.storages[st.ID] = copyStorage(st)
	return nil
}

func (r *storageRepo) PurgeByUser(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, st := range r.s.storages {
		if st.UserID == userID {
			delete(r.s.storages, id)
		}
	}
	return nil
}

type transactionRepo struct{ s *Store }

func (r *transactionRepo) Get(
	_ context.Context,
	id uuid.UUID,
	eager bool,
) (*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	tx := copyTransaction(t)
	if eager {
		if a, ok := r.s.accounts[t.DebitAccountID]; ok {
			tx.DebitAccount = copyAccount(a)
			tx.DebitAccount.Storage = r.s.storageForAccount(a.ID)
		}
		if t.CreditAccountID != nil {
			if a, ok := r.s.accounts[*t.CreditAccountID]; ok {
				tx.CreditAccount = copyAccount(a)
				tx.CreditAccount.Storage = r.s.storageForAccount(a.ID)
			}
		}
	}
	return tx, nil
}

func (r *transactionRepo) Create(_ context.Context, t *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.transactions[t.ID] = copyTransaction(t)
	return nil
}

func (r *transactionRepo) Update(_ context.Context, t *domain.Transaction) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[t.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.transactions[t.ID] = copyTransaction(t)
	return nil
}

func (r *transactionRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.transactions, id)
	return nil
}

func (r *transactionRepo) ListRecent(
	_ context.Context,
	userID int64,
	limit int,
) ([]*domain.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	txs := make([]*domain.Transaction, 0)
	for _, t := range r.s.transactions {
		if t.UserID == userID {
			txs = append(txs, copyTransaction(t))
		}
	}
	sort.Slice(txs, func(i, j int) bool { return txs[i].CreatedAt.After(txs[j].CreatedAt) })
	if limit > 0 && len(txs) > limit {
		txs = txs[:limit]
	}
	return txs, nil
}

func (r *transactionRepo) PurgeByUser(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, t := range r.s.transactions {
		if t.UserID == userID {
			delete(r.s.transactions, id)
		}
	}
	return nil
}

type eventRepo struct{ s *Store }

func (r *eventRepo) Get(_ context.Context, id int64) (*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	e, ok := r.s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyEvent(e), nil
}

func (r *eventRepo) Create(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.nextEventID++
	e.ID = r.s.nextEventID
	r.s.events[e.ID] = copyEvent(e)
	return nil
}

func (r *eventRepo) Update(_ context.Context, e *domain.Event) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	r.s.events[e.ID] = copyEvent(e)
	return nil
}

func (r *eventRepo) Delete(_ context.Context, id int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.s.events, id)
	return nil
}

func (r *eventRepo) ListByUser(
	_ context.Context,
	userID int64,
	limit int,
) ([]*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	evs := make([]*domain.Event, 0)
	for _, e := range r.s.events {
		if e.UserID == userID {
			evs = append(evs, copyEvent(e))
		}
	}
	sort.Slice(evs, func(i, j int) bool { return evs[i].NextRunOn.Before(evs[j].NextRunOn) })
	if limit > 0 && len(evs) > limit {
		evs = evs[:limit]
	}
	return evs, nil
}

func (r *eventRepo) ListDue(
	_ context.Context,
	due time.Time,
	eager bool,
) ([]*domain.Event, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	evs := make([]*domain.Event, 0)
	for _, e := range r.s.events {
		if !e.NextRunOn.After(due) {
			ev := copyEvent(e)
			if eager {
				if u, ok := r.s.users[e.UserID]; ok {
					ev.User = copyUser(u)
				}
			}
			evs = append(evs, ev)
		}
	}
	sort.Slice(evs, func(i, j int) bool { return evs[i].ID < evs[j].ID })
	return evs, nil
}

func (r *eventRepo) PurgeByUser(_ context.Context, userID int64) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, e := range r.s.events {
		if e.UserID == userID {
			delete(r.s.events, id)
		}
	}
	return nil
}

// storageForAccount must be called with the store lock held.
func (s *Store) storageForAccount(accountID int64) *domain.Storage {
	for _, st := range s.storages {
		if st.AccountID == accountID {
			return copyStorage(st)
		}
	}
	return nil
}

func copyUser(u *domain.User) *domain.User {
	c := *u
	return &c
}

func copyAccount(a *domain.Account) *domain.Account {
	c := *a
	c.Storage = nil
	return &c
}

func copyStorage(st *domain.Storage) *domain.Storage {
	c := *st
	return &c
}

func copyTransaction(t *domain.Transaction) *domain.Transaction {
	c := *t
	c.DebitAccount = nil
	c.CreditAccount = nil
	if t.CreditAccountID != nil {
		id := *t.CreditAccountID
		c.CreditAccountID = &id
	}
	return &c
}

func copyEvent(e *domain.Event) *domain.Event {
	c := *e
	c.User = nil
	return &c
}

var (
	_ repository.UnitOfWork            = (*Store)(nil)
	_ repository.UserRepository        = (*userRepo)(nil)
	_ repository.AccountRepository     = (*accountRepo)(nil)
	_ repository.StorageRepository     = (*storageRepo)(nil)
	_ repository.TransactionRepository = (*transactionRepo)(nil)
	_ repository.EventRepository       = (*eventRepo)(nil)
)
