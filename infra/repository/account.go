package repository

import (
	"context"

	"github.com/midas-bot/midas/pkg/domain"
	"gorm.io/gorm"
)

type accountRepository struct {
	db *gorm.DB
}

func (r *accountRepository) GetByUserAndType(
	ctx context.Context,
	userID int64,
	t domain.TransactionType,
	eager bool,
) (*domain.Account, error) {
	q := r.db.WithContext(ctx)
	if eager {
		q = q.Preload("Storage")
	}
	var a Account
	if err := WrapError(func() error {
		return q.First(&a, "user_id = ? AND transaction_type_id = ?", userID, int(t)).Error
	}); err != nil {
		return nil, err
	}
	return mapAccountToDomain(&a), nil
}

func (r *accountRepository) CreateBatch(ctx context.Context, accounts []*domain.Account) error {
	rows := make([]Account, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, Account{
			UserID:            a.UserID,
			TransactionTypeID: int(a.Type),
			DebitAmount:       a.DebitAmount,
			CreditAmount:      a.CreditAmount,
		})
	}
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).Create(&rows).Error
	}); err != nil {
		return err
	}
	for i := range rows {
		accounts[i].ID = rows[i].ID
	}
	return nil
}

func (r *accountRepository) Update(ctx context.Context, a *domain.Account) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Model(&Account{}).
			Where("id = ?", a.ID).
			Updates(map[string]any{
				"debit_amount":  a.DebitAmount,
				"credit_amount": a.CreditAmount,
			}).Error
	})
}

func (r *accountRepository) PurgeByUser(ctx context.Context, userID int64) error {
	// Zero rows affected is not an error; purge is idempotent.
	return WrapError(func() error {
		return r.db.WithContext(ctx).Delete(&Account{}, "user_id = ?", userID).Error
	})
}

func mapAccountToDomain(a *Account) *domain.Account {
	acct := &domain.Account{
		ID:           a.ID,
		UserID:       a.UserID,
		Type:         domain.TransactionType(a.TransactionTypeID),
		DebitAmount:  a.DebitAmount,
		CreditAmount: a.CreditAmount,
	}
	if a.Storage != nil {
		acct.Storage = mapStorageToDomain(a.Storage)
	}
	return acct
}
