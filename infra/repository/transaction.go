package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/midas-bot/midas/pkg/domain"
	"gorm.io/gorm"
)

type transactionRepository struct {
	db *gorm.DB
}

func (r *transactionRepository) Get(
	ctx context.Context,
	id uuid.UUID,
	eager bool,
) (*domain.Transaction, error) {
	q := r.db.WithContext(ctx)
	if eager {
		// The income side of the posting carries the storage; preloading it
		// on both sides is a no-op for the expense account.
		q = q.Preload("DebitAccount.Storage").Preload("CreditAccount.Storage")
	}
	var t Transaction
	if err := WrapError(func() error {
		return q.First(&t, "id = ?", id).Error
	}); err != nil {
		return nil, err
	}
	return mapTransactionToDomain(&t), nil
}

func (r *transactionRepository) Create(ctx context.Context, t *domain.Transaction) error {
	row := mapTransactionToModel(t)
	return WrapError(func() error {
		return r.db.WithContext(ctx).Create(row).Error
	})
}

func (r *transactionRepository) Update(ctx context.Context, t *domain.Transaction) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Model(&Transaction{}).
			Where("id = ?", t.ID).
			Updates(map[string]any{
				"transaction_type_id": int(t.Type),
				"title":               t.Title,
				"description":         optionalString(t.Description),
				"amount":              t.Amount,
				"debit_account_id":    t.DebitAccountID,
				"credit_account_id":   t.CreditAccountID,
			}).Error
	})
}

func (r *transactionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return WrapError(func() error {
		res := r.db.WithContext(ctx).Delete(&Transaction{}, "id = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *transactionRepository) ListRecent(
	ctx context.Context,
	userID int64,
	limit int,
) ([]*domain.Transaction, error) {
	var rows []Transaction
	if err := WrapError(func() error {
		return r.db.WithContext(ctx).
			Where("user_id = ?", userID).
			Order("created_at DESC").
			Limit(limit).
			Find(&rows).Error
	}); err != nil {
		return nil, err
	}
	result := make([]*domain.Transaction, 0, len(rows))
	for i := range rows {
		result = append(result, mapTransactionToDomain(&rows[i]))
	}
	return result, nil
}

func (r *transactionRepository) PurgeByUser(ctx context.Context, userID int64) error {
	return WrapError(func() error {
		return r.db.WithContext(ctx).Delete(&Transaction{}, "user_id = ?", userID).Error
	})
}

func mapTransactionToDomain(t *Transaction) *domain.Transaction {
	tx := &domain.Transaction{
		ID:              t.ID,
		UserID:          t.UserID,
		Type:            domain.TransactionType(t.TransactionTypeID),
		Title:           t.Title,
		Amount:          t.Amount,
		CreatedAt:       t.CreatedAt,
		DebitAccountID:  t.DebitAccountID,
		CreditAccountID: t.CreditAccountID,
	}
	if t.Description != nil {
		tx.Description = *t.Description
	}
	if t.DebitAccount != nil {
		tx.DebitAccount = mapAccountToDomain(t.DebitAccount)
	}
	if t.CreditAccount != nil {
		tx.CreditAccount = mapAccountToDomain(t.CreditAccount)
	}
	return tx
}

func mapTransactionToModel(t *domain.Transaction) *Transaction {
	return &Transaction{
		ID:                t.ID,
		UserID:            t.UserID,
		TransactionTypeID: int(t.Type),
		CreatedAt:         t.CreatedAt,
		Title:             t.Title,
		Description:       optionalString(t.Description),
		Amount:            t.Amount,
		DebitAccountID:    t.DebitAccountID,
		CreditAccountID:   t.CreditAccountID,
	}
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
