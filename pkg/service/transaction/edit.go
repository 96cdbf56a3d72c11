package transaction

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/dto"
	"github.com/midas-bot/midas/pkg/money"
	"github.com/midas-bot/midas/pkg/repository"
)

// Edit applies a partial update to a transaction. At least one field must
// differ from the stored value, otherwise domain.ErrNoEffectiveChange is
// returned.
//
// A type change re-derives the double-entry postings using the stored
// pre-edit amount; an amount change is then applied as a delta against the
// accounts of the new classification. The transition matrix:
//
//	income  -> expense: income debit -X, income credit +X, storage -2X,
//	                    new expense debit +X
//	expense -> expense: old expense debit -X, new expense debit +X,
//	                    income and storage untouched
//	expense -> income:  expense debit -X, income credit -X, income debit +X,
//	                    storage +2X
func (s *Service) Edit(ctx context.Context, id uuid.UUID, update dto.TransactionUpdate) error {
	s.logger.Debug("editing transaction", "id", id)

	if err := s.validate.Struct(update); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	if update.Type != nil && !update.Type.Valid() {
		return fmt.Errorf("%w: invalid transaction type %d", domain.ErrValidation, *update.Type)
	}
	if update.Amount != nil {
		if err := money.ValidatePositive(*update.Amount); err != nil {
			return err
		}
	}

	err := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}
		storages, err := uow.StorageRepository()
		if err != nil {
			return err
		}
		transactions, err := uow.TransactionRepository()
		if err != nil {
			return err
		}

		tx, err := transactions.Get(ctx, id, true)
		if err != nil {
			return fmt.Errorf("transaction %s: %w", id, err)
		}

		typeChanged := update.Type != nil && *update.Type != tx.Type
		amountChanged := update.Amount != nil && !update.Amount.Equal(tx.Amount)
		titleChanged := update.Title != nil && *update.Title != tx.Title
		descChanged := update.Description != nil && *update.Description != tx.Description
		if !typeChanged && !amountChanged && !titleChanged && !descChanged {
			return fmt.Errorf("transaction %s: %w", id, domain.ErrNoEffectiveChange)
		}

		income := tx.IncomeAccount()
		storage := income.Storage
		debit := tx.DebitAccount
		credit := tx.CreditAccount

		touched := make(map[int64]*domain.Account)
		mark := func(a *domain.Account) { touched[a.ID] = a }
		storageTouched := false

		// Postings for the transition are derived from the stored pre-edit
		// amount; the amount delta below uses the new classification.
		oldAmount := tx.Amount

		if typeChanged {
			newType := *update.Type
			switch {
			case tx.Type.IsIncome():
				income.DebitAmount = income.DebitAmount.Sub(oldAmount)
				income.CreditAmount = income.CreditAmount.Add(oldAmount)
				// +X -> -X
				storage.Amount = storage.Amount.Sub(oldAmount.Mul(money.Two))
				storageTouched = true

				expense, err := accounts.GetByUserAndType(ctx, tx.UserID, newType, false)
				if err != nil {
					return err
				}
				expense.DebitAmount = expense.DebitAmount.Add(oldAmount)

				creditID := income.ID
				tx.DebitAccountID = expense.ID
				tx.CreditAccountID = &creditID
				mark(income)
				mark(expense)
				debit, credit = expense, income

			case !newType.IsIncome():
				debit.DebitAmount = debit.DebitAmount.Sub(oldAmount)

				expense, err := accounts.GetByUserAndType(ctx, tx.UserID, newType, false)
				if err != nil {
					return err
				}
				expense.DebitAmount = expense.DebitAmount.Add(oldAmount)

				tx.DebitAccountID = expense.ID
				mark(debit)
				mark(expense)
				debit = expense

			default:
				debit.DebitAmount = debit.DebitAmount.Sub(oldAmount)
				income.CreditAmount = income.CreditAmount.Sub(oldAmount)
				income.DebitAmount = income.DebitAmount.Add(oldAmount)
				// -X -> +X
				storage.Amount = storage.Amount.Add(oldAmount.Mul(money.Two))
				storageTouched = true

				tx.DebitAccountID = income.ID
				tx.CreditAccountID = nil
				mark(debit)
				mark(income)
				debit, credit = income, nil
			}
			tx.Type = newType
		}

		if amountChanged {
			diff := oldAmount.Sub(*update.Amount)
			debit.DebitAmount = debit.DebitAmount.Sub(diff)
			if tx.Type.IsIncome() {
				storage.Amount = storage.Amount.Sub(diff)
			} else {
				credit.CreditAmount = credit.CreditAmount.Sub(diff)
				storage.Amount = storage.Amount.Add(diff)
				mark(credit)
			}
			tx.Amount = *update.Amount
			mark(debit)
			storageTouched = true
		}

		if titleChanged {
			tx.Title = *update.Title
		}
		if descChanged {
			tx.Description = *update.Description
		}

		for _, account := range touched {
			if err := accounts.Update(ctx, account); err != nil {
				return err
			}
		}
		if storageTouched {
			if err := storages.Update(ctx, storage); err != nil {
				return err
			}
		}
		return transactions.Update(ctx, tx)
	})
	if err != nil {
		return err
	}

	s.logger.Debug("edited transaction", "id", id)
	return nil
}
