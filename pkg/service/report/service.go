// Package report implements the per-user balance summary. Accounts are
// periodic counters: with clearAccounts set the accumulators are zeroed
// after reading, while Storage keeps the all-time net position.
package report

import (
	"context"
	"log/slog"
	"strings"

	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/repository"
	"github.com/shopspring/decimal"
)

// Service provides the report usecase.
type Service struct {
	uow    repository.UnitOfWork
	logger *slog.Logger
}

// New creates a report Service with a UnitOfWork and logger.
func New(uow repository.UnitOfWork, logger *slog.Logger) *Service {
	return &Service{uow: uow, logger: logger}
}

// Generate aggregates every account's balance (debit minus credit) keyed by
// type name; the INCOME balance is additionally surfaced as Result. With
// clearAccounts set, both accumulators of every account are zeroed after
// reading. Reads and resets commit together.
func (s *Service) Generate(
	ctx context.Context,
	userID int64,
	clearAccounts bool,
) (report *domain.Report, err error) {
	s.logger.Debug("generating report", "user_id", userID, "clear_accounts", clearAccounts)

	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		accounts, err := uow.AccountRepository()
		if err != nil {
			return err
		}

		report = &domain.Report{
			UserID:   userID,
			Accounts: make(map[string]decimal.Decimal),
		}
		for _, t := range domain.TransactionTypes() {
			account, err := accounts.GetByUserAndType(ctx, userID, t, false)
			if err != nil {
				return err
			}

			balance := account.Balance()
			if t.IsIncome() {
				report.Result = balance
			}
			report.Accounts[strings.ToLower(t.String())] = balance

			if clearAccounts {
				account.DebitAmount = decimal.Zero
				account.CreditAmount = decimal.Zero
				if err := accounts.Update(ctx, account); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("generated report", "user_id", userID, "result", report.Result)
	return report, nil
}
