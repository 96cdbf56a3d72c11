// Package scheduler drives the periodic work of the ledger: firing due
// recurring events and generating monthly reports. Each due item is handled
// in its own unit-of-work, so one failing item never rolls back siblings
// already committed.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/dto"
	eventsvc "github.com/midas-bot/midas/pkg/service/event"
	reportsvc "github.com/midas-bot/midas/pkg/service/report"
	txsvc "github.com/midas-bot/midas/pkg/service/transaction"
	usersvc "github.com/midas-bot/midas/pkg/service/user"
)

// Scheduler wakes on fixed intervals and invokes the usecases sequentially.
type Scheduler struct {
	events       *eventsvc.Service
	transactions *txsvc.Service
	reports      *reportsvc.Service
	users        *usersvc.Service
	notifier     Notifier
	logger       *slog.Logger
	clock        func() time.Time

	eventInterval  time.Duration
	reportInterval time.Duration
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock overrides the time source.
func WithClock(clock func() time.Time) Option {
	return func(s *Scheduler) {
		s.clock = clock
	}
}

// WithIntervals overrides the wake intervals of the two loops.
func WithIntervals(event, report time.Duration) Option {
	return func(s *Scheduler) {
		s.eventInterval = event
		s.reportInterval = report
	}
}

// New creates a Scheduler over the ledger services.
func New(
	events *eventsvc.Service,
	transactions *txsvc.Service,
	reports *reportsvc.Service,
	users *usersvc.Service,
	notifier Notifier,
	logger *slog.Logger,
	opts ...Option,
) *Scheduler {
	s := &Scheduler{
		events:         events,
		transactions:   transactions,
		reports:        reports,
		users:          users,
		notifier:       notifier,
		logger:         logger,
		clock:          time.Now,
		eventInterval:  time.Hour,
		reportInterval: 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RunEventLoop fires due events until the context is cancelled.
func (s *Scheduler) RunEventLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.eventInterval)
	defer ticker.Stop()

	for {
		if err := s.FireDueEvents(ctx); err != nil {
			s.logger.Error("event run failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// FireDueEvents posts a transaction for every due event and reschedules it.
// Posting and rescheduling are separate unit-of-works in this order, so a
// crash in between re-fires the event on the next tick: delivery is
// at-least-once. There is no idempotency key to dedupe such a replay.
func (s *Scheduler) FireDueEvents(ctx context.Context) error {
	start := s.clock()
	s.logger.Info("started event run")

	due, err := s.events.Upcoming(ctx)
	if err != nil {
		return err
	}

	fired := 0
	for _, ev := range due {
		if _, err := s.transactions.Create(ctx, dto.TransactionCreate{
			UserID:      ev.UserID,
			Type:        ev.Type,
			Title:       ev.Title,
			Description: ev.Description,
			Amount:      ev.Amount,
		}); err != nil {
			s.logger.Error("failed to post event transaction",
				"event_id", ev.ID, "user_id", ev.UserID, "error", err)
			continue
		}
		if err := s.events.MarkRun(ctx, ev.ID); err != nil {
			s.logger.Error("failed to reschedule event", "event_id", ev.ID, "error", err)
			continue
		}
		fired++

		if ev.User != nil && ev.User.SendNotifications {
			msg := fmt.Sprintf("New event: %s", ev.Title)
			if err := s.notifier.Notify(ctx, ev.UserID, msg); err != nil {
				s.logger.Error("failed to notify", "user_id", ev.UserID, "error", err)
			}
		}
	}

	s.logger.Info("finished event run",
		"due", len(due), "fired", fired, "elapsed", s.clock().Sub(start))
	return nil
}

// RunReportLoop generates monthly reports until the context is cancelled.
func (s *Scheduler) RunReportLoop(ctx context.Context) error {
	ticker := time.NewTicker(s.reportInterval)
	defer ticker.Stop()

	for {
		if err := s.GenerateMonthlyReports(ctx); err != nil {
			s.logger.Error("report run failed", "error", err)
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// GenerateMonthlyReports builds and delivers a report per user, but only on
// the last day of the month; any other day is a no-op.
func (s *Scheduler) GenerateMonthlyReports(ctx context.Context) error {
	today := s.clock().UTC()
	if today.Day() != domain.DaysInMonth(today) {
		s.logger.Info("skipping report run, not the end of the month", "date", today.Format(time.DateOnly))
		return nil
	}

	start := s.clock()
	s.logger.Info("started monthly report run")

	users, err := s.users.ListAll(ctx)
	if err != nil {
		return err
	}

	generated := 0
	for _, u := range users {
		report, err := s.reports.Generate(ctx, u.ID, true)
		if err != nil {
			s.logger.Error("failed to generate report", "user_id", u.ID, "error", err)
			continue
		}
		generated++

		if u.SendNotifications {
			msg := renderReport(report, u.Currency)
			if err := s.notifier.Notify(ctx, u.ID, msg); err != nil {
				s.logger.Error("failed to notify", "user_id", u.ID, "error", err)
			}
		}
	}

	s.logger.Info("finished monthly report run",
		"generated", generated, "elapsed", s.clock().Sub(start))
	return nil
}

func renderReport(report *domain.Report, currency domain.Currency) string {
	names := make([]string, 0, len(report.Accounts))
	for name := range report.Accounts {
		if name == strings.ToLower(domain.TypeIncome.String()) {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString("MONTHLY REPORT:\n")
	for _, name := range names {
		label := strings.ReplaceAll(name, "_", " ")
		label = strings.ToUpper(label[:1]) + label[1:]
		fmt.Fprintf(&b, "- %s: %s %s\n", label, currency, report.Accounts[name])
	}
	fmt.Fprintf(&b, "Overall monthly balance: %s %s", currency, report.Result)
	return b.String()
}
