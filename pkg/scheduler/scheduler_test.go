package scheduler_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/midas-bot/midas/internal/fixtures/memrepo"
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/dto"
	"github.com/midas-bot/midas/pkg/scheduler"
	eventsvc "github.com/midas-bot/midas/pkg/service/event"
	reportsvc "github.com/midas-bot/midas/pkg/service/report"
	txsvc "github.com/midas-bot/midas/pkg/service/transaction"
	usersvc "github.com/midas-bot/midas/pkg/service/user"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testUserID int64 = 42

type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_ context.Context, _ int64, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, message)
	return nil
}

func (n *recordingNotifier) all() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

type fixture struct {
	store     *memrepo.Store
	users     *usersvc.Service
	events    *eventsvc.Service
	txs       *txsvc.Service
	scheduler *scheduler.Scheduler
	notifier  *recordingNotifier
	setClock  func(time.Time)
}

func newFixture(t *testing.T, now time.Time) *fixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	current := now
	clock := func() time.Time { return current }

	store := memrepo.New()
	users := usersvc.New(store, logger, usersvc.WithClock(clock))
	events := eventsvc.New(store, logger, eventsvc.WithClock(clock))
	txs := txsvc.New(store, logger, txsvc.WithClock(clock))
	reports := reportsvc.New(store, logger)
	notifier := &recordingNotifier{}

	return &fixture{
		store:  store,
		users:  users,
		events: events,
		txs:    txs,
		scheduler: scheduler.New(events, txs, reports, users, notifier, logger,
			scheduler.WithClock(clock)),
		notifier: notifier,
		setClock: func(tm time.Time) { current = tm },
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func registerNotified(t *testing.T, f *fixture) {
	t.Helper()
	ctx := context.Background()
	_, err := f.users.Register(ctx, testUserID, domain.CurrencyEUR)
	require.NoError(t, err)
	notify := true
	require.NoError(t, f.users.Edit(ctx, testUserID, dto.UserUpdate{SendNotifications: &notify}))
}

func TestFireDueEvents(t *testing.T) {
	f := newFixture(t, date(2025, time.March, 1))
	ctx := context.Background()
	registerNotified(t, f)

	ev, err := f.events.Create(ctx, dto.EventCreate{
		UserID: testUserID, Type: domain.TypeBillsAndFees, Title: "rent",
		Description: "march", Amount: amount("500"), Frequency: domain.FrequencyMonthly,
	})
	require.NoError(t, err)

	// Not due yet: nothing fires.
	require.NoError(t, f.scheduler.FireDueEvents(ctx))
	assert.Empty(t, f.notifier.all())

	f.setClock(date(2025, time.April, 1))
	require.NoError(t, f.scheduler.FireDueEvents(ctx))

	// A transaction was posted from the event's fields.
	txs, err := f.txs.ListRecent(ctx, testUserID, 10)
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "rent", txs[0].Title)
	assert.Equal(t, domain.TypeBillsAndFees, txs[0].Type)
	assert.True(t, txs[0].Amount.Equal(amount("500")))
	assert.True(t, f.store.StorageOf(testUserID).Amount.Equal(amount("-500")))

	// The event was rescheduled past today.
	evs, err := f.events.ListByUser(ctx, testUserID, 10)
	require.NoError(t, err)
	require.Len(t, evs, 1)
	assert.Equal(t, ev.ID, evs[0].ID)
	assert.True(t, evs[0].NextRunOn.Equal(date(2025, time.May, 1)))

	require.Len(t, f.notifier.all(), 1)
	assert.Equal(t, "New event: rent", f.notifier.all()[0])

	// An immediate re-run finds nothing due.
	require.NoError(t, f.scheduler.FireDueEvents(ctx))
	txs, err = f.txs.ListRecent(ctx, testUserID, 10)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
}

func TestFireDueEventsSilentUser(t *testing.T) {
	f := newFixture(t, date(2025, time.March, 1))
	ctx := context.Background()
	_, err := f.users.Register(ctx, testUserID, domain.CurrencyEUR)
	require.NoError(t, err)

	_, err = f.events.Create(ctx, dto.EventCreate{
		UserID: testUserID, Type: domain.TypeOther, Title: "sub",
		Amount: amount("10"), Frequency: domain.FrequencyDaily,
	})
	require.NoError(t, err)

	f.setClock(date(2025, time.March, 2))
	require.NoError(t, f.scheduler.FireDueEvents(ctx))

	// The transaction still posts; only the notification is suppressed.
	txs, err := f.txs.ListRecent(ctx, testUserID, 10)
	require.NoError(t, err)
	assert.Len(t, txs, 1)
	assert.Empty(t, f.notifier.all())
}

func TestGenerateMonthlyReportsSkipsMidMonth(t *testing.T) {
	f := newFixture(t, date(2025, time.March, 15))
	ctx := context.Background()
	registerNotified(t, f)

	require.NoError(t, f.scheduler.GenerateMonthlyReports(ctx))
	assert.Empty(t, f.notifier.all())

	// Accounts are untouched on a skipped run.
	_, err := f.txs.Create(ctx, dto.TransactionCreate{
		UserID: testUserID, Type: domain.TypeIncome, Title: "salary", Amount: amount("100"),
	})
	require.NoError(t, err)
	require.NoError(t, f.scheduler.GenerateMonthlyReports(ctx))
	assert.True(t, f.store.AccountOf(testUserID, domain.TypeIncome).DebitAmount.Equal(amount("100")))
}

func TestGenerateMonthlyReports(t *testing.T) {
	f := newFixture(t, date(2025, time.March, 1))
	ctx := context.Background()
	registerNotified(t, f)

	for _, seed := range []struct {
		typ domain.TransactionType
		amt string
	}{
		{domain.TypeIncome, "1000"},
		{domain.TypeGroceries, "200"},
		{domain.TypeTravel, "300.50"},
	} {
		_, err := f.txs.Create(ctx, dto.TransactionCreate{
			UserID: testUserID, Type: seed.typ, Title: "tx", Amount: amount(seed.amt),
		})
		require.NoError(t, err)
	}

	f.setClock(date(2025, time.March, 31))
	require.NoError(t, f.scheduler.GenerateMonthlyReports(ctx))

	messages := f.notifier.all()
	require.Len(t, messages, 1)
	msg := messages[0]
	assert.True(t, strings.HasPrefix(msg, "MONTHLY REPORT:\n"), "message: %q", msg)
	assert.Contains(t, msg, "- Groceries: EUR 200")
	assert.Contains(t, msg, "- Travel: EUR 300.5")
	assert.Contains(t, msg, "- Saving: EUR 0")
	assert.Contains(t, msg, "Overall monthly balance: EUR 499.5")
	assert.NotContains(t, msg, "Income:")

	// The period was closed: accumulators reset, storage kept.
	assert.True(t, f.store.AccountOf(testUserID, domain.TypeIncome).DebitAmount.IsZero())
	assert.True(t, f.store.StorageOf(testUserID).Amount.Equal(amount("499.5")))
}
