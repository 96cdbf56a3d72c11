package transaction_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/dto"
	"github.com/midas-bot/midas/pkg/service/transaction"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptrType(t domain.TransactionType) *domain.TransactionType { return &t }
func ptrAmount(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}
func ptrString(s string) *string { return &s }

func post(
	t *testing.T,
	svc *transaction.Service,
	typ domain.TransactionType,
	amt string,
) *domain.Transaction {
	t.Helper()
	tx, err := svc.Create(context.Background(), dto.TransactionCreate{
		UserID: testUserID,
		Type:   typ,
		Title:  "tx",
		Amount: amount(amt),
	})
	require.NoError(t, err)
	return tx
}

func TestEditNoEffectiveChange(t *testing.T) {
	_, svc := newFixture(t)
	tx := post(t, svc, domain.TypeIncome, "100")

	err := svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Type:   ptrType(domain.TypeIncome),
		Title:  ptrString("tx"),
		Amount: ptrAmount("100.00"),
	})
	assert.ErrorIs(t, err, domain.ErrNoEffectiveChange)
}

func TestEditUnknown(t *testing.T) {
	_, svc := newFixture(t)
	err := svc.Edit(context.Background(), uuid.New(), dto.TransactionUpdate{
		Title: ptrString("new"),
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEditTitleAndDescriptionOnly(t *testing.T) {
	store, svc := newFixture(t)
	ctx := context.Background()
	tx := post(t, svc, domain.TypeIncome, "100")

	err := svc.Edit(ctx, tx.ID, dto.TransactionUpdate{
		Title:       ptrString("renamed"),
		Description: ptrString("a note"),
	})
	require.NoError(t, err)

	// Metadata edits never move balances.
	assert.True(t, store.AccountOf(testUserID, domain.TypeIncome).DebitAmount.Equal(amount("100")))
	assert.True(t, store.StorageOf(testUserID).Amount.Equal(amount("100")))
}

func TestEditAmountOnlyIncome(t *testing.T) {
	store, svc := newFixture(t)
	tx := post(t, svc, domain.TypeIncome, "100")

	err := svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Amount: ptrAmount("150"),
	})
	require.NoError(t, err)

	income := store.AccountOf(testUserID, domain.TypeIncome)
	assert.True(t, income.DebitAmount.Equal(amount("150")))
	assert.True(t, income.CreditAmount.IsZero())
	assert.True(t, store.StorageOf(testUserID).Amount.Equal(amount("150")))
}

func TestEditAmountOnlyExpense(t *testing.T) {
	store, svc := newFixture(t)
	post(t, svc, domain.TypeIncome, "100")
	tx := post(t, svc, domain.TypeGroceries, "40")

	err := svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Amount: ptrAmount("25"),
	})
	require.NoError(t, err)

	groceries := store.AccountOf(testUserID, domain.TypeGroceries)
	income := store.AccountOf(testUserID, domain.TypeIncome)
	assert.True(t, groceries.DebitAmount.Equal(amount("25")))
	assert.True(t, income.CreditAmount.Equal(amount("25")))
	assert.True(t, store.StorageOf(testUserID).Amount.Equal(amount("75")))
}

func TestEditIncomeToExpense(t *testing.T) {
	store, svc := newFixture(t)
	tx := post(t, svc, domain.TypeIncome, "100")

	err := svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Type: ptrType(domain.TypeGroceries),
	})
	require.NoError(t, err)

	income := store.AccountOf(testUserID, domain.TypeIncome)
	groceries := store.AccountOf(testUserID, domain.TypeGroceries)
	assert.True(t, income.DebitAmount.IsZero())
	assert.True(t, income.CreditAmount.Equal(amount("100")))
	assert.True(t, groceries.DebitAmount.Equal(amount("100")))
	// +100 became -100: the storage swings by twice the amount.
	assert.True(t, store.StorageOf(testUserID).Amount.Equal(amount("-100")))
}

func TestEditExpenseToExpense(t *testing.T) {
	store, svc := newFixture(t)
	post(t, svc, domain.TypeIncome, "100")
	tx := post(t, svc, domain.TypeGroceries, "40")

	err := svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Type: ptrType(domain.TypeShopping),
	})
	require.NoError(t, err)

	assert.True(t, store.AccountOf(testUserID, domain.TypeGroceries).DebitAmount.IsZero())
	assert.True(t, store.AccountOf(testUserID, domain.TypeShopping).DebitAmount.Equal(amount("40")))
	// Reclassifying between expense types touches neither income nor storage.
	assert.True(t, store.AccountOf(testUserID, domain.TypeIncome).CreditAmount.Equal(amount("40")))
	assert.True(t, store.StorageOf(testUserID).Amount.Equal(amount("60")))
}

func TestEditExpenseToIncome(t *testing.T) {
	store, svc := newFixture(t)
	post(t, svc, domain.TypeIncome, "100")
	tx := post(t, svc, domain.TypeGroceries, "40")

	err := svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Type: ptrType(domain.TypeIncome),
	})
	require.NoError(t, err)

	income := store.AccountOf(testUserID, domain.TypeIncome)
	assert.True(t, store.AccountOf(testUserID, domain.TypeGroceries).DebitAmount.IsZero())
	assert.True(t, income.CreditAmount.IsZero())
	assert.True(t, income.DebitAmount.Equal(amount("140")))
	// -40 became +40.
	assert.True(t, store.StorageOf(testUserID).Amount.Equal(amount("140")))
}

func TestEditTypeAndAmountTogether(t *testing.T) {
	store, svc := newFixture(t)
	post(t, svc, domain.TypeIncome, "100")
	tx := post(t, svc, domain.TypeGroceries, "40")

	// Type change applies at the stored amount, the amount delta at the new
	// classification.
	err := svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Type:   ptrType(domain.TypeShopping),
		Amount: ptrAmount("60"),
	})
	require.NoError(t, err)

	shopping := store.AccountOf(testUserID, domain.TypeShopping)
	income := store.AccountOf(testUserID, domain.TypeIncome)
	assert.True(t, store.AccountOf(testUserID, domain.TypeGroceries).DebitAmount.IsZero())
	assert.True(t, shopping.DebitAmount.Equal(amount("60")))
	assert.True(t, income.CreditAmount.Equal(amount("60")))
	assert.True(t, store.StorageOf(testUserID).Amount.Equal(amount("40")))
}

func TestEditRoundTripRestoresBalances(t *testing.T) {
	store, svc := newFixture(t)
	ctx := context.Background()
	post(t, svc, domain.TypeIncome, "100")
	tx := post(t, svc, domain.TypeGroceries, "40")

	require.NoError(t, svc.Edit(ctx, tx.ID, dto.TransactionUpdate{
		Type: ptrType(domain.TypeIncome),
	}))
	require.NoError(t, svc.Edit(ctx, tx.ID, dto.TransactionUpdate{
		Type: ptrType(domain.TypeGroceries),
	}))

	income := store.AccountOf(testUserID, domain.TypeIncome)
	groceries := store.AccountOf(testUserID, domain.TypeGroceries)
	assert.True(t, income.DebitAmount.Equal(amount("100")))
	assert.True(t, income.CreditAmount.Equal(amount("40")))
	assert.True(t, groceries.DebitAmount.Equal(amount("40")))
	assert.True(t, store.StorageOf(testUserID).Amount.Equal(amount("60")))
}

// After any mix of creates, edits and deletes, the storage must equal the
// signed sum over the transactions that survived.
func TestStorageMatchesSurvivingTransactions(t *testing.T) {
	store, svc := newFixture(t)
	ctx := context.Background()

	salary := post(t, svc, domain.TypeIncome, "1000")
	groceries := post(t, svc, domain.TypeGroceries, "120.50")
	travel := post(t, svc, domain.TypeTravel, "300")
	bonus := post(t, svc, domain.TypeIncome, "75.25")

	require.NoError(t, svc.Edit(ctx, groceries.ID, dto.TransactionUpdate{
		Amount: ptrAmount("90.25"),
	}))
	require.NoError(t, svc.Edit(ctx, travel.ID, dto.TransactionUpdate{
		Type: ptrType(domain.TypeIncome),
	}))
	require.NoError(t, svc.Edit(ctx, bonus.ID, dto.TransactionUpdate{
		Type:   ptrType(domain.TypeShopping),
		Amount: ptrAmount("50"),
	}))
	require.NoError(t, svc.Delete(ctx, salary.ID))

	survivors, err := svc.ListRecent(ctx, testUserID, 100)
	require.NoError(t, err)
	require.Len(t, survivors, 3)

	expected := decimal.Zero
	for _, tx := range survivors {
		if tx.Type.IsIncome() {
			expected = expected.Add(tx.Amount)
		} else {
			expected = expected.Sub(tx.Amount)
		}
	}

	got := store.StorageOf(testUserID).Amount
	assert.True(t, got.Equal(expected), "storage %s, surviving transactions sum to %s", got, expected)
	// Sanity: -90.25 + 300 - 50.
	assert.True(t, got.Equal(amount("159.75")))
}

func TestEditValidation(t *testing.T) {
	_, svc := newFixture(t)
	tx := post(t, svc, domain.TypeIncome, "100")

	err := svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Type: ptrType(99),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Amount: ptrAmount("-1"),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)

	err = svc.Edit(context.Background(), tx.ID, dto.TransactionUpdate{
		Title: ptrString(""),
	})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
