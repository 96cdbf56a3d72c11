package domain_test

import (
	"testing"
	"time"

	"github.com/midas-bot/midas/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionTypes(t *testing.T) {
	types := domain.TransactionTypes()
	require.Len(t, types, 11)
	assert.Equal(t, domain.TypeIncome, types[0])
	assert.Equal(t, domain.TypeSaving, types[10])

	for _, typ := range types {
		assert.True(t, typ.Valid())
	}
	assert.False(t, domain.TransactionType(0).Valid())
	assert.False(t, domain.TransactionType(12).Valid())
}

func TestTransactionTypeReadable(t *testing.T) {
	assert.Equal(t, "Income", domain.TypeIncome.Readable())
	assert.Equal(t, "Bills and fees", domain.TypeBillsAndFees.Readable())
}

func TestParseTransactionType(t *testing.T) {
	for _, typ := range domain.TransactionTypes() {
		parsed, err := domain.ParseTransactionType(typ.Readable())
		require.NoError(t, err)
		assert.Equal(t, typ, parsed)
	}

	_, err := domain.ParseTransactionType("lottery")
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestFrequencyResolvedDays(t *testing.T) {
	tests := []struct {
		name string
		f    domain.Frequency
		ref  time.Time
		want int
	}{
		{"daily", domain.FrequencyDaily, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), 1},
		{"weekly", domain.FrequencyWeekly, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), 7},
		{"monthly january", domain.FrequencyMonthly, time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC), 31},
		{"monthly february", domain.FrequencyMonthly, time.Date(2025, time.February, 15, 0, 0, 0, 0, time.UTC), 28},
		{"monthly leap february", domain.FrequencyMonthly, time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC), 29},
		{"monthly april", domain.FrequencyMonthly, time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC), 30},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.f.ResolvedDays(tt.ref))
		})
	}
}

func TestFrequencyValid(t *testing.T) {
	assert.True(t, domain.FrequencyDaily.Valid())
	assert.True(t, domain.FrequencyWeekly.Valid())
	assert.True(t, domain.FrequencyMonthly.Valid())
	assert.False(t, domain.Frequency(2).Valid())
	assert.False(t, domain.Frequency(0).Valid())
}

func TestCurrency(t *testing.T) {
	assert.True(t, domain.CurrencyEUR.Valid())
	assert.Equal(t, "USD", domain.CurrencyUSD.String())
	assert.False(t, domain.Currency(0).Valid())
}
