package money_test

import (
	"testing"

	"github.com/midas-bot/midas/pkg/domain"
	"github.com/midas-bot/midas/pkg/money"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		amount  string
		wantErr bool
	}{
		{"integer", "100", false},
		{"two decimal places", "99.99", false},
		{"negative", "-42.50", false},
		{"zero", "0", false},
		{"max integer part", "9999999999.99", false},
		{"three decimal places", "1.999", true},
		{"ten-digit overflow", "10000000000", true},
		{"negative overflow", "-10000000000", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := money.Validate(decimal.RequireFromString(tt.amount))
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidatePositive(t *testing.T) {
	assert.NoError(t, money.ValidatePositive(decimal.RequireFromString("0.01")))
	assert.ErrorIs(t, money.ValidatePositive(decimal.Zero), domain.ErrValidation)
	assert.ErrorIs(t, money.ValidatePositive(decimal.RequireFromString("-1")), domain.ErrValidation)
}
