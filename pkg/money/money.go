// Package money holds the fixed-point rules for monetary amounts: exactly
// two decimal places with a ten-digit integer part (numeric(12,2)). Amounts
// are decimal.Decimal throughout; floats never represent money.
package money

import (
	"fmt"

	"github.com/midas-bot/midas/pkg/domain"
	"github.com/shopspring/decimal"
)

// maxIntegral is the first value whose integer part no longer fits
// numeric(12,2).
var maxIntegral = decimal.New(1, 10)

// Two is a convenience multiplier for the double storage swing on
// income/expense reclassification.
var Two = decimal.NewFromInt(2)

// Validate checks that the amount conforms to the numeric(12,2) fixed-point
// format. Out-of-range values are rejected rather than silently truncated.
func Validate(amount decimal.Decimal) error {
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount %s has more than 2 decimal places",
			domain.ErrValidation, amount)
	}
	if amount.Abs().GreaterThanOrEqual(maxIntegral) {
		return fmt.Errorf("%w: amount %s exceeds 10 integer digits",
			domain.ErrValidation, amount)
	}
	return nil
}

// ValidatePositive checks the fixed-point format and that the amount is
// strictly positive, as required for transaction and event amounts.
func ValidatePositive(amount decimal.Decimal) error {
	if err := Validate(amount); err != nil {
		return err
	}
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount %s must be positive", domain.ErrValidation, amount)
	}
	return nil
}
