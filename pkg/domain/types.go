package domain

import (
	"fmt"
	"strings"
	"time"
)

// TransactionType classifies a transaction and selects the account it posts
// against. Values mirror the ids of the seeded transaction_types table.
type TransactionType int

const (
	TypeIncome TransactionType = iota + 1
	TypeGroceries
	TypeTransportation
	TypeEntertainment
	TypeShopping
	TypeGifts
	TypeBillsAndFees
	TypeHealthcare
	TypeTravel
	TypeOther
	TypeSaving
)

var transactionTypeNames = map[TransactionType]string{
	TypeIncome:         "INCOME",
	TypeGroceries:      "GROCERIES",
	TypeTransportation: "TRANSPORTATION",
	TypeEntertainment:  "ENTERTAINMENT",
	TypeShopping:       "SHOPPING",
	TypeGifts:          "GIFTS",
	TypeBillsAndFees:   "BILLS_AND_FEES",
	TypeHealthcare:     "HEALTHCARE",
	TypeTravel:         "TRAVEL",
	TypeOther:          "OTHER",
	TypeSaving:         "SAVING",
}

// TransactionTypes returns every seeded transaction type in id order.
func TransactionTypes() []TransactionType {
	types := make([]TransactionType, 0, len(transactionTypeNames))
	for t := TypeIncome; t <= TypeSaving; t++ {
		types = append(types, t)
	}
	return types
}

// IsIncome reports whether the type is the distinguished INCOME type, the
// only one whose account backs a Storage.
func (t TransactionType) IsIncome() bool {
	return t == TypeIncome
}

// Valid reports whether the value maps to a seeded transaction type.
func (t TransactionType) Valid() bool {
	_, ok := transactionTypeNames[t]
	return ok
}

func (t TransactionType) String() string {
	if name, ok := transactionTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TransactionType(%d)", int(t))
}

// Readable returns a human-facing label, e.g. "Bills and fees".
func (t TransactionType) Readable() string {
	name := strings.ReplaceAll(strings.ToLower(t.String()), "_", " ")
	if name == "" {
		return name
	}
	return strings.ToUpper(name[:1]) + name[1:]
}

// ParseTransactionType resolves a human-facing label back to its type.
func ParseTransactionType(readable string) (TransactionType, error) {
	name := strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(readable)), " ", "_")
	for t, n := range transactionTypeNames {
		if n == name {
			return t, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown transaction type %q", ErrValidation, readable)
}

// Currency is a display label for amounts; no conversion logic exists.
// Values mirror the ids of the seeded currencies table.
type Currency int

const (
	CurrencyEUR Currency = iota + 1
	CurrencyUSD
	CurrencyUAH
)

var currencyCodes = map[Currency]string{
	CurrencyEUR: "EUR",
	CurrencyUSD: "USD",
	CurrencyUAH: "UAH",
}

// Valid reports whether the value maps to a seeded currency.
func (c Currency) Valid() bool {
	_, ok := currencyCodes[c]
	return ok
}

func (c Currency) String() string {
	if code, ok := currencyCodes[c]; ok {
		return code
	}
	return fmt.Sprintf("Currency(%d)", int(c))
}

// ParseCurrency resolves a currency code like "EUR" back to its value.
func ParseCurrency(code string) (Currency, error) {
	normalized := strings.ToUpper(strings.TrimSpace(code))
	for c, n := range currencyCodes {
		if n == normalized {
			return c, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown currency %q", ErrValidation, code)
}

// Frequency tags how often a recurring event fires. The stored integer code
// doubles as the day count only for DAILY and WEEKLY; MONTHLY resolves to the
// actual length of the reference month via ResolvedDays.
type Frequency int

const (
	FrequencyDaily   Frequency = 1
	FrequencyWeekly  Frequency = 7
	FrequencyMonthly Frequency = 30
)

// Valid reports whether the value is a known frequency tag.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	}
	return false
}

func (f Frequency) String() string {
	switch f {
	case FrequencyDaily:
		return "DAILY"
	case FrequencyWeekly:
		return "WEEKLY"
	case FrequencyMonthly:
		return "MONTHLY"
	}
	return fmt.Sprintf("Frequency(%d)", int(f))
}

// ResolvedDays returns the number of days until the next firing, computed
// against the reference date. MONTHLY resolves to the day count of the
// reference month (28-31), never a fixed 30.
func (f Frequency) ResolvedDays(ref time.Time) int {
	if f == FrequencyMonthly {
		return DaysInMonth(ref)
	}
	return int(f)
}

// DaysInMonth returns the number of days in the month of the given date.
func DaysInMonth(ref time.Time) int {
	return time.Date(ref.Year(), ref.Month()+1, 0, 0, 0, 0, 0, ref.Location()).Day()
}
