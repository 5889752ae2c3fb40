package model

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

// DateFormat is the on-disk and in-file representation of a transaction date.
const DateFormat = "2006-01-02"

// ErrAmountOutOfRange is returned for amounts the store's float column cannot hold.
var ErrAmountOutOfRange = errors.New("amount out of range")

// CheckAmount fails when d does not convert to a finite float64.
func CheckAmount(d decimal.Decimal) error {
	if f := d.InexactFloat64(); math.IsInf(f, 0) || math.IsNaN(f) {
		return ErrAmountOutOfRange
	}
	return nil
}

// AmountFromFloat converts a stored float back into a decimal, refusing
// values that are not finite.
func AmountFromFloat(f float64) (decimal.Decimal, error) {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return decimal.Zero, fmt.Errorf("%w: stored value %v", ErrAmountOutOfRange, f)
	}
	return decimal.NewFromFloat(f), nil
}

// Transaction is one ledger row. Rows are append-only.
type Transaction struct {
	Date        time.Time
	Description string
	Amount      decimal.Decimal // negative = money out, positive = money in
}

// ParseDate parses a YYYY-MM-DD calendar date in UTC.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// Day truncates t to its calendar date in t's own location, returned in UTC.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
