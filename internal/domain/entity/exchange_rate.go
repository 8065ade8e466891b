package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DecimalPrecision is the number of fractional digits every rate is
// carried with, matching the precision published by the bank.
const DecimalPrecision = 5

// ExchangeRate represents a one-directional rate between two currencies,
// optionally pinned to a calendar date. A nil Date means the current rate;
// dated and undated entries for the same pair are distinct.
type ExchangeRate struct {
	From string          `json:"from"`
	To   string          `json:"to"`
	Rate decimal.Decimal `json:"rate"`
	Date *time.Time      `json:"date,omitempty"`
}

// Day truncates t to midnight UTC so dates compare and key consistently
// regardless of where the time.Time came from.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// DayPtr is a convenience for building optional dates.
func DayPtr(t time.Time) *time.Time {
	d := Day(t)
	return &d
}
