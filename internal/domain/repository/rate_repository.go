// Package repository internal/domain/repository/rate_repository.go
package repository

import (
	"time"

	"github.com/shopspring/decimal"
)

// RateRepository is the rate table: an ordered mapping from
// (from, to, optional date) to a decimal rate. Currency codes are
// normalized to uppercase on every read and write; a nil date addresses
// the current (undated) rate, distinct from any dated entry for the
// same pair.
type RateRepository interface {
	// SetRate writes or overwrites the rate for (from, to, date).
	// Currency existence is not validated here; callers do that upstream.
	SetRate(from, to string, rate decimal.Decimal, date *time.Time)

	// GetRate returns the rate stored for exactly (from, to, date).
	// It never derives cross rates.
	GetRate(from, to string, date *time.Time) (decimal.Decimal, bool)

	// EachRate calls fn for every stored entry until fn returns false.
	// Iteration runs over a snapshot, so fn may re-enter the store.
	EachRate(fn func(from, to string, rate decimal.Decimal, date *time.Time) bool)

	// Transaction runs fn with exclusive access to the store, so no other
	// transaction's reads or writes interleave with fn's. If fn returns an
	// error, none of its writes become visible. The repository handed to
	// fn is re-entrant: nested Transaction calls on it join the same scope.
	Transaction(fn func(tx RateRepository) error) error
}
