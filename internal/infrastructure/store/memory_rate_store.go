// Package store internal/infrastructure/store/memory_rate_store.go
package store

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slbug/nbrb-currency/internal/domain/currency"
	"github.com/slbug/nbrb-currency/internal/domain/repository"
)

// rateKey indexes one stored rate. The date component is the ISO day
// string, empty for the current (undated) rate, so a dated and an
// undated entry for the same pair never collide.
type rateKey struct {
	from string
	to   string
	date string
}

func keyFor(from, to string, date *time.Time) rateKey {
	k := rateKey{from: currency.Normalize(from), to: currency.Normalize(to)}
	if date != nil {
		k.date = date.Format("2006-01-02")
	}
	return k
}

// MemoryRateStore is an in-memory rate table guarded by a single mutex.
// Entries live for the lifetime of the store; nothing is ever evicted.
type MemoryRateStore struct {
	mu    sync.Mutex
	rates map[rateKey]decimal.Decimal
}

// NewMemoryRateStore creates an empty rate store.
func NewMemoryRateStore() *MemoryRateStore {
	return &MemoryRateStore{rates: make(map[rateKey]decimal.Decimal)}
}

// SetRate writes or overwrites the rate at (from, to, date).
func (s *MemoryRateStore) SetRate(from, to string, rate decimal.Decimal, date *time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[keyFor(from, to, date)] = rate
}

// GetRate returns the rate stored for exactly (from, to, date).
func (s *MemoryRateStore) GetRate(from, to string, date *time.Time) (decimal.Decimal, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rate, ok := s.rates[keyFor(from, to, date)]
	return rate, ok
}

// EachRate iterates over a snapshot of the store, so fn is free to
// re-enter it (export does, from inside its own transaction).
func (s *MemoryRateStore) EachRate(fn func(from, to string, rate decimal.Decimal, date *time.Time) bool) {
	s.mu.Lock()
	snapshot := make(map[rateKey]decimal.Decimal, len(s.rates))
	for k, v := range s.rates {
		snapshot[k] = v
	}
	s.mu.Unlock()

	eachRate(snapshot, fn)
}

// Size returns the number of stored entries.
func (s *MemoryRateStore) Size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.rates)
}

// Transaction runs fn with the store lock held. Writes go to an overlay
// that is merged into the table only when fn succeeds, so a failed
// transaction leaves no partial state behind. The view handed to fn does
// not lock again, which makes nested transactions re-enter the same scope.
func (s *MemoryRateStore) Transaction(fn func(tx repository.RateRepository) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &rateTx{base: s.rates, overlay: make(map[rateKey]decimal.Decimal)}
	if err := fn(tx); err != nil {
		return err
	}

	for k, v := range tx.overlay {
		s.rates[k] = v
	}
	return nil
}

// rateTx is the locked view inside a Transaction.
type rateTx struct {
	base    map[rateKey]decimal.Decimal
	overlay map[rateKey]decimal.Decimal
}

func (t *rateTx) SetRate(from, to string, rate decimal.Decimal, date *time.Time) {
	t.overlay[keyFor(from, to, date)] = rate
}

func (t *rateTx) GetRate(from, to string, date *time.Time) (decimal.Decimal, bool) {
	k := keyFor(from, to, date)
	if rate, ok := t.overlay[k]; ok {
		return rate, true
	}
	rate, ok := t.base[k]
	return rate, ok
}

func (t *rateTx) EachRate(fn func(from, to string, rate decimal.Decimal, date *time.Time) bool) {
	merged := make(map[rateKey]decimal.Decimal, len(t.base)+len(t.overlay))
	for k, v := range t.base {
		merged[k] = v
	}
	for k, v := range t.overlay {
		merged[k] = v
	}
	eachRate(merged, fn)
}

// Transaction on an open transaction joins the enclosing scope.
func (t *rateTx) Transaction(fn func(tx repository.RateRepository) error) error {
	return fn(t)
}

func eachRate(rates map[rateKey]decimal.Decimal, fn func(from, to string, rate decimal.Decimal, date *time.Time) bool) {
	for k, rate := range rates {
		var date *time.Time
		if k.date != "" {
			d, err := time.Parse("2006-01-02", k.date)
			if err != nil {
				continue
			}
			date = &d
		}
		if !fn(k.from, k.to, rate, date) {
			return
		}
	}
}
