// Package service internal/application/service/rate_service.go
package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slbug/nbrb-currency/internal/domain/currency"
	"github.com/slbug/nbrb-currency/internal/domain/entity"
	"github.com/slbug/nbrb-currency/internal/domain/repository"
	domainservice "github.com/slbug/nbrb-currency/internal/domain/service"
	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
	"github.com/slbug/nbrb-currency/internal/infrastructure/serialize"
)

// reserved codes the bank publishes that are not tradeable fiat
// currencies in this context.
const reservedXDR = "XDR"

var one = decimal.NewFromInt(1)

// RateService maintains the rate table: it ingests parsed rate documents
// from the bank and resolves rates between arbitrary currency pairs via
// the base-currency pivot.
type RateService struct {
	repo   repository.RateRepository
	source domainservice.RatesSource
	cache  domainservice.DocumentCache
	logger logger.Logger

	mu                       sync.Mutex
	lastUpdated              time.Time
	ratesUpdatedAt           time.Time
	historicalLastUpdated    time.Time
	historicalRatesUpdatedAt time.Time
}

// NewRateService creates a new rate service. The document cache is
// optional; cache-backed updates fail with ErrInvalidCache without one.
func NewRateService(repo repository.RateRepository, source domainservice.RatesSource, cache domainservice.DocumentCache, log logger.Logger) *RateService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateService{
		repo:   repo,
		source: source,
		cache:  cache,
		logger: log,
	}
}

// UpdateRates fetches the current rates document and replaces the
// undated (current) view of the rate table with its contents.
func (s *RateService) UpdateRates(ctx context.Context) error {
	raw, err := s.source.FetchCurrent(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch current rates: %w", err)
	}
	return s.ingestCurrent(raw)
}

// UpdateHistoricalRates fetches the rates document for the given date
// (or the current document when date is nil) and records its contents
// under dated keys, leaving other dates untouched.
func (s *RateService) UpdateHistoricalRates(ctx context.Context, date *time.Time) error {
	raw, err := s.fetchForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to fetch historical rates: %w", err)
	}
	return s.ingestHistorical(raw)
}

// SaveRates fetches the rates document for the given date (current when
// nil) and stores the raw bytes in the document cache under cacheKey.
func (s *RateService) SaveRates(ctx context.Context, cacheKey string, date *time.Time) error {
	if s.cache == nil {
		return entity.ErrInvalidCache
	}

	raw, err := s.fetchForDate(ctx, date)
	if err != nil {
		return fmt.Errorf("failed to fetch rates for caching: %w", err)
	}
	return s.cache.Save(cacheKey, raw)
}

// UpdateRatesFromCache replays a previously saved document into the
// current (undated) view.
func (s *RateService) UpdateRatesFromCache(cacheKey string) error {
	raw, err := s.loadCached(cacheKey)
	if err != nil {
		return err
	}
	return s.ingestCurrent(raw)
}

// UpdateHistoricalRatesFromCache replays a previously saved document
// into the dated views.
func (s *RateService) UpdateHistoricalRatesFromCache(cacheKey string) error {
	raw, err := s.loadCached(cacheKey)
	if err != nil {
		return err
	}
	return s.ingestHistorical(raw)
}

func (s *RateService) loadCached(cacheKey string) ([]byte, error) {
	if s.cache == nil {
		return nil, entity.ErrInvalidCache
	}
	return s.cache.Load(cacheKey)
}

func (s *RateService) fetchForDate(ctx context.Context, date *time.Time) ([]byte, error) {
	if date != nil {
		return s.source.FetchOnDate(ctx, *date)
	}
	return s.source.FetchCurrent(ctx)
}

func (s *RateService) ingestCurrent(raw []byte) error {
	doc, err := entity.ParseRatesDocument(raw)
	if err != nil {
		return err
	}
	if err := s.ingest(doc, false); err != nil {
		return err
	}

	s.mu.Lock()
	s.ratesUpdatedAt = doc.UpdatedAt
	s.lastUpdated = time.Now()
	s.mu.Unlock()
	return nil
}

func (s *RateService) ingestHistorical(raw []byte) error {
	doc, err := entity.ParseRatesDocument(raw)
	if err != nil {
		return err
	}
	if err := s.ingest(doc, true); err != nil {
		return err
	}

	s.mu.Lock()
	s.historicalRatesUpdatedAt = doc.UpdatedAt
	s.historicalLastUpdated = time.Now()
	s.mu.Unlock()
	return nil
}

// ingest writes a whole document into the rate table inside one
// transaction, so a reader never observes a partially ingested document.
// Each document date is processed independently: its base currency is
// detected from the magnitude of the USD quote when one is present
// (historical documents do not self-describe their base, and the
// magnitude is more trustworthy than the date), falling back to the
// date-based policy otherwise.
func (s *RateService) ingest(doc *entity.RatesDocument, withDate bool) error {
	return s.repo.Transaction(func(tx repository.RateRepository) error {
		for _, dateKey := range doc.Dates() {
			date, err := time.Parse("2006-01-02", dateKey)
			if err != nil {
				return fmt.Errorf("malformed document date %q: %w", dateKey, err)
			}

			observations := doc.Rates[dateKey]
			base, err := baseForObservations(observations, &date)
			if err != nil {
				return err
			}

			var keyDate *time.Time
			if withDate {
				keyDate = entity.DayPtr(date)
			}

			written := 0
			for _, obs := range observations {
				ok, err := writeObservation(tx, obs, base, keyDate)
				if err != nil {
					return err
				}
				if ok {
					written++
				}
			}

			// The base's self-rate is definitionally 1 and must exist
			// explicitly so resolution never special-cases it.
			tx.SetRate(base, base, one, keyDate)

			s.logger.Info("Rates ingested", map[string]interface{}{
				"date":     dateKey,
				"base":     base,
				"written":  written,
				"observed": len(observations),
				"dated":    withDate,
			})
		}
		return nil
	})
}

func baseForObservations(observations []entity.RateObservation, date *time.Time) (string, error) {
	for _, obs := range observations {
		if currency.Normalize(obs.Currency) != "USD" {
			continue
		}
		usdRate, err := decimal.NewFromString(obs.OfficialRate)
		if err != nil {
			return "", fmt.Errorf("malformed USD rate %q: %w", obs.OfficialRate, err)
		}
		return currency.DetectBaseFromUSDRate(usdRate), nil
	}
	return currency.BaseCurrencyForDate(date), nil
}

// writeObservation stores one quote against the base. Unrecognized
// currency codes are skipped, not errors: upstream documents routinely
// name more currencies than this application tracks.
func writeObservation(tx repository.RateRepository, obs entity.RateObservation, base string, date *time.Time) (bool, error) {
	code := currency.Normalize(obs.Currency)
	if code == reservedXDR || !currency.IsKnown(code) {
		return false, nil
	}

	official, err := decimal.NewFromString(obs.OfficialRate)
	if err != nil {
		return false, fmt.Errorf("malformed rate %q for %s: %w", obs.OfficialRate, code, err)
	}
	scale, err := decimal.NewFromString(obs.Scale)
	if err != nil {
		return false, fmt.Errorf("malformed scale %q for %s: %w", obs.Scale, code, err)
	}

	adjusted := official.DivRound(scale, entity.DecimalPrecision)
	tx.SetRate(code, base, adjusted, date)
	return true, nil
}

// SetRate stores a rate directly, bypassing ingestion.
func (s *RateService) SetRate(from, to string, rate decimal.Decimal, date *time.Time) {
	s.repo.SetRate(from, to, rate, date)
}

// ResolveRate returns the exchange rate from one currency to another on
// the given date (current when nil): the stored rate when the pair is
// quoted directly, otherwise the cross rate derived through the base
// currency. Identity pairs resolve to 1 without any availability check,
// even for codes the service does not support.
func (s *RateService) ResolveRate(from, to string, date *time.Time) (decimal.Decimal, error) {
	from = currency.Normalize(from)
	to = currency.Normalize(to)

	if from == to {
		return one, nil
	}

	if err := checkCurrencyAvailable(from, date); err != nil {
		return decimal.Decimal{}, err
	}
	if err := checkCurrencyAvailable(to, date); err != nil {
		return decimal.Decimal{}, err
	}

	if rate, ok := s.repo.GetRate(from, to, date); ok {
		return rate, nil
	}

	return s.crossRate(from, to, date)
}

// crossRate derives from->to through the base currency for the date.
// Both pivot legs are read inside one transaction so they reflect the
// same store state.
func (s *RateService) crossRate(from, to string, date *time.Time) (decimal.Decimal, error) {
	base := currency.BaseCurrencyForDate(date)

	var fromBase, toBase decimal.Decimal
	var fromOK, toOK bool
	err := s.repo.Transaction(func(tx repository.RateRepository) error {
		fromBase, fromOK = tx.GetRate(from, base, date)
		toBase, toOK = tx.GetRate(to, base, date)
		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}

	if !fromOK || !toOK {
		return decimal.Decimal{}, &entity.UnknownRateError{From: from, To: to, Date: date}
	}

	return fromBase.DivRound(toBase, entity.DecimalPrecision), nil
}

func checkCurrencyAvailable(code string, date *time.Time) error {
	if code == currency.BaseCurrencyForDate(date) {
		return nil
	}
	if currency.IsSupported(code) || currency.IsLegacy(code) {
		return nil
	}
	return &entity.CurrencyUnavailableError{Currency: code}
}

// ExportRates dumps the whole rate table in the given format.
func (s *RateService) ExportRates(format serialize.Format) ([]byte, error) {
	return serialize.ExportRates(s.repo, format)
}

// ImportRates replays a dump produced by ExportRates into the table.
func (s *RateService) ImportRates(format serialize.Format, data []byte) error {
	return serialize.ImportRates(s.repo, format, data)
}

// LastUpdated reports when UpdateRates last ran.
func (s *RateService) LastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastUpdated
}

// RatesUpdatedAt reports the document stamp of the last current update.
func (s *RateService) RatesUpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ratesUpdatedAt
}

// HistoricalLastUpdated reports when UpdateHistoricalRates last ran.
func (s *RateService) HistoricalLastUpdated() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historicalLastUpdated
}

// HistoricalRatesUpdatedAt reports the document stamp of the last
// historical update.
func (s *RateService) HistoricalRatesUpdatedAt() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.historicalRatesUpdatedAt
}
