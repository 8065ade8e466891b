// Package service internal/application/service/exchange_service.go
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/slbug/nbrb-currency/internal/domain/currency"
	"github.com/slbug/nbrb-currency/internal/domain/entity"
	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
	"github.com/slbug/nbrb-currency/internal/infrastructure/middleware"
)

// Exchange represents the result of converting an amount between
// currencies. Amounts are integer counts of minor units (cents, kopecks).
type Exchange struct {
	AmountMinor int64           `json:"amount_minor"`
	From        string          `json:"from"`
	To          string          `json:"to"`
	Rate        decimal.Decimal `json:"rate"`
	Date        *time.Time      `json:"date,omitempty"`
}

// ExchangeService converts monetary amounts using resolved rates and the
// currencies' minor-unit scales.
type ExchangeService struct {
	rates  *RateService
	logger logger.Logger
}

// NewExchangeService creates a new exchange service
func NewExchangeService(rates *RateService, log logger.Logger) *ExchangeService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeService{
		rates:  rates,
		logger: log,
	}
}

// Convert exchanges an amount of minor units of one currency into minor
// units of another on the given date (current rates when nil). All
// arithmetic runs at fixed decimal precision; the result is rounded to
// the nearest whole minor unit only at the final step.
func (s *ExchangeService) Convert(ctx context.Context, amountMinor int64, from, to string, date *time.Time) (*Exchange, error) {
	requestID := middleware.GetRequestID(ctx)
	from = currency.Normalize(from)
	to = currency.Normalize(to)

	s.logger.Debug("Converting amount", map[string]interface{}{
		"request_id":   requestID,
		"amount_minor": amountMinor,
		"from":         from,
		"to":           to,
	})

	rate, err := s.rates.ResolveRate(from, to, date)
	if err != nil {
		s.logger.Warn("Failed to resolve rate for conversion", map[string]interface{}{
			"request_id": requestID,
			"from":       from,
			"to":         to,
			"error":      err.Error(),
		})
		return nil, err
	}

	fromUnits, ok := currency.MinorUnits(from)
	if !ok {
		return nil, &entity.CurrencyUnavailableError{Currency: from}
	}
	toUnits, ok := currency.MinorUnits(to)
	if !ok {
		return nil, &entity.CurrencyUnavailableError{Currency: to}
	}

	unitFactor := decimal.NewFromInt(toUnits).DivRound(decimal.NewFromInt(fromUnits), entity.DecimalPrecision)
	converted := decimal.NewFromInt(amountMinor).Mul(rate).Mul(unitFactor).Round(0).IntPart()

	s.logger.Info("Conversion completed", map[string]interface{}{
		"request_id":       requestID,
		"from":             from,
		"to":               to,
		"rate":             rate.String(),
		"amount_minor":     amountMinor,
		"converted_amount": converted,
	})

	return &Exchange{
		AmountMinor: converted,
		From:        from,
		To:          to,
		Rate:        rate,
		Date:        date,
	}, nil
}
