// internal/application/service/exchange_service_test.go
package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/slbug/nbrb-currency/internal/domain/entity"
	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newExchangeService(t *testing.T) (*ExchangeService, *RateService) {
	t.Helper()
	rates, _, _, _ := newTestService(t)
	return NewExchangeService(rates, logger.NewJSONLogger(nil, logger.ErrorLevel)), rates
}

func TestConvert(t *testing.T) {
	ctx := context.Background()

	t.Run("Converts between two-decimal currencies", func(t *testing.T) {
		svc, rates := newExchangeService(t)
		rates.SetRate("USD", "BYN", decimal.RequireFromString("2.50"), nil)
		rates.SetRate("EUR", "BYN", decimal.RequireFromString("2.80"), nil)

		// $100.00 at 2.50/2.80 = 0.89286 -> 8928.6 cents, rounded 8929
		result, err := svc.Convert(ctx, 10000, "USD", "EUR", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(8929), result.AmountMinor)
		assert.Equal(t, "USD", result.From)
		assert.Equal(t, "EUR", result.To)
		assert.True(t, result.Rate.Equal(decimal.RequireFromString("0.89286")))
	})

	t.Run("Accounts for differing minor-unit scales", func(t *testing.T) {
		svc, rates := newExchangeService(t)
		// One USD buys 150 JPY; JPY has no subdivision.
		rates.SetRate("USD", "JPY", decimal.NewFromInt(150), nil)

		// $100.00 -> 10000 * 150 * (1/100) = 15000 yen
		result, err := svc.Convert(ctx, 10000, "USD", "JPY", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(15000), result.AmountMinor)
	})

	t.Run("Rounds only at the final step", func(t *testing.T) {
		svc, rates := newExchangeService(t)
		rates.SetRate("USD", "EUR", decimal.RequireFromString("0.33333"), nil)

		// 100 * 0.33333 = 33.333 -> 33
		result, err := svc.Convert(ctx, 100, "USD", "EUR", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(33), result.AmountMinor)

		// 50 * 0.33333 = 16.6665 -> 17 (half rounds up)
		result, err = svc.Convert(ctx, 50, "USD", "EUR", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(17), result.AmountMinor)
	})

	t.Run("Resolves through the base when no direct rate exists", func(t *testing.T) {
		svc, rates := newExchangeService(t)
		rates.SetRate("USD", "BYN", decimal.RequireFromString("2.50"), nil)
		rates.SetRate("EUR", "BYN", decimal.RequireFromString("2.80"), nil)

		result, err := svc.Convert(ctx, 100, "USD", "EUR", nil)
		require.NoError(t, err)
		assert.Equal(t, int64(89), result.AmountMinor)
	})

	t.Run("Converts with historical rates", func(t *testing.T) {
		svc, rates := newExchangeService(t)
		date := day(2015, 1, 1)
		rates.SetRate("USD", "BYR", decimal.RequireFromString("14490"), date)
		rates.SetRate("EUR", "BYR", decimal.RequireFromString("17280"), date)

		result, err := svc.Convert(ctx, 100, "USD", "EUR", date)
		require.NoError(t, err)
		// 100 * 0.83854 = 83.854 -> 84
		assert.Equal(t, int64(84), result.AmountMinor)
		assert.Equal(t, date, result.Date)
	})

	t.Run("Propagates resolution failures", func(t *testing.T) {
		svc, _ := newExchangeService(t)

		_, err := svc.Convert(ctx, 100, "USD", "EUR", nil)
		var unknown *entity.UnknownRateError
		assert.ErrorAs(t, err, &unknown)

		_, err = svc.Convert(ctx, 100, "XXX", "EUR", nil)
		var unavailable *entity.CurrencyUnavailableError
		assert.ErrorAs(t, err, &unavailable)
	})
}
