package currency

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	// Base is the current base currency all rates are quoted against.
	Base = "BYN"
	// LegacyBase is the base currency in use before the redenomination.
	LegacyBase = "BYR"
)

// RedenominationDate is July 1, 2016, when the Belarusian ruble was
// redenominated 10000:1 and BYR gave way to BYN.
var RedenominationDate = time.Date(2016, time.July, 1, 0, 0, 0, 0, time.UTC)

// byrThreshold separates BYR-quoted USD rates (typically > 1000) from
// BYN-quoted ones (< 100).
var byrThreshold = decimal.NewFromInt(100)

// BaseCurrencyForDate returns the base currency effective on the given
// date. A nil date means now. The redenomination date itself already
// belongs to the BYN era.
func BaseCurrencyForDate(date *time.Time) string {
	if date != nil && date.Before(RedenominationDate) {
		return LegacyBase
	}
	return Base
}

// DetectBaseFromUSDRate infers the base currency from the magnitude of an
// observed USD rate. The heuristic is approximate: a legitimate but
// unusual rate near the threshold would be misclassified, and no
// correction pass exists. It is only used when ingesting documents whose
// date-to-base mapping cannot be trusted.
func DetectBaseFromUSDRate(rate decimal.Decimal) string {
	if rate.GreaterThan(byrThreshold) {
		return LegacyBase
	}
	return Base
}
