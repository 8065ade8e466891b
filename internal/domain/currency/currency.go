// Package currency holds the static currency metadata the rate service
// consults: which codes are tradeable, which are legacy, and how many
// minor units make up one major unit of each currency.
package currency

import "strings"

// minorUnits maps an ISO code to the factor between its major unit and
// its smallest subdivision (100 for two-decimal currencies, 1 for
// currencies without a subdivision).
var minorUnits = map[string]int64{
	"AUD": 100,
	"BYN": 100,
	"BYR": 1, // post-2000 Belarusian ruble had no kopecks in circulation
	"CAD": 100,
	"CHF": 100,
	"CNY": 100,
	"DKK": 100,
	"EUR": 100,
	"GBP": 100,
	"HKD": 100,
	"JPY": 1,
	"KRW": 1,
	"KWD": 1000,
	"NOK": 100,
	"NZD": 100,
	"PLN": 100,
	"RUB": 100,
	"SEK": 100,
	"SGD": 100,
	"TRY": 100,
	"UAH": 100,
	"USD": 100,
	"XDR": 100,
}

// supported lists the currencies the service quotes against the base.
var supported = map[string]struct{}{
	"USD": {}, "EUR": {}, "RUB": {}, "PLN": {}, "UAH": {}, "GBP": {},
	"JPY": {}, "CNY": {}, "CHF": {}, "SEK": {}, "NOK": {}, "DKK": {},
	"CAD": {}, "AUD": {}, "NZD": {}, "TRY": {}, "KRW": {}, "SGD": {},
	"HKD": {},
}

// legacy lists currencies no longer traded but still queryable with
// historical dates.
var legacy = map[string]struct{}{
	"BYR": {},
}

// Normalize uppercases a currency code for use as a key component.
func Normalize(code string) string {
	return strings.ToUpper(code)
}

// IsKnown reports whether the code has metadata in the registry.
func IsKnown(code string) bool {
	_, ok := minorUnits[Normalize(code)]
	return ok
}

// MinorUnits returns the minor-unit factor for the code, if known.
func MinorUnits(code string) (int64, bool) {
	units, ok := minorUnits[Normalize(code)]
	return units, ok
}

// IsSupported reports whether the code is a currently tradeable currency.
func IsSupported(code string) bool {
	_, ok := supported[Normalize(code)]
	return ok
}

// IsLegacy reports whether the code is a retired currency kept for
// historical queries.
func IsLegacy(code string) bool {
	_, ok := legacy[Normalize(code)]
	return ok
}
