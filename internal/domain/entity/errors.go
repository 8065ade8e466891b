package entity

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCache is returned when a raw-document cache handle is missing
// or unreadable. Absence of fresh data is always an explicit failure.
var ErrInvalidCache = errors.New("invalid rates cache")

// ErrNoRatesParsed is returned when a rates document yields zero entries.
// An empty document is a parse failure, never an empty result.
var ErrNoRatesParsed = errors.New("no rates parsed from document")

// CurrencyUnavailableError indicates a queried currency is neither the
// base currency for the requested date nor in a supported set.
type CurrencyUnavailableError struct {
	Currency string
}

func (e *CurrencyUnavailableError) Error() string {
	return fmt.Sprintf("no rates available for %s", e.Currency)
}

// UnknownRateError indicates cross-rate derivation could not find one or
// both pivot legs for the requested pair.
type UnknownRateError struct {
	From string
	To   string
	Date *time.Time
}

func (e *UnknownRateError) Error() string {
	msg := fmt.Sprintf("no conversion rate known for '%s' -> '%s'", e.From, e.To)
	if e.Date != nil {
		msg += " on " + e.Date.Format("2006-01-02")
	}
	return msg
}

// UnknownFormatError indicates an unrecognized export/import format. It is
// raised before any I/O or store mutation happens.
type UnknownFormatError struct {
	Format string
}

func (e *UnknownFormatError) Error() string {
	return fmt.Sprintf("unknown rate format %q", e.Format)
}
