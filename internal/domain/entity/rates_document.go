package entity

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// RateObservation is one published quote: a currency, its official rate
// against the day's base currency, and the scale the rate applies to.
// Rate and scale stay textual until ingestion divides them at fixed
// precision, so nothing is lost to float conversion on the way in.
type RateObservation struct {
	Currency     string
	OfficialRate string
	Scale        string
}

// RatesDocument is a parsed rates publication grouped by calendar date.
// UpdatedAt is the first date encountered while parsing.
type RatesDocument struct {
	Rates     map[string][]RateObservation
	UpdatedAt time.Time
}

// rateRecord mirrors one element of the bank's JSON response.
type rateRecord struct {
	Date         string      `json:"Date"`
	Abbreviation string      `json:"Cur_Abbreviation"`
	OfficialRate json.Number `json:"Cur_OfficialRate"`
	Scale        json.Number `json:"Cur_Scale"`
}

// ParseRatesDocument decodes a raw bank response into a RatesDocument.
// A document that yields zero observations is rejected with ErrNoRatesParsed.
func ParseRatesDocument(raw []byte) (*RatesDocument, error) {
	var records []rateRecord
	if err := json.Unmarshal(raw, &records); err != nil {
		return nil, fmt.Errorf("failed to decode rates document: %w", err)
	}

	doc := &RatesDocument{Rates: make(map[string][]RateObservation)}

	for _, rec := range records {
		date, err := parseRecordDate(rec.Date)
		if err != nil {
			return nil, fmt.Errorf("failed to parse rate date %q: %w", rec.Date, err)
		}

		if doc.UpdatedAt.IsZero() {
			doc.UpdatedAt = date
		}

		key := date.Format("2006-01-02")
		doc.Rates[key] = append(doc.Rates[key], RateObservation{
			Currency:     rec.Abbreviation,
			OfficialRate: rec.OfficialRate.String(),
			Scale:        rec.Scale.String(),
		})
	}

	if len(doc.Rates) == 0 || doc.UpdatedAt.IsZero() {
		return nil, ErrNoRatesParsed
	}

	return doc, nil
}

// Dates returns the document's date keys in ascending order so ingestion
// is deterministic.
func (d *RatesDocument) Dates() []string {
	dates := make([]string, 0, len(d.Rates))
	for date := range d.Rates {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	return dates
}

// The bank stamps dates as full timestamps; older archives use bare dates.
func parseRecordDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return Day(t), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, err
	}
	return Day(t), nil
}
