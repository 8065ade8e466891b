package service

import (
	"context"
	"time"
)

// RatesSource defines the interface for fetching raw rate documents from
// the publishing bank. Implementations return the response body verbatim
// so it can be cached and re-parsed later.
type RatesSource interface {
	// FetchCurrent retrieves the current daily rates document.
	FetchCurrent(ctx context.Context) ([]byte, error)

	// FetchOnDate retrieves the rates document effective on the given date.
	FetchOnDate(ctx context.Context, date time.Time) ([]byte, error)
}

// DocumentCache defines the interface for persisting raw rate documents
// so an earlier fetch can be replayed without touching the network.
type DocumentCache interface {
	Save(key string, raw []byte) error
	Load(key string) ([]byte, error)
}
