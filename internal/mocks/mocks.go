// internal/mocks/mocks.go
package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"
)

// MockRatesSource mocks the RatesSource interface
type MockRatesSource struct {
	mock.Mock
}

func (m *MockRatesSource) FetchCurrent(ctx context.Context) ([]byte, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockRatesSource) FetchOnDate(ctx context.Context, date time.Time) ([]byte, error) {
	args := m.Called(ctx, date)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

// MockDocumentCache mocks the DocumentCache interface
type MockDocumentCache struct {
	mock.Mock
}

func (m *MockDocumentCache) Save(key string, raw []byte) error {
	args := m.Called(key, raw)
	return args.Error(0)
}

func (m *MockDocumentCache) Load(key string) ([]byte, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}
