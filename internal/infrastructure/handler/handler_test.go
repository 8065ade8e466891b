package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/slbug/nbrb-currency/internal/application/service"
	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
	"github.com/slbug/nbrb-currency/internal/infrastructure/middleware"
	"github.com/slbug/nbrb-currency/internal/infrastructure/store"
	"github.com/slbug/nbrb-currency/internal/mocks"
	"github.com/stretchr/testify/assert"
	testifymock "github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) (*httptest.Server, *service.RateService, *mocks.MockRatesSource) {
	t.Helper()

	rateStore := store.NewMemoryRateStore()
	source := new(mocks.MockRatesSource)
	log := logger.NewJSONLogger(nil, logger.ErrorLevel)

	rateService := service.NewRateService(rateStore, source, nil, log)
	exchangeService := service.NewExchangeService(rateService, log)

	router := mux.NewRouter()
	router.Use(middleware.RequestIDMiddleware)
	NewRateHandler(rateService, log).RegisterRoutes(router)
	NewExchangeHandler(exchangeService, log).RegisterRoutes(router)

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, rateService, source
}

func day(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func TestGetRateEndpoint(t *testing.T) {
	t.Run("Resolves a cross rate", func(t *testing.T) {
		server, rates, _ := newTestServer(t)
		rates.SetRate("USD", "BYN", decimal.RequireFromString("2.50"), nil)
		rates.SetRate("EUR", "BYN", decimal.RequireFromString("2.80"), nil)

		resp, err := http.Get(server.URL + "/rates/USD/EUR")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body RateResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "0.89286", body.Rate)
		assert.Empty(t, body.Date)
	})

	t.Run("Resolves a historical rate", func(t *testing.T) {
		server, rates, _ := newTestServer(t)
		rates.SetRate("USD", "BYR", decimal.RequireFromString("14490"), day(2015, 1, 1))

		resp, err := http.Get(server.URL + "/rates/USD/BYR?date=2015-01-01")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body RateResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "14490.00000", body.Rate)
		assert.Equal(t, "2015-01-01", body.Date)
	})

	t.Run("Unknown rate maps to 404 with request ID", func(t *testing.T) {
		server, rates, _ := newTestServer(t)
		rates.SetRate("USD", "BYN", decimal.RequireFromString("2.50"), nil)

		resp, err := http.Get(server.URL + "/rates/USD/EUR")
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusNotFound, resp.StatusCode)

		var body ErrorResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "Unknown rate", body.Error)
		assert.Contains(t, body.Description, "USD")
		assert.Contains(t, body.Description, "EUR")
		assert.NotEmpty(t, body.RequestID)
	})

	t.Run("Unsupported currency maps to 422", func(t *testing.T) {
		server, _, _ := newTestServer(t)

		resp, err := http.Get(server.URL + "/rates/XXX/USD")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
	})

	t.Run("Malformed date maps to 400", func(t *testing.T) {
		server, _, _ := newTestServer(t)

		resp, err := http.Get(server.URL + "/rates/USD/EUR?date=november")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestRefreshEndpoints(t *testing.T) {
	doc := `[{"Date":"2024-11-01T00:00:00","Cur_Abbreviation":"USD","Cur_Scale":1,"Cur_OfficialRate":2.50}]`

	t.Run("Refresh ingests the current document", func(t *testing.T) {
		server, rates, source := newTestServer(t)
		source.On("FetchCurrent", testifymock.Anything).Return([]byte(doc), nil).Once()

		resp, err := http.Post(server.URL+"/rates/refresh", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body RefreshResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "2024-11-01", body.RatesUpdatedAt)
		assert.NotEmpty(t, body.LastUpdated)

		_, err = rates.ResolveRate("USD", "BYN", nil)
		assert.NoError(t, err)
	})

	t.Run("Historical refresh ingests a dated document", func(t *testing.T) {
		server, rates, source := newTestServer(t)
		source.On("FetchOnDate", testifymock.Anything, *day(2024, 11, 1)).Return([]byte(doc), nil).Once()

		resp, err := http.Post(server.URL+"/rates/refresh/historical?date=2024-11-01", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		_, err = rates.ResolveRate("USD", "BYN", day(2024, 11, 1))
		assert.NoError(t, err)
	})

	t.Run("Empty upstream document maps to 502", func(t *testing.T) {
		server, _, source := newTestServer(t)
		source.On("FetchCurrent", testifymock.Anything).Return([]byte(`[]`), nil).Once()

		resp, err := http.Post(server.URL+"/rates/refresh", "application/json", nil)
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadGateway, resp.StatusCode)
	})
}

func TestConvertEndpoint(t *testing.T) {
	t.Run("Converts minor units", func(t *testing.T) {
		server, rates, _ := newTestServer(t)
		rates.SetRate("USD", "BYN", decimal.RequireFromString("2.50"), nil)
		rates.SetRate("EUR", "BYN", decimal.RequireFromString("2.80"), nil)

		reqBody := `{"amount_minor":10000,"from":"USD","to":"EUR"}`
		resp, err := http.Post(server.URL+"/convert", "application/json", bytes.NewBufferString(reqBody))
		require.NoError(t, err)
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ConvertResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, int64(8929), body.AmountMinor)
		assert.Equal(t, "0.89286", body.Rate)
	})

	t.Run("Rejects malformed bodies and codes", func(t *testing.T) {
		server, _, _ := newTestServer(t)

		resp, err := http.Post(server.URL+"/convert", "application/json", bytes.NewBufferString(`{broken`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, err = http.Post(server.URL+"/convert", "application/json",
			bytes.NewBufferString(`{"amount_minor":1,"from":"US","to":"EURO"}`))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestExportImportEndpoints(t *testing.T) {
	t.Run("Export and import round trip over HTTP", func(t *testing.T) {
		server, rates, _ := newTestServer(t)
		rates.SetRate("USD", "BYN", decimal.RequireFromString("2.50"), nil)
		rates.SetRate("EUR", "BYN", decimal.RequireFromString("2.80"), nil)

		resp, err := http.Get(server.URL + "/rates/export?format=json")
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		dump := new(bytes.Buffer)
		_, err = dump.ReadFrom(resp.Body)
		resp.Body.Close()
		require.NoError(t, err)

		fresh, freshRates, _ := newTestServer(t)
		resp, err = http.Post(fresh.URL+"/rates/import?format=json", "application/json", dump)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusNoContent, resp.StatusCode)

		rate, err := freshRates.ResolveRate("USD", "EUR", nil)
		require.NoError(t, err)
		assert.Equal(t, "0.89286", rate.StringFixed(5))
	})

	t.Run("Unknown format maps to 400", func(t *testing.T) {
		server, _, _ := newTestServer(t)

		resp, err := http.Get(server.URL + "/rates/export?format=csv")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		resp, err = http.Post(server.URL+"/rates/import?format=csv", "text/csv", bytes.NewBufferString("x"))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

