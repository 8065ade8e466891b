// Package handler internal/infrastructure/handler/rate_handler.go
package handler

import (
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/slbug/nbrb-currency/internal/application/service"
	"github.com/slbug/nbrb-currency/internal/domain/entity"
	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
	"github.com/slbug/nbrb-currency/internal/infrastructure/middleware"
	"github.com/slbug/nbrb-currency/internal/infrastructure/serialize"
)

// RateHandler handles HTTP requests for rate resolution, refresh and
// export/import
type RateHandler struct {
	service *service.RateService
	logger  logger.Logger
}

// NewRateHandler creates a new rate handler
func NewRateHandler(service *service.RateService, log logger.Logger) *RateHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &RateHandler{
		service: service,
		logger:  log,
	}
}

// GetRate resolves the exchange rate between two currencies, optionally
// on a historical date.
func (h *RateHandler) GetRate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	vars := mux.Vars(r)
	from := vars["from"]
	to := vars["to"]

	date, ok := parseOptionalDate(w, h.logger, r.URL.Query().Get("date"), requestID)
	if !ok {
		return
	}

	h.logger.Info("Handling rate request", map[string]interface{}{
		"request_id": requestID,
		"from":       from,
		"to":         to,
		"date":       r.URL.Query().Get("date"),
	})

	rate, err := h.service.ResolveRate(from, to, date)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	resp := RateResponse{
		From: from,
		To:   to,
		Rate: rate.StringFixed(entity.DecimalPrecision),
	}
	if date != nil {
		resp.Date = date.Format("2006-01-02")
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RefreshRates triggers a fetch-and-ingest of the current rates document.
func (h *RateHandler) RefreshRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	h.logger.Info("Handling rates refresh request", map[string]interface{}{
		"request_id": requestID,
	})

	if err := h.service.UpdateRates(r.Context()); err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	resp := RefreshResponse{
		RatesUpdatedAt: h.service.RatesUpdatedAt().Format("2006-01-02"),
		LastUpdated:    h.service.LastUpdated().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RefreshHistoricalRates triggers a fetch-and-ingest of the rates
// document for a specific date.
func (h *RateHandler) RefreshHistoricalRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	date, ok := parseOptionalDate(w, h.logger, r.URL.Query().Get("date"), requestID)
	if !ok {
		return
	}

	h.logger.Info("Handling historical rates refresh request", map[string]interface{}{
		"request_id": requestID,
		"date":       r.URL.Query().Get("date"),
	})

	if err := h.service.UpdateHistoricalRates(r.Context(), date); err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	resp := RefreshResponse{
		RatesUpdatedAt: h.service.HistoricalRatesUpdatedAt().Format("2006-01-02"),
		LastUpdated:    h.service.HistoricalLastUpdated().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// ExportRates dumps the rate table in the requested format.
func (h *RateHandler) ExportRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	format := serialize.Format(r.URL.Query().Get("format"))

	h.logger.Info("Handling rates export request", map[string]interface{}{
		"request_id": requestID,
		"format":     string(format),
	})

	data, err := h.service.ExportRates(format)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	w.Header().Set("Content-Type", contentTypeFor(format))
	w.Write(data)
}

// ImportRates replays an exported dump into the rate table.
func (h *RateHandler) ImportRates(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	format := serialize.Format(r.URL.Query().Get("format"))

	data, err := io.ReadAll(r.Body)
	if err != nil {
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be read", http.StatusBadRequest, requestID)
		return
	}

	h.logger.Info("Handling rates import request", map[string]interface{}{
		"request_id": requestID,
		"format":     string(format),
		"bytes":      len(data),
	})

	if err := h.service.ImportRates(format, data); err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// RegisterRoutes registers the rate handler routes
func (h *RateHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/rates/refresh", h.RefreshRates).Methods("POST")
	router.HandleFunc("/rates/refresh/historical", h.RefreshHistoricalRates).Methods("POST")
	router.HandleFunc("/rates/export", h.ExportRates).Methods("GET")
	router.HandleFunc("/rates/import", h.ImportRates).Methods("POST")
	router.HandleFunc("/rates/{from}/{to}", h.GetRate).Methods("GET")

	h.logger.Info("Rate routes registered", map[string]interface{}{
		"routes": []string{
			"POST /rates/refresh",
			"POST /rates/refresh/historical",
			"GET /rates/export",
			"POST /rates/import",
			"GET /rates/{from}/{to}",
		},
	})
}

// parseOptionalDate validates an optional YYYY-MM-DD query parameter,
// writing a 400 response itself when the value is malformed.
func parseOptionalDate(w http.ResponseWriter, log logger.Logger, value, requestID string) (*time.Time, bool) {
	if value == "" {
		return nil, true
	}

	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		sendErrorResponse(w, log, "Invalid date format",
			"Date must be in YYYY-MM-DD format", http.StatusBadRequest, requestID)
		return nil, false
	}
	return entity.DayPtr(parsed), true
}

func contentTypeFor(format serialize.Format) string {
	switch format {
	case serialize.FormatJSON:
		return "application/json"
	case serialize.FormatYAML:
		return "application/yaml"
	default:
		return "application/octet-stream"
	}
}
