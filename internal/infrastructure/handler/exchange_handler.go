// Package handler internal/infrastructure/handler/exchange_handler.go
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/slbug/nbrb-currency/internal/application/service"
	"github.com/slbug/nbrb-currency/internal/domain/entity"
	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
	"github.com/slbug/nbrb-currency/internal/infrastructure/middleware"
)

// ExchangeHandler handles HTTP requests for currency conversion
type ExchangeHandler struct {
	service *service.ExchangeService
	logger  logger.Logger
}

// NewExchangeHandler creates a new exchange handler
func NewExchangeHandler(service *service.ExchangeService, log logger.Logger) *ExchangeHandler {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &ExchangeHandler{
		service: service,
		logger:  log,
	}
}

// Convert handles converting an amount of minor units between currencies
func (h *ExchangeHandler) Convert(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())

	var req ConvertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid request body", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, h.logger, "Invalid request body",
			"The request body could not be parsed as valid JSON", http.StatusBadRequest, requestID)
		return
	}

	// Currency codes should be 3 characters
	if len(req.From) != 3 || len(req.To) != 3 {
		h.logger.Warn("Invalid currency code", map[string]interface{}{
			"request_id": requestID,
			"from":       req.From,
			"to":         req.To,
		})
		sendErrorResponse(w, h.logger, "Invalid currency code",
			"Currency codes should be 3 characters (e.g., USD, EUR, BYN)", http.StatusBadRequest, requestID)
		return
	}

	date, ok := parseOptionalDate(w, h.logger, req.Date, requestID)
	if !ok {
		return
	}

	h.logger.Info("Handling convert request", map[string]interface{}{
		"request_id":   requestID,
		"amount_minor": req.AmountMinor,
		"from":         req.From,
		"to":           req.To,
		"date":         req.Date,
	})

	result, err := h.service.Convert(r.Context(), req.AmountMinor, req.From, req.To, date)
	if err != nil {
		sendDomainError(w, h.logger, err, requestID)
		return
	}

	resp := ConvertResponse{
		AmountMinor: result.AmountMinor,
		From:        result.From,
		To:          result.To,
		Rate:        result.Rate.StringFixed(entity.DecimalPrecision),
		Date:        req.Date,
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// RegisterRoutes registers the exchange handler routes
func (h *ExchangeHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/convert", h.Convert).Methods("POST")

	h.logger.Info("Exchange routes registered", map[string]interface{}{
		"routes": []string{
			"POST /convert",
		},
	})
}
