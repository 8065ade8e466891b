package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/slbug/nbrb-currency/internal/domain/entity"
	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
)

// sendErrorResponse writes a standardized JSON error response
func sendErrorResponse(w http.ResponseWriter, log logger.Logger, message, description string, statusCode int, requestID string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Error:       message,
		Status:      statusCode,
		Description: description,
		RequestID:   requestID,
	}

	log.Debug("Sending error response", map[string]interface{}{
		"request_id":  requestID,
		"status_code": statusCode,
		"message":     message,
	})

	json.NewEncoder(w).Encode(resp)
}

// sendDomainError maps typed domain errors onto HTTP statuses.
func sendDomainError(w http.ResponseWriter, log logger.Logger, err error, requestID string) {
	var unavailable *entity.CurrencyUnavailableError
	var unknownRate *entity.UnknownRateError
	var unknownFormat *entity.UnknownFormatError

	switch {
	case errors.As(err, &unavailable):
		sendErrorResponse(w, log, "Currency unavailable", err.Error(),
			http.StatusUnprocessableEntity, requestID)
	case errors.As(err, &unknownRate):
		sendErrorResponse(w, log, "Unknown rate", err.Error(),
			http.StatusNotFound, requestID)
	case errors.As(err, &unknownFormat):
		sendErrorResponse(w, log, "Unknown rate format",
			"Supported formats are json, yaml and binary", http.StatusBadRequest, requestID)
	case errors.Is(err, entity.ErrInvalidCache):
		sendErrorResponse(w, log, "Rates cache unavailable",
			"No cached rates document exists for the requested key", http.StatusServiceUnavailable, requestID)
	case errors.Is(err, entity.ErrNoRatesParsed):
		sendErrorResponse(w, log, "Malformed rates document",
			"The rates source returned a document with no parseable entries", http.StatusBadGateway, requestID)
	default:
		log.Error("Unhandled service error", map[string]interface{}{
			"request_id": requestID,
			"error":      err.Error(),
		})
		sendErrorResponse(w, log, "Service unavailable",
			"Unable to complete the request. Please try again later.", http.StatusServiceUnavailable, requestID)
	}
}
