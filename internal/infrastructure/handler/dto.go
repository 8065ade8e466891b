package handler

// RateResponse represents the response for the rate resolution endpoint
type RateResponse struct {
	From string `json:"from"`
	To   string `json:"to"`
	Rate string `json:"rate"`
	Date string `json:"date,omitempty"`
}

// ConvertRequest represents the request body for the convert endpoint
type ConvertRequest struct {
	AmountMinor int64  `json:"amount_minor"`
	From        string `json:"from"`
	To          string `json:"to"`
	Date        string `json:"date,omitempty"`
}

// ConvertResponse represents the response for the convert endpoint
type ConvertResponse struct {
	AmountMinor int64  `json:"amount_minor"`
	From        string `json:"from"`
	To          string `json:"to"`
	Rate        string `json:"rate"`
	Date        string `json:"date,omitempty"`
}

// RefreshResponse represents the response for the refresh endpoints
type RefreshResponse struct {
	RatesUpdatedAt string `json:"rates_updated_at"`
	LastUpdated    string `json:"last_updated"`
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}
