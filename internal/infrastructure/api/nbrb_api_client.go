package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/slbug/nbrb-currency/internal/infrastructure/logger"
)

const (
	nbrbBaseURL = "https://api.nbrb.by"
	ratesPath   = "/exrates/rates"
)

// NBRBAPIClient fetches daily rate documents from the National Bank of
// the Republic of Belarus. It returns raw response bodies so they can be
// cached and re-parsed later.
type NBRBAPIClient struct {
	baseURL    string
	httpClient *http.Client
	logger     logger.Logger
}

// NewNBRBAPIClient creates a new NBRB API client
func NewNBRBAPIClient(httpClient *http.Client, log logger.Logger) *NBRBAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{
			Timeout: 10 * time.Second,
		}
	}
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &NBRBAPIClient{
		baseURL:    nbrbBaseURL,
		httpClient: httpClient,
		logger:     log,
	}
}

// FetchCurrent retrieves the current daily rates document.
func (c *NBRBAPIClient) FetchCurrent(ctx context.Context) ([]byte, error) {
	return c.fetch(ctx, fmt.Sprintf("%s%s?periodicity=0", c.baseURL, ratesPath))
}

// FetchOnDate retrieves the rates document effective on the given date.
func (c *NBRBAPIClient) FetchOnDate(ctx context.Context, date time.Time) ([]byte, error) {
	return c.fetch(ctx, fmt.Sprintf("%s%s?ondate=%s&periodicity=0",
		c.baseURL, ratesPath, date.Format("2006-01-02")))
}

func (c *NBRBAPIClient) fetch(ctx context.Context, reqURL string) ([]byte, error) {
	c.logger.Debug("Fetching rates document", map[string]interface{}{
		"url": reqURL,
	})

	// Execute request with retry logic
	var resp *http.Response
	var err error
	maxRetries := 3

	for attempt := 1; attempt <= maxRetries; attempt++ {
		var req *http.Request
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Add("Accept", "application/json")

		resp, err = c.httpClient.Do(req)
		if err == nil {
			break
		}

		if attempt < maxRetries {
			// Quadratic backoff between attempts
			backoff := time.Duration(attempt*attempt) * time.Second
			c.logger.Warn("Rates request failed, retrying", map[string]interface{}{
				"attempt":     attempt,
				"max_retries": maxRetries,
				"backoff":     backoff.String(),
				"error":       err.Error(),
			})
			time.Sleep(backoff)
		}
	}

	if err != nil {
		return nil, fmt.Errorf("failed to execute request after %d attempts: %w", maxRetries, err)
	}

	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("Error closing response body", map[string]interface{}{
				"error": closeErr.Error(),
			})
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API returned error status: %d, body: %s", resp.StatusCode, body)
	}

	c.logger.Debug("Rates document fetched", map[string]interface{}{
		"url":   reqURL,
		"bytes": len(body),
	})

	return body, nil
}
