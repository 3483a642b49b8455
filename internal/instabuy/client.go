// Package instabuy provides client functionality for the Instabuy store
// products API.
package instabuy

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"catsync/internal/logger"
	"catsync/internal/models"
)

// API errors.
var (
	ErrEmptyBatch = errors.New("batch has no products")
)

// Client defines the interface for batch submission.
type Client interface {
	PutProducts(payload models.BatchPayload) (*PutResult, error)
}

// Ensure HTTPClient implements Client.
var _ Client = (*HTTPClient)(nil)

// PutResult carries the API's answer to one batch submission. It is
// returned for every completed HTTP round trip, success or not;
// transport failures return an error instead.
type PutResult struct {
	StatusCode     int
	Status         string
	Message        string
	ItemsProcessed int // -1 when the response did not say
	Body           string
}

// Accepted reports whether the API acknowledged the batch.
func (r *PutResult) Accepted() bool {
	return r.StatusCode >= 200 && r.StatusCode < 300
}

// APIResponse mirrors the store API envelope. Unknown fields are ignored.
type APIResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// HTTPClient submits product batches over HTTP.
type HTTPClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *logger.Logger
}

// NewHTTPClient creates a client for the given endpoint.
func NewHTTPClient(endpoint, apiKey string, log *logger.Logger) *HTTPClient {
	return NewHTTPClientWithTimeout(endpoint, apiKey, 30*time.Second, log)
}

// NewHTTPClientWithTimeout creates a client with a custom request timeout.
func NewHTTPClientWithTimeout(endpoint, apiKey string, timeout time.Duration, log *logger.Logger) *HTTPClient {
	return &HTTPClient{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: log,
	}
}

// PutProducts sends one batch with a single PUT request. There is no
// retry here: the caller decides what a failed batch means.
func (c *HTTPClient) PutProducts(payload models.BatchPayload) (*PutResult, error) {
	if len(payload.Products) == 0 {
		return nil, ErrEmptyBatch
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal batch: %w", err)
	}

	req, err := http.NewRequest(http.MethodPut, c.endpoint, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	if c.logger != nil {
		c.logger.Debug(fmt.Sprintf("PUT %s with %d products", c.endpoint, len(payload.Products)))
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close response body: %w", closeErr)
		}
	}()

	// Limit response size to 10MB
	reader := io.LimitReader(resp.Body, 10*1024*1024)

	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &PutResult{
		StatusCode:     resp.StatusCode,
		ItemsProcessed: -1,
		Body:           snippet(string(body), 500),
	}

	var envelope APIResponse
	if jsonErr := json.Unmarshal(body, &envelope); jsonErr == nil {
		result.Status = envelope.Status
		result.Message = envelope.Message
		result.ItemsProcessed = countFromData(envelope.Data)
	}

	return result, nil
}

// countFromData extracts how many items the API reports processing.
// The envelope carries either the processed products as an array or an
// object with a count field. Anything else reads as unknown (-1).
func countFromData(data json.RawMessage) int {
	if len(data) == 0 {
		return -1
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err == nil {
		return len(items)
	}

	var counted struct {
		Count *int `json:"count"`
	}
	if err := json.Unmarshal(data, &counted); err == nil && counted.Count != nil {
		return *counted.Count
	}

	return -1
}

func snippet(s string, max int) string {
	if len(s) <= max {
		return s
	}

	return s[:max] + "..."
}
