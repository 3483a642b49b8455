// Package source retrieves the catalog export the pipeline runs on,
// either from a local file or over HTTP with config-driven retry logic.
package source

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"catsync/internal/config"
)

// ErrUnexpectedStatusCode indicates an HTTP response with unexpected status.
var ErrUnexpectedStatusCode = errors.New("unexpected status code")

// ErrResponseTooLarge indicates the export exceeded the configured cap.
var ErrResponseTooLarge = errors.New("response exceeds size limit")

// Fetcher downloads the export with retry and size limits.
type Fetcher struct {
	client      *http.Client
	retryPolicy *config.RetryPolicy
	maxSizeMb   int
}

// NewFetcher creates a fetcher with default retry policy.
func NewFetcher() *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		retryPolicy: &config.RetryPolicy{
			MaxAttempts:       3,
			InitialDelayMs:    500,
			MaxDelayMs:        30000,
			BackoffMultiplier: 2.0,
			TimeoutSec:        30,
		},
		maxSizeMb: 64,
	}
}

// NewFetcherWithConfig creates a fetcher with a custom retry policy.
func NewFetcherWithConfig(retryPolicy *config.RetryPolicy, maxSizeMb int) *Fetcher {
	timeout := time.Duration(retryPolicy.TimeoutSec) * time.Second

	return &Fetcher{
		client: &http.Client{
			Timeout: timeout,
		},
		retryPolicy: retryPolicy,
		maxSizeMb:   maxSizeMb,
	}
}

// FetchWithMetrics returns (content, statusCode, duration, error).
func (f *Fetcher) FetchWithMetrics(url string) ([]byte, int, time.Duration, error) {
	var lastErr error

	var lastStatusCode int

	totalDuration := time.Duration(0)

	for attempt := 1; attempt <= f.retryPolicy.MaxAttempts; attempt++ {
		startTime := time.Now()

		req, err := http.NewRequest(http.MethodGet, url, http.NoBody)
		if err != nil {
			lastErr = fmt.Errorf("failed to create request: %w", err)

			continue
		}

		req.Header.Set("User-Agent", "catsync/1.0")
		req.Header.Set("Accept", "text/csv,text/plain;q=0.9,*/*;q=0.8")

		resp, err := f.client.Do(req)
		duration := time.Since(startTime)
		totalDuration += duration

		if err != nil {
			lastErr = fmt.Errorf("request failed (attempt %d/%d): %w", attempt, f.retryPolicy.MaxAttempts, err)

			if attempt < f.retryPolicy.MaxAttempts {
				delay := f.retryPolicy.GetRetryDelay(attempt)
				if delay > 0 {
					time.Sleep(delay)
				}
			}

			continue
		}

		lastStatusCode = resp.StatusCode

		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()

			lastErr = fmt.Errorf("%w: %d", ErrUnexpectedStatusCode, resp.StatusCode)

			// Only retry on temporary failures
			if attempt < f.retryPolicy.MaxAttempts && isRetryableStatus(resp.StatusCode) {
				delay := f.retryPolicy.GetRetryDelay(attempt)
				if delay > 0 {
					time.Sleep(delay)
				}

				continue
			}

			break
		}

		// Read one byte past the cap so truncation is detected
		// rather than silently shortening the catalog.
		limit := int64(f.maxSizeMb) * 1024 * 1024
		reader := io.LimitReader(resp.Body, limit+1)

		body, err := io.ReadAll(reader)
		resp.Body.Close()

		if err != nil {
			lastErr = fmt.Errorf("failed to read response body: %w", err)

			continue
		}

		if int64(len(body)) > limit {
			return nil, resp.StatusCode, totalDuration, fmt.Errorf("%w: over %d MB", ErrResponseTooLarge, f.maxSizeMb)
		}

		return body, resp.StatusCode, totalDuration, nil
	}

	return nil, lastStatusCode, totalDuration, lastErr
}

// Fetch downloads and returns content from the given URL.
func (f *Fetcher) Fetch(url string) ([]byte, error) {
	content, _, _, err := f.FetchWithMetrics(url)

	return content, err
}

// ReadLocalFile reads content from a local file path.
func (f *Fetcher) ReadLocalFile(filePath string) ([]byte, error) {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read local file %s: %w", filePath, err)
	}

	return content, nil
}

// Load resolves the configured source, preferring the local file.
func (f *Fetcher) Load(src *config.SourceConfig) ([]byte, error) {
	if src.IsLocalFile() {
		return f.ReadLocalFile(src.File)
	}

	return f.Fetch(src.URL)
}

// Download fetches the export and stages it at destPath, creating
// parent directories as needed. Returns (bytes written, duration, error).
func (f *Fetcher) Download(url, destPath string) (int64, time.Duration, error) {
	content, _, duration, err := f.FetchWithMetrics(url)
	if err != nil {
		return 0, duration, err
	}

	if dir := filepath.Dir(destPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, duration, fmt.Errorf("failed to create staging dir: %w", err)
		}
	}

	if err := os.WriteFile(destPath, content, 0o644); err != nil {
		return 0, duration, fmt.Errorf("failed to write %s: %w", destPath, err)
	}

	return int64(len(content)), duration, nil
}

// isRetryableStatus determines if we should retry based on HTTP status code.
func isRetryableStatus(statusCode int) bool {
	// Retry on temporary failures
	switch statusCode {
	case http.StatusServiceUnavailable: // 503
		return true
	case http.StatusGatewayTimeout: // 504
		return true
	case http.StatusTooManyRequests: // 429
		return true
	case http.StatusRequestTimeout: // 408
		return true
	}

	return false
}
