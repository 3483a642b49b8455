package source

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"catsync/internal/config"
)

const sampleCSV = "Nome;Preço regular\nArroz Branco 5KG;19,90\n"

// fastRetryPolicy keeps test retries near-instant.
func fastRetryPolicy(maxAttempts int) *config.RetryPolicy {
	return &config.RetryPolicy{
		MaxAttempts:       maxAttempts,
		InitialDelayMs:    1,
		MaxDelayMs:        5,
		BackoffMultiplier: 2.0,
		TimeoutSec:        5,
	}
}

func TestFetch_Success(t *testing.T) {
	var gotAccept string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "text/csv")
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	fetcher := NewFetcherWithConfig(fastRetryPolicy(3), 1)

	content, err := fetcher.Fetch(server.URL)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}

	if string(content) != sampleCSV {
		t.Errorf("Unexpected content: %q", content)
	}

	if !strings.Contains(gotAccept, "text/csv") {
		t.Errorf("Expected csv Accept header, got %q", gotAccept)
	}
}

func TestFetchWithMetrics_RetriesOnServiceUnavailable(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)

			return
		}
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	fetcher := NewFetcherWithConfig(fastRetryPolicy(3), 1)

	content, statusCode, _, err := fetcher.FetchWithMetrics(server.URL)
	if err != nil {
		t.Fatalf("Expected success after retries, got: %v", err)
	}

	if statusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", statusCode)
	}

	if calls.Load() != 3 {
		t.Errorf("Expected 3 attempts, got %d", calls.Load())
	}

	if string(content) != sampleCSV {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestFetchWithMetrics_NoRetryOnNotFound(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	fetcher := NewFetcherWithConfig(fastRetryPolicy(3), 1)

	_, statusCode, _, err := fetcher.FetchWithMetrics(server.URL)
	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("Expected ErrUnexpectedStatusCode, got: %v", err)
	}

	if statusCode != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", statusCode)
	}

	if calls.Load() != 1 {
		t.Errorf("Expected single attempt for 404, got %d", calls.Load())
	}
}

func TestFetchWithMetrics_ExhaustsRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	fetcher := NewFetcherWithConfig(fastRetryPolicy(2), 1)

	_, _, _, err := fetcher.FetchWithMetrics(server.URL)
	if !errors.Is(err, ErrUnexpectedStatusCode) {
		t.Fatalf("Expected ErrUnexpectedStatusCode, got: %v", err)
	}

	if calls.Load() != 2 {
		t.Errorf("Expected 2 attempts, got %d", calls.Load())
	}
}

func TestFetch_ResponseTooLarge(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Just past the 1 MB cap.
		w.Write(make([]byte, 1024*1024+1))
	}))
	defer server.Close()

	fetcher := NewFetcherWithConfig(fastRetryPolicy(1), 1)

	_, err := fetcher.Fetch(server.URL)
	if !errors.Is(err, ErrResponseTooLarge) {
		t.Fatalf("Expected ErrResponseTooLarge, got: %v", err)
	}
}

func TestReadLocalFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "items.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	fetcher := NewFetcher()

	content, err := fetcher.ReadLocalFile(path)
	if err != nil {
		t.Fatalf("ReadLocalFile failed: %v", err)
	}

	if string(content) != sampleCSV {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestReadLocalFile_Missing(t *testing.T) {
	fetcher := NewFetcher()

	_, err := fetcher.ReadLocalFile("/nonexistent/items.csv")
	if err == nil {
		t.Fatal("Expected error for missing file, got nil")
	}
}

func TestLoad_PrefersLocalFile(t *testing.T) {
	tmpDir := t.TempDir()
	path := filepath.Join(tmpDir, "items.csv")
	if err := os.WriteFile(path, []byte(sampleCSV), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	fetcher := NewFetcher()

	content, err := fetcher.Load(&config.SourceConfig{File: path, URL: "http://unreachable.invalid"})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if string(content) != sampleCSV {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestLoad_URL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	fetcher := NewFetcherWithConfig(fastRetryPolicy(1), 1)

	content, err := fetcher.Load(&config.SourceConfig{URL: server.URL})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if string(content) != sampleCSV {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestDownload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	tmpDir := t.TempDir()
	dest := filepath.Join(tmpDir, "staging", "items.csv")

	fetcher := NewFetcherWithConfig(fastRetryPolicy(1), 1)

	size, _, err := fetcher.Download(server.URL, dest)
	if err != nil {
		t.Fatalf("Download failed: %v", err)
	}

	if size != int64(len(sampleCSV)) {
		t.Errorf("Expected size %d, got %d", len(sampleCSV), size)
	}

	written, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("Expected staged file: %v", err)
	}

	if string(written) != sampleCSV {
		t.Errorf("Staged content mismatch: %q", written)
	}
}

func TestIsRetryableStatus(t *testing.T) {
	tests := []struct {
		statusCode int
		expected   bool
	}{
		{http.StatusRequestTimeout, true},
		{http.StatusTooManyRequests, true},
		{http.StatusServiceUnavailable, true},
		{http.StatusGatewayTimeout, true},
		{http.StatusOK, false},
		{http.StatusNotFound, false},
		{http.StatusUnauthorized, false},
		{http.StatusInternalServerError, false},
	}

	for _, tt := range tests {
		if got := isRetryableStatus(tt.statusCode); got != tt.expected {
			t.Errorf("isRetryableStatus(%d) = %v, want %v", tt.statusCode, got, tt.expected)
		}
	}
}
