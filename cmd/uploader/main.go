// Package main provides the uploader command-line tool for replaying
// stored batch files against the store API.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"catsync/internal/audit"
	"catsync/internal/catalog"
	"catsync/internal/config"
	"catsync/internal/instabuy"
	"catsync/internal/logger"
	"catsync/internal/models"
	"catsync/internal/report"
	"catsync/internal/validator"
)

func main() {
	// Command line flags
	input := flag.String("input", "", "Batch file or directory of batch files (required)")
	endpoint := flag.String("endpoint", "https://api.instabuy.com.br/store/products", "Store API endpoint URL")
	apiKey := flag.String("api-key", os.Getenv("INSTABUY_API_KEY"), "API key for the destination store")
	auditPath := flag.String("audit", "logs/audit.log", "Audit trail file")
	timeoutSec := flag.Int("timeout-sec", 30, "Per-request timeout in seconds")
	validateOnly := flag.Bool("validate-only", false, "Validate batch files without submitting")

	flag.Parse()

	// Validate required flags
	if *input == "" {
		fmt.Println("Error: --input flag is required")
		fmt.Println("Usage: uploader --input <batches dir or batch_N.json> [options]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewLogger("info")
	log.Info(fmt.Sprintf("Starting uploader: input=%s, endpoint=%s", *input, *endpoint))

	batches, ok := loadBatches(*input, log)
	if !ok {
		os.Exit(1)
	}

	if *validateOnly {
		fmt.Printf("\n✓ %d batch files are valid\n", len(batches))

		return
	}

	handleReplay(batches, *input, *endpoint, *apiKey, *auditPath, *timeoutSec, log)
}

// loadBatches reads and validates every stored batch under the input
// path. It returns false when a file cannot be read or fails validation.
func loadBatches(input string, log *logger.Logger) ([]models.Batch, bool) {
	info, err := os.Stat(input)
	if err != nil {
		log.Error(fmt.Sprintf("Cannot access input: %v", err))

		return nil, false
	}

	var store *catalog.ArtifactStore

	var paths []string

	if info.IsDir() {
		store = catalog.NewArtifactStore(input)

		paths, err = store.ListBatches()
		if err != nil {
			log.Error(fmt.Sprintf("Cannot list batch files: %v", err))

			return nil, false
		}
	} else {
		store = catalog.NewArtifactStore(filepath.Dir(input))
		paths = []string{input}
	}

	if len(paths) == 0 {
		log.Error(fmt.Sprintf("No batch_N.json files found under %s", input))

		return nil, false
	}

	v := validator.NewValidator()

	var batches []models.Batch

	allValid := true

	for _, path := range paths {
		payload, sum, readErr := store.ReadBatch(path)
		if readErr != nil {
			log.Error(fmt.Sprintf("❌ %v", readErr))

			allValid = false

			continue
		}

		result := v.ValidateBatch(payload)
		fmt.Printf("📦 %s (sha256 %.12s): %s\n", filepath.Base(path), sum, result)

		if !result.IsValid {
			result.PrintErrors()

			allValid = false

			continue
		}

		if len(result.Warnings) > 0 {
			result.PrintWarnings()
		}

		index := catalog.BatchIndex(path)
		if index == 0 {
			// A single explicitly named file may not follow the
			// batch_N.json pattern; fall back to position.
			index = len(batches) + 1
		}

		batches = append(batches, models.Batch{Index: index, Products: payload.Products})
	}

	if !allValid {
		log.Error("Refusing to submit: some batch files are unreadable or invalid")

		return nil, false
	}

	return batches, true
}

func handleReplay(batches []models.Batch, input, endpoint, apiKey, auditPath string, timeoutSec int, log *logger.Logger) {
	if apiKey == "" {
		creds, err := config.LoadCredentials()
		if err != nil {
			log.Error(fmt.Sprintf("%v (set INSTABUY_API_KEY or pass -api-key)", err))
			os.Exit(1)
		}

		apiKey = creds.APIKey
	}

	trail, err := audit.NewFileTrail(audit.FileTrailOptions{Path: auditPath, MaxSizeMb: 100, MaxBackups: 7})
	if err != nil {
		log.Error(fmt.Sprintf("Could not open audit trail: %v", err))
		os.Exit(1)
	}
	defer trail.Close()

	recorder := audit.NewRecorder(trail)
	log.Info(fmt.Sprintf("Run ID: %s", recorder.RunID()))

	client := instabuy.NewHTTPClientWithTimeout(endpoint, apiKey, time.Duration(timeoutSec)*time.Second, log)
	submitter := instabuy.NewSubmitter(client, recorder, log)

	started := time.Now().UTC()

	outcomes, err := submitter.SendBatches(batches)
	if err != nil {
		log.Error(fmt.Sprintf("Submission failed: %v", err))
		os.Exit(1)
	}

	// Report results
	summary := report.RunSummary{
		RunID:      recorder.RunID(),
		Source:     input,
		StartedAt:  started,
		FinishedAt: time.Now().UTC(),
		Products:   totalProducts(batches),
		Outcomes:   outcomes,
	}

	acknowledged, rejected, failed := summary.Counts()
	log.Info(fmt.Sprintf("Replay complete: batches=%d, acknowledged=%d, failed=%d",
		len(outcomes), acknowledged, rejected+failed))

	fmt.Println()
	fmt.Println(report.RenderMarkdown(&summary))

	if !summary.Succeeded() {
		log.Warn(fmt.Sprintf("Some batches were not acknowledged: count=%d", rejected+failed))
		os.Exit(1)
	}

	fmt.Printf("✓ Successfully submitted %d batches (%d products)\n",
		len(outcomes), totalProducts(batches))
}

func totalProducts(batches []models.Batch) int {
	total := 0
	for _, b := range batches {
		total += b.Size()
	}

	return total
}
