// Package main provides the worker command that runs the full catalog
// sync pipeline: fetch, normalize, batch, and submit.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"time"

	"catsync/internal/audit"
	"catsync/internal/catalog"
	"catsync/internal/config"
	"catsync/internal/instabuy"
	"catsync/internal/logger"
	"catsync/internal/models"
	"catsync/internal/report"
	"catsync/internal/source"
)

const defaultConfigPath = "configs/pipeline.yaml"

func main() {
	// 1. Define Command-Line Flags
	// ---------------------------
	configFile := flag.String("config", "", "Path to YAML configuration file")
	sourceFile := flag.String("source", "", "Local catalog export path (overrides config)")
	sourceURL := flag.String("url", "", "Remote catalog export URL (overrides config)")
	endpoint := flag.String("endpoint", "", "Destination API endpoint (overrides config)")
	apiKey := flag.String("api-key", os.Getenv("INSTABUY_API_KEY"), "API key for the destination store")
	reportPath := flag.String("report", "", "Write the run report to this file instead of stdout")
	dryRun := flag.Bool("dry-run", false, "Normalize and write batch artifacts without submitting")

	flag.Parse()

	cfg := loadConfig(*configFile)
	applyOverrides(cfg, *sourceFile, *sourceURL, *endpoint)

	// Initialize Logger
	log := logger.NewLogger(cfg.Pipeline.Logging.Level)

	// Resolve credentials: flag wins, then .env / environment.
	key := *apiKey
	if key == "" && !*dryRun {
		creds, err := config.LoadCredentials()
		if err != nil {
			log.Error(fmt.Sprintf("❌ %v (set INSTABUY_API_KEY or pass -api-key)", err))
			os.Exit(1)
		}

		key = creds.APIKey
	}

	log.Info("🚀 Starting Catalog Sync Pipeline")
	log.Info(fmt.Sprintf("📍 Source: %s", cfg.Pipeline.Source.Location()))
	log.Info(fmt.Sprintf("🎯 Target: %s", cfg.Pipeline.Submit.Endpoint))

	// Open the audit trail
	trail, err := audit.NewFileTrail(audit.FileTrailOptions{
		Path:       cfg.Pipeline.Audit.Path,
		MaxSizeMb:  cfg.Pipeline.Audit.MaxSizeMb,
		MaxBackups: cfg.Pipeline.Audit.MaxBackups,
		MaxAgeDays: cfg.Pipeline.Audit.MaxAgeDays,
		Compress:   cfg.Pipeline.Audit.Compress,
	})
	if err != nil {
		log.Error(fmt.Sprintf("❌ Could not open audit trail: %v", err))
		os.Exit(1)
	}
	defer trail.Close()

	recorder := audit.NewRecorder(trail)
	log.Info(fmt.Sprintf("🧾 Run ID: %s", recorder.RunID()))

	recordEvent(recorder, "run started", log)

	startTime := time.Now()

	// 2. Ingestion (Fetch)
	// --------------------
	log.Info("Phase 1: Ingestion (Fetching export)...")

	fetcher := source.NewFetcherWithConfig(&cfg.Pipeline.Retry, 64)

	raw, err := fetcher.Load(&cfg.Pipeline.Source)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Fetch failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Fetched %d bytes in %v", len(raw), time.Since(startTime)))

	// 3. Processing (Normalization)
	// -----------------------------
	log.Info("Phase 2: Processing (Parsing & Normalization)...")

	processStart := time.Now()

	loader := catalog.NewLoader(cfg.Pipeline.Source.SeparatorRune())
	processor := catalog.NewProcessor(loader, cfg.Pipeline.Normalize.InternalCodeWidth, recorder, log)

	result, err := processor.LoadAndNormalize(bytes.NewReader(raw))
	if err != nil {
		log.Error(fmt.Sprintf("❌ Normalization failed: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Normalized %d rows into %d products (%d anomalies) in %v",
		result.Rows, len(result.Products), result.Anomalies, time.Since(processStart)))

	if promos := promoCount(result.Products); promos > 0 {
		log.Info(fmt.Sprintf("🏷️  %d products carry an active promotion", promos))
	}

	// 4. Batching (Artifacts)
	// -----------------------
	log.Info("Phase 3: Batching...")

	batches := catalog.CreateBatches(result.Products, cfg.Pipeline.Batch.Size)
	if len(batches) == 0 {
		log.Error("❌ Export produced no products, nothing to submit")
		os.Exit(1)
	}

	store := catalog.NewArtifactStore(cfg.Pipeline.Batch.OutputDir)

	paths, err := store.WriteAll(batches, recorder)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Could not write batch artifacts: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("✅ Wrote %d batch artifacts to %s", len(paths), store.Dir()))

	if *dryRun {
		log.Info("👀 Dry-run: skipping submission")
		recordEvent(recorder, "run finished (dry-run)", log)

		summary := &report.RunSummary{
			RunID:      recorder.RunID(),
			Source:     cfg.Pipeline.Source.Location(),
			StartedAt:  startTime,
			FinishedAt: time.Now(),
			RowsLoaded: result.Rows,
			Products:   len(result.Products),
			Anomalies:  result.Anomalies,
		}
		writeReport(report.RenderMarkdown(summary), *reportPath, log)

		return
	}

	// 5. Submission
	// -------------
	log.Info(fmt.Sprintf("Phase 4: Submission (%d batches)...", len(batches)))

	client := instabuy.NewHTTPClientWithTimeout(cfg.Pipeline.Submit.Endpoint, key, cfg.Pipeline.Submit.GetTimeout(), log)
	submitter := instabuy.NewSubmitter(client, recorder, log)

	outcomes, err := submitter.SendBatches(batches)
	if err != nil {
		log.Error(fmt.Sprintf("❌ Submission failed: %v", err))
		os.Exit(1)
	}

	recordEvent(recorder, "run finished", log)

	// 6. Final Report
	// ---------------
	summary := &report.RunSummary{
		RunID:      recorder.RunID(),
		Source:     cfg.Pipeline.Source.Location(),
		StartedAt:  startTime,
		FinishedAt: time.Now(),
		RowsLoaded: result.Rows,
		Products:   len(result.Products),
		Anomalies:  result.Anomalies,
		Outcomes:   outcomes,
	}

	log.Info("✨ Pipeline Complete!")
	writeReport(report.RenderMarkdown(summary), *reportPath, log)

	if !summary.Succeeded() {
		os.Exit(1)
	}
}

// loadConfig resolves the configuration: explicit file, default file if
// present, or built-in defaults.
func loadConfig(path string) *config.Config {
	if path == "" {
		if _, err := os.Stat(defaultConfigPath); err == nil {
			path = defaultConfigPath
		}
	}

	if path == "" {
		return config.DefaultConfig()
	}

	fmt.Printf("⚙️  Loading configuration from: %s\n", path)

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Printf("❌ Failed to load config: %v\n", err)
		os.Exit(1)
	}

	return cfg
}

func applyOverrides(cfg *config.Config, file, url, endpoint string) {
	if file != "" {
		cfg.Pipeline.Source.File = file
	}

	if url != "" {
		cfg.Pipeline.Source.URL = url

		// A URL override replaces a configured local file, which would
		// otherwise take precedence.
		if file == "" {
			cfg.Pipeline.Source.File = ""
		}
	}

	if endpoint != "" {
		cfg.Pipeline.Submit.Endpoint = endpoint
	}
}

func promoCount(products []models.Product) int {
	n := 0

	for _, p := range products {
		if p.HasPromotion() {
			n++
		}
	}

	return n
}

func recordEvent(recorder *audit.Recorder, message string, log *logger.Logger) {
	if err := recorder.Event(message); err != nil {
		log.Warn(fmt.Sprintf("⚠️  Audit append failed: %v", err))
	}
}

func writeReport(markdown, path string, log *logger.Logger) {
	if path == "" {
		fmt.Println("\n" + markdown)

		return
	}

	if err := os.WriteFile(path, []byte(markdown), 0644); err != nil {
		log.Error(fmt.Sprintf("❌ Could not write report: %v", err))
		os.Exit(1)
	}

	log.Info(fmt.Sprintf("📝 Report written to: %s", path))
}
