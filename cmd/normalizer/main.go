// Package main provides the normalizer command-line tool for converting
// a raw catalog export into batch payload files.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"catsync/internal/audit"
	"catsync/internal/catalog"
	"catsync/internal/logger"
)

func main() {
	inputPath := flag.String("input", "", "Path to input CSV export (e.g., items.csv)")
	outputDir := flag.String("output", "batches", "Directory for batch payload files")
	separator := flag.String("separator", ";", "Column separator used by the export")
	batchSize := flag.Int("batch-size", 1000, "Products per batch")
	codeWidth := flag.Int("code-width", 0, "Zero-pad internal codes to this width (0 disables)")
	flag.Parse()

	if *inputPath == "" {
		fmt.Println("Usage: normalizer -input <items.csv> [-output <dir>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Read export
	content, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("Error reading file: %v\n", err)
	}

	fmt.Printf("📂 Reading: %s (%d bytes)\n", *inputPath, len(content))

	// This tool prints anomalies instead of keeping a persistent trail.
	trail := audit.NewMemoryTrail()
	recorder := audit.NewRecorder(trail)

	sep := ';'
	for _, r := range *separator {
		sep = r

		break
	}

	loader := catalog.NewLoader(sep)
	processor := catalog.NewProcessor(loader, *codeWidth, recorder, logger.NewLogger("warn"))

	result, err := processor.LoadAndNormalize(bytes.NewReader(content))
	if err != nil {
		log.Fatalf("Error normalizing export: %v\n", err)
	}

	fmt.Printf("📊 Normalized: %d rows, %d products, %d anomalies\n",
		result.Rows, len(result.Products), result.Anomalies)

	for _, entry := range trail.ByKind(audit.KindAnomaly) {
		fmt.Printf("⚠️  Row %d [%s]: %s (found %q)\n", entry.Row, entry.Field, entry.Message, entry.Value)
	}

	// Partition and save
	batches := catalog.CreateBatches(result.Products, *batchSize)
	if len(batches) == 0 {
		log.Fatalf("Export produced no products\n")
	}

	store := catalog.NewArtifactStore(*outputDir)

	paths, err := store.WriteAll(batches, recorder)
	if err != nil {
		log.Fatalf("Error writing batch files: %v\n", err)
	}

	for _, p := range paths {
		fmt.Printf("✅ Saved: %s\n", p)
	}

	fmt.Printf("✨ Wrote %d batches to %s\n", len(paths), store.Dir())
}
