// Package main provides the fetch command-line tool for downloading the
// catalog export into the local staging area.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"catsync/internal/config"
	"catsync/internal/source"
)

func main() {
	configFile := flag.String("config", "", "Path to YAML configuration file")
	url := flag.String("url", "", "Catalog export URL (overrides config)")
	output := flag.String("output", "", "Destination path (overrides config)")
	flag.Parse()

	var cfg *config.Config

	if *configFile != "" {
		loaded, err := config.LoadConfig(*configFile)
		if err != nil {
			log.Fatalf("❌ Failed to load config: %v\n", err)
		}

		cfg = loaded
	} else {
		cfg = config.DefaultConfig()
	}

	if *url != "" {
		cfg.Pipeline.Source.URL = *url
	}

	if cfg.Pipeline.Source.URL == "" {
		fmt.Println("Error: no source URL (pass -url or set pipeline.source.url)")
		flag.PrintDefaults()
		os.Exit(1)
	}

	dest := *output
	if dest == "" {
		dest = cfg.Pipeline.Source.File
	}

	if dest == "" {
		dest = "data/raw-bronze/items.csv"
	}

	fmt.Printf("⏳ Fetching: %s\n", cfg.Pipeline.Source.URL)
	fmt.Printf("   Retry policy: max %d attempts, %.1fx backoff\n",
		cfg.Pipeline.Retry.MaxAttempts, cfg.Pipeline.Retry.BackoffMultiplier)

	fetcher := source.NewFetcherWithConfig(&cfg.Pipeline.Retry, 64)

	size, duration, err := fetcher.Download(cfg.Pipeline.Source.URL, dest)
	if err != nil {
		log.Fatalf("❌ Fetch failed: %v\n", err)
	}

	fmt.Printf("✅ Successfully fetched %d bytes (%.2fs)\n", size, duration.Seconds())
	fmt.Printf("💾 Saved to: %s\n", dest)
}
