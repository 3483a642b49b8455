// Package main provides the report command-line tool for rebuilding a
// run summary from the audit trail.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"catsync/internal/audit"
	"catsync/internal/models"
	"catsync/internal/report"
)

func main() {
	auditPath := flag.String("audit", "logs/audit.log", "Audit trail file")
	runID := flag.String("run", "", "Run ID to report on (default: most recent run)")
	output := flag.String("output", "", "Write the report to this file instead of stdout")
	list := flag.Bool("list", false, "List the runs recorded in the trail")
	flag.Parse()

	runs, order, err := parseTrail(*auditPath)
	if err != nil {
		log.Fatalf("❌ %v\n", err)
	}

	if len(order) == 0 {
		log.Fatalf("❌ No runs recorded in %s\n", *auditPath)
	}

	if *list {
		listRuns(runs, order)

		return
	}

	id := *runID
	if id == "" {
		id = order[len(order)-1]
	}

	entries, ok := runs[id]
	if !ok {
		log.Fatalf("❌ Run %s not found in %s (use -list to see runs)\n", id, *auditPath)
	}

	markdown := report.RenderMarkdown(buildSummary(id, entries))

	if *output == "" {
		fmt.Print(markdown)

		return
	}

	if err := os.WriteFile(*output, []byte(markdown), 0644); err != nil {
		log.Fatalf("❌ Could not write report: %v\n", err)
	}

	fmt.Printf("✅ Report written to: %s\n", *output)
}

// parseTrail reads the JSONL trail and groups entries by run, keeping
// the order runs first appear in the file.
func parseTrail(path string) (map[string][]audit.Entry, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read audit trail: %w", err)
	}
	defer f.Close()

	runs := make(map[string][]audit.Entry)

	var order []string

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	line := 0

	for scanner.Scan() {
		line++

		var entry audit.Entry
		if unmarshalErr := json.Unmarshal(scanner.Bytes(), &entry); unmarshalErr != nil {
			fmt.Printf("⚠️  Skipping malformed entry on line %d: %v\n", line, unmarshalErr)

			continue
		}

		if _, seen := runs[entry.RunID]; !seen {
			order = append(order, entry.RunID)
		}

		runs[entry.RunID] = append(runs[entry.RunID], entry)
	}

	if err := scanner.Err(); err != nil {
		return nil, nil, fmt.Errorf("cannot read audit trail: %w", err)
	}

	return runs, order, nil
}

func listRuns(runs map[string][]audit.Entry, order []string) {
	fmt.Printf("📜 %d runs:\n", len(order))

	for _, id := range order {
		entries := runs[id]

		batches := 0
		anomalies := 0

		for _, e := range entries {
			switch e.Kind {
			case audit.KindBatch:
				batches++
			case audit.KindAnomaly:
				anomalies++
			}
		}

		fmt.Printf("  %s  %s  entries=%d batches=%d anomalies=%d\n",
			id, entries[0].Timestamp.Format("2006-01-02 15:04:05"), len(entries), batches, anomalies)
	}
}

// buildSummary reconstructs the run summary from its audit entries.
func buildSummary(id string, entries []audit.Entry) *report.RunSummary {
	summary := &report.RunSummary{RunID: id}

	for _, e := range entries {
		if summary.StartedAt.IsZero() || e.Timestamp.Before(summary.StartedAt) {
			summary.StartedAt = e.Timestamp
		}

		if e.Timestamp.After(summary.FinishedAt) {
			summary.FinishedAt = e.Timestamp
		}

		switch e.Kind {
		case audit.KindAnomaly:
			summary.Anomalies++
		case audit.KindBatch:
			outcome := models.BatchOutcome{
				BatchIndex:     e.BatchIndex,
				State:          models.BatchState(e.State),
				StatusCode:     e.StatusCode,
				ItemsSent:      e.ItemsSent,
				ItemsProcessed: -1,
				Detail:         e.Message,
				SubmittedAt:    e.Timestamp,
			}
			if e.ItemsProcessed != nil {
				outcome.ItemsProcessed = *e.ItemsProcessed
			}

			summary.Products += e.ItemsSent
			summary.Outcomes = append(summary.Outcomes, outcome)
		}
	}

	return summary
}
