// Package report renders ingestion run summaries as markdown for
// operators and audit hand-off.
package report

import (
	"fmt"
	"strings"
	"time"

	"catsync/internal/models"

	"github.com/mattn/go-runewidth"
)

// detailWidth caps the detail column so one verbose server response
// does not blow up the whole table.
const detailWidth = 60

// RunSummary aggregates everything an operator wants to see after a run.
type RunSummary struct {
	RunID      string
	Source     string
	StartedAt  time.Time
	FinishedAt time.Time

	RowsLoaded int
	Products   int
	Anomalies  int

	Outcomes []models.BatchOutcome
}

// Duration returns the wall-clock time of the run.
func (s *RunSummary) Duration() time.Duration {
	if s.FinishedAt.IsZero() || s.StartedAt.IsZero() {
		return 0
	}

	return s.FinishedAt.Sub(s.StartedAt)
}

// Counts tallies outcomes by terminal state.
func (s *RunSummary) Counts() (acknowledged, rejected, failed int) {
	for _, o := range s.Outcomes {
		switch o.State {
		case models.BatchStateAcknowledged:
			acknowledged++
		case models.BatchStateRejected:
			rejected++
		case models.BatchStateTransportFailed:
			failed++
		}
	}

	return acknowledged, rejected, failed
}

// Succeeded reports whether every batch was acknowledged.
func (s *RunSummary) Succeeded() bool {
	for _, o := range s.Outcomes {
		if !o.Accepted() {
			return false
		}
	}

	return true
}

// RenderMarkdown produces the full run report. Tables are aligned on
// display width so accented product details and emoji markers line up.
func RenderMarkdown(s *RunSummary) string {
	var sb strings.Builder

	sb.WriteString("# Catalog Sync Report\n\n")

	status := "✅ SUCCESS"
	if !s.Succeeded() {
		status = "❌ FAILED"
	}

	sb.WriteString(fmt.Sprintf("- Status: %s\n", status))

	if s.RunID != "" {
		sb.WriteString(fmt.Sprintf("- Run: `%s`\n", s.RunID))
	}

	if s.Source != "" {
		sb.WriteString(fmt.Sprintf("- Source: %s\n", s.Source))
	}

	if !s.StartedAt.IsZero() {
		sb.WriteString(fmt.Sprintf("- Started: %s\n", s.StartedAt.UTC().Format(time.RFC3339)))
		sb.WriteString(fmt.Sprintf("- Duration: %s\n", s.Duration().Round(time.Millisecond)))
	}

	acknowledged, rejected, failed := s.Counts()

	sb.WriteString("\n## Totals\n\n")

	// Summaries rebuilt from the audit trail have no row count.
	if s.RowsLoaded > 0 {
		sb.WriteString(fmt.Sprintf("- Rows loaded: %d\n", s.RowsLoaded))
	}

	sb.WriteString(fmt.Sprintf("- Products normalized: %d\n", s.Products))
	sb.WriteString(fmt.Sprintf("- Anomalies: %d\n", s.Anomalies))
	sb.WriteString(fmt.Sprintf("- Batches: %d (%d acknowledged, %d rejected, %d failed)\n",
		len(s.Outcomes), acknowledged, rejected, failed))

	if len(s.Outcomes) > 0 {
		sb.WriteString("\n## Batches\n\n")
		sb.WriteString(renderOutcomeTable(s.Outcomes))
	}

	return sb.String()
}

func renderOutcomeTable(outcomes []models.BatchOutcome) string {
	header := []string{"Batch", "State", "HTTP", "Sent", "Processed", "Detail"}

	var rows [][]string

	for _, o := range outcomes {
		httpCol := "-"
		if o.StatusCode != 0 {
			httpCol = fmt.Sprintf("%d", o.StatusCode)
		}

		processedCol := "-"
		if o.ItemsProcessed >= 0 {
			processedCol = fmt.Sprintf("%d", o.ItemsProcessed)
		}

		rows = append(rows, []string{
			fmt.Sprintf("%d", o.BatchIndex),
			stateBadge(o.State),
			httpCol,
			fmt.Sprintf("%d", o.ItemsSent),
			processedCol,
			runewidth.Truncate(o.Detail, detailWidth, "…"),
		})
	}

	return renderTable(header, rows)
}

func stateBadge(state models.BatchState) string {
	switch state {
	case models.BatchStateAcknowledged:
		return "✅ acknowledged"
	case models.BatchStateRejected:
		return "❌ rejected"
	case models.BatchStateTransportFailed:
		return "❌ transport failed"
	default:
		return string(state)
	}
}

// renderTable builds an aligned markdown table from structured cells.
func renderTable(header []string, rows [][]string) string {
	colCount := len(header)

	// Calculate max widths (using display width)
	colWidths := make([]int, colCount)

	for i, cell := range header {
		colWidths[i] = runewidth.StringWidth(cell)
	}

	for _, row := range rows {
		for i := 0; i < len(row) && i < colCount; i++ {
			width := runewidth.StringWidth(row[i])
			if width > colWidths[i] {
				colWidths[i] = width
			}
		}
	}

	// Ensure min width for separator (usually 3 dashes "---")
	for i := range colWidths {
		if colWidths[i] < 3 {
			colWidths[i] = 3
		}
	}

	separator := make([]string, colCount)
	for i := range separator {
		separator[i] = strings.Repeat("-", colWidths[i])
	}

	var sb strings.Builder

	sb.WriteString(renderRow(header, colWidths))
	sb.WriteString("\n")
	sb.WriteString(renderRow(separator, colWidths))
	sb.WriteString("\n")

	for _, row := range rows {
		sb.WriteString(renderRow(row, colWidths))
		sb.WriteString("\n")
	}

	return sb.String()
}

func renderRow(cells []string, colWidths []int) string {
	var sb strings.Builder

	sb.WriteString("|")

	for j, width := range colWidths {
		sb.WriteString(" ")

		content := ""
		if j < len(cells) {
			content = cells[j]
		}

		sb.WriteString(content)

		// Pad with spaces based on display width
		padding := width - runewidth.StringWidth(content)
		if padding > 0 {
			sb.WriteString(strings.Repeat(" ", padding))
		}

		sb.WriteString(" |")
	}

	return sb.String()
}
