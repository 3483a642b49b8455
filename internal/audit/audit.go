// Package audit provides the append-only trail that records what each
// pipeline run did: run boundaries, normalization anomalies, batch
// outcomes, and written artifacts. The trail is separate from process
// logging so it survives as a reviewable record.
package audit

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gofrs/uuid"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Kind classifies an audit entry.
type Kind string

const (
	KindRun      Kind = "run"
	KindAnomaly  Kind = "anomaly"
	KindBatch    Kind = "batch"
	KindArtifact Kind = "artifact"
)

// Entry is a single audit record. Only the fields relevant to the
// entry's kind are populated.
type Entry struct {
	Timestamp time.Time `json:"ts"`
	RunID     string    `json:"run_id"`
	Kind      Kind      `json:"kind"`
	Message   string    `json:"message,omitempty"`

	// Anomaly fields.
	Row   int    `json:"row,omitempty"`
	Field string `json:"field,omitempty"`
	Value string `json:"value,omitempty"`

	// Batch fields.
	BatchIndex     int    `json:"batch_index,omitempty"`
	State          string `json:"state,omitempty"`
	StatusCode     int    `json:"status_code,omitempty"`
	ItemsSent      int    `json:"items_sent,omitempty"`
	ItemsProcessed *int   `json:"items_processed,omitempty"`

	// Artifact fields.
	Path     string `json:"path,omitempty"`
	Checksum string `json:"checksum,omitempty"`
}

// Trail is an append-only sink for audit entries.
type Trail interface {
	Append(e Entry) error
}

// NewRunID returns a fresh identifier shared by all entries of one run.
func NewRunID() string {
	return uuid.Must(uuid.NewV4()).String()
}

// MultiTrail fans out appends to multiple underlying trails.
type MultiTrail struct {
	trails []Trail
}

func NewMultiTrail(ts ...Trail) *MultiTrail {
	return &MultiTrail{trails: ts}
}

func (m *MultiTrail) Append(e Entry) error {
	for _, t := range m.trails {
		if err := t.Append(e); err != nil {
			return err
		}
	}
	return nil
}

// MemoryTrail collects entries in memory, mainly for tests and dry runs.
type MemoryTrail struct {
	mu      sync.Mutex
	entries []Entry
}

func NewMemoryTrail() *MemoryTrail {
	return &MemoryTrail{}
}

func (m *MemoryTrail) Append(e Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, e)
	return nil
}

// Entries returns a copy of everything appended so far.
func (m *MemoryTrail) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// ByKind returns the appended entries of one kind, in append order.
func (m *MemoryTrail) ByKind(k Kind) []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Entry
	for _, e := range m.entries {
		if e.Kind == k {
			out = append(out, e)
		}
	}
	return out
}

// FileTrailOptions configures the on-disk trail and its rotation.
type FileTrailOptions struct {
	Path       string
	MaxSizeMb  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// FileTrail appends entries as JSON lines to a rotating file.
type FileTrail struct {
	mu  sync.Mutex
	out *lumberjack.Logger
	enc *json.Encoder
}

func NewFileTrail(opts FileTrailOptions) (*FileTrail, error) {
	if dir := filepath.Dir(opts.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("mkdir: %w", err)
		}
	}

	out := &lumberjack.Logger{
		Filename:   opts.Path,
		MaxSize:    opts.MaxSizeMb,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAgeDays,
		Compress:   opts.Compress,
	}

	return &FileTrail{out: out, enc: json.NewEncoder(out)}, nil
}

func (f *FileTrail) Append(e Entry) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.enc.Encode(&e); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// Close closes the underlying file.
func (f *FileTrail) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.out.Close()
}
