package audit

import (
	"time"

	"catsync/internal/models"
)

// Recorder stamps entries with the run identifier and current time
// before handing them to the trail. One Recorder covers one run.
type Recorder struct {
	trail Trail
	runID string
	now   func() time.Time
}

func NewRecorder(trail Trail) *Recorder {
	return &Recorder{
		trail: trail,
		runID: NewRunID(),
		now:   time.Now,
	}
}

// RunID returns the identifier stamped on every entry of this run.
func (r *Recorder) RunID() string {
	return r.runID
}

func (r *Recorder) append(e Entry) error {
	e.Timestamp = r.now()
	e.RunID = r.runID
	return r.trail.Append(e)
}

// Event records a run-level milestone such as start or completion.
func (r *Recorder) Event(message string) error {
	return r.append(Entry{Kind: KindRun, Message: message})
}

// Anomaly records a field that could not be converted cleanly. Row is
// the 1-based data row of the source file.
func (r *Recorder) Anomaly(row int, field, value, message string) error {
	return r.append(Entry{
		Kind:    KindAnomaly,
		Row:     row,
		Field:   field,
		Value:   value,
		Message: message,
	})
}

// Batch records the terminal outcome of one batch submission.
func (r *Recorder) Batch(o models.BatchOutcome) error {
	e := Entry{
		Kind:       KindBatch,
		BatchIndex: o.BatchIndex,
		State:      string(o.State),
		StatusCode: o.StatusCode,
		ItemsSent:  o.ItemsSent,
		Message:    o.Detail,
	}
	if o.ItemsProcessed >= 0 {
		n := o.ItemsProcessed
		e.ItemsProcessed = &n
	}
	return r.append(e)
}

// Artifact records a batch file written to disk.
func (r *Recorder) Artifact(batchIndex int, path, checksum string) error {
	return r.append(Entry{
		Kind:       KindArtifact,
		BatchIndex: batchIndex,
		Path:       path,
		Checksum:   checksum,
	})
}
