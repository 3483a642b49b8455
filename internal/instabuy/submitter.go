package instabuy

import (
	"errors"
	"fmt"
	"time"

	"catsync/internal/audit"
	"catsync/internal/logger"
	"catsync/internal/models"
)

// ErrNoBatches is returned when there is nothing to send.
var ErrNoBatches = errors.New("no batches to send")

// Submitter sends batches sequentially and records one terminal outcome
// per batch in the audit trail.
type Submitter struct {
	client   Client
	recorder *audit.Recorder
	logger   *logger.Logger
	now      func() time.Time
}

// NewSubmitter creates a submitter around the given client.
func NewSubmitter(client Client, recorder *audit.Recorder, log *logger.Logger) *Submitter {
	return &Submitter{
		client:   client,
		recorder: recorder,
		logger:   log,
		now:      time.Now,
	}
}

// SendBatches submits every batch in order. A failure on one batch is
// recorded and never stops the batches after it. The returned outcomes
// are in batch order, exactly one per batch.
func (s *Submitter) SendBatches(batches []models.Batch) ([]models.BatchOutcome, error) {
	if len(batches) == 0 {
		return nil, ErrNoBatches
	}

	outcomes := make([]models.BatchOutcome, 0, len(batches))

	for _, batch := range batches {
		outcome := s.sendOne(batch)
		outcomes = append(outcomes, outcome)

		if err := s.recorder.Batch(outcome); err != nil {
			s.logger.Error(fmt.Sprintf("Batch %d: failed to append audit entry: %v", batch.Index, err))
		}
	}

	return outcomes, nil
}

func (s *Submitter) sendOne(batch models.Batch) models.BatchOutcome {
	outcome := models.BatchOutcome{
		BatchIndex:     batch.Index,
		State:          models.BatchStatePending,
		ItemsSent:      batch.Size(),
		ItemsProcessed: -1,
	}

	s.logger.Debug(fmt.Sprintf("Batch %d: sending %d items", batch.Index, outcome.ItemsSent))

	outcome.State = models.BatchStateSent
	outcome.SubmittedAt = s.now()

	result, err := s.client.PutProducts(models.BatchPayload{Products: batch.Products})
	if err != nil {
		outcome.State = models.BatchStateTransportFailed
		outcome.Detail = err.Error()
		s.logger.Error(fmt.Sprintf("Batch %d: error while sending: %v", batch.Index, err))

		return outcome
	}

	outcome.StatusCode = result.StatusCode

	if !result.Accepted() {
		outcome.State = models.BatchStateRejected
		outcome.Detail = rejectionDetail(result)
		s.logger.Error(fmt.Sprintf("Batch %d: rejected with status %d: %s", batch.Index, result.StatusCode, outcome.Detail))

		return outcome
	}

	outcome.State = models.BatchStateAcknowledged
	outcome.ItemsProcessed = result.ItemsProcessed

	switch {
	case result.ItemsProcessed < 0:
		s.logger.Info(fmt.Sprintf("Batch %d sent successfully (%d items)", batch.Index, outcome.ItemsSent))
	case result.ItemsProcessed != outcome.ItemsSent:
		// Acknowledged, but the API counted fewer items than we sent.
		outcome.Detail = fmt.Sprintf("acknowledged with %d of %d items processed", result.ItemsProcessed, outcome.ItemsSent)
		s.logger.Warn(fmt.Sprintf("Batch %d: %s", batch.Index, outcome.Detail))
	default:
		s.logger.Info(fmt.Sprintf("Batch %d sent successfully (%d items processed)", batch.Index, result.ItemsProcessed))
	}

	return outcome
}

func rejectionDetail(result *PutResult) string {
	if result.Message != "" {
		return result.Message
	}

	return result.Body
}
