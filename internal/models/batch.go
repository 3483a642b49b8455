package models

import "time"

// BatchState tracks a batch through submission. States are terminal once
// the batch leaves Sent; a batch is never re-entered within a run.
type BatchState string

const (
	// BatchStatePending marks a batch that has not been submitted yet.
	BatchStatePending BatchState = "pending"
	// BatchStateSent marks a batch whose request is in flight.
	BatchStateSent BatchState = "sent"
	// BatchStateAcknowledged marks a batch the server accepted (2xx).
	BatchStateAcknowledged BatchState = "acknowledged"
	// BatchStateRejected marks a batch the server refused (non-2xx).
	BatchStateRejected BatchState = "rejected"
	// BatchStateTransportFailed marks a batch that never got a response.
	BatchStateTransportFailed BatchState = "transport_failed"
)

// Terminal reports whether the state is an end state.
func (s BatchState) Terminal() bool {
	switch s {
	case BatchStateAcknowledged, BatchStateRejected, BatchStateTransportFailed:
		return true
	}
	return false
}

// Batch is a contiguous, order-preserving slice of the catalog. Indexes
// are 1-based to match artifact file names.
type Batch struct {
	Index    int       `json:"index"`
	Products []Product `json:"products"`
}

// Size returns the number of products in the batch.
func (b Batch) Size() int {
	return len(b.Products)
}

// BatchOutcome is the terminal result of submitting one batch. Exactly one
// outcome exists per batch per run, whatever happened on the wire.
type BatchOutcome struct {
	BatchIndex int        `json:"batchIndex"`
	State      BatchState `json:"state"`
	// StatusCode is zero when the request never reached the server.
	StatusCode int `json:"statusCode,omitempty"`
	// ItemsProcessed is the count the server reported for the batch,
	// -1 when the response did not carry one. It is tracked separately
	// from the HTTP status: a 200 with zero items processed is how the
	// destination signals a silently ignored payload.
	ItemsProcessed int       `json:"itemsProcessed"`
	ItemsSent      int       `json:"itemsSent"`
	Detail         string    `json:"detail,omitempty"`
	SubmittedAt    time.Time `json:"submittedAt"`
}

// Accepted reports whether the server acknowledged the batch.
func (o BatchOutcome) Accepted() bool {
	return o.State == BatchStateAcknowledged
}
