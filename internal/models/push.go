package models

import "time"

// PushStatus captures the push lifecycle states.
type PushStatus string

const (
	PushStatusQueued      PushStatus = "QUEUED"
	PushStatusInProgress  PushStatus = "IN_PROGRESS"
	PushStatusFilteredOut PushStatus = "FILTERED_OUT"
	PushStatusDelivered   PushStatus = "DELIVERED"
	PushStatusFailed      PushStatus = "FAILED"
)

// Terminal reports whether no further transition may occur from the status.
func (s PushStatus) Terminal() bool {
	switch s {
	case PushStatusFilteredOut, PushStatusDelivered, PushStatusFailed:
		return true
	}
	return false
}

// Rank orders statuses along the state machine, used to keep subscriber
// observations monotonic. IN_PROGRESS may repeat across retries.
func (s PushStatus) Rank() int {
	switch s {
	case PushStatusQueued:
		return 0
	case PushStatusInProgress:
		return 1
	case PushStatusFilteredOut, PushStatusDelivered, PushStatusFailed:
		return 2
	}
	return -1
}

// PushRecord tracks one request to deliver one content record to one
// destination. Mutated only by the orchestrator run that owns its id; once a
// terminal status is recorded the row never changes again.
type PushRecord struct {
	ID          string        `db:"id" json:"id"`
	Content     ContentRecord `db:"content" json:"content"`
	Destination string        `db:"destination" json:"destination"`
	ForcePush   bool          `db:"force_push" json:"force_push"`
	Status      PushStatus    `db:"status" json:"status"`
	RetryCount  int           `db:"retry_count" json:"retry_count"`
	LastError   *string       `db:"last_error" json:"last_error,omitempty"`
	CreatedAt   time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time     `db:"updated_at" json:"updated_at"`
}
