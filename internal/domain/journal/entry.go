// Package journal defines the append-only lifecycle journal: one entry per
// orchestration transition, kept for audit and reconciliation against the
// upstream provider's records.
package journal

import (
	"time"

	"github.com/google/uuid"
)

// Stage labels a lifecycle transition
type Stage string

const (
	StageAccepted     Stage = "ACCEPTED"      // Request accepted by the gateway
	StageSubmitted    Stage = "SUBMITTED"     // Submission reached the upstream
	StageSubmitFailed Stage = "SUBMIT_FAILED" // Submission rejected or unreachable
	StagePolled       Stage = "POLLED"        // Status poll returned
	StageResolved     Stage = "RESOLVED"      // Terminal outcome recorded
)

// Entry is one journal line for a transaction
type Entry struct {
	TransactionID uuid.UUID `json:"transaction_id" bson:"transaction_id"`
	Stage         Stage     `json:"stage" bson:"stage"`
	Detail        string    `json:"detail,omitempty" bson:"detail,omitempty"`
	CorrelationID string    `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	At            time.Time `json:"at" bson:"at"`
}
