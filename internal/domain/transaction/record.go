package transaction

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Record is the authoritative persistent row for one orchestration attempt.
// State tracks the lifecycle (PENDING until the processor resolves the run);
// the outcome fields are populated once terminal.
type Record struct {
	TransactionID  uuid.UUID `json:"transaction_id"`
	Kind           Kind      `json:"kind"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	PhoneNumber    string    `json:"phone_number"`
	Correspondent  string    `json:"correspondent,omitempty"`
	Description    string    `json:"description,omitempty"`
	DepositID      string    `json:"deposit_id,omitempty"`
	IdempotencyKey string    `json:"idempotency_key,omitempty"`
	CorrelationID  string    `json:"correlation_id,omitempty"`

	State             State      `json:"state"`
	FinalStatus       string     `json:"final_status,omitempty"`
	ProviderReference string     `json:"provider_reference,omitempty"`
	UpstreamID        string     `json:"upstream_id,omitempty"` // Id the upstream resolved the submission to
	FailureMessage    string     `json:"failure_message,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	ResolvedAt        *time.Time `json:"resolved_at,omitempty"`
}

// NewRecord builds a PENDING record from an accepted request
func NewRecord(req *Request) *Record {
	return &Record{
		TransactionID:  req.TransactionID,
		Kind:           req.Kind,
		Amount:         req.Amount,
		Currency:       req.Currency,
		PhoneNumber:    req.PhoneNumber,
		Correspondent:  req.Correspondent,
		Description:    req.Description,
		DepositID:      req.DepositID,
		IdempotencyKey: req.IdempotencyKey,
		CorrelationID:  req.CorrelationID,
		State:          StatePending,
		CreatedAt:      req.Timestamp,
	}
}

// Outcome rebuilds the run outcome this record captured. Pending records
// yield a Pending outcome; resolved records yield the stored terminal one.
// A Completed outcome carries the upstream-resolved id, not the internal
// record id, so a rebuilt outcome matches what the poll payload reported.
func (r *Record) Outcome() Outcome {
	switch r.State {
	case StateCompleted:
		upstreamID := r.UpstreamID
		if upstreamID == "" {
			upstreamID = r.TransactionID.String()
		}
		return Completed(r.Amount, r.Currency, r.FinalStatus, r.ProviderReference, upstreamID)
	case StateFailed:
		return Failed(r.FailureMessage)
	case StatePending:
		return Pending()
	}
	return Idle()
}

// Repository manages transaction record persistence
type Repository interface {
	Create(ctx context.Context, record *Record) error
	GetByID(ctx context.Context, transactionID uuid.UUID) (*Record, error)
	// GetByIdempotencyKey returns nil, nil when no record carries the key
	GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*Record, error)
	// ResolveOutcome stores the terminal outcome for a pending record
	ResolveOutcome(ctx context.Context, transactionID uuid.UUID, outcome Outcome, upstreamID string) error
	GetByPhoneNumber(ctx context.Context, phoneNumber string, limit, offset int) ([]*Record, error)
	CountByPhoneNumber(ctx context.Context, phoneNumber string) (int64, error)
}

// ErrRecordNotFound indicates a missing transaction record
type ErrRecordNotFound struct {
	TransactionID uuid.UUID
}

func (e ErrRecordNotFound) Error() string {
	return "transaction record not found: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrRecordNotFound
func (e ErrRecordNotFound) Is(target error) bool {
	t, ok := target.(ErrRecordNotFound)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}

// ErrDuplicateRecord indicates a transaction id uniqueness violation
type ErrDuplicateRecord struct {
	TransactionID uuid.UUID
}

func (e ErrDuplicateRecord) Error() string {
	return "duplicate transaction record: " + e.TransactionID.String()
}

// Is implements the errors.Is interface for ErrDuplicateRecord
func (e ErrDuplicateRecord) Is(target error) bool {
	t, ok := target.(ErrDuplicateRecord)
	if !ok {
		return false
	}
	if t.TransactionID == uuid.Nil {
		return true
	}
	return e.TransactionID == t.TransactionID
}
