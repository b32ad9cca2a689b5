package transaction

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidKind = errors.New("invalid transaction kind")
	ErrNoAmount    = errors.New("amount is required")
	ErrNoCurrency  = errors.New("currency is required")
	ErrNoPhone     = errors.New("phone number is required")
	// ErrNoCorrespondent marks a payout without a routing network. The upstream
	// cannot route a disbursement without it, so this is checked before submission.
	ErrNoCorrespondent = errors.New("correspondent is required for payout")
	// ErrNoDepositID marks a refund without the original deposit reference.
	// The reference cannot be synthesized, so this is a caller bug, not a
	// runtime-recoverable condition.
	ErrNoDepositID = errors.New("refund requires the original deposit id")
)

// IsPreconditionError reports whether err is one of the request precondition
// violations returned by Validate
func IsPreconditionError(err error) bool {
	for _, target := range []error{ErrInvalidKind, ErrNoAmount, ErrNoCurrency, ErrNoPhone, ErrNoCorrespondent, ErrNoDepositID} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// Request defines a Kafka message describing one transaction attempt.
// Amount is a decimal-as-string and is never parsed to floating point;
// it is handed to the upstream exactly as the caller supplied it.
type Request struct {
	TransactionID  uuid.UUID `json:"transaction_id"`
	Kind           Kind      `json:"kind"`
	Amount         string    `json:"amount"`
	Currency       string    `json:"currency"`
	PhoneNumber    string    `json:"phone_number"`
	Correspondent  string    `json:"correspondent,omitempty"`
	Description    string    `json:"description,omitempty"`
	DepositID      string    `json:"deposit_id,omitempty"`      // Refund target, required when Kind == REFUND
	IdempotencyKey string    `json:"idempotency_key,omitempty"` // Fresh UUID per payout attempt
	CorrelationID  string    `json:"correlation_id,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// Validate checks the request's preconditions. A refund without a deposit id and
// a payout without a correspondent fail here, before any upstream call is made.
func (r *Request) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, r.Kind)
	}
	if r.Amount == "" {
		return ErrNoAmount
	}
	if r.Currency == "" {
		return ErrNoCurrency
	}
	switch r.Kind {
	case KindDeposit:
		if r.PhoneNumber == "" {
			return ErrNoPhone
		}
	case KindPayout:
		if r.PhoneNumber == "" {
			return ErrNoPhone
		}
		if r.Correspondent == "" {
			return ErrNoCorrespondent
		}
	case KindRefund:
		if r.DepositID == "" {
			return ErrNoDepositID
		}
	}
	return nil
}
