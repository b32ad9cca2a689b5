package transaction

import "strings"

// Kind selects which upstream operation a request maps to
type Kind string

const (
	KindDeposit Kind = "DEPOSIT"
	KindPayout  Kind = "PAYOUT"
	KindRefund  Kind = "REFUND"
)

// Valid reports whether the kind is one of the three supported operations
func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindPayout, KindRefund:
		return true
	}
	return false
}

// Display returns the lower-case form used in user-facing failure messages
func (k Kind) Display() string {
	return strings.ToLower(string(k))
}

// State defines the lifecycle states of one orchestration run
type State string

const (
	StateIdle      State = "IDLE"
	StatePending   State = "PENDING"
	StateCompleted State = "COMPLETED"
	StateFailed    State = "FAILED"
)

// Terminal reports whether the state ends an orchestration run
func (s State) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}
