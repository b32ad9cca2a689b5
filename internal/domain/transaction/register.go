package transaction

import (
	"errors"
	"sync"
)

var (
	// ErrAlreadyPending rejects re-entrant submission while a run is in flight.
	// The register is a single slot; a second run would otherwise race it.
	ErrAlreadyPending = errors.New("a transaction is already pending")
	ErrNotPending     = errors.New("no pending transaction to resolve")
	ErrNotTerminal    = errors.New("outcome is not terminal")
)

// Register is the single-slot outcome state machine:
//
//	Idle -> Pending -> (Completed | Failed) -> Idle (explicit reset only)
//
// No other transitions are legal. It is safe for concurrent use; observers
// receive every transition through Watch.
type Register struct {
	mu       sync.Mutex
	current  Outcome
	watchers []chan Outcome
}

// NewRegister creates a register in the Idle state
func NewRegister() *Register {
	return &Register{current: Idle()}
}

// Get returns the current outcome
func (r *Register) Get() Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// Begin transitions Idle -> Pending. It fails with ErrAlreadyPending while a
// run is in flight; terminal states must be Reset before a new run starts.
func (r *Register) Begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.current.State {
	case StatePending:
		return ErrAlreadyPending
	case StateCompleted, StateFailed:
		return errors.New("register must be reset before a new submission")
	}
	r.set(Pending())
	return nil
}

// Resolve transitions Pending to the given terminal outcome
func (r *Register) Resolve(o Outcome) error {
	if !o.State.Terminal() {
		return ErrNotTerminal
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current.State != StatePending {
		return ErrNotPending
	}
	r.set(o)
	return nil
}

// Reset transitions a terminal state back to Idle. Resetting while Pending is
// illegal: the in-flight run still owns the slot.
func (r *Register) Reset() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current.State == StatePending {
		return ErrAlreadyPending
	}
	if r.current.State == StateIdle {
		return nil
	}
	r.set(Idle())
	return nil
}

// Watch returns a channel receiving every subsequent transition. The channel
// is buffered; a slow observer drops transitions rather than blocking the run.
func (r *Register) Watch() <-chan Outcome {
	r.mu.Lock()
	defer r.mu.Unlock()
	ch := make(chan Outcome, 8)
	r.watchers = append(r.watchers, ch)
	return ch
}

// set must be called with the mutex held
func (r *Register) set(o Outcome) {
	r.current = o
	for _, ch := range r.watchers {
		select {
		case ch <- o:
		default:
		}
	}
}
