// Package orchestrator drives a payment transaction from submission through
// status resolution. One call produces exactly one terminal outcome; the
// caller-owned register is never left stuck in the pending state.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/momo-payment-gateway/internal/domain/journal"
	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/momoapi"
)

// Orchestrator sequences the submit and poll calls against the upstream
// client. It is stateless between runs; the outcome slot lives in the
// register the caller passes to SubmitAndResolve.
type Orchestrator struct {
	logger  *slog.Logger
	client  momoapi.Client
	journal journal.Repository // Optional lifecycle trail, may be nil
}

// New creates an orchestrator. journalRepo may be nil when no lifecycle
// trail is wanted; journal failures never fail a run either way.
func New(logger *slog.Logger, client momoapi.Client, journalRepo journal.Repository) *Orchestrator {
	return &Orchestrator{
		logger:  logger,
		client:  client,
		journal: journalRepo,
	}
}

// SubmitAndResolve drives one transaction request to a terminal outcome.
//
// The register transitions to Pending synchronously, before any network
// call starts. Submission failures resolve to Failed without polling.
// Validation errors and re-entrant calls while the register is pending
// are returned as errors with the register untouched (or still owned by
// the in-flight run); they are caller bugs, not transaction outcomes.
func (o *Orchestrator) SubmitAndResolve(ctx context.Context, reg *transaction.Register, req *transaction.Request) (transaction.Outcome, error) {
	if err := req.Validate(); err != nil {
		return reg.Get(), err
	}

	if err := reg.Begin(); err != nil {
		return reg.Get(), err
	}

	// Each payout attempt must carry a unique identifier so retries are
	// never double-disbursed upstream.
	if req.Kind == transaction.KindPayout && req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.NewString()
	}

	receipt, err := o.submit(ctx, req)
	if err != nil {
		outcome := transaction.Failed(fmt.Sprintf("Could not start %s: %s", req.Kind.Display(), err.Error()))
		o.appendJournal(ctx, req, journal.StageSubmitFailed, outcome.Message)
		o.resolve(ctx, reg, req, outcome)
		return outcome, nil
	}

	resolvingID := receipt.TransactionID
	if resolvingID == "" {
		resolvingID = req.IdempotencyKey
	}
	o.appendJournal(ctx, req, journal.StageSubmitted, "upstream id "+resolvingID)

	outcome := o.poll(ctx, req, resolvingID)
	o.resolve(ctx, reg, req, outcome)
	return outcome, nil
}

func (o *Orchestrator) submit(ctx context.Context, req *transaction.Request) (*momoapi.Receipt, error) {
	switch req.Kind {
	case transaction.KindDeposit:
		return o.client.InitiateDeposit(ctx, momoapi.DepositRequest{
			DepositID:   req.TransactionID.String(),
			Amount:      req.Amount,
			Currency:    req.Currency,
			PhoneNumber: req.PhoneNumber,
			Provider:    req.Correspondent,
		})
	case transaction.KindPayout:
		return o.client.InitiatePayout(ctx, momoapi.PayoutRequest{
			PayoutID:      req.IdempotencyKey,
			Amount:        req.Amount,
			PhoneNumber:   req.PhoneNumber,
			Currency:      req.Currency,
			Correspondent: req.Correspondent,
			Description:   req.Description,
		})
	case transaction.KindRefund:
		return o.client.InitiateRefund(ctx, momoapi.RefundRequest{
			RefundID:  req.TransactionID.String(),
			DepositID: req.DepositID,
			Currency:  req.Currency,
			Amount:    req.Amount,
		})
	}
	// Validate has already rejected unknown kinds
	return nil, transaction.ErrInvalidKind
}

// poll resolves the submitted transaction to a terminal outcome. The
// client owns the whole retry/backoff budget; a poll error here is final.
func (o *Orchestrator) poll(ctx context.Context, req *transaction.Request, resolvingID string) transaction.Outcome {
	result, err := o.client.PollStatus(ctx, resolvingID, req.Kind)
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = fmt.Sprintf("%s status check timed out.", req.Kind.Display())
		}
		o.appendJournal(ctx, req, journal.StagePolled, msg)
		return transaction.Failed(msg)
	}

	if result == nil || result.Data == nil {
		msg := fmt.Sprintf("%s accepted but status data is missing.", req.Kind.Display())
		o.appendJournal(ctx, req, journal.StagePolled, msg)
		return transaction.Failed(msg)
	}

	payload := result.Data
	o.appendJournal(ctx, req, journal.StagePolled, "status "+payload.Status)

	transactionID := payload.TransactionID
	if transactionID == "" {
		transactionID = resolvingID
	}
	return transaction.Completed(
		payload.Amount,
		payload.Currency,
		payload.Status,
		payload.ProviderTransactionID,
		transactionID,
	)
}

func (o *Orchestrator) resolve(ctx context.Context, reg *transaction.Register, req *transaction.Request, outcome transaction.Outcome) {
	if err := reg.Resolve(outcome); err != nil {
		o.logger.Error("Failed to resolve transaction register",
			"transaction_id", req.TransactionID.String(),
			"error", err,
		)
		return
	}
	o.appendJournal(ctx, req, journal.StageResolved, string(outcome.State))
	o.logger.Info("Transaction resolved",
		"transaction_id", req.TransactionID.String(),
		"kind", string(req.Kind),
		"state", string(outcome.State),
	)
}

// appendJournal is best effort. A journal write failure is logged and
// dropped; it must never fail the run.
func (o *Orchestrator) appendJournal(ctx context.Context, req *transaction.Request, stage journal.Stage, detail string) {
	if o.journal == nil {
		return
	}
	entry := &journal.Entry{
		TransactionID: req.TransactionID,
		Stage:         stage,
		Detail:        detail,
		CorrelationID: req.CorrelationID,
		At:            time.Now().UTC(),
	}
	if err := o.journal.Append(ctx, entry); err != nil {
		o.logger.Warn("Failed to append journal entry",
			"transaction_id", req.TransactionID.String(),
			"stage", string(stage),
			"error", err,
		)
	}
}
