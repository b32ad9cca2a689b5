package service

import (
	"context"

	"github.com/momo-payment-gateway/internal/domain/transaction"
)

// ProcessingService defines the interface for processing payment requests
// consumed from the queue.
type ProcessingService interface {
	ProcessTransaction(ctx context.Context, request *transaction.Request) error
}

// TransactionOrchestrator drives one request to a terminal outcome.
// Satisfied by orchestrator.Orchestrator.
type TransactionOrchestrator interface {
	SubmitAndResolve(ctx context.Context, reg *transaction.Register, req *transaction.Request) (transaction.Outcome, error)
}
