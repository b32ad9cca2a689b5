package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/cache"
)

// ResolutionService processes one payment request end to end: it runs the
// orchestrator against a fresh register, persists the terminal outcome on the
// pending record, and caches the resolution for gateway reads.
type ResolutionService struct {
	orchestrator    TransactionOrchestrator
	transactionRepo transaction.Repository
	statusCache     cache.Store
	logger          *slog.Logger
}

// NewResolutionService creates a new resolution service
func NewResolutionService(
	logger *slog.Logger,
	orch TransactionOrchestrator,
	transactionRepo transaction.Repository,
	statusCache cache.Store,
) *ResolutionService {
	return &ResolutionService{
		orchestrator:    orch,
		transactionRepo: transactionRepo,
		statusCache:     statusCache,
		logger:          logger,
	}
}

// ProcessTransaction resolves one payment request. Each message gets its own
// register, so concurrent workers never share an outcome slot. A returned
// error means the message should not be committed and will be redelivered.
func (s *ResolutionService) ProcessTransaction(ctx context.Context, request *transaction.Request) error {
	reg := transaction.NewRegister()

	outcome, err := s.orchestrator.SubmitAndResolve(ctx, reg, request)
	if err != nil {
		// Precondition violations are deterministic; redelivery cannot fix
		// them. Mark the record failed and commit the message.
		if transaction.IsPreconditionError(err) {
			s.logger.Error("Rejecting payment request with invalid preconditions",
				"transaction_id", request.TransactionID.String(),
				"kind", string(request.Kind),
				"error", err,
			)
			return s.persistOutcome(ctx, request, transaction.Failed(err.Error()))
		}
		return fmt.Errorf("orchestration of transaction %s failed: %w", request.TransactionID.String(), err)
	}

	return s.persistOutcome(ctx, request, outcome)
}

func (s *ResolutionService) persistOutcome(ctx context.Context, request *transaction.Request, outcome transaction.Outcome) error {
	// The resolved upstream id rides on completed outcomes only
	if err := s.transactionRepo.ResolveOutcome(ctx, request.TransactionID, outcome, outcome.TransactionID); err != nil {
		s.logger.Error("Failed to persist transaction outcome",
			"transaction_id", request.TransactionID.String(),
			"state", string(outcome.State),
			"error", err,
		)
		return fmt.Errorf("failed to persist outcome for transaction %s: %w", request.TransactionID.String(), err)
	}

	if s.statusCache != nil {
		if err := s.statusCache.SetOutcome(ctx, request.TransactionID.String(), outcome); err != nil {
			s.logger.Warn("Failed to cache transaction outcome",
				"transaction_id", request.TransactionID.String(),
				"error", err,
			)
		}
	}

	s.logger.Info("Transaction outcome persisted",
		"transaction_id", request.TransactionID.String(),
		"kind", string(request.Kind),
		"state", string(outcome.State),
	)
	return nil
}
