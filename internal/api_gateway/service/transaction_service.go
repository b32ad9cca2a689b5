package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"

	"github.com/momo-payment-gateway/internal/domain/journal"
	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/cache"
	"github.com/momo-payment-gateway/internal/platform/messaging/producers"
)

// TransactionServiceImpl implements the TransactionService interface
type TransactionServiceImpl struct {
	transactionRepo transaction.Repository
	journalRepo     journal.Repository
	statusCache     cache.Store
	producer        producers.MessagePublisher
	logger          *slog.Logger
}

// NewTransactionService creates a new transaction service
func NewTransactionService(
	logger *slog.Logger,
	transactionRepo transaction.Repository,
	journalRepo journal.Repository,
	statusCache cache.Store,
	producer producers.MessagePublisher,
) TransactionService {
	return &TransactionServiceImpl{
		transactionRepo: transactionRepo,
		journalRepo:     journalRepo,
		statusCache:     statusCache,
		producer:        producer,
		logger:          logger,
	}
}

// SubmitTransaction validates and accepts a transaction request. The pending
// record is stored before the request is published, so a processor crash can
// never leave an accepted transaction without a row to resolve.
func (s *TransactionServiceImpl) SubmitTransaction(ctx context.Context, req *transaction.Request) (string, *transaction.Record, error) {
	if err := req.Validate(); err != nil {
		return "", nil, err
	}

	if req.IdempotencyKey != "" {
		existing, err := s.transactionRepo.GetByIdempotencyKey(ctx, req.IdempotencyKey)
		if err != nil {
			s.logger.Error("Failed to check for existing transaction with idempotency key",
				"idempotency_key", req.IdempotencyKey,
				"error", err,
			)
			return "", nil, err
		}

		if existing != nil {
			s.logger.Info("Found existing transaction with idempotency key",
				"idempotency_key", req.IdempotencyKey,
				"transaction_id", existing.TransactionID,
				"state", string(existing.State),
			)
			return existing.TransactionID.String(), existing, nil
		}
	}

	record := transaction.NewRecord(req)
	if err := s.transactionRepo.Create(ctx, record); err != nil {
		s.logger.Error("Failed to store pending transaction record",
			"transaction_id", req.TransactionID,
			"error", err,
		)
		return "", nil, err
	}

	s.appendJournal(ctx, req, journal.StageAccepted)

	key := req.TransactionID.String()
	if err := s.producer.Publish(ctx, key, req); err != nil {
		s.logger.Error("Failed to publish payment request",
			"transaction_id", req.TransactionID,
			"kind", string(req.Kind),
			"amount", req.Amount,
			"error", err,
		)
		return "", nil, err
	}

	s.logger.Info("Payment request published",
		"transaction_id", req.TransactionID,
		"kind", string(req.Kind),
		"amount", req.Amount,
	)

	return key, nil, nil
}

// GetTransactionByID retrieves a transaction record by its ID. Returns nil if not found
func (s *TransactionServiceImpl) GetTransactionByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error) {
	record, err := s.transactionRepo.GetByID(ctx, transactionID)
	if err != nil {
		var notFound transaction.ErrRecordNotFound
		if errors.As(err, &notFound) {
			s.logger.Info("Transaction not found", "transaction_id", transactionID.String())
			return nil, nil
		}
		s.logger.Error("Failed to get transaction by ID", "transaction_id", transactionID.String(), "error", err)
		return nil, err
	}
	return record, nil
}

// GetTransactionOutcome resolves a transaction's current outcome, reading
// through the cache. Terminal outcomes are cached on the way out; pending
// ones are not, so the next read sees the resolution as soon as it lands.
func (s *TransactionServiceImpl) GetTransactionOutcome(ctx context.Context, transactionID uuid.UUID) (*transaction.Outcome, error) {
	if s.statusCache != nil {
		cached, err := s.statusCache.GetOutcome(ctx, transactionID.String())
		if err != nil {
			s.logger.Warn("Status cache read failed, falling back to database",
				"transaction_id", transactionID.String(),
				"error", err,
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	record, err := s.GetTransactionByID(ctx, transactionID)
	if err != nil || record == nil {
		return nil, err
	}

	outcome := record.Outcome()
	if s.statusCache != nil && outcome.State.Terminal() {
		if err := s.statusCache.SetOutcome(ctx, transactionID.String(), outcome); err != nil {
			s.logger.Warn("Failed to cache transaction outcome",
				"transaction_id", transactionID.String(),
				"error", err,
			)
		}
	}

	return &outcome, nil
}

// GetTransactionsByPhoneNumber retrieves paginated transaction history for a phone number.
// Returns records, total count, and any error
func (s *TransactionServiceImpl) GetTransactionsByPhoneNumber(ctx context.Context, phoneNumber string, page, perPage int) ([]*transaction.Record, int64, error) {
	offset := (page - 1) * perPage

	records, err := s.transactionRepo.GetByPhoneNumber(ctx, phoneNumber, perPage, offset)
	if err != nil {
		return nil, 0, err
	}

	total, err := s.transactionRepo.CountByPhoneNumber(ctx, phoneNumber)
	if err != nil {
		return nil, 0, err
	}

	return records, total, nil
}

func (s *TransactionServiceImpl) appendJournal(ctx context.Context, req *transaction.Request, stage journal.Stage) {
	if s.journalRepo == nil {
		return
	}
	entry := &journal.Entry{
		TransactionID: req.TransactionID,
		Stage:         stage,
		CorrelationID: req.CorrelationID,
		At:            req.Timestamp,
	}
	if err := s.journalRepo.Append(ctx, entry); err != nil {
		s.logger.Warn("Failed to append journal entry",
			"transaction_id", req.TransactionID.String(),
			"stage", string(stage),
			"error", err,
		)
	}
}
