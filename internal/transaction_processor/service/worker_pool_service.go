package service

import (
	"context"
	"log/slog"

	"github.com/panjf2000/ants/v2"

	"github.com/momo-payment-gateway/internal/domain/transaction"
)

// WorkerPoolProcessingService bounds concurrent orchestration runs with an
// ants pool. Each submitted request is still processed to completion before
// ProcessTransaction returns, so the consumer's commit semantics are unchanged.
type WorkerPoolProcessingService struct {
	baseService ProcessingService
	pool        *ants.Pool
	logger      *slog.Logger
}

type WorkerPoolConfig struct {
	Size int
}

func NewWorkerPoolProcessingService(
	baseService ProcessingService,
	config WorkerPoolConfig,
	logger *slog.Logger,
) (*WorkerPoolProcessingService, error) {
	pool, err := ants.NewPool(config.Size)
	if err != nil {
		return nil, err
	}

	return &WorkerPoolProcessingService{
		baseService: baseService,
		pool:        pool,
		logger:      logger,
	}, nil
}

// ProcessTransaction submits a payment request to the worker pool and waits
// for the run to finish.
func (s *WorkerPoolProcessingService) ProcessTransaction(ctx context.Context, request *transaction.Request) error {
	logger := s.logger
	if request.CorrelationID != "" {
		logger = s.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Submitting payment request to worker pool",
		"transaction_id", request.TransactionID.String(),
		"kind", string(request.Kind),
	)

	resultChan := make(chan error, 1)

	// Copy the request so the worker never races the caller
	requestCopy := *request

	err := s.pool.Submit(func() {
		resultChan <- s.baseService.ProcessTransaction(ctx, &requestCopy)
	})
	if err != nil {
		logger.Error("Failed to submit payment request to worker pool",
			"transaction_id", request.TransactionID.String(),
			"error", err,
		)
		return err
	}

	return <-resultChan
}

// Shutdown gracefully shuts down the worker pool.
func (s *WorkerPoolProcessingService) Shutdown() {
	s.logger.Info("Shutting down worker pool", "running_workers", s.pool.Running())
	s.pool.Release()
}

// Running returns the number of running workers in the pool.
func (s *WorkerPoolProcessingService) Running() int {
	return s.pool.Running()
}

// Capacity returns the capacity of the worker pool.
func (s *WorkerPoolProcessingService) Capacity() int {
	return s.pool.Cap()
}
