// Package postgres provides PostgreSQL implementations of the domain repositories.
// It is the authoritative store for transaction records in the payment gateway.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/persistence"
)

// TransactionRepository implements the transaction.Repository interface for PostgreSQL
type TransactionRepository struct {
	querier persistence.Querier // Can be *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewTransactionRepository creates a new PostgreSQL transaction repository.
// It expects db.Pool() to satisfy persistence.Querier.
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) transaction.Repository {
	return &TransactionRepository{
		querier: db.Pool(),
		logger:  logger,
	}
}

// WithTx wraps the repository with a transaction, allowing for atomic operations
// across multiple repository calls.
func (r *TransactionRepository) WithTx(tx pgx.Tx) transaction.Repository {
	return &TransactionRepository{
		querier: tx,
		logger:  r.logger,
	}
}

// Create stores a new pending transaction record
func (r *TransactionRepository) Create(ctx context.Context, record *transaction.Record) error {
	query := `
		INSERT INTO transactions (
			transaction_id, kind, amount, currency, phone_number, correspondent,
			description, deposit_id, idempotency_key, correlation_id,
			state, final_status, provider_reference, upstream_id, failure_message,
			created_at, resolved_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`

	_, err := r.querier.Exec(ctx, query,
		record.TransactionID,
		record.Kind,
		record.Amount,
		record.Currency,
		record.PhoneNumber,
		record.Correspondent,
		record.Description,
		record.DepositID,
		record.IdempotencyKey,
		record.CorrelationID,
		record.State,
		record.FinalStatus,
		record.ProviderReference,
		record.UpstreamID,
		record.FailureMessage,
		record.CreatedAt,
		record.ResolvedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return transaction.ErrDuplicateRecord{TransactionID: record.TransactionID}
		}
		r.logger.Error("Failed to create transaction record", "transaction_id", record.TransactionID.String(), "error", err)
		return fmt.Errorf("failed to create transaction record: %w", err)
	}

	return nil
}

// GetByID retrieves a transaction record by its ID
func (r *TransactionRepository) GetByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error) {
	query := selectColumns + `
		FROM transactions
		WHERE transaction_id = $1
	`

	record, err := r.scanOne(r.querier.QueryRow(ctx, query, transactionID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, transaction.ErrRecordNotFound{TransactionID: transactionID}
		}
		r.logger.Error("Failed to get transaction record", "transaction_id", transactionID.String(), "error", err)
		return nil, fmt.Errorf("failed to get transaction record: %w", err)
	}

	return record, nil
}

// GetByIdempotencyKey retrieves a transaction record by its idempotency key.
// Returns nil, nil when no record carries the key.
func (r *TransactionRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*transaction.Record, error) {
	query := selectColumns + `
		FROM transactions
		WHERE idempotency_key = $1
	`

	record, err := r.scanOne(r.querier.QueryRow(ctx, query, idempotencyKey))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get transaction record by idempotency key", "idempotency_key", idempotencyKey, "error", err)
		return nil, fmt.Errorf("failed to get transaction record by idempotency key: %w", err)
	}

	return record, nil
}

// ResolveOutcome stores the terminal outcome for a pending record
func (r *TransactionRepository) ResolveOutcome(ctx context.Context, transactionID uuid.UUID, outcome transaction.Outcome, upstreamID string) error {
	if !outcome.State.Terminal() {
		return transaction.ErrNotTerminal
	}

	query := `
		UPDATE transactions
		SET state = $1, final_status = $2, provider_reference = $3, upstream_id = $4,
			failure_message = $5, resolved_at = $6
		WHERE transaction_id = $7 AND state = $8
	`

	result, err := r.querier.Exec(ctx, query,
		outcome.State,
		outcome.Status,
		outcome.ProviderReference,
		upstreamID,
		outcome.Message,
		time.Now().UTC(),
		transactionID,
		transaction.StatePending,
	)
	if err != nil {
		r.logger.Error("Failed to resolve transaction record", "transaction_id", transactionID.String(), "error", err)
		return fmt.Errorf("failed to resolve transaction record: %w", err)
	}

	if result.RowsAffected() == 0 {
		return transaction.ErrRecordNotFound{TransactionID: transactionID}
	}

	return nil
}

// GetByPhoneNumber retrieves transaction records for a phone number with pagination,
// newest first
func (r *TransactionRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string, limit, offset int) ([]*transaction.Record, error) {
	query := selectColumns + `
		FROM transactions
		WHERE phone_number = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.querier.Query(ctx, query, phoneNumber, limit, offset)
	if err != nil {
		r.logger.Error("Failed to query transaction records", "phone_number", phoneNumber, "error", err)
		return nil, fmt.Errorf("failed to query transaction records: %w", err)
	}
	defer rows.Close()

	var records []*transaction.Record
	for rows.Next() {
		record, err := r.scanOne(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction record: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read transaction records: %w", err)
	}

	return records, nil
}

// CountByPhoneNumber counts transaction records for a phone number
func (r *TransactionRepository) CountByPhoneNumber(ctx context.Context, phoneNumber string) (int64, error) {
	query := `
		SELECT COUNT(*)
		FROM transactions
		WHERE phone_number = $1
	`

	var count int64
	err := r.querier.QueryRow(ctx, query, phoneNumber).Scan(&count)
	if err != nil {
		r.logger.Error("Failed to count transaction records", "phone_number", phoneNumber, "error", err)
		return 0, fmt.Errorf("failed to count transaction records: %w", err)
	}

	return count, nil
}

const selectColumns = `
		SELECT transaction_id, kind, amount, currency, phone_number, correspondent,
			description, deposit_id, idempotency_key, correlation_id,
			state, final_status, provider_reference, upstream_id, failure_message,
			created_at, resolved_at`

func (r *TransactionRepository) scanOne(row pgx.Row) (*transaction.Record, error) {
	var record transaction.Record
	err := row.Scan(
		&record.TransactionID,
		&record.Kind,
		&record.Amount,
		&record.Currency,
		&record.PhoneNumber,
		&record.Correspondent,
		&record.Description,
		&record.DepositID,
		&record.IdempotencyKey,
		&record.CorrelationID,
		&record.State,
		&record.FinalStatus,
		&record.ProviderReference,
		&record.UpstreamID,
		&record.FailureMessage,
		&record.CreatedAt,
		&record.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &record, nil
}
