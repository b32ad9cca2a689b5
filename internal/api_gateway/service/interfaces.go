package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/momoapi"
)

// TransactionService defines the interface for transaction operations
type TransactionService interface {
	// SubmitTransaction accepts a transaction request for asynchronous
	// processing, with idempotency support.
	// Returns the transaction ID, the existing record when the idempotency
	// key was already used, and any error.
	SubmitTransaction(ctx context.Context, req *transaction.Request) (string, *transaction.Record, error)

	// GetTransactionByID retrieves a transaction record by its ID.
	// Returns nil if the transaction is not found.
	GetTransactionByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error)

	// GetTransactionOutcome retrieves the current outcome of a transaction,
	// consulting the status cache before the database.
	// Returns nil if the transaction is not found.
	GetTransactionOutcome(ctx context.Context, transactionID uuid.UUID) (*transaction.Outcome, error)

	// GetTransactionsByPhoneNumber retrieves the paginated transaction history
	// for a phone number. Returns records, total count, and any error.
	GetTransactionsByPhoneNumber(ctx context.Context, phoneNumber string, page, perPage int) ([]*transaction.Record, int64, error)
}

// WalletService defines the interface for provider prediction and balance lookups
type WalletService interface {
	// PredictProvider resolves the mobile-money network for a phone number,
	// serving cached predictions when available
	PredictProvider(ctx context.Context, phoneNumber string) (*momoapi.ProviderPrediction, error)

	// GetWalletBalances retrieves the merchant wallet balances for a country
	GetWalletBalances(ctx context.Context, countryCode string) (*momoapi.WalletBalances, error)
}
