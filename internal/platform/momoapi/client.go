// Package momoapi is the client for the upstream mobile-money aggregation API.
// The gateway never talks to individual carriers; everything goes through this
// one provider, which routes by correspondent.
package momoapi

import (
	"context"
	"fmt"

	"github.com/momo-payment-gateway/internal/domain/transaction"
)

// ProviderPrediction is the predicted network for a phone number
type ProviderPrediction struct {
	Provider string `json:"provider"`
	Country  string `json:"country"`
}

// WalletBalance is one currency balance of the merchant wallet
type WalletBalance struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// WalletBalances groups the merchant wallet balances for one country
type WalletBalances struct {
	Balances []WalletBalance `json:"balances"`
}

// DepositRequest initiates a customer-to-merchant collection
type DepositRequest struct {
	DepositID   string
	Amount      string
	Currency    string
	PhoneNumber string
	Provider    string // Optional routing hint
}

// PayoutRequest initiates a merchant-to-customer disbursement. PayoutID is the
// caller's idempotency key; the upstream deduplicates retries on it.
type PayoutRequest struct {
	PayoutID      string
	Amount        string
	PhoneNumber   string
	Currency      string
	Correspondent string
	Description   string
}

// RefundRequest reverses a prior deposit
type RefundRequest struct {
	RefundID  string
	DepositID string
	Currency  string
	Amount    string
}

// Receipt is the uniform acknowledgement for all three submission operations.
// TransactionID is the kind-specific id the upstream assigned (deposit id,
// payout id, or refund id); callers never branch on a concrete response type.
type Receipt struct {
	Kind          transaction.Kind `json:"kind"`
	TransactionID string           `json:"transaction_id"`
	Status        string           `json:"status,omitempty"`
}

// StatusPayload is the final status record returned by a poll
type StatusPayload struct {
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Status                string `json:"status"`
	ProviderTransactionID string `json:"provider_transaction_id,omitempty"`
	TransactionID         string `json:"transaction_id"`
}

// StatusResult is what a successful poll yields. Data is nil when the upstream
// acknowledged the transaction but returned no status payload; that is a
// distinct failure case for the caller, not a transport error.
type StatusResult struct {
	Data *StatusPayload `json:"data,omitempty"`
}

// Client is the upstream API surface the gateway consumes. Implementations own
// all transport concerns including the retry/backoff budget for PollStatus;
// every call must be safe to abandon via context cancellation.
type Client interface {
	PredictProvider(ctx context.Context, phoneNumber string) (*ProviderPrediction, error)
	InitiateDeposit(ctx context.Context, req DepositRequest) (*Receipt, error)
	InitiatePayout(ctx context.Context, req PayoutRequest) (*Receipt, error)
	InitiateRefund(ctx context.Context, req RefundRequest) (*Receipt, error)
	PollStatus(ctx context.Context, transactionID string, kind transaction.Kind) (*StatusResult, error)
	WalletBalances(ctx context.Context, countryCode string) (*WalletBalances, error)
}

// APIError is a non-2xx answer from the upstream
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Body)
}

// PollExhaustedError indicates the poll budget ran out without reaching a
// terminal status
type PollExhaustedError struct {
	Kind     transaction.Kind
	Attempts int
	Last     error
}

func (e *PollExhaustedError) Error() string {
	msg := fmt.Sprintf("%s status check timed out after %d attempts", e.Kind.Display(), e.Attempts)
	if e.Last != nil {
		msg += ": " + e.Last.Error()
	}
	return msg
}

func (e *PollExhaustedError) Unwrap() error { return e.Last }
