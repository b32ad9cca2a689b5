package handler

import (
	"time"

	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/momoapi"
)

// Display placeholders for absent fields. Absent values render explicitly
// instead of as empty strings.
const (
	placeholderValue         = "N/A"
	placeholderPendingStatus = "Pending"
	defaultStatusLabel       = "COMPLETED"
)

// CreateTransactionRequest represents a request to submit a new transaction
type CreateTransactionRequest struct {
	Kind           string `json:"kind" binding:"required,oneof=DEPOSIT PAYOUT REFUND"`
	Amount         string `json:"amount" binding:"required"`
	Currency       string `json:"currency" binding:"required,len=3"`
	PhoneNumber    string `json:"phone_number,omitempty"`
	Correspondent  string `json:"correspondent,omitempty"`
	Description    string `json:"description,omitempty"`
	DepositID      string `json:"deposit_id,omitempty"`
	IdempotencyKey string `json:"idempotency_key,omitempty"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	TransactionID     string `json:"transaction_id"`
	Kind              string `json:"kind"`
	Amount            string `json:"amount"`
	Currency          string `json:"currency"`
	PhoneNumber       string `json:"phone_number,omitempty"`
	State             string `json:"state"`
	Status            string `json:"status"`
	ProviderReference string `json:"provider_reference"`
	FailureMessage    string `json:"failure_message,omitempty"`
	CreatedAt         string `json:"created_at"`
	ResolvedAt        string `json:"resolved_at,omitempty"`
}

// OutcomeResponse represents the current outcome of a transaction
type OutcomeResponse struct {
	State             string `json:"state"`
	Amount            string `json:"amount,omitempty"`
	Currency          string `json:"currency,omitempty"`
	Status            string `json:"status,omitempty"`
	ProviderReference string `json:"provider_reference,omitempty"`
	TransactionID     string `json:"transaction_id,omitempty"`
	Message           string `json:"message,omitempty"`
}

// PredictionResponse represents a provider prediction in API responses
type PredictionResponse struct {
	PhoneNumber string `json:"phone_number"`
	Provider    string `json:"provider"`
	Country     string `json:"country"`
}

// BalanceResponse represents one wallet balance in API responses
type BalanceResponse struct {
	Balance  string `json:"balance"`
	Currency string `json:"currency"`
}

// WalletBalancesResponse represents the merchant wallet balances for a country
type WalletBalancesResponse struct {
	Country  string            `json:"country"`
	Balances []BalanceResponse `json:"balances"`
}

// PaginationParams represents pagination parameters for list endpoints
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=10" binding:"min=1,max=100"`
}

// mapRecordToResponse maps a transaction record to a response DTO, rendering
// absent display fields with placeholders
func mapRecordToResponse(record *transaction.Record) TransactionResponse {
	response := TransactionResponse{
		TransactionID:     record.TransactionID.String(),
		Kind:              string(record.Kind),
		Amount:            orPlaceholder(record.Amount, placeholderValue),
		Currency:          record.Currency,
		PhoneNumber:       record.PhoneNumber,
		State:             string(record.State),
		ProviderReference: orPlaceholder(record.ProviderReference, placeholderValue),
		FailureMessage:    record.FailureMessage,
		CreatedAt:         record.CreatedAt.Format(time.RFC3339),
	}

	switch record.State {
	case transaction.StateCompleted:
		response.Status = orPlaceholder(record.FinalStatus, defaultStatusLabel)
	case transaction.StateFailed:
		response.Status = orPlaceholder(record.FinalStatus, placeholderValue)
	default:
		response.Status = placeholderPendingStatus
	}

	if record.ResolvedAt != nil {
		response.ResolvedAt = record.ResolvedAt.Format(time.RFC3339)
	}

	return response
}

// mapOutcomeToResponse maps an outcome to a response DTO. Completed outcomes
// get placeholder rendering; failed ones carry only the message through.
func mapOutcomeToResponse(outcome *transaction.Outcome) OutcomeResponse {
	response := OutcomeResponse{
		State:         string(outcome.State),
		Message:       outcome.Message,
		TransactionID: outcome.TransactionID,
	}

	if outcome.State == transaction.StateCompleted {
		response.Amount = orPlaceholder(outcome.Amount, placeholderValue)
		response.Currency = outcome.Currency
		response.Status = orPlaceholder(outcome.Status, defaultStatusLabel)
		response.ProviderReference = orPlaceholder(outcome.ProviderReference, placeholderValue)
	}

	return response
}

func mapBalancesToResponse(country string, balances *momoapi.WalletBalances) WalletBalancesResponse {
	response := WalletBalancesResponse{Country: country, Balances: []BalanceResponse{}}
	for _, b := range balances.Balances {
		response.Balances = append(response.Balances, BalanceResponse{
			Balance:  orPlaceholder(b.Balance, placeholderValue),
			Currency: b.Currency,
		})
	}
	return response
}

func orPlaceholder(value, placeholder string) string {
	if value == "" {
		return placeholder
	}
	return value
}
