package momoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/momo-payment-gateway/internal/config"
	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/sony/gobreaker"
)

// terminalStatuses end a poll loop early; anything else keeps polling
var terminalStatuses = map[string]bool{
	"COMPLETED": true,
	"FAILED":    true,
	"REJECTED":  true,
}

// HTTPClient implements Client over the upstream REST API with bearer-token
// auth. All calls go through a shared circuit breaker so a flapping upstream
// fails fast instead of tying up workers.
type HTTPClient struct {
	baseURL         string
	apiToken        string
	httpClient      *http.Client
	breaker         *gobreaker.CircuitBreaker
	pollInterval    time.Duration
	pollMaxAttempts int
	logger          *slog.Logger
}

// NewHTTPClient creates a configured upstream client
func NewHTTPClient(logger *slog.Logger, cfg *config.UpstreamConfig) *HTTPClient {
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "momo-upstream",
		Timeout: cfg.BreakerCooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.BreakerMaxFails
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("Upstream circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})

	return &HTTPClient{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		apiToken:        cfg.APIToken,
		httpClient:      &http.Client{Timeout: cfg.RequestTimeout},
		breaker:         breaker,
		pollInterval:    cfg.PollInterval,
		pollMaxAttempts: cfg.PollMaxAttempts,
		logger:          logger,
	}
}

// PredictProvider asks the upstream which network serves a phone number
func (c *HTTPClient) PredictProvider(ctx context.Context, phoneNumber string) (*ProviderPrediction, error) {
	body := map[string]string{"phoneNumber": phoneNumber}

	var prediction ProviderPrediction
	if err := c.do(ctx, http.MethodPost, "/toolkit/predict-provider", body, &prediction); err != nil {
		return nil, fmt.Errorf("predict provider: %w", err)
	}
	return &prediction, nil
}

type depositBody struct {
	DepositID string       `json:"depositId"`
	Amount    string       `json:"amount"`
	Currency  string       `json:"currency"`
	Payer     depositPayer `json:"payer"`
}

type depositPayer struct {
	PhoneNumber string `json:"phoneNumber"`
	Provider    string `json:"provider,omitempty"`
}

// InitiateDeposit submits a customer-to-merchant collection
func (c *HTTPClient) InitiateDeposit(ctx context.Context, req DepositRequest) (*Receipt, error) {
	body := depositBody{
		DepositID: req.DepositID,
		Amount:    req.Amount,
		Currency:  req.Currency,
		Payer: depositPayer{
			PhoneNumber: req.PhoneNumber,
			Provider:    req.Provider,
		},
	}

	var resp struct {
		DepositID string `json:"depositId"`
		Status    string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/deposits", body, &resp); err != nil {
		return nil, fmt.Errorf("initiate deposit: %w", err)
	}

	return &Receipt{Kind: transaction.KindDeposit, TransactionID: resp.DepositID, Status: resp.Status}, nil
}

type payoutBody struct {
	PayoutID      string          `json:"payoutId"`
	Amount        string          `json:"amount"`
	Currency      string          `json:"currency"`
	Correspondent string          `json:"correspondent"`
	Recipient     payoutRecipient `json:"recipient"`
	Description   string          `json:"statementDescription,omitempty"`
}

type payoutRecipient struct {
	PhoneNumber string `json:"phoneNumber"`
}

// InitiatePayout submits a merchant-to-customer disbursement. The payout id
// doubles as the idempotency key; resubmitting the same id is safe.
func (c *HTTPClient) InitiatePayout(ctx context.Context, req PayoutRequest) (*Receipt, error) {
	body := payoutBody{
		PayoutID:      req.PayoutID,
		Amount:        req.Amount,
		Currency:      req.Currency,
		Correspondent: req.Correspondent,
		Recipient:     payoutRecipient{PhoneNumber: req.PhoneNumber},
		Description:   req.Description,
	}

	var resp struct {
		PayoutID string `json:"payoutId"`
		Status   string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/payouts", body, &resp); err != nil {
		return nil, fmt.Errorf("initiate payout: %w", err)
	}

	return &Receipt{Kind: transaction.KindPayout, TransactionID: resp.PayoutID, Status: resp.Status}, nil
}

type refundBody struct {
	RefundID  string `json:"refundId"`
	DepositID string `json:"depositId"`
	Amount    string `json:"amount"`
	Currency  string `json:"currency"`
}

// InitiateRefund submits a reversal of a prior deposit
func (c *HTTPClient) InitiateRefund(ctx context.Context, req RefundRequest) (*Receipt, error) {
	body := refundBody{
		RefundID:  req.RefundID,
		DepositID: req.DepositID,
		Amount:    req.Amount,
		Currency:  req.Currency,
	}

	var resp struct {
		RefundID string `json:"refundId"`
		Status   string `json:"status"`
	}
	if err := c.do(ctx, http.MethodPost, "/refunds", body, &resp); err != nil {
		return nil, fmt.Errorf("initiate refund: %w", err)
	}

	return &Receipt{Kind: transaction.KindRefund, TransactionID: resp.RefundID, Status: resp.Status}, nil
}

// PollStatus polls the upstream until the transaction reaches a terminal
// status or the attempt budget runs out. A non-terminal payload at budget
// exhaustion is still a successful poll; the caller sees the latest snapshot.
// A run that never produced a payload yields PollExhaustedError.
func (c *HTTPClient) PollStatus(ctx context.Context, transactionID string, kind transaction.Kind) (*StatusResult, error) {
	path, err := statusPath(transactionID, kind)
	if err != nil {
		return nil, err
	}

	var last *StatusResult
	var lastErr error

	for attempt := 1; attempt <= c.pollMaxAttempts; attempt++ {
		var resp struct {
			Status string         `json:"status"`
			Data   *StatusPayload `json:"data"`
		}
		err := c.do(ctx, http.MethodGet, path, nil, &resp)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			lastErr = err
			c.logger.Warn("Status poll attempt failed",
				"transaction_id", transactionID,
				"kind", string(kind),
				"attempt", attempt,
				"error", err,
			)
		} else {
			last = &StatusResult{Data: resp.Data}
			if resp.Data != nil && terminalStatuses[resp.Data.Status] {
				return last, nil
			}
		}

		if attempt < c.pollMaxAttempts {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.pollInterval):
			}
		}
	}

	if last != nil {
		return last, nil
	}
	return nil, &PollExhaustedError{Kind: kind, Attempts: c.pollMaxAttempts, Last: lastErr}
}

// WalletBalances fetches the merchant wallet balances for a country
func (c *HTTPClient) WalletBalances(ctx context.Context, countryCode string) (*WalletBalances, error) {
	var balances WalletBalances
	if err := c.do(ctx, http.MethodGet, "/wallet-balances/"+countryCode, nil, &balances); err != nil {
		return nil, fmt.Errorf("wallet balances: %w", err)
	}
	return &balances, nil
}

func statusPath(transactionID string, kind transaction.Kind) (string, error) {
	switch kind {
	case transaction.KindDeposit:
		return "/deposits/" + transactionID, nil
	case transaction.KindPayout:
		return "/payouts/" + transactionID, nil
	case transaction.KindRefund:
		return "/refunds/" + transactionID, nil
	}
	return "", fmt.Errorf("%w: %q", transaction.ErrInvalidKind, kind)
}

// do executes one HTTP round trip through the circuit breaker and decodes the
// JSON answer into out (skipped when out is nil).
func (c *HTTPClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiToken)
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("read response body: %w", err)
		}

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			return nil, &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(payload))}
		}
		return payload, nil
	})
	if err != nil {
		return err
	}

	if out == nil {
		return nil
	}
	payload := raw.([]byte)
	if len(payload) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response body: %w", err)
	}
	return nil
}
