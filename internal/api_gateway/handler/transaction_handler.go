package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/momo-payment-gateway/internal/api_gateway/middleware"
	"github.com/momo-payment-gateway/internal/api_gateway/service"
	"github.com/momo-payment-gateway/internal/domain/transaction"
)

// TransactionHandler handles HTTP requests for transaction operations
type TransactionHandler struct {
	transactionService service.TransactionService
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		logger:             logger,
	}
}

// Create accepts a deposit, payout, or refund for asynchronous processing.
// Precondition failures (refund without a deposit id, payout without a
// correspondent) come back as 400 before anything is published.
func (h *TransactionHandler) Create(c *gin.Context) {
	var req CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	kind := transaction.Kind(req.Kind)
	if !kind.Valid() {
		h.logger.Error("Invalid transaction kind", "kind", req.Kind)
		RespondBadRequest(c, "Invalid transaction kind")
		return
	}

	if kind == transaction.KindPayout && req.IdempotencyKey == "" {
		req.IdempotencyKey = uuid.New().String()
	}

	transactionRequest := &transaction.Request{
		TransactionID:  uuid.New(),
		Kind:           kind,
		Amount:         req.Amount,
		Currency:       req.Currency,
		PhoneNumber:    req.PhoneNumber,
		Correspondent:  req.Correspondent,
		Description:    req.Description,
		DepositID:      req.DepositID,
		IdempotencyKey: req.IdempotencyKey,
		CorrelationID:  middleware.GetCorrelationID(c),
		Timestamp:      time.Now().UTC(),
	}

	transactionID, existing, err := h.transactionService.SubmitTransaction(c.Request.Context(), transactionRequest)
	if err != nil {
		if transaction.IsPreconditionError(err) {
			h.logger.Error("Transaction precondition failed", "kind", req.Kind, "error", err)
			RespondBadRequest(c, err.Error())
			return
		}
		h.logger.Error("Failed to submit transaction", "error", err)
		RespondInternalError(c)
		return
	}
	if existing != nil {
		RespondOK(c, mapRecordToResponse(existing))
		return
	}

	RespondAccepted(c, gin.H{
		"transaction_id": transactionID,
		"state":          string(transaction.StatePending),
	})
}

// GetByID retrieves transaction details by ID, returns 404 if not found
func (h *TransactionHandler) GetByID(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	record, err := h.transactionService.GetTransactionByID(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transaction", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if record == nil {
		RespondNotFound(c, "Transaction not found")
		return
	}

	RespondOK(c, mapRecordToResponse(record))
}

// GetOutcome retrieves the current outcome of a transaction
func (h *TransactionHandler) GetOutcome(c *gin.Context) {
	idParam := c.Param("id")
	id, err := uuid.Parse(idParam)
	if err != nil {
		h.logger.Error("Invalid transaction ID", "id", idParam, "error", err)
		RespondBadRequest(c, "Invalid transaction ID")
		return
	}

	outcome, err := h.transactionService.GetTransactionOutcome(c.Request.Context(), id)
	if err != nil {
		h.logger.Error("Failed to get transaction outcome", "id", idParam, "error", err)
		RespondInternalError(c)
		return
	}

	if outcome == nil {
		RespondNotFound(c, "Transaction not found")
		return
	}

	RespondOK(c, mapOutcomeToResponse(outcome))
}

// GetByPhoneNumber retrieves paginated transaction history for a phone number
func (h *TransactionHandler) GetByPhoneNumber(c *gin.Context) {
	phoneNumber := c.Param("phone")
	if phoneNumber == "" {
		RespondBadRequest(c, "Phone number is required")
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		h.logger.Error("Invalid pagination parameters", "error", err)
		RespondBadRequest(c, "Invalid pagination parameters")
		return
	}

	records, total, err := h.transactionService.GetTransactionsByPhoneNumber(
		c.Request.Context(),
		phoneNumber,
		pagination.Page,
		pagination.PerPage,
	)
	if err != nil {
		h.logger.Error("Failed to get transactions", "phone_number", phoneNumber, "error", err)
		RespondInternalError(c)
		return
	}

	var transactions []TransactionResponse
	for _, record := range records {
		transactions = append(transactions, mapRecordToResponse(record))
	}

	RespondWithPaginatedData(c, http.StatusOK, transactions, pagination.Page, pagination.PerPage, int(total))
}
