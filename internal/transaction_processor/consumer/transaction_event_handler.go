package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/messaging/producers"
	"github.com/momo-payment-gateway/internal/transaction_processor/service"
)

// PaymentEventHandler handles incoming payment request messages from Kafka
type PaymentEventHandler struct {
	processingService service.ProcessingService
	producer          producers.DeadLetterPublisher
	logger            *slog.Logger
}

// NewPaymentEventHandler creates a new handler
func NewPaymentEventHandler(
	logger *slog.Logger,
	processingService service.ProcessingService,
	producer producers.DeadLetterPublisher,
) *PaymentEventHandler {
	return &PaymentEventHandler{
		processingService: processingService,
		producer:          producer,
		logger:            logger,
	}
}

// HandleMessage processes one Kafka message. Returning nil commits the
// offset; returning an error leaves the message for redelivery. Messages that
// cannot be decoded go to the dead letter queue when one is configured.
func (h *PaymentEventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var request transaction.Request
	if err := json.Unmarshal(value, &request); err != nil {
		unmarshalErrorMsg := "Failed to unmarshal payment request from Kafka message"
		h.logger.Error(unmarshalErrorMsg,
			"error", err,
			"message_key", string(key),
		)

		if h.producer != nil {
			dlqReason := fmt.Sprintf("%s: %s", unmarshalErrorMsg, err.Error())
			if dlqErr := h.producer.PublishToDLQ(ctx, string(key), value, dlqReason); dlqErr != nil {
				h.logger.Error("Failed to publish message to DLQ after unmarshal error",
					"dlq_error", dlqErr,
					"original_error", err,
					"message_key", string(key),
				)
			} else {
				h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", dlqReason)
				return nil
			}
		}
		// Allow Kafka retries
		return fmt.Errorf("failed to unmarshal message value: %w", err)
	}

	logger := h.logger
	if request.CorrelationID != "" {
		logger = h.logger.With("correlation_id", request.CorrelationID)
	}

	logger.Info("Received payment request for processing",
		"transaction_id", request.TransactionID.String(),
		"kind", string(request.Kind),
		"amount", request.Amount,
		"currency", request.Currency,
	)

	if err := h.processingService.ProcessTransaction(ctx, &request); err != nil {
		logger.Error("Failed to process payment request",
			"transaction_id", request.TransactionID.String(),
			"kind", string(request.Kind),
			"error", err,
		)
		return fmt.Errorf("processing transaction %s failed: %w", request.TransactionID.String(), err)
	}

	logger.Info("Successfully processed payment request", "transaction_id", request.TransactionID.String())
	return nil
}
