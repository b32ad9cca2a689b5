package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/momo-payment-gateway/internal/api_gateway/service"
)

// WalletHandler handles HTTP requests for provider prediction and balances
type WalletHandler struct {
	walletService service.WalletService
	logger        *slog.Logger
}

// NewWalletHandler creates a new wallet handler
func NewWalletHandler(logger *slog.Logger, walletService service.WalletService) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// minPredictablePhoneLength matches the shortest full international number the
// upstream can resolve; shorter inputs are rejected without an upstream call.
const minPredictablePhoneLength = 10

// PredictProvider resolves the mobile-money network for a phone number
func (h *WalletHandler) PredictProvider(c *gin.Context) {
	phoneNumber := c.Query("phone_number")
	if len(phoneNumber) < minPredictablePhoneLength {
		RespondBadRequest(c, "phone_number must be at least 10 characters")
		return
	}

	prediction, err := h.walletService.PredictProvider(c.Request.Context(), phoneNumber)
	if err != nil {
		h.logger.Error("Failed to predict provider", "phone_number", phoneNumber, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, PredictionResponse{
		PhoneNumber: phoneNumber,
		Provider:    prediction.Provider,
		Country:     prediction.Country,
	})
}

// GetBalances retrieves the merchant wallet balances for a country
func (h *WalletHandler) GetBalances(c *gin.Context) {
	country := c.Param("country")
	if len(country) != 3 {
		RespondBadRequest(c, "country must be a 3-letter code")
		return
	}

	balances, err := h.walletService.GetWalletBalances(c.Request.Context(), country)
	if err != nil {
		h.logger.Error("Failed to get wallet balances", "country", country, "error", err)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapBalancesToResponse(country, balances))
}
