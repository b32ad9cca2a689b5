package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/momo-payment-gateway/internal/api_gateway/handler"
	"github.com/momo-payment-gateway/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	transactionHandler *handler.TransactionHandler,
	walletHandler *handler.WalletHandler,
) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CorrelationID())

	// API v1 endpoints
	v1 := r.Group("/api/v1")
	{
		// Transaction operations
		transactions := v1.Group("/transactions")
		{
			transactions.POST("", transactionHandler.Create)
			transactions.GET("/:id", transactionHandler.GetByID)
			transactions.GET("/:id/outcome", transactionHandler.GetOutcome)
		}

		// Provider prediction and merchant wallet
		providers := v1.Group("/providers")
		{
			providers.GET("/predict", walletHandler.PredictProvider)
		}
		wallets := v1.Group("/wallets")
		{
			wallets.GET("/:country/balances", walletHandler.GetBalances)
		}

		// Per-subscriber transaction history
		v1.GET("/history/:phone", transactionHandler.GetByPhoneNumber)
	}

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
