package service

import (
	"context"
	"log/slog"

	"github.com/momo-payment-gateway/internal/platform/cache"
	"github.com/momo-payment-gateway/internal/platform/momoapi"
)

// WalletServiceImpl implements the WalletService interface
type WalletServiceImpl struct {
	client          momoapi.Client
	predictionCache cache.Store
	logger          *slog.Logger
}

// NewWalletService creates a new wallet service
func NewWalletService(logger *slog.Logger, client momoapi.Client, predictionCache cache.Store) WalletService {
	return &WalletServiceImpl{
		client:          client,
		predictionCache: predictionCache,
		logger:          logger,
	}
}

// PredictProvider resolves the mobile-money network for a phone number.
// Predictions are stable for a given number, so cache hits skip the upstream
// call entirely; cache failures degrade to a direct lookup.
func (s *WalletServiceImpl) PredictProvider(ctx context.Context, phoneNumber string) (*momoapi.ProviderPrediction, error) {
	if s.predictionCache != nil {
		cached, err := s.predictionCache.GetPrediction(ctx, phoneNumber)
		if err != nil {
			s.logger.Warn("Prediction cache read failed, falling back to upstream",
				"phone_number", phoneNumber,
				"error", err,
			)
		} else if cached != nil {
			return cached, nil
		}
	}

	prediction, err := s.client.PredictProvider(ctx, phoneNumber)
	if err != nil {
		s.logger.Error("Failed to predict provider",
			"phone_number", phoneNumber,
			"error", err,
		)
		return nil, err
	}

	if s.predictionCache != nil {
		if err := s.predictionCache.SetPrediction(ctx, phoneNumber, prediction); err != nil {
			s.logger.Warn("Failed to cache provider prediction",
				"phone_number", phoneNumber,
				"error", err,
			)
		}
	}

	return prediction, nil
}

// GetWalletBalances retrieves the merchant wallet balances for a country
func (s *WalletServiceImpl) GetWalletBalances(ctx context.Context, countryCode string) (*momoapi.WalletBalances, error) {
	balances, err := s.client.WalletBalances(ctx, countryCode)
	if err != nil {
		s.logger.Error("Failed to get wallet balances",
			"country", countryCode,
			"error", err,
		)
		return nil, err
	}
	return balances, nil
}
