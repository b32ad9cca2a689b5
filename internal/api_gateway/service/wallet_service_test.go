package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/momoapi"
)

type MockMomoClient struct {
	mock.Mock
}

func (m *MockMomoClient) PredictProvider(ctx context.Context, phoneNumber string) (*momoapi.ProviderPrediction, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*momoapi.ProviderPrediction), args.Error(1)
}

func (m *MockMomoClient) InitiateDeposit(ctx context.Context, req momoapi.DepositRequest) (*momoapi.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*momoapi.Receipt), args.Error(1)
}

func (m *MockMomoClient) InitiatePayout(ctx context.Context, req momoapi.PayoutRequest) (*momoapi.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*momoapi.Receipt), args.Error(1)
}

func (m *MockMomoClient) InitiateRefund(ctx context.Context, req momoapi.RefundRequest) (*momoapi.Receipt, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*momoapi.Receipt), args.Error(1)
}

func (m *MockMomoClient) PollStatus(ctx context.Context, transactionID string, kind transaction.Kind) (*momoapi.StatusResult, error) {
	args := m.Called(ctx, transactionID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*momoapi.StatusResult), args.Error(1)
}

func (m *MockMomoClient) WalletBalances(ctx context.Context, countryCode string) (*momoapi.WalletBalances, error) {
	args := m.Called(ctx, countryCode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*momoapi.WalletBalances), args.Error(1)
}

func TestPredictProvider(t *testing.T) {
	ctx := context.Background()
	phone := "260763456789"
	prediction := &momoapi.ProviderPrediction{Provider: "MTN_MOMO_ZMB", Country: "ZMB"}

	t.Run("cache hit skips upstream", func(t *testing.T) {
		client := &MockMomoClient{}
		store := &MockCacheStore{}
		store.On("GetPrediction", mock.Anything, phone).Return(prediction, nil)

		svc := NewWalletService(testLogger(), client, store)
		got, err := svc.PredictProvider(ctx, phone)

		require.NoError(t, err)
		assert.Equal(t, prediction, got)
		client.AssertNotCalled(t, "PredictProvider", mock.Anything, mock.Anything)
	})

	t.Run("cache miss calls upstream and caches", func(t *testing.T) {
		client := &MockMomoClient{}
		store := &MockCacheStore{}
		store.On("GetPrediction", mock.Anything, phone).Return(nil, nil)
		client.On("PredictProvider", mock.Anything, phone).Return(prediction, nil)
		store.On("SetPrediction", mock.Anything, phone, prediction).Return(nil)

		svc := NewWalletService(testLogger(), client, store)
		got, err := svc.PredictProvider(ctx, phone)

		require.NoError(t, err)
		assert.Equal(t, prediction, got)
		store.AssertExpectations(t)
	})

	t.Run("cache failure degrades to upstream", func(t *testing.T) {
		client := &MockMomoClient{}
		store := &MockCacheStore{}
		store.On("GetPrediction", mock.Anything, phone).Return(nil, errors.New("redis down"))
		client.On("PredictProvider", mock.Anything, phone).Return(prediction, nil)
		store.On("SetPrediction", mock.Anything, phone, prediction).Return(errors.New("redis down"))

		svc := NewWalletService(testLogger(), client, store)
		got, err := svc.PredictProvider(ctx, phone)

		require.NoError(t, err)
		assert.Equal(t, prediction, got)
	})

	t.Run("upstream error", func(t *testing.T) {
		client := &MockMomoClient{}
		store := &MockCacheStore{}
		store.On("GetPrediction", mock.Anything, phone).Return(nil, nil)
		client.On("PredictProvider", mock.Anything, phone).Return(nil, errors.New("upstream returned 500"))

		svc := NewWalletService(testLogger(), client, store)
		got, err := svc.PredictProvider(ctx, phone)

		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestGetWalletBalances(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		client := &MockMomoClient{}
		balances := &momoapi.WalletBalances{Balances: []momoapi.WalletBalance{
			{Balance: "20000", Currency: "ZMW"},
		}}
		client.On("WalletBalances", mock.Anything, "ZMB").Return(balances, nil)

		svc := NewWalletService(testLogger(), client, nil)
		got, err := svc.GetWalletBalances(ctx, "ZMB")

		require.NoError(t, err)
		assert.Equal(t, balances, got)
	})

	t.Run("upstream error", func(t *testing.T) {
		client := &MockMomoClient{}
		client.On("WalletBalances", mock.Anything, "ZMB").Return(nil, errors.New("circuit breaker is open"))

		svc := NewWalletService(testLogger(), client, nil)
		got, err := svc.GetWalletBalances(ctx, "ZMB")

		assert.Error(t, err)
		assert.Nil(t, got)
	})
}
