package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/momo-payment-gateway/internal/domain/journal"
	"github.com/momo-payment-gateway/internal/domain/transaction"
	"github.com/momo-payment-gateway/internal/platform/momoapi"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

type MockTransactionRepository struct {
	mock.Mock
}

func (m *MockTransactionRepository) Create(ctx context.Context, record *transaction.Record) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByID(ctx context.Context, transactionID uuid.UUID) (*transaction.Record, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) GetByIdempotencyKey(ctx context.Context, idempotencyKey string) (*transaction.Record, error) {
	args := m.Called(ctx, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) ResolveOutcome(ctx context.Context, transactionID uuid.UUID, outcome transaction.Outcome, upstreamID string) error {
	args := m.Called(ctx, transactionID, outcome, upstreamID)
	return args.Error(0)
}

func (m *MockTransactionRepository) GetByPhoneNumber(ctx context.Context, phoneNumber string, limit, offset int) ([]*transaction.Record, error) {
	args := m.Called(ctx, phoneNumber, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*transaction.Record), args.Error(1)
}

func (m *MockTransactionRepository) CountByPhoneNumber(ctx context.Context, phoneNumber string) (int64, error) {
	args := m.Called(ctx, phoneNumber)
	return args.Get(0).(int64), args.Error(1)
}

type MockJournalRepository struct {
	mock.Mock
}

func (m *MockJournalRepository) Append(ctx context.Context, entry *journal.Entry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockJournalRepository) GetByTransactionID(ctx context.Context, transactionID uuid.UUID) ([]*journal.Entry, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*journal.Entry), args.Error(1)
}

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, key string, value interface{}) error {
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockCacheStore struct {
	mock.Mock
}

func (m *MockCacheStore) GetPrediction(ctx context.Context, phoneNumber string) (*momoapi.ProviderPrediction, error) {
	args := m.Called(ctx, phoneNumber)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*momoapi.ProviderPrediction), args.Error(1)
}

func (m *MockCacheStore) SetPrediction(ctx context.Context, phoneNumber string, prediction *momoapi.ProviderPrediction) error {
	args := m.Called(ctx, phoneNumber, prediction)
	return args.Error(0)
}

func (m *MockCacheStore) GetOutcome(ctx context.Context, transactionID string) (*transaction.Outcome, error) {
	args := m.Called(ctx, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transaction.Outcome), args.Error(1)
}

func (m *MockCacheStore) SetOutcome(ctx context.Context, transactionID string, outcome transaction.Outcome) error {
	args := m.Called(ctx, transactionID, outcome)
	return args.Error(0)
}

func (m *MockCacheStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

func validRequest() *transaction.Request {
	return &transaction.Request{
		TransactionID:  uuid.New(),
		Kind:           transaction.KindDeposit,
		Amount:         "15",
		Currency:       "ZMW",
		PhoneNumber:    "260763456789",
		IdempotencyKey: uuid.NewString(),
		CorrelationID:  uuid.NewString(),
		Timestamp:      time.Now().UTC(),
	}
}

func TestSubmitTransaction_Success(t *testing.T) {
	ctx := context.Background()
	repo := &MockTransactionRepository{}
	journalRepo := &MockJournalRepository{}
	producer := &MockPublisher{}
	req := validRequest()

	repo.On("GetByIdempotencyKey", mock.Anything, req.IdempotencyKey).Return(nil, nil)
	repo.On("Create", mock.Anything, mock.MatchedBy(func(rec *transaction.Record) bool {
		return rec.TransactionID == req.TransactionID && rec.State == transaction.StatePending
	})).Return(nil)
	journalRepo.On("Append", mock.Anything, mock.MatchedBy(func(e *journal.Entry) bool {
		return e.Stage == journal.StageAccepted && e.TransactionID == req.TransactionID
	})).Return(nil)
	producer.On("Publish", mock.Anything, req.TransactionID.String(), req).Return(nil)

	svc := NewTransactionService(testLogger(), repo, journalRepo, nil, producer)
	id, existing, err := svc.SubmitTransaction(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, req.TransactionID.String(), id)
	assert.Nil(t, existing)
	repo.AssertExpectations(t)
	producer.AssertExpectations(t)
	journalRepo.AssertExpectations(t)
}

func TestSubmitTransaction_ValidationFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockTransactionRepository{}
	producer := &MockPublisher{}

	req := validRequest()
	req.Kind = transaction.KindRefund
	req.DepositID = ""

	svc := NewTransactionService(testLogger(), repo, nil, nil, producer)
	_, _, err := svc.SubmitTransaction(ctx, req)

	assert.ErrorIs(t, err, transaction.ErrNoDepositID)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitTransaction_IdempotencyHit(t *testing.T) {
	ctx := context.Background()
	repo := &MockTransactionRepository{}
	producer := &MockPublisher{}
	req := validRequest()

	existing := transaction.NewRecord(req)
	existing.State = transaction.StateCompleted
	repo.On("GetByIdempotencyKey", mock.Anything, req.IdempotencyKey).Return(existing, nil)

	svc := NewTransactionService(testLogger(), repo, nil, nil, producer)
	id, got, err := svc.SubmitTransaction(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, existing.TransactionID.String(), id)
	assert.Equal(t, existing, got)
	producer.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSubmitTransaction_PublishFailure(t *testing.T) {
	ctx := context.Background()
	repo := &MockTransactionRepository{}
	producer := &MockPublisher{}
	req := validRequest()

	repo.On("GetByIdempotencyKey", mock.Anything, req.IdempotencyKey).Return(nil, nil)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	producer.On("Publish", mock.Anything, req.TransactionID.String(), req).Return(errors.New("kafka down"))

	svc := NewTransactionService(testLogger(), repo, nil, nil, producer)
	_, _, err := svc.SubmitTransaction(ctx, req)

	assert.Error(t, err)
}

func TestGetTransactionByID(t *testing.T) {
	ctx := context.Background()
	txID := uuid.New()

	t.Run("found", func(t *testing.T) {
		repo := &MockTransactionRepository{}
		record := &transaction.Record{TransactionID: txID, State: transaction.StatePending}
		repo.On("GetByID", mock.Anything, txID).Return(record, nil)

		svc := NewTransactionService(testLogger(), repo, nil, nil, &MockPublisher{})
		got, err := svc.GetTransactionByID(ctx, txID)

		require.NoError(t, err)
		assert.Equal(t, record, got)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &MockTransactionRepository{}
		repo.On("GetByID", mock.Anything, txID).Return(nil, transaction.ErrRecordNotFound{TransactionID: txID})

		svc := NewTransactionService(testLogger(), repo, nil, nil, &MockPublisher{})
		got, err := svc.GetTransactionByID(ctx, txID)

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("db error", func(t *testing.T) {
		repo := &MockTransactionRepository{}
		repo.On("GetByID", mock.Anything, txID).Return(nil, errors.New("db error"))

		svc := NewTransactionService(testLogger(), repo, nil, nil, &MockPublisher{})
		got, err := svc.GetTransactionByID(ctx, txID)

		assert.Error(t, err)
		assert.Nil(t, got)
	})
}

func TestGetTransactionOutcome(t *testing.T) {
	ctx := context.Background()
	txID := uuid.New()

	t.Run("cache hit", func(t *testing.T) {
		repo := &MockTransactionRepository{}
		store := &MockCacheStore{}
		cached := transaction.Completed("15", "ZMW", "COMPLETED", "ref", txID.String())
		store.On("GetOutcome", mock.Anything, txID.String()).Return(&cached, nil)

		svc := NewTransactionService(testLogger(), repo, nil, store, &MockPublisher{})
		got, err := svc.GetTransactionOutcome(ctx, txID)

		require.NoError(t, err)
		assert.Equal(t, &cached, got)
		repo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("cache miss caches terminal outcome", func(t *testing.T) {
		repo := &MockTransactionRepository{}
		store := &MockCacheStore{}
		record := &transaction.Record{
			TransactionID: txID,
			State:         transaction.StateCompleted,
			Amount:        "15",
			Currency:      "ZMW",
			FinalStatus:   "COMPLETED",
			UpstreamID:    "d1",
		}
		store.On("GetOutcome", mock.Anything, txID.String()).Return(nil, nil)
		repo.On("GetByID", mock.Anything, txID).Return(record, nil)
		store.On("SetOutcome", mock.Anything, txID.String(), mock.MatchedBy(func(o transaction.Outcome) bool {
			return o.State == transaction.StateCompleted && o.Amount == "15"
		})).Return(nil)

		svc := NewTransactionService(testLogger(), repo, nil, store, &MockPublisher{})
		got, err := svc.GetTransactionOutcome(ctx, txID)

		require.NoError(t, err)
		assert.Equal(t, transaction.StateCompleted, got.State)
		assert.Equal(t, "d1", got.TransactionID)
		store.AssertExpectations(t)
	})

	t.Run("pending outcome is not cached", func(t *testing.T) {
		repo := &MockTransactionRepository{}
		store := &MockCacheStore{}
		record := &transaction.Record{TransactionID: txID, State: transaction.StatePending}
		store.On("GetOutcome", mock.Anything, txID.String()).Return(nil, nil)
		repo.On("GetByID", mock.Anything, txID).Return(record, nil)

		svc := NewTransactionService(testLogger(), repo, nil, store, &MockPublisher{})
		got, err := svc.GetTransactionOutcome(ctx, txID)

		require.NoError(t, err)
		assert.Equal(t, transaction.StatePending, got.State)
		store.AssertNotCalled(t, "SetOutcome", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("not found", func(t *testing.T) {
		repo := &MockTransactionRepository{}
		store := &MockCacheStore{}
		store.On("GetOutcome", mock.Anything, txID.String()).Return(nil, nil)
		repo.On("GetByID", mock.Anything, txID).Return(nil, transaction.ErrRecordNotFound{TransactionID: txID})

		svc := NewTransactionService(testLogger(), repo, nil, store, &MockPublisher{})
		got, err := svc.GetTransactionOutcome(ctx, txID)

		require.NoError(t, err)
		assert.Nil(t, got)
	})
}

func TestGetTransactionsByPhoneNumber(t *testing.T) {
	ctx := context.Background()
	repo := &MockTransactionRepository{}
	phone := "260763456789"

	records := []*transaction.Record{
		{TransactionID: uuid.New(), PhoneNumber: phone},
		{TransactionID: uuid.New(), PhoneNumber: phone},
	}
	repo.On("GetByPhoneNumber", mock.Anything, phone, 10, 10).Return(records, nil)
	repo.On("CountByPhoneNumber", mock.Anything, phone).Return(int64(12), nil)

	svc := NewTransactionService(testLogger(), repo, nil, nil, &MockPublisher{})
	got, total, err := svc.GetTransactionsByPhoneNumber(ctx, phone, 2, 10)

	require.NoError(t, err)
	assert.Equal(t, records, got)
	assert.Equal(t, int64(12), total)
	repo.AssertExpectations(t)
}
