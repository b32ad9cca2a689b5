package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/momo-payment-gateway/internal/domain/transaction"
)

// MockProcessingService mocks the ProcessingService interface
type MockProcessingService struct {
	mock.Mock
}

func (m *MockProcessingService) ProcessTransaction(ctx context.Context, request *transaction.Request) error {
	args := m.Called(ctx, request)
	return args.Error(0)
}

func TestWorkerPoolProcessingService_ProcessTransaction(t *testing.T) {
	logger := testLogger()

	request := &transaction.Request{
		TransactionID: uuid.New(),
		Kind:          transaction.KindDeposit,
		Amount:        "1000",
		Currency:      "UGX",
		PhoneNumber:   "256770000001",
		CorrelationID: "corr1",
	}

	tests := []struct {
		name          string
		setupMocks    func(m *MockProcessingService)
		expectedError error
	}{
		{
			name: "successful processing",
			setupMocks: func(m *MockProcessingService) {
				m.On("ProcessTransaction", mock.Anything, request).Return(nil).Once()
			},
			expectedError: nil,
		},
		{
			name: "processing error",
			setupMocks: func(m *MockProcessingService) {
				m.On("ProcessTransaction", mock.Anything, request).Return(errors.New("processing error")).Once()
			},
			expectedError: errors.New("processing error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockBaseService := &MockProcessingService{}

			workerPoolService, err := NewWorkerPoolProcessingService(
				mockBaseService,
				WorkerPoolConfig{
					Size: 2,
				},
				logger,
			)
			assert.NoError(t, err)
			defer workerPoolService.Shutdown()

			tt.setupMocks(mockBaseService)
			ctx := context.Background()

			err = workerPoolService.ProcessTransaction(ctx, request)

			if tt.expectedError != nil {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectedError.Error())
			} else {
				assert.NoError(t, err)
			}

			mockBaseService.AssertExpectations(t)
		})
	}
}

func TestWorkerPoolProcessingService_Concurrency(t *testing.T) {
	mockBaseService := &MockProcessingService{}
	logger := testLogger()

	workerPoolService, err := NewWorkerPoolProcessingService(
		mockBaseService,
		WorkerPoolConfig{
			Size: 5,
		},
		logger,
	)
	assert.NoError(t, err)
	defer workerPoolService.Shutdown()

	var mu sync.Mutex
	counter := 0

	mockBaseService.On("ProcessTransaction", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		counter++
		mu.Unlock()
	}).Return(nil)

	numRequests := 10
	var wg sync.WaitGroup
	wg.Add(numRequests)

	for i := 0; i < numRequests; i++ {
		go func(i int) {
			defer wg.Done()

			request := &transaction.Request{
				TransactionID: uuid.New(),
				Kind:          transaction.KindDeposit,
				Amount:        "1000",
				Currency:      "UGX",
				PhoneNumber:   "256770000001",
				CorrelationID: fmt.Sprintf("corr-%d", i),
			}

			ctx := context.Background()
			err := workerPoolService.ProcessTransaction(ctx, request)
			assert.NoError(t, err)
		}(i)
	}

	wg.Wait()

	assert.Equal(t, numRequests, counter)

	assert.True(t, workerPoolService.Running() > 0)
	assert.Equal(t, 5, workerPoolService.Capacity())
}
