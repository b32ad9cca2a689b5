package transaction

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validDeposit() *Request {
	return &Request{
		TransactionID: uuid.New(),
		Kind:          KindDeposit,
		Amount:        "1000",
		Currency:      "UGX",
		PhoneNumber:   "256778529660",
		Timestamp:     time.Now(),
	}
}

func TestRequest_Validate(t *testing.T) {
	t.Run("ValidDeposit", func(t *testing.T) {
		assert.NoError(t, validDeposit().Validate())
	})

	t.Run("ValidPayout", func(t *testing.T) {
		req := validDeposit()
		req.Kind = KindPayout
		req.Correspondent = "MTN_MOMO_UGA"
		req.IdempotencyKey = uuid.New().String()
		assert.NoError(t, req.Validate())
	})

	t.Run("ValidRefund", func(t *testing.T) {
		req := &Request{
			TransactionID: uuid.New(),
			Kind:          KindRefund,
			Amount:        "1000",
			Currency:      "UGX",
			DepositID:     "d1",
		}
		assert.NoError(t, req.Validate())
	})

	t.Run("UnknownKind", func(t *testing.T) {
		req := validDeposit()
		req.Kind = Kind("TRANSFER")
		assert.ErrorIs(t, req.Validate(), ErrInvalidKind)
	})

	t.Run("MissingAmount", func(t *testing.T) {
		req := validDeposit()
		req.Amount = ""
		assert.ErrorIs(t, req.Validate(), ErrNoAmount)
	})

	t.Run("MissingCurrency", func(t *testing.T) {
		req := validDeposit()
		req.Currency = ""
		assert.ErrorIs(t, req.Validate(), ErrNoCurrency)
	})

	t.Run("DepositWithoutPhone", func(t *testing.T) {
		req := validDeposit()
		req.PhoneNumber = ""
		assert.ErrorIs(t, req.Validate(), ErrNoPhone)
	})

	t.Run("PayoutWithoutCorrespondent", func(t *testing.T) {
		req := validDeposit()
		req.Kind = KindPayout
		assert.ErrorIs(t, req.Validate(), ErrNoCorrespondent)
	})

	t.Run("RefundWithoutDepositID", func(t *testing.T) {
		req := validDeposit()
		req.Kind = KindRefund
		req.DepositID = ""
		assert.ErrorIs(t, req.Validate(), ErrNoDepositID)
	})
}

func TestKind_Display(t *testing.T) {
	assert.Equal(t, "deposit", KindDeposit.Display())
	assert.Equal(t, "payout", KindPayout.Display())
	assert.Equal(t, "refund", KindRefund.Display())
}

func TestState_Terminal(t *testing.T) {
	assert.False(t, StateIdle.Terminal())
	assert.False(t, StatePending.Terminal())
	assert.True(t, StateCompleted.Terminal())
	assert.True(t, StateFailed.Terminal())
}
