package order

import (
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
)

// CashState is a read-time projection for unpaid cash orders. Nothing
// here is persisted; it is recomputed from the order row on every read.
type CashState string

const (
	CashStatePending   CashState = "pending"
	CashStateExpired   CashState = "expired"
	CashStateValidated CashState = "validated"
	CashStateCancelled CashState = "cancelled"
)

// CashPaymentWindow is how long a cash order may stay unpaid.
const CashPaymentWindow = 30 * time.Minute

// DeriveCashState projects the cash-order state from the persisted
// fields. remaining is non-zero only in the pending state.
func DeriveCashState(saleDate, now time.Time, paymentValidated bool, status model.OrderStatus) (CashState, time.Duration) {
	if status == model.OrderStatusCancelled || status == model.OrderStatusReturned {
		return CashStateCancelled, 0
	}
	if paymentValidated {
		return CashStateValidated, 0
	}

	elapsed := now.Sub(saleDate)
	if elapsed >= CashPaymentWindow {
		return CashStateExpired, 0
	}
	return CashStatePending, CashPaymentWindow - elapsed
}
