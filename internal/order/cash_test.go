package order

import (
	"testing"
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
)

func TestDeriveCashState(t *testing.T) {
	base := time.Date(2026, 6, 12, 14, 0, 0, 0, time.UTC)

	tests := []struct {
		name          string
		elapsed       time.Duration
		validated     bool
		status        model.OrderStatus
		wantState     CashState
		wantRemaining time.Duration
	}{
		{
			name:          "fresh order is pending with full window",
			elapsed:       0,
			status:        model.OrderStatusWaitingPayment,
			wantState:     CashStatePending,
			wantRemaining: 30 * time.Minute,
		},
		{
			name:          "10 minutes in leaves 20 minutes",
			elapsed:       10 * time.Minute,
			status:        model.OrderStatusWaitingPayment,
			wantState:     CashStatePending,
			wantRemaining: 20 * time.Minute,
		},
		{
			name:      "31 minutes in is expired",
			elapsed:   31 * time.Minute,
			status:    model.OrderStatusWaitingPayment,
			wantState: CashStateExpired,
		},
		{
			name:      "exactly at the window boundary is expired",
			elapsed:   30 * time.Minute,
			status:    model.OrderStatusWaitingPayment,
			wantState: CashStateExpired,
		},
		{
			name:      "validated payment wins over elapsed time",
			elapsed:   2 * time.Hour,
			validated: true,
			status:    model.OrderStatusPending,
			wantState: CashStateValidated,
		},
		{
			name:      "cancelled order reports cancelled",
			elapsed:   5 * time.Minute,
			status:    model.OrderStatusCancelled,
			wantState: CashStateCancelled,
		},
		{
			name:      "returned order reports cancelled",
			elapsed:   5 * time.Minute,
			validated: true,
			status:    model.OrderStatusReturned,
			wantState: CashStateCancelled,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state, remaining := DeriveCashState(base, base.Add(tt.elapsed), tt.validated, tt.status)
			if state != tt.wantState {
				t.Errorf("state = %q, want %q", state, tt.wantState)
			}
			if remaining != tt.wantRemaining {
				t.Errorf("remaining = %v, want %v", remaining, tt.wantRemaining)
			}
		})
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to model.OrderStatus
		want     bool
	}{
		{model.OrderStatusWaitingPayment, model.OrderStatusPending, true},
		{model.OrderStatusWaitingPayment, model.OrderStatusDelivered, true},
		{model.OrderStatusWaitingPayment, model.OrderStatusCancelled, true},
		{model.OrderStatusWaitingPayment, model.OrderStatusReturned, false},
		{model.OrderStatusPending, model.OrderStatusDelivered, true},
		{model.OrderStatusPending, model.OrderStatusReturned, true},
		{model.OrderStatusDelivered, model.OrderStatusReturned, true},
		{model.OrderStatusDelivered, model.OrderStatusPending, false},
		{model.OrderStatusCancelled, model.OrderStatusPending, false},
		{model.OrderStatusCancelled, model.OrderStatusCancelled, false},
		{model.OrderStatusReturned, model.OrderStatusDelivered, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestIsTerminal(t *testing.T) {
	for _, status := range []model.OrderStatus{model.OrderStatusCancelled, model.OrderStatusReturned} {
		if !IsTerminal(status) {
			t.Errorf("IsTerminal(%q) = false, want true", status)
		}
	}
	for _, status := range []model.OrderStatus{model.OrderStatusWaitingPayment, model.OrderStatusPending, model.OrderStatusDelivered} {
		if IsTerminal(status) {
			t.Errorf("IsTerminal(%q) = true, want false", status)
		}
	}
}
