package order

import "github.com/avelars/eventmerch-service/internal/model"

// validTransitions is the full status machine. Terminal states
// (cancelled, returned) have no outgoing edges, which is what makes
// cancel and return idempotency-safe: a second invocation fails the
// transition check before any stock is touched.
var validTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusWaitingPayment: {
		model.OrderStatusPending,
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
	},
	model.OrderStatusPending: {
		model.OrderStatusDelivered,
		model.OrderStatusCancelled,
		model.OrderStatusReturned,
	},
	model.OrderStatusDelivered: {
		model.OrderStatusCancelled,
		model.OrderStatusReturned,
	},
}

func CanTransition(from, to model.OrderStatus) bool {
	for _, s := range validTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// IsTerminal reports whether the order can no longer change its items.
func IsTerminal(status model.OrderStatus) bool {
	return status == model.OrderStatusCancelled || status == model.OrderStatusReturned
}
