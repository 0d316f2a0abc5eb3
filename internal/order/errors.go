package order

import "errors"

var (
	ErrNotFound = errors.New("order not found")

	// ErrEmptyOrder rejects create/edit with no line items.
	ErrEmptyOrder = errors.New("order has no items")

	// ErrInvalidTransition guards the status machine; cancelling an
	// already-cancelled order lands here, never in a double restore.
	ErrInvalidTransition = errors.New("invalid order status transition")

	// ErrInvalidQR is the distinct not-found state for scan lookups.
	ErrInvalidQR = errors.New("invalid qr code")

	ErrAlreadyDelivered = errors.New("order already delivered")
)
