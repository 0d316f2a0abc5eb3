package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusWaitingPayment OrderStatus = "waiting_payment"
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
	OrderStatusReturned       OrderStatus = "returned"
)

type PaymentMethod string

const (
	PaymentMethodCard     PaymentMethod = "card"
	PaymentMethodCash     PaymentMethod = "cash"
	PaymentMethodTransfer PaymentMethod = "transfer"
)

type SaleType string

const (
	SaleTypePOS    SaleType = "pos"
	SaleTypeOnline SaleType = "online"
)

type Order struct {
	BaseModel
	CustomerEmail      string          `db:"customer_email" json:"customer_email"`
	UserID             *string         `db:"user_id" json:"user_id"` // Nullable, guest checkout
	Status             OrderStatus     `db:"status" json:"status"`
	PaymentMethod      PaymentMethod   `db:"payment_method" json:"payment_method"`
	PaymentValidated   bool            `db:"payment_validated" json:"payment_validated"`
	TotalAmount        decimal.Decimal `db:"total_amount" json:"total_amount"` // denormalized sum of items
	SaleType           SaleType        `db:"sale_type" json:"sale_type"`
	StandID            *string         `db:"stand_id" json:"stand_id"` // point-of-sale stand
	DeliveredByStandID *string         `db:"delivered_by_stand_id" json:"delivered_by_stand_id"`
	DeliveredAt        *time.Time      `db:"delivered_at" json:"delivered_at"`
	QRCode             string          `db:"qr_code" json:"qr_code"`
	ReturnRequested    bool            `db:"return_requested" json:"return_requested"`
	ReturnReason       *string         `db:"return_reason" json:"return_reason"`
	ReturnedAt         *time.Time      `db:"returned_at" json:"returned_at"`
	RefundAmount       *decimal.Decimal `db:"refund_amount" json:"refund_amount"`
	Items              []OrderItem     `db:"-" json:"items"`
}

// OrderItem snapshots unit_price at order time, independent of the
// variant's current price. Duplicate variant rows are possible; callers
// sum them per variant when computing stock deltas.
type OrderItem struct {
	ID        string          `db:"id" json:"id"`
	OrderID   string          `db:"order_id" json:"order_id"`
	VariantID string          `db:"variant_id" json:"variant_id"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	CreatedAt time.Time       `db:"created_at" json:"created_at"`
}
