package dto

import (
	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/shopspring/decimal"
)

type OrderItemInput struct {
	VariantID string
	Quantity  int
	UnitPrice decimal.Decimal
}

type CreateOrderInput struct {
	CustomerEmail string
	UserID        string
	PaymentMethod model.PaymentMethod
	SaleType      model.SaleType
	StandID       string // POS only
	QRCode        string // generated when empty
	Items         []OrderItemInput
}

type EditOrderItemsInput struct {
	OrderID string
	Items   []OrderItemInput // full replacement set
	UserID  string
}

type ReturnOrderInput struct {
	OrderID string
	Reason  string
	UserID  string
}

type ValidatePaymentInput struct {
	OrderID       string
	PaymentMethod model.PaymentMethod // optional correction, empty keeps current
}

type ConfirmDeliveryInput struct {
	QRCode  string
	StandID string
}
