package dto

import "github.com/avelars/eventmerch-service/internal/model"

type AdjustStockInput struct {
	VariantID     string
	Delta         int
	MovementType  model.MovementType
	Reason        string
	ReferenceID   string
	ReferenceType string // 'order_edit', 'order_cancel', 'order_return', 'sale', 'manual'
	UserID        string
}
