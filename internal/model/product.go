package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	BaseModel
	CategoryID        *string          `db:"category_id" json:"category_id"` // Nullable
	Name              string           `db:"name" json:"name"`
	Description       *string          `db:"description" json:"description"`
	LowStockThreshold int              `db:"low_stock_threshold" json:"low_stock_threshold"`
	IsActive          bool             `db:"is_active" json:"is_active"`
	Variants          []ProductVariant `db:"-" json:"variants"` // Not in DB table directly
	Images            []ProductImage   `db:"-" json:"images"`
	Category          *Category        `db:"-" json:"category"` // Joined data
}

// ProductVariant is the unit of stock tracking. All quantity arithmetic
// operates at this granularity, never at the Product level.
type ProductVariant struct {
	BaseModel
	ProductID string          `db:"product_id" json:"product_id"`
	SizeLabel string          `db:"size_label" json:"size_label"`
	Quantity  int             `db:"quantity" json:"quantity"` // clamped at zero, never negative
	Price     decimal.Decimal `db:"price" json:"price"`
	IsActive  bool            `db:"is_active" json:"is_active"`
}

type ProductImage struct {
	ID         string    `db:"id" json:"id"`
	ProductID  string    `db:"product_id" json:"product_id"`
	URL        string    `db:"url" json:"url"`
	ObjectName string    `db:"object_name" json:"object_name"`
	SortOrder  int       `db:"sort_order" json:"sort_order"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
