package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

type StandFilters struct {
	SearchQuery string
	Page        int
	PageSize    int
}

// StandStockRow is an assignment joined with its variant and product
// for listing in the admin UI.
type StandStockRow struct {
	ID          string          `db:"id" json:"id"`
	StandID     string          `db:"stand_id" json:"stand_id"`
	VariantID   string          `db:"variant_id" json:"variant_id"`
	Quantity    int             `db:"quantity" json:"quantity"`
	SizeLabel   string          `db:"size_label" json:"size_label"`
	Price       decimal.Decimal `db:"price" json:"price"`
	ProductID   string          `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
