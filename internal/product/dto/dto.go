package dto

import "github.com/shopspring/decimal"

type ProductFilters struct {
	CategoryID  string
	IsActive    *bool
	SearchQuery string // name or description search
	SortBy      string // name, created_at
	SortOrder   string // asc, desc
	Page        int
	PageSize    int
}

type LowStockRow struct {
	VariantID         string          `db:"variant_id" json:"variant_id"`
	ProductID         string          `db:"product_id" json:"product_id"`
	ProductName       string          `db:"product_name" json:"product_name"`
	SizeLabel         string          `db:"size_label" json:"size_label"`
	Quantity          int             `db:"quantity" json:"quantity"`
	LowStockThreshold int             `db:"low_stock_threshold" json:"low_stock_threshold"`
	Price             decimal.Decimal `db:"price" json:"price"`
}
