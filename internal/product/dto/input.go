package dto

import "github.com/shopspring/decimal"

type CreateProductInput struct {
	CategoryID        string // optional
	Name              string
	Description       string
	LowStockThreshold int
}

type UpdateProductInput struct {
	ID                string
	CategoryID        string
	Name              string
	Description       string
	LowStockThreshold int
	IsActive          bool
}

type CreateVariantInput struct {
	ProductID string
	SizeLabel string
	Quantity  int
	Price     decimal.Decimal
}

type UpdateVariantInput struct {
	ID        string
	SizeLabel string
	Price     decimal.Decimal
	IsActive  bool
}

type UploadImageInput struct {
	ProductID   string
	FileName    string
	ContentType string
	Data        []byte
	SortOrder   int
}
