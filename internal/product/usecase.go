package product

import (
	"context"
	"errors"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/product/dto"
)

var (
	ErrNotFound        = errors.New("product not found")
	ErrVariantNotFound = errors.New("variant not found")
	ErrImageNotFound   = errors.New("image not found")
	ErrSizeTaken       = errors.New("size label already exists for this product")
)

type UseCase interface {
	CreateProduct(ctx context.Context, input *dto.CreateProductInput) (*model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	ListProducts(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	UpdateProduct(ctx context.Context, input *dto.UpdateProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error

	// Variant ops
	AddVariant(ctx context.Context, input *dto.CreateVariantInput) (*model.ProductVariant, error)
	UpdateVariant(ctx context.Context, input *dto.UpdateVariantInput) (*model.ProductVariant, error)
	DeleteVariant(ctx context.Context, id string) error
	ListVariants(ctx context.Context, productID string) ([]model.ProductVariant, error)

	// Image ops
	UploadImage(ctx context.Context, input *dto.UploadImageInput) (*model.ProductImage, error)
	DeleteImage(ctx context.Context, id string) error

	ListLowStock(ctx context.Context, page, pageSize int) ([]dto.LowStockRow, int, error)
}
