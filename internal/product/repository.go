package product

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/product/dto"
)

type Repository interface {
	Create(ctx context.Context, product *model.Product) error
	FindByID(ctx context.Context, id string) (*model.Product, error)
	FindAll(ctx context.Context, filters *dto.ProductFilters) ([]model.Product, int, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error

	// Variants
	CreateVariant(ctx context.Context, v *model.ProductVariant) error
	FindVariantByID(ctx context.Context, id string) (*model.ProductVariant, error)
	ListVariants(ctx context.Context, productID string) ([]model.ProductVariant, error)
	UpdateVariant(ctx context.Context, v *model.ProductVariant) error
	DeleteVariant(ctx context.Context, id string) error
	IsSizeUnique(ctx context.Context, productID, sizeLabel, excludeID string) (bool, error)

	// Images
	AddImage(ctx context.Context, img *model.ProductImage) error
	FindImageByID(ctx context.Context, id string) (*model.ProductImage, error)
	ListImages(ctx context.Context, productID string) ([]model.ProductImage, error)
	DeleteImage(ctx context.Context, id string) error

	// Variants at or below their product's low-stock threshold.
	ListLowStock(ctx context.Context, page, pageSize int) ([]dto.LowStockRow, int, error)
}
