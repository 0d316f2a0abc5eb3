package category

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/category/dto"
	"github.com/avelars/eventmerch-service/internal/model"
)

type Repository interface {
	Create(ctx context.Context, category *model.Category) error
	FindByID(ctx context.Context, id string) (*model.Category, error)
	FindAll(ctx context.Context, filters *dto.CategoryFilters) ([]model.Category, int, error)
	Update(ctx context.Context, category *model.Category) error
	Delete(ctx context.Context, id string) error
	CountProducts(ctx context.Context, categoryID string) (int, error)
}
