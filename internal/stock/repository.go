package stock

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stock/dto"
)

type Repository interface {
	GetVariant(ctx context.Context, variantID string) (*model.ProductVariant, error)

	// AdjustQuantity writes the new quantity with a conditional update on
	// the previously read value and inserts the movement row in the same
	// transaction. Returns ErrConflict when the condition no longer holds.
	AdjustQuantity(ctx context.Context, variantID string, expected, next int, movement *model.StockMovement) error

	// Movements / Audit
	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
