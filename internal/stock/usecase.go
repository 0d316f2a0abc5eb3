package stock

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stock/dto"
)

type UseCase interface {
	// Adjust applies a quantity delta to a variant, clamped at zero, and
	// appends a StockMovement mirroring the delta actually applied.
	Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.ProductVariant, error)

	ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error)
}
