package stand

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stand/dto"
)

type UseCase interface {
	CreateStand(ctx context.Context, input *dto.CreateStandInput) (*model.Stand, error)
	GetStand(ctx context.Context, id string) (*model.Stand, error)
	ListStands(ctx context.Context, filters *dto.StandFilters) ([]model.Stand, int, error)
	UpdateStand(ctx context.Context, input *dto.UpdateStandInput) (*model.Stand, error)
	DeleteStand(ctx context.Context, id string) error

	GetStock(ctx context.Context, standID string) ([]dto.StandStockRow, error)

	// AssignStock declares the stand's desired stock: variants absent
	// from the list end up unassigned.
	AssignStock(ctx context.Context, input *dto.AssignStockInput) ([]dto.StandStockRow, error)
}
