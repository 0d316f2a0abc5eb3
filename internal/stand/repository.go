package stand

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stand/dto"
)

type Repository interface {
	Create(ctx context.Context, stand *model.Stand) error
	FindByID(ctx context.Context, id string) (*model.Stand, error)
	FindAll(ctx context.Context, filters *dto.StandFilters) ([]model.Stand, int, error)
	Update(ctx context.Context, stand *model.Stand) error
	Delete(ctx context.Context, id string) error

	// Stock assignment
	GetStock(ctx context.Context, standID string) ([]dto.StandStockRow, error)

	// ReplaceStock deletes every assignment row for the stand and inserts
	// the new list in one transaction (full replace, not a merge).
	ReplaceStock(ctx context.Context, standID string, rows []model.StandStock) error
}
