package order

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/order/dto"
	"github.com/shopspring/decimal"
)

type Repository interface {
	// Create writes the order row and its item rows in one transaction.
	Create(ctx context.Context, order *model.Order, items []model.OrderItem) error

	FindByID(ctx context.Context, id string) (*model.Order, error)
	FindByQRCode(ctx context.Context, qrCode string) (*model.Order, error)
	FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)
	Update(ctx context.Context, order *model.Order) error

	GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error)

	// ReplaceItems deletes the order's current item rows, inserts the new
	// set and persists the recomputed total in one transaction.
	ReplaceItems(ctx context.Context, orderID string, items []model.OrderItem, total decimal.Decimal) error
}
