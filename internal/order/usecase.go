package order

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/order/dto"
)

type UseCase interface {
	CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error)

	// Reconciliation operations
	EditItems(ctx context.Context, input *dto.EditOrderItemsInput) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID, userID string) (*model.Order, error)
	ReturnOrder(ctx context.Context, input *dto.ReturnOrderInput) (*model.Order, error)
	ValidatePayment(ctx context.Context, input *dto.ValidatePaymentInput) (*model.Order, error)
	ConfirmDelivery(ctx context.Context, input *dto.ConfirmDeliveryInput) (*model.Order, error)
}
