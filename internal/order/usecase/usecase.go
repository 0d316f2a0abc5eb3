package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/order"
	"github.com/avelars/eventmerch-service/internal/order/dto"
	"github.com/avelars/eventmerch-service/internal/stock"
	stockdto "github.com/avelars/eventmerch-service/internal/stock/dto"
	"github.com/avelars/eventmerch-service/pkg/broker"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type orderUseCase struct {
	repo      order.Repository
	stock     stock.UseCase
	publisher *broker.KafkaPublisher
	logger    logger.ZapLogger
}

func NewOrderUseCase(repo order.Repository, stockUC stock.UseCase, publisher *broker.KafkaPublisher, log logger.ZapLogger) order.UseCase {
	return &orderUseCase{
		repo:      repo,
		stock:     stockUC,
		publisher: publisher,
		logger:    log,
	}
}

// CreateOrder writes the order and its items. It never touches stock:
// online sales are deducted exactly once by the shop-event listener, and
// POS stands sell from their own assigned stock.
func (uc *orderUseCase) CreateOrder(ctx context.Context, input *dto.CreateOrderInput) (*model.Order, error) {
	if len(input.Items) == 0 {
		return nil, order.ErrEmptyOrder
	}
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for variant %s", it.Quantity, it.VariantID)
		}
		if it.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("negative unit price for variant %s", it.VariantID)
		}
	}

	now := time.Now()
	orderID := uuid.New().String()

	status := model.OrderStatusPending
	if input.PaymentMethod == model.PaymentMethodCash {
		status = model.OrderStatusWaitingPayment
	}

	qrCode := input.QRCode
	if qrCode == "" {
		qrCode = newQRCode(now)
	}

	var userID *string
	if input.UserID != "" {
		userID = &input.UserID
	}
	var standID *string
	if input.StandID != "" {
		standID = &input.StandID
	}

	items := buildItems(orderID, input.Items, now)

	o := &model.Order{
		BaseModel:     model.BaseModel{ID: orderID, CreatedAt: now, UpdatedAt: now},
		CustomerEmail: input.CustomerEmail,
		UserID:        userID,
		Status:        status,
		PaymentMethod: input.PaymentMethod,
		TotalAmount:   itemsTotal(items),
		SaleType:      input.SaleType,
		StandID:       standID,
		QRCode:        qrCode,
	}

	if err := uc.repo.Create(ctx, o, items); err != nil {
		return nil, err
	}
	o.Items = items

	uc.publish("OrderCreated", o)
	return o, nil
}

func (uc *orderUseCase) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound
	}

	items, err := uc.repo.GetItems(ctx, id)
	if err != nil {
		return nil, err
	}
	o.Items = items
	return o, nil
}

func (uc *orderUseCase) ListOrders(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

// EditItems replaces the order's item set. The net stock effect is
// exactly the per-variant difference between the old and new sets:
// removed or reduced variants are restored, added or increased variants
// are consumed, untouched variants see no movement.
func (uc *orderUseCase) EditItems(ctx context.Context, input *dto.EditOrderItemsInput) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound
	}
	if order.IsTerminal(o.Status) {
		return nil, order.ErrInvalidTransition
	}
	if len(input.Items) == 0 {
		return nil, order.ErrEmptyOrder
	}
	for _, it := range input.Items {
		if it.Quantity <= 0 {
			return nil, fmt.Errorf("invalid quantity %d for variant %s", it.Quantity, it.VariantID)
		}
	}

	oldItems, err := uc.repo.GetItems(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}

	deltas := itemDeltas(oldItems, input.Items)
	for _, variantID := range sortedKeys(deltas) {
		delta := deltas[variantID]
		movementType := model.MovementRestore
		if delta < 0 {
			movementType = model.MovementReduce
		}
		_, err := uc.stock.Adjust(ctx, &stockdto.AdjustStockInput{
			VariantID:     variantID,
			Delta:         delta,
			MovementType:  movementType,
			Reason:        "order items edited",
			ReferenceID:   o.ID,
			ReferenceType: "order_edit",
			UserID:        input.UserID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to adjust stock for variant %s: %w", variantID, err)
		}
	}

	now := time.Now()
	items := buildItems(o.ID, input.Items, now)
	total := itemsTotal(items)

	if err := uc.repo.ReplaceItems(ctx, o.ID, items, total); err != nil {
		return nil, err
	}

	o.Items = items
	o.TotalAmount = total
	o.UpdatedAt = now

	uc.publish("OrderUpdated", o)
	return o, nil
}

// CancelOrder moves the order to cancelled and restores every line
// item's full quantity. The transition check runs before anything else,
// so a second cancel restores nothing.
func (uc *orderUseCase) CancelOrder(ctx context.Context, orderID, userID string) (*model.Order, error) {
	return uc.close(ctx, orderID, userID, model.OrderStatusCancelled, "")
}

func (uc *orderUseCase) ReturnOrder(ctx context.Context, input *dto.ReturnOrderInput) (*model.Order, error) {
	if strings.TrimSpace(input.Reason) == "" {
		return nil, errors.New("return reason is required")
	}
	return uc.close(ctx, input.OrderID, input.UserID, model.OrderStatusReturned, input.Reason)
}

func (uc *orderUseCase) close(ctx context.Context, orderID, userID string, target model.OrderStatus, reason string) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound
	}
	if !order.CanTransition(o.Status, target) {
		return nil, order.ErrInvalidTransition
	}

	items, err := uc.repo.GetItems(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	refund := o.TotalAmount

	o.Status = target
	o.ReturnRequested = true
	o.ReturnedAt = &now
	o.RefundAmount = &refund
	o.UpdatedAt = now
	if reason != "" {
		o.ReturnReason = &reason
	}

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	movementType := model.MovementCancellation
	referenceType := "order_cancel"
	movementReason := "order cancelled"
	if target == model.OrderStatusReturned {
		movementType = model.MovementReturn
		referenceType = "order_return"
		movementReason = "order returned: " + reason
	}

	for _, item := range items {
		_, err := uc.stock.Adjust(ctx, &stockdto.AdjustStockInput{
			VariantID:     item.VariantID,
			Delta:         item.Quantity,
			MovementType:  movementType,
			Reason:        movementReason,
			ReferenceID:   o.ID,
			ReferenceType: referenceType,
			UserID:        userID,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to restore stock for variant %s: %w", item.VariantID, err)
		}
	}

	o.Items = items
	if target == model.OrderStatusReturned {
		uc.publish("OrderReturned", o)
	} else {
		uc.publish("OrderCancelled", o)
	}
	return o, nil
}

// ValidatePayment flips the validation flag, optionally correcting the
// payment method. No stock effect, no amount re-check.
func (uc *orderUseCase) ValidatePayment(ctx context.Context, input *dto.ValidatePaymentInput) (*model.Order, error) {
	o, err := uc.repo.FindByID(ctx, input.OrderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrNotFound
	}
	if order.IsTerminal(o.Status) {
		return nil, order.ErrInvalidTransition
	}

	o.PaymentValidated = true
	if input.PaymentMethod != "" {
		o.PaymentMethod = input.PaymentMethod
	}
	o.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

// ConfirmDelivery resolves a scanned QR token. No stock effect: the
// quantities were settled at sale time.
func (uc *orderUseCase) ConfirmDelivery(ctx context.Context, input *dto.ConfirmDeliveryInput) (*model.Order, error) {
	o, err := uc.repo.FindByQRCode(ctx, input.QRCode)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, order.ErrInvalidQR
	}
	if o.Status == model.OrderStatusDelivered {
		return nil, order.ErrAlreadyDelivered
	}
	if !order.CanTransition(o.Status, model.OrderStatusDelivered) {
		return nil, order.ErrInvalidTransition
	}

	now := time.Now()
	o.Status = model.OrderStatusDelivered
	o.DeliveredAt = &now
	if input.StandID != "" {
		standID := input.StandID
		o.DeliveredByStandID = &standID
	}
	o.UpdatedAt = now

	if err := uc.repo.Update(ctx, o); err != nil {
		return nil, err
	}

	uc.publish("OrderDelivered", o)
	return o, nil
}

// itemDeltas computes the per-variant net stock delta between the old
// and new item sets. Positive means restore, negative means reduce.
// Duplicate variant rows are summed on both sides.
func itemDeltas(oldItems []model.OrderItem, newItems []dto.OrderItemInput) map[string]int {
	deltas := map[string]int{}
	for _, it := range oldItems {
		deltas[it.VariantID] += it.Quantity
	}
	for _, it := range newItems {
		deltas[it.VariantID] -= it.Quantity
	}
	for variantID, d := range deltas {
		if d == 0 {
			delete(deltas, variantID)
		}
	}
	return deltas
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func buildItems(orderID string, inputs []dto.OrderItemInput, now time.Time) []model.OrderItem {
	items := make([]model.OrderItem, len(inputs))
	for i, it := range inputs {
		items[i] = model.OrderItem{
			ID:        uuid.New().String(),
			OrderID:   orderID,
			VariantID: it.VariantID,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			CreatedAt: now,
		}
	}
	return items
}

func itemsTotal(items []model.OrderItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}

func newQRCode(now time.Time) string {
	return fmt.Sprintf("ord-%d-%s", now.UnixNano(), uuid.New().String()[:8])
}

type orderEvent struct {
	EventID   string       `json:"event_id"`
	EventType string       `json:"event_type"`
	Payload   eventPayload `json:"payload"`
	Timestamp time.Time    `json:"timestamp"`
}

type eventPayload struct {
	ID          string          `json:"id"`
	Status      string          `json:"status"`
	SaleType    string          `json:"sale_type"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

func (uc *orderUseCase) publish(eventType string, o *model.Order) {
	if uc.publisher == nil {
		return
	}

	event := orderEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Payload: eventPayload{
			ID:          o.ID,
			Status:      string(o.Status),
			SaleType:    string(o.SaleType),
			TotalAmount: o.TotalAmount,
		},
		Timestamp: time.Now(),
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		data, err := json.Marshal(event)
		if err != nil {
			uc.logger.Error("failed to marshal order event", zap.Error(err))
			return
		}
		if err := uc.publisher.Publish(ctx, o.ID, data); err != nil {
			uc.logger.Error("failed to publish order event",
				zap.String("event_type", eventType),
				zap.String("order_id", o.ID),
				zap.Error(err),
			)
		}
	}()
}
