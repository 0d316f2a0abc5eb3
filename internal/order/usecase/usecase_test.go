package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/order"
	"github.com/avelars/eventmerch-service/internal/order/dto"
	stockdto "github.com/avelars/eventmerch-service/internal/stock/dto"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type fakeOrderRepo struct {
	orders map[string]*model.Order
	items  map[string][]model.OrderItem
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{
		orders: map[string]*model.Order{},
		items:  map[string][]model.OrderItem{},
	}
}

func (r *fakeOrderRepo) Create(ctx context.Context, o *model.Order, items []model.OrderItem) error {
	cp := *o
	r.orders[o.ID] = &cp
	r.items[o.ID] = append([]model.OrderItem(nil), items...)
	return nil
}

func (r *fakeOrderRepo) FindByID(ctx context.Context, id string) (*model.Order, error) {
	o, ok := r.orders[id]
	if !ok {
		return nil, nil
	}
	cp := *o
	return &cp, nil
}

func (r *fakeOrderRepo) FindByQRCode(ctx context.Context, qrCode string) (*model.Order, error) {
	for _, o := range r.orders {
		if o.QRCode == qrCode {
			cp := *o
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeOrderRepo) FindAll(ctx context.Context, filters *dto.OrderFilters) ([]model.Order, int, error) {
	var out []model.Order
	for _, o := range r.orders {
		out = append(out, *o)
	}
	return out, len(out), nil
}

func (r *fakeOrderRepo) Update(ctx context.Context, o *model.Order) error {
	cp := *o
	r.orders[o.ID] = &cp
	return nil
}

func (r *fakeOrderRepo) GetItems(ctx context.Context, orderID string) ([]model.OrderItem, error) {
	return append([]model.OrderItem(nil), r.items[orderID]...), nil
}

func (r *fakeOrderRepo) ReplaceItems(ctx context.Context, orderID string, items []model.OrderItem, total decimal.Decimal) error {
	r.items[orderID] = append([]model.OrderItem(nil), items...)
	if o, ok := r.orders[orderID]; ok {
		o.TotalAmount = total
	}
	return nil
}

// fakeStock records every adjustment so tests can assert the exact net
// stock effect of an order operation.
type fakeStock struct {
	adjustments []stockdto.AdjustStockInput
	err         error
}

func (s *fakeStock) Adjust(ctx context.Context, input *stockdto.AdjustStockInput) (*model.ProductVariant, error) {
	if s.err != nil {
		return nil, s.err
	}
	s.adjustments = append(s.adjustments, *input)
	return &model.ProductVariant{}, nil
}

func (s *fakeStock) ListMovements(ctx context.Context, filters *stockdto.MovementFilters) ([]model.StockMovement, int, error) {
	return nil, 0, nil
}

func (s *fakeStock) deltaFor(variantID string) (int, bool) {
	total := 0
	found := false
	for _, a := range s.adjustments {
		if a.VariantID == variantID {
			total += a.Delta
			found = true
		}
	}
	return total, found
}

func newTestUseCase(repo order.Repository, st *fakeStock) order.UseCase {
	return NewOrderUseCase(repo, st, nil, zap.NewNop())
}

func price(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func TestCreateOrderNeverTouchesStock(t *testing.T) {
	repo := newFakeOrderRepo()
	st := &fakeStock{}
	uc := newTestUseCase(repo, st)

	o, err := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
		Items: []dto.OrderItemInput{
			{VariantID: "var-a", Quantity: 2, UnitPrice: price(100)},
			{VariantID: "var-b", Quantity: 1, UnitPrice: price(50)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	if len(st.adjustments) != 0 {
		t.Errorf("expected no stock adjustments on create, got %d", len(st.adjustments))
	}
	if !o.TotalAmount.Equal(price(250)) {
		t.Errorf("total = %s, want 250", o.TotalAmount)
	}
	if o.Status != model.OrderStatusPending {
		t.Errorf("status = %q, want pending", o.Status)
	}
	if o.QRCode == "" {
		t.Error("expected a generated QR code")
	}
}

func TestCreateCashOrderWaitsForPayment(t *testing.T) {
	uc := newTestUseCase(newFakeOrderRepo(), &fakeStock{})

	o, err := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCash,
		SaleType:      model.SaleTypePOS,
		StandID:       "stand-1",
		Items:         []dto.OrderItemInput{{VariantID: "var-a", Quantity: 1, UnitPrice: price(10)}},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if o.Status != model.OrderStatusWaitingPayment {
		t.Errorf("status = %q, want waiting_payment", o.Status)
	}
}

func TestCreateOrderRejectsEmptyItems(t *testing.T) {
	uc := newTestUseCase(newFakeOrderRepo(), &fakeStock{})

	_, err := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
	})
	if !errors.Is(err, order.ErrEmptyOrder) {
		t.Fatalf("err = %v, want ErrEmptyOrder", err)
	}
}

func TestEditItemsAdjustsByDifference(t *testing.T) {
	repo := newFakeOrderRepo()
	st := &fakeStock{}
	uc := newTestUseCase(repo, st)

	o, err := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
		Items: []dto.OrderItemInput{
			{VariantID: "var-a", Quantity: 2, UnitPrice: price(100)},
			{VariantID: "var-b", Quantity: 1, UnitPrice: price(50)},
		},
	})
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}

	edited, err := uc.EditItems(context.Background(), &dto.EditOrderItemsInput{
		OrderID: o.ID,
		Items:   []dto.OrderItemInput{{VariantID: "var-a", Quantity: 1, UnitPrice: price(100)}},
	})
	if err != nil {
		t.Fatalf("EditItems: %v", err)
	}

	if !edited.TotalAmount.Equal(price(100)) {
		t.Errorf("total = %s, want 100", edited.TotalAmount)
	}
	if d, ok := st.deltaFor("var-a"); !ok || d != 1 {
		t.Errorf("var-a delta = %d (found=%v), want +1", d, ok)
	}
	if d, ok := st.deltaFor("var-b"); !ok || d != 1 {
		t.Errorf("var-b delta = %d (found=%v), want +1", d, ok)
	}
	if len(st.adjustments) != 2 {
		t.Errorf("adjustments = %d, want 2", len(st.adjustments))
	}

	items, _ := repo.GetItems(context.Background(), o.ID)
	if len(items) != 1 || items[0].VariantID != "var-a" || items[0].Quantity != 1 {
		t.Errorf("stored items = %+v, want single var-a x1", items)
	}
}

func TestEditItemsSkipsUnchangedVariants(t *testing.T) {
	repo := newFakeOrderRepo()
	st := &fakeStock{}
	uc := newTestUseCase(repo, st)

	o, _ := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
		Items: []dto.OrderItemInput{
			{VariantID: "var-a", Quantity: 2, UnitPrice: price(100)},
			{VariantID: "var-b", Quantity: 3, UnitPrice: price(50)},
		},
	})

	_, err := uc.EditItems(context.Background(), &dto.EditOrderItemsInput{
		OrderID: o.ID,
		Items: []dto.OrderItemInput{
			{VariantID: "var-a", Quantity: 2, UnitPrice: price(100)},
			{VariantID: "var-b", Quantity: 5, UnitPrice: price(50)},
		},
	})
	if err != nil {
		t.Fatalf("EditItems: %v", err)
	}

	if _, ok := st.deltaFor("var-a"); ok {
		t.Error("var-a is unchanged, expected no adjustment")
	}
	if d, _ := st.deltaFor("var-b"); d != -2 {
		t.Errorf("var-b delta = %d, want -2", d)
	}
}

func TestEditItemsRejectedOnTerminalOrder(t *testing.T) {
	repo := newFakeOrderRepo()
	st := &fakeStock{}
	uc := newTestUseCase(repo, st)

	o, _ := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
		Items:         []dto.OrderItemInput{{VariantID: "var-a", Quantity: 1, UnitPrice: price(10)}},
	})
	if _, err := uc.CancelOrder(context.Background(), o.ID, "admin-1"); err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}

	_, err := uc.EditItems(context.Background(), &dto.EditOrderItemsInput{
		OrderID: o.ID,
		Items:   []dto.OrderItemInput{{VariantID: "var-a", Quantity: 5, UnitPrice: price(10)}},
	})
	if !errors.Is(err, order.ErrInvalidTransition) {
		t.Fatalf("err = %v, want ErrInvalidTransition", err)
	}
}

func TestCancelRestoresEveryItemOnce(t *testing.T) {
	repo := newFakeOrderRepo()
	st := &fakeStock{}
	uc := newTestUseCase(repo, st)

	o, _ := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
		Items: []dto.OrderItemInput{
			{VariantID: "var-a", Quantity: 2, UnitPrice: price(100)},
			{VariantID: "var-b", Quantity: 1, UnitPrice: price(50)},
		},
	})

	cancelled, err := uc.CancelOrder(context.Background(), o.ID, "admin-1")
	if err != nil {
		t.Fatalf("CancelOrder: %v", err)
	}

	if cancelled.Status != model.OrderStatusCancelled {
		t.Errorf("status = %q, want cancelled", cancelled.Status)
	}
	if cancelled.RefundAmount == nil || !cancelled.RefundAmount.Equal(price(250)) {
		t.Errorf("refund = %v, want 250", cancelled.RefundAmount)
	}
	if d, _ := st.deltaFor("var-a"); d != 2 {
		t.Errorf("var-a delta = %d, want +2", d)
	}
	if d, _ := st.deltaFor("var-b"); d != 1 {
		t.Errorf("var-b delta = %d, want +1", d)
	}
	for _, a := range st.adjustments {
		if a.MovementType != model.MovementCancellation {
			t.Errorf("movement type = %q, want cancellation", a.MovementType)
		}
	}
}

func TestDoubleCancelRestoresNothingTwice(t *testing.T) {
	repo := newFakeOrderRepo()
	st := &fakeStock{}
	uc := newTestUseCase(repo, st)

	o, _ := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
		Items:         []dto.OrderItemInput{{VariantID: "var-a", Quantity: 3, UnitPrice: price(20)}},
	})

	if _, err := uc.CancelOrder(context.Background(), o.ID, "admin-1"); err != nil {
		t.Fatalf("first cancel: %v", err)
	}
	if _, err := uc.CancelOrder(context.Background(), o.ID, "admin-1"); !errors.Is(err, order.ErrInvalidTransition) {
		t.Fatalf("second cancel err = %v, want ErrInvalidTransition", err)
	}

	if d, _ := st.deltaFor("var-a"); d != 3 {
		t.Errorf("var-a delta = %d after double cancel, want +3 exactly once", d)
	}
}

func TestReturnRequiresReason(t *testing.T) {
	repo := newFakeOrderRepo()
	uc := newTestUseCase(repo, &fakeStock{})

	o, _ := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
		Items:         []dto.OrderItemInput{{VariantID: "var-a", Quantity: 1, UnitPrice: price(10)}},
	})

	if _, err := uc.ReturnOrder(context.Background(), &dto.ReturnOrderInput{OrderID: o.ID, Reason: "  "}); err == nil {
		t.Fatal("expected error for blank reason")
	}

	ret, err := uc.ReturnOrder(context.Background(), &dto.ReturnOrderInput{OrderID: o.ID, Reason: "wrong size"})
	if err != nil {
		t.Fatalf("ReturnOrder: %v", err)
	}
	if ret.Status != model.OrderStatusReturned {
		t.Errorf("status = %q, want returned", ret.Status)
	}
	if ret.ReturnReason == nil || *ret.ReturnReason != "wrong size" {
		t.Errorf("reason = %v, want 'wrong size'", ret.ReturnReason)
	}
}

func TestConfirmDelivery(t *testing.T) {
	repo := newFakeOrderRepo()
	st := &fakeStock{}
	uc := newTestUseCase(repo, st)

	o, _ := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCard,
		SaleType:      model.SaleTypeOnline,
		Items:         []dto.OrderItemInput{{VariantID: "var-a", Quantity: 1, UnitPrice: price(10)}},
	})

	t.Run("unknown QR", func(t *testing.T) {
		_, err := uc.ConfirmDelivery(context.Background(), &dto.ConfirmDeliveryInput{QRCode: "nope"})
		if !errors.Is(err, order.ErrInvalidQR) {
			t.Fatalf("err = %v, want ErrInvalidQR", err)
		}
	})

	t.Run("first scan delivers", func(t *testing.T) {
		delivered, err := uc.ConfirmDelivery(context.Background(), &dto.ConfirmDeliveryInput{
			QRCode:  o.QRCode,
			StandID: "stand-7",
		})
		if err != nil {
			t.Fatalf("ConfirmDelivery: %v", err)
		}
		if delivered.Status != model.OrderStatusDelivered {
			t.Errorf("status = %q, want delivered", delivered.Status)
		}
		if delivered.DeliveredAt == nil {
			t.Error("DeliveredAt not stamped")
		}
		if delivered.DeliveredByStandID == nil || *delivered.DeliveredByStandID != "stand-7" {
			t.Errorf("DeliveredByStandID = %v, want stand-7", delivered.DeliveredByStandID)
		}
		if len(st.adjustments) != 0 {
			t.Errorf("delivery must not touch stock, got %d adjustments", len(st.adjustments))
		}
	})

	t.Run("second scan is rejected", func(t *testing.T) {
		_, err := uc.ConfirmDelivery(context.Background(), &dto.ConfirmDeliveryInput{QRCode: o.QRCode})
		if !errors.Is(err, order.ErrAlreadyDelivered) {
			t.Fatalf("err = %v, want ErrAlreadyDelivered", err)
		}
	})

	t.Run("cancelled order is not deliverable", func(t *testing.T) {
		o2, _ := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
			CustomerEmail: "fan@example.com",
			PaymentMethod: model.PaymentMethodCard,
			SaleType:      model.SaleTypeOnline,
			Items:         []dto.OrderItemInput{{VariantID: "var-a", Quantity: 1, UnitPrice: price(10)}},
		})
		if _, err := uc.CancelOrder(context.Background(), o2.ID, "admin-1"); err != nil {
			t.Fatalf("CancelOrder: %v", err)
		}
		_, err := uc.ConfirmDelivery(context.Background(), &dto.ConfirmDeliveryInput{QRCode: o2.QRCode})
		if !errors.Is(err, order.ErrInvalidTransition) {
			t.Fatalf("err = %v, want ErrInvalidTransition", err)
		}
	})
}

func TestValidatePayment(t *testing.T) {
	repo := newFakeOrderRepo()
	uc := newTestUseCase(repo, &fakeStock{})

	o, _ := uc.CreateOrder(context.Background(), &dto.CreateOrderInput{
		CustomerEmail: "fan@example.com",
		PaymentMethod: model.PaymentMethodCash,
		SaleType:      model.SaleTypePOS,
		Items:         []dto.OrderItemInput{{VariantID: "var-a", Quantity: 1, UnitPrice: price(10)}},
	})

	validated, err := uc.ValidatePayment(context.Background(), &dto.ValidatePaymentInput{
		OrderID:       o.ID,
		PaymentMethod: model.PaymentMethodCard,
	})
	if err != nil {
		t.Fatalf("ValidatePayment: %v", err)
	}
	if !validated.PaymentValidated {
		t.Error("PaymentValidated not set")
	}
	if validated.PaymentMethod != model.PaymentMethodCard {
		t.Errorf("method = %q, want corrected to card", validated.PaymentMethod)
	}
}

func TestItemDeltas(t *testing.T) {
	tests := []struct {
		name string
		old  []model.OrderItem
		new  []dto.OrderItemInput
		want map[string]int
	}{
		{
			name: "removed variant restores fully",
			old:  []model.OrderItem{{VariantID: "a", Quantity: 2}},
			new:  nil,
			want: map[string]int{"a": 2},
		},
		{
			name: "added variant reduces",
			old:  nil,
			new:  []dto.OrderItemInput{{VariantID: "a", Quantity: 3}},
			want: map[string]int{"a": -3},
		},
		{
			name: "unchanged variant vanishes from the map",
			old:  []model.OrderItem{{VariantID: "a", Quantity: 2}},
			new:  []dto.OrderItemInput{{VariantID: "a", Quantity: 2}},
			want: map[string]int{},
		},
		{
			name: "mixed edit",
			old: []model.OrderItem{
				{VariantID: "a", Quantity: 2},
				{VariantID: "b", Quantity: 1},
			},
			new:  []dto.OrderItemInput{{VariantID: "a", Quantity: 1}},
			want: map[string]int{"a": 1, "b": 1},
		},
		{
			name: "duplicate rows are summed on both sides",
			old: []model.OrderItem{
				{VariantID: "a", Quantity: 1},
				{VariantID: "a", Quantity: 2},
			},
			new: []dto.OrderItemInput{
				{VariantID: "a", Quantity: 1},
				{VariantID: "a", Quantity: 1},
			},
			want: map[string]int{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := itemDeltas(tt.old, tt.new)
			if len(got) != len(tt.want) {
				t.Fatalf("got %v, want %v", got, tt.want)
			}
			for k, v := range tt.want {
				if got[k] != v {
					t.Errorf("delta[%s] = %d, want %d", k, got[k], v)
				}
			}
		})
	}
}
