package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stock"
	"github.com/avelars/eventmerch-service/internal/stock/dto"
	"go.uber.org/zap"
)

type fakeStockRepo struct {
	variants  map[string]*model.ProductVariant
	movements []model.StockMovement

	// conflictsLeft makes the next N conditional updates fail, simulating
	// a concurrent writer changing the quantity between read and write.
	conflictsLeft int
	// rereadQuantity is applied to the variant on each conflict, mimicking
	// the other writer's result.
	rereadQuantity int
}

func newFakeStockRepo() *fakeStockRepo {
	return &fakeStockRepo{variants: map[string]*model.ProductVariant{}}
}

func (r *fakeStockRepo) GetVariant(ctx context.Context, variantID string) (*model.ProductVariant, error) {
	v, ok := r.variants[variantID]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (r *fakeStockRepo) AdjustQuantity(ctx context.Context, variantID string, expected, next int, movement *model.StockMovement) error {
	v := r.variants[variantID]
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		v.Quantity = r.rereadQuantity
		return stock.ErrConflict
	}
	if v.Quantity != expected {
		return stock.ErrConflict
	}
	v.Quantity = next
	r.movements = append(r.movements, *movement)
	return nil
}

func (r *fakeStockRepo) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return r.movements, len(r.movements), nil
}

func newTestUseCase(repo stock.Repository) stock.UseCase {
	// nil cache runs unlocked; the conditional update still guards races
	return NewStockUseCase(repo, nil, zap.NewNop())
}

func seedVariant(r *fakeStockRepo, id string, qty int) {
	r.variants[id] = &model.ProductVariant{
		BaseModel: model.BaseModel{ID: id},
		ProductID: "prod-1",
		SizeLabel: "M",
		Quantity:  qty,
	}
}

func TestAdjustAppliesDelta(t *testing.T) {
	repo := newFakeStockRepo()
	seedVariant(repo, "var-1", 10)
	uc := newTestUseCase(repo)

	v, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		VariantID:    "var-1",
		Delta:        -3,
		MovementType: model.MovementReduce,
		Reason:       "shop sale",
		UserID:       "shop",
	})
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if v.Quantity != 7 {
		t.Errorf("quantity = %d, want 7", v.Quantity)
	}

	m := repo.movements[0]
	if m.QuantityBefore != 10 || m.QuantityAfter != 7 || m.QuantityChange != -3 {
		t.Errorf("movement = %d -> %d (change %d), want 10 -> 7 (-3)",
			m.QuantityBefore, m.QuantityAfter, m.QuantityChange)
	}
}

func TestAdjustClampsAtZero(t *testing.T) {
	repo := newFakeStockRepo()
	seedVariant(repo, "var-1", 2)
	uc := newTestUseCase(repo)

	v, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		VariantID:    "var-1",
		Delta:        -5,
		MovementType: model.MovementReduce,
		Reason:       "oversell",
	})
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if v.Quantity != 0 {
		t.Errorf("quantity = %d, want 0", v.Quantity)
	}

	// the movement logs the applied delta, not the requested one
	m := repo.movements[0]
	if m.QuantityChange != -2 {
		t.Errorf("movement change = %d, want -2", m.QuantityChange)
	}
	if m.QuantityBefore != 2 || m.QuantityAfter != 0 {
		t.Errorf("movement = %d -> %d, want 2 -> 0", m.QuantityBefore, m.QuantityAfter)
	}
}

func TestAdjustRetriesOnConflict(t *testing.T) {
	repo := newFakeStockRepo()
	seedVariant(repo, "var-1", 10)
	repo.conflictsLeft = 1
	repo.rereadQuantity = 8 // another writer took 2 in between
	uc := newTestUseCase(repo)

	v, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		VariantID:    "var-1",
		Delta:        -1,
		MovementType: model.MovementReduce,
		Reason:       "shop sale",
	})
	if err != nil {
		t.Fatalf("Adjust: %v", err)
	}
	if v.Quantity != 7 {
		t.Errorf("quantity = %d, want 7 (reread 8, then -1)", v.Quantity)
	}

	m := repo.movements[0]
	if m.QuantityBefore != 8 || m.QuantityAfter != 7 {
		t.Errorf("movement = %d -> %d, want 8 -> 7 from the retried read", m.QuantityBefore, m.QuantityAfter)
	}
}

func TestAdjustGivesUpAfterRepeatedConflicts(t *testing.T) {
	repo := newFakeStockRepo()
	seedVariant(repo, "var-1", 10)
	repo.conflictsLeft = casAttempts
	repo.rereadQuantity = 10
	uc := newTestUseCase(repo)

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		VariantID:    "var-1",
		Delta:        -1,
		MovementType: model.MovementReduce,
		Reason:       "contention",
	})
	if !errors.Is(err, stock.ErrConflict) {
		t.Fatalf("err = %v, want ErrConflict", err)
	}
	if len(repo.movements) != 0 {
		t.Errorf("no movement should be written on failure, got %d", len(repo.movements))
	}
}

func TestAdjustUnknownVariant(t *testing.T) {
	uc := newTestUseCase(newFakeStockRepo())

	_, err := uc.Adjust(context.Background(), &dto.AdjustStockInput{
		VariantID:    "missing",
		Delta:        1,
		MovementType: model.MovementAdjustment,
		Reason:       "restock",
	})
	if !errors.Is(err, stock.ErrVariantNotFound) {
		t.Fatalf("err = %v, want ErrVariantNotFound", err)
	}
}
