package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stand"
	"github.com/avelars/eventmerch-service/internal/stand/dto"
	"go.uber.org/zap"
)

type fakeStandRepo struct {
	stands map[string]*model.Stand
	stock  map[string][]model.StandStock
}

func newFakeStandRepo() *fakeStandRepo {
	return &fakeStandRepo{
		stands: map[string]*model.Stand{},
		stock:  map[string][]model.StandStock{},
	}
}

func (r *fakeStandRepo) Create(ctx context.Context, s *model.Stand) error {
	cp := *s
	r.stands[s.ID] = &cp
	return nil
}

func (r *fakeStandRepo) FindByID(ctx context.Context, id string) (*model.Stand, error) {
	s, ok := r.stands[id]
	if !ok {
		return nil, nil
	}
	cp := *s
	return &cp, nil
}

func (r *fakeStandRepo) FindAll(ctx context.Context, filters *dto.StandFilters) ([]model.Stand, int, error) {
	var out []model.Stand
	for _, s := range r.stands {
		out = append(out, *s)
	}
	return out, len(out), nil
}

func (r *fakeStandRepo) Update(ctx context.Context, s *model.Stand) error {
	cp := *s
	r.stands[s.ID] = &cp
	return nil
}

func (r *fakeStandRepo) Delete(ctx context.Context, id string) error {
	delete(r.stands, id)
	delete(r.stock, id)
	return nil
}

func (r *fakeStandRepo) GetStock(ctx context.Context, standID string) ([]dto.StandStockRow, error) {
	var rows []dto.StandStockRow
	for _, s := range r.stock[standID] {
		rows = append(rows, dto.StandStockRow{
			ID:        s.ID,
			StandID:   s.StandID,
			VariantID: s.VariantID,
			Quantity:  s.Quantity,
		})
	}
	return rows, nil
}

func (r *fakeStandRepo) ReplaceStock(ctx context.Context, standID string, rows []model.StandStock) error {
	r.stock[standID] = append([]model.StandStock(nil), rows...)
	return nil
}

func newTestUseCase(repo stand.Repository) stand.UseCase {
	return NewStandUseCase(repo, zap.NewNop())
}

func TestCreateStandGeneratesQRCode(t *testing.T) {
	uc := newTestUseCase(newFakeStandRepo())

	s, err := uc.CreateStand(context.Background(), &dto.CreateStandInput{
		Name:     "North Gate",
		Location: "hall A",
	})
	if err != nil {
		t.Fatalf("CreateStand: %v", err)
	}
	if s.QRCode == "" {
		t.Error("expected a generated QR code")
	}
	if s.ContactName != nil {
		t.Errorf("ContactName = %v, want nil for empty input", s.ContactName)
	}
}

func TestAssignStockReplacesWholeList(t *testing.T) {
	repo := newFakeStandRepo()
	uc := newTestUseCase(repo)

	s, _ := uc.CreateStand(context.Background(), &dto.CreateStandInput{
		Name:     "North Gate",
		Location: "hall A",
	})

	_, err := uc.AssignStock(context.Background(), &dto.AssignStockInput{
		StandID: s.ID,
		Assignments: []dto.StockAssignmentInput{
			{VariantID: "var-a", Quantity: 10},
			{VariantID: "var-b", Quantity: 5},
		},
	})
	if err != nil {
		t.Fatalf("first AssignStock: %v", err)
	}

	// second assignment omits var-b: it must disappear, not persist
	rows, err := uc.AssignStock(context.Background(), &dto.AssignStockInput{
		StandID: s.ID,
		Assignments: []dto.StockAssignmentInput{
			{VariantID: "var-a", Quantity: 4},
		},
	})
	if err != nil {
		t.Fatalf("second AssignStock: %v", err)
	}

	if len(rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rows))
	}
	if rows[0].VariantID != "var-a" || rows[0].Quantity != 4 {
		t.Errorf("row = %+v, want var-a x4", rows[0])
	}
}

func TestAssignStockRejectsDuplicateVariant(t *testing.T) {
	repo := newFakeStandRepo()
	uc := newTestUseCase(repo)

	s, _ := uc.CreateStand(context.Background(), &dto.CreateStandInput{
		Name:     "North Gate",
		Location: "hall A",
	})

	_, err := uc.AssignStock(context.Background(), &dto.AssignStockInput{
		StandID: s.ID,
		Assignments: []dto.StockAssignmentInput{
			{VariantID: "var-a", Quantity: 1},
			{VariantID: "var-a", Quantity: 2},
		},
	})
	if !errors.Is(err, stand.ErrDuplicateVariant) {
		t.Fatalf("err = %v, want ErrDuplicateVariant", err)
	}
	if len(repo.stock[s.ID]) != 0 {
		t.Errorf("no rows should be written on rejection, got %d", len(repo.stock[s.ID]))
	}
}

func TestAssignStockRejectsNegativeQuantity(t *testing.T) {
	repo := newFakeStandRepo()
	uc := newTestUseCase(repo)

	s, _ := uc.CreateStand(context.Background(), &dto.CreateStandInput{
		Name:     "North Gate",
		Location: "hall A",
	})

	_, err := uc.AssignStock(context.Background(), &dto.AssignStockInput{
		StandID:     s.ID,
		Assignments: []dto.StockAssignmentInput{{VariantID: "var-a", Quantity: -1}},
	})
	if err == nil {
		t.Fatal("expected error for negative quantity")
	}
}

func TestAssignStockUnknownStand(t *testing.T) {
	uc := newTestUseCase(newFakeStandRepo())

	_, err := uc.AssignStock(context.Background(), &dto.AssignStockInput{
		StandID:     "missing",
		Assignments: []dto.StockAssignmentInput{{VariantID: "var-a", Quantity: 1}},
	})
	if !errors.Is(err, stand.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
