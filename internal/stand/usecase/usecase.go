package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stand"
	"github.com/avelars/eventmerch-service/internal/stand/dto"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/google/uuid"
)

type standUseCase struct {
	repo   stand.Repository
	logger logger.ZapLogger
}

func NewStandUseCase(repo stand.Repository, log logger.ZapLogger) stand.UseCase {
	return &standUseCase{
		repo:   repo,
		logger: log,
	}
}

func (uc *standUseCase) CreateStand(ctx context.Context, input *dto.CreateStandInput) (*model.Stand, error) {
	now := time.Now()
	id := uuid.New().String()

	qrCode := input.QRCode
	if qrCode == "" {
		qrCode = fmt.Sprintf("stand-%s", uuid.New().String())
	}

	s := &model.Stand{
		BaseModel: model.BaseModel{ID: id, CreatedAt: now, UpdatedAt: now},
		Name:      input.Name,
		Location:  input.Location,
		QRCode:    qrCode,
	}
	if input.ContactName != "" {
		s.ContactName = &input.ContactName
	}
	if input.ContactPhone != "" {
		s.ContactPhone = &input.ContactPhone
	}
	if input.ImageURL != "" {
		s.ImageURL = &input.ImageURL
	}

	if err := uc.repo.Create(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *standUseCase) GetStand(ctx context.Context, id string) (*model.Stand, error) {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, stand.ErrNotFound
	}

	rows, err := uc.repo.GetStock(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		s.Stock = append(s.Stock, model.StandStock{
			ID:        row.ID,
			StandID:   row.StandID,
			VariantID: row.VariantID,
			Quantity:  row.Quantity,
			UpdatedAt: row.UpdatedAt,
		})
	}
	return s, nil
}

func (uc *standUseCase) ListStands(ctx context.Context, filters *dto.StandFilters) ([]model.Stand, int, error) {
	return uc.repo.FindAll(ctx, filters)
}

func (uc *standUseCase) UpdateStand(ctx context.Context, input *dto.UpdateStandInput) (*model.Stand, error) {
	s, err := uc.repo.FindByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, stand.ErrNotFound
	}

	s.Name = input.Name
	s.Location = input.Location
	s.ContactName = nil
	if input.ContactName != "" {
		s.ContactName = &input.ContactName
	}
	s.ContactPhone = nil
	if input.ContactPhone != "" {
		s.ContactPhone = &input.ContactPhone
	}
	s.ImageURL = nil
	if input.ImageURL != "" {
		s.ImageURL = &input.ImageURL
	}
	s.UpdatedAt = time.Now()

	if err := uc.repo.Update(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (uc *standUseCase) DeleteStand(ctx context.Context, id string) error {
	s, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s == nil {
		return nil // already gone
	}
	return uc.repo.Delete(ctx, id)
}

func (uc *standUseCase) GetStock(ctx context.Context, standID string) ([]dto.StandStockRow, error) {
	s, err := uc.repo.FindByID(ctx, standID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, stand.ErrNotFound
	}
	return uc.repo.GetStock(ctx, standID)
}

// AssignStock replaces the stand's whole assignment list. This is
// deliberately declarative: the list is the desired state, and any
// variant previously assigned but absent from it drops to zero.
func (uc *standUseCase) AssignStock(ctx context.Context, input *dto.AssignStockInput) ([]dto.StandStockRow, error) {
	s, err := uc.repo.FindByID(ctx, input.StandID)
	if err != nil {
		return nil, err
	}
	if s == nil {
		return nil, stand.ErrNotFound
	}

	seen := map[string]bool{}
	for _, a := range input.Assignments {
		if a.Quantity < 0 {
			return nil, fmt.Errorf("negative quantity for variant %s", a.VariantID)
		}
		if seen[a.VariantID] {
			return nil, stand.ErrDuplicateVariant
		}
		seen[a.VariantID] = true
	}

	now := time.Now()
	rows := make([]model.StandStock, len(input.Assignments))
	for i, a := range input.Assignments {
		rows[i] = model.StandStock{
			ID:        uuid.New().String(),
			StandID:   input.StandID,
			VariantID: a.VariantID,
			Quantity:  a.Quantity,
			UpdatedAt: now,
		}
	}

	if err := uc.repo.ReplaceStock(ctx, input.StandID, rows); err != nil {
		return nil, err
	}

	return uc.repo.GetStock(ctx, input.StandID)
}
