package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/stock"
	"github.com/avelars/eventmerch-service/internal/stock/dto"
	"github.com/avelars/eventmerch-service/pkg/cache"
	"github.com/avelars/eventmerch-service/pkg/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	lockTTL      = 5 * time.Second
	lockAttempts = 3
	casAttempts  = 3
)

type stockUseCase struct {
	repo   stock.Repository
	cache  *cache.RedisClient
	logger logger.ZapLogger
}

func NewStockUseCase(repo stock.Repository, cache *cache.RedisClient, log logger.ZapLogger) stock.UseCase {
	return &stockUseCase{
		repo:   repo,
		cache:  cache,
		logger: log,
	}
}

// Adjust is the single write path to a variant's quantity. Every caller
// (order edit, cancel, return, manual adjustment, shop sale events) goes
// through here so the movement log always mirrors the applied delta.
func (uc *stockUseCase) Adjust(ctx context.Context, input *dto.AdjustStockInput) (*model.ProductVariant, error) {
	release, err := uc.lock(ctx, input.VariantID)
	if err != nil {
		return nil, err
	}
	defer release()

	var lastErr error
	for i := 0; i < casAttempts; i++ {
		v, err := uc.repo.GetVariant(ctx, input.VariantID)
		if err != nil {
			return nil, err
		}
		if v == nil {
			return nil, stock.ErrVariantNotFound
		}

		before := v.Quantity
		after := before + input.Delta
		if after < 0 {
			after = 0 // clamp, never negative
		}

		now := time.Now()

		var refID *string
		if input.ReferenceID != "" {
			refID = &input.ReferenceID
		}
		var refType *string
		if input.ReferenceType != "" {
			refType = &input.ReferenceType
		}
		var createdBy *string
		if input.UserID != "" {
			createdBy = &input.UserID
		}

		movement := &model.StockMovement{
			ID:             uuid.New().String(),
			VariantID:      input.VariantID,
			MovementType:   input.MovementType,
			QuantityChange: after - before,
			QuantityBefore: before,
			QuantityAfter:  after,
			ReferenceType:  refType,
			ReferenceID:    refID,
			Reason:         input.Reason,
			CreatedBy:      createdBy,
			CreatedAt:      now,
		}

		err = uc.repo.AdjustQuantity(ctx, input.VariantID, before, after, movement)
		if err == nil {
			v.Quantity = after
			v.UpdatedAt = now
			return v, nil
		}
		if !errors.Is(err, stock.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}

	uc.logger.Warn("stock adjustment lost the quantity race",
		zap.String("variant_id", input.VariantID),
		zap.Int("delta", input.Delta),
	)
	return nil, lastErr
}

func (uc *stockUseCase) ListMovements(ctx context.Context, filters *dto.MovementFilters) ([]model.StockMovement, int, error) {
	return uc.repo.ListMovements(ctx, filters)
}

// lock serializes adjustments per variant. Runs unlocked when redis is
// absent; the conditional update still catches interleaved writers.
func (uc *stockUseCase) lock(ctx context.Context, variantID string) (func(), error) {
	if uc.cache == nil {
		return func() {}, nil
	}

	lockKey := fmt.Sprintf("lock:stock:%s", variantID)
	lockValue := uuid.New().String()

	acquired := false
	for i := 0; i < lockAttempts; i++ {
		ok, err := uc.cache.AcquireLock(ctx, lockKey, lockValue, lockTTL)
		if err != nil {
			uc.logger.Error("failed to acquire lock redis error", zap.Error(err))
		}
		if ok {
			acquired = true
			break
		}
		time.Sleep(100 * time.Millisecond)
	}
	if !acquired {
		return nil, errors.New("system busy, please try again later (lock)")
	}

	return func() { uc.cache.ReleaseLock(ctx, lockKey, lockValue) }, nil
}
