package usecase

import (
	"context"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/user"
	"github.com/avelars/eventmerch-service/internal/user/dto"
	"github.com/avelars/eventmerch-service/pkg/logger"
)

type userUseCase struct {
	repo   user.Repository
	logger logger.ZapLogger
}

func NewUserUseCase(repo user.Repository, log logger.ZapLogger) user.UseCase {
	return &userUseCase{repo: repo, logger: log}
}

func (uc *userUseCase) GetUser(ctx context.Context, id string) (*model.User, error) {
	u, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (uc *userUseCase) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	u, err := uc.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if u == nil {
		return nil, user.ErrNotFound
	}
	return u, nil
}

func (uc *userUseCase) ListUsers(ctx context.Context, filters *dto.UserFilters) ([]model.User, int, error) {
	return uc.repo.FindAll(ctx, filters)
}
