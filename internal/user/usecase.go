package user

import (
	"context"
	"errors"

	"github.com/avelars/eventmerch-service/internal/model"
	"github.com/avelars/eventmerch-service/internal/user/dto"
)

var ErrNotFound = errors.New("user not found")

// UseCase is a read-only directory. Accounts are provisioned by the
// identity service upstream; this service only attributes actions.
type UseCase interface {
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	ListUsers(ctx context.Context, filters *dto.UserFilters) ([]model.User, int, error)
}
