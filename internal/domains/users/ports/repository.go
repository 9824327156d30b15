package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

var ErrNotFound = errors.New("user not found")

// Repository persists users together with their embedded cart.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	Save(ctx context.Context, user *domain.User) (*domain.User, error)
}
