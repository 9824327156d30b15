package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// Service exposes the order placement and history use cases.
type Service interface {
	PlaceOrder(ctx context.Context, user *usersdomain.User) (*domain.Order, error)
	ListOrders(ctx context.Context, userID string) ([]*domain.Order, error)
}
