package ports

import (
	"context"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// Service exposes the cart use cases to adapters.
type Service interface {
	Resolve(ctx context.Context, user *usersdomain.User) (*cartdomain.ResolvedCart, error)
	Prune(ctx context.Context, user *usersdomain.User, dangling []string) (*usersdomain.User, error)
	AddToCart(ctx context.Context, user *usersdomain.User, productID string) (*usersdomain.User, error)
	RemoveFromCart(ctx context.Context, user *usersdomain.User, productID string) (*usersdomain.User, error)
	ClearCart(ctx context.Context, userID string) error
}
