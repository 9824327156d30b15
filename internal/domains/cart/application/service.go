package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

// Service manages the cart embedded in each user.
type Service struct {
	users    usersports.Repository
	products catalogports.Repository
	policy   catalogdomain.MissingProductPolicy
}

type Option func(*Service)

// WithMissingProductPolicy decides what AddToCart does with unknown products.
func WithMissingProductPolicy(policy catalogdomain.MissingProductPolicy) Option {
	return func(s *Service) {
		if policy != "" {
			s.policy = policy
		}
	}
}

func NewService(users usersports.Repository, products catalogports.Repository, opts ...Option) *Service {
	s := &Service{users: users, products: products, policy: catalogdomain.MissingProductNotFound}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Resolve populates every cart item in one batched lookup. It never writes.
func (s *Service) Resolve(ctx context.Context, user *usersdomain.User) (*cartdomain.ResolvedCart, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	found, err := s.products.FindByIDs(ctx, user.ProductIDs())
	if err != nil {
		return nil, fmt.Errorf("populate cart: %w", err)
	}
	resolved := &cartdomain.ResolvedCart{UserID: user.ID, Lines: make([]cartdomain.Line, 0, len(user.Cart.Items))}
	for _, item := range user.Cart.Items {
		product, ok := found[item.ProductID]
		if !ok {
			resolved.Dangling = append(resolved.Dangling, item.ProductID)
			continue
		}
		resolved.Lines = append(resolved.Lines, cartdomain.Line{Product: product, Quantity: item.Quantity})
	}
	return resolved, nil
}

// Prune drops dangling references and persists the user when anything changed.
func (s *Service) Prune(ctx context.Context, user *usersdomain.User, dangling []string) (*usersdomain.User, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	next := user.Clone()
	if next.DropProducts(dangling) == 0 {
		return next, nil
	}
	return s.save(ctx, next)
}

// AddToCart increments or appends the product line. Unknown products follow
// the missing product policy.
func (s *Service) AddToCart(ctx context.Context, user *usersdomain.User, productID string) (*usersdomain.User, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	productID = strings.TrimSpace(productID)
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		if errors.Is(err, catalogports.ErrNotFound) && s.policy == catalogdomain.MissingProductIgnore {
			return user.Clone(), nil
		}
		return nil, mapError(err)
	}
	next := user.Clone()
	if err := next.AddProduct(product.ID); err != nil {
		return nil, err
	}
	return s.save(ctx, next)
}

// RemoveFromCart filters the product line out and persists the user.
func (s *Service) RemoveFromCart(ctx context.Context, user *usersdomain.User, productID string) (*usersdomain.User, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	next := user.Clone()
	next.RemoveProduct(strings.TrimSpace(productID))
	return s.save(ctx, next)
}

// ClearCart empties the stored cart of userID.
func (s *Service) ClearCart(ctx context.Context, userID string) error {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return mapError(err)
	}
	user.ClearCart()
	_, err = s.save(ctx, user)
	return err
}

func (s *Service) save(ctx context.Context, user *usersdomain.User) (*usersdomain.User, error) {
	saved, err := s.users.Save(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("save cart: %w", mapError(err))
	}
	return saved, nil
}

var _ ports.Service = (*Service)(nil)
