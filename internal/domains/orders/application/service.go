package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// Service places orders from the buyer's cart and lists order history.
type Service struct {
	orders  ports.Repository
	carts   ports.CartReader
	clearer ports.CartClearer
	clock   func() time.Time
	newID   func() string
	logger  *slog.Logger
	// acceptEmpty stores an order for an empty cart instead of rejecting it.
	acceptEmpty bool
}

type Option func(*Service)

func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		if newID != nil {
			s.newID = newID
		}
	}
}

// WithEmptyOrders makes PlaceOrder store an order without lines when the cart
// is empty.
func WithEmptyOrders() Option {
	return func(s *Service) {
		s.acceptEmpty = true
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(orders ports.Repository, carts ports.CartReader, clearer ports.CartClearer, opts ...Option) *Service {
	s := &Service{
		orders:  orders,
		carts:   carts,
		clearer: clearer,
		clock:   time.Now,
		newID:   uuid.NewString,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// PlaceOrder freezes the resolved cart into a new order, stores it and then
// clears the cart. A cart that cannot be cleared does not fail the order; the
// clearer leaves a reconciliation record behind instead.
func (s *Service) PlaceOrder(ctx context.Context, user *usersdomain.User) (*domain.Order, error) {
	if user == nil {
		return nil, ErrNilUser
	}
	resolved, err := s.carts.Resolve(ctx, user)
	if err != nil {
		return nil, fmt.Errorf("resolve cart: %w", err)
	}
	if resolved.IsEmpty() && !s.acceptEmpty {
		return nil, ErrEmptyCart
	}
	lines := make([]domain.Line, 0, len(resolved.Lines))
	for _, line := range resolved.Lines {
		p := line.Product
		lines = append(lines, domain.Line{
			Quantity: line.Quantity,
			Product: domain.ProductSnapshot{
				ID:          p.ID,
				Title:       p.Title,
				Price:       p.Price,
				Description: p.Description,
				ImageURL:    p.ImageURL,
			},
		})
	}
	order, err := domain.NewOrder(s.newID(), domain.UserSnapshot{UserID: user.ID, Email: user.Email}, lines, s.clock())
	if err != nil {
		return nil, err
	}
	saved, err := s.orders.Create(ctx, order)
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}
	if err := s.clearer.ClearCart(ctx, ports.ClearCartRequest{OrderID: saved.ID, UserID: user.ID}); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order placed but cart not cleared",
			slog.String("order.id", saved.ID), slog.String("user.id", user.ID), slog.String("error", err.Error()))
	}
	return saved, nil
}

// ListOrders returns the user's orders most recent first.
func (s *Service) ListOrders(ctx context.Context, userID string) ([]*domain.Order, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, ErrNilUser
	}
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", mapError(err))
	}
	domain.SortNewestFirst(orders)
	return orders, nil
}

var _ ports.Service = (*Service)(nil)
