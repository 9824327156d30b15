package ports

import (
	"context"
	"time"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// ClearCartRequest identifies the cart to empty after an order was stored.
type ClearCartRequest struct {
	OrderID string
	UserID  string
}

// CartClearer empties the buyer's cart once the order exists. Implementations
// own their retry policy and must leave a Reconciliation behind when they give up.
type CartClearer interface {
	ClearCart(ctx context.Context, req ClearCartRequest) error
}

// CartEmptier is the single cart operation the orders context depends on.
type CartEmptier interface {
	ClearCart(ctx context.Context, userID string) error
}

type ReconciliationStatus string

const (
	ReconciliationPending  ReconciliationStatus = "pending"
	ReconciliationResolved ReconciliationStatus = "resolved"
)

// Reconciliation records a cart that could not be cleared after its order was placed.
type Reconciliation struct {
	OrderID   string
	UserID    string
	Attempts  int
	LastError string
	Status    ReconciliationStatus
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ReconciliationStore keeps the manual reconciliation backlog.
type ReconciliationStore interface {
	Record(ctx context.Context, rec Reconciliation) error
	ListPending(ctx context.Context, limit int) ([]Reconciliation, error)
	MarkResolved(ctx context.Context, orderID string) error
	MarkFailed(ctx context.Context, orderID string, cause string) error
}

// CartReader resolves the buyer's cart into priced lines.
type CartReader interface {
	Resolve(ctx context.Context, user *usersdomain.User) (*cartdomain.ResolvedCart, error)
}
