package orders

import (
	"context"
	"errors"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

const (
	// ClearCartActivityName empties the cart of a buyer whose order was stored.
	ClearCartActivityName = "orders.activities.ClearCart"
	// RecordReconciliationActivityName stores a cart that could not be cleared.
	RecordReconciliationActivityName = "orders.activities.RecordReconciliation"
)

// ClearCartInput is the activity payload for cart clearing.
type ClearCartInput struct {
	OrderID string
	UserID  string
}

// RecordReconciliationInput is the activity payload for the fallback step.
type RecordReconciliationInput struct {
	OrderID   string
	UserID    string
	Attempts  int
	LastError string
}

// Activities groups the activities that operate on the orders bounded context.
type Activities struct {
	carts ordersports.CartEmptier
	store ordersports.ReconciliationStore
}

func NewActivities(carts ordersports.CartEmptier, store ordersports.ReconciliationStore) *Activities {
	return &Activities{carts: carts, store: store}
}

// ClearCart empties the buyer's cart. A missing user is not retried.
func (a *Activities) ClearCart(ctx context.Context, input ClearCartInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.carts == nil {
		logger.Error("cart clear activity not initialized", "orderId", input.OrderID)
		return errors.New("cart clear activity not initialized")
	}
	logger.Info("ClearCart activity started", "orderId", input.OrderID, "userId", input.UserID)
	if err := a.carts.ClearCart(ctx, input.UserID); err != nil {
		if errors.Is(err, usersports.ErrNotFound) {
			logger.Warn("ClearCart found no user; nothing to clear", "orderId", input.OrderID, "userId", input.UserID)
			return temporal.NewNonRetryableApplicationError(err.Error(), "UserNotFound", err)
		}
		logger.Error("ClearCart activity failed", "orderId", input.OrderID, "error", err)
		return err
	}
	logger.Info("ClearCart activity completed", "orderId", input.OrderID)
	return nil
}

// RecordReconciliation stores the failed clear for the reconciler job.
func (a *Activities) RecordReconciliation(ctx context.Context, input RecordReconciliationInput) error {
	logger := activity.GetLogger(ctx)
	if a == nil || a.store == nil {
		logger.Error("reconciliation activity not initialized", "orderId", input.OrderID)
		return errors.New("reconciliation activity not initialized")
	}
	now := time.Now().UTC()
	err := a.store.Record(ctx, ordersports.Reconciliation{
		OrderID:   input.OrderID,
		UserID:    input.UserID,
		Attempts:  input.Attempts,
		LastError: input.LastError,
		Status:    ordersports.ReconciliationPending,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		logger.Error("RecordReconciliation activity failed", "orderId", input.OrderID, "error", err)
		return err
	}
	logger.Error("cart clear exhausted retries; manual reconciliation required", "orderId", input.OrderID, "userId", input.UserID)
	return nil
}
