package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

const DefaultReconcileBatch = 50

// ReconcileResult summarises one reconciler pass.
type ReconcileResult struct {
	Scanned  int
	Resolved int
	Failed   int
}

// Reconciler replays cart clears that exhausted their retries.
type Reconciler struct {
	store  ports.ReconciliationStore
	carts  ports.CartEmptier
	logger *slog.Logger
}

func NewReconciler(store ports.ReconciliationStore, carts ports.CartEmptier, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconciler{store: store, carts: carts, logger: logger}
}

// Run processes up to batch pending records. A vanished user counts as
// resolved since there is no cart left to clear.
func (r *Reconciler) Run(ctx context.Context, batch int) (ReconcileResult, error) {
	if batch <= 0 {
		batch = DefaultReconcileBatch
	}
	pending, err := r.store.ListPending(ctx, batch)
	if err != nil {
		return ReconcileResult{}, fmt.Errorf("list pending reconciliations: %w", err)
	}
	result := ReconcileResult{Scanned: len(pending)}
	for _, rec := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		clearErr := r.carts.ClearCart(ctx, rec.UserID)
		if clearErr == nil || errors.Is(clearErr, usersports.ErrNotFound) {
			if err := r.store.MarkResolved(ctx, rec.OrderID); err != nil {
				return result, fmt.Errorf("mark reconciliation %s resolved: %w", rec.OrderID, err)
			}
			result.Resolved++
			r.logger.LogAttrs(ctx, slog.LevelInfo, "cart reconciled",
				slog.String("order.id", rec.OrderID), slog.String("user.id", rec.UserID))
			continue
		}
		if err := r.store.MarkFailed(ctx, rec.OrderID, clearErr.Error()); err != nil {
			return result, fmt.Errorf("mark reconciliation %s failed: %w", rec.OrderID, err)
		}
		result.Failed++
		r.logger.LogAttrs(ctx, slog.LevelWarn, "cart reconciliation attempt failed",
			slog.String("order.id", rec.OrderID), slog.String("user.id", rec.UserID),
			slog.Int("attempts", rec.Attempts+1), slog.String("error", clearErr.Error()))
	}
	return result, nil
}
