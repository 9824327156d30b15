package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

const (
	DefaultCartClearAttempts       = 3
	DefaultCartClearInitialBackoff = 100 * time.Millisecond
)

// RetryingCartClearer clears carts inline with exponential backoff. When the
// last attempt fails it records a reconciliation and logs for manual follow-up.
type RetryingCartClearer struct {
	carts          ports.CartEmptier
	store          ports.ReconciliationStore
	maxAttempts    int
	initialBackoff time.Duration
	clock          func() time.Time
	logger         *slog.Logger
}

type ClearerOption func(*RetryingCartClearer)

func WithMaxAttempts(n int) ClearerOption {
	return func(c *RetryingCartClearer) {
		if n > 0 {
			c.maxAttempts = n
		}
	}
}

func WithInitialBackoff(d time.Duration) ClearerOption {
	return func(c *RetryingCartClearer) {
		if d > 0 {
			c.initialBackoff = d
		}
	}
}

func WithClearerLogger(logger *slog.Logger) ClearerOption {
	return func(c *RetryingCartClearer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

func WithClearerClock(clock func() time.Time) ClearerOption {
	return func(c *RetryingCartClearer) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func NewRetryingCartClearer(carts ports.CartEmptier, store ports.ReconciliationStore, opts ...ClearerOption) *RetryingCartClearer {
	c := &RetryingCartClearer{
		carts:          carts,
		store:          store,
		maxAttempts:    DefaultCartClearAttempts,
		initialBackoff: DefaultCartClearInitialBackoff,
		clock:          time.Now,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *RetryingCartClearer) ClearCart(ctx context.Context, req ports.ClearCartRequest) error {
	policy := backoff.NewExponentialBackOff()
	policy.InitialInterval = c.initialBackoff
	policy.MaxElapsedTime = 0

	attempts := 0
	operation := func() error {
		attempts++
		return c.carts.ClearCart(ctx, req.UserID)
	}
	notify := func(err error, wait time.Duration) {
		c.logger.LogAttrs(ctx, slog.LevelWarn, "cart clear attempt failed",
			slog.String("order.id", req.OrderID), slog.String("user.id", req.UserID),
			slog.Int("attempt", attempts), slog.Duration("retry_in", wait), slog.String("error", err.Error()))
	}
	err := backoff.RetryNotify(operation, backoff.WithContext(backoff.WithMaxRetries(policy, uint64(c.maxAttempts-1)), ctx), notify)
	if err == nil {
		return nil
	}

	now := c.clock().UTC()
	rec := ports.Reconciliation{
		OrderID:   req.OrderID,
		UserID:    req.UserID,
		Attempts:  attempts,
		LastError: err.Error(),
		Status:    ports.ReconciliationPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	// Record even when the request context is already done.
	recordErr := c.store.Record(context.WithoutCancel(ctx), rec)
	c.logger.LogAttrs(ctx, slog.LevelError, "cart clear exhausted retries; manual reconciliation required",
		slog.String("order.id", req.OrderID), slog.String("user.id", req.UserID),
		slog.Int("attempts", attempts), slog.String("error", err.Error()),
		slog.Bool("reconciliation.recorded", recordErr == nil))
	if recordErr != nil {
		return errors.Join(fmt.Errorf("%w: %w", ErrCartClearFailed, err), fmt.Errorf("record reconciliation: %w", recordErr))
	}
	return fmt.Errorf("%w: %w", ErrCartClearFailed, err)
}

var _ ports.CartClearer = (*RetryingCartClearer)(nil)
