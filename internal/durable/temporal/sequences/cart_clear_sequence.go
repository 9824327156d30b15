package sequences

import (
	"errors"
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/orders"
)

// CartClearPolicy shapes the retries of the clear step.
type CartClearPolicy struct {
	MaxAttempts     int
	InitialInterval time.Duration
}

func (p CartClearPolicy) withDefaults() CartClearPolicy {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 3
	}
	if p.InitialInterval <= 0 {
		p.InitialInterval = 100 * time.Millisecond
	}
	return p
}

// CartClearOutcome reports whether the cart ended up empty.
type CartClearOutcome struct {
	Cleared    bool
	Reconciled bool
}

// RunCartClearSequence clears the cart with retries and, once they are
// exhausted, records a reconciliation instead of failing.
func RunCartClearSequence(ctx workflow.Context, input orderactivities.ClearCartInput, policy CartClearPolicy) (CartClearOutcome, error) {
	logger := workflow.GetLogger(ctx)
	policy = policy.withDefaults()
	clearOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    policy.InitialInterval,
			BackoffCoefficient: 2.0,
			MaximumInterval:    10 * time.Second,
			MaximumAttempts:    int32(policy.MaxAttempts),
		},
	}
	recordOptions := workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			InitialInterval:    time.Second,
			BackoffCoefficient: 2.0,
			MaximumInterval:    time.Minute,
			MaximumAttempts:    10,
		},
	}

	logger.Info("cart clear sequence started", "orderId", input.OrderID)
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, clearOptions), orderactivities.ClearCartActivityName, input).Get(ctx, nil)
	if err == nil {
		logger.Info("cart clear sequence completed", "orderId", input.OrderID)
		return CartClearOutcome{Cleared: true}, nil
	}

	var appErr *temporal.ApplicationError
	if errors.As(err, &appErr) && appErr.Type() == "UserNotFound" {
		logger.Warn("cart clear sequence skipped missing user", "orderId", input.OrderID)
		return CartClearOutcome{}, nil
	}

	logger.Error("cart clear sequence exhausted retries", "orderId", input.OrderID, "error", err)
	record := orderactivities.RecordReconciliationInput{
		OrderID:   input.OrderID,
		UserID:    input.UserID,
		Attempts:  policy.MaxAttempts,
		LastError: err.Error(),
	}
	if err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, recordOptions), orderactivities.RecordReconciliationActivityName, record).Get(ctx, nil); err != nil {
		logger.Error("cart clear sequence failed to record reconciliation", "orderId", input.OrderID, "error", err)
		return CartClearOutcome{}, err
	}
	return CartClearOutcome{Reconciled: true}, nil
}
