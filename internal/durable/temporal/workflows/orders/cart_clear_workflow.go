package orders

import (
	"fmt"

	"go.temporal.io/sdk/workflow"

	orderactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/orders"
	"github.com/Apurer/go-gin-storefront/internal/durable/temporal/sequences"
)

const (
	// CartClearWorkflowName is the public identifier for registering the workflow.
	CartClearWorkflowName = "orders.workflows.CartClear"
	// CartClearTaskQueue is the queue consumed by the worker processing cart clears.
	CartClearTaskQueue = "CART_CLEAR"
)

// CartClearWorkflowInput carries the cart to clear and the retry policy.
type CartClearWorkflowInput struct {
	OrderID string
	UserID  string
	Policy  sequences.CartClearPolicy
	TraceID string
}

// CartClearWorkflowID is deterministic per order so a second start is rejected.
func CartClearWorkflowID(orderID string) string {
	return fmt.Sprintf("cart-clear-%s", orderID)
}

// CartClearWorkflow clears the cart of a freshly placed order.
func CartClearWorkflow(ctx workflow.Context, input CartClearWorkflowInput) (sequences.CartClearOutcome, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("CartClearWorkflow started", withTraceID(input.TraceID, "orderId", input.OrderID)...)
	outcome, err := sequences.RunCartClearSequence(ctx, orderactivities.ClearCartInput{OrderID: input.OrderID, UserID: input.UserID}, input.Policy)
	if err != nil {
		logger.Error("CartClearWorkflow failed", withTraceID(input.TraceID, "orderId", input.OrderID, "error", err)...)
		return outcome, err
	}
	logger.Info("CartClearWorkflow completed", withTraceID(input.TraceID, "orderId", input.OrderID, "cleared", outcome.Cleared)...)
	return outcome, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
