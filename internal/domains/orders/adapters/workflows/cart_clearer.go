package workflows

import (
	"context"
	"errors"
	"log/slog"

	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/durable/temporal/sequences"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/durable/temporal/workflows/orders"
)

var _ ports.CartClearer = (*TemporalCartClearer)(nil)

// WorkflowStarter is the slice of the Temporal client the clearer needs.
type WorkflowStarter interface {
	ExecuteWorkflow(ctx context.Context, options client.StartWorkflowOptions, workflow interface{}, args ...interface{}) (client.WorkflowRun, error)
}

// TemporalCartClearer hands cart clearing to a durable workflow. The request
// returns once the workflow is started; Temporal owns the retries from there.
// When the cluster rejects the start the fallback clearer runs inline.
type TemporalCartClearer struct {
	client    WorkflowStarter
	taskQueue string
	policy    sequences.CartClearPolicy
	fallback  ports.CartClearer
	logger    *slog.Logger
}

func NewTemporalCartClearer(c WorkflowStarter, policy sequences.CartClearPolicy, fallback ports.CartClearer, logger *slog.Logger) *TemporalCartClearer {
	if logger == nil {
		logger = slog.Default()
	}
	return &TemporalCartClearer{
		client:    c,
		taskQueue: orderworkflows.CartClearTaskQueue,
		policy:    policy,
		fallback:  fallback,
		logger:    logger,
	}
}

func (t *TemporalCartClearer) ClearCart(ctx context.Context, req ports.ClearCartRequest) error {
	if t == nil || t.client == nil {
		return errors.New("temporal cart clearer not configured")
	}
	options := client.StartWorkflowOptions{
		ID:        orderworkflows.CartClearWorkflowID(req.OrderID),
		TaskQueue: t.taskQueue,
	}
	input := orderworkflows.CartClearWorkflowInput{
		OrderID: req.OrderID,
		UserID:  req.UserID,
		Policy:  t.policy,
		TraceID: traceID(ctx),
	}
	run, err := t.client.ExecuteWorkflow(ctx, options, orderworkflows.CartClearWorkflowName, input)
	if err == nil {
		t.logger.LogAttrs(ctx, slog.LevelInfo, "cart clear workflow started",
			slog.String("order.id", req.OrderID), slog.String("workflow.run_id", run.GetRunID()))
		return nil
	}
	var alreadyStarted *serviceerror.WorkflowExecutionAlreadyStarted
	if errors.As(err, &alreadyStarted) {
		return nil
	}
	t.logger.LogAttrs(ctx, slog.LevelWarn, "cart clear workflow not started, clearing inline",
		slog.String("order.id", req.OrderID), slog.String("error", err.Error()))
	if t.fallback == nil {
		return err
	}
	return t.fallback.ClearCart(ctx, req)
}

func traceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanFromContext(ctx).SpanContext()
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
