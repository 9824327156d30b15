package workflows

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/durable/temporal/sequences"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/durable/temporal/workflows/orders"
)

type fakeRun struct{ client.WorkflowRun }

func (fakeRun) GetRunID() string { return "run-1" }

type fakeStarter struct {
	err     error
	options client.StartWorkflowOptions
	args    []interface{}
}

func (f *fakeStarter) ExecuteWorkflow(_ context.Context, options client.StartWorkflowOptions, _ interface{}, args ...interface{}) (client.WorkflowRun, error) {
	f.options = options
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	return fakeRun{}, nil
}

type recordingClearer struct{ calls int }

func (r *recordingClearer) ClearCart(context.Context, ports.ClearCartRequest) error {
	r.calls++
	return nil
}

func TestTemporalCartClearer_StartsWorkflow(t *testing.T) {
	starter := &fakeStarter{}
	fallback := &recordingClearer{}
	clearer := NewTemporalCartClearer(starter, sequences.CartClearPolicy{MaxAttempts: 4}, fallback, nil)

	err := clearer.ClearCart(context.Background(), ports.ClearCartRequest{OrderID: "o1", UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, "cart-clear-o1", starter.options.ID)
	require.Equal(t, orderworkflows.CartClearTaskQueue, starter.options.TaskQueue)
	require.Len(t, starter.args, 1)
	input := starter.args[0].(orderworkflows.CartClearWorkflowInput)
	require.Equal(t, 4, input.Policy.MaxAttempts)
	require.Zero(t, fallback.calls)
}

func TestTemporalCartClearer_AlreadyStartedIsSuccess(t *testing.T) {
	starter := &fakeStarter{err: serviceerror.NewWorkflowExecutionAlreadyStarted("exists", "", "run-0")}
	fallback := &recordingClearer{}

	err := NewTemporalCartClearer(starter, sequences.CartClearPolicy{}, fallback, nil).
		ClearCart(context.Background(), ports.ClearCartRequest{OrderID: "o1", UserID: "u1"})
	require.NoError(t, err)
	require.Zero(t, fallback.calls)
}

func TestTemporalCartClearer_FallsBackInline(t *testing.T) {
	starter := &fakeStarter{err: errors.New("connection refused")}
	fallback := &recordingClearer{}

	err := NewTemporalCartClearer(starter, sequences.CartClearPolicy{}, fallback, nil).
		ClearCart(context.Background(), ports.ClearCartRequest{OrderID: "o1", UserID: "u1"})
	require.NoError(t, err)
	require.Equal(t, 1, fallback.calls)

	err = NewTemporalCartClearer(starter, sequences.CartClearPolicy{}, nil, nil).
		ClearCart(context.Background(), ports.ClearCartRequest{OrderID: "o1", UserID: "u1"})
	require.Error(t, err)
}
