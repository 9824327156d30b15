package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	orderactivities "github.com/Apurer/go-gin-storefront/internal/durable/temporal/activities/orders"
	orderworkflows "github.com/Apurer/go-gin-storefront/internal/durable/temporal/workflows/orders"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
)

func main() {
	ctx := context.Background()
	const serviceName = "storefront-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := api.LoadConfig()
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	if cfg.Backend == api.BackendMemory {
		logger.Error("worker needs a shared store, set POSTGRES_DSN or MONGO_URI")
		os.Exit(1)
	}
	stores, cleanupStores, err := api.OpenStores(ctx, cfg, logger)
	defer cleanupStores()
	if err != nil {
		logger.Error("failed to open stores", slog.String("error", err.Error()))
		return
	}
	carts := cartapp.NewService(stores.Users, stores.Products)
	activities := orderactivities.NewActivities(carts, stores.Reconciliations)

	temporalClient, err := api.DialTemporal(cfg, instruments, "temporal-worker")
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		return
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.CartClearTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.CartClearWorkflow, workflow.RegisterOptions{Name: orderworkflows.CartClearWorkflowName})
	w.RegisterActivityWithOptions(activities.ClearCart, activity.RegisterOptions{Name: orderactivities.ClearCartActivityName})
	w.RegisterActivityWithOptions(activities.RecordReconciliation, activity.RegisterOptions{Name: orderactivities.RecordReconciliationActivityName})

	logger.Info("worker listening", slog.String("taskQueue", orderworkflows.CartClearTaskQueue), slog.String("namespace", cfg.TemporalNamespace))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
