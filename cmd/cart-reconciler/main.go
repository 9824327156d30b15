package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/Apurer/go-gin-storefront/internal/app/api"
	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
)

// cart-reconciler replays cart clears that failed after an order was placed.
// Run it on a schedule.
func main() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	cfg, err := api.LoadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if cfg.Backend == api.BackendMemory {
		log.Fatal("POSTGRES_DSN or MONGO_URI not set; nothing to reconcile")
	}
	stores, cleanup, err := api.OpenStores(ctx, cfg, logger)
	defer cleanup()
	if err != nil {
		log.Fatalf("failed to open stores: %v", err)
	}

	carts := cartapp.NewService(stores.Users, stores.Products)
	reconciler := ordersapp.NewReconciler(stores.Reconciliations, carts, logger)
	result, err := reconciler.Run(ctx, cfg.ReconcileBatchSize)
	if err != nil {
		log.Fatalf("failed to reconcile carts: %v", err)
	}
	logger.Info("cart reconciliation completed",
		slog.Int("scanned", result.Scanned),
		slog.Int("resolved", result.Resolved),
		slog.Int("failed", result.Failed),
	)
}
