package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	storefrontserver "github.com/Apurer/go-gin-storefront/go"
	"github.com/Apurer/go-gin-storefront/internal/clients/http/payments"
	cartobs "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/observability"
	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	catalogobs "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/adapters/filesystem"
	invoicesobs "github.com/Apurer/go-gin-storefront/internal/domains/invoices/adapters/observability"
	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/adapters/pdf"
	invoicesapp "github.com/Apurer/go-gin-storefront/internal/domains/invoices/application"
	ordersobs "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/observability"
	ordersworkflows "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/workflows"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	"github.com/Apurer/go-gin-storefront/internal/durable/temporal/sequences"
	"github.com/Apurer/go-gin-storefront/internal/platform/httpmetrics"
	platformobservability "github.com/Apurer/go-gin-storefront/internal/platform/observability"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

const serviceName = "storefront-api"

// Run boots the storefront with observability, repositories, and durable cart clearing wired.
func Run(ctx context.Context) error {
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		return fmt.Errorf("failed to initialize observability: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg, err := LoadConfig()
	if err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	stores, cleanupStores, err := OpenStores(ctx, cfg, logger)
	defer cleanupStores()
	if err != nil {
		return err
	}
	if cfg.SeedDemoData {
		if err := SeedDemoData(ctx, stores); err != nil {
			return fmt.Errorf("failed to seed demo data: %w", err)
		}
		logger.Info("demo data seeded", slog.String("user.id", DemoUserID))
	}

	router, cleanupRouter, err := NewRouter(cfg, stores, instruments)
	defer cleanupRouter()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		logger.Info("storefront listening", slog.String("addr", server.Addr), slog.String("backend", string(stores.Backend)))
		errCh <- server.ListenAndServe()
	}()
	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		logger.Error("storefront server exited", slog.String("addr", server.Addr), slog.String("error", err.Error()))
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.Info("storefront shutting down")
	return server.Shutdown(shutdownCtx)
}

// NewRouter wires every bounded context on stores. The cleanup closes the
// Temporal client when one was dialed.
func NewRouter(cfg Config, stores *Stores, instruments *platformobservability.Instruments) (*gin.Engine, func(), error) {
	logger := effectiveLogger(instruments)
	cleanup := func() {}

	catalog := catalogobs.New(
		catalogapp.NewService(stores.Products, catalogapp.WithPageSize(cfg.ProductsPerPage)),
		catalogobs.WithLogger(logger),
		catalogobs.WithTracer(instruments.Tracer("internal.catalog.application")),
		catalogobs.WithMeter(instruments.Meter("internal.catalog.application")),
	)
	carts := cartobs.New(
		cartapp.NewService(stores.Users, stores.Products, cartapp.WithMissingProductPolicy(cfg.MissingProductPolicy)),
		cartobs.WithLogger(logger),
		cartobs.WithTracer(instruments.Tracer("internal.cart.application")),
		cartobs.WithMeter(instruments.Meter("internal.cart.application")),
	)

	var clearer ordersports.CartClearer = ordersapp.NewRetryingCartClearer(carts, stores.Reconciliations,
		ordersapp.WithMaxAttempts(cfg.CartClearMaxAttempts),
		ordersapp.WithInitialBackoff(cfg.CartClearInitialBackoff),
		ordersapp.WithClearerLogger(logger),
	)
	if stores.Backend == BackendMemory {
		logger.Info("memory backend is process local, clearing carts inline")
	} else if temporalClient, err := DialTemporal(cfg, instruments, "temporal-client"); err != nil {
		logger.Warn("Temporal workflows unavailable, clearing carts inline", slog.String("error", err.Error()))
	} else {
		cleanup = temporalClient.Close
		policy := sequences.CartClearPolicy{MaxAttempts: cfg.CartClearMaxAttempts, InitialInterval: cfg.CartClearInitialBackoff}
		clearer = ordersworkflows.NewTemporalCartClearer(temporalClient, policy, clearer, logger)
		logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	}

	orderOpts := []ordersapp.Option{ordersapp.WithLogger(logger)}
	if cfg.ErrorMode == apierrors.ModeLegacy {
		orderOpts = append(orderOpts, ordersapp.WithEmptyOrders())
	}
	orders := ordersobs.New(
		ordersapp.NewService(stores.Orders, carts, clearer, orderOpts...),
		ordersobs.WithLogger(logger),
		ordersobs.WithTracer(instruments.Tracer("internal.orders.application")),
		ordersobs.WithMeter(instruments.Meter("internal.orders.application")),
	)
	invoices := invoicesobs.New(
		invoicesapp.NewService(stores.Orders, pdf.NewRenderer(), filesystem.NewArchiveStore(cfg.InvoiceDir)),
		invoicesobs.WithLogger(logger),
		invoicesobs.WithTracer(instruments.Tracer("internal.invoices.application")),
		invoicesobs.WithMeter(instruments.Meter("internal.invoices.application")),
	)

	paymentsClient := payments.New(cfg.PaymentsAPIKey)
	logger.Info("payment client built", slog.Bool("configured", paymentsClient.Configured()))

	metrics := httpmetrics.New()
	handlers := storefrontserver.ApiHandleFunctions{
		ShopAPI:  storefrontserver.NewShopAPI(catalog, cfg.MissingProductPolicy),
		CartAPI:  storefrontserver.NewCartAPI(carts),
		OrderAPI: storefrontserver.NewOrderAPI(orders, invoices, logger),
	}
	router, err := storefrontserver.NewRouter(handlers,
		otelgin.Middleware(serviceName),
		metrics.Middleware(),
		storefrontserver.ErrorHandler(storefrontserver.NewResponder(cfg.ErrorMode), logger),
		storefrontserver.CurrentUser(stores.Users),
	)
	if err != nil {
		return nil, cleanup, fmt.Errorf("failed to build router: %w", err)
	}
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
	return router, cleanup, nil
}
