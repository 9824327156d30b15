package api

import (
	"context"
	"fmt"
	"log/slog"

	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogmongo "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/persistence/mongo"
	catalogpostgres "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/persistence/postgres"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordersmongo "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/persistence/mongo"
	orderspostgres "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/persistence/postgres"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
	usersmemory "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/memory"
	usersmongo "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/persistence/mongo"
	userspostgres "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/persistence/postgres"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/migrations"
	platformmongo "github.com/Apurer/go-gin-storefront/internal/platform/mongo"
	platformpostgres "github.com/Apurer/go-gin-storefront/internal/platform/postgres"
)

// Stores bundles the repositories of every bounded context on one backend.
type Stores struct {
	Backend         Backend
	Products        catalogports.Repository
	Users           usersports.Repository
	Orders          ordersports.Repository
	Reconciliations ordersports.ReconciliationStore
}

// OpenStores connects the configured backend. The returned cleanup releases
// the connection and is safe to call on error.
func OpenStores(ctx context.Context, cfg Config, logger *slog.Logger) (*Stores, func(), error) {
	switch cfg.Backend {
	case BackendPostgres:
		db, cleanup, err := platformpostgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, cleanup, fmt.Errorf("connect postgres: %w", err)
		}
		if err := migrations.Run(db); err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("migrate postgres: %w", err)
		}
		logger.Info("repositories configured with postgres")
		return &Stores{
			Backend:         BackendPostgres,
			Products:        catalogpostgres.NewRepository(db),
			Users:           userspostgres.NewRepository(db),
			Orders:          orderspostgres.NewRepository(db),
			Reconciliations: orderspostgres.NewReconciliationStore(db),
		}, cleanup, nil
	case BackendMongo:
		db, cleanup, err := platformmongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, cleanup, err
		}
		products := catalogmongo.NewRepository(db)
		orders := ordersmongo.NewRepository(db)
		if err := products.CreateIndexes(ctx); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		if err := orders.CreateIndexes(ctx); err != nil {
			cleanup()
			return nil, func() {}, err
		}
		logger.Info("repositories configured with mongo", slog.String("database", cfg.MongoDatabase))
		return &Stores{
			Backend:         BackendMongo,
			Products:        products,
			Users:           usersmongo.NewRepository(db),
			Orders:          orders,
			Reconciliations: ordersmongo.NewReconciliationStore(db),
		}, cleanup, nil
	default:
		logger.Warn("no database configured, using in-memory repositories")
		return NewMemoryStores(), func() {}, nil
	}
}

// NewMemoryStores returns process-local repositories.
func NewMemoryStores() *Stores {
	return &Stores{
		Backend:         BackendMemory,
		Products:        catalogmemory.NewRepository(),
		Users:           usersmemory.NewRepository(),
		Orders:          ordersmemory.NewRepository(),
		Reconciliations: ordersmemory.NewReconciliationStore(),
	}
}
