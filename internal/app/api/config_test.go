package api

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"PORT", "STORE_BACKEND", "POSTGRES_DSN", "MONGO_URI", "MONGO_DATABASE",
		"TEMPORAL_ADDRESS", "TEMPORAL_NAMESPACE", "TEMPORAL_DISABLED",
		"PRODUCTS_PER_PAGE", "INVOICE_DIR", "ERROR_MODE", "MISSING_PRODUCT_POLICY",
		"CART_CLEAR_MAX_ATTEMPTS", "CART_CLEAR_INITIAL_BACKOFF", "RECONCILE_BATCH_SIZE",
		"PAYMENTS_API_KEY", "SEED_DEMO_DATA",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, BackendMemory, cfg.Backend)
	require.Equal(t, "shop", cfg.MongoDatabase)
	require.Equal(t, 2, cfg.ProductsPerPage)
	require.Equal(t, "data/invoices", cfg.InvoiceDir)
	require.Equal(t, apierrors.ModeStrict, cfg.ErrorMode)
	require.Equal(t, catalogdomain.MissingProductNotFound, cfg.MissingProductPolicy)
	require.Equal(t, 3, cfg.CartClearMaxAttempts)
	require.Equal(t, 100*time.Millisecond, cfg.CartClearInitialBackoff)
	require.Equal(t, 50, cfg.ReconcileBatchSize)
	require.True(t, cfg.SeedDemoData)
	require.False(t, cfg.TemporalDisabled)
}

func TestLoadConfig_Overrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POSTGRES_DSN", "postgres://localhost/shop")
	t.Setenv("PRODUCTS_PER_PAGE", "10")
	t.Setenv("ERROR_MODE", "legacy")
	t.Setenv("MISSING_PRODUCT_POLICY", "ignore")
	t.Setenv("CART_CLEAR_INITIAL_BACKOFF", "250ms")
	t.Setenv("TEMPORAL_DISABLED", "yes")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendPostgres, cfg.Backend)
	require.Equal(t, 10, cfg.ProductsPerPage)
	require.Equal(t, apierrors.ModeLegacy, cfg.ErrorMode)
	require.Equal(t, catalogdomain.MissingProductIgnore, cfg.MissingProductPolicy)
	require.Equal(t, 250*time.Millisecond, cfg.CartClearInitialBackoff)
	require.True(t, cfg.TemporalDisabled)
	require.False(t, cfg.SeedDemoData)
}

func TestLoadConfig_BackendSelection(t *testing.T) {
	clearEnv(t)
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendMongo, cfg.Backend)

	t.Setenv("STORE_BACKEND", "memory")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Backend)

	t.Setenv("STORE_BACKEND", "postgres")
	_, err = LoadConfig()
	require.ErrorContains(t, err, "POSTGRES_DSN")
}

func TestLoadConfig_RejectsInvalidValues(t *testing.T) {
	for key, value := range map[string]string{
		"PRODUCTS_PER_PAGE":          "0",
		"CART_CLEAR_MAX_ATTEMPTS":    "many",
		"CART_CLEAR_INITIAL_BACKOFF": "-1s",
		"RECONCILE_BATCH_SIZE":       "-5",
		"ERROR_MODE":                 "verbose",
		"MISSING_PRODUCT_POLICY":     "explode",
		"STORE_BACKEND":              "sqlite",
	} {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, value)
			_, err := LoadConfig()
			require.Error(t, err)
		})
	}
}
