package api

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.temporal.io/sdk/client"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// Backend names the persistence engine behind every repository.
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendPostgres Backend = "postgres"
	BackendMongo    Backend = "mongo"
)

// Config carries environment-driven settings for the storefront processes.
type Config struct {
	Port              string
	Backend           Backend
	PostgresDSN       string
	MongoURI          string
	MongoDatabase     string
	TemporalAddress   string
	TemporalNamespace string
	TemporalDisabled  bool

	ProductsPerPage      int
	InvoiceDir           string
	ErrorMode            apierrors.Mode
	MissingProductPolicy catalogdomain.MissingProductPolicy

	CartClearMaxAttempts    int
	CartClearInitialBackoff time.Duration
	ReconcileBatchSize      int

	PaymentsAPIKey string
	SeedDemoData   bool
}

// LoadConfig reads environment variables, applies defaults, and validates basic constraints.
func LoadConfig() (Config, error) {
	cfg := Config{
		Port:              envDefault("PORT", "8080"),
		PostgresDSN:       strings.TrimSpace(os.Getenv("POSTGRES_DSN")),
		MongoURI:          strings.TrimSpace(os.Getenv("MONGO_URI")),
		MongoDatabase:     envDefault("MONGO_DATABASE", "shop"),
		TemporalAddress:   envDefault("TEMPORAL_ADDRESS", client.DefaultHostPort),
		TemporalNamespace: envDefault("TEMPORAL_NAMESPACE", client.DefaultNamespace),
		TemporalDisabled:  isTruthy(os.Getenv("TEMPORAL_DISABLED")),
		InvoiceDir:        envDefault("INVOICE_DIR", "data/invoices"),
		PaymentsAPIKey:    strings.TrimSpace(os.Getenv("PAYMENTS_API_KEY")),
	}

	backend, err := parseBackend(os.Getenv("STORE_BACKEND"), cfg.PostgresDSN, cfg.MongoURI)
	if err != nil {
		return Config{}, err
	}
	cfg.Backend = backend

	if cfg.ProductsPerPage, err = positiveInt("PRODUCTS_PER_PAGE", catalogdomain.DefaultPageSize); err != nil {
		return Config{}, err
	}
	if cfg.CartClearMaxAttempts, err = positiveInt("CART_CLEAR_MAX_ATTEMPTS", ordersapp.DefaultCartClearAttempts); err != nil {
		return Config{}, err
	}
	if cfg.ReconcileBatchSize, err = positiveInt("RECONCILE_BATCH_SIZE", ordersapp.DefaultReconcileBatch); err != nil {
		return Config{}, err
	}
	if cfg.CartClearInitialBackoff, err = positiveDuration("CART_CLEAR_INITIAL_BACKOFF", ordersapp.DefaultCartClearInitialBackoff); err != nil {
		return Config{}, err
	}
	if cfg.ErrorMode, err = apierrors.ParseMode(os.Getenv("ERROR_MODE")); err != nil {
		return Config{}, fmt.Errorf("ERROR_MODE: %w", err)
	}
	if cfg.MissingProductPolicy, err = catalogdomain.ParseMissingProductPolicy(os.Getenv("MISSING_PRODUCT_POLICY")); err != nil {
		return Config{}, fmt.Errorf("MISSING_PRODUCT_POLICY: %w", err)
	}

	cfg.SeedDemoData = cfg.Backend == BackendMemory
	if raw := strings.TrimSpace(os.Getenv("SEED_DEMO_DATA")); raw != "" {
		cfg.SeedDemoData = isTruthy(raw)
	}
	return cfg, nil
}

func parseBackend(raw, postgresDSN, mongoURI string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(raw))) {
	case "":
		switch {
		case postgresDSN != "":
			return BackendPostgres, nil
		case mongoURI != "":
			return BackendMongo, nil
		default:
			return BackendMemory, nil
		}
	case BackendMemory:
		return BackendMemory, nil
	case BackendPostgres:
		if postgresDSN == "" {
			return "", fmt.Errorf("STORE_BACKEND=postgres requires POSTGRES_DSN")
		}
		return BackendPostgres, nil
	case BackendMongo:
		if mongoURI == "" {
			return "", fmt.Errorf("STORE_BACKEND=mongo requires MONGO_URI")
		}
		return BackendMongo, nil
	default:
		return "", fmt.Errorf("STORE_BACKEND must be one of memory, postgres, mongo")
	}
}

func envDefault(key, fallback string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return fallback
}

func isTruthy(value string) bool {
	value = strings.TrimSpace(strings.ToLower(value))
	return value == "1" || value == "true" || value == "yes"
}

func positiveInt(key string, fallback int) (int, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("%s must be a positive integer", key)
	}
	return n, nil
}

func positiveDuration(key string, fallback time.Duration) (time.Duration, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%s must be a positive duration such as 100ms", key)
	}
	return d, nil
}
