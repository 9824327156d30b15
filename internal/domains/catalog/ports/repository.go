package ports

import (
	"context"
	"errors"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

var ErrNotFound = errors.New("product not found")

// Repository reads catalog products. Save exists for seeding and tests; the
// storefront never mutates products.
type Repository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context, offset, limit int) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	// FindByIDs resolves references in one round trip. Unknown ids are absent
	// from the result.
	FindByIDs(ctx context.Context, ids []string) (map[string]*domain.Product, error)
	Save(ctx context.Context, product *domain.Product) (*domain.Product, error)
}
