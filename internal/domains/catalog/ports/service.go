package ports

import (
	"context"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// ProductPage is one window of the product listing.
type ProductPage struct {
	Products []*domain.Product
	Page     domain.Page
}

// Service exposes catalog read use cases to adapters.
type Service interface {
	ListProducts(ctx context.Context, page int) (*ProductPage, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
}
