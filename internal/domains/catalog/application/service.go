package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// Service serves the storefront's catalog reads.
type Service struct {
	repo     ports.Repository
	pageSize int
}

type Option func(*Service)

// WithPageSize overrides the listing window. Non-positive values are ignored.
func WithPageSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.pageSize = size
		}
	}
}

func NewService(repo ports.Repository, opts ...Option) *Service {
	s := &Service{repo: repo, pageSize: domain.DefaultPageSize}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// ListProducts counts the catalog and returns the requested window.
func (s *Service) ListProducts(ctx context.Context, page int) (*ports.ProductPage, error) {
	total, err := s.repo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count products: %w", err)
	}
	meta := domain.NewPage(page, s.pageSize, total)
	if meta.PastEnd() {
		return &ports.ProductPage{Products: []*domain.Product{}, Page: meta}, nil
	}
	products, err := s.repo.List(ctx, meta.Offset(), meta.Limit())
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return &ports.ProductPage{Products: products, Page: meta}, nil
}

// GetProduct loads a single product.
func (s *Service) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, mapError(ports.ErrNotFound)
	}
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if product == nil {
		return nil, mapError(ports.ErrNotFound)
	}
	return product, nil
}

// PageSize reports the configured listing window.
func (s *Service) PageSize() int {
	return s.pageSize
}

var _ ports.Service = (*Service)(nil)
