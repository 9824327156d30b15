package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

var _ ports.Repository = (*Repository)(nil)

// Repository is an in-memory catalog that lists products in insertion order.
type Repository struct {
	mu       sync.RWMutex
	products map[string]*domain.Product
	order    []string
}

func NewRepository() *Repository {
	return &Repository{products: map[string]*domain.Product{}}
}

func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.order)), nil
}

func (r *Repository) List(_ context.Context, offset, limit int) ([]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if offset < 0 {
		offset = 0
	}
	if offset >= len(r.order) || limit <= 0 {
		return []*domain.Product{}, nil
	}
	end := offset + limit
	if end > len(r.order) {
		end = len(r.order)
	}
	list := make([]*domain.Product, 0, end-offset)
	for _, id := range r.order[offset:end] {
		list = append(list, r.products[id].Clone())
	}
	return list, nil
}

func (r *Repository) GetByID(_ context.Context, id string) (*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	product, ok := r.products[id]
	if !ok {
		return nil, ports.ErrNotFound
	}
	return product.Clone(), nil
}

func (r *Repository) FindByIDs(_ context.Context, ids []string) (map[string]*domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	found := make(map[string]*domain.Product, len(ids))
	for _, id := range ids {
		if product, ok := r.products[id]; ok {
			found[id] = product.Clone()
		}
	}
	return found, nil
}

func (r *Repository) Save(_ context.Context, product *domain.Product) (*domain.Product, error) {
	if product == nil {
		return nil, errors.New("product is nil")
	}
	if err := product.Validate(); err != nil {
		return nil, err
	}
	clone := product.Clone()
	if clone.ID == "" {
		clone.ID = uuid.NewString()
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.products[clone.ID]; !exists {
		r.order = append(r.order, clone.ID)
	}
	r.products[clone.ID] = clone
	return clone.Clone(), nil
}

// Delete removes a product. The storefront never calls it; tests use it to
// leave dangling cart references behind.
func (r *Repository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.products[id]; !ok {
		return ports.ErrNotFound
	}
	delete(r.products, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}
