package domain

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyTitle    = errors.New("product title is required")
	ErrNegativePrice = errors.New("product price must not be negative")
)

// Product is a catalog entry. The storefront only reads products; another
// bounded context owns their lifecycle.
type Product struct {
	ID          string
	Title       string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

// NewProduct validates and constructs a product.
func NewProduct(id, title string, price decimal.Decimal, description, imageURL string) (*Product, error) {
	p := &Product{
		ID:          strings.TrimSpace(id),
		Title:       strings.TrimSpace(title),
		Price:       price,
		Description: strings.TrimSpace(description),
		ImageURL:    strings.TrimSpace(imageURL),
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate enforces catalog invariants.
func (p *Product) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// Clone returns a detached copy.
func (p *Product) Clone() *Product {
	if p == nil {
		return nil
	}
	clone := *p
	return &clone
}

// MissingProductPolicy decides what happens when a request names a product
// that no longer exists.
type MissingProductPolicy string

const (
	// MissingProductNotFound surfaces a not-found error to the caller.
	MissingProductNotFound MissingProductPolicy = "not_found"
	// MissingProductIgnore treats the request as a no-op.
	MissingProductIgnore MissingProductPolicy = "ignore"
)

// ParseMissingProductPolicy maps configuration input to a policy.
func ParseMissingProductPolicy(raw string) (MissingProductPolicy, error) {
	switch MissingProductPolicy(strings.ToLower(strings.TrimSpace(raw))) {
	case "", MissingProductNotFound:
		return MissingProductNotFound, nil
	case MissingProductIgnore:
		return MissingProductIgnore, nil
	default:
		return "", errors.New("missing product policy must be one of not_found, ignore")
	}
}
