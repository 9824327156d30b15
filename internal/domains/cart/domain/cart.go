package domain

import (
	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
)

// Line is a cart item whose product reference has been resolved.
type Line struct {
	Product  *catalogdomain.Product
	Quantity int
}

// Subtotal is quantity times the current unit price.
func (l Line) Subtotal() decimal.Decimal {
	if l.Product == nil {
		return decimal.Zero
	}
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// ResolvedCart is the populated view of a user's cart. Dangling holds the
// product ids that no longer exist in the catalog.
type ResolvedCart struct {
	UserID   string
	Lines    []Line
	Dangling []string
}

func (c *ResolvedCart) HasDangling() bool {
	return c != nil && len(c.Dangling) > 0
}

func (c *ResolvedCart) IsEmpty() bool {
	return c == nil || len(c.Lines) == 0
}

func (c *ResolvedCart) Total() decimal.Decimal {
	total := decimal.Zero
	if c == nil {
		return total
	}
	for _, line := range c.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}
