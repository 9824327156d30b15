package domain

import (
	"cmp"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrEmptyOrderID = errors.New("order id is required")
	ErrEmptyUserID  = errors.New("order user id is required")
	ErrBadQuantity  = errors.New("order line quantity must be positive")
)

// UserSnapshot freezes the buyer identity at order time.
type UserSnapshot struct {
	UserID string
	Email  string
}

// ProductSnapshot is a full copy of the product at order time. Later catalog
// edits never reach it.
type ProductSnapshot struct {
	ID          string
	Title       string
	Price       decimal.Decimal
	Description string
	ImageURL    string
}

type Line struct {
	Quantity int
	Product  ProductSnapshot
}

func (l Line) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Order is append-only once created.
type Order struct {
	ID        string
	User      UserSnapshot
	Lines     []Line
	CreatedAt time.Time
}

// NewOrder builds an order ensuring required invariants.
func NewOrder(id string, user UserSnapshot, lines []Line, createdAt time.Time) (*Order, error) {
	order := &Order{
		ID:        strings.TrimSpace(id),
		User:      user,
		Lines:     append(make([]Line, 0, len(lines)), lines...),
		CreatedAt: createdAt.UTC(),
	}
	if err := order.Validate(); err != nil {
		return nil, err
	}
	return order, nil
}

func (o *Order) Validate() error {
	if o.ID == "" {
		return ErrEmptyOrderID
	}
	if strings.TrimSpace(o.User.UserID) == "" {
		return ErrEmptyUserID
	}
	for _, line := range o.Lines {
		if line.Quantity < 1 {
			return ErrBadQuantity
		}
	}
	return nil
}

func (o *Order) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range o.Lines {
		total = total.Add(line.Subtotal())
	}
	return total
}

// BelongsTo reports whether userID placed the order.
func (o *Order) BelongsTo(userID string) bool {
	return o != nil && userID != "" && o.User.UserID == userID
}

func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	clone.Lines = append([]Line(nil), o.Lines...)
	return &clone
}

// SortNewestFirst orders by CreatedAt descending with the id as tie-breaker.
func SortNewestFirst(orders []*Order) {
	slices.SortStableFunc(orders, func(a, b *Order) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}
