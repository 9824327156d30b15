package domain

import (
	"errors"
	"strings"
)

var (
	ErrEmptyUserID    = errors.New("user id is required")
	ErrInvalidEmail   = errors.New("email must contain '@'")
	ErrEmptyProductID = errors.New("product id is required")
)

// CartItem is a weak reference to a catalog product plus a quantity.
type CartItem struct {
	ProductID string
	Quantity  int
}

// Cart is embedded in the user and owned by it.
type Cart struct {
	Items []CartItem
}

// User is a storefront shopper.
type User struct {
	ID    string
	Email string
	Cart  Cart
}

// NewUser builds a user with an empty cart.
func NewUser(id, email string) (*User, error) {
	user := &User{ID: strings.TrimSpace(id), Email: strings.TrimSpace(email)}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate re-applies core invariants for persistence.
func (u *User) Validate() error {
	if strings.TrimSpace(u.ID) == "" {
		return ErrEmptyUserID
	}
	if u.Email != "" && !strings.Contains(u.Email, "@") {
		return ErrInvalidEmail
	}
	for _, item := range u.Cart.Items {
		if strings.TrimSpace(item.ProductID) == "" {
			return ErrEmptyProductID
		}
	}
	return nil
}

// AddProduct increments the line for productID or appends one with quantity 1.
func (u *User) AddProduct(productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return ErrEmptyProductID
	}
	for i := range u.Cart.Items {
		if u.Cart.Items[i].ProductID == productID {
			u.Cart.Items[i].Quantity++
			return nil
		}
	}
	u.Cart.Items = append(u.Cart.Items, CartItem{ProductID: productID, Quantity: 1})
	return nil
}

// RemoveProduct drops the line for productID and reports whether one existed.
func (u *User) RemoveProduct(productID string) bool {
	kept := u.Cart.Items[:0:0]
	removed := false
	for _, item := range u.Cart.Items {
		if item.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, item)
	}
	u.Cart.Items = kept
	return removed
}

// DropProducts removes every line whose product id is listed and returns how
// many lines went away.
func (u *User) DropProducts(productIDs []string) int {
	if len(productIDs) == 0 {
		return 0
	}
	drop := make(map[string]struct{}, len(productIDs))
	for _, id := range productIDs {
		drop[id] = struct{}{}
	}
	kept := make([]CartItem, 0, len(u.Cart.Items))
	for _, item := range u.Cart.Items {
		if _, ok := drop[item.ProductID]; ok {
			continue
		}
		kept = append(kept, item)
	}
	removed := len(u.Cart.Items) - len(kept)
	u.Cart.Items = kept
	return removed
}

// ClearCart empties the cart in place.
func (u *User) ClearCart() {
	u.Cart.Items = []CartItem{}
}

// ProductIDs lists the referenced products in cart order.
func (u *User) ProductIDs() []string {
	ids := make([]string, 0, len(u.Cart.Items))
	for _, item := range u.Cart.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}

// Clone deep-copies the user including its cart.
func (u *User) Clone() *User {
	if u == nil {
		return nil
	}
	clone := *u
	clone.Cart.Items = append([]CartItem(nil), u.Cart.Items...)
	return &clone
}
