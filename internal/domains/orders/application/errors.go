package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var (
	// ErrEmptyCart rejects an order for a cart without resolvable lines.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrOrderNotFound signals the requested order does not exist.
	ErrOrderNotFound = errors.New("no order found")
	// ErrCartClearFailed is returned by cart clearers after the last attempt failed.
	ErrCartClearFailed = errors.New("cart could not be cleared")
	ErrNilUser         = errors.New("user is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	return err
}
