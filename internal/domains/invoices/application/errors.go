package application

import (
	"errors"
	"fmt"

	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

var (
	// ErrOrderNotFound signals the invoice's order does not exist.
	ErrOrderNotFound = errors.New("no order found")
	// ErrUnauthorized signals the order belongs to another user.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrDeliveryUsed is returned when a delivery is streamed or discarded twice.
	ErrDeliveryUsed = errors.New("invoice delivery already used")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ordersports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrOrderNotFound, err)
	}
	return err
}
