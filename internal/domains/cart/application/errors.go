package application

import (
	"errors"
	"fmt"

	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
	usersports "github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
)

var (
	// ErrProductNotFound signals the product being added is not in the catalog.
	ErrProductNotFound = errors.New("no product found")
	// ErrUserNotFound signals the cart owner does not exist.
	ErrUserNotFound = errors.New("user not found")
	ErrNilUser      = errors.New("user is required")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	switch {
	case errors.Is(err, catalogports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrProductNotFound, err)
	case errors.Is(err, usersports.ErrNotFound):
		return fmt.Errorf("%w: %w", ErrUserNotFound, err)
	default:
		return err
	}
}
