package application

import (
	"errors"
	"fmt"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

var (
	// ErrProductNotFound signals the requested product does not exist.
	ErrProductNotFound = errors.New("no product found")
)

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ports.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrProductNotFound, err)
	}
	return err
}
