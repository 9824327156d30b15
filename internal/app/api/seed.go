package api

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

// DemoUserID is the shopper created by SeedDemoData. Send it as X-User-ID or
// the user_id cookie.
const DemoUserID = "demo-user"

var demoProducts = []struct {
	id, title, price, description, imageURL string
}{
	{"book-go", "The Go Programming Language", "39.99", "Donovan and Kernighan.", "https://picsum.photos/seed/go/300/200"},
	{"mug-gopher", "Gopher Mug", "12.50", "Holds coffee or tea.", "https://picsum.photos/seed/mug/300/200"},
	{"sticker-pack", "Sticker Pack", "4.00", "Ten assorted stickers.", "https://picsum.photos/seed/stickers/300/200"},
	{"hoodie", "Storefront Hoodie", "45.00", "Warm and grey.", "https://picsum.photos/seed/hoodie/300/200"},
	{"notebook", "Dot Grid Notebook", "8.75", "A5, 120 pages.", "https://picsum.photos/seed/notebook/300/200"},
}

// SeedDemoData upserts a small catalog and the demo shopper. Running it twice
// leaves the same data; an existing demo cart is kept.
func SeedDemoData(ctx context.Context, stores *Stores) error {
	for _, p := range demoProducts {
		price, err := decimal.NewFromString(p.price)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.id, err)
		}
		product, err := catalogdomain.NewProduct(p.id, p.title, price, p.description, p.imageURL)
		if err != nil {
			return fmt.Errorf("seed product %s: %w", p.id, err)
		}
		if _, err := stores.Products.Save(ctx, product); err != nil {
			return fmt.Errorf("seed product %s: %w", p.id, err)
		}
	}
	if _, err := stores.Users.GetByID(ctx, DemoUserID); err == nil {
		return nil
	}
	user, err := usersdomain.NewUser(DemoUserID, "demo@example.com")
	if err != nil {
		return err
	}
	if _, err := stores.Users.Save(ctx, user); err != nil {
		return fmt.Errorf("seed demo user: %w", err)
	}
	return nil
}
