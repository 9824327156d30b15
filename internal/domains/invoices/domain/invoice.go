package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

const (
	Title     = "Invoice"
	Separator = "-----------------------------"
)

// Line is one priced row of the invoice.
type Line struct {
	Title     string
	Quantity  int
	UnitPrice decimal.Decimal
}

// Text renders the row as "<title> - <quantity> x $<unit price>".
func (l Line) Text() string {
	return fmt.Sprintf("%s - %d x $%s", l.Title, l.Quantity, l.UnitPrice.String())
}

// Invoice is derived from an order on every request and never stored.
type Invoice struct {
	OrderID  string
	FileName string
	Lines    []Line
	Total    decimal.Decimal
	IssuedAt time.Time
}

// FileName is the archive and download name of an order's invoice.
func FileName(orderID string) string {
	return "invoice-" + orderID + ".pdf"
}

// FromOrder builds the invoice keeping the order's line order.
func FromOrder(order *ordersdomain.Order) *Invoice {
	inv := &Invoice{
		OrderID:  order.ID,
		FileName: FileName(order.ID),
		Lines:    make([]Line, 0, len(order.Lines)),
		Total:    decimal.Zero,
		IssuedAt: order.CreatedAt,
	}
	for _, line := range order.Lines {
		inv.Lines = append(inv.Lines, Line{
			Title:     line.Product.Title,
			Quantity:  line.Quantity,
			UnitPrice: line.Product.Price,
		})
		inv.Total = inv.Total.Add(line.Subtotal())
	}
	return inv
}

func (inv *Invoice) TotalText() string {
	return "Total Price: $" + inv.Total.String()
}
