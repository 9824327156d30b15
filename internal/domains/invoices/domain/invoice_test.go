package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

func TestFromOrder_TotalAndLineOrder(t *testing.T) {
	order, err := ordersdomain.NewOrder("o1", ordersdomain.UserSnapshot{UserID: "u1"}, []ordersdomain.Line{
		{Quantity: 2, Product: ordersdomain.ProductSnapshot{Title: "X", Price: decimal.NewFromInt(10)}},
		{Quantity: 1, Product: ordersdomain.ProductSnapshot{Title: "Y", Price: decimal.NewFromInt(5)}},
	}, time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	inv := FromOrder(order)

	require.Equal(t, "invoice-o1.pdf", inv.FileName)
	require.Equal(t, "X - 2 x $10", inv.Lines[0].Text())
	require.Equal(t, "Y - 1 x $5", inv.Lines[1].Text())
	require.Equal(t, "Total Price: $25", inv.TotalText())
	require.Equal(t, order.CreatedAt, inv.IssuedAt)
}

func TestLineText_KeepsDecimalPrecision(t *testing.T) {
	line := Line{Title: "Pen", Quantity: 3, UnitPrice: decimal.RequireFromString("1.25")}
	require.Equal(t, "Pen - 3 x $1.25", line.Text())
}
