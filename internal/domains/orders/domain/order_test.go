package domain

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNewOrder_TotalAndOwnership(t *testing.T) {
	lines := []Line{
		{Quantity: 2, Product: ProductSnapshot{ID: "a", Title: "A", Price: decimal.NewFromInt(10)}},
		{Quantity: 1, Product: ProductSnapshot{ID: "b", Title: "B", Price: decimal.RequireFromString("5")}},
	}
	order, err := NewOrder("o1", UserSnapshot{UserID: "u1", Email: "u1@example.com"}, lines, time.Now())
	require.NoError(t, err)

	require.True(t, decimal.NewFromInt(25).Equal(order.Total()))
	require.True(t, order.BelongsTo("u1"))
	require.False(t, order.BelongsTo("u2"))
	require.False(t, order.BelongsTo(""))

	lines[0].Quantity = 99
	require.Equal(t, 2, order.Lines[0].Quantity, "order keeps its own copy of the lines")
}

func TestNewOrder_Invariants(t *testing.T) {
	user := UserSnapshot{UserID: "u1"}
	line := Line{Quantity: 1, Product: ProductSnapshot{ID: "a", Price: decimal.NewFromInt(1)}}

	_, err := NewOrder(" ", user, []Line{line}, time.Now())
	require.ErrorIs(t, err, ErrEmptyOrderID)
	_, err = NewOrder("o1", UserSnapshot{}, []Line{line}, time.Now())
	require.ErrorIs(t, err, ErrEmptyUserID)
	empty, err := NewOrder("o1", user, nil, time.Now())
	require.NoError(t, err)
	require.Empty(t, empty.Lines)
	require.NotNil(t, empty.Lines)
	_, err = NewOrder("o1", user, []Line{{Quantity: 0}}, time.Now())
	require.ErrorIs(t, err, ErrBadQuantity)
}
