//go:build integration

package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/users/ports"
	"github.com/Apurer/go-gin-storefront/internal/platform/testdb"
)

func TestRepository_SaveReplacesCart(t *testing.T) {
	repo := NewRepository(testdb.Postgres(t))
	ctx := context.Background()

	user, err := domain.NewUser("u1", "u1@example.com")
	require.NoError(t, err)
	require.NoError(t, user.AddProduct("a"))
	require.NoError(t, user.AddProduct("a"))
	require.NoError(t, user.AddProduct("b"))

	saved, err := repo.Save(ctx, user)
	require.NoError(t, err)
	assert.Equal(t, []domain.CartItem{{ProductID: "a", Quantity: 2}, {ProductID: "b", Quantity: 1}}, saved.Cart.Items)

	saved.ClearCart()
	_, err = repo.Save(ctx, saved)
	require.NoError(t, err)

	fetched, err := repo.GetByID(ctx, "u1")
	require.NoError(t, err)
	assert.Empty(t, fetched.Cart.Items)
	assert.Equal(t, "u1@example.com", fetched.Email)
}

func TestRepository_GetByIDNotFound(t *testing.T) {
	repo := NewRepository(testdb.Postgres(t))

	_, err := repo.GetByID(context.Background(), "ghost")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
