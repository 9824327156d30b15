package memory

import (
	"context"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

func seed(t *testing.T, repo *Repository, n int) {
	t.Helper()
	for i := 1; i <= n; i++ {
		p, err := domain.NewProduct(fmt.Sprintf("p%d", i), fmt.Sprintf("Product %d", i), decimal.NewFromInt(int64(i)), "", "")
		require.NoError(t, err)
		_, err = repo.Save(context.Background(), p)
		require.NoError(t, err)
	}
}

func TestRepository_ListWindowsInInsertionOrder(t *testing.T) {
	repo := NewRepository()
	seed(t, repo, 5)
	ctx := context.Background()

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(5), count)

	page, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page, 2)
	require.Equal(t, "p3", page[0].ID)
	require.Equal(t, "p4", page[1].ID)

	tail, err := repo.List(ctx, 4, 2)
	require.NoError(t, err)
	require.Len(t, tail, 1)

	empty, err := repo.List(ctx, 10, 2)
	require.NoError(t, err)
	require.Empty(t, empty)
}

func TestRepository_FindByIDsSkipsUnknown(t *testing.T) {
	repo := NewRepository()
	seed(t, repo, 2)

	found, err := repo.FindByIDs(context.Background(), []string{"p1", "missing", "p2"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	require.Contains(t, found, "p1")
	require.NotContains(t, found, "missing")
}

func TestRepository_DeleteAndGet(t *testing.T) {
	repo := NewRepository()
	seed(t, repo, 2)
	ctx := context.Background()

	require.NoError(t, repo.Delete(ctx, "p1"))
	_, err := repo.GetByID(ctx, "p1")
	require.ErrorIs(t, err, ports.ErrNotFound)
	require.ErrorIs(t, repo.Delete(ctx, "p1"), ports.ErrNotFound)

	count, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}
