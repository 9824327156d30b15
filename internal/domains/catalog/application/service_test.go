package application

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

type failingRepo struct {
	ports.Repository
	countErr error
	listErr  error
}

func (f failingRepo) Count(context.Context) (int64, error) {
	if f.countErr != nil {
		return 0, f.countErr
	}
	return 3, nil
}

func (f failingRepo) List(context.Context, int, int) ([]*domain.Product, error) {
	return nil, f.listErr
}

func seededRepo(t *testing.T, n int) *catalogmemory.Repository {
	t.Helper()
	repo := catalogmemory.NewRepository()
	for i := 1; i <= n; i++ {
		p, err := domain.NewProduct(fmt.Sprintf("p%d", i), fmt.Sprintf("Book %d", i), decimal.NewFromInt(10), "", "")
		require.NoError(t, err)
		_, err = repo.Save(context.Background(), p)
		require.NoError(t, err)
	}
	return repo
}

func TestListProducts_WindowSize(t *testing.T) {
	const size = 2
	for _, total := range []int{0, 1, 4, 5} {
		svc := NewService(seededRepo(t, total), WithPageSize(size))
		for page := 1; page <= 4; page++ {
			result, err := svc.ListProducts(context.Background(), page)
			require.NoError(t, err)
			want := total - (page-1)*size
			if want < 0 {
				want = 0
			}
			if want > size {
				want = size
			}
			require.Len(t, result.Products, want, "total=%d page=%d", total, page)
			require.Equal(t, int64(total), result.Page.TotalItems)
		}
	}
}

func TestListProducts_DefaultsInvalidPage(t *testing.T) {
	svc := NewService(seededRepo(t, 3))

	result, err := svc.ListProducts(context.Background(), 0)
	require.NoError(t, err)
	require.Equal(t, 1, result.Page.Current)
	require.Equal(t, domain.DefaultPageSize, svc.PageSize())
	require.Len(t, result.Products, 2)
	require.Equal(t, "p1", result.Products[0].ID)
	require.True(t, result.Page.HasNext)
	require.Equal(t, 2, result.Page.Last)
}

func TestListProducts_PropagatesRepositoryErrors(t *testing.T) {
	boom := errors.New("connection reset")

	_, err := NewService(failingRepo{countErr: boom}).ListProducts(context.Background(), 1)
	require.ErrorIs(t, err, boom)

	_, err = NewService(failingRepo{listErr: boom}).ListProducts(context.Background(), 1)
	require.ErrorIs(t, err, boom)
}

func TestGetProduct_NotFound(t *testing.T) {
	svc := NewService(seededRepo(t, 1))

	_, err := svc.GetProduct(context.Background(), "nope")
	require.ErrorIs(t, err, ErrProductNotFound)
	require.ErrorIs(t, err, ports.ErrNotFound)

	_, err = svc.GetProduct(context.Background(), "  ")
	require.ErrorIs(t, err, ErrProductNotFound)

	product, err := svc.GetProduct(context.Background(), "p1")
	require.NoError(t, err)
	require.Equal(t, "Book 1", product.Title)
}

func TestListProducts_HugePageIsEmpty(t *testing.T) {
	svc := NewService(seededRepo(t, 3), WithPageSize(2))
	for _, page := range []int{math.MaxInt64, math.MaxInt64/2 + 1, 1 << 62} {
		result, err := svc.ListProducts(context.Background(), page)
		require.NoError(t, err)
		require.Empty(t, result.Products, "page=%d", page)
		require.False(t, result.Page.HasNext, "page=%d", page)
		require.Equal(t, int64(3), result.Page.TotalItems)
	}
}
