package application

import (
	"bytes"
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/adapters/filesystem"
	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/adapters/pdf"
	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/ports"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

type failingWriter struct {
	after int
	n     int
}

func (f *failingWriter) Write(p []byte) (int, error) {
	if f.n+len(p) > f.after {
		return 0, errors.New("client went away")
	}
	f.n += len(p)
	return len(p), nil
}

func newInvoiceService(t *testing.T) (*Service, *filesystem.ArchiveStore) {
	t.Helper()
	orders := ordersmemory.NewRepository()
	order, err := ordersdomain.NewOrder("o1", ordersdomain.UserSnapshot{UserID: "owner", Email: "owner@example.com"}, []ordersdomain.Line{
		{Quantity: 2, Product: ordersdomain.ProductSnapshot{ID: "X", Title: "X", Price: decimal.NewFromInt(10)}},
		{Quantity: 1, Product: ordersdomain.ProductSnapshot{ID: "Y", Title: "Y", Price: decimal.NewFromInt(5)}},
	}, time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC))
	require.NoError(t, err)
	_, err = orders.Create(context.Background(), order)
	require.NoError(t, err)
	archive := filesystem.NewArchiveStore(t.TempDir())
	return NewService(orders, pdf.NewRenderer(), archive), archive
}

func archiveEntries(t *testing.T, archive *filesystem.ArchiveStore) []os.DirEntry {
	t.Helper()
	list, err := os.ReadDir(archive.Dir())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	require.NoError(t, err)
	return list
}

func TestPrepareAndStream_WritesResponseAndArchive(t *testing.T) {
	svc, archive := newInvoiceService(t)
	ctx := context.Background()

	delivery, err := svc.Prepare(ctx, ports.Request{OrderID: "o1", UserID: "owner"})
	require.NoError(t, err)
	require.Equal(t, "invoice-o1.pdf", delivery.FileName())

	var response bytes.Buffer
	require.NoError(t, delivery.Stream(ctx, &response))
	require.True(t, bytes.HasPrefix(response.Bytes(), []byte("%PDF-")))

	stored, err := os.ReadFile(archive.Path("invoice-o1.pdf"))
	require.NoError(t, err)
	require.Equal(t, response.Bytes(), stored)

	require.ErrorIs(t, delivery.Stream(ctx, &response), ErrDeliveryUsed)
}

func TestPrepare_RegenerationIsByteStable(t *testing.T) {
	svc, _ := newInvoiceService(t)
	ctx := context.Background()
	var first, second bytes.Buffer

	d1, err := svc.Prepare(ctx, ports.Request{OrderID: "o1", UserID: "owner"})
	require.NoError(t, err)
	require.NoError(t, d1.Stream(ctx, &first))
	d2, err := svc.Prepare(ctx, ports.Request{OrderID: "o1", UserID: "owner"})
	require.NoError(t, err)
	require.NoError(t, d2.Stream(ctx, &second))

	require.Equal(t, first.Bytes(), second.Bytes())
}

func TestPrepare_OtherUserIsUnauthorizedAndWritesNothing(t *testing.T) {
	svc, archive := newInvoiceService(t)

	_, err := svc.Prepare(context.Background(), ports.Request{OrderID: "o1", UserID: "intruder"})
	require.ErrorIs(t, err, ErrUnauthorized)
	require.Empty(t, archiveEntries(t, archive))
}

func TestPrepare_MissingOrder(t *testing.T) {
	svc, archive := newInvoiceService(t)

	_, err := svc.Prepare(context.Background(), ports.Request{OrderID: "nope", UserID: "owner"})
	require.ErrorIs(t, err, ErrOrderNotFound)
	require.ErrorIs(t, err, ordersports.ErrNotFound)
	require.Empty(t, archiveEntries(t, archive))
}

func TestStream_ResponseFailureAbortsArchive(t *testing.T) {
	svc, archive := newInvoiceService(t)
	ctx := context.Background()

	delivery, err := svc.Prepare(ctx, ports.Request{OrderID: "o1", UserID: "owner"})
	require.NoError(t, err)

	err = delivery.Stream(ctx, &failingWriter{after: 16})
	require.ErrorContains(t, err, "client went away")
	require.Empty(t, archiveEntries(t, archive))
}

func TestStream_CanceledContextAbortsArchive(t *testing.T) {
	svc, archive := newInvoiceService(t)
	delivery, err := svc.Prepare(context.Background(), ports.Request{OrderID: "o1", UserID: "owner"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = delivery.Stream(ctx, &bytes.Buffer{})
	require.Error(t, err)
	require.Empty(t, archiveEntries(t, archive))
}

func TestDiscard_ReleasesSink(t *testing.T) {
	svc, archive := newInvoiceService(t)
	delivery, err := svc.Prepare(context.Background(), ports.Request{OrderID: "o1", UserID: "owner"})
	require.NoError(t, err)

	require.NoError(t, delivery.Discard())
	require.Empty(t, archiveEntries(t, archive))
	require.ErrorIs(t, delivery.Discard(), ErrDeliveryUsed)
}
