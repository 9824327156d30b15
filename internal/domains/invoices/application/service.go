package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/ports"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// Service prepares invoice deliveries for order owners.
type Service struct {
	orders   ports.OrderReader
	renderer ports.Renderer
	archive  ports.ArchiveStore
}

func NewService(orders ports.OrderReader, renderer ports.Renderer, archive ports.ArchiveStore) *Service {
	return &Service{orders: orders, renderer: renderer, archive: archive}
}

// Prepare does every step that can fail cleanly: lookup, ownership check,
// layout and opening the archive sink. Storage is untouched until ownership
// is confirmed.
func (s *Service) Prepare(ctx context.Context, req ports.Request) (ports.Delivery, error) {
	orderID := strings.TrimSpace(req.OrderID)
	if orderID == "" {
		return nil, mapError(ordersports.ErrNotFound)
	}
	order, err := s.orders.GetByID(ctx, orderID)
	if err != nil {
		return nil, mapError(err)
	}
	if !order.BelongsTo(req.UserID) {
		return nil, ErrUnauthorized
	}
	inv := domain.FromOrder(order)
	doc, err := s.renderer.Render(inv)
	if err != nil {
		return nil, fmt.Errorf("render invoice: %w", err)
	}
	sink, err := s.archive.Create(ctx, inv.FileName)
	if err != nil {
		return nil, fmt.Errorf("open invoice archive: %w", err)
	}
	return newDelivery(inv.FileName, doc, sink), nil
}

var _ ports.Service = (*Service)(nil)
