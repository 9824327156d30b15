package ports

import (
	"context"
	"io"

	invoicesdomain "github.com/Apurer/go-gin-storefront/internal/domains/invoices/domain"
	ordersdomain "github.com/Apurer/go-gin-storefront/internal/domains/orders/domain"
)

// OrderReader loads the order an invoice is generated from.
type OrderReader interface {
	GetByID(ctx context.Context, id string) (*ordersdomain.Order, error)
}

// Document is a fully laid out invoice that can be written exactly once.
type Document interface {
	Output(w io.Writer) error
}

// Renderer lays out an invoice. All layout errors surface here, before any byte is written.
type Renderer interface {
	Render(inv *invoicesdomain.Invoice) (Document, error)
}

// Sink receives the archived copy. Exactly one of Commit or Abort must be called.
type Sink interface {
	io.Writer
	Commit() error
	Abort() error
}

// ArchiveStore opens sinks for invoice copies kept on storage.
type ArchiveStore interface {
	Create(ctx context.Context, fileName string) (Sink, error)
}

// Request identifies the invoice and the user asking for it.
type Request struct {
	OrderID string
	UserID  string
}

// Delivery is a prepared invoice ready to stream. It is single use.
type Delivery interface {
	FileName() string
	Stream(ctx context.Context, w io.Writer) error
	Discard() error
}

// Service exposes invoice generation to adapters.
type Service interface {
	Prepare(ctx context.Context, req Request) (Delivery, error)
}
