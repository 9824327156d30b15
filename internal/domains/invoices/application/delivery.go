package application

import (
	"context"
	"errors"
	"io"
	"sync/atomic"

	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/ports"
)

type delivery struct {
	fileName string
	doc      ports.Document
	sink     ports.Sink
	used     atomic.Bool
}

func newDelivery(fileName string, doc ports.Document, sink ports.Sink) *delivery {
	return &delivery{fileName: fileName, doc: doc, sink: sink}
}

func (d *delivery) FileName() string {
	return d.fileName
}

// Stream writes one rendering of the document to w and to the archive sink.
// The archive copy is committed only if both sides received every byte.
func (d *delivery) Stream(ctx context.Context, w io.Writer) error {
	if !d.used.CompareAndSwap(false, true) {
		return ErrDeliveryUsed
	}
	if err := fanOut(ctx, d.doc.Output, d.sink, w); err != nil {
		return errors.Join(err, d.sink.Abort())
	}
	return d.sink.Commit()
}

// Discard releases the archive sink without writing anything.
func (d *delivery) Discard() error {
	if !d.used.CompareAndSwap(false, true) {
		return ErrDeliveryUsed
	}
	return d.sink.Abort()
}
