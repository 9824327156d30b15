package observability

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	invoiceports "github.com/Apurer/go-gin-storefront/internal/domains/invoices/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/invoices/adapters/observability/service"

// Service decorates the invoice service and the deliveries it hands out.
type Service struct {
	inner   invoiceports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithTracer(tr trace.Tracer) Option {
	return func(s *Service) {
		s.tracer = tr
	}
}

func WithMeter(m metric.Meter) Option {
	return func(s *Service) {
		s.metrics = newServiceMetrics(m)
	}
}

func New(inner invoiceports.Service, opts ...Option) invoiceports.Service {
	s := &Service{
		inner:   inner,
		tracer:  nooptrace.NewTracerProvider().Tracer(tracerName),
		logger:  slog.Default(),
		metrics: newServiceMetrics(nil),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	if s.tracer == nil {
		s.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	return s
}

func (s *Service) Prepare(ctx context.Context, req invoiceports.Request) (invoiceports.Delivery, error) {
	ctx, span := s.tracer.Start(ctx, "InvoiceService.Prepare",
		trace.WithAttributes(attribute.String("order.id", req.OrderID), attribute.String("user.id", req.UserID)))
	defer span.End()

	delivery, err := s.inner.Prepare(ctx, req)
	if err != nil {
		s.metrics.recordOutcome(ctx, "rejected")
		return nil, s.handleError(ctx, span, slog.LevelWarn, err, "invoice not prepared",
			slog.String("order.id", req.OrderID), slog.String("user.id", req.UserID))
	}
	return &observedDelivery{Delivery: delivery, svc: s, orderID: req.OrderID}, nil
}

type observedDelivery struct {
	invoiceports.Delivery
	svc     *Service
	orderID string
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

func (d *observedDelivery) Stream(ctx context.Context, w io.Writer) error {
	ctx, span := d.svc.tracer.Start(ctx, "InvoiceService.Stream", trace.WithAttributes(attribute.String("order.id", d.orderID)))
	defer span.End()

	started := time.Now()
	counter := &countingWriter{w: w}
	if err := d.Delivery.Stream(ctx, counter); err != nil {
		d.svc.metrics.recordOutcome(ctx, "failed")
		return d.svc.handleError(ctx, span, slog.LevelError, err, "invoice stream failed",
			slog.String("order.id", d.orderID), slog.Int64("bytes", counter.n))
	}
	span.SetAttributes(attribute.Int64("invoice.bytes", counter.n))
	d.svc.metrics.recordOutcome(ctx, "delivered")
	if d.svc.logger != nil {
		d.svc.logger.LogAttrs(ctx, slog.LevelInfo, "invoice delivered",
			slog.String("order.id", d.orderID), slog.String("file", d.FileName()),
			slog.Int64("bytes", counter.n), slog.Duration("elapsed", time.Since(started)))
	}
	return nil
}

func (s *Service) handleError(ctx context.Context, span trace.Span, level slog.Level, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, level, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	invoices metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	invoices, _ := m.Int64Counter("invoices.service.requests", metric.WithDescription("Invoice requests by outcome"))
	return serviceMetrics{invoices: invoices}
}

func (m serviceMetrics) recordOutcome(ctx context.Context, outcome string) {
	if m.invoices != nil {
		m.invoices.Add(ctx, 1, metric.WithAttributes(attribute.String("invoice.outcome", outcome)))
	}
}

var _ invoiceports.Service = (*Service)(nil)
