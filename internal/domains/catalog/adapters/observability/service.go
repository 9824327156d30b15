package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/observability/service"

// Service decorates the catalog service with tracing, logging, and metrics.
type Service struct {
	inner   catalogports.Service
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

// New wraps the core catalog service.
func New(inner catalogports.Service, opts ...Option) catalogports.Service {
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

func (s *Service) ListProducts(ctx context.Context, page int) (*catalogports.ProductPage, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts", trace.WithAttributes(attribute.Int("catalog.page", page)))
	defer span.End()

	result, err := s.inner.ListProducts(ctx, page)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list products", slog.Int("catalog.page", page))
	}
	span.SetAttributes(
		attribute.Int("catalog.page.current", result.Page.Current),
		attribute.Int64("catalog.total", result.Page.TotalItems),
		attribute.Int("catalog.returned", len(result.Products)),
	)
	s.metrics.recordListed(ctx, len(result.Products))
	s.logDebug(ctx, "products listed", slog.Int("catalog.page", result.Page.Current), slog.Int("catalog.returned", len(result.Products)))
	return result, nil
}

func (s *Service) GetProduct(ctx context.Context, id string) (*catalogdomain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct", trace.WithAttributes(attribute.String("product.id", id)))
	defer span.End()

	result, err := s.inner.GetProduct(ctx, id)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to load product", slog.String("product.id", id))
	}
	s.logDebug(ctx, "product loaded", slog.String("product.id", result.ID))
	return result, nil
}

func (s *Service) logDebug(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelDebug, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelWarn, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	productsListed metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	listed, _ := m.Int64Counter("catalog.service.products_listed", metric.WithDescription("Number of products returned by catalog listings"))
	return serviceMetrics{productsListed: listed}
}

func (m serviceMetrics) recordListed(ctx context.Context, n int) {
	if m.productsListed != nil {
		m.productsListed.Add(ctx, int64(n))
	}
}

var _ catalogports.Service = (*Service)(nil)
