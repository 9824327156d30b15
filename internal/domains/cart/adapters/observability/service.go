package observability

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	cartdomain "github.com/Apurer/go-gin-storefront/internal/domains/cart/domain"
	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
)

const tracerName = "github.com/Apurer/go-gin-storefront/internal/domains/cart/adapters/observability/service"

// Service decorates the cart service with tracing, logging, and metrics.
type Service struct {
	inner   cartports.Service
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

// New wraps the core cart service.
func New(inner cartports.Service, opts ...Option) cartports.Service {
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

func (s *Service) Resolve(ctx context.Context, user *usersdomain.User) (*cartdomain.ResolvedCart, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Resolve", trace.WithAttributes(attribute.String("user.id", userID(user))))
	defer span.End()

	result, err := s.inner.Resolve(ctx, user)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to resolve cart", slog.String("user.id", userID(user)))
	}
	span.SetAttributes(attribute.Int("cart.lines", len(result.Lines)), attribute.Int("cart.dangling", len(result.Dangling)))
	if result.HasDangling() {
		s.logInfo(ctx, "cart references missing products",
			slog.String("user.id", result.UserID), slog.Any("product.ids", result.Dangling))
	}
	return result, nil
}

func (s *Service) Prune(ctx context.Context, user *usersdomain.User, dangling []string) (*usersdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.Prune",
		trace.WithAttributes(attribute.String("user.id", userID(user)), attribute.Int("cart.dangling", len(dangling))))
	defer span.End()

	result, err := s.inner.Prune(ctx, user, dangling)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to prune cart", slog.String("user.id", userID(user)))
	}
	if len(dangling) > 0 {
		s.metrics.recordMutation(ctx, "prune")
		s.logInfo(ctx, "cart pruned", slog.String("user.id", result.ID), slog.Int("cart.dangling", len(dangling)))
	}
	return result, nil
}

func (s *Service) AddToCart(ctx context.Context, user *usersdomain.User, productID string) (*usersdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.AddToCart",
		trace.WithAttributes(attribute.String("user.id", userID(user)), attribute.String("product.id", productID)))
	defer span.End()

	result, err := s.inner.AddToCart(ctx, user, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add to cart",
			slog.String("user.id", userID(user)), slog.String("product.id", productID))
	}
	s.metrics.recordMutation(ctx, "add")
	s.logInfo(ctx, "product added to cart", slog.String("user.id", result.ID), slog.String("product.id", productID))
	return result, nil
}

func (s *Service) RemoveFromCart(ctx context.Context, user *usersdomain.User, productID string) (*usersdomain.User, error) {
	ctx, span := s.tracer.Start(ctx, "CartService.RemoveFromCart",
		trace.WithAttributes(attribute.String("user.id", userID(user)), attribute.String("product.id", productID)))
	defer span.End()

	result, err := s.inner.RemoveFromCart(ctx, user, productID)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to remove from cart",
			slog.String("user.id", userID(user)), slog.String("product.id", productID))
	}
	s.metrics.recordMutation(ctx, "remove")
	s.logInfo(ctx, "product removed from cart", slog.String("user.id", result.ID), slog.String("product.id", productID))
	return result, nil
}

func (s *Service) ClearCart(ctx context.Context, id string) error {
	ctx, span := s.tracer.Start(ctx, "CartService.ClearCart", trace.WithAttributes(attribute.String("user.id", id)))
	defer span.End()

	if err := s.inner.ClearCart(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to clear cart", slog.String("user.id", id))
	}
	s.metrics.recordMutation(ctx, "clear")
	s.logInfo(ctx, "cart cleared", slog.String("user.id", id))
	return nil
}

func userID(user *usersdomain.User) string {
	if user == nil {
		return ""
	}
	return user.ID
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	if s.logger == nil {
		return
	}
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	if s.logger != nil {
		attrs = append(attrs, slog.String("error", err.Error()))
		s.logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	}
	return err
}

type serviceMetrics struct {
	mutations metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	mutations, _ := m.Int64Counter("cart.service.mutations", metric.WithDescription("Number of cart mutations by kind"))
	return serviceMetrics{mutations: mutations}
}

func (m serviceMetrics) recordMutation(ctx context.Context, kind string) {
	if m.mutations != nil {
		m.mutations.Add(ctx, 1, metric.WithAttributes(attribute.String("cart.mutation", kind)))
	}
}

var _ cartports.Service = (*Service)(nil)
