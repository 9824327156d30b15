package storefrontserver

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	invoicesapp "github.com/Apurer/go-gin-storefront/internal/domains/invoices/application"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

// ErrUnauthenticated is raised by cart and order routes when no shopper is attached.
var ErrUnauthenticated = errors.New("authentication required")

// NewResponder maps storefront errors to problems. Legacy mode skips the
// mappers, so everything becomes a 500.
func NewResponder(mode apierrors.Mode) *apierrors.ChainedResponder {
	return apierrors.NewChainedResponder("", mode,
		apierrors.Is(apierrors.ErrNotFound,
			catalogapp.ErrProductNotFound,
			cartapp.ErrProductNotFound,
			ordersapp.ErrOrderNotFound,
			invoicesapp.ErrOrderNotFound,
		),
		apierrors.Is(apierrors.ErrForbidden, invoicesapp.ErrUnauthorized),
		apierrors.Is(apierrors.ErrUnauthenticated, ErrUnauthenticated),
		apierrors.Is(apierrors.ErrBadRequest, ordersapp.ErrEmptyCart),
	)
}

// ErrorHandler is the single exit for errors queued with c.Error. Browsers get
// the errors/<status> view, API clients an RFC 7807 document.
func ErrorHandler(responder *apierrors.ChainedResponder, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err
		ctx := c.Request.Context()
		if c.Writer.Written() {
			logger.LogAttrs(ctx, slog.LevelError, "error after response started",
				slog.String("path", c.Request.URL.Path),
				slog.String("error", err.Error()),
			)
			return
		}
		problem := responder.Resolve(err)
		level := slog.LevelWarn
		if problem.Status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.LogAttrs(ctx, level, "request failed",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", problem.Status),
			slog.String("error", err.Error()),
		)

		if wantsProblemJSON(c) {
			responder.Respond(c, problem)
			return
		}
		c.HTML(problem.Status, errorView(problem.Status), gin.H{
			"pageTitle":       problem.Title,
			"path":            c.Request.URL.Path,
			"status":          problem.Status,
			"detail":          problem.Detail,
			"isAuthenticated": currentUser(c) != nil,
		})
	}
}

func wantsProblemJSON(c *gin.Context) bool {
	switch c.NegotiateFormat(gin.MIMEHTML, apierrors.ContentTypeProblemJSON, gin.MIMEJSON) {
	case apierrors.ContentTypeProblemJSON, gin.MIMEJSON:
		return true
	default:
		return false
	}
}

func errorView(status int) string {
	switch status {
	case http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
		return "errors/" + strconv.Itoa(status)
	default:
		return "errors/500"
	}
}
