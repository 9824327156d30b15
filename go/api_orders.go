package storefrontserver

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	invoicesports "github.com/Apurer/go-gin-storefront/internal/domains/invoices/ports"
	ordersports "github.com/Apurer/go-gin-storefront/internal/domains/orders/ports"
)

// OrderAPI serves order placement, history and invoices.
type OrderAPI struct {
	orders   ordersports.Service
	invoices invoicesports.Service
	logger   *slog.Logger
}

func NewOrderAPI(orders ordersports.Service, invoices invoicesports.Service, logger *slog.Logger) OrderAPI {
	if logger == nil {
		logger = slog.Default()
	}
	return OrderAPI{orders: orders, invoices: invoices, logger: logger}
}

// Post /create-order
// Turns the cart into an order
func (api *OrderAPI) PostOrder(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if _, err := api.orders.PlaceOrder(c.Request.Context(), user); err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/orders")
}

// Get /orders
// Order history of the current user
func (api *OrderAPI) GetOrders(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	orders, err := api.orders.ListOrders(c.Request.Context(), user.ID)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.HTML(http.StatusOK, "shop/orders", gin.H{
		"orders":          orders,
		"pageTitle":       "Your Orders",
		"path":            "/orders",
		"isAuthenticated": true,
	})
}

// Get /orders/:orderId
// Streams the invoice PDF and archives a copy
func (api *OrderAPI) GetInvoice(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	orderID := c.Param("orderId")
	delivery, err := api.invoices.Prepare(ctx, invoicesports.Request{OrderID: orderID, UserID: user.ID})
	if err != nil {
		_ = c.Error(err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", delivery.FileName()))
	c.Status(http.StatusOK)
	if err := delivery.Stream(ctx, c.Writer); err != nil {
		api.logger.LogAttrs(ctx, slog.LevelError, "invoice stream failed",
			slog.String("order.id", orderID),
			slog.String("error", err.Error()),
		)
		abortConnection(c)
	}
}

// abortConnection drops the client connection so a half-written body is not
// mistaken for a complete document. The recovery middleware lets
// http.ErrAbortHandler through to net/http.
func abortConnection(c *gin.Context) {
	c.Abort()
	panic(http.ErrAbortHandler)
}
