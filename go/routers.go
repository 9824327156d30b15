package storefrontserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Route is the information for every URI.
type Route struct {
	// Name is the name of this Route.
	Name string
	// Method is the string for the HTTP method. ex) GET, POST etc..
	Method string
	// Pattern is the pattern of the URI.
	Pattern string
	// HandlerFunc is the handler function of this route.
	HandlerFunc gin.HandlerFunc
}

// ApiHandleFunctions groups the storefront handlers.
type ApiHandleFunctions struct {
	ShopAPI  ShopAPI
	CartAPI  CartAPI
	OrderAPI OrderAPI
}

// NewRouter returns a new router with the views loaded. middleware runs
// before every route, in order.
func NewRouter(handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) (*gin.Engine, error) {
	return NewRouterWithGinEngine(gin.New(), handleFunctions, middleware...)
}

// NewRouterWithGinEngine adds the storefront routes to an existing engine.
func NewRouterWithGinEngine(router *gin.Engine, handleFunctions ApiHandleFunctions, middleware ...gin.HandlerFunc) (*gin.Engine, error) {
	views, err := loadViews()
	if err != nil {
		return nil, err
	}
	router.SetHTMLTemplate(views)
	router.Use(gin.CustomRecovery(recoverPanic))
	router.Use(middleware...)
	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	for _, route := range getRoutes(handleFunctions) {
		if route.HandlerFunc == nil {
			route.HandlerFunc = DefaultHandleFunc
		}
		switch route.Method {
		case http.MethodGet:
			router.GET(route.Pattern, route.HandlerFunc)
		case http.MethodPost:
			router.POST(route.Pattern, route.HandlerFunc)
		}
	}
	return router, nil
}

// DefaultHandleFunc is the default handler for routes without an implementation.
func DefaultHandleFunc(c *gin.Context) {
	c.String(http.StatusNotImplemented, "501 not implemented")
}

// recoverPanic turns panics into a 500 but hands http.ErrAbortHandler back to
// net/http so the connection is dropped.
func recoverPanic(c *gin.Context, recovered any) {
	if err, ok := recovered.(error); ok && errors.Is(err, http.ErrAbortHandler) {
		panic(err)
	}
	c.AbortWithStatus(http.StatusInternalServerError)
}

func getRoutes(handleFunctions ApiHandleFunctions) []Route {
	return []Route{
		{"GetIndex", http.MethodGet, "/", handleFunctions.ShopAPI.GetIndex},
		{"GetProducts", http.MethodGet, "/products", handleFunctions.ShopAPI.GetProducts},
		{"GetProduct", http.MethodGet, "/products/:productId", handleFunctions.ShopAPI.GetProduct},
		{"GetCart", http.MethodGet, "/cart", handleFunctions.CartAPI.GetCart},
		{"PostCart", http.MethodPost, "/cart", handleFunctions.CartAPI.PostCart},
		{"PostCartDeleteProduct", http.MethodPost, "/cart-delete-item", handleFunctions.CartAPI.PostCartDeleteProduct},
		{"PostOrder", http.MethodPost, "/create-order", handleFunctions.OrderAPI.PostOrder},
		{"GetOrders", http.MethodGet, "/orders", handleFunctions.OrderAPI.GetOrders},
		{"GetInvoice", http.MethodGet, "/orders/:orderId", handleFunctions.OrderAPI.GetInvoice},
	}
}
