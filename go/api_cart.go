package storefrontserver

import (
	"net/http"

	"github.com/gin-gonic/gin"

	cartports "github.com/Apurer/go-gin-storefront/internal/domains/cart/ports"
)

// CartAPI serves the shopping cart.
type CartAPI struct {
	carts cartports.Service
}

func NewCartAPI(carts cartports.Service) CartAPI {
	return CartAPI{carts: carts}
}

// Get /cart
// Shows the cart. References to products that left the catalog are pruned
// from the stored cart before rendering.
func (api *CartAPI) GetCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	resolved, err := api.carts.Resolve(ctx, user)
	if err != nil {
		_ = c.Error(err)
		return
	}
	if resolved.HasDangling() {
		if _, err := api.carts.Prune(ctx, user, resolved.Dangling); err != nil {
			_ = c.Error(err)
			return
		}
	}
	c.HTML(http.StatusOK, "shop/cart", gin.H{
		"products":        resolved.Lines,
		"total":           resolved.Total(),
		"pageTitle":       "Your Cart",
		"path":            "/cart",
		"isAuthenticated": true,
	})
}

// Post /cart
// Adds one unit of the posted productId
func (api *CartAPI) PostCart(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if _, err := api.carts.AddToCart(c.Request.Context(), user, c.PostForm("productId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/cart")
}

// Post /cart-delete-item
// Removes the posted productId line
func (api *CartAPI) PostCartDeleteProduct(c *gin.Context) {
	user, ok := requireUser(c)
	if !ok {
		return
	}
	if _, err := api.carts.RemoveFromCart(c.Request.Context(), user, c.PostForm("productId")); err != nil {
		_ = c.Error(err)
		return
	}
	c.Redirect(http.StatusFound, "/cart")
}
