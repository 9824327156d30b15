package storefrontserver

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	catalogports "github.com/Apurer/go-gin-storefront/internal/domains/catalog/ports"
)

// ShopAPI serves the catalog pages.
type ShopAPI struct {
	catalog catalogports.Service
	policy  catalogdomain.MissingProductPolicy
}

// NewShopAPI creates a ShopAPI. policy decides between an error page and an
// empty product view for unknown ids.
func NewShopAPI(catalog catalogports.Service, policy catalogdomain.MissingProductPolicy) ShopAPI {
	if policy == "" {
		policy = catalogdomain.MissingProductNotFound
	}
	return ShopAPI{catalog: catalog, policy: policy}
}

// Get /
// Storefront landing page
func (api *ShopAPI) GetIndex(c *gin.Context) {
	api.renderListing(c, "shop/index", "Shop", "/")
}

// Get /products
// Paginated product list
func (api *ShopAPI) GetProducts(c *gin.Context) {
	api.renderListing(c, "shop/product-list", "Products", "/products")
}

// Get /products/:productId
// Product detail
func (api *ShopAPI) GetProduct(c *gin.Context) {
	product, err := api.catalog.GetProduct(c.Request.Context(), c.Param("productId"))
	if err != nil {
		if !errors.Is(err, catalogapp.ErrProductNotFound) || api.policy != catalogdomain.MissingProductIgnore {
			_ = c.Error(err)
			return
		}
		product = nil
	}
	title := "Product Not Found"
	if product != nil {
		title = product.Title
	}
	c.HTML(http.StatusOK, "shop/product-detail", gin.H{
		"product":         product,
		"pageTitle":       title,
		"path":            "/products",
		"isAuthenticated": currentUser(c) != nil,
	})
}

func (api *ShopAPI) renderListing(c *gin.Context, view, title, path string) {
	result, err := api.catalog.ListProducts(c.Request.Context(), parsePage(c.Query("page")))
	if err != nil {
		_ = c.Error(err)
		return
	}
	page := result.Page
	c.HTML(http.StatusOK, view, gin.H{
		"prods":           result.Products,
		"pageTitle":       title,
		"path":            path,
		"currentPage":     page.Current,
		"totalProducts":   page.TotalItems,
		"hasNextPage":     page.HasNext,
		"hasPreviousPage": page.HasPrevious,
		"nextPage":        page.Next,
		"previousPage":    page.Previous,
		"lastPage":        page.Last,
		"isAuthenticated": currentUser(c) != nil,
	})
}

// parsePage turns the page query parameter into a page number. Anything
// unparsable is page 1.
func parsePage(raw string) int {
	page, err := strconv.Atoi(raw)
	if err != nil || page < 1 {
		return 1
	}
	return page
}
