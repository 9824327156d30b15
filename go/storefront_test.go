package storefrontserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	cartapp "github.com/Apurer/go-gin-storefront/internal/domains/cart/application"
	catalogmemory "github.com/Apurer/go-gin-storefront/internal/domains/catalog/adapters/memory"
	catalogapp "github.com/Apurer/go-gin-storefront/internal/domains/catalog/application"
	catalogdomain "github.com/Apurer/go-gin-storefront/internal/domains/catalog/domain"
	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/adapters/filesystem"
	"github.com/Apurer/go-gin-storefront/internal/domains/invoices/adapters/pdf"
	invoicesapp "github.com/Apurer/go-gin-storefront/internal/domains/invoices/application"
	invoicesports "github.com/Apurer/go-gin-storefront/internal/domains/invoices/ports"
	ordersmemory "github.com/Apurer/go-gin-storefront/internal/domains/orders/adapters/memory"
	ordersapp "github.com/Apurer/go-gin-storefront/internal/domains/orders/application"
	usersmemory "github.com/Apurer/go-gin-storefront/internal/domains/users/adapters/memory"
	usersdomain "github.com/Apurer/go-gin-storefront/internal/domains/users/domain"
	apierrors "github.com/Apurer/go-gin-storefront/internal/shared/errors"
)

type fixtureOptions struct {
	mode     apierrors.Mode
	policy   catalogdomain.MissingProductPolicy
	invoices invoicesports.Service
}

type fixture struct {
	router   *gin.Engine
	products *catalogmemory.Repository
	users    *usersmemory.Repository
	orders   *ordersmemory.Repository
	archive  *filesystem.ArchiveStore
}

func newFixture(t *testing.T, opts fixtureOptions) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	f := &fixture{
		products: catalogmemory.NewRepository(),
		users:    usersmemory.NewRepository(),
		orders:   ordersmemory.NewRepository(),
		archive:  filesystem.NewArchiveStore(t.TempDir()),
	}
	for _, p := range []struct {
		id, title string
		price     int64
	}{{"p1", "Book", 10}, {"p2", "Pen", 5}, {"p3", "Lamp", 30}} {
		product, err := catalogdomain.NewProduct(p.id, p.title, decimal.NewFromInt(p.price), "", "")
		require.NoError(t, err)
		_, err = f.products.Save(ctx, product)
		require.NoError(t, err)
	}
	for _, u := range []struct{ id, email string }{{"u1", "alice@example.com"}, {"u2", "bob@example.com"}} {
		user, err := usersdomain.NewUser(u.id, u.email)
		require.NoError(t, err)
		_, err = f.users.Save(ctx, user)
		require.NoError(t, err)
	}

	catalog := catalogapp.NewService(f.products, catalogapp.WithPageSize(2))
	carts := cartapp.NewService(f.users, f.products, cartapp.WithMissingProductPolicy(opts.policy))
	clearer := ordersapp.NewRetryingCartClearer(carts, ordersmemory.NewReconciliationStore(), ordersapp.WithInitialBackoff(time.Millisecond))
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	mode := opts.mode
	if mode == "" {
		mode = apierrors.ModeStrict
	}
	orderOpts := []ordersapp.Option{ordersapp.WithClock(func() time.Time { return created })}
	if mode == apierrors.ModeLegacy {
		orderOpts = append(orderOpts, ordersapp.WithEmptyOrders())
	}
	orders := ordersapp.NewService(f.orders, carts, clearer, orderOpts...)
	invoices := opts.invoices
	if invoices == nil {
		invoices = invoicesapp.NewService(f.orders, pdf.NewRenderer(), f.archive)
	}

	router, err := NewRouter(ApiHandleFunctions{
		ShopAPI:  NewShopAPI(catalog, opts.policy),
		CartAPI:  NewCartAPI(carts),
		OrderAPI: NewOrderAPI(orders, invoices, nil),
	}, ErrorHandler(NewResponder(mode), nil), CurrentUser(f.users))
	require.NoError(t, err)
	f.router = router
	return f
}

type request struct {
	method string
	path   string
	form   url.Values
	userID string
	accept string
}

func (f *fixture) do(r request) *httptest.ResponseRecorder {
	var body io.Reader
	if r.form != nil {
		body = strings.NewReader(r.form.Encode())
	}
	req := httptest.NewRequest(r.method, r.path, body)
	if r.form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if r.userID != "" {
		req.Header.Set(UserIDHeader, r.userID)
	}
	if r.accept != "" {
		req.Header.Set("Accept", r.accept)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) addToCart(t *testing.T, userID, productID string) {
	t.Helper()
	w := f.do(request{method: http.MethodPost, path: "/cart", form: url.Values{"productId": {productID}}, userID: userID})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/cart", w.Header().Get("Location"))
}

func (f *fixture) cartOf(t *testing.T, userID string) []usersdomain.CartItem {
	t.Helper()
	user, err := f.users.GetByID(context.Background(), userID)
	require.NoError(t, err)
	return user.Cart.Items
}

func TestGetIndex_PaginatesAndDefaultsBadPage(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	w := f.do(request{method: http.MethodGet, path: "/?page=abc"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Book")
	require.Contains(t, w.Body.String(), "Pen")
	require.NotContains(t, w.Body.String(), "Lamp")

	w = f.do(request{method: http.MethodGet, path: "/products?page=2"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Lamp")
	require.NotContains(t, w.Body.String(), "Pen")
	require.Contains(t, w.Body.String(), `href="/products?page=1"`)
	require.Contains(t, w.Body.String(), "<title>Products</title>")
}

func TestGetProducts_HugePageIsEmpty(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	for _, page := range []string{"9223372036854775807", "4611686018427387904"} {
		w := f.do(request{method: http.MethodGet, path: "/products?page=" + page})
		require.Equal(t, http.StatusOK, w.Code, page)
		require.Contains(t, w.Body.String(), "No Products Found!", page)
		require.NotContains(t, w.Body.String(), "Book", page)
		require.NotContains(t, w.Body.String(), "?page=-", page)
	}
}

func TestGetProduct(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	w := f.do(request{method: http.MethodGet, path: "/products/p1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "$10.00")

	w = f.do(request{method: http.MethodGet, path: "/products/nope"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Contains(t, w.Body.String(), "Resource Not Found")

	w = f.do(request{method: http.MethodGet, path: "/products/nope", accept: "application/json"})
	require.Equal(t, http.StatusNotFound, w.Code)
	require.Equal(t, apierrors.ContentTypeProblemJSON, w.Header().Get("Content-Type"))
	var problem apierrors.ProblemDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &problem))
	require.Equal(t, "/products/nope", problem.Instance)
}

func TestGetProduct_IgnorePolicyRendersEmptyState(t *testing.T) {
	f := newFixture(t, fixtureOptions{policy: catalogdomain.MissingProductIgnore})

	w := f.do(request{method: http.MethodGet, path: "/products/nope"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Product not found.")
}

func TestLegacyMode_EveryErrorIsServerFault(t *testing.T) {
	f := newFixture(t, fixtureOptions{mode: apierrors.ModeLegacy})

	require.Equal(t, http.StatusInternalServerError, f.do(request{method: http.MethodGet, path: "/products/nope"}).Code)
	require.Equal(t, http.StatusInternalServerError, f.do(request{method: http.MethodGet, path: "/cart"}).Code)
}

func TestCart_RequiresUser(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	require.Equal(t, http.StatusUnauthorized, f.do(request{method: http.MethodGet, path: "/cart"}).Code)
	require.Equal(t, http.StatusUnauthorized, f.do(request{method: http.MethodGet, path: "/cart", userID: "ghost"}).Code)
	require.Equal(t, http.StatusUnauthorized, f.do(request{method: http.MethodPost, path: "/create-order"}).Code)
}

func TestCart_CookieIdentifiesUser(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: UserIDCookie, Value: "u1"})
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "No Products in Cart!")
}

func TestPostCart_SameProductTwiceIncrementsQuantity(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	f.addToCart(t, "u1", "p1")
	f.addToCart(t, "u1", "p1")

	require.Equal(t, []usersdomain.CartItem{{ProductID: "p1", Quantity: 2}}, f.cartOf(t, "u1"))
	w := f.do(request{method: http.MethodGet, path: "/cart", userID: "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Quantity: 2")
	require.Contains(t, w.Body.String(), "Total: $20.00")
}

func TestPostCart_UnknownProduct(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	w := f.do(request{method: http.MethodPost, path: "/cart", form: url.Values{"productId": {"nope"}}, userID: "u1"})
	require.Equal(t, http.StatusNotFound, w.Code)

	ignoring := newFixture(t, fixtureOptions{policy: catalogdomain.MissingProductIgnore})
	ignoring.addToCart(t, "u1", "nope")
	require.Empty(t, ignoring.cartOf(t, "u1"))
}

func TestPostCartDeleteProduct(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.addToCart(t, "u1", "p1")
	f.addToCart(t, "u1", "p2")

	w := f.do(request{method: http.MethodPost, path: "/cart-delete-item", form: url.Values{"productId": {"p1"}}, userID: "u1"})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, []usersdomain.CartItem{{ProductID: "p2", Quantity: 1}}, f.cartOf(t, "u1"))

	w = f.do(request{method: http.MethodPost, path: "/cart-delete-item", form: url.Values{"productId": {"absent"}}, userID: "u1"})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, []usersdomain.CartItem{{ProductID: "p2", Quantity: 1}}, f.cartOf(t, "u1"))
}

func TestGetCart_PrunesDeletedProducts(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	ctx := context.Background()
	user, err := f.users.GetByID(ctx, "u1")
	require.NoError(t, err)
	require.NoError(t, user.AddProduct("gone"))
	require.NoError(t, user.AddProduct("p2"))
	_, err = f.users.Save(ctx, user)
	require.NoError(t, err)

	w := f.do(request{method: http.MethodGet, path: "/cart", userID: "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Pen")
	require.Equal(t, []usersdomain.CartItem{{ProductID: "p2", Quantity: 1}}, f.cartOf(t, "u1"))
}

func TestPostOrder_PlacesOrderAndStreamsInvoice(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.addToCart(t, "u1", "p1")
	f.addToCart(t, "u1", "p1")
	f.addToCart(t, "u1", "p2")

	w := f.do(request{method: http.MethodPost, path: "/create-order", userID: "u1"})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/orders", w.Header().Get("Location"))
	require.Empty(t, f.cartOf(t, "u1"))

	orders, err := f.orders.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, orders, 1)
	orderID := orders[0].ID
	require.Equal(t, "25", orders[0].Total().String())

	w = f.do(request{method: http.MethodGet, path: "/orders", userID: "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), orderID)
	require.Contains(t, w.Body.String(), "Book (2)")

	w = f.do(request{method: http.MethodGet, path: "/orders/" + orderID, userID: "u1"})
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.Equal(t, `inline; filename="invoice-`+orderID+`.pdf"`, w.Header().Get("Content-Disposition"))
	require.True(t, strings.HasPrefix(w.Body.String(), "%PDF"))

	archived, err := os.ReadFile(f.archive.Path("invoice-" + orderID + ".pdf"))
	require.NoError(t, err)
	require.Equal(t, w.Body.Bytes(), archived)
}

func TestPostOrder_EmptyCart(t *testing.T) {
	f := newFixture(t, fixtureOptions{})

	w := f.do(request{method: http.MethodPost, path: "/create-order", userID: "u1"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLegacyMode_EmptyCartStillPlacesOrder(t *testing.T) {
	f := newFixture(t, fixtureOptions{mode: apierrors.ModeLegacy})

	w := f.do(request{method: http.MethodPost, path: "/create-order", userID: "u1"})
	require.Equal(t, http.StatusFound, w.Code)
	require.Equal(t, "/orders", w.Header().Get("Location"))

	placed, err := f.orders.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, placed, 1)
	require.Empty(t, placed[0].Lines)

	w = f.do(request{method: http.MethodGet, path: "/orders", userID: "u1"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestGetInvoice_OtherUsersOrder(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	f.addToCart(t, "u1", "p1")
	require.Equal(t, http.StatusFound, f.do(request{method: http.MethodPost, path: "/create-order", userID: "u1"}).Code)
	orders, err := f.orders.ListByUser(context.Background(), "u1")
	require.NoError(t, err)
	orderID := orders[0].ID

	w := f.do(request{method: http.MethodGet, path: "/orders/" + orderID, userID: "u2"})
	require.Equal(t, http.StatusForbidden, w.Code)
	require.NotEqual(t, "application/pdf", w.Header().Get("Content-Type"))
	_, err = os.Stat(f.archive.Path("invoice-" + orderID + ".pdf"))
	require.True(t, errors.Is(err, os.ErrNotExist))

	w = f.do(request{method: http.MethodGet, path: "/orders/unknown", userID: "u1"})
	require.Equal(t, http.StatusNotFound, w.Code)
}

type brokenDelivery struct{}

func (brokenDelivery) FileName() string { return "invoice-o1.pdf" }

func (brokenDelivery) Stream(_ context.Context, w io.Writer) error {
	_, _ = io.WriteString(w, "%PDF-1.3 partial")
	return errors.New("disk full")
}

func (brokenDelivery) Discard() error { return nil }

type brokenInvoices struct{}

func (brokenInvoices) Prepare(context.Context, invoicesports.Request) (invoicesports.Delivery, error) {
	return brokenDelivery{}, nil
}

func TestGetInvoice_StreamFailureAbortsConnection(t *testing.T) {
	f := newFixture(t, fixtureOptions{invoices: brokenInvoices{}})
	server := httptest.NewServer(f.router)
	defer server.Close()

	req, err := http.NewRequest(http.MethodGet, server.URL+"/orders/o1", nil)
	require.NoError(t, err)
	req.Header.Set(UserIDHeader, "u1")
	resp, err := server.Client().Do(req)
	if err == nil {
		defer resp.Body.Close()
		_, err = io.ReadAll(resp.Body)
	}
	require.Error(t, err)
}

func TestHealthz(t *testing.T) {
	f := newFixture(t, fixtureOptions{})
	w := f.do(request{method: http.MethodGet, path: "/healthz"})
	require.Equal(t, http.StatusOK, w.Code)
	require.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}
