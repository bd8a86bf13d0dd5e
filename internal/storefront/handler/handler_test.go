package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/fekuna/omnipos-storefront-service/internal/cart"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog"
	"github.com/fekuna/omnipos-storefront-service/internal/catalog/dto"
	"github.com/fekuna/omnipos-storefront-service/internal/checkout"
	"github.com/fekuna/omnipos-storefront-service/internal/delivery"
	"github.com/fekuna/omnipos-storefront-service/internal/logger"
	"github.com/fekuna/omnipos-storefront-service/internal/model"
	"github.com/fekuna/omnipos-storefront-service/internal/notify"
	"github.com/fekuna/omnipos-storefront-service/internal/orderlog"
	"github.com/fekuna/omnipos-storefront-service/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCatalog struct {
	products []model.Product
	err      error
}

func (f *fakeCatalog) ListProducts(_ context.Context, filters *dto.ProductFilters) ([]model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	ch, err := catalog.ParseChannel(filters.Channel)
	if err != nil {
		return nil, err
	}
	return catalog.Classify(f.products, ch, filters.SearchQuery), nil
}

func (f *fakeCatalog) GetProduct(_ context.Context, id string) (*model.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, catalog.ErrNotFound
}

func (f *fakeCatalog) RelatedProducts(_ context.Context, currentID string) ([]model.Product, error) {
	var out []model.Product
	for _, p := range f.products {
		if p.ID != currentID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeCatalog) InvalidateCache(context.Context) error { return nil }

type memoryOrders struct {
	mu     sync.Mutex
	orders []model.OrderDraft
}

func (m *memoryOrders) Append(_ context.Context, o model.OrderDraft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append([]model.OrderDraft{o}, m.orders...)
	return nil
}

func (m *memoryOrders) List(context.Context, int) ([]model.OrderDraft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]model.OrderDraft(nil), m.orders...), nil
}

type testServer struct {
	router     *gin.Engine
	catalog    *fakeCatalog
	orders     *memoryOrders
	dispatcher *notify.Dispatcher
	sessionID  string
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	fees, err := delivery.DefaultTable()
	require.NoError(t, err)

	log := logger.NewNop()
	orders := &memoryOrders{}
	dispatcher := notify.NewDispatcher(orderlog.NewRecorder(orders), log)
	sessions := session.NewManager(session.Config{}, func(c *cart.Store, schedule checkout.Scheduler) *checkout.Machine {
		return checkout.NewMachine(checkout.Options{
			Cart:       c,
			Fees:       fees,
			Dispatcher: dispatcher,
			Schedule:   schedule,
			ResetDelay: time.Millisecond,
		})
	}, log)

	cat := &fakeCatalog{products: []model.Product{
		{ID: "p1", Name: "Pack Petit-déjeuner", SalePrice: decimal.RequireFromString("25.00"), Stock: 5},
		{ID: "p2", Name: "Croissant", SalePrice: decimal.RequireFromString("4.50"), Stock: 0},
		{ID: "p3", Name: "Gâteau personnalisé", SalePrice: decimal.RequireFromString("150"), IsOrderBased: true},
	}}

	h := NewStorefrontHandler(Options{
		Catalog:     cat,
		Sessions:    sessions,
		Fees:        fees,
		Orders:      orders,
		Hub:         notify.NewHub(log),
		AdminAPIKey: "secret",
		Logger:      log,
	})
	r := gin.New()
	h.Register(r)

	return &testServer{router: r, catalog: cat, orders: orders, dispatcher: dispatcher}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if s.sessionID != "" {
		req.Header.Set(SessionHeader, s.sessionID)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	if id := w.Header().Get(SessionHeader); id != "" {
		s.sessionID = id
	}
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func decimalField(t *testing.T, v any) decimal.Decimal {
	t.Helper()
	s, ok := v.(string)
	require.True(t, ok, "expected decimal string, got %T", v)
	return decimal.RequireFromString(s)
}

func TestListProducts(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products?channel=sur-commande", nil)
	require.Equal(t, http.StatusOK, w.Code)
	products := decode(t, w)["products"].([]any)
	require.Len(t, products, 1)
	assert.Equal(t, "p3", products[0].(map[string]any)["id"])
	assert.Equal(t, model.PlaceholderImage, products[0].(map[string]any)["image"])

	w = s.do(t, http.MethodGet, "/api/products?channel=promo", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	s.catalog.err = &catalog.FetchError{Op: "list", Err: errors.New("dial tcp: refused")}
	w = s.do(t, http.MethodGet, "/api/products", nil)
	assert.Equal(t, http.StatusBadGateway, w.Code)
}

func TestGetProduct(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/products/p1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "p1", body["product"].(map[string]any)["id"])
	assert.Len(t, body["related"], 2)

	w = s.do(t, http.MethodGet, "/api/products/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBuyNow_RefusesOutOfStock(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/products/p2/buy", nil)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, MsgOutOfStock, decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, float64(0), decode(t, w)["cart"].(map[string]any)["count"])
}

func TestAddToCart_RefusesOutOfStock(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": "p2", "quantity": 1})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, MsgOutOfStock, decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, float64(0), decode(t, w)["cart"].(map[string]any)["count"])
}

func TestBuyNow_OpensCheckout(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/products/p1/buy", map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	ui := decode(t, w)["ui"].(map[string]any)
	assert.Equal(t, "checkout", ui["active"])
}

func TestCheckoutFlow(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/products/p1/add", map[string]int{"quantity": 2})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode(t, w)["ui"].(map[string]any)["is_cart_open"])

	w = s.do(t, http.MethodGet, "/api/delivery/quote?city=rabat", nil)
	quote := decode(t, w)["quote"].(map[string]any)
	assert.True(t, decimalField(t, quote["total"]).Equal(decimal.NewFromInt(70)))

	w = s.do(t, http.MethodPost, "/api/checkout", checkout.Form{
		Name: "Salma", Phone: "0612345678", Address: "12 rue des Fleurs", City: "Rabat",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	body := decode(t, w)
	assert.Equal(t, "succeeded", body["state"])
	order := body["order"].(map[string]any)
	assert.True(t, decimalField(t, order["total"]).Equal(decimal.NewFromInt(70)))
	assert.Equal(t, float64(0), body["cart"].(map[string]any)["count"])

	w = s.do(t, http.MethodPost, "/api/checkout", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, s.dispatcher.Wait(ctx))

	adminReq := httptest.NewRequest(http.MethodGet, "/admin/orders", nil)
	adminReq.Header.Set(APIKeyHeader, "secret")
	aw := httptest.NewRecorder()
	s.router.ServeHTTP(aw, adminReq)
	require.Equal(t, http.StatusOK, aw.Code)
	assert.Len(t, decode(t, aw)["orders"], 1)

	w = s.do(t, http.MethodPost, "/api/checkout/dismiss", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Eventually(t, func() bool {
		return decode(t, s.do(t, http.MethodGet, "/api/checkout", nil))["state"] == "idle"
	}, time.Second, 5*time.Millisecond)
}

func TestSubmitOrder_EmptyCart(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/checkout", checkout.Form{
		Name: "Salma", Phone: "0612345678", Address: "12 rue des Fleurs", City: "Rabat",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, checkout.MsgEmptyCart, decode(t, w)["error"])

	w = s.do(t, http.MethodGet, "/api/checkout", nil)
	body := decode(t, w)
	assert.Equal(t, "failed", body["state"])
	assert.Equal(t, "Salma", body["form"].(map[string]any)["name"])
}

func TestCartEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": "p1", "quantity": 0})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = s.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": "p1", "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPut, "/api/cart/items/p1", map[string]int{"quantity": 1})
	cartView := decode(t, w)["cart"].(map[string]any)
	assert.Equal(t, float64(1), cartView["count"])
	assert.True(t, decimalField(t, cartView["total"]).Equal(decimal.NewFromInt(25)))

	w = s.do(t, http.MethodPut, "/api/cart/items/p1", map[string]int{"quantity": 0})
	assert.Empty(t, decode(t, w)["cart"].(map[string]any)["items"])

	w = s.do(t, http.MethodPost, "/api/cart/items", map[string]any{"product_id": "ghost", "quantity": 1})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUIEndpoints(t *testing.T) {
	s := newTestServer(t)

	s.do(t, http.MethodPost, "/api/ui/search/open", nil)
	w := s.do(t, http.MethodPut, "/api/ui/search", map[string]string{"term": "pack"})
	assert.Equal(t, "pack", decode(t, w)["ui"].(map[string]any)["search_term"])

	w = s.do(t, http.MethodPost, "/api/ui/search/close", nil)
	ui := decode(t, w)["ui"].(map[string]any)
	assert.Equal(t, "", ui["search_term"])
	assert.Equal(t, "none", ui["active"])

	w = s.do(t, http.MethodPost, "/api/ui/cart/toggle", nil)
	assert.Equal(t, "cart", decode(t, w)["ui"].(map[string]any)["active"])

	w = s.do(t, http.MethodPost, "/api/ui/checkout/toggle", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionIsolation(t *testing.T) {
	s := newTestServer(t)
	s.do(t, http.MethodPost, "/api/products/p1/add", nil)
	first := s.sessionID

	s.sessionID = ""
	w := s.do(t, http.MethodGet, "/api/cart", nil)
	assert.NotEqual(t, first, s.sessionID)
	assert.Equal(t, float64(0), decode(t, w)["cart"].(map[string]any)["count"])
}

func TestAdminRequiresAPIKey(t *testing.T) {
	s := newTestServer(t)

	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/orders", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/admin/orders/export", nil)
	req.Header.Set(APIKeyHeader, "secret")
	w = httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "commandes.xlsx")
}

func TestListCities(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodGet, "/api/delivery/cities", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, decode(t, w)["cities"], "Casablanca")
}
