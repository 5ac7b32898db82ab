package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shashiranjanraj/fastfood-api/app/controllers"
	"github.com/shashiranjanraj/fastfood-api/app/models"
	"github.com/shashiranjanraj/fastfood-api/app/routes"
	"github.com/shashiranjanraj/fastfood-api/app/services"
	"github.com/shashiranjanraj/fastfood-api/pkg/cache"
	"github.com/shashiranjanraj/fastfood-api/pkg/metrics"
	"github.com/shashiranjanraj/fastfood-api/pkg/middleware"
	"github.com/shashiranjanraj/fastfood-api/pkg/reqid"
	"github.com/shashiranjanraj/fastfood-api/pkg/router"
	"github.com/shashiranjanraj/fastfood-api/pkg/ws"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const testAPIKey = "test-secret"

// newTestAPI wires the full route table onto an in-memory database and an
// in-memory cache, exactly as the server does minus the global middleware.
func newTestAPI(t *testing.T) (http.Handler, *gorm.DB, *cache.Memory) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}))

	store := cache.NewMemory()
	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Products: controllers.NewProductController(services.NewProductService(db, store), store),
		Orders:   controllers.NewOrderController(services.NewOrderService(db, store, nil, nil), store, ws.NewHub()),
		Admin:    controllers.NewAdminController(store),
		APIKey:   testAPIKey,
	})
	return r.Handler(), db, store
}

func doJSON(t *testing.T, h http.Handler, method, target, key string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var rd io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		rd = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, target, rd)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if key != "" {
		req.Header.Set(middleware.APIKeyHeader, key)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), "body: %s", rec.Body.String())
	return out
}

func seedCatalogProduct(t *testing.T, db *gorm.DB, name string, price int64) models.Product {
	t.Helper()
	p := models.Product{
		Name:      name,
		Price:     price,
		Category:  "Kebabs",
		Available: true,
		Brand:     models.BrandPlaneteKebab,
		Countries: models.CountryCodes{"SN"},
	}
	require.NoError(t, db.Create(&p).Error)
	return p
}

func TestReadsArePublicAndMutationsAreGated(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/products", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	payload := map[string]interface{}{
		"name": "Kebab", "price": 2500, "category": "Kebabs", "brand": "planete_kebab",
	}

	missing := doJSON(t, h, http.MethodPost, "/products", "", payload)
	wrong := doJSON(t, h, http.MethodPost, "/products", "nope", payload)

	assert.Equal(t, http.StatusUnauthorized, missing.Code)
	assert.Equal(t, http.StatusUnauthorized, wrong.Code)
	// A probing caller must not learn whether the key was absent or wrong.
	assert.Equal(t, missing.Body.String(), wrong.Body.String())

	body := decode(t, missing)
	assert.Equal(t, "unauthorized", body["error"])
}

func TestMutationsRequireJSONBody(t *testing.T) {
	h, _, _ := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/products", strings.NewReader("name=Kebab"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(middleware.APIKeyHeader, testAPIKey)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)
	assert.Equal(t, "unsupported_media_type", decode(t, rec)["error"])
}

func TestCreateProductDefaultsAndEcho(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/products", testAPIKey, map[string]interface{}{
		"name":     "Kebab Classique",
		"price":    2500,
		"category": "Kebabs",
		"brand":    "planete_kebab",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "product created", body["message"])

	product := body["product"].(map[string]interface{})
	assert.Equal(t, "Kebab Classique", product["name"])
	assert.Equal(t, float64(2500), product["price"])
	assert.Equal(t, true, product["available"])
	assert.Equal(t, []interface{}{"SN"}, product["available_in_countries"])
}

func TestCreateProductValidationErrors(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/products", testAPIKey, map[string]interface{}{
		"price": 2500, "category": "Kebabs", "brand": "planete_kebab",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "validation_error", body["error"])
	errs := body["message"].(map[string]interface{})
	assert.Contains(t, errs, "name")
}

func TestCreateProductRejectsUnknownBrand(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/products", testAPIKey, map[string]interface{}{
		"name": "Burger", "price": 2000, "category": "Burgers", "brand": "burger_king",
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "bad_request", body["error"])
	assert.Contains(t, body["message"], "invalid brand")
}

func TestShowProductNotFound(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/products/999999", "", nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "not_found", body["error"])
}

func TestProductListPagination(t *testing.T) {
	h, db, _ := newTestAPI(t)
	for i := 1; i <= 15; i++ {
		seedCatalogProduct(t, db, fmt.Sprintf("Item %02d", i), 1000)
	}

	rec := doJSON(t, h, http.MethodGet, "/products", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode(t, rec)
	assert.Len(t, body["products"], 10)
	pagination := body["pagination"].(map[string]interface{})
	assert.Equal(t, float64(1), pagination["page"])
	assert.Equal(t, float64(15), pagination["total"])
	assert.Equal(t, float64(2), pagination["pages"])

	rec = doJSON(t, h, http.MethodGet, "/products?page=2&limit=10", "", nil)
	body = decode(t, rec)
	assert.Len(t, body["products"], 5)
}

func TestProductCreateInvalidatesListCache(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/products", "", nil)
	body := decode(t, rec)
	assert.Len(t, body["products"], 0)

	rec = doJSON(t, h, http.MethodPost, "/products", testAPIKey, map[string]interface{}{
		"name": "Tacos Poulet", "price": 2800, "category": "Tacos", "brand": "planete_kebab",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	// The cached empty listing must be gone, not served for its TTL.
	rec = doJSON(t, h, http.MethodGet, "/products", "", nil)
	body = decode(t, rec)
	assert.Len(t, body["products"], 1)
}

func TestPlaceOrderComputesTotalServerSide(t *testing.T) {
	h, db, _ := newTestAPI(t)
	kebab := seedCatalogProduct(t, db, "Kebab Complet", 3000)

	rec := doJSON(t, h, http.MethodPost, "/orders", testAPIKey, map[string]interface{}{
		"customer_name": "Awa Diop",
		"mobile":        "+221771234567",
		"address":       "Ouakam, Dakar",
		"items": []map[string]interface{}{
			{"product_id": kebab.ID, "quantity": 2},
		},
		// A client-supplied total is ignored, never trusted.
		"total": 1,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, "order placed", body["message"])

	order := body["order"].(map[string]interface{})
	assert.Equal(t, float64(6000), order["total"])
	assert.Equal(t, "received", order["status"])
	assert.Len(t, order["items"], 1)
}

func TestPlaceOrderUnknownProduct(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodPost, "/orders", testAPIKey, map[string]interface{}{
		"customer_name": "Awa Diop",
		"mobile":        "+221771234567",
		"address":       "Ouakam, Dakar",
		"items": []map[string]interface{}{
			{"product_id": 424242, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["message"], "product not found")
}

func TestPlaceOrderValidatesPhone(t *testing.T) {
	h, db, _ := newTestAPI(t)
	kebab := seedCatalogProduct(t, db, "Kebab Classique", 2500)

	rec := doJSON(t, h, http.MethodPost, "/orders", testAPIKey, map[string]interface{}{
		"customer_name": "Awa Diop",
		"mobile":        "not-a-number",
		"address":       "Ouakam, Dakar",
		"items": []map[string]interface{}{
			{"product_id": kebab.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "validation_error", body["error"])
	errs := body["message"].(map[string]interface{})
	assert.Contains(t, errs, "mobile")
}

func TestOrderStatusUpdateVisibleAfterCachedRead(t *testing.T) {
	h, db, _ := newTestAPI(t)
	kebab := seedCatalogProduct(t, db, "Kebab Classique", 2500)

	rec := doJSON(t, h, http.MethodPost, "/orders", testAPIKey, map[string]interface{}{
		"customer_name": "Awa Diop",
		"mobile":        "+221771234567",
		"address":       "Ouakam, Dakar",
		"items": []map[string]interface{}{
			{"product_id": kebab.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := uint(decode(t, rec)["order"].(map[string]interface{})["id"].(float64))

	// Prime the cache with the freshly placed order.
	show := fmt.Sprintf("/orders/%d", orderID)
	rec = doJSON(t, h, http.MethodGet, show, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "received", decode(t, rec)["status"])

	rec = doJSON(t, h, http.MethodPut, show, testAPIKey, map[string]string{"status": "prepared"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "order status updated", decode(t, rec)["message"])

	rec = doJSON(t, h, http.MethodGet, show, "", nil)
	assert.Equal(t, "prepared", decode(t, rec)["status"])
}

func TestOrderStatusRejectsUnknownValue(t *testing.T) {
	h, db, _ := newTestAPI(t)
	kebab := seedCatalogProduct(t, db, "Kebab Classique", 2500)

	rec := doJSON(t, h, http.MethodPost, "/orders", testAPIKey, map[string]interface{}{
		"customer_name": "Awa Diop",
		"mobile":        "+221771234567",
		"address":       "Ouakam, Dakar",
		"items": []map[string]interface{}{
			{"product_id": kebab.ID, "quantity": 1},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	orderID := uint(decode(t, rec)["order"].(map[string]interface{})["id"].(float64))

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/orders/%d", orderID), testAPIKey,
		map[string]string{"status": "shipped"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOrderListFiltersByStatus(t *testing.T) {
	h, db, _ := newTestAPI(t)
	kebab := seedCatalogProduct(t, db, "Kebab Classique", 2500)

	for i := 0; i < 3; i++ {
		rec := doJSON(t, h, http.MethodPost, "/orders", testAPIKey, map[string]interface{}{
			"customer_name": "Awa Diop",
			"mobile":        "+221771234567",
			"address":       "Ouakam, Dakar",
			"items": []map[string]interface{}{
				{"product_id": kebab.ID, "quantity": 1},
			},
		})
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	rec := doJSON(t, h, http.MethodPut, "/orders/1", testAPIKey, map[string]string{"status": "delivered"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/orders?status=delivered", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Len(t, body["orders"], 1)

	rec = doJSON(t, h, http.MethodGet, "/orders?status=received", "", nil)
	body = decode(t, rec)
	assert.Len(t, body["orders"], 2)

	rec = doJSON(t, h, http.MethodGet, "/orders?status=bogus", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteProduct(t *testing.T) {
	h, db, _ := newTestAPI(t)
	kebab := seedCatalogProduct(t, db, "Kebab Classique", 2500)

	target := fmt.Sprintf("/products/%d", kebab.ID)
	rec := doJSON(t, h, http.MethodDelete, target, testAPIKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "product deleted", decode(t, rec)["message"])

	rec = doJSON(t, h, http.MethodDelete, target, testAPIKey, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCacheClearEndpoint(t *testing.T) {
	h, _, store := newTestAPI(t)

	doJSON(t, h, http.MethodGet, "/products", "", nil)
	doJSON(t, h, http.MethodGet, "/orders", "", nil)
	require.Greater(t, store.Len(), 0)

	rec := doJSON(t, h, http.MethodPost, "/cache/clear", testAPIKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "cache cleared", decode(t, rec)["message"])
	assert.Equal(t, 0, store.Len())

	// Scoped clear drops only the named resource.
	doJSON(t, h, http.MethodGet, "/products", "", nil)
	doJSON(t, h, http.MethodGet, "/orders", "", nil)
	rec = doJSON(t, h, http.MethodPost, "/cache/clear?prefix=products", testAPIKey, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, store.Len())
}

func TestUpdateProductRejectsNonPositivePrice(t *testing.T) {
	h, db, _ := newTestAPI(t)
	kebab := seedCatalogProduct(t, db, "Kebab Classique", 2500)

	rec := doJSON(t, h, http.MethodPut, fmt.Sprintf("/products/%d", kebab.ID), testAPIKey,
		map[string]interface{}{"price": 0})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	body := decode(t, rec)
	assert.Equal(t, "bad_request", body["error"])
	assert.Contains(t, body["message"], "price must be greater than 0")
}

func TestProductListRejectsBadAvailableFilter(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/products?available=banana", "", nil)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "bad_request", decode(t, rec)["error"])

	rec = doJSON(t, h, http.MethodGet, "/products?available=false", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStorageServesLocalImages(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}))

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "products"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "products", "kebab_abcd.png"), []byte("png-bytes"), 0o644))

	store := cache.NewMemory()
	r := router.New()
	routes.RegisterAPI(r, routes.Deps{
		Products:    controllers.NewProductController(services.NewProductService(db, store), store),
		Orders:      controllers.NewOrderController(services.NewOrderService(db, store, nil, nil), store, ws.NewHub()),
		Admin:       controllers.NewAdminController(store),
		APIKey:      testAPIKey,
		StorageRoot: root,
	})
	h := r.Handler()

	rec := doJSON(t, h, http.MethodGet, "/storage/products/kebab_abcd.png", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png-bytes", rec.Body.String())

	// No directory listings.
	rec = doJSON(t, h, http.MethodGet, "/storage/products/", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/storage/products/missing.png", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// The feed must upgrade through the same middleware chain the server runs,
// where the logging and metrics wrappers sit between gorilla and the raw
// connection.
func TestOrderFeedThroughFullMiddlewareChain(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Product{}, &models.Order{}))

	store := cache.NewMemory()
	hub := ws.NewHub()
	go hub.Run()

	r := router.New()
	r.Use(
		metrics.Middleware(),
		middleware.Recovery,
		reqid.Middleware(),
		middleware.Logger,
		middleware.CORS(middleware.DefaultCORSOptions()),
		middleware.RateLimit(100, time.Minute),
	)
	routes.RegisterAPI(r, routes.Deps{
		Products: controllers.NewProductController(services.NewProductService(db, store), store),
		Orders:   controllers.NewOrderController(services.NewOrderService(db, store, nil, hub), store, hub),
		Admin:    controllers.NewAdminController(store),
		APIKey:   testAPIKey,
	})

	srv := httptest.NewServer(r.Handler())
	defer srv.Close()

	feedURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/orders/feed"
	conn, resp, err := websocket.DefaultDialer.Dial(feedURL, nil)
	require.NoError(t, err, "upgrade must succeed behind the wrapping middleware")
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 },
		2*time.Second, 10*time.Millisecond)

	hub.Publish(ws.OrderEvent{Event: "order.created", OrderID: 7, Status: "received", Total: 2500})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)

	var ev ws.OrderEvent
	require.NoError(t, json.Unmarshal(msg, &ev))
	assert.Equal(t, "order.created", ev.Event)
	assert.Equal(t, uint(7), ev.OrderID)
	assert.Equal(t, int64(2500), ev.Total)
}

func TestHealthAndRoot(t *testing.T) {
	h, _, _ := newTestAPI(t)

	rec := doJSON(t, h, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decode(t, rec)["status"])

	rec = doJSON(t, h, http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "fastfood-api", decode(t, rec)["name"])
}
