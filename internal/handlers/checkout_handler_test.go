package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go-shop-server/internal/database"
	"go-shop-server/internal/models"

	"github.com/gin-gonic/gin"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupHandlerTest(t *testing.T) *gorm.DB {
	t.Helper()
	gin.SetMode(gin.TestMode)
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.Seed(db); err != nil {
		t.Fatalf("seed: %v", err)
	}
	database.DB = db
	return db
}

// authAs stands in for the JWT middleware in tests.
func authAs(userID uint, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("userID", userID)
		c.Set("role", role)
		c.Next()
	}
}

func newTestRouter(userID uint) *gin.Engine {
	r := gin.New()
	api := r.Group("/api", authAs(userID, "customer"))
	api.POST("/checkout", ProcessCheckout)
	api.GET("/checkout/rates", GetExchangeRates)
	api.GET("/checkout/currencies", GetAvailableCurrencies)
	api.GET("/cart", GetCart)
	api.POST("/cart", AddToCart)
	api.DELETE("/cart/:productId", RemoveCartItem)
	return r
}

func doJSON(t *testing.T, r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func seedCheckoutFixtures(t *testing.T, db *gorm.DB) (models.Product, models.Address) {
	t.Helper()
	product := models.Product{Name: "Tumbler", Price: 80, StockQuantity: 10, IsActive: true}
	if err := db.Create(&product).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	addr := models.Address{
		UserID: 1, FullName: "Test Shopper", StreetAddress: "12 Mabini St",
		City: "Quezon City", Province: "Metro Manila", PostalCode: "1100", Country: "Philippines",
	}
	if err := db.Create(&addr).Error; err != nil {
		t.Fatalf("address: %v", err)
	}
	return product, addr
}

func TestProcessCheckoutSuccess(t *testing.T) {
	db := setupHandlerTest(t)
	product, addr := seedCheckoutFixtures(t, db)
	r := newTestRouter(1)

	body := fmt.Sprintf(`{"paymentMode":"COD","currencyCode":"PHP","cartItems":[{"productId":%d,"quantity":2}],"addressId":%d}`, product.ID, addr.ID)
	w := doJSON(t, r, http.MethodPost, "/api/checkout", body)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d body=%s", w.Code, w.Body.String())
	}

	var resp map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp["success"] != true {
		t.Fatalf("expected success envelope: %v", resp)
	}
	if resp["totalAmount"].(float64) != 160 {
		t.Fatalf("expected total 160 got %v", resp["totalAmount"])
	}
	if resp["orderId"] == nil || resp["transactionId"] == nil || resp["referenceCode"] == nil {
		t.Fatalf("missing receipt fields: %v", resp)
	}
	if !strings.HasPrefix(resp["referenceCode"].(string), "REF-") {
		t.Fatalf("bad reference code: %v", resp["referenceCode"])
	}
}

func TestProcessCheckoutBadRequest(t *testing.T) {
	db := setupHandlerTest(t)
	_, addr := seedCheckoutFixtures(t, db)
	r := newTestRouter(1)

	cases := []struct {
		name string
		body string
	}{
		{"empty cart", fmt.Sprintf(`{"paymentMode":"COD","cartItems":[],"addressId":%d}`, addr.ID)},
		{"bad payment mode", fmt.Sprintf(`{"paymentMode":"Barter","cartItems":[{"productId":1,"quantity":1}],"addressId":%d}`, addr.ID)},
		{"no address", `{"paymentMode":"COD","cartItems":[{"productId":1,"quantity":1}]}`},
		{"malformed json", `{"paymentMode":`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/api/checkout", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400 got %d body=%s", w.Code, w.Body.String())
			}
			var resp map[string]any
			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp["success"] != false || resp["message"] == nil {
				t.Fatalf("expected failure envelope: %v", resp)
			}
		})
	}
}

func TestProcessCheckoutStockConflict(t *testing.T) {
	db := setupHandlerTest(t)
	_, addr := seedCheckoutFixtures(t, db)
	scarce := models.Product{Name: "Rare", Price: 50, StockQuantity: 1, IsActive: true}
	if err := db.Create(&scarce).Error; err != nil {
		t.Fatalf("product: %v", err)
	}
	r := newTestRouter(1)

	body := fmt.Sprintf(`{"paymentMode":"COD","cartItems":[{"productId":%d,"quantity":2}],"addressId":%d}`, scarce.ID, addr.ID)
	w := doJSON(t, r, http.MethodPost, "/api/checkout", body)
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 got %d body=%s", w.Code, w.Body.String())
	}

	var resp map[string]any
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	msg, _ := resp["message"].(string)
	if !strings.Contains(msg, "insufficient stock") {
		t.Fatalf("conflict message should name the problem, got %q", msg)
	}
}

func TestGetExchangeRates(t *testing.T) {
	setupHandlerTest(t)
	r := newTestRouter(1)

	w := doJSON(t, r, http.MethodGet, "/api/checkout/rates", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}

	var resp struct {
		Success bool               `json:"success"`
		Rates   map[string]float64 `json:"rates"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Rates["PHP"] != 1.0 || resp.Rates["USD"] != 0.018 {
		t.Fatalf("unexpected rates: %+v", resp)
	}
}

func TestGetAvailableCurrencies(t *testing.T) {
	setupHandlerTest(t)
	r := newTestRouter(1)

	w := doJSON(t, r, http.MethodGet, "/api/checkout/currencies", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", w.Code)
	}
	var resp struct {
		Success    bool                  `json:"success"`
		Currencies []models.CurrencyCode `json:"currencies"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || len(resp.Currencies) < 2 {
		t.Fatalf("expected seeded currencies, got %+v", resp)
	}
}
