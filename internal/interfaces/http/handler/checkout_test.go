package handler

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	salesapp "github.com/boutiquepos/backend/internal/application/sales"
	"github.com/boutiquepos/backend/internal/domain/catalog"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
)

func makeTestProduct(t *testing.T, sku string, price float64, stock int) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(sku, "Test "+sku, valueobject.NewMoneyUSDFromFloat(price), stock)
	require.NoError(t, err)
	return p
}

func setupCheckoutRouter(saleRepo *MockSaleRepository, customerRepo *MockCustomerRepository, productRepo *MockProductRepository) *gin.Engine {
	svc := salesapp.NewCheckoutService(saleRepo, customerRepo, productRepo, decimal.NewFromFloat(0.08))
	engine := gin.New()
	NewCheckoutHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func checkoutBody(productID uuid.UUID, quantity int, tendered float64) string {
	return fmt.Sprintf(`{
		"cashier_id": %q,
		"items": [{"product_id": %q, "quantity": %d}],
		"tendered_amount": %v,
		"payment_method": "cash"
	}`, uuid.NewString(), productID.String(), quantity, tendered)
}

func TestCheckoutHandler_Checkout(t *testing.T) {
	t.Run("rings up a cart and returns the change due", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		productRepo := new(MockProductRepository)

		shirt := makeTestProduct(t, "SHIRT-01", 50.00, 10)
		productRepo.On("FindByIDs", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).Return([]catalog.Product{*shirt}, nil)
		saleRepo.On("Save", mock.Anything, mock.AnythingOfType("*sales.Sale")).Return(nil)
		productRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*catalog.Product")).Return(nil)

		engine := setupCheckoutRouter(saleRepo, customerRepo, productRepo)

		// Two shirts: subtotal 100, 8% tax, total 108
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/checkout",
			strings.NewReader(checkoutBody(shirt.ID, 2, 120)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusCreated, w.Code)
		resp := decodeResponse(t, w.Body.Bytes())
		data := resp.Data.(map[string]interface{})
		assert.Equal(t, "12", data["change_due"])

		sale := data["sale"].(map[string]interface{})
		assert.Equal(t, "completed", sale["status"])
		assert.Equal(t, "108", sale["total_amount"])
	})

	t.Run("rejects insufficient stock with 422", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		productRepo := new(MockProductRepository)

		shirt := makeTestProduct(t, "SHIRT-01", 50.00, 1)
		productRepo.On("FindByIDs", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).Return([]catalog.Product{*shirt}, nil)

		engine := setupCheckoutRouter(saleRepo, customerRepo, productRepo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/checkout",
			strings.NewReader(checkoutBody(shirt.ID, 5, 500)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w.Body.Bytes())
		assert.Equal(t, "INSUFFICIENT_STOCK", resp.Error.Code)
		saleRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a zero tender with 400", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		productRepo := new(MockProductRepository)

		shirt := makeTestProduct(t, "SHIRT-01", 50.00, 10)
		productRepo.On("FindByIDs", mock.Anything, mock.AnythingOfType("[]uuid.UUID")).Return([]catalog.Product{*shirt}, nil)

		engine := setupCheckoutRouter(saleRepo, customerRepo, productRepo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/checkout",
			strings.NewReader(checkoutBody(shirt.ID, 1, -10)))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_AMOUNT", resp.Error.Code)
	})

	t.Run("rejects an empty cart at binding", func(t *testing.T) {
		engine := setupCheckoutRouter(new(MockSaleRepository), new(MockCustomerRepository), new(MockProductRepository))

		body := fmt.Sprintf(`{"cashier_id": %q, "items": [], "tendered_amount": 10, "payment_method": "cash"}`, uuid.NewString())
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w.Body.Bytes())
		assert.Equal(t, "BAD_REQUEST", resp.Error.Code)
	})

	t.Run("rejects an unknown payment method at binding", func(t *testing.T) {
		engine := setupCheckoutRouter(new(MockSaleRepository), new(MockCustomerRepository), new(MockProductRepository))

		body := fmt.Sprintf(`{"cashier_id": %q, "items": [{"product_id": %q, "quantity": 1}], "tendered_amount": 10, "payment_method": "barter"}`,
			uuid.NewString(), uuid.NewString())
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/sales/checkout", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
