package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	salesapp "github.com/boutiquepos/backend/internal/application/sales"
	"github.com/boutiquepos/backend/internal/domain/customer"
	"github.com/boutiquepos/backend/internal/domain/sales"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/interfaces/http/dto"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func makeOpenSale(t *testing.T, customerID uuid.UUID, total, paid float64, createdAt time.Time) sales.Sale {
	t.Helper()
	totalDec := decimal.NewFromFloat(total)
	paidDec := decimal.NewFromFloat(paid)
	s := sales.Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        &customerID,
		CashierID:         uuid.New(),
		Subtotal:          totalDec,
		TaxAmount:         decimal.Zero,
		TotalAmount:       totalDec,
		PaymentMethod:     sales.PaymentMethodCash,
		Status:            sales.SaleStatusPartialPayment,
		PaidAmount:        paidDec,
		RemainingAmount:   totalDec.Sub(paidDec),
	}
	s.CreatedAt = createdAt
	return s
}

func setupSettlementRouter(saleRepo *MockSaleRepository, customerRepo *MockCustomerRepository) *gin.Engine {
	svc := salesapp.NewSettlementService(saleRepo, customerRepo, nil, 0)
	engine := gin.New()
	NewSettlementHandler(svc).RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func decodeResponse(t *testing.T, body []byte) dto.Response {
	t.Helper()
	var resp dto.Response
	require.NoError(t, json.Unmarshal(body, &resp))
	return resp
}

func TestSettlementHandler_Settle(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	t.Run("applies a payment and returns the per-sale breakdown", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust, err := customer.NewCustomer("Ada", "Lovelace", "ada@example.com", "")
		require.NoError(t, err)

		open := makeOpenSale(t, cust.ID, 100, 40, base)
		customerRepo.On("FindByID", mock.Anything, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", mock.Anything, cust.ID).Return([]sales.Sale{open}, nil)
		saleRepo.On("SaveWithLock", mock.Anything, mock.AnythingOfType("*sales.Sale")).Return(nil)
		customerRepo.On("SaveWithLock", mock.Anything, cust).Return(nil)

		engine := setupSettlementRouter(saleRepo, customerRepo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/"+cust.ID.String()+"/settlements",
			strings.NewReader(`{"amount": 60, "payment_method": "cash"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		resp := decodeResponse(t, w.Body.Bytes())
		assert.True(t, resp.Success)

		data := resp.Data.(map[string]interface{})
		assert.Equal(t, cust.ID.String(), data["customer_id"])
		assert.Equal(t, "60", data["amount_applied"])
		settlements := data["settlements"].([]interface{})
		require.Len(t, settlements, 1)
	})

	t.Run("rejects an overpayment with 422", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		cust, err := customer.NewCustomer("Ada", "Lovelace", "ada@example.com", "")
		require.NoError(t, err)

		open := makeOpenSale(t, cust.ID, 100, 40, base) // owes 60
		customerRepo.On("FindByID", mock.Anything, cust.ID).Return(cust, nil)
		saleRepo.On("FindOutstandingByCustomer", mock.Anything, cust.ID).Return([]sales.Sale{open}, nil)

		engine := setupSettlementRouter(saleRepo, customerRepo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/"+cust.ID.String()+"/settlements",
			strings.NewReader(`{"amount": 60.01, "payment_method": "cash"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		resp := decodeResponse(t, w.Body.Bytes())
		assert.Equal(t, "OVERPAYMENT_REJECTED", resp.Error.Code)
		saleRepo.AssertNotCalled(t, "SaveWithLock", mock.Anything, mock.Anything)
	})

	t.Run("rejects a non-positive amount with 400", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		engine := setupSettlementRouter(saleRepo, customerRepo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/"+uuid.NewString()+"/settlements",
			strings.NewReader(`{"amount": -5, "payment_method": "cash"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		require.Equal(t, http.StatusBadRequest, w.Code)
		resp := decodeResponse(t, w.Body.Bytes())
		assert.Equal(t, "INVALID_AMOUNT", resp.Error.Code)
	})

	t.Run("rejects a malformed customer ID with 400", func(t *testing.T) {
		engine := setupSettlementRouter(new(MockSaleRepository), new(MockCustomerRepository))

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/not-a-uuid/settlements",
			strings.NewReader(`{"amount": 10, "payment_method": "cash"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("returns 404 for an unknown customer", func(t *testing.T) {
		saleRepo := new(MockSaleRepository)
		customerRepo := new(MockCustomerRepository)
		unknownID := uuid.New()
		customerRepo.On("FindByID", mock.Anything, unknownID).Return(nil, nil)

		engine := setupSettlementRouter(saleRepo, customerRepo)

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/v1/customers/"+unknownID.String()+"/settlements",
			strings.NewReader(`{"amount": 10, "payment_method": "cash"}`))
		req.Header.Set("Content-Type", "application/json")
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSettlementHandler_Balance(t *testing.T) {
	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

	saleRepo := new(MockSaleRepository)
	customerRepo := new(MockCustomerRepository)
	cust, err := customer.NewCustomer("Ada", "Lovelace", "ada@example.com", "")
	require.NoError(t, err)

	open := makeOpenSale(t, cust.ID, 100, 40, base)
	customerRepo.On("FindByID", mock.Anything, cust.ID).Return(cust, nil)
	saleRepo.On("FindOutstandingByCustomer", mock.Anything, cust.ID).Return([]sales.Sale{open}, nil)

	engine := setupSettlementRouter(saleRepo, customerRepo)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/customers/"+cust.ID.String()+"/balance", nil)
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	resp := decodeResponse(t, w.Body.Bytes())
	data := resp.Data.(map[string]interface{})
	assert.Equal(t, "60", data["total_owed"])
	assert.Len(t, data["outstanding_sales"], 1)
}
