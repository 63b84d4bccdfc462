package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	salesapp "github.com/boutiquepos/backend/internal/application/sales"
	"github.com/boutiquepos/backend/internal/domain/sales"
)

// SettlementHandler applies payments against customers' outstanding balances
type SettlementHandler struct {
	BaseHandler
	settlementService *salesapp.SettlementService
}

// NewSettlementHandler creates a new SettlementHandler
func NewSettlementHandler(settlementService *salesapp.SettlementService) *SettlementHandler {
	return &SettlementHandler{settlementService: settlementService}
}

// RegisterRoutes registers settlement routes
func (h *SettlementHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/customers/:id/settlements", h.Settle)
	rg.POST("/customers/:id/settlements/full", h.SettleAll)
	rg.GET("/customers/:id/balance", h.Balance)
}

// SettlementRequest represents a payment against a customer's balance
type SettlementRequest struct {
	Amount        float64 `json:"amount" binding:"required"`
	PaymentMethod string  `json:"payment_method" binding:"required,oneof=cash credit_card debit_card mobile_payment"`
}

// SettleAllRequest pays off everything the customer owes
type SettleAllRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash credit_card debit_card mobile_payment"`
}

// Settle handles POST /customers/:id/settlements. A client retry with the
// same X-Idempotency-Key is rejected rather than applied twice.
func (h *SettlementHandler) Settle(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req SettlementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.settlementService.SettlePayment(c.Request.Context(), salesapp.SettlementRequest{
		CustomerID:     customerID,
		Amount:         decimal.NewFromFloat(req.Amount),
		Method:         sales.PaymentMethod(req.PaymentMethod),
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"),
	})
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// SettleAll handles POST /customers/:id/settlements/full
func (h *SettlementHandler) SettleAll(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	var req SettleAllRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.settlementService.SettleAll(
		c.Request.Context(),
		customerID,
		sales.PaymentMethod(req.PaymentMethod),
		c.GetHeader("X-Idempotency-Key"),
	)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Balance handles GET /customers/:id/balance
func (h *SettlementHandler) Balance(c *gin.Context) {
	customerID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid customer ID format")
		return
	}

	balance, err := h.settlementService.Balance(c.Request.Context(), customerID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, balance)
}
