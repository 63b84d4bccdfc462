package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	salesapp "github.com/boutiquepos/backend/internal/application/sales"
	"github.com/boutiquepos/backend/internal/domain/sales"
)

// CheckoutHandler rings up carts at the register
type CheckoutHandler struct {
	BaseHandler
	checkoutService *salesapp.CheckoutService
}

// NewCheckoutHandler creates a new CheckoutHandler
func NewCheckoutHandler(checkoutService *salesapp.CheckoutService) *CheckoutHandler {
	return &CheckoutHandler{checkoutService: checkoutService}
}

// RegisterRoutes registers checkout routes
func (h *CheckoutHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/sales/checkout", h.Checkout)
}

// CheckoutItemRequest is one cart line in a checkout request
type CheckoutItemRequest struct {
	ProductID string `json:"product_id" binding:"required,uuid"`
	Quantity  int    `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest represents a cart presented at the register
type CheckoutRequest struct {
	CustomerID     *string               `json:"customer_id" binding:"omitempty,uuid"`
	CashierID      string                `json:"cashier_id" binding:"required,uuid"`
	Items          []CheckoutItemRequest `json:"items" binding:"required,min=1,dive"`
	TenderedAmount float64               `json:"tendered_amount" binding:"required"`
	PaymentMethod  string                `json:"payment_method" binding:"required,oneof=cash credit_card debit_card mobile_payment"`
}

// Checkout handles POST /sales/checkout
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cashierID, err := uuid.Parse(req.CashierID)
	if err != nil {
		h.BadRequest(c, "Invalid cashier ID format")
		return
	}

	appReq := salesapp.CheckoutRequest{
		CashierID:      cashierID,
		TenderedAmount: decimal.NewFromFloat(req.TenderedAmount),
		Method:         sales.PaymentMethod(req.PaymentMethod),
	}

	if req.CustomerID != nil {
		customerID, err := uuid.Parse(*req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		appReq.CustomerID = &customerID
	}

	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			h.BadRequest(c, "Invalid product ID format")
			return
		}
		appReq.Items = append(appReq.Items, salesapp.CheckoutItem{
			ProductID: productID,
			Quantity:  item.Quantity,
		})
	}

	result, err := h.checkoutService.Checkout(c.Request.Context(), appReq)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, result)
}
