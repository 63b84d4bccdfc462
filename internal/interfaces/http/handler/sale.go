package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	salesapp "github.com/boutiquepos/backend/internal/application/sales"
	"github.com/boutiquepos/backend/internal/domain/sales"
)

// SaleHandler serves sale lookups, refunds, cancellations and reports
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{saleService: saleService}
}

// RegisterRoutes registers sale routes
func (h *SaleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/sales", h.List)
	rg.GET("/sales/:id", h.GetByID)
	rg.POST("/sales/:id/refund", h.Refund)
	rg.POST("/sales/:id/cancel", h.Cancel)
	// Reports get their own prefix so future summaries need not hang off /sales
	rg.GET("/reports/daily-sales", h.DailyReport)
}

// SaleListRequest represents sale list query parameters
type SaleListRequest struct {
	Page          int    `form:"page" binding:"omitempty,min=1"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	CustomerID    string `form:"customer_id" binding:"omitempty,uuid"`
	CashierID     string `form:"cashier_id" binding:"omitempty,uuid"`
	Status        string `form:"status" binding:"omitempty,oneof=completed partial_payment refunded partial_refund cancelled"`
	PaymentMethod string `form:"payment_method" binding:"omitempty,oneof=cash credit_card debit_card mobile_payment"`
	From          string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To            string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// RefundRequest represents a refund against a sale
type RefundRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// CancelRequest carries the reason a sale was cancelled
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// List handles GET /sales
func (h *SaleHandler) List(c *gin.Context) {
	var req SaleListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	filter := sales.SaleFilter{}
	filter.Page = req.Page
	filter.PageSize = req.PageSize

	if req.CustomerID != "" {
		id, err := uuid.Parse(req.CustomerID)
		if err != nil {
			h.BadRequest(c, "Invalid customer ID format")
			return
		}
		filter.CustomerID = &id
	}
	if req.CashierID != "" {
		id, err := uuid.Parse(req.CashierID)
		if err != nil {
			h.BadRequest(c, "Invalid cashier ID format")
			return
		}
		filter.CashierID = &id
	}
	if req.Status != "" {
		status := sales.SaleStatus(req.Status)
		filter.Status = &status
	}
	if req.PaymentMethod != "" {
		method := sales.PaymentMethod(req.PaymentMethod)
		filter.PaymentMethod = &method
	}
	if req.From != "" {
		from, _ := time.Parse("2006-01-02", req.From)
		filter.FromDate = &from
	}
	if req.To != "" {
		to, _ := time.Parse("2006-01-02", req.To)
		to = to.Add(24 * time.Hour)
		filter.ToDate = &to
	}

	result, err := h.saleService.ListSales(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, result.Items, result.Total, result.Page, result.PageSize)
}

// GetByID handles GET /sales/:id
func (h *SaleHandler) GetByID(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	sale, err := h.saleService.GetSale(c.Request.Context(), saleID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// Refund handles POST /sales/:id/refund
func (h *SaleHandler) Refund(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req RefundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.RefundSale(c.Request.Context(), saleID, decimal.NewFromFloat(req.Amount))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// Cancel handles POST /sales/:id/cancel
func (h *SaleHandler) Cancel(c *gin.Context) {
	saleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID format")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.CancelSale(c.Request.Context(), saleID, req.Reason)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// DailyReport handles GET /reports/daily-sales. The date defaults to today
// when not given.
func (h *SaleHandler) DailyReport(c *gin.Context) {
	day := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			h.BadRequest(c, "Invalid date, expected YYYY-MM-DD")
			return
		}
		day = parsed
	}

	summary, err := h.saleService.DailySummary(c.Request.Context(), day)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
