package sales

import (
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleCreatedEvent is raised when a sale is rung up at the register
type SaleCreatedEvent struct {
	shared.BaseDomainEvent
	SaleID          uuid.UUID       `json:"sale_id"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          SaleStatus      `json:"status"`
	PaymentMethod   PaymentMethod   `json:"payment_method"`
}

// EventType returns the event type name
func (e *SaleCreatedEvent) EventType() string {
	return "SaleCreated"
}

// NewSaleCreatedEvent creates a new SaleCreatedEvent
func NewSaleCreatedEvent(s *Sale) *SaleCreatedEvent {
	return &SaleCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SaleCreated", "Sale", s.ID),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		TotalAmount:     s.TotalAmount,
		PaidAmount:      s.PaidAmount,
		RemainingAmount: s.RemainingAmount,
		Status:          s.Status,
		PaymentMethod:   s.PaymentMethod,
	}
}

// SalePaymentAppliedEvent is raised when a settlement payment reduces the
// balance without clearing it
type SalePaymentAppliedEvent struct {
	shared.BaseDomainEvent
	SaleID          uuid.UUID       `json:"sale_id"`
	CustomerID      *uuid.UUID      `json:"customer_id,omitempty"`
	PaymentAmount   decimal.Decimal `json:"payment_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
}

// EventType returns the event type name
func (e *SalePaymentAppliedEvent) EventType() string {
	return "SalePaymentApplied"
}

// NewSalePaymentAppliedEvent creates a new SalePaymentAppliedEvent
func NewSalePaymentAppliedEvent(s *Sale, amount valueobject.Money) *SalePaymentAppliedEvent {
	return &SalePaymentAppliedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SalePaymentApplied", "Sale", s.ID),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		PaymentAmount:   amount.Amount(),
		PaidAmount:      s.PaidAmount,
		RemainingAmount: s.RemainingAmount,
	}
}

// SaleSettledEvent is raised when the balance on a sale reaches zero
type SaleSettledEvent struct {
	shared.BaseDomainEvent
	SaleID      uuid.UUID       `json:"sale_id"`
	CustomerID  *uuid.UUID      `json:"customer_id,omitempty"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	PaidAmount  decimal.Decimal `json:"paid_amount"`
}

// EventType returns the event type name
func (e *SaleSettledEvent) EventType() string {
	return "SaleSettled"
}

// NewSaleSettledEvent creates a new SaleSettledEvent
func NewSaleSettledEvent(s *Sale) *SaleSettledEvent {
	return &SaleSettledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SaleSettled", "Sale", s.ID),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		TotalAmount:     s.TotalAmount,
		PaidAmount:      s.PaidAmount,
	}
}

// SaleRefundedEvent is raised when money is returned on a sale
type SaleRefundedEvent struct {
	shared.BaseDomainEvent
	SaleID         uuid.UUID       `json:"sale_id"`
	CustomerID     *uuid.UUID      `json:"customer_id,omitempty"`
	RefundAmount   decimal.Decimal `json:"refund_amount"`
	RefundedAmount decimal.Decimal `json:"refunded_amount"`
	Status         SaleStatus      `json:"status"`
}

// EventType returns the event type name
func (e *SaleRefundedEvent) EventType() string {
	return "SaleRefunded"
}

// NewSaleRefundedEvent creates a new SaleRefundedEvent
func NewSaleRefundedEvent(s *Sale, amount valueobject.Money) *SaleRefundedEvent {
	return &SaleRefundedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SaleRefunded", "Sale", s.ID),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		RefundAmount:    amount.Amount(),
		RefundedAmount:  s.RefundedAmount,
		Status:          s.Status,
	}
}

// SaleCancelledEvent is raised when a sale is voided before any payment
type SaleCancelledEvent struct {
	shared.BaseDomainEvent
	SaleID       uuid.UUID `json:"sale_id"`
	CustomerID   *uuid.UUID `json:"customer_id,omitempty"`
	CancelReason string    `json:"cancel_reason"`
}

// EventType returns the event type name
func (e *SaleCancelledEvent) EventType() string {
	return "SaleCancelled"
}

// NewSaleCancelledEvent creates a new SaleCancelledEvent
func NewSaleCancelledEvent(s *Sale) *SaleCancelledEvent {
	return &SaleCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("SaleCancelled", "Sale", s.ID),
		SaleID:          s.ID,
		CustomerID:      s.CustomerID,
		CancelReason:    s.CancelReason,
	}
}
