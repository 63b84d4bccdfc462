package customer

import (
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CustomerCreatedEvent is raised when a customer is registered
type CustomerCreatedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID `json:"customer_id"`
	FullName   string    `json:"full_name"`
	Email      string    `json:"email,omitempty"`
}

// EventType returns the event type name
func (e *CustomerCreatedEvent) EventType() string {
	return "CustomerCreated"
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CustomerCreated", "Customer", c.ID),
		CustomerID:      c.ID,
		FullName:        c.FullName(),
		Email:           c.Email,
	}
}

// CustomerSettlementRecordedEvent is raised when a settlement payment is
// recorded against the customer's cumulative spend
type CustomerSettlementRecordedEvent struct {
	shared.BaseDomainEvent
	CustomerID uuid.UUID       `json:"customer_id"`
	Amount     decimal.Decimal `json:"amount"`
	TotalSpent decimal.Decimal `json:"total_spent"`
}

// EventType returns the event type name
func (e *CustomerSettlementRecordedEvent) EventType() string {
	return "CustomerSettlementRecorded"
}

// NewCustomerSettlementRecordedEvent creates a new CustomerSettlementRecordedEvent
func NewCustomerSettlementRecordedEvent(c *Customer, amount valueobject.Money) *CustomerSettlementRecordedEvent {
	return &CustomerSettlementRecordedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("CustomerSettlementRecorded", "Customer", c.ID),
		CustomerID:      c.ID,
		Amount:          amount.Amount(),
		TotalSpent:      c.TotalSpent,
	}
}
