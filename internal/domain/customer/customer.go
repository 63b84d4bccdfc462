package customer

import (
	"fmt"
	"strings"
	"time"

	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Customer represents a boutique customer aggregate root.
// TotalSpent is the money actually collected from the customer and only
// ever grows; the outstanding balance is never stored here, it is derived
// from the customer's partially paid sales.
type Customer struct {
	shared.BaseAggregateRoot
	FirstName     string          `json:"first_name"`
	LastName      string          `json:"last_name"`
	Email         string          `json:"email,omitempty"`
	Phone         string          `json:"phone,omitempty"`
	Address       string          `json:"address,omitempty"`
	LoyaltyPoints int             `json:"loyalty_points"`
	Visits        int             `json:"visits"`
	TotalSpent    decimal.Decimal `json:"total_spent"`
	LastVisit     *time.Time      `json:"last_visit,omitempty"`
	Notes         string          `json:"notes,omitempty"`
}

// NewCustomer creates a new customer
func NewCustomer(firstName, lastName, email, phone string) (*Customer, error) {
	if strings.TrimSpace(firstName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "First name cannot be empty")
	}
	if strings.TrimSpace(lastName) == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Last name cannot be empty")
	}
	if email != "" && !strings.Contains(email, "@") {
		return nil, shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}

	c := &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		FirstName:         firstName,
		LastName:          lastName,
		Email:             email,
		Phone:             phone,
		LoyaltyPoints:     0,
		Visits:            0,
		TotalSpent:        decimal.Zero,
	}

	c.AddDomainEvent(NewCustomerCreatedEvent(c))

	return c, nil
}

// FullName returns the customer's display name
func (c *Customer) FullName() string {
	return fmt.Sprintf("%s %s", c.FirstName, c.LastName)
}

// RecordSale updates the customer's stats after a checkout.
// Loyalty accrues one point per whole currency unit of the sale total;
// TotalSpent grows by the amount actually collected at the register.
func (c *Customer) RecordSale(collected, total valueobject.Money) error {
	if collected.IsNegative() {
		return shared.NewDomainError("INVALID_AMOUNT", "Collected amount cannot be negative")
	}

	now := time.Now()
	c.Visits++
	c.LastVisit = &now
	c.LoyaltyPoints += int(total.Amount().IntPart())
	c.TotalSpent = c.TotalSpent.Add(collected.Amount())
	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// RecordSettlement records money collected against the customer's
// outstanding balance. TotalSpent must never decrease, so the amount is
// required to be positive.
func (c *Customer) RecordSettlement(amount valueobject.Money) error {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}

	c.TotalSpent = c.TotalSpent.Add(amount.Amount())
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	c.AddDomainEvent(NewCustomerSettlementRecordedEvent(c, amount))

	return nil
}

// UpdateContact updates the customer's contact details
func (c *Customer) UpdateContact(email, phone, address string) error {
	if email != "" && !strings.Contains(email, "@") {
		return shared.NewDomainError("INVALID_EMAIL", "Email address is not valid")
	}

	c.Email = email
	c.Phone = phone
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Rename updates the customer's name
func (c *Customer) Rename(firstName, lastName string) error {
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return shared.NewDomainError("INVALID_NAME", "Name cannot be empty")
	}

	c.FirstName = firstName
	c.LastName = lastName
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// GetTotalSpentMoney returns the cumulative spend as Money
func (c *Customer) GetTotalSpentMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(c.TotalSpent)
}
