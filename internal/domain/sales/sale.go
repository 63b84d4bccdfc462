package sales

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentMethod represents how a sale or settlement was paid
type PaymentMethod string

const (
	PaymentMethodCash          PaymentMethod = "cash"
	PaymentMethodCreditCard    PaymentMethod = "credit_card"
	PaymentMethodDebitCard     PaymentMethod = "debit_card"
	PaymentMethodMobilePayment PaymentMethod = "mobile_payment"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCreditCard, PaymentMethodDebitCard, PaymentMethodMobilePayment:
		return true
	}
	return false
}

// String returns the string representation of PaymentMethod
func (m PaymentMethod) String() string {
	return string(m)
}

// AllPaymentMethods returns all valid payment methods
func AllPaymentMethods() []PaymentMethod {
	return []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodCreditCard,
		PaymentMethodDebitCard,
		PaymentMethodMobilePayment,
	}
}

// SaleStatus represents the lifecycle state of a sale
type SaleStatus string

const (
	SaleStatusCompleted      SaleStatus = "completed"       // Fully paid, remaining = 0
	SaleStatusPartialPayment SaleStatus = "partial_payment" // Partially paid, remaining > 0
	SaleStatusRefunded       SaleStatus = "refunded"        // Fully refunded
	SaleStatusPartialRefund  SaleStatus = "partial_refund"  // Partially refunded
	SaleStatusCancelled      SaleStatus = "cancelled"       // Cancelled before any payment
)

// IsValid checks if the status is a valid SaleStatus
func (s SaleStatus) IsValid() bool {
	switch s {
	case SaleStatusCompleted, SaleStatusPartialPayment, SaleStatusRefunded,
		SaleStatusPartialRefund, SaleStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of SaleStatus
func (s SaleStatus) String() string {
	return string(s)
}

// IsTerminal returns true if the sale is in a terminal state
func (s SaleStatus) IsTerminal() bool {
	return s == SaleStatusRefunded || s == SaleStatusCancelled
}

// CanApplyPayment returns true if settlement payments can be applied in this status.
// Only sales that still carry a balance participate in settlement.
func (s SaleStatus) CanApplyPayment() bool {
	return s == SaleStatusPartialPayment
}

// SaleItem is a line item within a sale, a value object stored as JSON
type SaleItem struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Amount      decimal.Decimal `json:"amount"`
}

// SaleItems is a slice of SaleItem implementing GORM Scanner/Valuer for JSON storage
type SaleItems []SaleItem

// Value implements driver.Valuer for GORM to store as JSONB
func (s SaleItems) Value() (driver.Value, error) {
	if s == nil {
		return "[]", nil
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (s *SaleItems) Scan(value interface{}) error {
	if value == nil {
		*s = SaleItems{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan SaleItems: unsupported type")
	}

	if len(bytes) == 0 {
		*s = SaleItems{}
		return nil
	}

	return json.Unmarshal(bytes, s)
}

// SettlementRecord is a payment applied to the sale after checkout,
// a value object within the Sale aggregate stored as JSON
type SettlementRecord struct {
	ID        uuid.UUID       `json:"id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
	AppliedAt time.Time       `json:"applied_at"`
}

// SettlementRecords is a slice of SettlementRecord implementing GORM Scanner/Valuer
type SettlementRecords []SettlementRecord

// Value implements driver.Valuer for GORM to store as JSONB
func (r SettlementRecords) Value() (driver.Value, error) {
	if r == nil {
		return "[]", nil
	}
	return json.Marshal(r)
}

// Scan implements sql.Scanner for GORM to read from JSONB
func (r *SettlementRecords) Scan(value interface{}) error {
	if value == nil {
		*r = SettlementRecords{}
		return nil
	}

	var bytes []byte
	switch v := value.(type) {
	case []byte:
		bytes = v
	case string:
		bytes = []byte(v)
	default:
		return errors.New("failed to scan SettlementRecords: unsupported type")
	}

	if len(bytes) == 0 {
		*r = SettlementRecords{}
		return nil
	}

	return json.Unmarshal(bytes, r)
}

// Sale represents a point-of-sale transaction aggregate root.
// Invariant: RemainingAmount = TotalAmount - PaidAmount and is never negative.
type Sale struct {
	shared.BaseAggregateRoot
	CustomerID      *uuid.UUID        `json:"customer_id"` // nil for anonymous walk-in sales
	CashierID       uuid.UUID         `json:"cashier_id"`
	Items           SaleItems         `json:"items"`
	Subtotal        decimal.Decimal   `json:"subtotal"`
	TaxAmount       decimal.Decimal   `json:"tax_amount"`
	TotalAmount     decimal.Decimal   `json:"total_amount"`
	PaymentMethod   PaymentMethod     `json:"payment_method"`
	Status          SaleStatus        `json:"status"`
	PaidAmount      decimal.Decimal   `json:"paid_amount"`
	RemainingAmount decimal.Decimal   `json:"remaining_amount"`
	RefundedAmount  decimal.Decimal   `json:"refunded_amount"`
	Settlements     SettlementRecords `json:"settlements"`
	CancelReason    string            `json:"cancel_reason,omitempty"`
}

// NewSaleItem creates a validated sale line item
func NewSaleItem(productID uuid.UUID, productName string, quantity int, unitPrice decimal.Decimal) (SaleItem, error) {
	if productID == uuid.Nil {
		return SaleItem{}, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 1 {
		return SaleItem{}, shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
	}
	if unitPrice.IsNegative() {
		return SaleItem{}, shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
	}
	return SaleItem{
		ProductID:   productID,
		ProductName: productName,
		Quantity:    quantity,
		UnitPrice:   unitPrice,
		Amount:      unitPrice.Mul(decimal.NewFromInt(int64(quantity))),
	}, nil
}

// NewSaleFromCheckout builds a sale from a cart at the register.
//
// The total is subtotal plus tax at the given rate, rounded half-up to two
// decimal places only at the end. When the tendered amount covers the total
// the sale completes and the surplus is returned as change; otherwise the
// sale opens with a partial_payment balance. Change is never persisted.
func NewSaleFromCheckout(
	customerID *uuid.UUID,
	cashierID uuid.UUID,
	items []SaleItem,
	taxRate decimal.Decimal,
	tendered valueobject.Money,
	method PaymentMethod,
) (*Sale, valueobject.Money, error) {
	if len(items) == 0 {
		return nil, valueobject.ZeroUSD(), shared.ErrEmptyCart
	}
	if !method.IsValid() {
		return nil, valueobject.ZeroUSD(), shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}
	if taxRate.IsNegative() {
		return nil, valueobject.ZeroUSD(), shared.NewDomainError("INVALID_TAX_RATE", "Tax rate cannot be negative")
	}
	if tendered.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, valueobject.ZeroUSD(), shared.NewDomainError("INVALID_AMOUNT", "Tendered amount must be positive")
	}

	subtotal := decimal.Zero
	for _, item := range items {
		if item.Quantity < 1 {
			return nil, valueobject.ZeroUSD(), shared.NewDomainError("INVALID_QUANTITY", "Quantity must be at least 1")
		}
		if item.UnitPrice.IsNegative() {
			return nil, valueobject.ZeroUSD(), shared.NewDomainError("INVALID_PRICE", "Unit price cannot be negative")
		}
		subtotal = subtotal.Add(item.Amount)
	}

	// Round once, on the final total. TaxAmount is derived from the rounded
	// total so that subtotal + tax == total holds exactly.
	total := subtotal.Add(subtotal.Mul(taxRate)).Round(2)
	tax := total.Sub(subtotal)

	paid := decimal.Min(tendered.Amount(), total)
	remaining := total.Sub(paid)
	change := decimal.Max(decimal.Zero, tendered.Amount().Sub(total))

	status := SaleStatusPartialPayment
	if remaining.IsZero() {
		status = SaleStatusCompleted
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerID:        customerID,
		CashierID:         cashierID,
		Items:             items,
		Subtotal:          subtotal,
		TaxAmount:         tax,
		TotalAmount:       total,
		PaymentMethod:     method,
		Status:            status,
		PaidAmount:        paid,
		RemainingAmount:   remaining,
		RefundedAmount:    decimal.Zero,
		Settlements:       SettlementRecords{},
	}

	sale.AddDomainEvent(NewSaleCreatedEvent(sale))

	return sale, valueobject.NewMoneyUSD(change), nil
}

// ApplyPayment applies a settlement payment to the sale.
// The amount must not exceed the remaining balance; the settlement
// coordinator guarantees this by allocating before applying.
func (s *Sale) ApplyPayment(amount valueobject.Money, method PaymentMethod) error {
	if !s.Status.CanApplyPayment() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot apply payment to sale in %s status", s.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Payment amount must be positive")
	}
	if amount.Amount().GreaterThan(s.RemainingAmount) {
		return shared.NewDomainError("EXCEEDS_REMAINING", fmt.Sprintf("Payment amount %s exceeds remaining balance %s", amount.StringFixed(2), s.RemainingAmount.StringFixed(2)))
	}
	if !method.IsValid() {
		return shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", method))
	}

	s.Settlements = append(s.Settlements, SettlementRecord{
		ID:        uuid.New(),
		Amount:    amount.Amount(),
		Method:    method,
		AppliedAt: time.Now(),
	})

	s.PaidAmount = s.PaidAmount.Add(amount.Amount())
	s.RemainingAmount = s.TotalAmount.Sub(s.PaidAmount)

	if s.RemainingAmount.IsZero() {
		s.Status = SaleStatusCompleted
		s.AddDomainEvent(NewSaleSettledEvent(s))
	} else {
		s.AddDomainEvent(NewSalePaymentAppliedEvent(s, amount))
	}

	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Refund refunds part or all of the amount paid on the sale
func (s *Sale) Refund(amount valueobject.Money) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot refund sale in %s status", s.Status))
	}
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_AMOUNT", "Refund amount must be positive")
	}
	refundable := s.PaidAmount.Sub(s.RefundedAmount)
	if amount.Amount().GreaterThan(refundable) {
		return shared.NewDomainError("EXCEEDS_PAID", fmt.Sprintf("Refund amount %s exceeds refundable amount %s", amount.StringFixed(2), refundable.StringFixed(2)))
	}

	s.RefundedAmount = s.RefundedAmount.Add(amount.Amount())

	if s.RefundedAmount.Equal(s.PaidAmount) {
		s.Status = SaleStatusRefunded
		// A fully refunded sale no longer carries a collectible balance
		s.RemainingAmount = decimal.Zero
	} else {
		s.Status = SaleStatusPartialRefund
	}

	s.AddDomainEvent(NewSaleRefundedEvent(s, amount))

	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	return nil
}

// Cancel cancels the sale, only allowed before any payment has been taken
func (s *Sale) Cancel(reason string) error {
	if s.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel sale in %s status", s.Status))
	}
	if s.PaidAmount.GreaterThan(decimal.Zero) {
		return shared.NewDomainError("HAS_PAYMENTS", "Cannot cancel sale with existing payments")
	}
	if reason == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}

	s.Status = SaleStatusCancelled
	s.CancelReason = reason
	s.RemainingAmount = decimal.Zero
	s.UpdatedAt = time.Now()
	s.IncrementVersion()

	s.AddDomainEvent(NewSaleCancelledEvent(s))

	return nil
}

// Helper methods

// GetTotalMoney returns the total as Money
func (s *Sale) GetTotalMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.TotalAmount)
}

// GetPaidMoney returns the paid amount as Money
func (s *Sale) GetPaidMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.PaidAmount)
}

// GetRemainingMoney returns the remaining balance as Money
func (s *Sale) GetRemainingMoney() valueobject.Money {
	return valueobject.NewMoneyUSD(s.RemainingAmount)
}

// IsCompleted returns true if the sale is fully paid
func (s *Sale) IsCompleted() bool {
	return s.Status == SaleStatusCompleted
}

// IsPartiallyPaid returns true if the sale still carries a balance
func (s *Sale) IsPartiallyPaid() bool {
	return s.Status == SaleStatusPartialPayment
}

// SettlementCount returns the number of settlement payments applied
func (s *Sale) SettlementCount() int {
	return len(s.Settlements)
}
