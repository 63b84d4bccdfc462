package sales

import (
	"context"
	"time"

	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleFilter defines filtering options for sale queries
type SaleFilter struct {
	shared.Filter
	CustomerID    *uuid.UUID     // Filter by customer
	CashierID     *uuid.UUID     // Filter by cashier
	Status        *SaleStatus    // Filter by status
	PaymentMethod *PaymentMethod // Filter by payment method
	FromDate      *time.Time     // Filter by creation date range start
	ToDate        *time.Time     // Filter by creation date range end
}

// DailySummary aggregates one day of register activity
type DailySummary struct {
	Date         time.Time                         `json:"date"`
	SaleCount    int64                             `json:"sale_count"`
	GrossSales   decimal.Decimal                   `json:"gross_sales"`
	CollectedTax decimal.Decimal                   `json:"collected_tax"`
	Outstanding  decimal.Decimal                   `json:"outstanding"`
	MethodTotals map[PaymentMethod]decimal.Decimal `json:"method_totals"`
}

// SaleRepository defines the persistence interface for sales
type SaleRepository interface {
	// FindByID finds a sale by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll finds sales with filtering
	FindAll(ctx context.Context, filter SaleFilter) ([]Sale, error)

	// FindByCustomer finds sales for a customer
	FindByCustomer(ctx context.Context, customerID uuid.UUID, filter SaleFilter) ([]Sale, error)

	// FindOutstandingByCustomer finds the customer's partially paid sales,
	// ordered oldest first
	FindOutstandingByCustomer(ctx context.Context, customerID uuid.UUID) ([]Sale, error)

	// SumOutstandingByCustomer sums the remaining balance across the
	// customer's partially paid sales
	SumOutstandingByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error)

	// SummarizeDay aggregates sales for a calendar day
	SummarizeDay(ctx context.Context, day time.Time) (*DailySummary, error)

	// Save creates or updates a sale
	Save(ctx context.Context, sale *Sale) error

	// SaveWithLock saves with optimistic locking (version check)
	SaveWithLock(ctx context.Context, sale *Sale) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter SaleFilter) (int64, error)
}
