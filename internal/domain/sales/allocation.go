package sales

import (
	"sort"
	"strings"
	"time"

	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationTarget represents an outstanding sale that a payment can be
// allocated against
type AllocationTarget struct {
	SaleID          uuid.UUID       // ID of the sale
	RemainingAmount decimal.Decimal // Balance still owed on the sale
	CreatedAt       time.Time       // Sale timestamp for FIFO ordering
}

// Allocation represents the portion of a payment assigned to one sale
type Allocation struct {
	SaleID uuid.UUID       // ID of the sale
	Amount decimal.Decimal // Amount to apply to this sale
}

// AllocationPlan is the complete outcome of allocating a payment across
// outstanding sales. It is a pure computation; nothing is persisted.
type AllocationPlan struct {
	Allocations        []Allocation    // Ordered allocations to apply
	TotalAllocated     decimal.Decimal // Total amount allocated
	UnallocatedAmount  decimal.Decimal // Amount left over after all targets are exhausted
	FullyAllocated     bool            // True if the whole payment was consumed
	SalesFullyPaid     []uuid.UUID     // Sales whose balance reaches zero
	SalesPartiallyPaid []uuid.UUID     // Sales that remain partially paid
}

// FIFOAllocator distributes a payment across outstanding sales oldest-first.
// Ties on the timestamp break by sale ID ascending so the plan is
// deterministic for identical input.
type FIFOAllocator struct{}

// NewFIFOAllocator creates a new FIFO allocator
func NewFIFOAllocator() *FIFOAllocator {
	return &FIFOAllocator{}
}

// Allocate computes how the given amount is applied across the targets
func (a *FIFOAllocator) Allocate(amount valueobject.Money, targets []AllocationTarget) (*AllocationPlan, error) {
	if amount.Amount().LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Allocation amount must be positive")
	}
	if len(targets) == 0 {
		return &AllocationPlan{
			Allocations:        make([]Allocation, 0),
			TotalAllocated:     decimal.Zero,
			UnallocatedAmount:  amount.Amount(),
			FullyAllocated:     false,
			SalesFullyPaid:     make([]uuid.UUID, 0),
			SalesPartiallyPaid: make([]uuid.UUID, 0),
		}, nil
	}

	// Sort a copy so the caller's slice is untouched
	sorted := make([]AllocationTarget, len(targets))
	copy(sorted, targets)
	sort.Slice(sorted, func(i, j int) bool {
		if !sorted[i].CreatedAt.Equal(sorted[j].CreatedAt) {
			return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
		}
		return strings.Compare(sorted[i].SaleID.String(), sorted[j].SaleID.String()) < 0
	})

	allocations := make([]Allocation, 0)
	fullyPaid := make([]uuid.UUID, 0)
	partiallyPaid := make([]uuid.UUID, 0)
	remaining := amount.Amount()
	totalAllocated := decimal.Zero

	for _, target := range sorted {
		if remaining.IsZero() {
			break
		}
		if target.RemainingAmount.LessThanOrEqual(decimal.Zero) {
			continue
		}

		allocAmount := decimal.Min(remaining, target.RemainingAmount)

		allocations = append(allocations, Allocation{
			SaleID: target.SaleID,
			Amount: allocAmount,
		})

		totalAllocated = totalAllocated.Add(allocAmount)
		remaining = remaining.Sub(allocAmount)

		if allocAmount.GreaterThanOrEqual(target.RemainingAmount) {
			fullyPaid = append(fullyPaid, target.SaleID)
		} else {
			partiallyPaid = append(partiallyPaid, target.SaleID)
		}
	}

	return &AllocationPlan{
		Allocations:        allocations,
		TotalAllocated:     totalAllocated,
		UnallocatedAmount:  remaining,
		FullyAllocated:     remaining.IsZero(),
		SalesFullyPaid:     fullyPaid,
		SalesPartiallyPaid: partiallyPaid,
	}, nil
}

// TargetsFromSales converts sales into allocation targets, keeping only those
// that can still receive payments
func TargetsFromSales(sales []Sale) []AllocationTarget {
	targets := make([]AllocationTarget, 0, len(sales))
	for _, s := range sales {
		if s.Status.CanApplyPayment() && s.RemainingAmount.GreaterThan(decimal.Zero) {
			targets = append(targets, AllocationTarget{
				SaleID:          s.ID,
				RemainingAmount: s.RemainingAmount,
				CreatedAt:       s.CreatedAt,
			})
		}
	}
	return targets
}

// TotalOutstanding sums the remaining balance across sales that can still
// receive payments. This is the single source of truth for a customer's
// derived balance.
func TotalOutstanding(sales []Sale) decimal.Decimal {
	total := decimal.Zero
	for _, s := range sales {
		if s.Status.CanApplyPayment() {
			total = total.Add(s.RemainingAmount)
		}
	}
	return total
}
