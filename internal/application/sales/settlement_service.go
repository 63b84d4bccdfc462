package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/boutiquepos/backend/internal/domain/customer"
	"github.com/boutiquepos/backend/internal/domain/sales"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SettlementService coordinates applying a customer payment across their
// outstanding sales. Allocation is FIFO and computed before any write; each
// sale and the customer are persisted with optimistic locking.
type SettlementService struct {
	saleRepo       sales.SaleRepository
	customerRepo   customer.CustomerRepository
	allocator      *sales.FIFOAllocator
	idempotency    shared.IdempotencyStore
	idempotencyTTL time.Duration
}

// NewSettlementService creates a new SettlementService.
// The idempotency store may be nil, in which case duplicate detection is off.
func NewSettlementService(
	saleRepo sales.SaleRepository,
	customerRepo customer.CustomerRepository,
	idempotency shared.IdempotencyStore,
	idempotencyTTL time.Duration,
) *SettlementService {
	if idempotencyTTL <= 0 {
		idempotencyTTL = shared.DefaultIdempotencyConfig().TTL
	}
	return &SettlementService{
		saleRepo:       saleRepo,
		customerRepo:   customerRepo,
		allocator:      sales.NewFIFOAllocator(),
		idempotency:    idempotency,
		idempotencyTTL: idempotencyTTL,
	}
}

// SettlementRequest represents a request to settle part of a customer's balance
type SettlementRequest struct {
	CustomerID     uuid.UUID
	Amount         decimal.Decimal
	Method         sales.PaymentMethod
	IdempotencyKey string // Optional, protects against client retries
}

// SaleSettlement describes what a settlement did to a single sale
type SaleSettlement struct {
	SaleID          uuid.UUID        `json:"sale_id"`
	AppliedAmount   decimal.Decimal  `json:"applied_amount"`
	RemainingAmount decimal.Decimal  `json:"remaining_amount"`
	Status          sales.SaleStatus `json:"status"`
}

// SettlementResult represents the outcome of a settlement
type SettlementResult struct {
	CustomerID    uuid.UUID        `json:"customer_id"`
	AmountApplied decimal.Decimal  `json:"amount_applied"`
	Settlements   []SaleSettlement `json:"settlements"`
	TotalOwed     decimal.Decimal  `json:"total_owed"`
	TotalSpent    decimal.Decimal  `json:"total_spent"`
}

// OutstandingSale is one open balance on a customer's account
type OutstandingSale struct {
	SaleID          uuid.UUID       `json:"sale_id"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CustomerBalance is the derived view of what a customer owes
type CustomerBalance struct {
	CustomerID       uuid.UUID         `json:"customer_id"`
	TotalOwed        decimal.Decimal   `json:"total_owed"`
	OutstandingSales []OutstandingSale `json:"outstanding_sales"`
}

// SettlePayment applies a payment to the customer's outstanding sales in
// FIFO order and records the collected amount on the customer.
//
// The payment is rejected up front when it is not positive or when it
// exceeds the customer's total owed; nothing is written in either case.
// Once writes begin, a failure part way through reports the sale IDs that
// were already updated so the operator can reconcile.
func (s *SettlementService) SettlePayment(ctx context.Context, req SettlementRequest) (*SettlementResult, error) {
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Settlement amount must be positive")
	}
	if !req.Method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", fmt.Sprintf("Unknown payment method %q", req.Method))
	}

	cust, err := s.customerRepo.FindByID(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if cust == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	openSales, err := s.saleRepo.FindOutstandingByCustomer(ctx, req.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding sales: %w", err)
	}

	totalOwed := sales.TotalOutstanding(openSales)
	if req.Amount.GreaterThan(totalOwed) {
		return nil, shared.NewDomainError(
			"OVERPAYMENT_REJECTED",
			fmt.Sprintf("Payment %s exceeds total owed %s", req.Amount.StringFixed(2), totalOwed.StringFixed(2)),
		)
	}

	// Only consume the idempotency key once the request is known to be
	// valid, so a rejected attempt can be retried with the same key.
	if req.IdempotencyKey != "" && s.idempotency != nil {
		newly, err := s.idempotency.MarkProcessed(ctx, settlementIdempotencyKey(req.CustomerID, req.IdempotencyKey), s.idempotencyTTL)
		if err != nil {
			return nil, fmt.Errorf("failed to check idempotency key: %w", err)
		}
		if !newly {
			return nil, shared.NewDomainError("DUPLICATE_SETTLEMENT", "This settlement has already been processed")
		}
	}

	amount := valueobject.NewMoneyUSD(req.Amount)
	plan, err := s.allocator.Allocate(amount, sales.TargetsFromSales(openSales))
	if err != nil {
		return nil, err
	}

	saleByID := make(map[uuid.UUID]*sales.Sale, len(openSales))
	for i := range openSales {
		saleByID[openSales[i].ID] = &openSales[i]
	}

	settlements := make([]SaleSettlement, 0, len(plan.Allocations))
	appliedIDs := make([]uuid.UUID, 0, len(plan.Allocations))

	for _, alloc := range plan.Allocations {
		sale, ok := saleByID[alloc.SaleID]
		if !ok {
			return nil, s.persistenceError(appliedIDs, fmt.Errorf("allocated sale %s not loaded", alloc.SaleID))
		}

		if err := sale.ApplyPayment(valueobject.NewMoneyUSD(alloc.Amount), req.Method); err != nil {
			return nil, s.persistenceError(appliedIDs, err)
		}

		if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
			if len(appliedIDs) == 0 && errors.Is(err, shared.ErrConcurrencyConflict) {
				return nil, shared.ErrConcurrencyConflict
			}
			return nil, s.persistenceError(appliedIDs, err)
		}

		appliedIDs = append(appliedIDs, sale.ID)
		settlements = append(settlements, SaleSettlement{
			SaleID:          sale.ID,
			AppliedAmount:   alloc.Amount,
			RemainingAmount: sale.RemainingAmount,
			Status:          sale.Status,
		})
	}

	if err := cust.RecordSettlement(amount); err != nil {
		return nil, s.persistenceError(appliedIDs, err)
	}
	if err := s.customerRepo.SaveWithLock(ctx, cust); err != nil {
		return nil, s.persistenceError(appliedIDs, err)
	}

	return &SettlementResult{
		CustomerID:    req.CustomerID,
		AmountApplied: plan.TotalAllocated,
		Settlements:   settlements,
		TotalOwed:     totalOwed.Sub(plan.TotalAllocated),
		TotalSpent:    cust.TotalSpent,
	}, nil
}

// SettleAll pays off the customer's entire outstanding balance. The balance
// is recomputed here rather than trusted from the caller, so a stale figure
// on screen can never overpay.
func (s *SettlementService) SettleAll(ctx context.Context, customerID uuid.UUID, method sales.PaymentMethod, idempotencyKey string) (*SettlementResult, error) {
	totalOwed, err := s.TotalOwed(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if totalOwed.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("NO_OUTSTANDING_BALANCE", "Customer has no outstanding balance to settle")
	}

	return s.SettlePayment(ctx, SettlementRequest{
		CustomerID:     customerID,
		Amount:         totalOwed,
		Method:         method,
		IdempotencyKey: idempotencyKey,
	})
}

// TotalOwed returns the customer's derived outstanding balance
func (s *SettlementService) TotalOwed(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	cust, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to get customer: %w", err)
	}
	if cust == nil {
		return decimal.Zero, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	return s.saleRepo.SumOutstandingByCustomer(ctx, customerID)
}

// Balance returns the customer's outstanding balance along with the open
// sales behind it
func (s *SettlementService) Balance(ctx context.Context, customerID uuid.UUID) (*CustomerBalance, error) {
	cust, err := s.customerRepo.FindByID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if cust == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}

	openSales, err := s.saleRepo.FindOutstandingByCustomer(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load outstanding sales: %w", err)
	}

	outstanding := make([]OutstandingSale, 0, len(openSales))
	for _, sale := range openSales {
		outstanding = append(outstanding, OutstandingSale{
			SaleID:          sale.ID,
			TotalAmount:     sale.TotalAmount,
			PaidAmount:      sale.PaidAmount,
			RemainingAmount: sale.RemainingAmount,
			CreatedAt:       sale.CreatedAt,
		})
	}

	return &CustomerBalance{
		CustomerID:       customerID,
		TotalOwed:        sales.TotalOutstanding(openSales),
		OutstandingSales: outstanding,
	}, nil
}

// persistenceError builds the error returned when a settlement fails after
// some sales were already written. The applied sale IDs are listed so the
// operator knows which balances have moved.
func (s *SettlementService) persistenceError(appliedIDs []uuid.UUID, cause error) error {
	if len(appliedIDs) == 0 {
		// Nothing was written, surface the cause directly
		return fmt.Errorf("settlement failed: %w", cause)
	}

	ids := make([]string, 0, len(appliedIDs))
	for _, id := range appliedIDs {
		ids = append(ids, id.String())
	}
	return shared.NewDomainError(
		"SETTLEMENT_PERSISTENCE",
		fmt.Sprintf("Settlement partially applied to sales [%s] before failing: %v", strings.Join(ids, ", "), cause),
	)
}

func settlementIdempotencyKey(customerID uuid.UUID, key string) string {
	return fmt.Sprintf("%s:%s", customerID, key)
}
