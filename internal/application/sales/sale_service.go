package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/boutiquepos/backend/internal/domain/sales"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleService handles sale queries and administrative actions
type SaleService struct {
	saleRepo sales.SaleRepository
}

// NewSaleService creates a new SaleService
func NewSaleService(saleRepo sales.SaleRepository) *SaleService {
	return &SaleService{saleRepo: saleRepo}
}

// GetSale returns a sale by ID
func (s *SaleService) GetSale(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get sale: %w", err)
	}
	if sale == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Sale not found")
	}
	return sale, nil
}

// ListSales returns sales matching the filter with pagination
func (s *SaleService) ListSales(ctx context.Context, filter sales.SaleFilter) (*shared.Paginated[sales.Sale], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}

	items, err := s.saleRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list sales: %w", err)
	}
	total, err := s.saleRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count sales: %w", err)
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// DailySummary aggregates register activity for a calendar day
func (s *SaleService) DailySummary(ctx context.Context, day time.Time) (*sales.DailySummary, error) {
	summary, err := s.saleRepo.SummarizeDay(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize day: %w", err)
	}
	return summary, nil
}

// RefundSale refunds part or all of a sale's paid amount
func (s *SaleService) RefundSale(ctx context.Context, id uuid.UUID, amount decimal.Decimal) (*sales.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sale.Refund(valueobject.NewMoneyUSD(amount)); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	return sale, nil
}

// CancelSale voids a sale that has no payments against it
func (s *SaleService) CancelSale(ctx context.Context, id uuid.UUID, reason string) (*sales.Sale, error) {
	sale, err := s.GetSale(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := sale.Cancel(reason); err != nil {
		return nil, err
	}

	if err := s.saleRepo.SaveWithLock(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	return sale, nil
}
