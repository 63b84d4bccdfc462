package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/boutiquepos/backend/internal/domain/sales"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale by its ID. Returns nil when no sale exists.
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter sales.SaleFilter) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	query := r.applyFilter(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter)

	if err := query.Find(&saleModels).Error; err != nil {
		return nil, err
	}

	result := make([]sales.Sale, len(saleModels))
	for i, model := range saleModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// FindByCustomer finds sales for a customer
func (r *GormSaleRepository) FindByCustomer(ctx context.Context, customerID uuid.UUID, filter sales.SaleFilter) ([]sales.Sale, error) {
	filter.CustomerID = &customerID
	return r.FindAll(ctx, filter)
}

// FindOutstandingByCustomer finds the customer's partially paid sales,
// ordered oldest first so settlement allocation sees them in FIFO order
func (r *GormSaleRepository) FindOutstandingByCustomer(ctx context.Context, customerID uuid.UUID) ([]sales.Sale, error) {
	var saleModels []models.SaleModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ? AND status = ? AND remaining_amount > 0", customerID, sales.SaleStatusPartialPayment).
		Order("created_at ASC, id ASC").
		Find(&saleModels).Error
	if err != nil {
		return nil, err
	}

	result := make([]sales.Sale, len(saleModels))
	for i, model := range saleModels {
		result[i] = *model.ToDomain()
	}
	return result, nil
}

// SumOutstandingByCustomer sums the remaining balance across the customer's
// partially paid sales
func (r *GormSaleRepository) SumOutstandingByCustomer(ctx context.Context, customerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("COALESCE(SUM(remaining_amount), 0)").
		Where("customer_id = ? AND status = ?", customerID, sales.SaleStatusPartialPayment).
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// SummarizeDay aggregates register activity for a calendar day
func (r *GormSaleRepository) SummarizeDay(ctx context.Context, day time.Time) (*sales.DailySummary, error) {
	dayStart := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	dayEnd := dayStart.Add(24 * time.Hour)

	var totals struct {
		SaleCount    int64
		GrossSales   decimal.Decimal
		CollectedTax decimal.Decimal
		Outstanding  decimal.Decimal
	}
	err := r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select(
			"COUNT(*) AS sale_count, "+
				"COALESCE(SUM(total_amount), 0) AS gross_sales, "+
				"COALESCE(SUM(tax_amount), 0) AS collected_tax, "+
				"COALESCE(SUM(remaining_amount), 0) AS outstanding").
		Where("created_at >= ? AND created_at < ? AND status <> ?", dayStart, dayEnd, sales.SaleStatusCancelled).
		Scan(&totals).Error
	if err != nil {
		return nil, err
	}

	var methodRows []struct {
		PaymentMethod sales.PaymentMethod
		Paid          decimal.Decimal
	}
	err = r.db.WithContext(ctx).
		Model(&models.SaleModel{}).
		Select("payment_method, COALESCE(SUM(paid_amount), 0) AS paid").
		Where("created_at >= ? AND created_at < ? AND status <> ?", dayStart, dayEnd, sales.SaleStatusCancelled).
		Group("payment_method").
		Scan(&methodRows).Error
	if err != nil {
		return nil, err
	}

	methodTotals := make(map[sales.PaymentMethod]decimal.Decimal, len(methodRows))
	for _, row := range methodRows {
		methodTotals[row.PaymentMethod] = row.Paid
	}

	return &sales.DailySummary{
		Date:         dayStart,
		SaleCount:    totals.SaleCount,
		GrossSales:   totals.GrossSales,
		CollectedTax: totals.CollectedTax,
		Outstanding:  totals.Outstanding,
		MethodTotals: methodTotals,
	}, nil
}

// Save creates or updates a sale
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	return r.db.WithContext(ctx).Save(model).Error
}

// SaveWithLock saves a sale with optimistic locking (version check).
// Returns ErrConcurrencyConflict when another transaction got there first.
func (r *GormSaleRepository) SaveWithLock(ctx context.Context, sale *sales.Sale) error {
	model := models.SaleModelFromDomain(sale)
	result := r.db.WithContext(ctx).
		Model(model).
		Where("id = ? AND version = ?", sale.ID, sale.Version-1).
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter sales.SaleFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&models.SaleModel{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options including pagination and ordering
func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter sales.SaleFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("created_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter sales.SaleFilter) *gorm.DB {
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if filter.CashierID != nil {
		query = query.Where("cashier_id = ?", *filter.CashierID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.PaymentMethod != nil {
		query = query.Where("payment_method = ?", *filter.PaymentMethod)
	}
	if filter.FromDate != nil {
		query = query.Where("created_at >= ?", *filter.FromDate)
	}
	if filter.ToDate != nil {
		query = query.Where("created_at < ?", *filter.ToDate)
	}

	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
