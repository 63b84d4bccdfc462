package sales

import (
	"context"
	"fmt"

	"github.com/boutiquepos/backend/internal/domain/catalog"
	"github.com/boutiquepos/backend/internal/domain/customer"
	"github.com/boutiquepos/backend/internal/domain/sales"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutService rings up carts at the register. It prices items from the
// catalog, deducts stock, creates the sale and updates the customer's stats.
type CheckoutService struct {
	saleRepo     sales.SaleRepository
	customerRepo customer.CustomerRepository
	productRepo  catalog.ProductRepository
	taxRate      decimal.Decimal
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(
	saleRepo sales.SaleRepository,
	customerRepo customer.CustomerRepository,
	productRepo catalog.ProductRepository,
	taxRate decimal.Decimal,
) *CheckoutService {
	return &CheckoutService{
		saleRepo:     saleRepo,
		customerRepo: customerRepo,
		productRepo:  productRepo,
		taxRate:      taxRate,
	}
}

// CheckoutItem is one cart line by product reference
type CheckoutItem struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutRequest represents a cart presented at the register
type CheckoutRequest struct {
	CustomerID     *uuid.UUID // nil for anonymous walk-ins
	CashierID      uuid.UUID
	Items          []CheckoutItem
	TenderedAmount decimal.Decimal
	Method         sales.PaymentMethod
}

// CheckoutResult represents the rung-up sale and the change due back
type CheckoutResult struct {
	Sale      *sales.Sale     `json:"sale"`
	ChangeDue decimal.Decimal `json:"change_due"`
}

// Checkout processes a cart: validates stock, builds the sale, persists it,
// deducts stock and updates the customer's visit stats when one is attached.
func (s *CheckoutService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Items) == 0 {
		return nil, shared.ErrEmptyCart
	}

	var cust *customer.Customer
	if req.CustomerID != nil {
		var err error
		cust, err = s.customerRepo.FindByID(ctx, *req.CustomerID)
		if err != nil {
			return nil, fmt.Errorf("failed to get customer: %w", err)
		}
		if cust == nil {
			return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
		}
	}

	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		ids = append(ids, item.ProductID)
	}
	products, err := s.productRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	productByID := make(map[uuid.UUID]*catalog.Product, len(products))
	for i := range products {
		productByID[products[i].ID] = &products[i]
	}

	// Price the cart from the catalog and deduct stock in memory first so
	// an unsellable line rejects the whole cart before anything persists
	saleItems := make([]sales.SaleItem, 0, len(req.Items))
	for _, line := range req.Items {
		product, ok := productByID[line.ProductID]
		if !ok {
			return nil, shared.NewDomainError("NOT_FOUND", fmt.Sprintf("Product %s not found", line.ProductID))
		}

		if err := product.DeductStock(line.Quantity); err != nil {
			return nil, err
		}

		item, err := sales.NewSaleItem(product.ID, product.Name, line.Quantity, product.Price)
		if err != nil {
			return nil, err
		}
		saleItems = append(saleItems, item)
	}

	sale, change, err := sales.NewSaleFromCheckout(
		req.CustomerID,
		req.CashierID,
		saleItems,
		s.taxRate,
		valueobject.NewMoneyUSD(req.TenderedAmount),
		req.Method,
	)
	if err != nil {
		return nil, err
	}

	if err := s.saleRepo.Save(ctx, sale); err != nil {
		return nil, fmt.Errorf("failed to save sale: %w", err)
	}

	for _, product := range productByID {
		if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to save product %s: %w", product.SKU, err)
		}
	}

	if cust != nil {
		if err := cust.RecordSale(sale.GetPaidMoney(), sale.GetTotalMoney()); err != nil {
			return nil, err
		}
		if err := s.customerRepo.SaveWithLock(ctx, cust); err != nil {
			return nil, fmt.Errorf("failed to save customer: %w", err)
		}
	}

	return &CheckoutResult{
		Sale:      sale,
		ChangeDue: change.Amount(),
	}, nil
}
