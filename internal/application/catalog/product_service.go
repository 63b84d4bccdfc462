package catalog

import (
	"context"
	"fmt"
	"strings"

	"github.com/boutiquepos/backend/internal/domain/catalog"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/boutiquepos/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog maintenance
type ProductService struct {
	productRepo catalog.ProductRepository
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// CreateProductRequest represents a request to add a product to the catalog
type CreateProductRequest struct {
	SKU         string
	Name        string
	Description string
	Price       decimal.Decimal
	Stock       int
}

// CreateProduct adds a product to the catalog. SKU must be unique.
func (s *ProductService) CreateProduct(ctx context.Context, req CreateProductRequest) (*catalog.Product, error) {
	sku := strings.ToUpper(strings.TrimSpace(req.SKU))
	existing, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, fmt.Errorf("failed to check sku: %w", err)
	}
	if existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Product with SKU %s already exists", sku))
	}

	product, err := catalog.NewProduct(sku, req.Name, valueobject.NewMoneyUSD(req.Price), req.Stock)
	if err != nil {
		return nil, err
	}
	product.Description = req.Description

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	return product, nil
}

// GetProduct returns a product by ID
func (s *ProductService) GetProduct(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Product not found")
	}
	return product, nil
}

// ListProducts returns products matching the filter with pagination
func (s *ProductService) ListProducts(ctx context.Context, filter catalog.ProductFilter) (*shared.Paginated[catalog.Product], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}

	items, err := s.productRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	total, err := s.productRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count products: %w", err)
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// RestockProduct adds stock after a delivery
func (s *ProductService) RestockProduct(ctx context.Context, id uuid.UUID, quantity int) (*catalog.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.Restock(quantity); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	return product, nil
}

// UpdateProductPrice changes the selling price
func (s *ProductService) UpdateProductPrice(ctx context.Context, id uuid.UUID, price decimal.Decimal) (*catalog.Product, error) {
	product, err := s.GetProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.UpdatePrice(valueobject.NewMoneyUSD(price)); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to save product: %w", err)
	}

	return product, nil
}
