package catalog

import (
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductCreatedEvent is raised when a product is added to the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID       `json:"product_id"`
	SKU       string          `json:"sku"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Stock     int             `json:"stock"`
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return "ProductCreated"
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ProductCreated", "Product", p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		Name:            p.Name,
		Price:           p.Price,
		Stock:           p.Stock,
	}
}

// ProductStockChangedEvent is raised when on-hand stock moves
type ProductStockChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	SKU       string    `json:"sku"`
	Delta     int       `json:"delta"`
	Stock     int       `json:"stock"`
}

// EventType returns the event type name
func (e *ProductStockChangedEvent) EventType() string {
	return "ProductStockChanged"
}

// NewProductStockChangedEvent creates a new ProductStockChangedEvent
func NewProductStockChangedEvent(p *Product, delta int) *ProductStockChangedEvent {
	return &ProductStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent("ProductStockChanged", "Product", p.ID),
		ProductID:       p.ID,
		SKU:             p.SKU,
		Delta:           delta,
		Stock:           p.Stock,
	}
}
