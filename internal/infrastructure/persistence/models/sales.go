package models

import (
	"github.com/boutiquepos/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate.
// Line items and settlement records live inside the aggregate and are
// stored as JSONB columns.
type SaleModel struct {
	AggregateModel
	CustomerID      *uuid.UUID              `gorm:"type:uuid;index"`
	CashierID       uuid.UUID               `gorm:"type:uuid;not null;index"`
	Items           sales.SaleItems         `gorm:"type:jsonb;not null"`
	Subtotal        decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TaxAmount       decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	TotalAmount     decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	PaymentMethod   sales.PaymentMethod     `gorm:"type:varchar(20);not null"`
	Status          sales.SaleStatus        `gorm:"type:varchar(20);not null;index"`
	PaidAmount      decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	RemainingAmount decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	RefundedAmount  decimal.Decimal         `gorm:"type:decimal(18,4);not null;default:0"`
	Settlements     sales.SettlementRecords `gorm:"type:jsonb;not null"`
	CancelReason    string                  `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// ToDomain converts the persistence model to a domain Sale aggregate
func (m *SaleModel) ToDomain() *sales.Sale {
	return &sales.Sale{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CustomerID:        m.CustomerID,
		CashierID:         m.CashierID,
		Items:             m.Items,
		Subtotal:          m.Subtotal,
		TaxAmount:         m.TaxAmount,
		TotalAmount:       m.TotalAmount,
		PaymentMethod:     m.PaymentMethod,
		Status:            m.Status,
		PaidAmount:        m.PaidAmount,
		RemainingAmount:   m.RemainingAmount,
		RefundedAmount:    m.RefundedAmount,
		Settlements:       m.Settlements,
		CancelReason:      m.CancelReason,
	}
}

// FromDomain populates the persistence model from a domain Sale aggregate
func (m *SaleModel) FromDomain(s *sales.Sale) {
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	m.CustomerID = s.CustomerID
	m.CashierID = s.CashierID
	m.Items = s.Items
	m.Subtotal = s.Subtotal
	m.TaxAmount = s.TaxAmount
	m.TotalAmount = s.TotalAmount
	m.PaymentMethod = s.PaymentMethod
	m.Status = s.Status
	m.PaidAmount = s.PaidAmount
	m.RemainingAmount = s.RemainingAmount
	m.RefundedAmount = s.RefundedAmount
	m.Settlements = s.Settlements
	m.CancelReason = s.CancelReason
}

// SaleModelFromDomain creates a new persistence model from a domain Sale aggregate
func SaleModelFromDomain(s *sales.Sale) *SaleModel {
	m := &SaleModel{}
	m.FromDomain(s)
	return m
}
