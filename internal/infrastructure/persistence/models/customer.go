package models

import (
	"time"

	"github.com/boutiquepos/backend/internal/domain/customer"
	"github.com/shopspring/decimal"
)

// CustomerModel is the persistence model for the Customer aggregate
type CustomerModel struct {
	AggregateModel
	FirstName     string          `gorm:"type:varchar(100);not null"`
	LastName      string          `gorm:"type:varchar(100);not null"`
	Email         string          `gorm:"type:varchar(200);index"`
	Phone         string          `gorm:"type:varchar(50)"`
	Address       string          `gorm:"type:text"`
	LoyaltyPoints int             `gorm:"not null;default:0"`
	Visits        int             `gorm:"not null;default:0"`
	TotalSpent    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	LastVisit     *time.Time
	Notes         string `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer aggregate
func (m *CustomerModel) ToDomain() *customer.Customer {
	return &customer.Customer{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		LoyaltyPoints:     m.LoyaltyPoints,
		Visits:            m.Visits,
		TotalSpent:        m.TotalSpent,
		LastVisit:         m.LastVisit,
		Notes:             m.Notes,
	}
}

// FromDomain populates the persistence model from a domain Customer aggregate
func (m *CustomerModel) FromDomain(c *customer.Customer) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.FirstName = c.FirstName
	m.LastName = c.LastName
	m.Email = c.Email
	m.Phone = c.Phone
	m.Address = c.Address
	m.LoyaltyPoints = c.LoyaltyPoints
	m.Visits = c.Visits
	m.TotalSpent = c.TotalSpent
	m.LastVisit = c.LastVisit
	m.Notes = c.Notes
}

// CustomerModelFromDomain creates a new persistence model from a domain Customer aggregate
func CustomerModelFromDomain(c *customer.Customer) *CustomerModel {
	m := &CustomerModel{}
	m.FromDomain(c)
	return m
}
