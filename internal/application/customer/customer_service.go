package customer

import (
	"context"
	"fmt"

	"github.com/boutiquepos/backend/internal/domain/customer"
	"github.com/boutiquepos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CustomerService handles customer registration and maintenance
type CustomerService struct {
	customerRepo customer.CustomerRepository
}

// NewCustomerService creates a new CustomerService
func NewCustomerService(customerRepo customer.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// CreateCustomerRequest represents a request to register a customer
type CreateCustomerRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// CreateCustomer registers a new customer. Email must be unique when given.
func (s *CustomerService) CreateCustomer(ctx context.Context, req CreateCustomerRequest) (*customer.Customer, error) {
	if req.Email != "" {
		existing, err := s.customerRepo.FindByEmail(ctx, req.Email)
		if err != nil {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
		if existing != nil {
			return nil, shared.NewDomainError("ALREADY_EXISTS", fmt.Sprintf("Customer with email %s already exists", req.Email))
		}
	}

	cust, err := customer.NewCustomer(req.FirstName, req.LastName, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if req.Address != "" {
		cust.Address = req.Address
	}

	if err := s.customerRepo.Save(ctx, cust); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	return cust, nil
}

// GetCustomer returns a customer by ID
func (s *CustomerService) GetCustomer(ctx context.Context, id uuid.UUID) (*customer.Customer, error) {
	cust, err := s.customerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	if cust == nil {
		return nil, shared.NewDomainError("NOT_FOUND", "Customer not found")
	}
	return cust, nil
}

// ListCustomers returns customers matching the filter with pagination
func (s *CustomerService) ListCustomers(ctx context.Context, filter customer.CustomerFilter) (*shared.Paginated[customer.Customer], error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = shared.DefaultFilter().PageSize
	}

	items, err := s.customerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	total, err := s.customerRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count customers: %w", err)
	}

	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// UpdateCustomerRequest carries the fields that can change after registration
type UpdateCustomerRequest struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	Address   string
}

// UpdateCustomer updates a customer's name and contact details
func (s *CustomerService) UpdateCustomer(ctx context.Context, id uuid.UUID, req UpdateCustomerRequest) (*customer.Customer, error) {
	cust, err := s.GetCustomer(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := cust.Rename(req.FirstName, req.LastName); err != nil {
		return nil, err
	}
	if err := cust.UpdateContact(req.Email, req.Phone, req.Address); err != nil {
		return nil, err
	}

	if err := s.customerRepo.SaveWithLock(ctx, cust); err != nil {
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}

	return cust, nil
}

// DeleteCustomer soft deletes a customer
func (s *CustomerService) DeleteCustomer(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetCustomer(ctx, id); err != nil {
		return err
	}
	return s.customerRepo.Delete(ctx, id)
}
