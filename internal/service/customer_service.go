package service

import (
	"fmt"
	"time"

	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/repository"
	"github.com/vendra/licensing-api/internal/utils"
)

// CustomerService handles customer business logic.
type CustomerService struct {
	customers *repository.CustomerRepository
	contracts ContractRefCounter
}

// NewCustomerService constructs a CustomerService.
func NewCustomerService(customers *repository.CustomerRepository, contracts ContractRefCounter) *CustomerService {
	return &CustomerService{customers: customers, contracts: contracts}
}

// CreateCustomerRequest represents a validated request to create a customer.
type CreateCustomerRequest struct {
	FirstName    string  `json:"firstName" binding:"required"`
	LastName     string  `json:"lastName" binding:"required"`
	Company      *string `json:"company"`
	Email        string  `json:"email" binding:"required,email"`
	Phone        *string `json:"phone"`
	CustomerType string  `json:"customerType" binding:"required"`
	Street       *string `json:"street"`
	City         *string `json:"city"`
	PostalCode   *string `json:"postalCode"`
	Country      *string `json:"country"`
	Notes        *string `json:"notes"`
}

// CustomerPatch enumerates exactly which customer fields are mutable.
type CustomerPatch struct {
	FirstName    *string `json:"firstName"`
	LastName     *string `json:"lastName"`
	Company      *string `json:"company"`
	Email        *string `json:"email"`
	Phone        *string `json:"phone"`
	CustomerType *string `json:"customerType"`
	Street       *string `json:"street"`
	City         *string `json:"city"`
	PostalCode   *string `json:"postalCode"`
	Country      *string `json:"country"`
	Status       *string `json:"status"`
	AssignedToID *int    `json:"assignedToId"`
	Notes        *string `json:"notes"`
	CanLogin     *bool   `json:"canLogin"`
	UserID       *int    `json:"userId"`
}

// Create persists a new customer in pending approval state.
func (s *CustomerService) Create(req *CreateCustomerRequest) (*models.Customer, error) {
	if !models.ValidCustomerType(models.CustomerType(req.CustomerType)) {
		return nil, fmt.Errorf("%w: unknown customer type %q", utils.ErrValidation, req.CustomerType)
	}

	c := &models.Customer{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Company:      req.Company,
		Email:        req.Email,
		Phone:        req.Phone,
		CustomerType: models.CustomerType(req.CustomerType),
		Street:       req.Street,
		City:         req.City,
		PostalCode:   req.PostalCode,
		Country:      req.Country,
		Status:       models.CustomerStatusPendingApproval,
		Notes:        req.Notes,
	}

	if err := s.customers.Create(c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %s", utils.ErrEmailTaken, req.Email)
		}
		return nil, err
	}
	return c, nil
}

// Get returns a customer, or ErrNotFound when absent.
func (s *CustomerService) Get(id int) (*models.Customer, error) {
	c, err := s.customers.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "customer")
	}
	return c, nil
}

// List returns customers ordered by company, then contact name.
func (s *CustomerService) List(limit, offset int) ([]models.Customer, error) {
	return s.customers.List(limit, offset)
}

// Count returns the total number of customers.
func (s *CustomerService) Count() (int, error) {
	return s.customers.Count()
}

// Search performs a case-insensitive substring lookup across name, company,
// email and phone.
func (s *CustomerService) Search(query string) ([]models.Customer, error) {
	return s.customers.Search(query)
}

// Update applies a typed patch.
func (s *CustomerService) Update(id int, patch *CustomerPatch) (*models.Customer, error) {
	c, err := s.customers.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "customer")
	}

	if patch.FirstName != nil {
		c.FirstName = *patch.FirstName
	}
	if patch.LastName != nil {
		c.LastName = *patch.LastName
	}
	if patch.Company != nil {
		c.Company = patch.Company
	}
	if patch.Email != nil {
		c.Email = *patch.Email
	}
	if patch.Phone != nil {
		c.Phone = patch.Phone
	}
	if patch.CustomerType != nil {
		if !models.ValidCustomerType(models.CustomerType(*patch.CustomerType)) {
			return nil, fmt.Errorf("%w: unknown customer type %q", utils.ErrValidation, *patch.CustomerType)
		}
		c.CustomerType = models.CustomerType(*patch.CustomerType)
	}
	if patch.Street != nil {
		c.Street = patch.Street
	}
	if patch.City != nil {
		c.City = patch.City
	}
	if patch.PostalCode != nil {
		c.PostalCode = patch.PostalCode
	}
	if patch.Country != nil {
		c.Country = patch.Country
	}
	if patch.Status != nil {
		if !models.ValidCustomerStatus(models.CustomerStatus(*patch.Status)) {
			return nil, fmt.Errorf("%w: unknown customer status %q", utils.ErrValidation, *patch.Status)
		}
		c.Status = models.CustomerStatus(*patch.Status)
	}
	if patch.AssignedToID != nil {
		c.AssignedToID = patch.AssignedToID
	}
	if patch.Notes != nil {
		c.Notes = patch.Notes
	}
	if patch.CanLogin != nil {
		c.CanLogin = *patch.CanLogin
	}
	if patch.UserID != nil {
		c.UserID = patch.UserID
	}

	if err := s.customers.Update(c); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %s", utils.ErrEmailTaken, c.Email)
		}
		return nil, err
	}
	return c, nil
}

// Approve moves a customer out of pending approval and records who approved
// it and when.
func (s *CustomerService) Approve(id, approverID int) (*models.Customer, error) {
	c, err := s.customers.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "customer")
	}
	now := time.Now()
	c.Status = models.CustomerStatusActive
	c.ApprovedAt = &now
	c.ApprovedByID = &approverID
	if err := s.customers.Update(c); err != nil {
		return nil, err
	}
	return c, nil
}

// Delete removes a customer unless contracts still reference it.
func (s *CustomerService) Delete(id int) (bool, error) {
	n, err := s.contracts.CountByCustomer(id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, fmt.Errorf("%w: customer is referenced by %d contract(s)", utils.ErrReferenced, n)
	}
	ok, err := s.customers.Delete(id)
	if err != nil && repository.IsForeignKeyViolation(err) {
		// Backstop: the database also restricts deletes of referenced rows.
		return false, fmt.Errorf("%w: customer is referenced", utils.ErrReferenced)
	}
	return ok, err
}
