package service

import (
	"fmt"

	"github.com/vendra/licensing-api/internal/billing"
	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/repository"
	"github.com/vendra/licensing-api/internal/utils"
)

// ResellerService handles reseller business logic.
type ResellerService struct {
	resellers *repository.ResellerRepository
}

// NewResellerService constructs a ResellerService.
func NewResellerService(resellers *repository.ResellerRepository) *ResellerService {
	return &ResellerService{resellers: resellers}
}

// CreateResellerRequest represents a validated request to create a reseller.
type CreateResellerRequest struct {
	Name             string  `json:"name" binding:"required"`
	ContactName      *string `json:"contactName"`
	Email            string  `json:"email" binding:"required,email"`
	Phone            *string `json:"phone"`
	MarginPercentage string  `json:"marginPercentage" binding:"required"`
	Street           *string `json:"street"`
	City             *string `json:"city"`
	PostalCode       *string `json:"postalCode"`
	Country          *string `json:"country"`
	IsActive         *bool   `json:"isActive"`
}

// ResellerPatch enumerates exactly which reseller fields are mutable.
type ResellerPatch struct {
	Name             *string `json:"name"`
	ContactName      *string `json:"contactName"`
	Email            *string `json:"email"`
	Phone            *string `json:"phone"`
	MarginPercentage *string `json:"marginPercentage"`
	Street           *string `json:"street"`
	City             *string `json:"city"`
	PostalCode       *string `json:"postalCode"`
	Country          *string `json:"country"`
	IsActive         *bool   `json:"isActive"`
}

// Create persists a new reseller after validating the margin percentage.
func (s *ResellerService) Create(req *CreateResellerRequest) (*models.Reseller, error) {
	margin, err := billing.ParseAmount(req.MarginPercentage)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	if !billing.ValidMargin(margin) {
		return nil, fmt.Errorf("%w: margin must be between 0 and 100", utils.ErrValidation)
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	rs := &models.Reseller{
		Name:             req.Name,
		ContactName:      req.ContactName,
		Email:            req.Email,
		Phone:            req.Phone,
		MarginPercentage: margin,
		Street:           req.Street,
		City:             req.City,
		PostalCode:       req.PostalCode,
		Country:          req.Country,
		IsActive:         active,
	}

	if err := s.resellers.Create(rs); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %s", utils.ErrEmailTaken, req.Email)
		}
		return nil, err
	}
	return rs, nil
}

// Get returns a reseller, or ErrNotFound when absent.
func (s *ResellerService) Get(id int) (*models.Reseller, error) {
	rs, err := s.resellers.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "reseller")
	}
	return rs, nil
}

// List returns resellers ordered by name.
func (s *ResellerService) List(limit, offset int) ([]models.Reseller, error) {
	return s.resellers.List(limit, offset)
}

// Count returns the total number of resellers.
func (s *ResellerService) Count() (int, error) {
	return s.resellers.Count()
}

// Update applies a typed patch.
func (s *ResellerService) Update(id int, patch *ResellerPatch) (*models.Reseller, error) {
	rs, err := s.resellers.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "reseller")
	}

	if patch.Name != nil {
		rs.Name = *patch.Name
	}
	if patch.ContactName != nil {
		rs.ContactName = patch.ContactName
	}
	if patch.Email != nil {
		rs.Email = *patch.Email
	}
	if patch.Phone != nil {
		rs.Phone = patch.Phone
	}
	if patch.MarginPercentage != nil {
		margin, err := billing.ParseAmount(*patch.MarginPercentage)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
		}
		if !billing.ValidMargin(margin) {
			return nil, fmt.Errorf("%w: margin must be between 0 and 100", utils.ErrValidation)
		}
		rs.MarginPercentage = margin
	}
	if patch.Street != nil {
		rs.Street = patch.Street
	}
	if patch.City != nil {
		rs.City = patch.City
	}
	if patch.PostalCode != nil {
		rs.PostalCode = patch.PostalCode
	}
	if patch.Country != nil {
		rs.Country = patch.Country
	}
	if patch.IsActive != nil {
		rs.IsActive = *patch.IsActive
	}

	if err := s.resellers.Update(rs); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, fmt.Errorf("%w: email %s", utils.ErrEmailTaken, rs.Email)
		}
		return nil, err
	}
	return rs, nil
}

// Delete removes a reseller. Contracts referencing it keep their rows; the
// reseller relation degrades to nil on joined reads. An updated margin never
// rewrites historical net amounts.
func (s *ResellerService) Delete(id int) (bool, error) {
	return s.resellers.Delete(id)
}
