package service

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/vendra/licensing-api/internal/billing"
	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/repository"
	"github.com/vendra/licensing-api/internal/utils"
)

// ContractStore is the persistence surface the contract service depends on.
// *repository.ContractRepository satisfies it.
type ContractStore interface {
	Create(*models.Contract) error
	GetByID(int) (*models.Contract, error)
	Update(*models.Contract) error
	Delete(int) (bool, error)
	GetByIDWithRelations(int) (*models.ContractWithRelations, error)
	ListWithRelations(limit, offset int) ([]models.ContractWithRelations, error)
	ListByCustomer(int) ([]models.ContractWithRelations, error)
	ListByStatus(models.BillingStatus) ([]models.ContractWithRelations, error)
	Count() (int, error)
}

// CustomerGetter resolves customer references.
type CustomerGetter interface {
	GetByID(int) (*models.Customer, error)
}

// ProductGetter resolves product references.
type ProductGetter interface {
	GetByID(int) (*models.Product, error)
}

// ResellerGetter resolves reseller references.
type ResellerGetter interface {
	GetByID(int) (*models.Reseller, error)
}

// ContractService holds the contract business logic: reference validation,
// net amount derivation, and billing status transitions.
type ContractService struct {
	contracts ContractStore
	customers CustomerGetter
	products  ProductGetter
	resellers ResellerGetter
}

// NewContractService constructs a ContractService.
func NewContractService(contracts ContractStore, customers CustomerGetter, products ProductGetter, resellers ResellerGetter) *ContractService {
	return &ContractService{
		contracts: contracts,
		customers: customers,
		products:  products,
		resellers: resellers,
	}
}

// CreateContractRequest represents a validated request to create a contract.
// Money fields travel as decimal strings.
type CreateContractRequest struct {
	CustomerID     int     `json:"customerId" binding:"required"`
	ProductID      int     `json:"productId" binding:"required"`
	ResellerID     *int    `json:"resellerId"`
	ContractTerm   int     `json:"contractTerm" binding:"required"`
	StartDate      string  `json:"startDate" binding:"required"`
	EndDate        string  `json:"endDate" binding:"required"`
	BillingCycle   string  `json:"billingCycle" binding:"required"`
	BillingStatus  *string `json:"billingStatus"`
	Amount         string  `json:"amount" binding:"required"`
	ResellerMargin *string `json:"resellerMargin"`
	Notes          *string `json:"notes"`
}

// ContractPatch enumerates exactly which contract fields are mutable on
// update. Nil means "leave unchanged". An empty ResellerMargin string clears
// the margin. BillingStatus changes go through the transition table unless
// Force is set.
type ContractPatch struct {
	ResellerID     *int    `json:"resellerId"`
	ClearReseller  bool    `json:"clearReseller"`
	ContractTerm   *int    `json:"contractTerm"`
	StartDate      *string `json:"startDate"`
	EndDate        *string `json:"endDate"`
	BillingCycle   *string `json:"billingCycle"`
	BillingStatus  *string `json:"billingStatus"`
	Force          bool    `json:"force"`
	Amount         *string `json:"amount"`
	ResellerMargin *string `json:"resellerMargin"`
	Notes          *string `json:"notes"`
}

const dateLayout = "2006-01-02"

// Create validates references and amounts, derives the net amount, and
// persists a new contract.
func (s *ContractService) Create(req *CreateContractRequest) (*models.Contract, error) {
	if req.ContractTerm < 1 {
		return nil, fmt.Errorf("%w: contract term must be at least 1 year", utils.ErrValidation)
	}
	if !models.ValidBillingCycle(models.BillingCycle(req.BillingCycle)) {
		return nil, fmt.Errorf("%w: unknown billing cycle %q", utils.ErrValidation, req.BillingCycle)
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid start date", utils.ErrValidation)
	}
	end, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid end date", utils.ErrValidation)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start date must be before end date", utils.ErrValidation)
	}

	amount, err := billing.ParseAmount(req.Amount)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	margin, err := parseOptionalMargin(req.ResellerMargin)
	if err != nil {
		return nil, err
	}

	// A new contract is born PENDING. An initial status other than PENDING
	// still has to be reachable from PENDING via the transition table, so a
	// contract cannot be created already PAID.
	status := models.BillingStatusPending
	if req.BillingStatus != nil {
		to := models.BillingStatus(*req.BillingStatus)
		if !models.ValidBillingStatus(to) {
			return nil, fmt.Errorf("%w: unknown billing status %q", utils.ErrValidation, *req.BillingStatus)
		}
		if err := billing.Transition(status, to, false); err != nil {
			return nil, err
		}
		status = to
	}

	// Referential checks before insert so the caller gets a precise error
	// instead of a raw FK violation.
	if _, err := s.customers.GetByID(req.CustomerID); err != nil {
		return nil, wrapLookupErr(err, "customer")
	}
	if _, err := s.products.GetByID(req.ProductID); err != nil {
		return nil, wrapLookupErr(err, "product")
	}
	if req.ResellerID != nil {
		if _, err := s.resellers.GetByID(*req.ResellerID); err != nil {
			return nil, wrapLookupErr(err, "reseller")
		}
	}

	ct := &models.Contract{
		CustomerID:     req.CustomerID,
		ProductID:      req.ProductID,
		ResellerID:     req.ResellerID,
		ContractTerm:   req.ContractTerm,
		StartDate:      start,
		EndDate:        end,
		BillingCycle:   models.BillingCycle(req.BillingCycle),
		BillingStatus:  status,
		Amount:         amount,
		ResellerMargin: toNullDecimal(margin),
		NetAmount:      billing.NetAmount(amount, margin),
		Notes:          req.Notes,
	}

	if err := s.contracts.Create(ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// Update applies a typed patch. The net amount is re-derived whenever the
// gross amount or the reseller margin changes, and billing status changes
// are validated against the transition table.
func (s *ContractService) Update(id int, patch *ContractPatch) (*models.Contract, error) {
	ct, err := s.contracts.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "contract")
	}

	if patch.ContractTerm != nil {
		if *patch.ContractTerm < 1 {
			return nil, fmt.Errorf("%w: contract term must be at least 1 year", utils.ErrValidation)
		}
		ct.ContractTerm = *patch.ContractTerm
	}
	if patch.StartDate != nil {
		start, err := time.Parse(dateLayout, *patch.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start date", utils.ErrValidation)
		}
		ct.StartDate = start
	}
	if patch.EndDate != nil {
		end, err := time.Parse(dateLayout, *patch.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end date", utils.ErrValidation)
		}
		ct.EndDate = end
	}
	if !ct.StartDate.Before(ct.EndDate) {
		return nil, fmt.Errorf("%w: start date must be before end date", utils.ErrValidation)
	}
	if patch.BillingCycle != nil {
		if !models.ValidBillingCycle(models.BillingCycle(*patch.BillingCycle)) {
			return nil, fmt.Errorf("%w: unknown billing cycle %q", utils.ErrValidation, *patch.BillingCycle)
		}
		ct.BillingCycle = models.BillingCycle(*patch.BillingCycle)
	}
	if patch.Notes != nil {
		ct.Notes = patch.Notes
	}

	if patch.ClearReseller {
		ct.ResellerID = nil
	} else if patch.ResellerID != nil {
		if _, err := s.resellers.GetByID(*patch.ResellerID); err != nil {
			return nil, wrapLookupErr(err, "reseller")
		}
		ct.ResellerID = patch.ResellerID
	}

	recompute := false
	if patch.Amount != nil {
		amount, err := billing.ParseAmount(*patch.Amount)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
		}
		ct.Amount = amount
		recompute = true
	}
	if patch.ResellerMargin != nil {
		if *patch.ResellerMargin == "" {
			ct.ResellerMargin = decimal.NullDecimal{}
		} else {
			margin, err := parseOptionalMargin(patch.ResellerMargin)
			if err != nil {
				return nil, err
			}
			ct.ResellerMargin = toNullDecimal(margin)
		}
		recompute = true
	}
	if recompute {
		ct.NetAmount = billing.NetAmount(ct.Amount, nullDecimalPtr(ct.ResellerMargin))
	}

	if patch.BillingStatus != nil {
		to := models.BillingStatus(*patch.BillingStatus)
		if !models.ValidBillingStatus(to) {
			return nil, fmt.Errorf("%w: unknown billing status %q", utils.ErrValidation, to)
		}
		if err := billing.Transition(ct.BillingStatus, to, patch.Force); err != nil {
			return nil, err
		}
		ct.BillingStatus = to
	}

	if err := s.contracts.Update(ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// ChangeStatus moves a contract to a new billing status through the
// transition table. force bypasses the table for manual correction.
func (s *ContractService) ChangeStatus(id int, to models.BillingStatus, force bool) (*models.Contract, error) {
	ct, err := s.contracts.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "contract")
	}
	if err := billing.Transition(ct.BillingStatus, to, force); err != nil {
		return nil, err
	}
	if to == ct.BillingStatus {
		// Idempotent no-op: nothing to persist.
		return ct, nil
	}
	ct.BillingStatus = to
	if err := s.contracts.Update(ct); err != nil {
		return nil, err
	}
	return ct, nil
}

// Get returns a contract with its relations hydrated, or nil when absent.
func (s *ContractService) Get(id int) (*models.ContractWithRelations, error) {
	view, err := s.contracts.GetByIDWithRelations(id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return view, nil
}

// List returns contracts with relations, grouped by customer and ordered by
// recency within each customer.
func (s *ContractService) List(limit, offset int) ([]models.ContractWithRelations, error) {
	return s.contracts.ListWithRelations(limit, offset)
}

// ListByCustomer returns one customer's contracts, newest first.
func (s *ContractService) ListByCustomer(customerID int) ([]models.ContractWithRelations, error) {
	return s.contracts.ListByCustomer(customerID)
}

// ListByStatus returns contracts in a billing status, newest first.
func (s *ContractService) ListByStatus(status models.BillingStatus) ([]models.ContractWithRelations, error) {
	if !models.ValidBillingStatus(status) {
		return nil, fmt.Errorf("%w: unknown billing status %q", utils.ErrValidation, status)
	}
	return s.contracts.ListByStatus(status)
}

// Count returns the total number of contracts.
func (s *ContractService) Count() (int, error) {
	return s.contracts.Count()
}

// Delete hard-deletes a contract. Contracts with purchase orders on file
// are protected by the FK and reported as referenced.
func (s *ContractService) Delete(id int) (bool, error) {
	deleted, err := s.contracts.Delete(id)
	if repository.IsForeignKeyViolation(err) {
		return false, fmt.Errorf("%w: contract has purchase orders on file", utils.ErrReferenced)
	}
	return deleted, err
}

// parseOptionalMargin parses and range-checks an optional margin percentage.
func parseOptionalMargin(raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	margin, err := billing.ParseAmount(*raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
	}
	if !billing.ValidMargin(margin) {
		return nil, fmt.Errorf("%w: margin must be between 0 and 100", utils.ErrValidation)
	}
	return &margin, nil
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func nullDecimalPtr(nd decimal.NullDecimal) *decimal.Decimal {
	if !nd.Valid {
		return nil
	}
	return &nd.Decimal
}

// wrapLookupErr maps sql.ErrNoRows on a referenced entity to ErrNotFound
// with the entity name attached.
func wrapLookupErr(err error, entity string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", utils.ErrNotFound, entity)
	}
	return err
}
