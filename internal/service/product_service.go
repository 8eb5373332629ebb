package service

import (
	"fmt"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vendra/licensing-api/internal/billing"
	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/utils"
)

// ProductStore is the persistence surface the product service depends on.
// *repository.ProductRepository satisfies it.
type ProductStore interface {
	Create(*models.Product) error
	GetByID(int) (*models.Product, error)
	GetByIDs([]int64) ([]models.Product, error)
	List(limit, offset int) ([]models.Product, error)
	Update(*models.Product) error
	Delete(int) (bool, error)
	Count() (int, error)
}

// ContractRefCounter counts contracts referencing an entity, used to guard
// hard deletes.
type ContractRefCounter interface {
	CountByCustomer(int) (int, error)
	CountByProduct(int) (int, error)
}

// ProductService handles product business logic, in particular the bundle
// price invariant: a bundle's base price is always derived from its
// constituents and discount, never trusted from the caller.
type ProductService struct {
	products  ProductStore
	contracts ContractRefCounter
}

// NewProductService constructs a ProductService.
func NewProductService(products ProductStore, contracts ContractRefCounter) *ProductService {
	return &ProductService{products: products, contracts: contracts}
}

// CreateProductRequest represents a validated request to create a product.
type CreateProductRequest struct {
	Name               string  `json:"name" binding:"required"`
	Description        *string `json:"description"`
	Category           *string `json:"category"`
	BasePrice          string  `json:"basePrice"`
	IsActive           *bool   `json:"isActive"`
	IsBundle           bool    `json:"isBundle"`
	BundleProducts     []int64 `json:"bundleProducts"`
	DiscountPercentage *string `json:"discountPercentage"`
}

// ProductPatch enumerates exactly which product fields are mutable.
type ProductPatch struct {
	Name               *string `json:"name"`
	Description        *string `json:"description"`
	Category           *string `json:"category"`
	BasePrice          *string `json:"basePrice"`
	IsActive           *bool   `json:"isActive"`
	BundleProducts     []int64 `json:"bundleProducts"`
	DiscountPercentage *string `json:"discountPercentage"`
}

// Create validates the request and persists a product. For bundles the
// original and base prices are derived from the constituents; a
// caller-supplied base price that disagrees with the derivation is rejected.
func (s *ProductService) Create(req *CreateProductRequest) (*models.Product, error) {
	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}

	p := &models.Product{
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		IsActive:    active,
		IsBundle:    req.IsBundle,
	}

	if req.IsBundle {
		if err := s.applyBundlePricing(p, req.BundleProducts, req.DiscountPercentage, strPtrOrNil(req.BasePrice)); err != nil {
			return nil, err
		}
	} else {
		price, err := billing.ParseAmount(req.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
		}
		p.BasePrice = price
	}

	if err := s.products.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Get returns a product, or nil with ErrNotFound when absent.
func (s *ProductService) Get(id int) (*models.Product, error) {
	p, err := s.products.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "product")
	}
	return p, nil
}

// List returns products ordered by name.
func (s *ProductService) List(limit, offset int) ([]models.Product, error) {
	return s.products.List(limit, offset)
}

// Count returns the total number of products.
func (s *ProductService) Count() (int, error) {
	return s.products.Count()
}

// Update applies a typed patch, re-deriving bundle pricing whenever the
// constituents, discount, or claimed base price change.
func (s *ProductService) Update(id int, patch *ProductPatch) (*models.Product, error) {
	p, err := s.products.GetByID(id)
	if err != nil {
		return nil, wrapLookupErr(err, "product")
	}

	if patch.Name != nil {
		p.Name = *patch.Name
	}
	if patch.Description != nil {
		p.Description = patch.Description
	}
	if patch.Category != nil {
		p.Category = patch.Category
	}
	if patch.IsActive != nil {
		p.IsActive = *patch.IsActive
	}

	if p.IsBundle {
		constituents := []int64(p.BundleProducts)
		if patch.BundleProducts != nil {
			constituents = patch.BundleProducts
		}
		discount := patch.DiscountPercentage
		if discount == nil && p.DiscountPercentage.Valid {
			str := p.DiscountPercentage.Decimal.String()
			discount = &str
		}
		if err := s.applyBundlePricing(p, constituents, discount, patch.BasePrice); err != nil {
			return nil, err
		}
	} else if patch.BasePrice != nil {
		price, err := billing.ParseAmount(*patch.BasePrice)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", utils.ErrValidation, err)
		}
		p.BasePrice = price
	}

	if err := s.products.Update(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Delete removes a product unless contracts still reference it.
func (s *ProductService) Delete(id int) (bool, error) {
	n, err := s.contracts.CountByProduct(id)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, fmt.Errorf("%w: product is referenced by %d contract(s)", utils.ErrReferenced, n)
	}
	return s.products.Delete(id)
}

// applyBundlePricing resolves the constituents, derives originalPrice and
// basePrice, and rejects a claimed base price that disagrees with the
// derivation.
func (s *ProductService) applyBundlePricing(p *models.Product, constituentIDs []int64, discountRaw, claimedBase *string) error {
	if len(constituentIDs) == 0 {
		return fmt.Errorf("%w: a bundle needs at least one constituent product", utils.ErrValidation)
	}

	discount := decimal.Zero
	if discountRaw != nil && *discountRaw != "" {
		d, err := billing.ParseAmount(*discountRaw)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrValidation, err)
		}
		if !billing.ValidMargin(d) {
			return fmt.Errorf("%w: discount must be between 0 and 100", utils.ErrValidation)
		}
		discount = d
	}

	constituents, err := s.products.GetByIDs(constituentIDs)
	if err != nil {
		return err
	}
	if len(constituents) != len(constituentIDs) {
		return fmt.Errorf("%w: one or more bundle constituents do not exist", utils.ErrValidation)
	}
	prices := make([]decimal.Decimal, len(constituents))
	for i, c := range constituents {
		if c.IsBundle {
			return fmt.Errorf("%w: bundles cannot nest other bundles", utils.ErrValidation)
		}
		prices[i] = c.BasePrice
	}

	original, base := billing.BundlePrice(prices, discount)
	if claimedBase != nil && *claimedBase != "" {
		claimed, err := billing.ParseAmount(*claimedBase)
		if err != nil {
			return fmt.Errorf("%w: %v", utils.ErrValidation, err)
		}
		if !claimed.Equal(base) {
			return fmt.Errorf("%w: bundle base price %s does not match derived price %s", utils.ErrValidation, claimed, base)
		}
	}

	p.BundleProducts = pq.Int64Array(constituentIDs)
	p.OriginalPrice = decimal.NullDecimal{Decimal: original, Valid: true}
	p.DiscountPercentage = decimal.NullDecimal{Decimal: discount, Valid: true}
	p.BasePrice = base
	return nil
}

func strPtrOrNil(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
