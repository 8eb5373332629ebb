package service

import (
	"database/sql"
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/utils"
)

type fakeProductStore struct {
	nextID   int
	products map[int]*models.Product
}

func newFakeProductStore() *fakeProductStore {
	return &fakeProductStore{nextID: 1, products: map[int]*models.Product{}}
}

func (f *fakeProductStore) Create(p *models.Product) error {
	p.ID = f.nextID
	f.nextID++
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) GetByID(id int) (*models.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *p
	return &cp, nil
}

func (f *fakeProductStore) GetByIDs(ids []int64) ([]models.Product, error) {
	var out []models.Product
	for _, id := range ids {
		if p, ok := f.products[int(id)]; ok {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakeProductStore) List(limit, offset int) ([]models.Product, error) {
	ids := make([]int, 0, len(f.products))
	for id := range f.products {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]models.Product, 0, len(ids))
	for _, id := range ids {
		out = append(out, *f.products[id])
	}
	return out, nil
}

func (f *fakeProductStore) Update(p *models.Product) error {
	if _, ok := f.products[p.ID]; !ok {
		return sql.ErrNoRows
	}
	cp := *p
	f.products[p.ID] = &cp
	return nil
}

func (f *fakeProductStore) Delete(id int) (bool, error) {
	if _, ok := f.products[id]; !ok {
		return false, nil
	}
	delete(f.products, id)
	return true, nil
}

func (f *fakeProductStore) Count() (int, error) { return len(f.products), nil }

type fixedRefCounter struct{ byCustomer, byProduct int }

func (f fixedRefCounter) CountByCustomer(int) (int, error) { return f.byCustomer, nil }
func (f fixedRefCounter) CountByProduct(int) (int, error)  { return f.byProduct, nil }

func newProductFixture(t *testing.T) (*ProductService, *fakeProductStore) {
	t.Helper()
	store := newFakeProductStore()
	store.Create(&models.Product{Name: "Core License", BasePrice: decimal.RequireFromString("400.00"), IsActive: true})
	store.Create(&models.Product{Name: "Support Plan", BasePrice: decimal.RequireFromString("300.00"), IsActive: true})
	return NewProductService(store, fixedRefCounter{}), store
}

func TestProductCreateBundleDerivesPrices(t *testing.T) {
	svc, _ := newProductFixture(t)

	p, err := svc.Create(&CreateProductRequest{
		Name:               "Core + Support",
		IsBundle:           true,
		BundleProducts:     []int64{1, 2},
		DiscountPercentage: strPtr("10"),
	})
	require.NoError(t, err)

	assert.True(t, p.OriginalPrice.Valid)
	assert.True(t, p.OriginalPrice.Decimal.Equal(decimal.RequireFromString("700.00")))
	assert.True(t, p.BasePrice.Equal(decimal.RequireFromString("630.00")), "base %s", p.BasePrice)
}

func TestProductCreateBundleRejectsMismatchedClaim(t *testing.T) {
	svc, _ := newProductFixture(t)

	_, err := svc.Create(&CreateProductRequest{
		Name:           "Core + Support",
		IsBundle:       true,
		BundleProducts: []int64{1, 2},
		BasePrice:      "123.45",
	})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestProductCreateBundleValidation(t *testing.T) {
	svc, _ := newProductFixture(t)

	_, err := svc.Create(&CreateProductRequest{Name: "Empty", IsBundle: true})
	assert.ErrorIs(t, err, utils.ErrValidation)

	_, err = svc.Create(&CreateProductRequest{Name: "Ghost", IsBundle: true, BundleProducts: []int64{1, 99}})
	assert.ErrorIs(t, err, utils.ErrValidation)

	// An existing bundle cannot become a constituent.
	bundle, err := svc.Create(&CreateProductRequest{Name: "Outer", IsBundle: true, BundleProducts: []int64{1}})
	require.NoError(t, err)
	_, err = svc.Create(&CreateProductRequest{Name: "Nested", IsBundle: true, BundleProducts: []int64{int64(bundle.ID)}})
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestProductUpdateReprisesBundleOnConstituentChange(t *testing.T) {
	svc, _ := newProductFixture(t)
	bundle, err := svc.Create(&CreateProductRequest{
		Name:               "Core + Support",
		IsBundle:           true,
		BundleProducts:     []int64{1, 2},
		DiscountPercentage: strPtr("10"),
	})
	require.NoError(t, err)

	// Dropping a constituent re-derives both prices with the kept discount.
	updated, err := svc.Update(bundle.ID, &ProductPatch{BundleProducts: []int64{1}})
	require.NoError(t, err)
	assert.True(t, updated.OriginalPrice.Decimal.Equal(decimal.RequireFromString("400.00")))
	assert.True(t, updated.BasePrice.Equal(decimal.RequireFromString("360.00")), "base %s", updated.BasePrice)
}

func TestProductDeleteGuardedByContracts(t *testing.T) {
	store := newFakeProductStore()
	store.Create(&models.Product{Name: "Core License", BasePrice: decimal.RequireFromString("400.00")})
	svc := NewProductService(store, fixedRefCounter{byProduct: 2})

	_, err := svc.Delete(1)
	assert.ErrorIs(t, err, utils.ErrReferenced)

	// And without references the delete goes through.
	free := NewProductService(store, fixedRefCounter{})
	ok, err := free.Delete(1)
	require.NoError(t, err)
	assert.True(t, ok)
}
