package service

import (
	"database/sql"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vendra/licensing-api/internal/billing"
	"github.com/vendra/licensing-api/internal/models"
	"github.com/vendra/licensing-api/internal/utils"
)

// fakeContractStore is an in-memory ContractStore for service tests.
type fakeContractStore struct {
	nextID    int
	contracts map[int]*models.Contract
	customers map[int]*models.Customer
	products  map[int]*models.Product
	resellers map[int]*models.Reseller
}

func newFakeContractStore() *fakeContractStore {
	return &fakeContractStore{
		nextID:    1,
		contracts: map[int]*models.Contract{},
		customers: map[int]*models.Customer{},
		products:  map[int]*models.Product{},
		resellers: map[int]*models.Reseller{},
	}
}

func (f *fakeContractStore) Create(ct *models.Contract) error {
	ct.ID = f.nextID
	f.nextID++
	now := time.Now()
	ct.CreatedAt = now
	ct.UpdatedAt = now
	cp := *ct
	f.contracts[ct.ID] = &cp
	return nil
}

func (f *fakeContractStore) GetByID(id int) (*models.Contract, error) {
	ct, ok := f.contracts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *ct
	return &cp, nil
}

func (f *fakeContractStore) Update(ct *models.Contract) error {
	if _, ok := f.contracts[ct.ID]; !ok {
		return sql.ErrNoRows
	}
	ct.UpdatedAt = time.Now()
	cp := *ct
	f.contracts[ct.ID] = &cp
	return nil
}

func (f *fakeContractStore) Delete(id int) (bool, error) {
	if _, ok := f.contracts[id]; !ok {
		return false, nil
	}
	delete(f.contracts, id)
	return true, nil
}

func (f *fakeContractStore) GetByIDWithRelations(id int) (*models.ContractWithRelations, error) {
	ct, ok := f.contracts[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	view := models.ContractWithRelations{Contract: *ct}
	view.Customer = f.customers[ct.CustomerID]
	view.Product = f.products[ct.ProductID]
	if ct.ResellerID != nil {
		view.Reseller = f.resellers[*ct.ResellerID]
	}
	return &view, nil
}

// ListWithRelations mirrors the repository ordering: customer company,
// then contact name, case-insensitively, then contract recency descending.
func (f *fakeContractStore) ListWithRelations(limit, offset int) ([]models.ContractWithRelations, error) {
	var out []models.ContractWithRelations
	for id := range f.contracts {
		v, _ := f.GetByIDWithRelations(id)
		out = append(out, *v)
	}
	sort.Slice(out, func(i, j int) bool {
		ki, kj := customerSortKey(out[i].Customer), customerSortKey(out[j].Customer)
		if ki != kj {
			return ki < kj
		}
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out, nil
}

func customerSortKey(cu *models.Customer) string {
	if cu == nil {
		return "￿"
	}
	company := ""
	if cu.Company != nil {
		company = *cu.Company
	}
	return strings.ToLower(company) + "\x00" + strings.ToLower(cu.FirstName) + "\x00" + strings.ToLower(cu.LastName)
}

func (f *fakeContractStore) ListByCustomer(customerID int) ([]models.ContractWithRelations, error) {
	all, _ := f.ListWithRelations(0, 0)
	var out []models.ContractWithRelations
	for _, v := range all {
		if v.CustomerID == customerID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeContractStore) ListByStatus(status models.BillingStatus) ([]models.ContractWithRelations, error) {
	all, _ := f.ListWithRelations(0, 0)
	var out []models.ContractWithRelations
	for _, v := range all {
		if v.BillingStatus == status {
			out = append(out, v)
		}
	}
	return out, nil
}

func (f *fakeContractStore) Count() (int, error) { return len(f.contracts), nil }

// Lookup fakes reuse the same maps.
type fakeCustomerGetter struct{ store *fakeContractStore }

func (f fakeCustomerGetter) GetByID(id int) (*models.Customer, error) {
	c, ok := f.store.customers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return c, nil
}

type fakeProductGetter struct{ store *fakeContractStore }

func (f fakeProductGetter) GetByID(id int) (*models.Product, error) {
	p, ok := f.store.products[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return p, nil
}

type fakeResellerGetter struct{ store *fakeContractStore }

func (f fakeResellerGetter) GetByID(id int) (*models.Reseller, error) {
	r, ok := f.store.resellers[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return r, nil
}

func newContractFixture(t *testing.T) (*ContractService, *fakeContractStore) {
	t.Helper()
	store := newFakeContractStore()
	store.customers[1] = &models.Customer{ID: 1, FirstName: "Ada", LastName: "Krogh", Email: "ada@example.com"}
	store.products[1] = &models.Product{ID: 1, Name: "Fleet License", BasePrice: decimal.RequireFromString("1000")}
	store.resellers[1] = &models.Reseller{ID: 1, Name: "Northwind Partners", Email: "sales@northwind.example", MarginPercentage: decimal.RequireFromString("15")}
	svc := NewContractService(store, fakeCustomerGetter{store}, fakeProductGetter{store}, fakeResellerGetter{store})
	return svc, store
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func TestContractCreateDerivesNetAmount(t *testing.T) {
	svc, _ := newContractFixture(t)

	ct, err := svc.Create(&CreateContractRequest{
		CustomerID:     1,
		ProductID:      1,
		ResellerID:     intPtr(1),
		ContractTerm:   3,
		StartDate:      "2026-01-01",
		EndDate:        "2029-01-01",
		BillingCycle:   "annual",
		Amount:         "1000.00",
		ResellerMargin: strPtr("15.00"),
	})
	require.NoError(t, err)

	assert.Equal(t, models.BillingStatusPending, ct.BillingStatus)
	assert.True(t, ct.NetAmount.Equal(decimal.RequireFromString("850.00")), "net %s", ct.NetAmount)

	// Round-trip: reading it back returns the same fields.
	got, err := svc.Get(ct.ID)
	require.NoError(t, err)
	assert.Equal(t, ct.ID, got.ID)
	assert.True(t, got.Amount.Equal(ct.Amount))
	assert.True(t, got.NetAmount.Equal(ct.NetAmount))
	assert.Equal(t, ct.BillingStatus, got.BillingStatus)
}

func TestContractCreateWithoutMargin(t *testing.T) {
	svc, _ := newContractFixture(t)

	ct, err := svc.Create(&CreateContractRequest{
		CustomerID:   1,
		ProductID:    1,
		ContractTerm: 1,
		StartDate:    "2026-01-01",
		EndDate:      "2027-01-01",
		BillingCycle: "monthly",
		Amount:       "1000.00",
	})
	require.NoError(t, err)
	assert.True(t, ct.NetAmount.Equal(decimal.RequireFromString("1000.00")))
	assert.False(t, ct.ResellerMargin.Valid)
}

func TestContractCreateInitialStatus(t *testing.T) {
	svc, _ := newContractFixture(t)

	newRequest := func(status string) *CreateContractRequest {
		return &CreateContractRequest{
			CustomerID: 1, ProductID: 1, ContractTerm: 1,
			StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual",
			Amount: "100.00", BillingStatus: strPtr(status),
		}
	}

	// Statuses reachable from PENDING are accepted at creation.
	ct, err := svc.Create(newRequest("BILLED"))
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusBilled, ct.BillingStatus)

	ct, err = svc.Create(newRequest("CANCELED"))
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusCanceled, ct.BillingStatus)

	// A contract cannot be born past the transitions the machine allows.
	for _, status := range []string{"RECEIVED", "PAID", "LATE"} {
		_, err := svc.Create(newRequest(status))
		var invalid *billing.ErrInvalidTransition
		require.ErrorAs(t, err, &invalid, "status %s", status)
		assert.Equal(t, models.BillingStatusPending, invalid.From)
	}

	_, err = svc.Create(newRequest("SETTLED"))
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestContractListGroupsByCustomer(t *testing.T) {
	svc, store := newContractFixture(t)
	store.customers[2] = &models.Customer{ID: 2, FirstName: "Nils", LastName: "Berg",
		Company: strPtr("Borealis Group"), Email: "nils@borealis.example"}
	store.customers[3] = &models.Customer{ID: 3, FirstName: "Zoe", LastName: "Falk",
		Company: strPtr("acme gmbh"), Email: "zoe@acme.example"}

	create := func(customerID int) int {
		t.Helper()
		ct, err := svc.Create(&CreateContractRequest{
			CustomerID: customerID, ProductID: 1, ContractTerm: 1,
			StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual",
			Amount: "100.00",
		})
		require.NoError(t, err)
		return ct.ID
	}

	borealis := create(2)
	acme := create(3)
	adaOld := create(1)
	adaNew := create(1)

	list, err := svc.List(10, 0)
	require.NoError(t, err)
	require.Len(t, list, 4)

	// Customers without a company sort first, company names compare
	// case-insensitively, and within a customer newest contracts lead.
	var got []int
	for _, v := range list {
		got = append(got, v.ID)
	}
	assert.Equal(t, []int{adaNew, adaOld, acme, borealis}, got)
}

func TestContractCreateValidation(t *testing.T) {
	svc, _ := newContractFixture(t)

	tests := []struct {
		name string
		req  CreateContractRequest
		want error
	}{
		{
			name: "unknown customer",
			req: CreateContractRequest{CustomerID: 99, ProductID: 1, ContractTerm: 1,
				StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual", Amount: "100"},
			want: utils.ErrNotFound,
		},
		{
			name: "unknown product",
			req: CreateContractRequest{CustomerID: 1, ProductID: 99, ContractTerm: 1,
				StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual", Amount: "100"},
			want: utils.ErrNotFound,
		},
		{
			name: "term below one year",
			req: CreateContractRequest{CustomerID: 1, ProductID: 1, ContractTerm: 0,
				StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual", Amount: "100"},
			want: utils.ErrValidation,
		},
		{
			name: "end before start",
			req: CreateContractRequest{CustomerID: 1, ProductID: 1, ContractTerm: 1,
				StartDate: "2027-01-01", EndDate: "2026-01-01", BillingCycle: "annual", Amount: "100"},
			want: utils.ErrValidation,
		},
		{
			name: "bad billing cycle",
			req: CreateContractRequest{CustomerID: 1, ProductID: 1, ContractTerm: 1,
				StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "weekly", Amount: "100"},
			want: utils.ErrValidation,
		},
		{
			name: "malformed amount",
			req: CreateContractRequest{CustomerID: 1, ProductID: 1, ContractTerm: 1,
				StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual", Amount: "10.005"},
			want: utils.ErrValidation,
		},
		{
			name: "margin above 100",
			req: CreateContractRequest{CustomerID: 1, ProductID: 1, ContractTerm: 1,
				StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual", Amount: "100",
				ResellerMargin: strPtr("100.01")},
			want: utils.ErrValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(&tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestContractUpdateRecomputesNetAmount(t *testing.T) {
	svc, _ := newContractFixture(t)
	ct, err := svc.Create(&CreateContractRequest{
		CustomerID: 1, ProductID: 1, ResellerID: intPtr(1), ContractTerm: 1,
		StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual",
		Amount: "1000.00", ResellerMargin: strPtr("15.00"),
	})
	require.NoError(t, err)

	// Renegotiated gross amount keeps the margin.
	updated, err := svc.Update(ct.ID, &ContractPatch{Amount: strPtr("2000.00")})
	require.NoError(t, err)
	assert.True(t, updated.NetAmount.Equal(decimal.RequireFromString("1700.00")), "net %s", updated.NetAmount)

	// Clearing the margin restores net = gross.
	updated, err = svc.Update(ct.ID, &ContractPatch{ResellerMargin: strPtr("")})
	require.NoError(t, err)
	assert.False(t, updated.ResellerMargin.Valid)
	assert.True(t, updated.NetAmount.Equal(decimal.RequireFromString("2000.00")))
}

func TestContractStatusTransitions(t *testing.T) {
	svc, _ := newContractFixture(t)
	ct, err := svc.Create(&CreateContractRequest{
		CustomerID: 1, ProductID: 1, ContractTerm: 1,
		StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual", Amount: "100",
	})
	require.NoError(t, err)

	// Forward progression.
	for _, next := range []models.BillingStatus{
		models.BillingStatusBilled, models.BillingStatusReceived, models.BillingStatusPaid,
	} {
		ct, err = svc.ChangeStatus(ct.ID, next, false)
		require.NoError(t, err)
		assert.Equal(t, next, ct.BillingStatus)
	}

	// Terminal state rejects further movement.
	_, err = svc.ChangeStatus(ct.ID, models.BillingStatusPending, false)
	var invalid *billing.ErrInvalidTransition
	assert.ErrorAs(t, err, &invalid)

	// Idempotent same-state set succeeds and changes nothing else.
	before, err := svc.Get(ct.ID)
	require.NoError(t, err)
	after, err := svc.ChangeStatus(ct.ID, models.BillingStatusPaid, false)
	require.NoError(t, err)
	assert.Equal(t, before.BillingStatus, after.BillingStatus)
	assert.True(t, before.Amount.Equal(after.Amount))
	assert.True(t, before.NetAmount.Equal(after.NetAmount))
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)

	// Force allows manual correction out of a terminal state.
	ct, err = svc.ChangeStatus(ct.ID, models.BillingStatusPending, true)
	require.NoError(t, err)
	assert.Equal(t, models.BillingStatusPending, ct.BillingStatus)
}

func TestContractGetMissingReturnsNotFound(t *testing.T) {
	svc, _ := newContractFixture(t)

	_, err := svc.Get(42)
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestContractRelationalDegradation(t *testing.T) {
	svc, store := newContractFixture(t)
	ct, err := svc.Create(&CreateContractRequest{
		CustomerID: 1, ProductID: 1, ResellerID: intPtr(1), ContractTerm: 1,
		StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual",
		Amount: "500.00", ResellerMargin: strPtr("10"),
	})
	require.NoError(t, err)

	// Simulate the reseller being deleted out from under the contract.
	delete(store.resellers, 1)

	got, err := svc.Get(ct.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Reseller)
	assert.NotNil(t, got.Customer)
	assert.NotNil(t, got.Product)
	// The historical net amount is untouched.
	assert.True(t, got.NetAmount.Equal(decimal.RequireFromString("450.00")))
}

func TestContractDeleteThenRead(t *testing.T) {
	svc, _ := newContractFixture(t)
	ct, err := svc.Create(&CreateContractRequest{
		CustomerID: 1, ProductID: 1, ContractTerm: 1,
		StartDate: "2026-01-01", EndDate: "2027-01-01", BillingCycle: "annual", Amount: "100",
	})
	require.NoError(t, err)

	ok, err := svc.Delete(ct.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	_, err = svc.Get(ct.ID)
	assert.ErrorIs(t, err, utils.ErrNotFound)

	ok, err = svc.Delete(ct.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}
