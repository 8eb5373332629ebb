package repository

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/vendra/licensing-api/internal/models"
)

const contractColumns = `id, customer_id, product_id, reseller_id, contract_term,
	start_date, end_date, billing_cycle, billing_status, amount, reseller_margin,
	net_amount, notes, created_at, updated_at`

// ContractRepository handles data access for contracts, including the joined
// reads that assemble a contract together with its customer, product, and
// reseller.
type ContractRepository struct {
	db *sqlx.DB
}

// NewContractRepository creates a new ContractRepository.
func NewContractRepository(db *sqlx.DB) *ContractRepository {
	return &ContractRepository{db: db}
}

// Create inserts a contract row and fills in the generated id and timestamps.
func (r *ContractRepository) Create(ct *models.Contract) error {
	const q = `
		INSERT INTO contracts (
			customer_id, product_id, reseller_id, contract_term,
			start_date, end_date, billing_cycle, billing_status,
			amount, reseller_margin, net_amount, notes
		) VALUES (
			$1,$2,$3,$4,
			$5,$6,$7,$8,
			$9,$10,$11,$12
		) RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		ct.CustomerID, ct.ProductID, ct.ResellerID, ct.ContractTerm,
		ct.StartDate, ct.EndDate, ct.BillingCycle, ct.BillingStatus,
		ct.Amount, ct.ResellerMargin, ct.NetAmount, ct.Notes,
	).Scan(&ct.ID, &ct.CreatedAt, &ct.UpdatedAt)
}

// GetByID returns a bare contract row, or sql.ErrNoRows when absent.
func (r *ContractRepository) GetByID(id int) (*models.Contract, error) {
	const q = `SELECT ` + contractColumns + ` FROM contracts WHERE id = $1 LIMIT 1`
	var ct models.Contract
	if err := r.db.Get(&ct, q, id); err != nil {
		return nil, err
	}
	return &ct, nil
}

// Update writes all mutable contract fields and stamps updated_at.
func (r *ContractRepository) Update(ct *models.Contract) error {
	const q = `UPDATE contracts SET
			customer_id = $2, product_id = $3, reseller_id = $4, contract_term = $5,
			start_date = $6, end_date = $7, billing_cycle = $8, billing_status = $9,
			amount = $10, reseller_margin = $11, net_amount = $12, notes = $13,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at`

	return r.db.QueryRowx(q,
		ct.ID,
		ct.CustomerID, ct.ProductID, ct.ResellerID, ct.ContractTerm,
		ct.StartDate, ct.EndDate, ct.BillingCycle, ct.BillingStatus,
		ct.Amount, ct.ResellerMargin, ct.NetAmount, ct.Notes,
	).Scan(&ct.UpdatedAt)
}

// Delete hard-deletes a contract and reports whether a row was removed.
func (r *ContractRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM contracts WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// joinedSelect is the select list for contract reads with relations. All
// related columns are aliased with a table prefix and scanned as nullables,
// so a dangling foreign key degrades to a nil related entity instead of
// dropping the contract row.
const joinedSelect = `
	SELECT
		ct.id, ct.customer_id, ct.product_id, ct.reseller_id, ct.contract_term,
		ct.start_date, ct.end_date, ct.billing_cycle, ct.billing_status,
		ct.amount, ct.reseller_margin, ct.net_amount, ct.notes,
		ct.created_at, ct.updated_at,
		cu.id AS cu_id, cu.first_name AS cu_first_name, cu.last_name AS cu_last_name,
		cu.company AS cu_company, cu.email AS cu_email, cu.phone AS cu_phone,
		cu.customer_type AS cu_customer_type, cu.street AS cu_street, cu.city AS cu_city,
		cu.postal_code AS cu_postal_code, cu.country AS cu_country,
		cu.user_id AS cu_user_id, cu.can_login AS cu_can_login, cu.status AS cu_status,
		cu.assigned_to_id AS cu_assigned_to_id, cu.approved_at AS cu_approved_at,
		cu.approved_by_id AS cu_approved_by_id,
		cu.created_at AS cu_created_at, cu.updated_at AS cu_updated_at,
		p.id AS p_id, p.name AS p_name, p.description AS p_description,
		p.category AS p_category, p.base_price AS p_base_price, p.is_active AS p_is_active,
		p.is_bundle AS p_is_bundle, p.bundle_products AS p_bundle_products,
		p.original_price AS p_original_price, p.discount_percentage AS p_discount_percentage,
		p.created_at AS p_created_at, p.updated_at AS p_updated_at,
		rs.id AS rs_id, rs.name AS rs_name, rs.contact_name AS rs_contact_name,
		rs.email AS rs_email, rs.phone AS rs_phone,
		rs.margin_percentage AS rs_margin_percentage, rs.is_active AS rs_is_active,
		rs.created_at AS rs_created_at, rs.updated_at AS rs_updated_at
	FROM contracts ct
	LEFT JOIN customers cu ON ct.customer_id = cu.id
	LEFT JOIN products p ON ct.product_id = p.id
	LEFT JOIN resellers rs ON ct.reseller_id = rs.id`

// GetByIDWithRelations returns a contract with its related entities
// hydrated, or sql.ErrNoRows when the contract itself does not exist.
func (r *ContractRepository) GetByIDWithRelations(id int) (*models.ContractWithRelations, error) {
	const q = joinedSelect + ` WHERE ct.id = $1 LIMIT 1`
	var row contractWithJoins
	if err := r.db.Get(&row, q, id); err != nil {
		return nil, err
	}
	view := row.toView()
	return &view, nil
}

// ListWithRelations returns contracts with relations, ordered by customer
// company, then customer contact name, then contract recency descending.
// This groups a customer's contracts together for presentation.
func (r *ContractRepository) ListWithRelations(limit, offset int) ([]models.ContractWithRelations, error) {
	const q = joinedSelect + `
		ORDER BY LOWER(COALESCE(cu.company, '')), LOWER(cu.first_name), LOWER(cu.last_name),
			ct.created_at DESC, ct.id DESC
		LIMIT $1 OFFSET $2`
	return r.selectJoined(q, limit, offset)
}

// ListByCustomer returns all contracts for one customer, newest first.
func (r *ContractRepository) ListByCustomer(customerID int) ([]models.ContractWithRelations, error) {
	const q = joinedSelect + `
		WHERE ct.customer_id = $1
		ORDER BY ct.created_at DESC, ct.id DESC`
	return r.selectJoined(q, customerID)
}

// ListByStatus returns all contracts with the given billing status, newest first.
func (r *ContractRepository) ListByStatus(status models.BillingStatus) ([]models.ContractWithRelations, error) {
	const q = joinedSelect + `
		WHERE ct.billing_status = $1
		ORDER BY ct.created_at DESC, ct.id DESC`
	return r.selectJoined(q, status)
}

func (r *ContractRepository) selectJoined(q string, args ...interface{}) ([]models.ContractWithRelations, error) {
	rows, err := r.db.Queryx(q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []models.ContractWithRelations
	for rows.Next() {
		var row contractWithJoins
		if err := rows.StructScan(&row); err != nil {
			return nil, err
		}
		list = append(list, row.toView())
	}
	return list, rows.Err()
}

// Count returns the total number of contracts.
func (r *ContractRepository) Count() (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM contracts`)
	return n, err
}

// CountByStatus returns the number of contracts in the given billing status.
func (r *ContractRepository) CountByStatus(status models.BillingStatus) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM contracts WHERE billing_status = $1`, status)
	return n, err
}

// CountByCustomer returns the number of contracts referencing a customer.
// Used to guard customer deletion.
func (r *ContractRepository) CountByCustomer(customerID int) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM contracts WHERE customer_id = $1`, customerID)
	return n, err
}

// CountByProduct returns the number of contracts referencing a product.
// Used to guard product deletion.
func (r *ContractRepository) CountByProduct(productID int) (int, error) {
	var n int
	err := r.db.Get(&n, `SELECT COUNT(*) FROM contracts WHERE product_id = $1`, productID)
	return n, err
}

// GetStats computes the dashboard aggregate snapshot in a single query.
// Sums run over NUMERIC net amounts in the database, so no floating-point
// drift is introduced on the way out.
func (r *ContractRepository) GetStats() (*models.DashboardStats, error) {
	const q = `SELECT
			COUNT(*) AS total_contracts,
			COUNT(*) FILTER (WHERE billing_status = 'PENDING')  AS pending_count,
			COUNT(*) FILTER (WHERE billing_status = 'BILLED')   AS billed_count,
			COUNT(*) FILTER (WHERE billing_status = 'RECEIVED') AS received_count,
			COUNT(*) FILTER (WHERE billing_status = 'PAID')     AS paid_count,
			COUNT(*) FILTER (WHERE billing_status = 'LATE')     AS late_count,
			COUNT(*) FILTER (WHERE billing_status = 'CANCELED') AS canceled_count,
			COALESCE(SUM(net_amount) FILTER (WHERE billing_status = 'PAID'), 0) AS total_revenue,
			COALESCE(SUM(net_amount) FILTER (WHERE billing_status IN ('BILLED','RECEIVED','PAID')), 0) AS active_revenue,
			COUNT(*) FILTER (WHERE billing_status = 'LATE') AS overdue_count,
			COALESCE(SUM(net_amount) FILTER (WHERE billing_status = 'LATE'), 0) AS overdue_amount
		FROM contracts`

	var stats models.DashboardStats
	if err := r.db.Get(&stats, q); err != nil {
		return nil, err
	}
	return &stats, nil
}

// contractWithJoins is a helper struct for scanning contracts with joined
// related columns.
type contractWithJoins struct {
	ID             int                 `db:"id"`
	CustomerID     int                 `db:"customer_id"`
	ProductID      int                 `db:"product_id"`
	ResellerID     *int                `db:"reseller_id"`
	ContractTerm   int                 `db:"contract_term"`
	StartDate      time.Time           `db:"start_date"`
	EndDate        time.Time           `db:"end_date"`
	BillingCycle   models.BillingCycle `db:"billing_cycle"`
	BillingStatus  models.BillingStatus `db:"billing_status"`
	Amount         decimal.Decimal     `db:"amount"`
	ResellerMargin decimal.NullDecimal `db:"reseller_margin"`
	NetAmount      decimal.Decimal     `db:"net_amount"`
	Notes          *string             `db:"notes"`
	CreatedAt      time.Time           `db:"created_at"`
	UpdatedAt      time.Time           `db:"updated_at"`

	CuID           *int       `db:"cu_id"`
	CuFirstName    *string    `db:"cu_first_name"`
	CuLastName     *string    `db:"cu_last_name"`
	CuCompany      *string    `db:"cu_company"`
	CuEmail        *string    `db:"cu_email"`
	CuPhone        *string    `db:"cu_phone"`
	CuCustomerType *string    `db:"cu_customer_type"`
	CuStreet       *string    `db:"cu_street"`
	CuCity         *string    `db:"cu_city"`
	CuPostalCode   *string    `db:"cu_postal_code"`
	CuCountry      *string    `db:"cu_country"`
	CuUserID       *int       `db:"cu_user_id"`
	CuCanLogin     *bool      `db:"cu_can_login"`
	CuStatus       *string    `db:"cu_status"`
	CuAssignedToID *int       `db:"cu_assigned_to_id"`
	CuApprovedAt   *time.Time `db:"cu_approved_at"`
	CuApprovedByID *int       `db:"cu_approved_by_id"`
	CuCreatedAt    *time.Time `db:"cu_created_at"`
	CuUpdatedAt    *time.Time `db:"cu_updated_at"`

	PID                 *int                `db:"p_id"`
	PName               *string             `db:"p_name"`
	PDescription        *string             `db:"p_description"`
	PCategory           *string             `db:"p_category"`
	PBasePrice          decimal.NullDecimal `db:"p_base_price"`
	PIsActive           *bool               `db:"p_is_active"`
	PIsBundle           *bool               `db:"p_is_bundle"`
	PBundleProducts     pq.Int64Array       `db:"p_bundle_products"`
	POriginalPrice      decimal.NullDecimal `db:"p_original_price"`
	PDiscountPercentage decimal.NullDecimal `db:"p_discount_percentage"`
	PCreatedAt          *time.Time          `db:"p_created_at"`
	PUpdatedAt          *time.Time          `db:"p_updated_at"`

	RsID               *int                `db:"rs_id"`
	RsName             *string             `db:"rs_name"`
	RsContactName      *string             `db:"rs_contact_name"`
	RsEmail            *string             `db:"rs_email"`
	RsPhone            *string             `db:"rs_phone"`
	RsMarginPercentage decimal.NullDecimal `db:"rs_margin_percentage"`
	RsIsActive         *bool               `db:"rs_is_active"`
	RsCreatedAt        *time.Time          `db:"rs_created_at"`
	RsUpdatedAt        *time.Time          `db:"rs_updated_at"`
}

func (row *contractWithJoins) toView() models.ContractWithRelations {
	view := models.ContractWithRelations{
		Contract: models.Contract{
			ID:             row.ID,
			CustomerID:     row.CustomerID,
			ProductID:      row.ProductID,
			ResellerID:     row.ResellerID,
			ContractTerm:   row.ContractTerm,
			StartDate:      row.StartDate,
			EndDate:        row.EndDate,
			BillingCycle:   row.BillingCycle,
			BillingStatus:  row.BillingStatus,
			Amount:         row.Amount,
			ResellerMargin: row.ResellerMargin,
			NetAmount:      row.NetAmount,
			Notes:          row.Notes,
			CreatedAt:      row.CreatedAt,
			UpdatedAt:      row.UpdatedAt,
		},
	}

	if row.CuID != nil {
		view.Customer = &models.Customer{
			ID:           *row.CuID,
			FirstName:    derefStr(row.CuFirstName),
			LastName:     derefStr(row.CuLastName),
			Company:      row.CuCompany,
			Email:        derefStr(row.CuEmail),
			Phone:        row.CuPhone,
			CustomerType: models.CustomerType(derefStr(row.CuCustomerType)),
			Street:       row.CuStreet,
			City:         row.CuCity,
			PostalCode:   row.CuPostalCode,
			Country:      row.CuCountry,
			UserID:       row.CuUserID,
			CanLogin:     derefBool(row.CuCanLogin),
			Status:       models.CustomerStatus(derefStr(row.CuStatus)),
			AssignedToID: row.CuAssignedToID,
			ApprovedAt:   row.CuApprovedAt,
			ApprovedByID: row.CuApprovedByID,
			CreatedAt:    derefTime(row.CuCreatedAt),
			UpdatedAt:    derefTime(row.CuUpdatedAt),
		}
	}
	if row.PID != nil {
		view.Product = &models.Product{
			ID:                 *row.PID,
			Name:               derefStr(row.PName),
			Description:        row.PDescription,
			Category:           row.PCategory,
			BasePrice:          row.PBasePrice.Decimal,
			IsActive:           derefBool(row.PIsActive),
			IsBundle:           derefBool(row.PIsBundle),
			BundleProducts:     row.PBundleProducts,
			OriginalPrice:      row.POriginalPrice,
			DiscountPercentage: row.PDiscountPercentage,
			CreatedAt:          derefTime(row.PCreatedAt),
			UpdatedAt:          derefTime(row.PUpdatedAt),
		}
	}
	if row.RsID != nil {
		view.Reseller = &models.Reseller{
			ID:               *row.RsID,
			Name:             derefStr(row.RsName),
			ContactName:      row.RsContactName,
			Email:            derefStr(row.RsEmail),
			Phone:            row.RsPhone,
			MarginPercentage: row.RsMarginPercentage.Decimal,
			IsActive:         derefBool(row.RsIsActive),
			CreatedAt:        derefTime(row.RsCreatedAt),
			UpdatedAt:        derefTime(row.RsUpdatedAt),
		}
	}
	return view
}

func derefStr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefBool(b *bool) bool {
	return b != nil && *b
}

func derefTime(t *time.Time) time.Time {
	if t == nil {
		return time.Time{}
	}
	return *t
}
