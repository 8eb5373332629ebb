package repository

import (
	"github.com/jmoiron/sqlx"

	"github.com/vendra/licensing-api/internal/models"
)

const purchaseOrderColumns = `id, contract_id, customer_id, po_number, file_name,
	file_size, storage_path, status, notes, reviewed_at, reviewed_by, created_at, updated_at`

// PurchaseOrderRepository provides data access methods for the
// purchase_orders table.
type PurchaseOrderRepository struct {
	db *sqlx.DB
}

// NewPurchaseOrderRepository creates a new PurchaseOrderRepository.
func NewPurchaseOrderRepository(db *sqlx.DB) *PurchaseOrderRepository {
	return &PurchaseOrderRepository{db: db}
}

// Create inserts a purchase-order metadata row.
func (r *PurchaseOrderRepository) Create(po *models.PurchaseOrder) error {
	const q = `
		INSERT INTO purchase_orders (
			contract_id, customer_id, po_number, file_name, file_size, storage_path, status
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
		RETURNING id, created_at, updated_at`

	return r.db.QueryRowx(q,
		po.ContractID, po.CustomerID, po.PONumber, po.FileName, po.FileSize,
		po.StoragePath, po.Status,
	).Scan(&po.ID, &po.CreatedAt, &po.UpdatedAt)
}

// GetByID returns a purchase order by id, or sql.ErrNoRows when absent.
func (r *PurchaseOrderRepository) GetByID(id int) (*models.PurchaseOrder, error) {
	const q = `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders WHERE id = $1 LIMIT 1`
	var po models.PurchaseOrder
	if err := r.db.Get(&po, q, id); err != nil {
		return nil, err
	}
	return &po, nil
}

// ListByContract returns the purchase orders of a contract, newest first.
func (r *PurchaseOrderRepository) ListByContract(contractID int) ([]models.PurchaseOrder, error) {
	const q = `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE contract_id = $1 ORDER BY created_at DESC, id DESC`
	var list []models.PurchaseOrder
	if err := r.db.Select(&list, q, contractID); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByCustomer returns a customer's purchase orders across all their
// contracts, newest first.
func (r *PurchaseOrderRepository) ListByCustomer(customerID int) ([]models.PurchaseOrder, error) {
	const q = `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE customer_id = $1 ORDER BY created_at DESC, id DESC`
	var list []models.PurchaseOrder
	if err := r.db.Select(&list, q, customerID); err != nil {
		return nil, err
	}
	return list, nil
}

// ListByStatus returns purchase orders in the given review state, newest first.
func (r *PurchaseOrderRepository) ListByStatus(status models.PurchaseOrderStatus) ([]models.PurchaseOrder, error) {
	const q = `SELECT ` + purchaseOrderColumns + ` FROM purchase_orders
		WHERE status = $1 ORDER BY created_at DESC, id DESC`
	var list []models.PurchaseOrder
	if err := r.db.Select(&list, q, status); err != nil {
		return nil, err
	}
	return list, nil
}

// UpdateReview writes the review outcome. File metadata is immutable once
// stored, so only status, notes, and reviewer fields are touched.
func (r *PurchaseOrderRepository) UpdateReview(po *models.PurchaseOrder) error {
	const q = `UPDATE purchase_orders SET
			status = $2, notes = $3, reviewed_at = NOW(), reviewed_by = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING reviewed_at, updated_at`

	return r.db.QueryRowx(q, po.ID, po.Status, po.Notes, po.ReviewedBy).
		Scan(&po.ReviewedAt, &po.UpdatedAt)
}

// Delete hard-deletes a purchase-order row and reports whether one was removed.
func (r *PurchaseOrderRepository) Delete(id int) (bool, error) {
	res, err := r.db.Exec(`DELETE FROM purchase_orders WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
