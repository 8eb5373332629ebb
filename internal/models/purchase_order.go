package models

import "time"

// PurchaseOrderStatus enumerates the review states of an uploaded PO.
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusPending  PurchaseOrderStatus = "pending"
	PurchaseOrderStatusApproved PurchaseOrderStatus = "approved"
	PurchaseOrderStatusRejected PurchaseOrderStatus = "rejected"
)

// ValidPurchaseOrderStatus reports whether s is a known PO review state.
func ValidPurchaseOrderStatus(s PurchaseOrderStatus) bool {
	switch s {
	case PurchaseOrderStatusPending, PurchaseOrderStatusApproved, PurchaseOrderStatusRejected:
		return true
	}
	return false
}

// PurchaseOrder holds the metadata of a purchase-order document uploaded for
// a contract. The file content is immutable once stored; only the review
// status and notes are mutated afterwards.
type PurchaseOrder struct {
	ID          int                 `db:"id" json:"id"`
	ContractID  int                 `db:"contract_id" json:"contractId"`
	CustomerID  int                 `db:"customer_id" json:"customerId"`
	PONumber    string              `db:"po_number" json:"poNumber"`
	FileName    string              `db:"file_name" json:"fileName"`
	FileSize    int64               `db:"file_size" json:"fileSize"`
	StoragePath string              `db:"storage_path" json:"storagePath"`
	Status      PurchaseOrderStatus `db:"status" json:"status"`
	Notes       *string             `db:"notes" json:"notes,omitempty"`
	ReviewedAt  *time.Time          `db:"reviewed_at" json:"reviewedAt,omitempty"`
	ReviewedBy  *int                `db:"reviewed_by" json:"reviewedBy,omitempty"`
	CreatedAt   time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updatedAt"`
}
