package models

import "time"

// CustomerType enumerates the supported customer classifications.
type CustomerType string

const (
	CustomerTypeIndividual       CustomerType = "individual"
	CustomerTypePartner          CustomerType = "partner"
	CustomerTypeReseller         CustomerType = "reseller"
	CustomerTypeSolutionProvider CustomerType = "solution_provider"
)

// CustomerStatus enumerates the workflow states of a customer record.
type CustomerStatus string

const (
	CustomerStatusActive          CustomerStatus = "active"
	CustomerStatusInactive        CustomerStatus = "inactive"
	CustomerStatusSuspended       CustomerStatus = "suspended"
	CustomerStatusPendingApproval CustomerStatus = "pending_approval"
)

// Customer represents a licensing customer.
// Fields are tagged for both DB scanning and JSON serialization.
type Customer struct {
	ID           int            `db:"id" json:"id"`
	FirstName    string         `db:"first_name" json:"firstName"`
	LastName     string         `db:"last_name" json:"lastName"`
	Company      *string        `db:"company" json:"company,omitempty"`
	Email        string         `db:"email" json:"email"`
	Phone        *string        `db:"phone" json:"phone,omitempty"`
	CustomerType CustomerType   `db:"customer_type" json:"customerType"`
	Street       *string        `db:"street" json:"street,omitempty"`
	City         *string        `db:"city" json:"city,omitempty"`
	PostalCode   *string        `db:"postal_code" json:"postalCode,omitempty"`
	Country      *string        `db:"country" json:"country,omitempty"`
	UserID       *int           `db:"user_id" json:"userId,omitempty"`
	CanLogin     bool           `db:"can_login" json:"canLogin"`
	Status       CustomerStatus `db:"status" json:"status"`
	AssignedToID *int           `db:"assigned_to_id" json:"assignedToId,omitempty"`
	ApprovedAt   *time.Time     `db:"approved_at" json:"approvedAt,omitempty"`
	ApprovedByID *int           `db:"approved_by_id" json:"approvedById,omitempty"`
	Notes        *string        `db:"notes" json:"notes,omitempty"`
	CreatedAt    time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time      `db:"updated_at" json:"updatedAt"`
}

// ValidCustomerType reports whether t is a known customer classification.
func ValidCustomerType(t CustomerType) bool {
	switch t {
	case CustomerTypeIndividual, CustomerTypePartner, CustomerTypeReseller, CustomerTypeSolutionProvider:
		return true
	}
	return false
}

// ValidCustomerStatus reports whether s is a known customer workflow state.
func ValidCustomerStatus(s CustomerStatus) bool {
	switch s {
	case CustomerStatusActive, CustomerStatusInactive, CustomerStatusSuspended, CustomerStatusPendingApproval:
		return true
	}
	return false
}
