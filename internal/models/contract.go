package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// BillingStatus enumerates the payment-lifecycle states of a contract.
type BillingStatus string

const (
	BillingStatusPending  BillingStatus = "PENDING"
	BillingStatusBilled   BillingStatus = "BILLED"
	BillingStatusReceived BillingStatus = "RECEIVED"
	BillingStatusPaid     BillingStatus = "PAID"
	BillingStatusLate     BillingStatus = "LATE"
	BillingStatusCanceled BillingStatus = "CANCELED"
)

// ValidBillingStatus reports whether s is a known billing status.
func ValidBillingStatus(s BillingStatus) bool {
	switch s {
	case BillingStatusPending, BillingStatusBilled, BillingStatusReceived,
		BillingStatusPaid, BillingStatusLate, BillingStatusCanceled:
		return true
	}
	return false
}

// BillingCycle enumerates the invoicing recurrence periods.
type BillingCycle string

const (
	BillingCycleAnnual    BillingCycle = "annual"
	BillingCycleMonthly   BillingCycle = "monthly"
	BillingCycleQuarterly BillingCycle = "quarterly"
)

// ValidBillingCycle reports whether c is a known billing cycle.
func ValidBillingCycle(c BillingCycle) bool {
	switch c {
	case BillingCycleAnnual, BillingCycleMonthly, BillingCycleQuarterly:
		return true
	}
	return false
}

// Contract is the central entity: a licensing agreement between the vendor,
// a customer, a product, and an optional reseller intermediary.
// Amount is the gross contract price; NetAmount is the vendor's retained
// revenue after the reseller margin is deducted.
type Contract struct {
	ID            int                 `db:"id" json:"id"`
	CustomerID    int                 `db:"customer_id" json:"customerId"`
	ProductID     int                 `db:"product_id" json:"productId"`
	ResellerID    *int                `db:"reseller_id" json:"resellerId,omitempty"`
	ContractTerm  int                 `db:"contract_term" json:"contractTerm"`
	StartDate     time.Time           `db:"start_date" json:"startDate"`
	EndDate       time.Time           `db:"end_date" json:"endDate"`
	BillingCycle  BillingCycle        `db:"billing_cycle" json:"billingCycle"`
	BillingStatus BillingStatus       `db:"billing_status" json:"billingStatus"`
	Amount        decimal.Decimal     `db:"amount" json:"amount"`
	ResellerMargin decimal.NullDecimal `db:"reseller_margin" json:"resellerMargin,omitempty"`
	NetAmount     decimal.Decimal     `db:"net_amount" json:"netAmount"`
	Notes         *string             `db:"notes" json:"notes,omitempty"`
	CreatedAt     time.Time           `db:"created_at" json:"createdAt"`
	UpdatedAt     time.Time           `db:"updated_at" json:"updatedAt"`
}

// ContractWithRelations is a denormalized view of a contract together with
// its customer, product, and reseller. A related entity is nil when the
// foreign key is unset or the referenced row no longer exists.
type ContractWithRelations struct {
	Contract
	Customer *Customer `json:"customer"`
	Product  *Product  `json:"product"`
	Reseller *Reseller `json:"reseller"`
}
