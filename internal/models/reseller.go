package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Reseller represents an intermediary that retains a margin percentage of
// each contract's gross amount.
type Reseller struct {
	ID               int             `db:"id" json:"id"`
	Name             string          `db:"name" json:"name"`
	ContactName      *string         `db:"contact_name" json:"contactName,omitempty"`
	Email            string          `db:"email" json:"email"`
	Phone            *string         `db:"phone" json:"phone,omitempty"`
	MarginPercentage decimal.Decimal `db:"margin_percentage" json:"marginPercentage"`
	Street           *string         `db:"street" json:"street,omitempty"`
	City             *string         `db:"city" json:"city,omitempty"`
	PostalCode       *string         `db:"postal_code" json:"postalCode,omitempty"`
	Country          *string         `db:"country" json:"country,omitempty"`
	IsActive         bool            `db:"is_active" json:"isActive"`
	CreatedAt        time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time       `db:"updated_at" json:"updatedAt"`
}
