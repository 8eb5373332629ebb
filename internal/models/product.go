package models

import (
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Product represents a sellable license product. A bundle product combines
// other products at a discounted price: BasePrice is the discounted price,
// derived from OriginalPrice and DiscountPercentage at save time.
type Product struct {
	ID          int             `db:"id" json:"id"`
	Name        string          `db:"name" json:"name"`
	Description *string         `db:"description" json:"description,omitempty"`
	Category    *string         `db:"category" json:"category,omitempty"`
	BasePrice   decimal.Decimal `db:"base_price" json:"basePrice"`
	IsActive    bool            `db:"is_active" json:"isActive"`

	IsBundle           bool                `db:"is_bundle" json:"isBundle"`
	BundleProducts     pq.Int64Array       `db:"bundle_products" json:"bundleProducts,omitempty"`
	OriginalPrice      decimal.NullDecimal `db:"original_price" json:"originalPrice,omitempty"`
	DiscountPercentage decimal.NullDecimal `db:"discount_percentage" json:"discountPercentage,omitempty"`

	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
