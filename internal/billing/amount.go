package billing

import (
	"fmt"
	"regexp"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// amountPattern matches non-negative decimal strings with at most two
// fraction digits, the wire format for all money fields.
var amountPattern = regexp.MustCompile(`^\d+(\.\d{1,2})?$`)

// ValidAmountString reports whether s is a well-formed decimal amount string.
func ValidAmountString(s string) bool {
	return amountPattern.MatchString(s)
}

// ParseAmount parses a decimal amount string, rejecting anything that does
// not match the wire format.
func ParseAmount(s string) (decimal.Decimal, error) {
	if !ValidAmountString(s) {
		return decimal.Decimal{}, fmt.Errorf("malformed amount %q: want non-negative with at most 2 decimals", s)
	}
	return decimal.NewFromString(s)
}

// ValidMargin reports whether m is a usable margin percentage, i.e. in [0, 100].
func ValidMargin(m decimal.Decimal) bool {
	return !m.IsNegative() && m.LessThanOrEqual(hundred)
}

// NetAmount derives the vendor's retained revenue from the gross contract
// amount and an optional reseller margin percentage.
//
//	net = round2(gross * (1 - margin/100))
//
// A nil or zero margin leaves the gross amount unchanged. The caller is
// responsible for rejecting margins outside [0, 100] before calling; this
// function does not clamp.
func NetAmount(gross decimal.Decimal, margin *decimal.Decimal) decimal.Decimal {
	if margin == nil || margin.IsZero() {
		return gross.Round(2)
	}
	factor := decimal.NewFromInt(1).Sub(margin.Div(hundred))
	return gross.Mul(factor).Round(2)
}

// BundlePrice derives a bundle's original and discounted base price from its
// constituents' base prices and the bundle discount percentage.
//
//	original = sum(constituent base prices)
//	base     = round2(original * (1 - discount/100))
func BundlePrice(constituents []decimal.Decimal, discount decimal.Decimal) (original, base decimal.Decimal) {
	for _, p := range constituents {
		original = original.Add(p)
	}
	original = original.Round(2)
	base = NetAmount(original, &discount)
	return original, base
}
