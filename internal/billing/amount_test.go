package billing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

func TestNetAmount(t *testing.T) {
	tests := []struct {
		name   string
		gross  string
		margin string // empty means absent
		want   string
	}{
		{name: "standard margin", gross: "1000.00", margin: "15.00", want: "850.00"},
		{name: "margin absent", gross: "1000.00", margin: "", want: "1000.00"},
		{name: "zero margin", gross: "1000.00", margin: "0", want: "1000.00"},
		{name: "full margin", gross: "1000.00", margin: "100", want: "0.00"},
		{name: "rounding half up", gross: "100.05", margin: "50", want: "50.03"},
		{name: "fractional margin", gross: "999.99", margin: "12.5", want: "874.99"},
		{name: "zero gross", gross: "0", margin: "30", want: "0.00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gross := dec(t, tt.gross)
			var margin *decimal.Decimal
			if tt.margin != "" {
				m := dec(t, tt.margin)
				margin = &m
			}
			got := NetAmount(gross, margin)
			assert.True(t, got.Equal(dec(t, tt.want)), "got %s, want %s", got, tt.want)
		})
	}
}

func TestBundlePrice(t *testing.T) {
	constituents := []decimal.Decimal{dec(t, "400.00"), dec(t, "300.00")}

	original, base := BundlePrice(constituents, dec(t, "10"))
	assert.True(t, original.Equal(dec(t, "700.00")), "original %s", original)
	assert.True(t, base.Equal(dec(t, "630.00")), "base %s", base)

	// No discount keeps the summed price.
	original, base = BundlePrice(constituents, decimal.Zero)
	assert.True(t, original.Equal(dec(t, "700.00")))
	assert.True(t, base.Equal(dec(t, "700.00")))

	// Empty bundle is zero-priced.
	original, base = BundlePrice(nil, dec(t, "10"))
	assert.True(t, original.IsZero())
	assert.True(t, base.IsZero())
}

func TestValidAmountString(t *testing.T) {
	valid := []string{"0", "1", "100", "1000.00", "0.5", "0.55", "999999.99"}
	for _, s := range valid {
		assert.True(t, ValidAmountString(s), "expected %q valid", s)
	}

	invalid := []string{"", "-1", "1.234", "1.", ".5", "1,00", "abc", "1e3", "+1", " 1"}
	for _, s := range invalid {
		assert.False(t, ValidAmountString(s), "expected %q invalid", s)
	}
}

func TestParseAmount(t *testing.T) {
	d, err := ParseAmount("850.00")
	require.NoError(t, err)
	assert.True(t, d.Equal(dec(t, "850")))

	_, err = ParseAmount("-10")
	assert.Error(t, err)

	_, err = ParseAmount("10.005")
	assert.Error(t, err)
}

func TestValidMargin(t *testing.T) {
	assert.True(t, ValidMargin(decimal.Zero))
	assert.True(t, ValidMargin(dec(t, "100")))
	assert.True(t, ValidMargin(dec(t, "15.5")))
	assert.False(t, ValidMargin(dec(t, "100.01")))
	assert.False(t, ValidMargin(dec(t, "-0.01")))
}
