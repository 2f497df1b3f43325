package ledger

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCalculateTax(t *testing.T) {
	tests := []struct {
		name       string
		income     int64
		deductions int64
		want       string
	}{
		{"zero", 0, 0, "0"},
		{"below first slab", 200000, 0, "0"},
		{"second slab", 300000, 0, "2500"},
		{"third slab", 800000, 0, "72500"},
		{"top slab", 1200000, 0, "172500"},
		{"deductions", 350000, 100000, "0"},
		{"deductions exceed income", 100000, 500000, "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CalculateTax(decimal.NewFromInt(tt.income), decimal.NewFromInt(tt.deductions))
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestCalculateTaxIsMonotonic(t *testing.T) {
	prev := decimal.Zero
	for income := int64(0); income <= 2000000; income += 12500 {
		tax := CalculateTax(decimal.NewFromInt(income), decimal.Zero)
		assert.True(t, tax.GreaterThanOrEqual(prev), "income %d", income)
		assert.False(t, tax.IsNegative())
		prev = tax
	}
}
