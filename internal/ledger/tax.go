package ledger

import "github.com/shopspring/decimal"

// TaxBracket applies Rate to income above Threshold
type TaxBracket struct {
	Threshold decimal.Decimal
	Rate      decimal.Decimal
}

// DefaultBrackets are the annual progressive slabs
var DefaultBrackets = []TaxBracket{
	{Threshold: decimal.NewFromInt(0), Rate: decimal.Zero},
	{Threshold: decimal.NewFromInt(250000), Rate: decimal.RequireFromString("0.05")},
	{Threshold: decimal.NewFromInt(500000), Rate: decimal.RequireFromString("0.20")},
	{Threshold: decimal.NewFromInt(1000000), Rate: decimal.RequireFromString("0.30")},
}

// CalculateTax returns the progressive tax on income after deductions,
// rounded to whole units.
func CalculateTax(income, deductions decimal.Decimal) decimal.Decimal {
	return CalculateTaxWithBrackets(income, deductions, DefaultBrackets)
}

// CalculateTaxWithBrackets applies brackets ordered by ascending threshold
func CalculateTaxWithBrackets(income, deductions decimal.Decimal, brackets []TaxBracket) decimal.Decimal {
	taxable := income.Sub(deductions)
	if !taxable.IsPositive() {
		return decimal.Zero
	}

	tax := decimal.Zero
	for i, b := range brackets {
		if taxable.LessThanOrEqual(b.Threshold) {
			break
		}
		upper := taxable
		if i+1 < len(brackets) && brackets[i+1].Threshold.LessThan(taxable) {
			upper = brackets[i+1].Threshold
		}
		tax = tax.Add(upper.Sub(b.Threshold).Mul(b.Rate))
	}
	return tax.Round(0)
}
