package market

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/interfaces"
	"github.com/user/wealth-sprint/internal/types"
)

const (
	// MinPrice is the floor applied after every price update
	MinPrice = 1.0

	// sentimentWeight bounds systemic influence to ±10%
	sentimentWeight = 0.1

	// Loan bounds. Longer terms or higher rates overflow the amortisation.
	MaxLoanTermMonths = 600
	MaxLoanRate       = 100.0
)

// PriceTick applies one day of idiosyncratic movement to a price.
// Volatility is a percentage; the move is uniform in ±volatility%.
func PriceTick(price, volatility float64, rng interfaces.RandomSource) float64 {
	r := rng.Float64()*2 - 1
	next := price + price*(volatility/100)*r
	return math.Max(MinPrice, next)
}

// DrawSentiment returns a market-wide sentiment in [-1, 1]
func DrawSentiment(rng interfaces.RandomSource) float64 {
	return rng.Float64()*2 - 1
}

// ApplySentiment scales a price by the systemic sentiment factor
func ApplySentiment(price, sentiment float64) float64 {
	sentiment = math.Max(-1, math.Min(1, sentiment))
	return math.Max(MinPrice, price*(1+sentiment*sentimentWeight))
}

// AccrueFixedIncome returns principal plus simple interest for the elapsed years
func AccrueFixedIncome(principal decimal.Decimal, annualRate, years float64) decimal.Decimal {
	if years <= 0 {
		return principal
	}
	interest := principal.Mul(decimal.NewFromFloat(annualRate)).Div(decimal.NewFromInt(100)).Mul(decimal.NewFromFloat(years))
	return principal.Add(interest).Round(2)
}

// ComputeLoanPayment returns the amortised monthly payment, rounded to whole units
func ComputeLoanPayment(principal decimal.Decimal, annualRate float64, termMonths int) (decimal.Decimal, error) {
	if termMonths <= 0 {
		return decimal.Zero, fmt.Errorf("loan term %d months: %w", termMonths, types.ErrInvalidQuantity)
	}
	if termMonths > MaxLoanTermMonths {
		return decimal.Zero, fmt.Errorf("loan term %d months exceeds %d: %w", termMonths, MaxLoanTermMonths, types.ErrInvalidQuantity)
	}
	if principal.IsNegative() || annualRate < 0 || annualRate > MaxLoanRate || math.IsNaN(annualRate) {
		return decimal.Zero, fmt.Errorf("loan principal %s rate %.2f: %w", principal, annualRate, types.ErrInvalidQuantity)
	}

	n := decimal.NewFromInt(int64(termMonths))
	if annualRate == 0 {
		return principal.Div(n).Round(0), nil
	}

	p := principal.InexactFloat64()
	i := annualRate / 12 / 100
	growth := math.Pow(1+i, float64(termMonths))
	emi := p * i * growth / (growth - 1)
	if math.IsInf(growth, 0) || math.IsNaN(emi) || math.IsInf(emi, 0) {
		return decimal.Zero, fmt.Errorf("loan of %s at %.2f%% over %d months: %w", principal, annualRate, termMonths, types.ErrInvalidQuantity)
	}
	return decimal.NewFromFloat(emi).Round(0), nil
}
