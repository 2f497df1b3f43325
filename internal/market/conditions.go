package market

import (
	"math"
	"strings"

	"github.com/user/wealth-sprint/internal/interfaces"
	"github.com/user/wealth-sprint/internal/types"
)

const (
	// Policy rate bounds in annual percent
	MinInterestRate = 3.0
	MaxInterestRate = 12.0

	rateDrift       = 0.1
	volatilityDrift = 0.2
	highVolatility  = 0.7
	lowVolatility   = 0.3

	// bullishSentiment is the sentiment above which the day counts as bullish
	bullishSentiment = 0.3

	// GovernmentBondBaseYield is the yield before the policy rate is added
	GovernmentBondBaseYield = 5.0
	minBondYield            = 1.0
)

// Sector groups used for sector influence
const (
	SectorTechnology    = "technology"
	SectorFinance       = "finance"
	SectorConsumer      = "consumer"
	SectorEnergy        = "energy"
	SectorManufacturing = "manufacturing"
	SectorHealthcare    = "healthcare"
)

var sectorGroups = map[string]string{
	"it":                 SectorTechnology,
	"technology":         SectorTechnology,
	"software":           SectorTechnology,
	"banking":            SectorFinance,
	"finance":            SectorFinance,
	"financial services": SectorFinance,
	"consumer tech":      SectorConsumer,
	"consumer":           SectorConsumer,
	"fmcg":               SectorConsumer,
	"retail":             SectorConsumer,
	"oil & gas":          SectorEnergy,
	"energy":             SectorEnergy,
	"power":              SectorEnergy,
	"automobile":         SectorManufacturing,
	"manufacturing":      SectorManufacturing,
	"industrials":        SectorManufacturing,
	"healthcare":         SectorHealthcare,
	"pharma":             SectorHealthcare,
}

// CreditRatings lists the bond ratings with a known risk premium, best first
var CreditRatings = []string{"AAA", "AA", "A", "BBB", "BB", "B", "CCC"}

var creditRiskPremiums = map[string]float64{
	"AAA": 0.1,
	"AA":  0.2,
	"A":   0.5,
	"BBB": 1.0,
	"BB":  2.0,
	"B":   3.5,
	"CCC": 5.0,
}

const unratedRiskPremium = 2.5

// DefaultConditions is the backdrop a new game starts under
func DefaultConditions() types.MarketConditions {
	return types.MarketConditions{
		Volatility:      types.VolatilityMedium,
		VolatilityScore: 0.5,
		InterestRate:    6.5,
		InflationRate:   4.2,
		EconomicGrowth:  6.8,
	}
}

// DriftConditions moves the policy rate and the volatility score one day.
// The rate stays within [MinInterestRate, MaxInterestRate].
func DriftConditions(c types.MarketConditions, rng interfaces.RandomSource) types.MarketConditions {
	c.InterestRate = clampRate(c.InterestRate + (rng.Float64()-0.5)*rateDrift)
	c.VolatilityScore = math.Max(0, math.Min(1, c.VolatilityScore+(rng.Float64()-0.5)*volatilityDrift))
	c.Volatility = volatilityRegime(c.VolatilityScore)
	return c
}

func volatilityRegime(score float64) string {
	switch {
	case score > highVolatility:
		return types.VolatilityHigh
	case score < lowVolatility:
		return types.VolatilityLow
	default:
		return types.VolatilityMedium
	}
}

func clampRate(rate float64) float64 {
	return math.Max(MinInterestRate, math.Min(MaxInterestRate, rate))
}

// VolatilityMultiplier scales instrument volatility by regime
func VolatilityMultiplier(regime string) float64 {
	switch regime {
	case types.VolatilityHigh:
		return 1.5
	case types.VolatilityLow:
		return 0.5
	default:
		return 1.0
	}
}

// SectorGroup maps a listed sector name to its influence group
func SectorGroup(sector string) string {
	return sectorGroups[strings.ToLower(strings.TrimSpace(sector))]
}

// SectorInfluence scales a day's move for the instrument's sector. Energy
// draws from rng; other sectors follow the conditions.
func SectorInfluence(sector string, c types.MarketConditions, sentiment float64, rng interfaces.RandomSource) float64 {
	switch SectorGroup(sector) {
	case SectorTechnology:
		return pick(sentiment > bullishSentiment, 1.1, 0.9)
	case SectorFinance:
		return pick(c.InterestRate > 7, 1.1, 0.9)
	case SectorConsumer:
		return pick(c.EconomicGrowth > 6, 1.1, 0.9)
	case SectorEnergy:
		return pick(rng.Float64() > 0.5, 1.2, 0.8)
	case SectorManufacturing:
		return pick(c.EconomicGrowth > 5, 1.1, 0.9)
	default:
		return 1.0
	}
}

func pick(cond bool, yes, no float64) float64 {
	if cond {
		return yes
	}
	return no
}

// BankInterestRate returns the annual rate paid on a bank product as a
// share of the policy rate
func BankInterestRate(accountType string, c types.MarketConditions) float64 {
	var share float64
	switch accountType {
	case "savings":
		share = 0.6
	case types.AccountFixedDeposit:
		share = 0.9
	case "current":
		share = 0.1
	default:
		share = 0.5
	}
	return round2(c.InterestRate * share)
}

// BondYield returns the annual yield for a new bond. An empty rating is a
// government bond; anything else is corporate and carries a credit premium.
func BondYield(rating string, c types.MarketConditions) float64 {
	if rating == "" {
		return round2(math.Max(minBondYield, GovernmentBondBaseYield+c.InterestRate*0.3))
	}
	return round2(math.Max(minBondYield, GovernmentBondBaseYield+c.InterestRate*0.5+CreditRiskPremium(rating)))
}

// CreditRiskPremium returns the extra yield in percent for a rating
func CreditRiskPremium(rating string) float64 {
	if p, ok := creditRiskPremiums[strings.ToUpper(rating)]; ok {
		return p
	}
	return unratedRiskPremium
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
