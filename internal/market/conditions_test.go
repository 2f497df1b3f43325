package market

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/wealth-sprint/internal/types"
)

func TestDriftConditions(t *testing.T) {
	// Test case 1: midpoint draws leave the backdrop unchanged
	c := DriftConditions(DefaultConditions(), &scriptedSource{values: []float64{0.5}})
	assert.Equal(t, DefaultConditions(), c)

	// Test case 2: the rate never leaves its band
	m := New(DefaultInstruments(), rand.New(rand.NewSource(3)))
	for day := 0; day < 2000; day++ {
		m.Tick()
		c := m.Conditions()
		assert.GreaterOrEqual(t, c.InterestRate, MinInterestRate)
		assert.LessOrEqual(t, c.InterestRate, MaxInterestRate)
		assert.Contains(t, []string{types.VolatilityLow, types.VolatilityMedium, types.VolatilityHigh}, c.Volatility)
	}

	// Test case 3: the rate clamps at the floor
	low := types.MarketConditions{InterestRate: MinInterestRate, VolatilityScore: 0.5}
	low = DriftConditions(low, &scriptedSource{values: []float64{0}})
	assert.Equal(t, MinInterestRate, low.InterestRate)
	assert.InDelta(t, 0.4, low.VolatilityScore, 1e-9)
}

func TestVolatilityRegime(t *testing.T) {
	assert.Equal(t, types.VolatilityHigh, volatilityRegime(0.8))
	assert.Equal(t, types.VolatilityMedium, volatilityRegime(0.5))
	assert.Equal(t, types.VolatilityLow, volatilityRegime(0.1))
	assert.Equal(t, 1.5, VolatilityMultiplier(types.VolatilityHigh))
	assert.Equal(t, 0.5, VolatilityMultiplier(types.VolatilityLow))
	assert.Equal(t, 1.0, VolatilityMultiplier(types.VolatilityMedium))
}

func TestSectorInfluence(t *testing.T) {
	base := DefaultConditions()
	tight := base
	tight.InterestRate = 8
	slow := base
	slow.EconomicGrowth = 4

	tests := []struct {
		name      string
		sector    string
		c         types.MarketConditions
		sentiment float64
		draw      float64
		want      float64
	}{
		{"tech bullish", "IT", base, 0.5, 0.5, 1.1},
		{"tech otherwise", "IT", base, 0.1, 0.5, 0.9},
		{"finance high rates", "Banking", tight, 0, 0.5, 1.1},
		{"finance low rates", "Banking", base, 0, 0.5, 0.9},
		{"consumer growth", "Consumer Tech", base, 0, 0.5, 1.1},
		{"consumer slowdown", "Consumer Tech", slow, 0, 0.5, 0.9},
		{"energy up draw", "Oil & Gas", base, 0, 0.9, 1.2},
		{"energy down draw", "Oil & Gas", base, 0, 0.2, 0.8},
		{"manufacturing", "Automobile", slow, 0, 0.5, 0.9},
		{"healthcare stable", "Pharma", base, 0, 0.5, 1.0},
		{"unknown sector", "Shipping", base, 0, 0.5, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SectorInfluence(tt.sector, tt.c, tt.sentiment, &scriptedSource{values: []float64{tt.draw}})
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFixedIncomeRates(t *testing.T) {
	c := DefaultConditions()

	assert.Equal(t, 5.85, BankInterestRate(types.AccountFixedDeposit, c))
	assert.Equal(t, 3.9, BankInterestRate("savings", c))
	assert.Equal(t, 0.65, BankInterestRate("current", c))
	assert.Equal(t, 3.25, BankInterestRate("other", c))

	assert.Equal(t, 6.95, BondYield("", c))
	assert.Equal(t, 8.35, BondYield("AAA", c))
	assert.Equal(t, 13.25, BondYield("CCC", c))
	assert.Equal(t, 10.75, BondYield("unrated", c))

	prev := 0.0
	for _, rating := range CreditRatings {
		premium := CreditRiskPremium(rating)
		assert.Greater(t, premium, prev, rating)
		prev = premium
	}
}

func TestMarketEvent(t *testing.T) {
	// Setup: day one rolls 0.05 for an event and 0 to pick the bull run,
	// day two rolls no event
	src := &scriptedSource{values: []float64{
		0.5, 0.5, 0.5, 0.05, 0, 0.5,
		0.5, 0.5, 0.5, 0.5, 0.5,
	}}
	m := New([]types.Instrument{{Code: "A", Sector: "Shipping", Price: 100}}, src)

	// Test case 1: the event starts and moves prices on its first day
	day := m.Tick()
	require.NotNil(t, day.Event)
	assert.Equal(t, "bull_run", day.Event.Type)
	price, err := m.Price("A")
	require.NoError(t, err)
	assert.InDelta(t, 100*(1+0.15/7), price, 1e-9)
	require.Len(t, m.Events(), 1)
	assert.Equal(t, 6, m.Events()[0].DaysLeft)

	// Test case 2: it keeps acting on the following days without being reported again
	day = m.Tick()
	assert.Nil(t, day.Event)
	price, _ = m.Price("A")
	assert.InDelta(t, 100*(1+0.15/7)*(1+0.15/7), price, 1e-9)
	assert.Equal(t, 5, m.Events()[0].DaysLeft)
}

func TestRateCutEventLowersRate(t *testing.T) {
	src := &scriptedSource{values: []float64{0.5, 0.5, 0.5, 0.05, 0.7, 0.5}}
	m := New([]types.Instrument{{Code: "A", Price: 100}}, src)

	day := m.Tick()
	require.NotNil(t, day.Event)
	assert.Equal(t, "interest_rate_change", day.Event.Type)
	assert.InDelta(t, 6.0, m.Conditions().InterestRate, 1e-9)
}

func TestSectorEventOnlyMovesItsSector(t *testing.T) {
	m := New([]types.Instrument{
		{Code: "TECH", Sector: "IT", Price: 100},
		{Code: "BANK", Sector: "Banking", Price: 100},
	}, &scriptedSource{values: []float64{0.5}})
	m.RestoreConditions(DefaultConditions(), []types.MarketEvent{eventCatalogue[2]})
	m.events[0].DaysLeft = 3

	m.Tick()
	tech, _ := m.Price("TECH")
	bank, _ := m.Price("BANK")
	assert.Greater(t, tech, 100.0)
	assert.Equal(t, 100.0, bank)
}

func TestEventsExpire(t *testing.T) {
	m := New([]types.Instrument{{Code: "A", Price: 100}}, &scriptedSource{values: []float64{0.5}})
	ev := eventCatalogue[1]
	ev.DaysLeft = 2
	m.RestoreConditions(types.MarketConditions{}, []types.MarketEvent{ev})
	assert.Equal(t, DefaultConditions(), m.Conditions())

	m.Tick()
	assert.Len(t, m.Events(), 1)
	m.Tick()
	assert.Empty(t, m.Events())
}
