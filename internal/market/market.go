// Package market simulates instrument prices and fixed income valuation.
package market

import (
	"fmt"
	"math"

	"github.com/user/wealth-sprint/internal/interfaces"
	"github.com/user/wealth-sprint/internal/types"
)

// Trend directions
const (
	TrendUp     = "up"
	TrendDown   = "down"
	TrendStable = "stable"
)

const (
	// HistoryLimit is the number of samples kept per instrument
	HistoryLimit = 100

	trendWindow    = 5
	trendThreshold = 0.02
)

// Market owns the instrument list and evolves prices once per day
type Market struct {
	instruments []*types.Instrument
	index       map[string]*types.Instrument
	rng         interfaces.RandomSource
	sentiment   float64
	conditions  types.MarketConditions
	events      []types.MarketEvent
}

// Day is what one Tick drew. Event is set only on the day an event starts.
type Day struct {
	Sentiment float64
	Event     *types.MarketEvent
}

// New creates a market over the given instruments. Instruments are ticked
// in the order given.
func New(instruments []types.Instrument, rng interfaces.RandomSource) *Market {
	m := &Market{
		instruments: make([]*types.Instrument, 0, len(instruments)),
		index:       make(map[string]*types.Instrument, len(instruments)),
		rng:         rng,
		conditions:  DefaultConditions(),
	}
	for _, inst := range instruments {
		if _, exists := m.index[inst.Code]; exists {
			continue
		}
		inst := inst
		if inst.Price < MinPrice {
			inst.Price = MinPrice
		}
		inst.History = append([]float64(nil), inst.History...)
		if len(inst.History) == 0 {
			inst.History = []float64{inst.Price}
		}
		m.instruments = append(m.instruments, &inst)
		m.index[inst.Code] = &inst
	}
	return m
}

// SetSentiment restores the last drawn sentiment
func (m *Market) SetSentiment(s float64) {
	m.sentiment = s
}

// Sentiment returns the sentiment drawn on the last tick
func (m *Market) Sentiment() float64 {
	return m.sentiment
}

// Conditions returns the current macro backdrop
func (m *Market) Conditions() types.MarketConditions {
	return m.conditions
}

// Events returns the market events still in effect
func (m *Market) Events() []types.MarketEvent {
	return append([]types.MarketEvent(nil), m.events...)
}

// RestoreConditions reinstates persisted conditions and events. Zero-valued
// conditions from older saves fall back to the defaults.
func (m *Market) RestoreConditions(c types.MarketConditions, events []types.MarketEvent) {
	if c.InterestRate == 0 {
		c = DefaultConditions()
	}
	c.InterestRate = clampRate(c.InterestRate)
	c.Volatility = volatilityRegime(c.VolatilityScore)
	m.conditions = c
	m.events = append([]types.MarketEvent(nil), events...)
}

// Tick advances every listed instrument by one day. Sentiment is drawn
// once, conditions drift, and a new event may start before prices move.
func (m *Market) Tick() Day {
	m.sentiment = DrawSentiment(m.rng)
	m.conditions = DriftConditions(m.conditions, m.rng)

	ev := RollEvent(m.rng)
	if ev != nil {
		m.conditions.InterestRate = clampRate(m.conditions.InterestRate + ev.RateShift)
		m.events = append(m.events, *ev)
	}

	volMultiplier := VolatilityMultiplier(m.conditions.Volatility)
	for _, inst := range m.instruments {
		if inst.Delisted {
			continue
		}
		influence := SectorInfluence(inst.Sector, m.conditions, m.sentiment, m.rng)
		price := PriceTick(inst.Price, inst.Volatility*volMultiplier*influence, m.rng)
		price = ApplySentiment(price, m.sentiment)
		inst.Price = math.Max(MinPrice, price*eventFactor(m.events, inst.Sector))
		inst.History = append(inst.History, inst.Price)
		if len(inst.History) > HistoryLimit {
			inst.History = inst.History[len(inst.History)-HistoryLimit:]
		}
	}
	m.events = expireEvents(m.events)

	return Day{Sentiment: m.sentiment, Event: ev}
}

// Instrument returns a copy of one instrument
func (m *Market) Instrument(code string) (types.Instrument, error) {
	inst, ok := m.index[code]
	if !ok {
		return types.Instrument{}, fmt.Errorf("instrument %q: %w", code, types.ErrUnknownEntity)
	}
	out := *inst
	out.History = append([]float64(nil), inst.History...)
	return out, nil
}

// Price returns the current price of an instrument
func (m *Market) Price(code string) (float64, error) {
	inst, ok := m.index[code]
	if !ok {
		return 0, fmt.Errorf("instrument %q: %w", code, types.ErrUnknownEntity)
	}
	return inst.Price, nil
}

// Prices returns current prices keyed by code
func (m *Market) Prices() map[string]float64 {
	prices := make(map[string]float64, len(m.instruments))
	for _, inst := range m.instruments {
		prices[inst.Code] = inst.Price
	}
	return prices
}

// Instruments returns copies of all instruments in tick order
func (m *Market) Instruments() []types.Instrument {
	out := make([]types.Instrument, 0, len(m.instruments))
	for _, inst := range m.instruments {
		cp := *inst
		cp.History = append([]float64(nil), inst.History...)
		out = append(out, cp)
	}
	return out
}

// Delist freezes an instrument's price
func (m *Market) Delist(code string) error {
	inst, ok := m.index[code]
	if !ok {
		return fmt.Errorf("instrument %q: %w", code, types.ErrUnknownEntity)
	}
	inst.Delisted = true
	return nil
}

// Trend compares the average of the last few samples with the oldest of them
func (m *Market) Trend(code string) (string, error) {
	inst, ok := m.index[code]
	if !ok {
		return "", fmt.Errorf("instrument %q: %w", code, types.ErrUnknownEntity)
	}

	recent := inst.History
	if len(recent) > trendWindow {
		recent = recent[len(recent)-trendWindow:]
	}
	if len(recent) < 2 {
		return TrendStable, nil
	}

	sum := 0.0
	for _, p := range recent {
		sum += p
	}
	avg := sum / float64(len(recent))
	oldest := recent[0]
	switch {
	case avg > oldest*(1+trendThreshold):
		return TrendUp, nil
	case avg < oldest*(1-trendThreshold):
		return TrendDown, nil
	default:
		return TrendStable, nil
	}
}
