package market

import (
	"strings"

	"github.com/user/wealth-sprint/internal/interfaces"
	"github.com/user/wealth-sprint/internal/types"
)

// EventChance is the daily probability of a new market event
const EventChance = 0.1

var eventCatalogue = []types.MarketEvent{
	{
		Type:        "bull_run",
		Title:       "Market Rally Begins",
		Description: "Strong economic indicators drive market optimism",
		StockImpact: 0.15,
		Duration:    7,
	},
	{
		Type:        "bear_market",
		Title:       "Market Correction",
		Description: "Concerns over economic slowdown affect investor confidence",
		StockImpact: -0.12,
		Duration:    5,
	},
	{
		Type:        "sector_boom",
		Title:       "Tech Sector Surge",
		Description: "Technology stocks outperform on innovation news",
		StockImpact: 0.08,
		Sector:      SectorTechnology,
		Duration:    3,
	},
	{
		Type:        "interest_rate_change",
		Title:       "RBI Rate Cut",
		Description: "Reserve Bank reduces interest rates to stimulate growth",
		StockImpact: 0.03,
		RateShift:   -0.5,
		Duration:    14,
	},
	{
		Type:        "inflation_news",
		Title:       "Inflation Concerns Rise",
		Description: "Rising commodity prices fuel inflation worries",
		StockImpact: -0.02,
		RateShift:   0.25,
		Duration:    10,
	},
}

// RollEvent returns a new event with probability EventChance, or nil
func RollEvent(rng interfaces.RandomSource) *types.MarketEvent {
	if rng.Float64() >= EventChance {
		return nil
	}
	ev := eventCatalogue[rng.Intn(len(eventCatalogue))]
	ev.DaysLeft = ev.Duration
	return &ev
}

// eventFactor is the combined daily multiplier of active events for a sector
func eventFactor(events []types.MarketEvent, sector string) float64 {
	factor := 1.0
	group := SectorGroup(sector)
	for _, ev := range events {
		if ev.Duration <= 0 || (ev.Sector != "" && !strings.EqualFold(ev.Sector, group)) {
			continue
		}
		factor *= 1 + ev.StockImpact/float64(ev.Duration)
	}
	return factor
}

// expireEvents counts a day off every event and drops the finished ones
func expireEvents(events []types.MarketEvent) []types.MarketEvent {
	kept := events[:0]
	for _, ev := range events {
		ev.DaysLeft--
		if ev.DaysLeft > 0 {
			kept = append(kept, ev)
		}
	}
	return kept
}
