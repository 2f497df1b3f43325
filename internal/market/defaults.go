package market

import "github.com/user/wealth-sprint/internal/types"

// DefaultInstruments is the listing used when no data file is present
func DefaultInstruments() []types.Instrument {
	return []types.Instrument{
		{Code: "RELIANCE", Name: "Reliance Industries", Sector: "Oil & Gas", Price: 2850, Volatility: 3},
		{Code: "INFY", Name: "Infosys", Sector: "IT", Price: 1650, Volatility: 2},
		{Code: "HDFCBANK", Name: "HDFC Bank", Sector: "Banking", Price: 1580, Volatility: 2},
		{Code: "TCS", Name: "Tata Consultancy Services", Sector: "IT", Price: 3900, Volatility: 2},
		{Code: "TATAMOTORS", Name: "Tata Motors", Sector: "Automobile", Price: 950, Volatility: 4},
		{Code: "ZOMATO", Name: "Zomato", Sector: "Consumer Tech", Price: 180, Volatility: 6},
	}
}
