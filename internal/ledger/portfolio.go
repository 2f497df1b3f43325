package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/types"
)

// Holdings returns portfolio positions sorted by code
func (l *Ledger) Holdings() []types.Holding {
	return sortedHoldings(l.holdings)
}

// Holding returns one position
func (l *Ledger) Holding(code string) (types.Holding, bool) {
	h, ok := l.holdings[code]
	if !ok {
		return types.Holding{}, false
	}
	return *h, true
}

// Buy debits the bank for quantity units at price and adds them to the portfolio
func (l *Ledger) Buy(code string, quantity int64, price float64) (types.Transaction, error) {
	if quantity <= 0 {
		return types.Transaction{}, fmt.Errorf("buy %d %s: %w", quantity, code, types.ErrInvalidQuantity)
	}
	unit := decimal.NewFromFloat(price).Round(2)
	if !unit.IsPositive() {
		return types.Transaction{}, fmt.Errorf("buy %s at %v: %w", code, price, types.ErrInvalidQuantity)
	}
	cost := unit.Mul(decimal.NewFromInt(quantity))

	if l.state.BankBalance.LessThan(cost) {
		return types.Transaction{}, fmt.Errorf("buy %d %s for %s: %w", quantity, code, cost.StringFixed(2), types.ErrInsufficientFunds)
	}

	if err := l.markHolding(code, unit); err != nil {
		return types.Transaction{}, err
	}

	h, ok := l.holdings[code]
	if !ok {
		h = &types.Holding{Code: code}
	}
	basis := h.AverageCost.Mul(decimal.NewFromInt(h.Quantity)).Add(cost)
	h.Quantity += quantity
	h.AverageCost = basis.Div(decimal.NewFromInt(h.Quantity)).Round(4)
	l.holdings[code] = h

	desc := fmt.Sprintf("Bought %d %s @ %s", quantity, code, unit.StringFixed(2))
	return l.RecordTransaction(cost.Neg(), desc, types.AccountBank, types.AccountStocks, WithFloor(decimal.Zero))
}

// Sell credits the bank for quantity units at price and reduces the position.
// A position sold down to zero is removed. Selling more than is held,
// including a code that is not held at all, is an invalid quantity.
func (l *Ledger) Sell(code string, quantity int64, price float64) (types.Transaction, error) {
	if quantity <= 0 {
		return types.Transaction{}, fmt.Errorf("sell %d %s: %w", quantity, code, types.ErrInvalidQuantity)
	}
	h, ok := l.holdings[code]
	if !ok {
		return types.Transaction{}, fmt.Errorf("sell %d %s with none held: %w", quantity, code, types.ErrInvalidQuantity)
	}
	if quantity > h.Quantity {
		return types.Transaction{}, fmt.Errorf("sell %d %s of %d held: %w", quantity, code, h.Quantity, types.ErrInvalidQuantity)
	}
	unit := decimal.NewFromFloat(price).Round(2)
	if !unit.IsPositive() {
		return types.Transaction{}, fmt.Errorf("sell %s at %v: %w", code, price, types.ErrInvalidQuantity)
	}

	if err := l.markHolding(code, unit); err != nil {
		return types.Transaction{}, err
	}

	h.Quantity -= quantity
	if h.Quantity == 0 {
		delete(l.holdings, code)
		delete(l.lastPrices, code)
	}

	proceeds := unit.Mul(decimal.NewFromInt(quantity))
	desc := fmt.Sprintf("Sold %d %s @ %s", quantity, code, unit.StringFixed(2))
	return l.RecordTransaction(proceeds, desc, types.AccountStocks, types.AccountBank)
}

// MarkToMarket revalues the stocks bucket at the given prices
func (l *Ledger) MarkToMarket(prices map[string]float64) error {
	for code := range l.holdings {
		if p, ok := prices[code]; ok {
			l.lastPrices[code] = decimal.NewFromFloat(p).Round(2)
		}
	}
	return l.Revalue(types.AccountStocks, l.portfolioValue())
}

func (l *Ledger) markHolding(code string, unit decimal.Decimal) error {
	l.lastPrices[code] = unit
	return l.Revalue(types.AccountStocks, l.portfolioValue())
}

func (l *Ledger) portfolioValue() decimal.Decimal {
	total := decimal.Zero
	for code, h := range l.holdings {
		price, ok := l.lastPrices[code]
		if !ok {
			price = h.AverageCost
		}
		total = total.Add(price.Mul(decimal.NewFromInt(h.Quantity)))
	}
	return total
}
