package ledger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/wealth-sprint/internal/types"
)

func TestBuyAndSell(t *testing.T) {
	// Setup
	l := newTestLedger(100000)

	// Test case 1: buy 10 at 500
	_, err := l.Buy("ACME", 10, 500)
	require.NoError(t, err)
	assert.Equal(t, "95000", l.Balance().String())
	h, ok := l.Holding("ACME")
	require.True(t, ok)
	assert.Equal(t, int64(10), h.Quantity)
	assert.Equal(t, "500", h.AverageCost.String())
	assert.Equal(t, "100000", l.NetWorth().String())
	assertBalanced(t, l)

	// Test case 2: sell all at 600 removes the holding
	tx, err := l.Sell("ACME", 10, 600)
	require.NoError(t, err)
	assert.Equal(t, "6000", tx.Amount.String())
	assert.Equal(t, "101000", l.Balance().String())
	_, ok = l.Holding("ACME")
	assert.False(t, ok)
	assert.True(t, l.State().Investments.Stocks.IsZero())
	assert.Equal(t, "101000", l.NetWorth().String())
	assertBalanced(t, l)
}

func TestBuyAveragesCost(t *testing.T) {
	l := newTestLedger(100000)
	_, err := l.Buy("ACME", 10, 500)
	require.NoError(t, err)
	_, err = l.Buy("ACME", 30, 700)
	require.NoError(t, err)

	h, ok := l.Holding("ACME")
	require.True(t, ok)
	assert.Equal(t, int64(40), h.Quantity)
	assert.Equal(t, "650", h.AverageCost.String())
	assert.Equal(t, "28000", l.State().Investments.Stocks.String())
	assertBalanced(t, l)
}

func TestBuyRejections(t *testing.T) {
	// Setup
	l := newTestLedger(1000)

	// Test case 1: insufficient funds leaves state unchanged
	_, err := l.Buy("ACME", 10, 500)
	assert.True(t, errors.Is(err, types.ErrInsufficientFunds))
	assert.Equal(t, "1000", l.Balance().String())
	assert.Empty(t, l.Holdings())
	assert.Empty(t, l.Transactions(0))

	// Test case 2: non-positive quantity
	_, err = l.Buy("ACME", 0, 500)
	assert.True(t, errors.Is(err, types.ErrInvalidQuantity))
	_, err = l.Buy("ACME", -3, 500)
	assert.True(t, errors.Is(err, types.ErrInvalidQuantity))
}

func TestSellRejections(t *testing.T) {
	// Setup
	l := newTestLedger(10000)
	_, err := l.Buy("ACME", 5, 100)
	require.NoError(t, err)

	// Test case 1: nothing held is an underflow, not an unknown entity
	_, err = l.Sell("OTHER", 1, 100)
	assert.True(t, errors.Is(err, types.ErrInvalidQuantity))
	_, err = l.Sell("OTHER", 0, 100)
	assert.True(t, errors.Is(err, types.ErrInvalidQuantity))

	// Test case 2: more than held, or a non-positive quantity
	_, err = l.Sell("ACME", 6, 100)
	assert.True(t, errors.Is(err, types.ErrInvalidQuantity))
	_, err = l.Sell("ACME", -1, 100)
	assert.True(t, errors.Is(err, types.ErrInvalidQuantity))
	assert.Len(t, l.Transactions(0), 1)

	// Test case 3: partial sell keeps the average cost
	_, err = l.Sell("ACME", 2, 150)
	require.NoError(t, err)
	h, _ := l.Holding("ACME")
	assert.Equal(t, int64(3), h.Quantity)
	assert.Equal(t, "100", h.AverageCost.String())
	assert.Equal(t, "450", l.State().Investments.Stocks.String())
}

func TestMarkToMarket(t *testing.T) {
	l := newTestLedger(10000)
	_, err := l.Buy("ACME", 10, 100)
	require.NoError(t, err)

	require.NoError(t, l.MarkToMarket(map[string]float64{"ACME": 120, "OTHER": 5}))
	assert.Equal(t, "1200", l.State().Investments.Stocks.String())
	assert.Equal(t, "10200", l.NetWorth().String())
	assert.Len(t, l.Transactions(0), 1)
	assertBalanced(t, l)
}

func TestFixedIncome(t *testing.T) {
	// Setup
	l := newTestLedger(50000)
	l.SetDay(0)

	// Test case 1: open a bond
	pos, err := l.OpenFixedIncome(KindBond, d(10000), 8)
	require.NoError(t, err)
	assert.Equal(t, "40000", l.Balance().String())
	assert.Equal(t, "10000", l.State().Investments.Bonds.String())

	// Test case 2: accrual after one year
	require.NoError(t, l.AccrueFixedIncome(336))
	assert.Equal(t, "10800", l.State().Investments.Bonds.String())
	assertBalanced(t, l)

	// Test case 3: redeem credits accrued value
	_, err = l.RedeemFixedIncome(pos.ID, 336)
	require.NoError(t, err)
	assert.Equal(t, "50800", l.Balance().String())
	assert.True(t, l.State().Investments.Bonds.IsZero())
	assert.Empty(t, l.FixedIncome())

	// Test case 4: invalid kind and insufficient funds
	_, err = l.OpenFixedIncome("gold", d(100), 5)
	assert.True(t, errors.Is(err, types.ErrUnknownEntity))
	_, err = l.OpenFixedIncome(KindFixedDeposit, d(60000), 7)
	assert.True(t, errors.Is(err, types.ErrInsufficientFunds))
	assert.Empty(t, l.FixedIncome())
}
