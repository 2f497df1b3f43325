// Package ledger is the single writer of the player's financial state.
package ledger

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/types"
)

// Opening holds the starting balance sheet
type Opening struct {
	BankBalance     decimal.Decimal
	MainIncome      decimal.Decimal
	SideIncome      decimal.Decimal
	MonthlyExpenses decimal.Decimal
}

// Option modifies a single transaction
type Option func(*recordOptions)

type recordOptions struct {
	floor *decimal.Decimal
}

// WithFloor rejects the transaction if the bank balance would drop below floor
func WithFloor(floor decimal.Decimal) Option {
	return func(o *recordOptions) {
		o.floor = &floor
	}
}

// Ledger records transactions and maintains the derived balance sheet
type Ledger struct {
	state      types.FinancialState
	holdings   map[string]*types.Holding
	lastPrices map[string]decimal.Decimal
	fixed      []types.FixedIncome
	day        int
	now        func() time.Time
}

// New creates a ledger with the given opening balances
func New(opening Opening) *Ledger {
	l := &Ledger{
		state: types.FinancialState{
			BankBalance:        opening.BankBalance,
			MainIncome:         opening.MainIncome,
			SideIncome:         opening.SideIncome,
			MonthlyExpenses:    opening.MonthlyExpenses,
			Liabilities:        make([]types.Liability, 0),
			TransactionHistory: make([]types.Transaction, 0),
		},
		holdings:   make(map[string]*types.Holding),
		lastPrices: make(map[string]decimal.Decimal),
		fixed:      make([]types.FixedIncome, 0),
		now:        time.Now,
	}
	l.derive()
	return l
}

// Restore rebuilds a ledger from persisted state
func Restore(state types.FinancialState, holdings []types.Holding, fixed []types.FixedIncome) *Ledger {
	l := &Ledger{
		state:      state,
		holdings:   make(map[string]*types.Holding, len(holdings)),
		lastPrices: make(map[string]decimal.Decimal),
		fixed:      append([]types.FixedIncome(nil), fixed...),
		now:        time.Now,
	}
	if l.state.Liabilities == nil {
		l.state.Liabilities = make([]types.Liability, 0)
	}
	if l.state.TransactionHistory == nil {
		l.state.TransactionHistory = make([]types.Transaction, 0)
	}
	if l.fixed == nil {
		l.fixed = make([]types.FixedIncome, 0)
	}
	for _, h := range holdings {
		h := h
		l.holdings[h.Code] = &h
	}
	l.derive()
	return l
}

// SetDay sets the day stamped on new transactions
func (l *Ledger) SetDay(day int) {
	l.day = day
}

// State returns a deep copy of the financial state
func (l *Ledger) State() types.FinancialState {
	out := l.state
	out.Liabilities = append([]types.Liability(nil), l.state.Liabilities...)
	out.TransactionHistory = append([]types.Transaction(nil), l.state.TransactionHistory...)
	return out
}

// Balance returns the bank balance
func (l *Ledger) Balance() decimal.Decimal {
	return l.state.BankBalance
}

// NetWorth returns total assets minus total liabilities
func (l *Ledger) NetWorth() decimal.Decimal {
	return l.state.NetWorth
}

// Transactions returns the most recent transactions, oldest first.
// A limit of zero or less returns the full history.
func (l *Ledger) Transactions(limit int) []types.Transaction {
	history := l.state.TransactionHistory
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}
	return append([]types.Transaction(nil), history...)
}

// Liabilities returns the outstanding liabilities
func (l *Ledger) Liabilities() []types.Liability {
	return append([]types.Liability(nil), l.state.Liabilities...)
}

// RecordTransaction applies a signed amount to the bank balance and the
// opposite amount to the counter account. Positive amounts are credits to
// the bank. Asset bucket counters move value without changing net worth;
// external counters change net worth by the amount.
func (l *Ledger) RecordTransaction(amount decimal.Decimal, description, from, to string, opts ...Option) (types.Transaction, error) {
	var o recordOptions
	for _, opt := range opts {
		opt(&o)
	}

	if amount.IsZero() {
		return types.Transaction{}, fmt.Errorf("record %q: zero amount: %w", description, types.ErrInvalidQuantity)
	}

	counter, err := counterAccount(from, to)
	if err != nil {
		return types.Transaction{}, err
	}

	nextBalance := l.state.BankBalance.Add(amount)
	if o.floor != nil && nextBalance.LessThan(*o.floor) {
		return types.Transaction{}, fmt.Errorf("record %q: balance %s below floor %s: %w",
			description, nextBalance.StringFixed(2), o.floor.StringFixed(2), types.ErrInsufficientFunds)
	}

	expected := l.state.NetWorth
	switch {
	case counter == types.AccountExternal:
		expected = expected.Add(amount)
	case strings.HasPrefix(counter, types.AccountLiability):
		idx := l.liabilityIndex(strings.TrimPrefix(counter, types.AccountLiability))
		if idx < 0 {
			return types.Transaction{}, fmt.Errorf("liability %q: %w", counter, types.ErrUnknownEntity)
		}
		outstanding := l.state.Liabilities[idx].OutstandingAmount.Add(amount)
		if outstanding.IsNegative() {
			return types.Transaction{}, fmt.Errorf("record %q: overpays liability: %w", description, types.ErrInvalidQuantity)
		}
		l.state.Liabilities[idx].OutstandingAmount = outstanding
		if outstanding.IsZero() && amount.IsNegative() {
			l.state.Liabilities = append(l.state.Liabilities[:idx], l.state.Liabilities[idx+1:]...)
		}
	default:
		bucket, ok := l.bucket(counter)
		if !ok {
			return types.Transaction{}, fmt.Errorf("account %q: %w", counter, types.ErrUnknownEntity)
		}
		*bucket = bucket.Sub(amount)
	}

	l.state.BankBalance = nextBalance

	tx := types.Transaction{
		ID:          uuid.New().String(),
		Day:         l.day,
		Amount:      amount,
		Description: description,
		FromAccount: from,
		ToAccount:   to,
		Timestamp:   l.now(),
	}
	l.state.TransactionHistory = append(l.state.TransactionHistory, tx)

	if err := l.settle(expected); err != nil {
		return tx, err
	}
	return tx, nil
}

// Revalue sets an asset bucket to a new market value without a cash movement
func (l *Ledger) Revalue(account string, value decimal.Decimal) error {
	bucket, ok := l.bucket(account)
	if !ok {
		return fmt.Errorf("account %q: %w", account, types.ErrUnknownEntity)
	}
	expected := l.state.NetWorth.Add(value.Sub(*bucket))
	*bucket = value
	return l.settle(expected)
}

// FIProgress returns side income as a percentage of expenses, capped at 100
func (l *Ledger) FIProgress() float64 {
	if !l.state.MonthlyExpenses.IsPositive() {
		return 100
	}
	progress := l.state.SideIncome.Div(l.state.MonthlyExpenses).Mul(decimal.NewFromInt(100))
	if progress.GreaterThan(decimal.NewFromInt(100)) {
		return 100
	}
	f, _ := progress.Round(2).Float64()
	return f
}

// FinanciallyIndependent reports whether side income covers expenses
func (l *Ledger) FinanciallyIndependent() bool {
	return l.FIProgress() >= 100
}

func (l *Ledger) settle(expected decimal.Decimal) error {
	l.derive()
	if !l.state.NetWorth.Equal(expected) {
		return fmt.Errorf("net worth %s, expected %s: %w", l.state.NetWorth, expected, types.ErrInvariantViolation)
	}
	if !l.state.TotalAssets.Equal(l.state.BankBalance.Add(l.state.Investments.Total())) {
		return fmt.Errorf("total assets %s do not match components: %w", l.state.TotalAssets, types.ErrInvariantViolation)
	}
	return nil
}

func (l *Ledger) derive() {
	l.state.TotalAssets = l.state.BankBalance.Add(l.state.Investments.Total())

	total := decimal.Zero
	for _, liab := range l.state.Liabilities {
		total = total.Add(liab.OutstandingAmount)
	}
	l.state.TotalLiabilities = total
	l.state.NetWorth = l.state.TotalAssets.Sub(total)
	l.state.Cashflow = l.state.MainIncome.Add(l.state.SideIncome).Sub(l.state.MonthlyExpenses)
}

func (l *Ledger) bucket(account string) (*decimal.Decimal, bool) {
	switch account {
	case types.AccountStocks:
		return &l.state.Investments.Stocks, true
	case types.AccountBonds:
		return &l.state.Investments.Bonds, true
	case types.AccountFixedDeposit:
		return &l.state.Investments.FixedDeposit, true
	case types.AccountRealEstate:
		return &l.state.Investments.RealEstate, true
	}
	return nil, false
}

func (l *Ledger) liabilityIndex(id string) int {
	for i, liab := range l.state.Liabilities {
		if liab.ID == id {
			return i
		}
	}
	return -1
}

func counterAccount(from, to string) (string, error) {
	switch {
	case from == types.AccountBank && to != types.AccountBank:
		return to, nil
	case to == types.AccountBank && from != types.AccountBank:
		return from, nil
	}
	return "", fmt.Errorf("transaction %s -> %s must move money in or out of the bank: %w", from, to, types.ErrInvalidQuantity)
}

func sortedHoldings(m map[string]*types.Holding) []types.Holding {
	out := make([]types.Holding, 0, len(m))
	for _, h := range m {
		out = append(out, *h)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
