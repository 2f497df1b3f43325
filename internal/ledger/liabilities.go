package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/market"
	"github.com/user/wealth-sprint/internal/types"
)

// TakeLoan opens an amortising liability and credits the principal to the bank
func (l *Ledger) TakeLoan(category string, principal decimal.Decimal, rate float64, termMonths int) (types.Liability, error) {
	if !principal.IsPositive() {
		return types.Liability{}, fmt.Errorf("loan of %s: %w", principal, types.ErrInvalidQuantity)
	}
	emi, err := market.ComputeLoanPayment(principal, rate, termMonths)
	if err != nil {
		return types.Liability{}, err
	}

	liab := types.Liability{
		ID:                uuid.New().String(),
		Category:          category,
		OutstandingAmount: decimal.Zero,
		InterestRate:      rate,
		MonthlyPayment:    emi,
		TermMonths:        termMonths,
	}
	l.state.Liabilities = append(l.state.Liabilities, liab)

	desc := fmt.Sprintf("%s loan drawn", category)
	if _, err := l.RecordTransaction(principal, desc, types.AccountLiability+liab.ID, types.AccountBank); err != nil {
		l.state.Liabilities = l.state.Liabilities[:len(l.state.Liabilities)-1]
		return types.Liability{}, err
	}

	liab.OutstandingAmount = principal
	return liab, nil
}

// PayLiability pays down a liability by at most its outstanding amount.
// A liability paid to zero is removed.
func (l *Ledger) PayLiability(id string, amount decimal.Decimal) (types.Transaction, error) {
	if !amount.IsPositive() {
		return types.Transaction{}, fmt.Errorf("pay %s: %w", amount, types.ErrInvalidQuantity)
	}
	idx := l.liabilityIndex(id)
	if idx < 0 {
		return types.Transaction{}, fmt.Errorf("liability %q: %w", id, types.ErrUnknownEntity)
	}

	liab := l.state.Liabilities[idx]
	applied := decimal.Min(amount, liab.OutstandingAmount)
	desc := fmt.Sprintf("Payment on %s", liab.Category)
	return l.RecordTransaction(applied.Neg(), desc, types.AccountBank, types.AccountLiability+id, WithFloor(decimal.Zero))
}

// AddLiability registers an existing debt without a cash movement
func (l *Ledger) AddLiability(category string, amount decimal.Decimal, rate float64) (types.Liability, error) {
	if !amount.IsPositive() {
		return types.Liability{}, fmt.Errorf("liability of %s: %w", amount, types.ErrInvalidQuantity)
	}
	liab := types.Liability{
		ID:                uuid.New().String(),
		Category:          category,
		OutstandingAmount: amount,
		InterestRate:      rate,
	}
	expected := l.state.NetWorth.Sub(amount)
	l.state.Liabilities = append(l.state.Liabilities, liab)
	if err := l.settle(expected); err != nil {
		return types.Liability{}, err
	}
	return liab, nil
}
