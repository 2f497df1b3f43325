package ledger

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/clock"
	"github.com/user/wealth-sprint/internal/market"
	"github.com/user/wealth-sprint/internal/types"
)

// Fixed income kinds
const (
	KindBond         = "bond"
	KindFixedDeposit = "fixed_deposit"
)

// FixedIncome returns open bond and deposit positions
func (l *Ledger) FixedIncome() []types.FixedIncome {
	return append([]types.FixedIncome(nil), l.fixed...)
}

// OpenFixedIncome moves amount from the bank into a bond or fixed deposit
func (l *Ledger) OpenFixedIncome(kind string, amount decimal.Decimal, rate float64) (types.FixedIncome, error) {
	account, err := fixedIncomeAccount(kind)
	if err != nil {
		return types.FixedIncome{}, err
	}
	if !amount.IsPositive() || rate < 0 {
		return types.FixedIncome{}, fmt.Errorf("open %s of %s at %.2f%%: %w", kind, amount, rate, types.ErrInvalidQuantity)
	}

	pos := types.FixedIncome{
		ID:        uuid.New().String(),
		Kind:      kind,
		Principal: amount,
		Rate:      rate,
		OpenedDay: l.day,
	}

	desc := fmt.Sprintf("Opened %s at %.2f%%", kind, rate)
	if _, err := l.RecordTransaction(amount.Neg(), desc, types.AccountBank, account, WithFloor(decimal.Zero)); err != nil {
		return types.FixedIncome{}, err
	}
	l.fixed = append(l.fixed, pos)
	return pos, nil
}

// AccrueFixedIncome revalues the bond and deposit buckets as of day
func (l *Ledger) AccrueFixedIncome(day int) error {
	values := map[string]decimal.Decimal{
		types.AccountBonds:        decimal.Zero,
		types.AccountFixedDeposit: decimal.Zero,
	}
	for _, pos := range l.fixed {
		account, err := fixedIncomeAccount(pos.Kind)
		if err != nil {
			return err
		}
		values[account] = values[account].Add(positionValue(pos, day))
	}

	for _, account := range []string{types.AccountBonds, types.AccountFixedDeposit} {
		if err := l.Revalue(account, values[account]); err != nil {
			return err
		}
	}
	return nil
}

// RedeemFixedIncome closes a position and credits its accrued value to the bank
func (l *Ledger) RedeemFixedIncome(id string, day int) (types.Transaction, error) {
	idx := -1
	for i, pos := range l.fixed {
		if pos.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return types.Transaction{}, fmt.Errorf("fixed income %q: %w", id, types.ErrUnknownEntity)
	}

	if err := l.AccrueFixedIncome(day); err != nil {
		return types.Transaction{}, err
	}

	pos := l.fixed[idx]
	account, _ := fixedIncomeAccount(pos.Kind)
	value := positionValue(pos, day)
	l.fixed = append(l.fixed[:idx], l.fixed[idx+1:]...)

	return l.RecordTransaction(value, fmt.Sprintf("Redeemed %s", pos.Kind), account, types.AccountBank)
}

func positionValue(pos types.FixedIncome, day int) decimal.Decimal {
	years := float64(day-pos.OpenedDay) / float64(clock.DaysPerYear)
	return market.AccrueFixedIncome(pos.Principal, pos.Rate, years)
}

func fixedIncomeAccount(kind string) (string, error) {
	switch kind {
	case KindBond:
		return types.AccountBonds, nil
	case KindFixedDeposit:
		return types.AccountFixedDeposit, nil
	}
	return "", fmt.Errorf("fixed income kind %q: %w", kind, types.ErrUnknownEntity)
}
