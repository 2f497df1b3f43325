package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/types"
)

// SettleMonth books the recurring monthly flows: income, expenses, payroll,
// and scheduled loan payments. Settlements carry no balance floor.
func (l *Ledger) SettleMonth(payroll decimal.Decimal) ([]types.Transaction, error) {
	var txs []types.Transaction

	record := func(amount decimal.Decimal, desc, from, to string) error {
		if amount.IsZero() {
			return nil
		}
		tx, err := l.RecordTransaction(amount, desc, from, to)
		if err != nil {
			return err
		}
		txs = append(txs, tx)
		return nil
	}

	if err := record(l.state.MainIncome, "Monthly salary", types.AccountExternal, types.AccountBank); err != nil {
		return txs, err
	}
	if err := record(l.state.SideIncome, "Side income", types.AccountExternal, types.AccountBank); err != nil {
		return txs, err
	}
	if err := record(l.state.MonthlyExpenses.Neg(), "Living expenses", types.AccountBank, types.AccountExternal); err != nil {
		return txs, err
	}
	if err := record(payroll.Neg(), "Team payroll", types.AccountBank, types.AccountExternal); err != nil {
		return txs, err
	}

	// Snapshot ids first; paid-off liabilities are removed while iterating.
	scheduled := make([]types.Liability, 0, len(l.state.Liabilities))
	for _, liab := range l.state.Liabilities {
		if liab.MonthlyPayment.IsPositive() {
			scheduled = append(scheduled, liab)
		}
	}
	for _, liab := range scheduled {
		interest := liab.OutstandingAmount.Mul(decimal.NewFromFloat(liab.InterestRate)).Div(decimal.NewFromInt(1200)).Round(2)
		principal := decimal.Min(liab.MonthlyPayment.Sub(interest), liab.OutstandingAmount)
		if principal.IsNegative() {
			principal = decimal.Zero
		}

		if err := record(interest.Neg(), fmt.Sprintf("Interest on %s", liab.Category), types.AccountBank, types.AccountExternal); err != nil {
			return txs, err
		}
		if err := record(principal.Neg(), fmt.Sprintf("EMI on %s", liab.Category), types.AccountBank, types.AccountLiability+liab.ID); err != nil {
			return txs, err
		}
	}

	return txs, nil
}

// SetIncome updates the recurring income and expense figures
func (l *Ledger) SetIncome(main, side, expenses decimal.Decimal) error {
	if main.IsNegative() || side.IsNegative() || expenses.IsNegative() {
		return fmt.Errorf("income %s/%s expenses %s: %w", main, side, expenses, types.ErrInvalidQuantity)
	}
	l.state.MainIncome = main
	l.state.SideIncome = side
	l.state.MonthlyExpenses = expenses
	l.derive()
	return nil
}
