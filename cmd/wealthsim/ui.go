package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/team"
	"github.com/user/wealth-sprint/internal/types"
)

var (
	accent  = color.New(color.FgCyan, color.Bold)
	success = color.New(color.FgGreen, color.Bold)
	warn    = color.New(color.FgYellow, color.Bold)
	danger  = color.New(color.FgRed, color.Bold)
	neutral = color.New(color.FgHiWhite)
)

func printSuccess(msg string) {
	success.Println(msg)
}

func printWarn(msg string) {
	warn.Println(msg)
}

func printError(msg string) {
	danger.Println(msg)
}

func printInfo(msg string) {
	neutral.Println(msg)
}

func money(d decimal.Decimal) string {
	return "₹" + humanize.CommafWithDigits(d.InexactFloat64(), 2)
}

func signedMoney(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-" + money(d.Abs())
	}
	return "+" + money(d)
}

func price(p float64) string {
	return "₹" + humanize.CommafWithDigits(p, 2)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func renderSnapshot(s types.Snapshot) {
	accent.Printf("Day %d  (week %d, month %d, year %d)\n", s.Day, s.Week, s.Month, s.Year)
	if s.Ended {
		printWarn("The game has ended.")
	}
	fmt.Printf("  Bank balance     %s\n", money(s.BankBalance))
	fmt.Printf("  Total assets     %s\n", money(s.TotalAssets))
	fmt.Printf("  Liabilities      %s\n", money(s.TotalLiabilities))

	nw := success
	if s.NetWorth.IsNegative() {
		nw = danger
	}
	fmt.Print("  Net worth        ")
	nw.Println(money(s.NetWorth))
	fmt.Printf("  Monthly cashflow %s\n", signedMoney(s.Cashflow))
	fmt.Printf("  FI progress      %.0f%%\n", s.FIProgress)
	if s.FinanciallyIndependent {
		printSuccess("  Financially independent!")
	}
	fmt.Printf("  Team             %d members, synergy %d, burnout risk %d\n", s.TeamSize, s.TeamSynergy, s.BurnoutRisk)
	fmt.Printf("  Market sentiment %+.2f\n", s.Sentiment)
	fmt.Printf("  Stress %d  Energy %d  Reputation %d\n", s.Player.Stress, s.Player.Energy, s.Player.Reputation)
}

func renderHoldings(holdings []types.Holding, prices map[string]float64) {
	if len(holdings) == 0 {
		printInfo("No holdings.")
		return
	}
	accent.Println("Holdings")
	for _, h := range holdings {
		p := prices[h.Code]
		value := decimal.NewFromFloat(p).Round(2).Mul(decimal.NewFromInt(h.Quantity))
		basis := h.AverageCost.Mul(decimal.NewFromInt(h.Quantity))
		gain := value.Sub(basis)
		line := fmt.Sprintf("  %-12s %6d @ %-12s value %-14s", h.Code, h.Quantity, price(p), money(value))
		fmt.Print(line)
		if gain.IsNegative() {
			danger.Println(signedMoney(gain))
		} else {
			success.Println(signedMoney(gain))
		}
	}
}

func renderLiabilities(liabilities []types.Liability) {
	if len(liabilities) == 0 {
		return
	}
	accent.Println("Liabilities")
	for _, l := range liabilities {
		line := fmt.Sprintf("  %s %-14s %s at %.2f%%", shortID(l.ID), l.Category, money(l.OutstandingAmount), l.InterestRate)
		if l.MonthlyPayment.IsPositive() {
			line += fmt.Sprintf(", EMI %s", money(l.MonthlyPayment))
		}
		fmt.Println(line)
	}
}

func renderConditions(c types.MarketConditions, events []types.MarketEvent) {
	accent.Println("Conditions")
	fmt.Printf("  volatility %s, policy rate %.2f%%, inflation %.2f%%, growth %.2f%%\n",
		c.Volatility, c.InterestRate, c.InflationRate, c.EconomicGrowth)
	for _, ev := range events {
		fmt.Printf("  %s: %s (%d days left)\n", ev.Title, ev.Description, ev.DaysLeft)
	}
}

func renderInstruments(instruments []types.Instrument, trend func(string) string) {
	accent.Println("Market")
	for _, inst := range instruments {
		status := trend(inst.Code)
		if inst.Delisted {
			status = "delisted"
		}
		fmt.Printf("  %-12s %-28s %12s  %s\n", inst.Code, inst.Name, price(inst.Price), status)
	}
}

func renderMembers(members []types.TeamMember) {
	if len(members) == 0 {
		printInfo("No team members.")
		return
	}
	accent.Println("Team")
	for _, m := range members {
		fmt.Printf("  %s %-10s %-28s %s/month  exp %dy  loyalty %d impact %d energy %d  %s\n",
			shortID(m.ID), m.Name, team.RoleOf(m), money(m.Salary), m.YearsOfExperience, m.Loyalty, m.Impact, m.Energy, m.Mood)
	}
}

func renderApplicant(a types.JobApplicant, withQuestions bool) {
	fmt.Printf("  %s %-10s %-20s expects %s, %d years experience",
		shortID(a.ID), a.Name, a.BaseRole, money(a.ExpectedSalary), a.YearsOfExperience)
	if a.InterviewScore != nil {
		fmt.Printf(", interview score %d%%", *a.InterviewScore)
	}
	fmt.Println()
	if !withQuestions {
		return
	}
	if len(a.Strengths) > 0 {
		fmt.Printf("      strengths: %s\n", strings.Join(a.Strengths, ", "))
	}
	for i, q := range a.InterviewQuestions {
		fmt.Printf("      Q%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Printf("          %d) %s\n", j, opt)
		}
	}
}

func renderInterview(r types.InterviewResult) {
	msg := fmt.Sprintf("Scored %d/%d (%d%%)", r.Correct, r.Total, r.Score)
	switch {
	case r.Hired != nil:
		printSuccess(msg + fmt.Sprintf(", hired as %s", team.RoleOf(*r.Hired)))
	case r.AutoHire:
		printSuccess(msg + ", cleared the hiring bar")
	default:
		printWarn(msg + ", below the hiring bar")
	}
}

func renderTick(r types.TickReport) {
	if r.NewMonth {
		printInfo(fmt.Sprintf("Day %d: month %d settled, bank %s", r.Day, r.Snapshot.Month, money(r.Snapshot.BankBalance)))
	}
	if r.NewYear {
		accent.Printf("Day %d: year %d begins, net worth %s\n", r.Day, r.Snapshot.Year, money(r.Snapshot.NetWorth))
	}
	if r.MarketEvent != nil {
		printWarn(fmt.Sprintf("Day %d: %s", r.Day, r.MarketEvent.Title))
	}
	if r.ScenarioDue {
		printWarn(fmt.Sprintf("Day %d: a new scenario is waiting", r.Day))
	}
}
