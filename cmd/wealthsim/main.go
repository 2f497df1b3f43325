package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/user/wealth-sprint/config"
	"github.com/user/wealth-sprint/internal/game"
	"github.com/user/wealth-sprint/internal/ledger"
	"github.com/user/wealth-sprint/internal/types"
	"go.uber.org/zap"
)

func main() {
	configPath := "./config/config.json"

	root := &cobra.Command{
		Use:          "wealthsim",
		Short:        "Play the wealth simulation from the terminal",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", configPath, "Path to configuration file")

	root.AddCommand(
		newNewCmd(&configPath),
		newStatusCmd(&configPath),
		newAdvanceCmd(&configPath),
		newMarketCmd(&configPath),
		newBuyCmd(&configPath),
		newSellCmd(&configPath),
		newTeamCmd(&configPath),
		newApplicantsCmd(&configPath),
		newInterviewCmd(&configPath),
		newHireCmd(&configPath),
		newPromoteCmd(&configPath),
		newBonusCmd(&configPath),
		newFireCmd(&configPath),
		newLoanCmd(&configPath),
		newPayCmd(&configPath),
		newDepositCmd(&configPath),
		newTaxCmd(),
	)

	if err := root.Execute(); err != nil {
		printError(fmt.Sprintf("error: %v", err))
		os.Exit(1)
	}
}

// openGame loads the configured save file, or starts a new game when none exists
func openGame(configPath string) (*game.GameManager, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	data, err := game.NewDataLoader(cfg.Market.DataDir).LoadGameData()
	if err != nil {
		return nil, err
	}

	gm := game.NewGameManager(cfg, data)
	logCfg := zap.NewDevelopmentConfig()
	logCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if logger, err := logCfg.Build(); err == nil {
		gm.SetLogger(logger)
	}

	if _, err := gm.Resume(); err != nil {
		return nil, err
	}
	return gm, nil
}

// mutate runs fn against the saved game and saves the result
func mutate(configPath string, fn func(gm *game.GameManager) error) error {
	gm, err := openGame(configPath)
	if err != nil {
		return err
	}
	if err := fn(gm); err != nil {
		return explain(err)
	}
	return gm.Save()
}

func explain(err error) error {
	switch types.ErrorKind(err) {
	case types.KindTerminalState:
		return errors.New("the game has ended, start over with `wealthsim new`")
	case types.KindInsufficientFunds:
		return fmt.Errorf("not enough money in the bank: %w", err)
	}
	return err
}

// resolveID matches an id or a unique id prefix
func resolveID(prefix string, ids []string) (string, error) {
	var match string
	for _, id := range ids {
		if id == prefix {
			return id, nil
		}
		if strings.HasPrefix(id, prefix) {
			if match != "" {
				return "", fmt.Errorf("id prefix %q is ambiguous", prefix)
			}
			match = id
		}
	}
	if match == "" {
		return "", fmt.Errorf("no entry matches %q: %w", prefix, types.ErrUnknownEntity)
	}
	return match, nil
}

func memberID(gm *game.GameManager, prefix string) (string, error) {
	var ids []string
	for _, m := range gm.Members() {
		ids = append(ids, m.ID)
	}
	return resolveID(prefix, ids)
}

func applicantID(gm *game.GameManager, prefix string) (string, error) {
	var ids []string
	for _, a := range gm.Applicants() {
		ids = append(ids, a.ID)
	}
	return resolveID(prefix, ids)
}

func parseMoney(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount %q", raw)
	}
	return d, nil
}

func newNewCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "new",
		Short: "Start a new game, discarding the current save",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gm, err := openGame(*configPath)
			if err != nil {
				return err
			}
			snap := gm.NewGame()
			if err := gm.Save(); err != nil {
				return err
			}
			printSuccess("New game started.")
			renderSnapshot(snap)
			return nil
		},
	}
}

func newStatusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the balance sheet, portfolio and team",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gm, err := openGame(*configPath)
			if err != nil {
				return err
			}
			snap := gm.Snapshot()
			renderSnapshot(snap)
			renderHoldings(gm.Holdings(), snap.Prices)
			renderLiabilities(gm.Finance().Liabilities)
			return nil
		},
	}
}

func newAdvanceCmd(configPath *string) *cobra.Command {
	var days int
	cmd := &cobra.Command{
		Use:   "advance",
		Short: "Advance the simulation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if days <= 0 {
				return errors.New("--days must be positive")
			}
			return mutate(*configPath, func(gm *game.GameManager) error {
				var last types.TickReport
				for i := 0; i < days; i++ {
					report, err := gm.AdvanceDay(cmd.Context())
					if err != nil {
						return err
					}
					renderTick(report)
					last = report
					if report.Ended {
						break
					}
				}
				renderSnapshot(last.Snapshot)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&days, "days", 1, "Number of days to advance")
	return cmd
}

func newMarketCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "market",
		Short: "List instruments with their recent trend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gm, err := openGame(*configPath)
			if err != nil {
				return err
			}
			renderConditions(gm.MarketConditions())
			renderInstruments(gm.Instruments(), func(code string) string {
				trend, _ := gm.Trend(code)
				return trend
			})
			return nil
		},
	}
}

func newBuyCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "buy <code> <quantity>",
		Short: "Buy shares at the current price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tradeCommand(*configPath, "buy", args[0], args[1])
		},
	}
}

func newSellCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "sell <code> <quantity>",
		Short: "Sell shares at the current price",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return tradeCommand(*configPath, "sell", args[0], args[1])
		},
	}
}

func tradeCommand(configPath, side, code, rawQty string) error {
	qty, err := strconv.ParseInt(rawQty, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid quantity %q", rawQty)
	}
	code = strings.ToUpper(strings.TrimSpace(code))
	return mutate(configPath, func(gm *game.GameManager) error {
		trade := gm.Buy
		verb := "Bought"
		if side == "sell" {
			trade, verb = gm.Sell, "Sold"
		}
		snap, err := trade(code, qty)
		if err != nil {
			return err
		}
		printSuccess(fmt.Sprintf("%s %d %s @ %s", verb, qty, code, price(snap.Prices[code])))
		fmt.Printf("Bank balance %s\n", money(snap.BankBalance))
		return nil
	})
}

func newTeamCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "team",
		Short: "List team members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			gm, err := openGame(*configPath)
			if err != nil {
				return err
			}
			renderMembers(gm.Members())
			snap := gm.Snapshot()
			fmt.Printf("Synergy %d, burnout risk %d, payroll %s/month\n",
				snap.TeamSynergy, snap.BurnoutRisk, money(payroll(gm.Members())))
			return nil
		},
	}
}

func payroll(members []types.TeamMember) decimal.Decimal {
	total := decimal.Zero
	for _, m := range members {
		total = total.Add(m.Salary)
	}
	return total
}

func newApplicantsCmd(configPath *string) *cobra.Command {
	var role string
	var generate int
	cmd := &cobra.Command{
		Use:   "applicants",
		Short: "List the applicant pool, optionally drawing new candidates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(*configPath, func(gm *game.GameManager) error {
				for i := 0; i < generate; i++ {
					if _, err := gm.GenerateApplicant(role); err != nil {
						return err
					}
				}
				applicants := gm.Applicants()
				if len(applicants) == 0 {
					printInfo("No applicants. Use --generate to draw some.")
					return nil
				}
				accent.Println("Applicants")
				for _, a := range applicants {
					renderApplicant(a, true)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&role, "role", "", "Role to recruit for (random when empty)")
	cmd.Flags().IntVar(&generate, "generate", 0, "Number of new applicants to draw")
	return cmd
}

func newInterviewCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "interview <applicant-id> <answer>...",
		Short: "Answer an applicant's interview questions by option number",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers := make([]int, 0, len(args)-1)
			for _, raw := range args[1:] {
				n, err := strconv.Atoi(raw)
				if err != nil {
					return fmt.Errorf("invalid answer %q", raw)
				}
				answers = append(answers, n)
			}
			return mutate(*configPath, func(gm *game.GameManager) error {
				id, err := applicantID(gm, args[0])
				if err != nil {
					return err
				}
				result, err := gm.Interview(id, answers)
				if err != nil {
					return err
				}
				renderInterview(result)
				return nil
			})
		},
	}
}

func newHireCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "hire <applicant-id>",
		Short: "Hire an applicant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(*configPath, func(gm *game.GameManager) error {
				id, err := applicantID(gm, args[0])
				if err != nil {
					return err
				}
				snap, err := gm.Hire(id)
				if err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Hired. Team size is now %d.", snap.TeamSize))
				return nil
			})
		},
	}
}

func newPromoteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "promote <member-id>",
		Short: "Promote a team member with a 25% raise",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(*configPath, func(gm *game.GameManager) error {
				id, err := memberID(gm, args[0])
				if err != nil {
					return err
				}
				if _, err := gm.Promote(id); err != nil {
					return err
				}
				printSuccess("Promoted.")
				return nil
			})
		},
	}
}

func newBonusCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "bonus <member-id> <amount>",
		Short: "Pay a team member a bonus from the bank",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney(args[1])
			if err != nil {
				return err
			}
			return mutate(*configPath, func(gm *game.GameManager) error {
				id, err := memberID(gm, args[0])
				if err != nil {
					return err
				}
				snap, err := gm.GiveBonus(id, amount)
				if err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Paid %s bonus. Bank balance %s.", money(amount), money(snap.BankBalance)))
				return nil
			})
		},
	}
}

func newFireCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "fire <member-id>",
		Short: "Let a team member go",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return mutate(*configPath, func(gm *game.GameManager) error {
				id, err := memberID(gm, args[0])
				if err != nil {
					return err
				}
				snap, err := gm.Terminate(id)
				if err != nil {
					return err
				}
				printWarn(fmt.Sprintf("Member let go. Team size is now %d.", snap.TeamSize))
				return nil
			})
		},
	}
}

func newLoanCmd(configPath *string) *cobra.Command {
	var rate float64
	var term int
	cmd := &cobra.Command{
		Use:   "loan <category> <principal>",
		Short: "Borrow money repaid in monthly instalments",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			principal, err := parseMoney(args[1])
			if err != nil {
				return err
			}
			return mutate(*configPath, func(gm *game.GameManager) error {
				snap, err := gm.TakeLoan(args[0], principal, rate, term)
				if err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Borrowed %s. Bank balance %s.", money(principal), money(snap.BankBalance)))
				renderLiabilities(gm.Finance().Liabilities)
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 10, "Annual interest rate in percent")
	cmd.Flags().IntVar(&term, "months", 12, "Repayment term in months")
	return cmd
}

func newPayCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "pay <liability-id> <amount>",
		Short: "Pay down a liability",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney(args[1])
			if err != nil {
				return err
			}
			return mutate(*configPath, func(gm *game.GameManager) error {
				var ids []string
				for _, l := range gm.Finance().Liabilities {
					ids = append(ids, l.ID)
				}
				id, err := resolveID(args[0], ids)
				if err != nil {
					return err
				}
				snap, err := gm.PayLiability(id, amount)
				if err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Payment made. Outstanding debt %s.", money(snap.TotalLiabilities)))
				return nil
			})
		},
	}
}

func newDepositCmd(configPath *string) *cobra.Command {
	var rate float64
	cmd := &cobra.Command{
		Use:   "deposit <bond|fixed_deposit> <amount>",
		Short: "Invest in a bond or fixed deposit",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := parseMoney(args[1])
			if err != nil {
				return err
			}
			return mutate(*configPath, func(gm *game.GameManager) error {
				r := rate
				if r == 0 {
					if r, err = gm.Quote(args[0], ""); err != nil {
						return err
					}
				}
				snap, err := gm.OpenFixedIncome(args[0], amount, r)
				if err != nil {
					return err
				}
				printSuccess(fmt.Sprintf("Invested %s at %.2f%%. Bank balance %s.", money(amount), r, money(snap.BankBalance)))
				return nil
			})
		},
	}
	cmd.Flags().Float64Var(&rate, "rate", 0, "Annual interest rate in percent (0 takes the market quote)")
	return cmd
}

func newTaxCmd() *cobra.Command {
	var deductions string
	cmd := &cobra.Command{
		Use:   "tax <annual-income>",
		Short: "Estimate annual income tax",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			income, err := parseMoney(args[0])
			if err != nil {
				return err
			}
			ded, err := parseMoney(deductions)
			if err != nil {
				return err
			}
			tax := ledger.CalculateTax(income, ded)
			fmt.Printf("Taxable income %s\n", money(decimal.Max(income.Sub(ded), decimal.Zero)))
			accent.Printf("Tax due        %s\n", money(tax))
			return nil
		},
	}
	cmd.Flags().StringVar(&deductions, "deductions", "0", "Deductions from income")
	return cmd
}
