package game

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/config"
	"github.com/user/wealth-sprint/internal/clock"
	"github.com/user/wealth-sprint/internal/interfaces"
	"github.com/user/wealth-sprint/internal/ledger"
	"github.com/user/wealth-sprint/internal/market"
	"github.com/user/wealth-sprint/internal/recorder"
	"github.com/user/wealth-sprint/internal/team"
	"github.com/user/wealth-sprint/internal/types"
	"go.uber.org/zap"
)

// stateVersion is written into every save document
const stateVersion = 1

// Player stat bounds and the effect of paying down debt
const (
	maxStat          = 100
	debtKarma        = 5
	debtStressRelief = 10
	debtLogic        = 2
)

// GameData is the static content a game is built from
type GameData struct {
	Instruments []types.Instrument
	Roles       []types.RoleTemplate
}

// GameManager orchestrates the engines and serialises all commands
type GameManager struct {
	stateLock  sync.RWMutex
	clock      *clock.Clock
	market     *market.Market
	ledger     *ledger.Ledger
	team       *team.Team
	player     types.PlayerStats
	data       GameData
	storage    *GameStateStorage
	recorder   interfaces.Recorder
	recordedTx int
	config     config.Config
	Logger     *zap.Logger
	diceRoller *DiceRoller
}

// Ensure GameManager satisfies the interfaces.Simulation interface
var _ interfaces.Simulation = (*GameManager)(nil)

// NewGameManager creates a manager holding a fresh game
func NewGameManager(cfg config.Config, data GameData) *GameManager {
	if len(data.Instruments) == 0 {
		data.Instruments = market.DefaultInstruments()
	}
	if len(data.Roles) == 0 {
		data.Roles = team.DefaultRoleTemplates()
	}

	gm := &GameManager{
		data:       data,
		storage:    NewGameStateStorage(cfg.Storage.SavePath),
		recorder:   recorder.NewNoopRecorder(),
		config:     cfg,
		Logger:     zap.NewNop(), // Will be set by the caller
		diceRoller: NewDiceRoller(cfg.Engine.Seed),
	}
	gm.reset()
	return gm
}

// SetLogger sets the logger
func (gm *GameManager) SetLogger(logger *zap.Logger) {
	gm.Logger = logger
}

// SetRecorder sets the history recorder
func (gm *GameManager) SetRecorder(rec interfaces.Recorder) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()
	gm.recorder = rec
}

// NewGame discards the current game and its recorded history and starts over
func (gm *GameManager) NewGame() types.Snapshot {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()
	gm.reset()
	if err := gm.recorder.Reset(context.Background()); err != nil {
		gm.Logger.Warn("Failed to clear recorded history", zap.Error(err))
	}
	return gm.snapshot()
}

func (gm *GameManager) reset() {
	cfg := gm.config.Engine
	gm.clock = clock.New()
	gm.market = market.New(gm.data.Instruments, gm.diceRoller)
	gm.ledger = ledger.New(ledger.Opening{
		BankBalance:     decimal.NewFromInt(cfg.StartingBalance),
		MainIncome:      decimal.NewFromInt(cfg.MainIncome),
		SideIncome:      decimal.NewFromInt(cfg.SideIncome),
		MonthlyExpenses: decimal.NewFromInt(cfg.MonthlyExpenses),
	})
	gm.team = team.New(gm.data.Roles, gm.diceRoller, gm.config.Hiring.PoolSize)
	gm.player = DefaultPlayerStats()
	gm.recordedTx = 0
}

// DefaultPlayerStats returns the starting personal attributes
func DefaultPlayerStats() types.PlayerStats {
	return types.PlayerStats{
		Logic:      50,
		Emotion:    50,
		Karma:      50,
		Stress:     0,
		Energy:     100,
		Reputation: 0,
	}
}

// AdvanceDay runs one simulated day: market tick, then ledger derivation and
// month settlement, then the team's year check.
func (gm *GameManager) AdvanceDay(ctx context.Context) (types.TickReport, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	tick, err := gm.clock.Advance()
	if err != nil {
		return types.TickReport{}, err
	}
	gm.ledger.SetDay(tick.Day)
	gm.team.SetDay(tick.Day)

	day := gm.market.Tick()
	sentiment := day.Sentiment
	if day.Event != nil {
		gm.Logger.Info("Market event",
			zap.String("type", day.Event.Type),
			zap.String("title", day.Event.Title),
			zap.Int("duration", day.Event.Duration))
	}

	if err := gm.ledger.MarkToMarket(gm.market.Prices()); err != nil {
		return types.TickReport{}, fmt.Errorf("mark to market on day %d: %w", tick.Day, err)
	}
	if err := gm.ledger.AccrueFixedIncome(tick.Day); err != nil {
		return types.TickReport{}, fmt.Errorf("accrue fixed income on day %d: %w", tick.Day, err)
	}
	if tick.NewMonth {
		if _, err := gm.ledger.SettleMonth(gm.team.Payroll()); err != nil {
			return types.TickReport{}, fmt.Errorf("settle month %d: %w", tick.Month, err)
		}
		gm.Logger.Info("Month settled",
			zap.Int("month", tick.Month),
			zap.String("bank_balance", gm.ledger.Balance().StringFixed(2)))
	}

	if tick.NewYear && gm.team.AdvanceExperience(tick.Year) {
		gm.Logger.Info("Team experience advanced",
			zap.Int("year", tick.Year),
			zap.Int("team_size", gm.team.Size()))
	}

	gm.player.Stress = min(maxStat, gm.player.Stress+1)

	scenarioDue := false
	if gm.clock.DaysSinceLastEvent() >= gm.config.Engine.ScenarioCooldownDays &&
		gm.diceRoller.Roll(100) <= gm.config.Engine.ScenarioChance {
		scenarioDue = true
		gm.clock.ResetEventCounter()
	}

	if gm.config.Engine.MaxYears > 0 && tick.Year >= gm.config.Engine.MaxYears {
		gm.clock.End()
		gm.Logger.Info("Game ended", zap.Int("day", tick.Day), zap.Int("year", tick.Year))
	}

	report := types.TickReport{
		Day:         tick.Day,
		NewWeek:     tick.NewWeek,
		NewMonth:    tick.NewMonth,
		NewYear:     tick.NewYear,
		ScenarioDue: scenarioDue,
		Ended:       gm.clock.Ended(),
		Sentiment:   sentiment,
		MarketEvent: day.Event,
		Snapshot:    gm.snapshot(),
	}

	if err := gm.recorder.RecordTick(ctx, report); err != nil {
		gm.Logger.Warn("Failed to record tick", zap.Int("day", tick.Day), zap.Error(err))
	}
	gm.flushTransactions(ctx)

	gm.Logger.Debug("Day advanced",
		zap.Int("day", tick.Day),
		zap.Float64("sentiment", sentiment),
		zap.Bool("scenario_due", scenarioDue))

	return report, nil
}

// Snapshot returns the derived view of the current state
func (gm *GameManager) Snapshot() types.Snapshot {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.snapshot()
}

func (gm *GameManager) snapshot() types.Snapshot {
	c := gm.clock.State()
	fin := gm.ledger.State()
	return types.Snapshot{
		Day:                    c.CurrentDay,
		Week:                   c.CurrentWeek,
		Month:                  c.CurrentMonth,
		Year:                   c.CurrentYear,
		Ended:                  c.IsEnded,
		BankBalance:            fin.BankBalance,
		TotalAssets:            fin.TotalAssets,
		TotalLiabilities:       fin.TotalLiabilities,
		NetWorth:               fin.NetWorth,
		Cashflow:               fin.Cashflow,
		FIProgress:             gm.ledger.FIProgress(),
		FinanciallyIndependent: gm.ledger.FinanciallyIndependent(),
		TeamSize:               gm.team.Size(),
		TeamSynergy:            gm.team.Synergy(),
		BurnoutRisk:            gm.team.BurnoutRisk(),
		Sentiment:              gm.market.Sentiment(),
		Conditions:             gm.market.Conditions(),
		Prices:                 gm.market.Prices(),
		Player:                 gm.player,
	}
}

// Finance returns the full financial state
func (gm *GameManager) Finance() types.FinancialState {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.ledger.State()
}

// Instruments returns the market listing
func (gm *GameManager) Instruments() []types.Instrument {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.market.Instruments()
}

// Trend returns the recent direction of an instrument
func (gm *GameManager) Trend(code string) (string, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.market.Trend(code)
}

// MarketConditions returns the macro backdrop and the events in effect
func (gm *GameManager) MarketConditions() (types.MarketConditions, []types.MarketEvent) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.market.Conditions(), gm.market.Events()
}

// Quote returns the annual rate a new bond or fixed deposit would earn
// today. rating applies to bonds only; empty means a government bond.
func (gm *GameManager) Quote(kind, rating string) (float64, error) {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.quote(kind, rating)
}

func (gm *GameManager) quote(kind, rating string) (float64, error) {
	c := gm.market.Conditions()
	switch kind {
	case ledger.KindFixedDeposit:
		return market.BankInterestRate(types.AccountFixedDeposit, c), nil
	case ledger.KindBond:
		return market.BondYield(rating, c), nil
	default:
		return 0, fmt.Errorf("fixed income kind %q: %w", kind, types.ErrUnknownEntity)
	}
}

// Holdings returns the portfolio
func (gm *GameManager) Holdings() []types.Holding {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.ledger.Holdings()
}

// Transactions returns the latest transactions
func (gm *GameManager) Transactions(limit int) []types.Transaction {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.ledger.Transactions(limit)
}

// Members returns the roster
func (gm *GameManager) Members() []types.TeamMember {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.team.Members()
}

// Applicants returns the applicant pool
func (gm *GameManager) Applicants() []types.JobApplicant {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.team.Applicants()
}

// Buy purchases quantity units of an instrument at the current price
func (gm *GameManager) Buy(code string, quantity int64) (types.Snapshot, error) {
	return gm.command(func() error {
		inst, err := gm.market.Instrument(code)
		if err != nil {
			return err
		}
		if inst.Delisted {
			return fmt.Errorf("instrument %q is delisted: %w", code, types.ErrUnknownEntity)
		}
		if _, err := gm.ledger.Buy(code, quantity, inst.Price); err != nil {
			return err
		}
		gm.Logger.Info("Bought shares",
			zap.String("code", code),
			zap.Int64("quantity", quantity),
			zap.Float64("price", inst.Price))
		return nil
	})
}

// Sell sells quantity units of an instrument at the current price
func (gm *GameManager) Sell(code string, quantity int64) (types.Snapshot, error) {
	return gm.command(func() error {
		price, err := gm.market.Price(code)
		if err != nil {
			return err
		}
		if _, err := gm.ledger.Sell(code, quantity, price); err != nil {
			return err
		}
		gm.Logger.Info("Sold shares",
			zap.String("code", code),
			zap.Int64("quantity", quantity),
			zap.Float64("price", price))
		return nil
	})
}

// GenerateApplicant adds a candidate to the pool
func (gm *GameManager) GenerateApplicant(role string) (types.JobApplicant, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if gm.clock.Ended() {
		return types.JobApplicant{}, types.ErrTerminalState
	}
	return gm.team.GenerateApplicant(role)
}

// Interview scores an applicant and hires them when auto-hire applies
func (gm *GameManager) Interview(applicantID string, answers []int) (types.InterviewResult, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if gm.clock.Ended() {
		return types.InterviewResult{}, types.ErrTerminalState
	}
	result, err := gm.team.Interview(applicantID, answers)
	if err != nil {
		return result, err
	}

	if result.AutoHire && gm.config.Hiring.AutoHire {
		member, err := gm.team.Hire(applicantID)
		if err != nil {
			return result, err
		}
		result.Hired = &member
		gm.Logger.Info("Applicant auto-hired",
			zap.String("member_id", member.ID),
			zap.String("role", team.RoleOf(member).String()),
			zap.Int("score", result.Score))
	}
	return result, nil
}

// Hire converts an applicant into a team member
func (gm *GameManager) Hire(applicantID string) (types.Snapshot, error) {
	return gm.command(func() error {
		member, err := gm.team.Hire(applicantID)
		if err != nil {
			return err
		}
		gm.Logger.Info("Hired team member",
			zap.String("member_id", member.ID),
			zap.String("role", team.RoleOf(member).String()))
		return nil
	})
}

// Reject discards an applicant
func (gm *GameManager) Reject(applicantID string) error {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()
	return gm.team.Reject(applicantID)
}

// Promote raises a member's salary and morale
func (gm *GameManager) Promote(memberID string) (types.Snapshot, error) {
	return gm.command(func() error {
		_, err := gm.team.Promote(memberID)
		return err
	})
}

// GiveBonus pays a member from the bank and lifts their morale. The payment
// is booked first so a rejected payment leaves the member untouched.
func (gm *GameManager) GiveBonus(memberID string, amount decimal.Decimal) (types.Snapshot, error) {
	return gm.command(func() error {
		member, err := gm.team.Member(memberID)
		if err != nil {
			return err
		}
		if !amount.IsPositive() {
			return fmt.Errorf("bonus of %s: %w", amount, types.ErrInvalidQuantity)
		}
		desc := fmt.Sprintf("Bonus for %s", member.Name)
		if _, err := gm.ledger.RecordTransaction(amount.Neg(), desc, types.AccountBank, types.AccountExternal, ledger.WithFloor(decimal.Zero)); err != nil {
			return err
		}
		_, err = gm.team.GiveBonus(memberID)
		return err
	})
}

// Terminate removes a member from the roster
func (gm *GameManager) Terminate(memberID string) (types.Snapshot, error) {
	return gm.command(func() error {
		_, err := gm.team.Terminate(memberID)
		return err
	})
}

// PayLiability pays down a liability. Reducing debt eases stress and
// builds karma and logic.
func (gm *GameManager) PayLiability(liabilityID string, amount decimal.Decimal) (types.Snapshot, error) {
	return gm.command(func() error {
		if _, err := gm.ledger.PayLiability(liabilityID, amount); err != nil {
			return err
		}
		gm.player.Karma = min(maxStat, gm.player.Karma+debtKarma)
		gm.player.Stress = max(0, gm.player.Stress-debtStressRelief)
		gm.player.Logic = min(maxStat, gm.player.Logic+debtLogic)
		return nil
	})
}

// TakeLoan borrows principal repaid in monthly instalments
func (gm *GameManager) TakeLoan(category string, principal decimal.Decimal, rate float64, termMonths int) (types.Snapshot, error) {
	return gm.command(func() error {
		_, err := gm.ledger.TakeLoan(category, principal, rate, termMonths)
		return err
	})
}

// OpenFixedIncome invests in a bond or fixed deposit. A zero rate takes
// the rate quoted under current market conditions.
func (gm *GameManager) OpenFixedIncome(kind string, amount decimal.Decimal, rate float64) (types.Snapshot, error) {
	return gm.command(func() error {
		if rate == 0 {
			quoted, err := gm.quote(kind, "")
			if err != nil {
				return err
			}
			rate = quoted
		}
		_, err := gm.ledger.OpenFixedIncome(kind, amount, rate)
		return err
	})
}

// RedeemFixedIncome closes a bond or fixed deposit at its accrued value
func (gm *GameManager) RedeemFixedIncome(id string) (types.Snapshot, error) {
	return gm.command(func() error {
		_, err := gm.ledger.RedeemFixedIncome(id, gm.clock.Day())
		return err
	})
}

// AddLiability registers an existing debt such as a credit card balance
func (gm *GameManager) AddLiability(category string, amount decimal.Decimal, rate float64) (types.Snapshot, error) {
	return gm.command(func() error {
		_, err := gm.ledger.AddLiability(category, amount, rate)
		return err
	})
}

// SetIncome replaces the recurring income and expense figures
func (gm *GameManager) SetIncome(main, side, expenses decimal.Decimal) (types.Snapshot, error) {
	return gm.command(func() error {
		return gm.ledger.SetIncome(main, side, expenses)
	})
}

// Delist freezes an instrument. Existing holdings keep their last price.
func (gm *GameManager) Delist(code string) (types.Snapshot, error) {
	return gm.command(func() error {
		if err := gm.market.Delist(code); err != nil {
			return err
		}
		gm.Logger.Info("Instrument delisted", zap.String("code", code))
		return nil
	})
}

// command runs a mutating operation under the write lock and returns the
// snapshot after it succeeds
func (gm *GameManager) command(fn func() error) (types.Snapshot, error) {
	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	if gm.clock.Ended() {
		return types.Snapshot{}, types.ErrTerminalState
	}
	if err := fn(); err != nil {
		if errors.Is(err, types.ErrInvariantViolation) {
			gm.Logger.Error("Ledger invariant violated", zap.Error(err))
		}
		return types.Snapshot{}, err
	}
	gm.flushTransactions(context.Background())
	return gm.snapshot(), nil
}

// flushTransactions hands transactions not yet recorded to the recorder
func (gm *GameManager) flushTransactions(ctx context.Context) {
	history := gm.ledger.Transactions(0)
	if gm.recordedTx > len(history) {
		gm.recordedTx = len(history)
	}
	pending := history[gm.recordedTx:]
	if len(pending) == 0 {
		return
	}
	if err := gm.recorder.RecordTransactions(ctx, pending); err != nil {
		gm.Logger.Warn("Failed to record transactions", zap.Int("count", len(pending)), zap.Error(err))
		return
	}
	gm.recordedTx = len(history)
}

// Export returns the full persistable state
func (gm *GameManager) Export() *types.GameState {
	gm.stateLock.RLock()
	defer gm.stateLock.RUnlock()
	return gm.export()
}

func (gm *GameManager) export() *types.GameState {
	return &types.GameState{
		Version:     stateVersion,
		Clock:       gm.clock.State(),
		Finance:     gm.ledger.State(),
		Holdings:    gm.ledger.Holdings(),
		FixedIncome: gm.ledger.FixedIncome(),
		Instruments: gm.market.Instruments(),
		Sentiment:   gm.market.Sentiment(),
		Conditions:  gm.market.Conditions(),
		Events:      gm.market.Events(),
		Team:        gm.team.State(),
		Player:      gm.player,
	}
}

// Import replaces the current game with a persisted one
func (gm *GameManager) Import(state *types.GameState) error {
	if state == nil {
		return errors.New("game state is nil")
	}
	if state.Version > stateVersion {
		return fmt.Errorf("save version %d is newer than supported version %d", state.Version, stateVersion)
	}

	gm.stateLock.Lock()
	defer gm.stateLock.Unlock()

	instruments := state.Instruments
	if len(instruments) == 0 {
		instruments = gm.data.Instruments
	}

	gm.clock = clock.Restore(state.Clock)
	gm.market = market.New(instruments, gm.diceRoller)
	gm.market.SetSentiment(state.Sentiment)
	gm.market.RestoreConditions(state.Conditions, state.Events)
	gm.ledger = ledger.Restore(state.Finance, state.Holdings, state.FixedIncome)
	gm.ledger.SetDay(gm.clock.Day())
	gm.team = team.Restore(state.Team, gm.data.Roles, gm.diceRoller, gm.config.Hiring.PoolSize)
	gm.team.SetDay(gm.clock.Day())
	gm.player = state.Player
	gm.recordedTx = len(state.Finance.TransactionHistory)

	if err := gm.ledger.MarkToMarket(gm.market.Prices()); err != nil {
		return fmt.Errorf("revalue restored portfolio: %w", err)
	}
	return nil
}

// Save persists the game to the configured save path
func (gm *GameManager) Save() error {
	gm.stateLock.RLock()
	state := gm.export()
	gm.stateLock.RUnlock()

	if err := gm.storage.SaveGameState(state); err != nil {
		return fmt.Errorf("failed to save game state: %w", err)
	}
	return nil
}

// Resume loads the saved game if one exists and reports whether it did
func (gm *GameManager) Resume() (bool, error) {
	state, err := gm.storage.LoadGameState()
	if err != nil {
		return false, err
	}
	if state == nil {
		return false, nil
	}
	if err := gm.Import(state); err != nil {
		return false, err
	}
	return true, nil
}
