package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account names used as transaction endpoints
const (
	AccountBank         = "bank"
	AccountStocks       = "stocks"
	AccountBonds        = "bonds"
	AccountFixedDeposit = "fixed_deposit"
	AccountRealEstate   = "real_estate"
	AccountExternal     = "external"
	AccountLiability    = "liability:"
)

// Mood values for team members
const (
	MoodNeutral   = "neutral"
	MoodMotivated = "motivated"
	MoodBurntOut  = "burnt_out"
)

// Volatility regimes
const (
	VolatilityLow    = "low"
	VolatilityMedium = "medium"
	VolatilityHigh   = "high"
)

// GameState is the persisted simulation document
type GameState struct {
	Version     int              `json:"version"`
	SavedAt     time.Time        `json:"saved_at"`
	Clock       GameClock        `json:"clock"`
	Finance     FinancialState   `json:"finance"`
	Holdings    []Holding        `json:"holdings"`
	FixedIncome []FixedIncome    `json:"fixed_income"`
	Instruments []Instrument     `json:"instruments"`
	Sentiment   float64          `json:"sentiment"`
	Conditions  MarketConditions `json:"market_conditions"`
	Events      []MarketEvent    `json:"market_events,omitempty"`
	Team        TeamState        `json:"team"`
	Player      PlayerStats      `json:"player"`
}

// GameClock tracks simulated time
type GameClock struct {
	CurrentDay         int  `json:"current_day"`
	CurrentWeek        int  `json:"current_week"`
	CurrentMonth       int  `json:"current_month"`
	CurrentYear        int  `json:"current_year"`
	DaysSinceLastEvent int  `json:"days_since_last_event"`
	IsEnded            bool `json:"is_ended"`
}

// Investments holds the market value of each asset bucket
type Investments struct {
	Stocks       decimal.Decimal `json:"stocks"`
	Bonds        decimal.Decimal `json:"bonds"`
	FixedDeposit decimal.Decimal `json:"fixed_deposit"`
	RealEstate   decimal.Decimal `json:"real_estate"`
}

// Total returns the sum of all buckets
func (i Investments) Total() decimal.Decimal {
	return i.Stocks.Add(i.Bonds).Add(i.FixedDeposit).Add(i.RealEstate)
}

// FinancialState is the player's balance sheet
type FinancialState struct {
	BankBalance        decimal.Decimal `json:"bank_balance"`
	MainIncome         decimal.Decimal `json:"main_income"`
	SideIncome         decimal.Decimal `json:"side_income"`
	MonthlyExpenses    decimal.Decimal `json:"monthly_expenses"`
	Investments        Investments     `json:"investments"`
	Liabilities        []Liability     `json:"liabilities"`
	TotalAssets        decimal.Decimal `json:"total_assets"`
	TotalLiabilities   decimal.Decimal `json:"total_liabilities"`
	NetWorth           decimal.Decimal `json:"net_worth"`
	Cashflow           decimal.Decimal `json:"cashflow"`
	TransactionHistory []Transaction   `json:"transaction_history"`
}

// Liability is an outstanding debt
type Liability struct {
	ID                string          `json:"id"`
	Category          string          `json:"category"`
	OutstandingAmount decimal.Decimal `json:"outstanding_amount"`
	InterestRate      float64         `json:"interest_rate"`
	MonthlyPayment    decimal.Decimal `json:"monthly_payment"`
	TermMonths        int             `json:"term_months"`
}

// Transaction is an immutable ledger entry
type Transaction struct {
	ID          string          `json:"id"`
	Day         int             `json:"day"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	FromAccount string          `json:"from_account"`
	ToAccount   string          `json:"to_account"`
	Timestamp   time.Time       `json:"timestamp"`
}

// Instrument is a tradable stock
type Instrument struct {
	Code       string    `json:"code" yaml:"code"`
	Name       string    `json:"name" yaml:"name"`
	Sector     string    `json:"sector" yaml:"sector"`
	Price      float64   `json:"price" yaml:"price"`
	Volatility float64   `json:"volatility" yaml:"volatility"`
	Delisted   bool      `json:"delisted" yaml:"delisted"`
	History    []float64 `json:"history,omitempty" yaml:"-"`
}

// MarketConditions is the macro backdrop prices evolve under. Rates are
// annual percentages.
type MarketConditions struct {
	Volatility      string  `json:"volatility"`
	VolatilityScore float64 `json:"volatility_score"`
	InterestRate    float64 `json:"interest_rate"`
	InflationRate   float64 `json:"inflation_rate"`
	EconomicGrowth  float64 `json:"economic_growth"`
}

// MarketEvent is a shock spread evenly over Duration days. An empty Sector
// applies to every listed instrument.
type MarketEvent struct {
	Type        string  `json:"type"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	StockImpact float64 `json:"stock_impact"`
	RateShift   float64 `json:"rate_shift"`
	Sector      string  `json:"sector,omitempty"`
	Duration    int     `json:"duration"`
	DaysLeft    int     `json:"days_left"`
}

// Holding is a position in the player's portfolio
type Holding struct {
	Code        string          `json:"code"`
	Quantity    int64           `json:"quantity"`
	AverageCost decimal.Decimal `json:"average_cost"`
}

// FixedIncome is a bond or fixed deposit position
type FixedIncome struct {
	ID        string          `json:"id"`
	Kind      string          `json:"kind"`
	Principal decimal.Decimal `json:"principal"`
	Rate      float64         `json:"rate"`
	OpenedDay int             `json:"opened_day"`
}

// TeamState holds the roster and hiring pipeline
type TeamState struct {
	Members            []TeamMember   `json:"members"`
	Applicants         []JobApplicant `json:"applicants"`
	LastExperienceYear int            `json:"last_experience_year"`
}

// TeamMember is an employee on the roster
type TeamMember struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	BaseRole          string          `json:"base_role"`
	Salary            decimal.Decimal `json:"salary"`
	YearsOfExperience int             `json:"years_of_experience"`
	Loyalty           int             `json:"loyalty"`
	Impact            int             `json:"impact"`
	Energy            int             `json:"energy"`
	Mood              string          `json:"mood"`
	Skills            []string        `json:"skills"`
	HiddenDynamics    HiddenDynamics  `json:"hidden_dynamics"`
	HiredDay          int             `json:"hired_day"`
}

// HiddenDynamics are traits not shown to the player
type HiddenDynamics struct {
	TrustWithFounder    int `json:"trust_with_founder"`
	CreativeFulfillment int `json:"creative_fulfillment"`
	BurnoutRisk         int `json:"burnout_risk"`
}

// JobApplicant is a hiring candidate
type JobApplicant struct {
	ID                 string              `json:"id"`
	Name               string              `json:"name"`
	BaseRole           string              `json:"base_role"`
	ExpectedSalary     decimal.Decimal     `json:"expected_salary"`
	YearsOfExperience  int                 `json:"years_of_experience"`
	Skills             []string            `json:"skills"`
	Strengths          []string            `json:"strengths"`
	Weaknesses         []string            `json:"weaknesses"`
	InterviewQuestions []InterviewQuestion `json:"interview_questions"`
	AutoHireThreshold  int                 `json:"auto_hire_threshold"`
	InterviewScore     *int                `json:"interview_score,omitempty"`
}

// PlayerStats are the player's personal attributes
type PlayerStats struct {
	Logic      int `json:"logic"`
	Emotion    int `json:"emotion"`
	Karma      int `json:"karma"`
	Stress     int `json:"stress"`
	Energy     int `json:"energy"`
	Reputation int `json:"reputation"`
}

// Snapshot is the derived read-only view returned after every command
type Snapshot struct {
	Day                    int                `json:"day"`
	Week                   int                `json:"week"`
	Month                  int                `json:"month"`
	Year                   int                `json:"year"`
	Ended                  bool               `json:"ended"`
	BankBalance            decimal.Decimal    `json:"bank_balance"`
	TotalAssets            decimal.Decimal    `json:"total_assets"`
	TotalLiabilities       decimal.Decimal    `json:"total_liabilities"`
	NetWorth               decimal.Decimal    `json:"net_worth"`
	Cashflow               decimal.Decimal    `json:"cashflow"`
	FIProgress             float64            `json:"fi_progress"`
	FinanciallyIndependent bool               `json:"financially_independent"`
	TeamSize               int                `json:"team_size"`
	TeamSynergy            int                `json:"team_synergy"`
	BurnoutRisk            int                `json:"burnout_risk"`
	Sentiment              float64            `json:"sentiment"`
	Conditions             MarketConditions   `json:"conditions"`
	Prices                 map[string]float64 `json:"prices"`
	Player                 PlayerStats        `json:"player"`
}

// TickReport describes what happened during one simulated day
type TickReport struct {
	Day         int          `json:"day"`
	NewWeek     bool         `json:"new_week"`
	NewMonth    bool         `json:"new_month"`
	NewYear     bool         `json:"new_year"`
	ScenarioDue bool         `json:"scenario_due"`
	Ended       bool         `json:"ended"`
	Sentiment   float64      `json:"sentiment"`
	MarketEvent *MarketEvent `json:"market_event,omitempty"`
	Snapshot    Snapshot     `json:"snapshot"`
}

// InterviewResult is the outcome of scoring an applicant's answers
type InterviewResult struct {
	ApplicantID string      `json:"applicant_id"`
	Correct     int         `json:"correct"`
	Total       int         `json:"total"`
	Score       int         `json:"score"`
	AutoHire    bool        `json:"auto_hire"`
	Hired       *TeamMember `json:"hired,omitempty"`
}

// InterviewQuestion is a multiple choice screening question
type InterviewQuestion struct {
	Question      string   `json:"question" yaml:"question"`
	Options       []string `json:"options" yaml:"options"`
	CorrectAnswer int      `json:"correct_answer" yaml:"correct_answer"`
}

// RoleTemplate describes a hireable role
type RoleTemplate struct {
	Role         string              `json:"role" yaml:"role"`
	BaseSalary   int64               `json:"base_salary" yaml:"base_salary"`
	Productivity int                 `json:"productivity" yaml:"productivity"`
	Skills       []string            `json:"skills" yaml:"skills"`
	Strengths    []string            `json:"strengths" yaml:"strengths"`
	Weaknesses   []string            `json:"weaknesses" yaml:"weaknesses"`
	Questions    []InterviewQuestion `json:"questions,omitempty" yaml:"questions,omitempty"`
}
