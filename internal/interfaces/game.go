package interfaces

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/types"
)

// RandomSource is the single random stream consumed by the engines
type RandomSource interface {
	Float64() float64
	Intn(n int) int
}

// Recorder stores per-day history outside the save document
type Recorder interface {
	RecordTick(ctx context.Context, report types.TickReport) error
	RecordTransactions(ctx context.Context, txs []types.Transaction) error
	Reset(ctx context.Context) error
	Close() error
}

// Simulation defines the command surface of the engine
type Simulation interface {
	AdvanceDay(ctx context.Context) (types.TickReport, error)
	Snapshot() types.Snapshot
	Instruments() []types.Instrument
	Holdings() []types.Holding
	Transactions(limit int) []types.Transaction
	Buy(code string, quantity int64) (types.Snapshot, error)
	Sell(code string, quantity int64) (types.Snapshot, error)
	Members() []types.TeamMember
	Applicants() []types.JobApplicant
	GenerateApplicant(role string) (types.JobApplicant, error)
	Interview(applicantID string, answers []int) (types.InterviewResult, error)
	Hire(applicantID string) (types.Snapshot, error)
	Reject(applicantID string) error
	Promote(memberID string) (types.Snapshot, error)
	GiveBonus(memberID string, amount decimal.Decimal) (types.Snapshot, error)
	Terminate(memberID string) (types.Snapshot, error)
	PayLiability(liabilityID string, amount decimal.Decimal) (types.Snapshot, error)
	TakeLoan(category string, principal decimal.Decimal, rate float64, termMonths int) (types.Snapshot, error)
	OpenFixedIncome(kind string, amount decimal.Decimal, rate float64) (types.Snapshot, error)
	Export() *types.GameState
	Save() error
}
