// Package recorder keeps a queryable day-by-day history of a game.
package recorder

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/interfaces"
	"github.com/user/wealth-sprint/internal/types"
	_ "modernc.org/sqlite"
)

var (
	_ interfaces.Recorder = (*SQLiteRecorder)(nil)
	_ interfaces.Recorder = (*NoopRecorder)(nil)
)

// HistoryPoint is one recorded day
type HistoryPoint struct {
	Day         int             `json:"day"`
	BankBalance decimal.Decimal `json:"bank_balance"`
	NetWorth    decimal.Decimal `json:"net_worth"`
	Synergy     int             `json:"team_synergy"`
	Sentiment   float64         `json:"sentiment"`
}

// SQLiteRecorder persists tick history to a SQLite database.
type SQLiteRecorder struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteRecorder opens (or creates) the database and runs migrations.
func NewSQLiteRecorder(dbPath string) (*SQLiteRecorder, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	r := &SQLiteRecorder{db: db}
	if err := r.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return r, nil
}

func (r *SQLiteRecorder) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS day_snapshots (
			day           INTEGER PRIMARY KEY,
			bank_balance  TEXT NOT NULL,
			total_assets  TEXT NOT NULL,
			liabilities   TEXT NOT NULL,
			net_worth     TEXT NOT NULL,
			team_size     INTEGER,
			team_synergy  INTEGER,
			burnout_risk  INTEGER,
			sentiment     REAL,
			scenario_due  INTEGER,
			ended         INTEGER
		)`,

		`CREATE TABLE IF NOT EXISTS prices (
			day    INTEGER NOT NULL,
			code   TEXT NOT NULL,
			price  REAL NOT NULL,
			PRIMARY KEY (day, code)
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id           TEXT PRIMARY KEY,
			day          INTEGER NOT NULL,
			amount       TEXT NOT NULL,
			description  TEXT,
			from_account TEXT,
			to_account   TEXT,
			created_at   INTEGER
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_day ON transactions(day)`,
	}

	for _, s := range stmts {
		if _, err := r.db.Exec(s); err != nil {
			return fmt.Errorf("exec %q: %w", s[:40], err)
		}
	}
	return nil
}

// RecordTick stores the day's snapshot and closing prices. Re-recording a
// day replaces it.
func (r *SQLiteRecorder) RecordTick(ctx context.Context, report types.TickReport) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	snap := report.Snapshot
	_, err = tx.ExecContext(ctx, `INSERT OR REPLACE INTO day_snapshots
		(day, bank_balance, total_assets, liabilities, net_worth,
		 team_size, team_synergy, burnout_risk, sentiment, scenario_due, ended)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		report.Day, snap.BankBalance.String(), snap.TotalAssets.String(),
		snap.TotalLiabilities.String(), snap.NetWorth.String(),
		snap.TeamSize, snap.TeamSynergy, snap.BurnoutRisk, report.Sentiment,
		report.ScenarioDue, report.Ended)
	if err != nil {
		return fmt.Errorf("insert snapshot: %w", err)
	}

	codes := make([]string, 0, len(snap.Prices))
	for code := range snap.Prices {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	for _, code := range codes {
		if _, err := tx.ExecContext(ctx, `INSERT OR REPLACE INTO prices (day, code, price) VALUES (?, ?, ?)`,
			report.Day, code, snap.Prices[code]); err != nil {
			return fmt.Errorf("insert price %s: %w", code, err)
		}
	}

	return tx.Commit()
}

// RecordTransactions stores ledger entries, ignoring ones already stored
func (r *SQLiteRecorder) RecordTransactions(ctx context.Context, txs []types.Transaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	dbtx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer dbtx.Rollback()

	for _, t := range txs {
		if _, err := dbtx.ExecContext(ctx, `INSERT OR IGNORE INTO transactions
			(id, day, amount, description, from_account, to_account, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			t.ID, t.Day, t.Amount.String(), t.Description, t.FromAccount, t.ToAccount, t.Timestamp.Unix()); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}
	return dbtx.Commit()
}

// Reset deletes all recorded history so a new game starts from an empty record
func (r *SQLiteRecorder) Reset(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"day_snapshots", "prices", "transactions"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

// History returns the most recent recorded days, oldest first
func (r *SQLiteRecorder) History(ctx context.Context, limit int) ([]HistoryPoint, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT day, bank_balance, net_worth, team_synergy, sentiment
		FROM (SELECT * FROM day_snapshots ORDER BY day DESC LIMIT ?) ORDER BY day ASC`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var points []HistoryPoint
	for rows.Next() {
		var (
			p              HistoryPoint
			bank, netWorth string
		)
		if err := rows.Scan(&p.Day, &bank, &netWorth, &p.Synergy, &p.Sentiment); err != nil {
			return nil, fmt.Errorf("scan history: %w", err)
		}
		if p.BankBalance, err = decimal.NewFromString(bank); err != nil {
			return nil, fmt.Errorf("parse bank balance on day %d: %w", p.Day, err)
		}
		if p.NetWorth, err = decimal.NewFromString(netWorth); err != nil {
			return nil, fmt.Errorf("parse net worth on day %d: %w", p.Day, err)
		}
		points = append(points, p)
	}
	return points, rows.Err()
}

// PriceHistory returns recorded closing prices for one instrument, oldest first
func (r *SQLiteRecorder) PriceHistory(ctx context.Context, code string, limit int) ([]float64, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT price FROM
		(SELECT day, price FROM prices WHERE code = ? ORDER BY day DESC LIMIT ?) ORDER BY day ASC`, code, limit)
	if err != nil {
		return nil, fmt.Errorf("query prices: %w", err)
	}
	defer rows.Close()

	var prices []float64
	for rows.Next() {
		var p float64
		if err := rows.Scan(&p); err != nil {
			return nil, fmt.Errorf("scan price: %w", err)
		}
		prices = append(prices, p)
	}
	return prices, rows.Err()
}

// TransactionCount returns the number of stored transactions
func (r *SQLiteRecorder) TransactionCount(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

// Close closes the database
func (r *SQLiteRecorder) Close() error {
	return r.db.Close()
}
