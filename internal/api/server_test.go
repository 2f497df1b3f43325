package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/user/wealth-sprint/config"
	"github.com/user/wealth-sprint/internal/game"
	"github.com/user/wealth-sprint/internal/recorder"
	"github.com/user/wealth-sprint/internal/team"
	"github.com/user/wealth-sprint/internal/types"
)

func newTestServer(t *testing.T, history HistoryReader) (*Server, *game.GameManager) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Engine.Seed = 7
	cfg.Storage.SavePath = filepath.Join(t.TempDir(), "game_state.json")
	gm := game.NewGameManager(cfg, game.GameData{})
	return New(nil, gm, history), gm
}

func do(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func TestHealthz(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true}`, rec.Body.String())
}

func TestOrders(t *testing.T) {
	// Setup
	s, gm := newTestServer(t, nil)

	// Test case 1: buy debits the bank at the current price
	rec := do(t, s, http.MethodPost, "/v1/orders", `{"code":"reliance","side":"buy","quantity":10}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var snap types.Snapshot
	decodeBody(t, rec, &snap)
	assert.Equal(t, "471500", snap.BankBalance.String())
	assert.Equal(t, "500000", snap.NetWorth.String())
	require.Len(t, gm.Holdings(), 1)

	// Test case 2: unknown side
	rec = do(t, s, http.MethodPost, "/v1/orders", `{"code":"RELIANCE","side":"short","quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Test case 3: unknown fields are rejected
	rec = do(t, s, http.MethodPost, "/v1/orders", `{"code":"RELIANCE","side":"buy","qty":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Test case 4: insufficient funds maps to 422 with a kind
	rec = do(t, s, http.MethodPost, "/v1/orders", `{"code":"TCS","side":"buy","quantity":100000}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var body map[string]string
	decodeBody(t, rec, &body)
	assert.Equal(t, types.KindInsufficientFunds, body["kind"])

	// Test case 5: selling more than held
	rec = do(t, s, http.MethodPost, "/v1/orders", `{"code":"RELIANCE","side":"sell","quantity":11}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Test case 6: unknown instrument
	rec = do(t, s, http.MethodPost, "/v1/orders", `{"code":"NOPE","side":"buy","quantity":1}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Test case 7: selling a listed instrument that is not held
	rec = do(t, s, http.MethodPost, "/v1/orders", `{"code":"INFY","side":"sell","quantity":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	decodeBody(t, rec, &body)
	assert.Equal(t, types.KindInvalidQuantity, body["kind"])
}

func TestAdvance(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/advance", `{"days":28}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var out struct {
		Reports []types.TickReport `json:"reports"`
	}
	decodeBody(t, rec, &out)
	require.Len(t, out.Reports, 28)
	assert.Equal(t, 28, out.Reports[27].Day)
	assert.True(t, out.Reports[27].NewMonth)

	rec = do(t, s, http.MethodPost, "/v1/advance", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &out)
	require.Len(t, out.Reports, 1)
	assert.Equal(t, 29, out.Reports[0].Day)
}

func TestAdvanceRejectsOversizedRequests(t *testing.T) {
	s, gm := newTestServer(t, nil)

	for _, body := range []string{`{"days":9000000000000}`, `{"days":337}`} {
		rec := do(t, s, http.MethodPost, "/v1/advance", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
	assert.Equal(t, 0, gm.Snapshot().Day)

	rec := do(t, s, http.MethodPost, "/v1/advance", `{"days":336}`)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestHiringFlow(t *testing.T) {
	// Setup
	s, gm := newTestServer(t, nil)

	// Test case 1: generate an applicant for a known role
	rec := do(t, s, http.MethodPost, "/v1/applicants", `{"role":"Accountant"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var applicant types.JobApplicant
	decodeBody(t, rec, &applicant)
	assert.Equal(t, "Accountant", applicant.BaseRole)

	// Test case 2: unknown role
	rec = do(t, s, http.MethodPost, "/v1/applicants", `{"role":"Astronaut"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Test case 3: interview with all wrong answers does not hire
	rec = do(t, s, http.MethodPost, "/v1/applicants/"+applicant.ID+"/interview", `{"answers":[]}`)
	require.Equal(t, http.StatusOK, rec.Code)
	var result types.InterviewResult
	decodeBody(t, rec, &result)
	assert.Equal(t, 0, result.Score)
	assert.False(t, result.AutoHire)
	assert.Nil(t, result.Hired)

	// Test case 4: manual hire
	rec = do(t, s, http.MethodPost, "/v1/applicants/"+applicant.ID+"/hire", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	members := gm.Members()
	require.Len(t, members, 1)

	rec = do(t, s, http.MethodGet, "/v1/team", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var roster struct {
		Members []struct {
			ID        string `json:"id"`
			Seniority string `json:"seniority"`
			Role      string `json:"role"`
		} `json:"members"`
	}
	decodeBody(t, rec, &roster)
	require.Len(t, roster.Members, 1)
	wantRole := team.RoleOf(members[0])
	assert.Equal(t, wantRole.Seniority.String(), roster.Members[0].Seniority)
	assert.Equal(t, wantRole.String(), roster.Members[0].Role)

	// Test case 5: promote, bonus and terminate
	rec = do(t, s, http.MethodPost, "/v1/team/"+members[0].ID+"/promote", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, "/v1/team/"+members[0].ID+"/bonus", `{"amount":"5000"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(t, s, http.MethodPost, "/v1/team/"+members[0].ID+"/bonus", `{"amount":"99999999"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	rec = do(t, s, http.MethodDelete, "/v1/team/"+members[0].ID, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, gm.Members())

	// Test case 6: rejecting a missing applicant
	rec = do(t, s, http.MethodDelete, "/v1/applicants/missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestLoansAndLiabilities(t *testing.T) {
	s, gm := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/loans", `{"category":"car","principal":"120000","rate":12,"term_months":12}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var snap types.Snapshot
	decodeBody(t, rec, &snap)
	assert.Equal(t, "620000", snap.BankBalance.String())
	assert.Equal(t, "120000", snap.TotalLiabilities.String())

	liabilities := gm.Finance().Liabilities
	require.Len(t, liabilities, 1)

	rec = do(t, s, http.MethodPost, "/v1/liabilities/"+liabilities[0].ID+"/payments", `{"amount":"20000"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &snap)
	assert.Equal(t, "100000", snap.TotalLiabilities.String())

	rec = do(t, s, http.MethodPost, "/v1/liabilities/unknown/payments", `{"amount":"1"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, s, http.MethodPost, "/v1/liabilities", `{"category":"credit_card","amount":"15000","rate":36}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	decodeBody(t, rec, &snap)
	assert.Equal(t, "115000", snap.TotalLiabilities.String())

	rec = do(t, s, http.MethodPost, "/v1/loans", `{"category":"home","principal":"500000","rate":12,"term_months":100000}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestFixedIncomeRoutes(t *testing.T) {
	s, gm := newTestServer(t, nil)

	rec := do(t, s, http.MethodPost, "/v1/fixed-income", `{"kind":"fixed_deposit","amount":"100000","rate":7}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var snap types.Snapshot
	decodeBody(t, rec, &snap)
	assert.Equal(t, "400000", snap.BankBalance.String())

	positions := gm.Export().FixedIncome
	require.Len(t, positions, 1)

	rec = do(t, s, http.MethodDelete, "/v1/fixed-income/"+positions[0].ID, "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &snap)
	assert.Equal(t, "500000", snap.BankBalance.String())

	// A zero rate takes the quoted market rate
	rec = do(t, s, http.MethodPost, "/v1/fixed-income", `{"kind":"bond","amount":"1000"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	quoted, err := gm.Quote("bond", "")
	require.NoError(t, err)
	positions = gm.Export().FixedIncome
	require.Len(t, positions, 1)
	assert.Equal(t, quoted, positions[0].Rate)
}

func TestMarketRoute(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/v1/market", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var out struct {
		Conditions     types.MarketConditions `json:"conditions"`
		Quotes         map[string]float64     `json:"quotes"`
		CorporateBonds map[string]float64     `json:"corporate_bonds"`
	}
	decodeBody(t, rec, &out)
	assert.Equal(t, 6.5, out.Conditions.InterestRate)
	assert.Equal(t, types.VolatilityMedium, out.Conditions.Volatility)
	assert.Equal(t, 5.85, out.Quotes["fixed_deposit"])
	assert.Equal(t, 6.95, out.Quotes["bond"])
	assert.Len(t, out.CorporateBonds, 7)
	assert.Greater(t, out.CorporateBonds["CCC"], out.CorporateBonds["AAA"])
}

func TestTax(t *testing.T) {
	s, _ := newTestServer(t, nil)

	tests := []struct {
		query string
		code  int
		tax   string
	}{
		{"income=200000", http.StatusOK, "0"},
		{"income=400000", http.StatusOK, "7500"},
		{"income=600000&deductions=100000", http.StatusOK, "12500"},
		{"income=abc", http.StatusBadRequest, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, "/v1/tax?"+tt.query, "")
			require.Equal(t, tt.code, rec.Code)
			if tt.tax == "" {
				return
			}
			var out map[string]string
			decodeBody(t, rec, &out)
			assert.Equal(t, tt.tax, out["tax"])
		})
	}
}

func TestTerminalStateMapsToConflict(t *testing.T) {
	s, gm := newTestServer(t, nil)
	state := gm.Export()
	state.Clock.IsEnded = true
	require.NoError(t, gm.Import(state))

	rec := do(t, s, http.MethodPost, "/v1/advance", "")
	assert.Equal(t, http.StatusConflict, rec.Code)
	rec = do(t, s, http.MethodPost, "/v1/orders", `{"code":"INFY","side":"buy","quantity":1}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestHistoryRoutes(t *testing.T) {
	// Test case 1: no recorder configured
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/v1/history", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Test case 2: recorded days are served
	history, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	defer history.Close()

	s, gm := newTestServer(t, history)
	gm.SetRecorder(history)
	for i := 0; i < 3; i++ {
		_, err := gm.AdvanceDay(context.Background())
		require.NoError(t, err)
	}

	rec = do(t, s, http.MethodGet, "/v1/history?limit=2", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var out struct {
		History []recorder.HistoryPoint `json:"history"`
	}
	decodeBody(t, rec, &out)
	require.Len(t, out.History, 2)
	assert.Equal(t, 3, out.History[1].Day)

	rec = do(t, s, http.MethodGet, "/v1/instruments/infy", "")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Trend          string    `json:"trend"`
		RecordedPrices []float64 `json:"recorded_prices"`
	}
	decodeBody(t, rec, &detail)
	assert.Contains(t, []string{"up", "down", "stable"}, detail.Trend)
	assert.Len(t, detail.RecordedPrices, 3)

	// Test case 3: a new game does not inherit the old game's days
	rec = do(t, s, http.MethodPost, "/v1/game", "")
	require.Equal(t, http.StatusCreated, rec.Code)
	_, err = gm.AdvanceDay(context.Background())
	require.NoError(t, err)

	rec = do(t, s, http.MethodGet, "/v1/history", "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeBody(t, rec, &out)
	require.Len(t, out.History, 1)
	assert.Equal(t, 1, out.History[0].Day)
}
