// Package api exposes the simulation over HTTP.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"
	"github.com/user/wealth-sprint/internal/clock"
	"github.com/user/wealth-sprint/internal/interfaces"
	"github.com/user/wealth-sprint/internal/ledger"
	"github.com/user/wealth-sprint/internal/market"
	"github.com/user/wealth-sprint/internal/recorder"
	"github.com/user/wealth-sprint/internal/team"
	"github.com/user/wealth-sprint/internal/types"
	"go.uber.org/zap"
)

// Game is the command surface served over HTTP
type Game interface {
	interfaces.Simulation
	NewGame() types.Snapshot
	Finance() types.FinancialState
	Trend(code string) (string, error)
	MarketConditions() (types.MarketConditions, []types.MarketEvent)
	Quote(kind, rating string) (float64, error)
	RedeemFixedIncome(id string) (types.Snapshot, error)
	AddLiability(category string, amount decimal.Decimal, rate float64) (types.Snapshot, error)
	SetIncome(main, side, expenses decimal.Decimal) (types.Snapshot, error)
	Delist(code string) (types.Snapshot, error)
}

// HistoryReader serves recorded day history
type HistoryReader interface {
	History(ctx context.Context, limit int) ([]recorder.HistoryPoint, error)
	PriceHistory(ctx context.Context, code string, limit int) ([]float64, error)
}

const (
	defaultListLimit = 50

	// maxAdvanceDays bounds one advance request to a simulated year
	maxAdvanceDays = clock.DaysPerYear
)

type Server struct {
	log     *zap.Logger
	game    Game
	history HistoryReader
	mux     *chi.Mux
}

// New builds the router. history may be nil when no history database is
// configured.
func New(logger *zap.Logger, game Game, history HistoryReader) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		log:     logger,
		game:    game,
		history: history,
		mux:     chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) Handler() http.Handler {
	return s.mux
}

func (s *Server) routes() {
	r := s.mux
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	r.Route("/v1", func(r chi.Router) {
		r.Get("/snapshot", s.handleSnapshot)
		r.Post("/game", s.handleNewGame)
		r.Post("/advance", s.handleAdvance)
		r.Post("/save", s.handleSave)
		r.Get("/history", s.handleHistory)

		r.Get("/market", s.handleMarket)
		r.Get("/instruments", s.handleInstruments)
		r.Get("/instruments/{code}", s.handleInstrumentDetail)
		r.Delete("/instruments/{code}", s.handleDelist)
		r.Post("/orders", s.handleOrder)
		r.Get("/holdings", s.handleHoldings)

		r.Get("/finance", s.handleFinance)
		r.Put("/income", s.handleSetIncome)
		r.Get("/transactions", s.handleTransactions)
		r.Get("/tax", s.handleTax)
		r.Post("/loans", s.handleTakeLoan)
		r.Post("/liabilities", s.handleAddLiability)
		r.Post("/liabilities/{id}/payments", s.handlePayLiability)
		r.Post("/fixed-income", s.handleOpenFixedIncome)
		r.Delete("/fixed-income/{id}", s.handleRedeemFixedIncome)

		r.Get("/team", s.handleTeam)
		r.Post("/team/{id}/promote", s.handlePromote)
		r.Post("/team/{id}/bonus", s.handleBonus)
		r.Delete("/team/{id}", s.handleTerminate)

		r.Get("/applicants", s.handleApplicants)
		r.Post("/applicants", s.handleGenerateApplicant)
		r.Post("/applicants/{id}/interview", s.handleInterview)
		r.Post("/applicants/{id}/hire", s.handleHire)
		r.Delete("/applicants/{id}", s.handleReject)
	})
}

func (s *Server) handleSnapshot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.game.Snapshot())
}

func (s *Server) handleNewGame(w http.ResponseWriter, _ *http.Request) {
	snap := s.game.NewGame()
	s.log.Info("New game started via API")
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleAdvance(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Days int `json:"days"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	if in.Days <= 0 {
		in.Days = 1
	}
	if in.Days > maxAdvanceDays {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("days must be at most %d", maxAdvanceDays))
		return
	}

	var reports []types.TickReport
	for i := 0; i < in.Days; i++ {
		report, err := s.game.AdvanceDay(r.Context())
		if err != nil {
			if len(reports) > 0 && errors.Is(err, types.ErrTerminalState) {
				break
			}
			s.writeDomainError(w, err)
			return
		}
		reports = append(reports, report)
		if report.Ended {
			break
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{"reports": reports})
}

func (s *Server) handleSave(w http.ResponseWriter, _ *http.Request) {
	if err := s.game.Save(); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, "history is not recorded")
		return
	}
	points, err := s.history.History(r.Context(), queryInt(r, "limit", defaultListLimit))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"history": points})
}

func (s *Server) handleMarket(w http.ResponseWriter, _ *http.Request) {
	conditions, events := s.game.MarketConditions()
	quotes := map[string]float64{}
	for _, kind := range []string{ledger.KindFixedDeposit, ledger.KindBond} {
		rate, err := s.game.Quote(kind, "")
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		quotes[kind] = rate
	}
	corporate := make(map[string]float64, len(market.CreditRatings))
	for _, rating := range market.CreditRatings {
		rate, err := s.game.Quote(ledger.KindBond, rating)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		corporate[rating] = rate
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"conditions":      conditions,
		"events":          events,
		"quotes":          quotes,
		"corporate_bonds": corporate,
	})
}

func (s *Server) handleInstruments(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"instruments": s.game.Instruments()})
}

func (s *Server) handleInstrumentDetail(w http.ResponseWriter, r *http.Request) {
	code := strings.ToUpper(chi.URLParam(r, "code"))
	trend, err := s.game.Trend(code)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	var inst types.Instrument
	for _, candidate := range s.game.Instruments() {
		if candidate.Code == code {
			inst = candidate
			break
		}
	}
	out := map[string]any{"instrument": inst, "trend": trend}
	if s.history != nil {
		prices, err := s.history.PriceHistory(r.Context(), code, queryInt(r, "limit", defaultListLimit))
		if err != nil {
			s.log.Warn("Failed to read price history", zap.String("code", code), zap.Error(err))
		} else {
			out["recorded_prices"] = prices
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleDelist(w http.ResponseWriter, r *http.Request) {
	snap, err := s.game.Delist(strings.ToUpper(chi.URLParam(r, "code")))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleOrder(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Code     string `json:"code"`
		Side     string `json:"side"`
		Quantity int64  `json:"quantity"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))
	var (
		snap types.Snapshot
		err  error
	)
	switch strings.ToLower(in.Side) {
	case "buy":
		snap, err = s.game.Buy(code, in.Quantity)
	case "sell":
		snap, err = s.game.Sell(code, in.Quantity)
	default:
		writeError(w, http.StatusBadRequest, "side must be buy or sell")
		return
	}
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleHoldings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"holdings": s.game.Holdings()})
}

func (s *Server) handleFinance(w http.ResponseWriter, _ *http.Request) {
	fin := s.game.Finance()
	fin.TransactionHistory = nil
	writeJSON(w, http.StatusOK, fin)
}

func (s *Server) handleSetIncome(w http.ResponseWriter, r *http.Request) {
	var in struct {
		MainIncome      decimal.Decimal `json:"main_income"`
		SideIncome      decimal.Decimal `json:"side_income"`
		MonthlyExpenses decimal.Decimal `json:"monthly_expenses"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := s.game.SetIncome(in.MainIncome, in.SideIncome, in.MonthlyExpenses)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": s.game.Transactions(queryInt(r, "limit", defaultListLimit)),
	})
}

func (s *Server) handleTax(w http.ResponseWriter, r *http.Request) {
	income, err := decimal.NewFromString(r.URL.Query().Get("income"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "income must be a number")
		return
	}
	deductions := decimal.Zero
	if raw := r.URL.Query().Get("deductions"); raw != "" {
		if deductions, err = decimal.NewFromString(raw); err != nil {
			writeError(w, http.StatusBadRequest, "deductions must be a number")
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"income":     income,
		"deductions": deductions,
		"tax":        ledger.CalculateTax(income, deductions),
	})
}

func (s *Server) handleTakeLoan(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Category   string          `json:"category"`
		Principal  decimal.Decimal `json:"principal"`
		Rate       float64         `json:"rate"`
		TermMonths int             `json:"term_months"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := s.game.TakeLoan(in.Category, in.Principal, in.Rate, in.TermMonths)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleAddLiability(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Category string          `json:"category"`
		Amount   decimal.Decimal `json:"amount"`
		Rate     float64         `json:"rate"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := s.game.AddLiability(in.Category, in.Amount, in.Rate)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handlePayLiability(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := s.game.PayLiability(chi.URLParam(r, "id"), in.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleOpenFixedIncome(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Kind   string          `json:"kind"`
		Amount decimal.Decimal `json:"amount"`
		Rate   float64         `json:"rate"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := s.game.OpenFixedIncome(in.Kind, in.Amount, in.Rate)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleRedeemFixedIncome(w http.ResponseWriter, r *http.Request) {
	snap, err := s.game.RedeemFixedIncome(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTeam(w http.ResponseWriter, _ *http.Request) {
	snap := s.game.Snapshot()
	writeJSON(w, http.StatusOK, map[string]any{
		"members":      memberViews(s.game.Members()),
		"synergy":      snap.TeamSynergy,
		"burnout_risk": snap.BurnoutRisk,
	})
}

func (s *Server) handlePromote(w http.ResponseWriter, r *http.Request) {
	snap, err := s.game.Promote(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleBonus(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	snap, err := s.game.GiveBonus(chi.URLParam(r, "id"), in.Amount)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleTerminate(w http.ResponseWriter, r *http.Request) {
	snap, err := s.game.Terminate(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleApplicants(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"applicants": s.game.Applicants()})
}

func (s *Server) handleGenerateApplicant(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Role string `json:"role"`
	}
	if r.ContentLength > 0 {
		if err := decodeJSON(r, &in); err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
	}
	applicant, err := s.game.GenerateApplicant(in.Role)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, applicant)
}

func (s *Server) handleInterview(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Answers []int `json:"answers"`
	}
	if err := decodeJSON(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	result, err := s.game.Interview(chi.URLParam(r, "id"), in.Answers)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	out := struct {
		types.InterviewResult
		Hired *memberView `json:"hired,omitempty"`
	}{InterviewResult: result}
	if result.Hired != nil {
		view := newMemberView(*result.Hired)
		out.Hired = &view
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleHire(w http.ResponseWriter, r *http.Request) {
	snap, err := s.game.Hire(chi.URLParam(r, "id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, snap)
}

func (s *Server) handleReject(w http.ResponseWriter, r *http.Request) {
	if err := s.game.Reject(chi.URLParam(r, "id")); err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// memberView adds the derived role to a team member
type memberView struct {
	types.TeamMember
	Seniority string `json:"seniority"`
	Role      string `json:"role"`
}

func newMemberView(m types.TeamMember) memberView {
	role := team.RoleOf(m)
	return memberView{TeamMember: m, Seniority: role.Seniority.String(), Role: role.String()}
}

func memberViews(members []types.TeamMember) []memberView {
	out := make([]memberView, 0, len(members))
	for _, m := range members {
		out = append(out, newMemberView(m))
	}
	return out
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	kind := types.ErrorKind(err)
	status := http.StatusInternalServerError
	switch kind {
	case types.KindInsufficientFunds:
		status = http.StatusUnprocessableEntity
	case types.KindInvalidQuantity:
		status = http.StatusBadRequest
	case types.KindUnknownEntity:
		status = http.StatusNotFound
	case types.KindTerminalState:
		status = http.StatusConflict
	}
	if status == http.StatusInternalServerError {
		s.log.Error("Request failed", zap.String("kind", kind), zap.Error(err))
	}
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(err.Error()), "kind": kind})
}

func decodeJSON(r *http.Request, out any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(out); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": strings.TrimSpace(message)})
}

func queryInt(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return fallback
	}
	return n
}
