package server

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/RestaurantDev/ViceVault/internal/calculator"
	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/recorder"
	"github.com/RestaurantDev/ViceVault/internal/simulator"
	"github.com/RestaurantDev/ViceVault/internal/worker"
)

// pointView flattens a portfolio point for the wire: dates as ISO calendar
// days, not RFC3339 timestamps.
type pointView struct {
	Date           string  `json:"date"`
	CashSpent      float64 `json:"cash_spent"`
	PortfolioValue float64 `json:"portfolio_value"`
	SharesOwned    float64 `json:"shares_owned"`
}

type priceView struct {
	Date  string  `json:"date"`
	Close float64 `json:"close"`
}

type portfolioResponse struct {
	RequestID   string                 `json:"request_id"`
	Kind        string                 `json:"kind"`
	Granularity string                 `json:"granularity"`
	Stale       bool                   `json:"stale"`
	Summary     model.PortfolioSummary `json:"summary"`
	Portfolio   []pointView            `json:"portfolio"`
}

// Portfolio reconstructs the portfolio for the stored plan settings.
func (s *Server) Portfolio(w http.ResponseWriter, r *http.Request) {
	kind, ok := parseKind(r.URL.Query().Get("kind"))
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be ghost or potential")
		return
	}
	granularity, ok := parseGranularity(r.URL.Query().Get("granularity"))
	if !ok {
		writeError(w, http.StatusBadRequest, "granularity must be daily or monthly")
		return
	}

	settings := s.store.Settings()
	start, err := model.ParseDay(settings.StartDate)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "stored start date is invalid")
		return
	}

	policy := model.PotentialPolicy()
	if kind == string(model.PolicyGhost) {
		policy = model.GhostPolicy(s.store.CleanDays())
	}

	in := model.SimulationInput{
		Prices:            s.collector.History(settings.Symbol),
		StartDate:         start,
		Cadence:           settings.Cadence,
		AmountPerPurchase: settings.AmountPerPurchase,
		Policy:            policy,
	}
	s.runSimulation(w, r, "portfolio:"+kind, kind, granularity, settings.Symbol, in, false)
}

type simulateRequest struct {
	Symbol            string      `json:"symbol"`
	Cadence           string      `json:"cadence"`
	AmountPerPurchase float64     `json:"amount_per_purchase"`
	StartDate         string      `json:"start_date"`
	Kind              string      `json:"kind"`
	CleanDays         []string    `json:"clean_days,omitempty"`
	Prices            []priceView `json:"prices,omitempty"`
	Granularity       string      `json:"granularity,omitempty"`
}

// Simulate runs a caller-specified what-if simulation. Prices may be supplied
// inline; otherwise history for the requested symbol is used.
func (s *Server) Simulate(w http.ResponseWriter, r *http.Request) {
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	kind, ok := parseKind(req.Kind)
	if !ok {
		writeError(w, http.StatusBadRequest, "kind must be ghost or potential")
		return
	}
	granularity, ok := parseGranularity(req.Granularity)
	if !ok {
		writeError(w, http.StatusBadRequest, "granularity must be daily or monthly")
		return
	}
	cadence, err := model.ParseCadence(req.Cadence)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	start, err := model.ParseDay(req.StartDate)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_date must be a YYYY-MM-DD date")
		return
	}

	var prices []model.PricePoint
	if len(req.Prices) > 0 {
		for _, p := range req.Prices {
			d, err := model.ParseDay(p.Date)
			if err != nil {
				writeError(w, http.StatusBadRequest, "prices dates must be YYYY-MM-DD")
				return
			}
			prices = append(prices, model.PricePoint{Date: d, Close: p.Close})
		}
	} else {
		if req.Symbol == "" {
			writeError(w, http.StatusBadRequest, "symbol is required when prices are not supplied")
			return
		}
		prices = s.collector.History(req.Symbol)
	}

	policy := model.PotentialPolicy()
	if kind == string(model.PolicyGhost) {
		policy = model.GhostPolicy(req.CleanDays)
	}

	in := model.SimulationInput{
		Prices:            prices,
		StartDate:         start,
		Cadence:           cadence,
		AmountPerPurchase: req.AmountPerPurchase,
		Policy:            policy,
	}
	s.runSimulation(w, r, "simulate:"+req.Symbol+":"+kind, kind, granularity, req.Symbol, in, true)
}

// runSimulation ships the input through the worker, records the run and writes
// the response. clientInput controls whether simulation errors map to 400.
func (s *Server) runSimulation(w http.ResponseWriter, r *http.Request, key, kind, granularity, symbol string, in model.SimulationInput, clientInput bool) {
	ticket, err := s.runner.Submit(key, in)
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	}
	res, err := worker.Wait(r.Context(), ticket)
	if err != nil {
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			writeError(w, http.StatusServiceUnavailable, "simulation did not finish in time")
		case clientInput:
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			writeError(w, http.StatusInternalServerError, err.Error())
		}
		return
	}

	out := res.Output
	if err := s.recorder.RecordSimulation(&recorder.SimulationEvent{
		RequestID: ticket.ID,
		Kind:      kind,
		Symbol:    symbol,
		Cadence:   string(in.Cadence),
		Amount:    in.AmountPerPurchase,
		StartDate: model.FormatDay(in.StartDate),
		Points:    len(out.Portfolio),
		Summary:   out.Summary,
		Elapsed:   res.Elapsed,
	}); err != nil {
		log.Printf("[ERROR] record simulation: %v", err)
	}

	points := out.Portfolio
	if granularity == "monthly" {
		points = simulator.AggregateByMonth(points)
	}
	views := make([]pointView, 0, len(points))
	for _, p := range points {
		views = append(views, pointView{
			Date:           model.FormatDay(p.Date),
			CashSpent:      p.CashSpent,
			PortfolioValue: p.PortfolioValue,
			SharesOwned:    p.SharesOwned,
		})
	}

	writeJSON(w, http.StatusOK, portfolioResponse{
		RequestID:   ticket.ID,
		Kind:        kind,
		Granularity: granularity,
		Stale:       res.Stale,
		Summary:     out.Summary,
		Portfolio:   views,
	})
}

// Prices serves the daily close history used by simulations.
func (s *Server) Prices(w http.ResponseWriter, r *http.Request) {
	symbol := chi.URLParam(r, "symbol")
	series := s.collector.History(symbol)

	views := make([]priceView, 0, len(series))
	for _, p := range series {
		views = append(views, priceView{Date: model.FormatDay(p.Date), Close: p.Close})
	}
	resp := map[string]interface{}{
		"symbol": symbol,
		"count":  len(views),
		"points": views,
	}
	if stats, err := calculator.Compute(series); err == nil {
		resp["stats"] = stats
	}
	writeJSON(w, http.StatusOK, resp)
}

func parseKind(s string) (string, bool) {
	switch s {
	case "":
		return string(model.PolicyGhost), true
	case string(model.PolicyGhost), string(model.PolicyPotential):
		return s, true
	}
	return "", false
}

func parseGranularity(s string) (string, bool) {
	switch s {
	case "":
		return "daily", true
	case "daily", "monthly":
		return s, true
	}
	return "", false
}
