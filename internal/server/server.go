// Package server exposes the HTTP JSON API: plan settings, clean-day logging,
// portfolio simulation, statement import and price history.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/RestaurantDev/ViceVault/internal/category"
	"github.com/RestaurantDev/ViceVault/internal/collector"
	"github.com/RestaurantDev/ViceVault/internal/notifier"
	"github.com/RestaurantDev/ViceVault/internal/recorder"
	"github.com/RestaurantDev/ViceVault/internal/statement"
	"github.com/RestaurantDev/ViceVault/internal/store"
	"github.com/RestaurantDev/ViceVault/internal/worker"
)

type Server struct {
	store     *store.Store
	collector *collector.Collector
	runner    *worker.Runner
	parser    *statement.Parser
	taxonomy  category.Taxonomy
	recorder  recorder.Recorder
	notifier  *notifier.TelegramNotifier // nil disables import notices
}

func New(st *store.Store, col *collector.Collector, runner *worker.Runner, taxonomy category.Taxonomy, rec recorder.Recorder, tn *notifier.TelegramNotifier) *Server {
	return &Server{
		store:     st,
		collector: col,
		runner:    runner,
		parser:    statement.New(),
		taxonomy:  taxonomy,
		recorder:  rec,
		notifier:  tn,
	}
}

// Router builds the chi router with all routes and middleware attached.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))

	r.Get("/health", s.Health)

	// API - plan settings
	r.Get("/api/settings", s.GetSettings)
	r.Put("/api/settings", s.UpdateSettings)

	// API - clean days
	r.Get("/api/cleandays", s.ListCleanDays)
	r.Post("/api/cleandays/{date}", s.MarkCleanDay)
	r.Delete("/api/cleandays/{date}", s.UnmarkCleanDay)

	// API - simulation
	r.Get("/api/portfolio", s.Portfolio)
	r.Post("/api/simulate", s.Simulate)

	// API - statements
	r.Post("/api/statements", s.ImportStatement)

	// API - prices
	r.Get("/api/prices/{symbol}", s.Prices)

	return r
}

func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
