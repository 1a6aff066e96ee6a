package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/streak"
)

func (s *Server) GetSettings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.store.Settings())
}

func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var settings model.Settings
	if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.store.UpdateSettings(settings); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, s.store.Settings())
}

func (s *Server) ListCleanDays(w http.ResponseWriter, r *http.Request) {
	days := s.store.CleanDays()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"clean_days": days,
		"count":      len(days),
		"streak":     streak.Evaluate(days, time.Now().UTC()),
	})
}

func (s *Server) MarkCleanDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	added, err := s.store.MarkClean(date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":  date,
		"added": added,
	})
}

func (s *Server) UnmarkCleanDay(w http.ResponseWriter, r *http.Request) {
	date := chi.URLParam(r, "date")
	removed, err := s.store.UnmarkClean(date)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"date":    date,
		"removed": removed,
	})
}
