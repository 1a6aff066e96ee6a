package scheduler

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	"github.com/RestaurantDev/ViceVault/internal/calculator"
	"github.com/RestaurantDev/ViceVault/internal/collector"
	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/notifier"
	"github.com/RestaurantDev/ViceVault/internal/recorder"
	"github.com/RestaurantDev/ViceVault/internal/simulator"
	"github.com/RestaurantDev/ViceVault/internal/store"
	"github.com/RestaurantDev/ViceVault/internal/streak"
)

// Scheduler manages all cron tasks.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Store     *store.Store
	Notifier  *notifier.TelegramNotifier // nil disables outbound messages
	Recorder  recorder.Recorder
	Ctx       context.Context
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, st *store.Store, tn *notifier.TelegramNotifier, rec recorder.Recorder) *Scheduler {
	return &Scheduler{
		Cron:      cron.New(cron.WithSeconds()),
		Collector: col,
		Store:     st,
		Notifier:  tn,
		Recorder:  rec,
		Ctx:       ctx,
	}
}

// RegisterAll registers the price refresh and weekly report tasks.
func (s *Scheduler) RegisterAll(refreshCron, reportCron string) error {
	if _, err := s.Cron.AddFunc(refreshCron, s.refreshTask); err != nil {
		return fmt.Errorf("register refresh task: %w", err)
	}
	if _, err := s.Cron.AddFunc(reportCron, s.reportTask); err != nil {
		return fmt.Errorf("register report task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	log.Println("[INFO] scheduler stopped")
}

// RunReportNow executes the weekly report task immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunReportNow() {
	s.reportTask()
}

func (s *Scheduler) refreshTask() {
	symbol := s.Store.Settings().Symbol
	log.Printf("[INFO] refreshing price history for %s", symbol)
	if err := s.Collector.Refresh(symbol); err != nil {
		log.Printf("[ERROR] price refresh: %v", err)
		s.trySend(notifier.FormatRefreshFailure(symbol, err))
		return
	}
	log.Printf("[INFO] price history for %s refreshed", symbol)
}

func (s *Scheduler) reportTask() {
	log.Println("[INFO] running weekly report")
	settings := s.Store.Settings()

	start, err := model.ParseDay(settings.StartDate)
	if err != nil {
		log.Printf("[ERROR] weekly report: bad start date %q: %v", settings.StartDate, err)
		return
	}
	prices := s.Collector.History(settings.Symbol)

	started := time.Now()
	ghost, err := simulator.Ghost(prices, start, settings.Cadence, settings.AmountPerPurchase, s.Store.CleanDays())
	if err != nil {
		log.Printf("[ERROR] ghost simulation: %v", err)
		return
	}
	ghostElapsed := time.Since(started)

	started = time.Now()
	potential, err := simulator.Potential(prices, start, settings.Cadence, settings.AmountPerPurchase)
	if err != nil {
		log.Printf("[ERROR] potential simulation: %v", err)
		return
	}
	potentialElapsed := time.Since(started)

	var priceStats *calculator.Stats
	if stats, err := calculator.Compute(prices); err == nil {
		priceStats = &stats
	}
	cleanStats := streak.Evaluate(s.Store.CleanDays(), time.Now().UTC())

	s.trySend(notifier.FormatWeeklyReport(settings, ghost.Summary, potential.Summary, cleanStats, priceStats))

	s.recordRun(settings, "ghost", ghost, ghostElapsed)
	s.recordRun(settings, "potential", potential, potentialElapsed)
}

func (s *Scheduler) recordRun(settings model.Settings, kind string, res simulator.Result, elapsed time.Duration) {
	if err := s.Recorder.RecordSimulation(&recorder.SimulationEvent{
		RequestID: uuid.NewString(),
		Kind:      kind,
		Symbol:    settings.Symbol,
		Cadence:   string(settings.Cadence),
		Amount:    settings.AmountPerPurchase,
		StartDate: settings.StartDate,
		Points:    len(res.Portfolio),
		Summary:   res.Summary,
		Elapsed:   elapsed,
	}); err != nil {
		log.Printf("[ERROR] record %s simulation: %v", kind, err)
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}
