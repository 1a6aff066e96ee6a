package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/RestaurantDev/ViceVault/internal/category"
	"github.com/RestaurantDev/ViceVault/internal/collector"
	"github.com/RestaurantDev/ViceVault/internal/config"
	"github.com/RestaurantDev/ViceVault/internal/model"
	"github.com/RestaurantDev/ViceVault/internal/notifier"
	"github.com/RestaurantDev/ViceVault/internal/recorder"
	"github.com/RestaurantDev/ViceVault/internal/scheduler"
	"github.com/RestaurantDev/ViceVault/internal/server"
	"github.com/RestaurantDev/ViceVault/internal/store"
	"github.com/RestaurantDev/ViceVault/internal/worker"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] ViceVault starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	// Init store
	st, err := store.Open(cfg.Store.StateFile, cfg.Settings())
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.Prices.Source {
	case "stooq":
		fetcher = collector.NewStooqFetcher(cfg.Proxy)
	case "synthetic":
		fetcher = &collector.SyntheticFetcher{}
	case "mock":
		fetcher = &collector.MockFetcher{}
	default:
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] price source: %s", fetcher.Name())

	// Init collector; the store doubles as the price cache
	col := collector.NewCollector(fetcher, &collector.SyntheticFetcher{}, st, cfg.Prices.LookbackYears)

	// Init category taxonomy
	taxonomy := category.Default()
	if cfg.Categories.File != "" {
		taxonomy, err = category.Load(cfg.Categories.File)
		if err != nil {
			log.Fatalf("[FATAL] load categories: %v", err)
		}
		log.Printf("[INFO] loaded %d categories from %s", len(taxonomy.Names()), cfg.Categories.File)
	}

	// Init Telegram notifier (optional)
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		log.Println("[INFO] Telegram notifications enabled")
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Every settings or clean-day change lands in the history database
	st.Subscribe(func(state model.State) {
		if err := rec.RecordStateChange(&recorder.StateChange{
			Symbol:         state.Settings.Symbol,
			Cadence:        string(state.Settings.Cadence),
			Amount:         state.Settings.AmountPerPurchase,
			StartDate:      state.Settings.StartDate,
			CleanDaysCount: len(state.CleanDays),
		}); err != nil {
			log.Printf("[ERROR] record state change: %v", err)
		}
	})

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init simulation workers
	runner := worker.New(2)
	runner.Start()
	defer runner.Stop()

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, st, tn, rec)
	if err := sched.RegisterAll(cfg.Schedule.RefreshCron, cfg.Schedule.ReportCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: send the weekly report immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, sending weekly report now")
		go sched.RunReportNow()
	}

	// HTTP server
	api := server.New(st, col, runner, taxonomy, rec, tn)
	httpSrv := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: api.Router(),
	}
	go func() {
		log.Printf("[INFO] HTTP server listening on %s", cfg.Server.Addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("[FATAL] HTTP server: %v", err)
		}
	}()

	log.Println("[INFO] ViceVault is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[ERROR] HTTP shutdown: %v", err)
	}
	cancel()
	log.Println("[INFO] ViceVault stopped")
}
