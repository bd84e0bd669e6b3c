package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"InsiderSentinel/internal/collector"
	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/engine"
	"InsiderSentinel/internal/notifier"
	"InsiderSentinel/internal/scheduler"
	"InsiderSentinel/internal/store"
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	log.Println("[INFO] InsiderSentinel starting...")

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

	// Init store. The alert history guards the at-most-once invariant, so a
	// broken store is fatal; there is no noop fallback here. Dry runs still
	// read the real store but never write to the alert history.
	var st store.Store
	st, err = store.NewSQLiteStore(cfg.Database.SQLitePath)
	if err != nil {
		log.Fatalf("[FATAL] open store: %v", err)
	}
	defer st.Close()
	if cfg.Scan.DryRun {
		log.Println("[INFO] dry run: alerts are reported but not recorded as sent")
	}

	// Init market data fetcher
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewAPIFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey)
	} else {
		log.Println("[WARN] no data source configured, ancillary checks degrade to safe defaults")
		fetcher = &collector.MockFetcher{}
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())

	col := collector.NewCollector(fetcher, cfg.Thresholds.PriceLookbackDays, cfg.Thresholds.ContaminationWindowDays)

	// Init engine
	eng := engine.New(cfg.Thresholds, st, cfg.Scan.Workers, cfg.Scan.DryRun)

	// Init notifier
	var n notifier.Notifier
	if cfg.Scan.DryRun {
		n = notifier.NewLogNotifier()
	} else {
		n = notifier.NewEmailNotifier(cfg.Email.SMTPHost, cfg.Email.SMTPPort, cfg.Email.From, cfg.Email.Password, cfg.Email.To)
	}

	// Init scheduler
	sched := scheduler.NewScheduler(st, col, eng, n, cfg.Scan.LookbackDays)
	if err := sched.RegisterAll(cfg.Schedule.ScanCron, cfg.Schedule.DigestCron); err != nil {
		log.Fatalf("[FATAL] register cron tasks: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing scan now")
		go sched.RunScanNow()
	}

	log.Println("[INFO] InsiderSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
}
