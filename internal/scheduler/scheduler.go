package scheduler

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"InsiderSentinel/internal/collector"
	"InsiderSentinel/internal/engine"
	"InsiderSentinel/internal/model"
	"InsiderSentinel/internal/notifier"
	"InsiderSentinel/internal/store"
)

// Scheduler manages the cron tasks: the daily signal scan and the weekly
// database digest.
type Scheduler struct {
	Cron         *cron.Cron
	Store        store.Store
	Collector    *collector.Collector
	Engine       *engine.Engine
	Notifier     notifier.Notifier
	LookbackDays int

	now func() time.Time // injectable for tests
}

// NewScheduler creates a new Scheduler.
func NewScheduler(st store.Store, col *collector.Collector, eng *engine.Engine, n notifier.Notifier, lookbackDays int) *Scheduler {
	return &Scheduler{
		Cron:         cron.New(cron.WithSeconds()),
		Store:        st,
		Collector:    col,
		Engine:       eng,
		Notifier:     n,
		LookbackDays: lookbackDays,
		now:          time.Now,
	}
}

// RegisterAll registers the scan and digest tasks.
func (s *Scheduler) RegisterAll(scanCron, digestCron string) error {
	if _, err := s.Cron.AddFunc(scanCron, s.scheduledScan); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	if _, err := s.Cron.AddFunc(digestCron, s.digestTask); err != nil {
		return fmt.Errorf("register digest task: %w", err)
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

// RunScanNow executes the scan task immediately (manual trigger /
// RUN_ON_START). Unlike the scheduled scan it runs on weekends too.
func (s *Scheduler) RunScanNow() {
	s.scanTask()
}

// scheduledScan is the cron entry point. No new filings on weekends, so the
// scheduled scan skips them; a manual trigger is not second-guessed.
func (s *Scheduler) scheduledScan() {
	if wd := s.now().UTC().Weekday(); wd == time.Saturday || wd == time.Sunday {
		log.Println("[INFO] weekend, skipping scheduled scan")
		return
	}
	s.scanTask()
}

func (s *Scheduler) scanTask() {
	now := s.now().UTC()

	log.Println("[INFO] running signal scan")
	since := now.AddDate(0, 0, -s.LookbackDays)

	txs, err := s.Store.RecentTransactions(since)
	if err != nil {
		log.Printf("[ERROR] load transactions: %v", err)
		return
	}
	if len(txs) == 0 {
		log.Println("[INFO] no recent transactions, nothing to scan")
		return
	}

	issuers := distinctIssuers(txs)
	md := s.Collector.Collect(issuers, since, now)

	summary, alerts, err := s.Engine.Run(txs, md)
	if err != nil {
		log.Printf("[ERROR] engine run aborted: %v", err)
		return
	}

	log.Printf("[INFO] scan done: %d processed, %d clusters, %d sell signals, %d contaminated, %d enriched, %d alerted, %d suppressed",
		summary.Processed, summary.Clusters, summary.SellSignals,
		summary.Contaminated, summary.Enriched, summary.Alerted, summary.Suppressed)
	for _, note := range summary.Notes {
		log.Printf("[WARN] data quality: %s", note)
	}

	subject, body := notifier.FormatRunReport(summary, alerts)
	s.trySend(subject, body)
}

func (s *Scheduler) digestTask() {
	log.Println("[INFO] running weekly digest")
	stats, err := s.Store.Stats()
	if err != nil {
		log.Printf("[ERROR] load stats: %v", err)
		return
	}
	subject, body := notifier.FormatDigest(stats)
	s.trySend(subject, body)
}

func (s *Scheduler) trySend(subject, body string) {
	if err := s.Notifier.Send(subject, body); err != nil {
		log.Printf("[ERROR] send report: %v", err)
	}
}

func distinctIssuers(txs []model.Transaction) []string {
	seen := make(map[string]bool)
	var issuers []string
	for _, tx := range txs {
		if tx.Issuer == "" || seen[tx.Issuer] {
			continue
		}
		seen[tx.Issuer] = true
		issuers = append(issuers, tx.Issuer)
	}
	return issuers
}
