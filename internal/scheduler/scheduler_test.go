package scheduler

import (
	"testing"
	"time"

	"InsiderSentinel/internal/collector"
	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/engine"
	"InsiderSentinel/internal/model"
	"InsiderSentinel/internal/store"
)

type captureNotifier struct {
	sent []string
}

func (c *captureNotifier) Send(subject, body string) error {
	c.sent = append(c.sent, subject)
	return nil
}

func newTestScheduler(t *testing.T, at time.Time) (*Scheduler, *captureNotifier) {
	t.Helper()
	st := store.NewMemoryStore()
	tx := model.Transaction{
		AccessionNo: "a-1",
		Issuer:      "ACME",
		InsiderID:   "cik-1",
		Type:        model.TxBuy,
		Date:        at.AddDate(0, 0, -2),
		Shares:      100,
		Price:       10,
	}
	if _, err := st.InsertTransactions([]model.Transaction{tx}); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	n := &captureNotifier{}
	s := NewScheduler(
		st,
		collector.NewCollector(&collector.MockFetcher{}, 30, 28),
		engine.New(config.DefaultThresholds(), st, 1, false),
		n,
		14,
	)
	s.now = func() time.Time { return at }
	return s, n
}

func TestScheduledScanSkipsWeekend(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 22, 15, 0, 0, time.UTC)
	s, n := newTestScheduler(t, saturday)

	s.scheduledScan()
	if len(n.sent) != 0 {
		t.Errorf("scheduled scan must skip weekends, sent %d report(s)", len(n.sent))
	}
}

func TestScheduledScanRunsOnWeekday(t *testing.T) {
	monday := time.Date(2026, 3, 9, 22, 15, 0, 0, time.UTC)
	s, n := newTestScheduler(t, monday)

	s.scheduledScan()
	if len(n.sent) != 1 {
		t.Errorf("weekday scheduled scan should send a report, sent %d", len(n.sent))
	}
}

func TestRunScanNowIgnoresWeekend(t *testing.T) {
	saturday := time.Date(2026, 3, 7, 10, 0, 0, 0, time.UTC)
	s, n := newTestScheduler(t, saturday)

	s.RunScanNow()
	if len(n.sent) != 1 {
		t.Errorf("manual trigger must run regardless of weekday, sent %d report(s)", len(n.sent))
	}
}
