package notifier

import (
	"strings"
	"testing"
	"time"

	"InsiderSentinel/internal/model"
	"InsiderSentinel/internal/store"
)

func reportAlert() model.Alert {
	start := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	return model.Alert{
		ID:        "id-1",
		Issuer:    "ACME",
		Kind:      model.KindCluster,
		Signature: "cluster|ACME|2026-03-02|a-1,a-2",
		BuyTier:   model.TierConvictionBuy,
		Stats: model.SignalStats{
			Insiders:    3,
			TotalValue:  6_000_000,
			WindowStart: start,
			WindowEnd:   start.AddDate(0, 0, 9),
		},
		Details: "3 insiders, $6000000 total",
	}
}

func TestFormatRunReport_WithAlerts(t *testing.T) {
	summary := &model.RunSummary{Processed: 3, Issuers: 1, Clusters: 1, Alerted: 1}
	subject, body := FormatRunReport(summary, []model.Alert{reportAlert()})

	if !strings.Contains(subject, "1 new signal") {
		t.Errorf("subject should carry the alert count, got %q", subject)
	}
	for _, want := range []string{"ACME", "CONVICTION BUY", "6,000,000", "2026-03-02", "2026-03-11"} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q:\n%s", want, body)
		}
	}
	if strings.Contains(body, "WARNING") {
		t.Error("clean alert must not carry a contamination warning")
	}
}

func TestFormatRunReport_ContaminationWarning(t *testing.T) {
	a := reportAlert()
	a.Contaminated = true
	a.CallHeavy = true
	a.Stats.MaxVolOI = 8.0

	_, body := FormatRunReport(&model.RunSummary{Alerted: 1}, []model.Alert{a})
	if !strings.Contains(body, "CONVICTION BUY (CONTAMINATED)") {
		t.Errorf("headline should flag contamination without dropping the tier:\n%s", body)
	}
	if !strings.Contains(body, "8.0x") || !strings.Contains(body, "call-heavy") {
		t.Errorf("warning line should carry the max ratio and call skew:\n%s", body)
	}
}

func TestFormatRunReport_CrossSignalLine(t *testing.T) {
	a := reportAlert()
	a.CrossTier = model.CrossSignalTop
	a.Stats.DaysToCover = 6.2
	a.Stats.SIChangePct = 12.5

	_, body := FormatRunReport(&model.RunSummary{Alerted: 1}, []model.Alert{a})
	if !strings.Contains(body, "CROSS-SIGNAL TOP") {
		t.Errorf("expected cross-signal line:\n%s", body)
	}
	if !strings.Contains(body, "DTC 6.2") || !strings.Contains(body, "+12.5%") {
		t.Errorf("cross-signal line should carry the readings:\n%s", body)
	}
}

func TestFormatRunReport_QuietDay(t *testing.T) {
	summary := &model.RunSummary{
		Processed: 40,
		Issuers:   12,
		Notes:     []string{"ACME: no options data, contamination check skipped"},
	}
	subject, body := FormatRunReport(summary, nil)
	if !strings.Contains(subject, "no new signals") {
		t.Errorf("quiet-day subject should say so, got %q", subject)
	}
	if !strings.Contains(body, "DATA QUALITY NOTES") || !strings.Contains(body, "no options data") {
		t.Errorf("notes must survive into the report:\n%s", body)
	}
}

func TestFormatDigest(t *testing.T) {
	st := &store.Stats{
		Transactions: 12500,
		Buys:         4000,
		Sells:        8500,
		Issuers:      310,
		Insiders:     990,
		Earliest:     "2025-09-01",
		Latest:       "2026-03-02",
		AlertsSent:   42,
	}
	_, body := FormatDigest(st)
	for _, want := range []string{"12,500", "4,000", "8,500", "310", "2025-09-01", "42"} {
		if !strings.Contains(body, want) {
			t.Errorf("digest missing %q:\n%s", want, body)
		}
	}
}
