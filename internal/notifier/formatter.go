package notifier

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"

	"InsiderSentinel/internal/model"
	"InsiderSentinel/internal/store"
)

var buyTierLabels = map[model.BuyTier]string{
	model.TierConvictionBuy: "CONVICTION BUY",
	model.TierStrongSignal:  "STRONG SIGNAL",
	model.TierMeanReversion: "MEAN REVERSION",
	model.TierWatch:         "WATCH",
	model.TierAvoid:         "AVOID",
}

var sellTierLabels = map[model.SellTier]string{
	model.SellTier1: "SELL TIER 1 — INSIDER DUMP",
	model.SellTier2: "SELL TIER 2 — NOTABLE SELL",
	model.SellWatch: "SELL WATCH",
}

var crossTierLabels = map[model.CrossTier]string{
	model.CrossSignalTop:       "CROSS-SIGNAL TOP (DTC + SI rising)",
	model.CrossSignalSecondary: "CROSS-SIGNAL SECONDARY (elevated DTC)",
}

// FormatRunReport renders one run's alerts and summary as a plain-text
// report. Sent even when zero alerts fired, so a silent day is visible.
func FormatRunReport(summary *model.RunSummary, alerts []model.Alert) (subject, body string) {
	var b strings.Builder

	switch {
	case len(alerts) > 0:
		subject = fmt.Sprintf("Insider signal alert: %d new signal(s)", len(alerts))
	default:
		subject = "Insider signal scan: no new signals"
	}

	b.WriteString("INSIDER SIGNAL SCAN\n")
	fmt.Fprintf(&b, "Run: %s\n\n", summary.StartedAt.Format("2006-01-02 15:04 UTC"))

	for i, a := range alerts {
		fmt.Fprintf(&b, "#%d %s — %s\n", i+1, a.Issuer, alertHeadline(&a))
		fmt.Fprintf(&b, "    %s\n", a.Details)
		fmt.Fprintf(&b, "    Window: %s to %s | Value: $%s\n",
			a.Stats.WindowStart.Format("2006-01-02"),
			a.Stats.WindowEnd.Format("2006-01-02"),
			humanize.CommafWithDigits(a.Stats.TotalValue, 0))
		if label, ok := crossTierLabels[a.CrossTier]; ok {
			fmt.Fprintf(&b, "    %s | DTC %.1f | SI change %+.1f%%\n", label, a.Stats.DaysToCover, a.Stats.SIChangePct)
		}
		if a.Contaminated {
			fmt.Fprintf(&b, "    WARNING: options volume contamination (max Vol/OI %.1fx", a.Stats.MaxVolOI)
			if a.CallHeavy {
				b.WriteString(", call-heavy")
			}
			b.WriteString(") — historically inverts insider alpha\n")
		}
		b.WriteString("\n")
	}

	b.WriteString("SUMMARY\n")
	fmt.Fprintf(&b, "  Transactions processed: %d (%d malformed)\n", summary.Processed, summary.Malformed)
	fmt.Fprintf(&b, "  Issuers: %d | Clusters: %d | Sell signals: %d\n", summary.Issuers, summary.Clusters, summary.SellSignals)
	fmt.Fprintf(&b, "  Contaminated: %d | Cross-confirmed: %d\n", summary.Contaminated, summary.Enriched)
	fmt.Fprintf(&b, "  Alerted: %d | Suppressed (already sent): %d\n", summary.Alerted, summary.Suppressed)

	if len(summary.Notes) > 0 {
		b.WriteString("\nDATA QUALITY NOTES\n")
		for _, note := range summary.Notes {
			fmt.Fprintf(&b, "  - %s\n", note)
		}
	}

	return subject, b.String()
}

func alertHeadline(a *model.Alert) string {
	if a.Kind == model.KindSell {
		return sellTierLabels[a.SellTier]
	}
	head := buyTierLabels[a.BuyTier]
	if a.Contaminated {
		head += " (CONTAMINATED)"
	}
	return head
}

// FormatDigest renders the weekly database digest.
func FormatDigest(st *store.Stats) (subject, body string) {
	subject = "Insider signal weekly digest"
	var b strings.Builder
	b.WriteString("DATABASE DIGEST\n")
	fmt.Fprintf(&b, "  Transactions: %s (%s buys, %s sells)\n",
		humanize.Comma(int64(st.Transactions)), humanize.Comma(int64(st.Buys)), humanize.Comma(int64(st.Sells)))
	fmt.Fprintf(&b, "  Issuers: %d | Insiders: %d\n", st.Issuers, st.Insiders)
	fmt.Fprintf(&b, "  Coverage: %s to %s\n", st.Earliest, st.Latest)
	fmt.Fprintf(&b, "  Alerts sent to date: %d\n", st.AlertsSent)
	return subject, b.String()
}
