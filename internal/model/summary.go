package model

import "time"

// RunSummary reports what a full engine pass did, even when zero alerts
// were emitted.
type RunSummary struct {
	StartedAt    time.Time
	FinishedAt   time.Time
	Processed    int // transactions considered
	Malformed    int // excluded for missing price/shares/date
	Issuers      int
	Clusters     int
	SellSignals  int
	Contaminated int
	Enriched     int // clusters with a cross-signal confirmation
	Alerted      int
	Suppressed   int // candidates whose signature was already alerted
	Notes        []string
}
