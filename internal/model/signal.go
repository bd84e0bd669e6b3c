package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// BuyTier classifies a buy cluster by backtested conviction.
type BuyTier string

const (
	TierConvictionBuy BuyTier = "CONVICTION_BUY"
	TierStrongSignal  BuyTier = "STRONG_SIGNAL"
	TierMeanReversion BuyTier = "MEAN_REVERSION"
	TierWatch         BuyTier = "WATCH"
	TierAvoid         BuyTier = "AVOID"
)

// Conviction orders buy tiers; higher is stronger.
func (t BuyTier) Conviction() int {
	switch t {
	case TierConvictionBuy:
		return 4
	case TierStrongSignal:
		return 3
	case TierMeanReversion:
		return 2
	case TierWatch:
		return 1
	default:
		return 0
	}
}

// SellTier classifies an insider's aggregated sells.
type SellTier string

const (
	SellTier1    SellTier = "SELL_TIER_1" // officer+director dual role, sweet spot
	SellTier2    SellTier = "SELL_TIER_2" // officer xor director, sweet spot
	SellWatch    SellTier = "SELL_WATCH"  // outside the sweet spot, informational
	SellUnranked SellTier = ""            // below reporting threshold
)

// Priority orders sell tiers; lower is stronger (matches alert sort order).
func (t SellTier) Priority() int {
	switch t {
	case SellTier1:
		return 0
	case SellTier2:
		return 1
	case SellWatch:
		return 2
	default:
		return 3
	}
}

// CrossTier is the composite short-interest overlay on top-tier buy clusters.
// It is additive metadata: an alert carries both the buy tier and this.
type CrossTier string

const (
	CrossSignalTop       CrossTier = "CROSS_SIGNAL_TOP"
	CrossSignalSecondary CrossTier = "CROSS_SIGNAL_SECONDARY"
	NoCross              CrossTier = "NO_CROSS"
)

// SignalKind distinguishes cluster from sell alerts in signatures.
type SignalKind string

const (
	KindCluster SignalKind = "cluster"
	KindSell    SignalKind = "sell"
)

// Cluster is a time-windowed group of buy transactions by at least two
// distinct insiders at one issuer. It is a derived, recomputable view:
// identity is (issuer, window start, sorted accession ids), so reruns over
// the same transaction set reproduce the same cluster.
type Cluster struct {
	Issuer       string
	IssuerName   string
	WindowStart  time.Time
	WindowEnd    time.Time // date of the last contributing transaction
	Transactions []Transaction
	TotalValue   float64
	Insiders     int // distinct contributing insiders
	HasCSuite    bool
}

// AccessionNos returns the sorted accession ids of contributing transactions.
func (c *Cluster) AccessionNos() []string {
	accs := make([]string, 0, len(c.Transactions))
	for _, tx := range c.Transactions {
		accs = append(accs, tx.AccessionNo)
	}
	sort.Strings(accs)
	return accs
}

// Signature is the deduplication key for this cluster.
func (c *Cluster) Signature() string {
	return signature(KindCluster, c.Issuer, c.WindowStart, c.AccessionNos())
}

// SellEvent aggregates one insider's sell transactions over a window,
// carrying the role flags the sell tiers key on.
type SellEvent struct {
	Issuer       string
	IssuerName   string
	InsiderID    string
	InsiderName  string
	InsiderTitle string
	IsOfficer    bool
	IsDirector   bool
	WindowStart  time.Time
	WindowEnd    time.Time
	Transactions []Transaction
	TotalValue   float64
}

// AccessionNos returns the sorted accession ids of contributing transactions.
func (e *SellEvent) AccessionNos() []string {
	accs := make([]string, 0, len(e.Transactions))
	for _, tx := range e.Transactions {
		accs = append(accs, tx.AccessionNo)
	}
	sort.Strings(accs)
	return accs
}

// Signature is the deduplication key for this sell event.
func (e *SellEvent) Signature() string {
	return signature(KindSell, e.Issuer, e.WindowStart, e.AccessionNos())
}

func signature(kind SignalKind, issuer string, start time.Time, accs []string) string {
	return fmt.Sprintf("%s|%s|%s|%s", kind, issuer, start.Format("2006-01-02"), strings.Join(accs, ","))
}

// SignalStats is the supporting-evidence snapshot carried on an alert.
type SignalStats struct {
	Insiders     int
	Transactions int
	TotalValue   float64
	WindowStart  time.Time
	WindowEnd    time.Time
	PriceDropPct float64 // change over the mean-reversion lookback, 0 if unavailable
	DaysToCover  float64
	SIChangePct  float64
	MaxVolOI     float64
}

// Alert is the finished signal payload handed to the notification
// collaborator. Created exactly once per unique signature; never mutated.
type Alert struct {
	ID           string
	Issuer       string
	IssuerName   string
	Kind         SignalKind
	Signature    string
	BuyTier      BuyTier   // set for cluster alerts
	SellTier     SellTier  // set for sell alerts
	CrossTier    CrossTier // set for cluster alerts, NoCross otherwise
	Contaminated bool
	CallHeavy    bool
	Stats        SignalStats
	Details      string
	CreatedAt    time.Time
}
