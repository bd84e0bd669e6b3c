package engine

import (
	"fmt"

	"InsiderSentinel/internal/calculator"
	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/model"
)

// Scorer classifies clusters and sell events against the injected threshold
// table. It is a pure function of its inputs: tiers are recomputed on every
// run, never stored as mutable state.
type Scorer struct {
	th config.Thresholds
}

// NewScorer creates a Scorer with the given thresholds.
func NewScorer(th config.Thresholds) *Scorer {
	return &Scorer{th: th}
}

// ScoreCluster maps a buy cluster to its tier, evaluated highest tier first,
// first match wins. Dollar comparisons are inclusive at the lower bound.
// A missing price lookback downgrades the MeanReversion check to
// StrongSignal instead of failing the pass; the miss is reported as a note.
func (s *Scorer) ScoreCluster(c *model.Cluster, prices []model.PriceBar) (model.BuyTier, model.SignalStats, []string) {
	var notes []string
	stats := model.SignalStats{
		Insiders:     c.Insiders,
		Transactions: len(c.Transactions),
		TotalValue:   c.TotalValue,
		WindowStart:  c.WindowStart,
		WindowEnd:    c.WindowEnd,
	}

	if c.HasCSuite && c.TotalValue >= s.th.ConvictionBuyValue {
		return model.TierConvictionBuy, stats, notes
	}

	if c.HasCSuite && c.TotalValue >= s.th.StrongSignalValue {
		drop, err := calculator.LookbackChangePct(prices, c.WindowStart, s.th.PriceLookbackDays)
		if err != nil {
			notes = append(notes, fmt.Sprintf("%s: price lookback unavailable, mean-reversion check skipped: %v", c.Issuer, err))
			return model.TierStrongSignal, stats, notes
		}
		stats.PriceDropPct = drop
		if drop < -s.th.MeanReversionDropPct {
			return model.TierMeanReversion, stats, notes
		}
		return model.TierStrongSignal, stats, notes
	}

	if !c.HasCSuite && c.TotalValue < s.th.SmallClusterValue {
		return model.TierAvoid, stats, notes
	}

	return model.TierWatch, stats, notes
}

// ScoreSell maps an insider's aggregated sells to a sell tier, first match
// wins. The $250K-$5M sweet spot is a closed interval: both boundaries count
// toward the higher tier. Values in [watch-min, sweet-min) or above the
// sweet spot are SellWatch regardless of role (likely scheduled 10b5-1
// activity, informational only). Everything else is unranked and not
// reported.
func (s *Scorer) ScoreSell(e *model.SellEvent) (model.SellTier, model.SignalStats) {
	stats := model.SignalStats{
		Insiders:     1,
		Transactions: len(e.Transactions),
		TotalValue:   e.TotalValue,
		WindowStart:  e.WindowStart,
		WindowEnd:    e.WindowEnd,
	}

	dualRole := e.IsOfficer && e.IsDirector
	singleRole := e.IsOfficer != e.IsDirector
	sweetSpot := e.TotalValue >= s.th.SellSweetSpotMin && e.TotalValue <= s.th.SellSweetSpotMax

	switch {
	case dualRole && sweetSpot:
		return model.SellTier1, stats
	case singleRole && sweetSpot:
		return model.SellTier2, stats
	case e.TotalValue >= s.th.SellWatchMin && e.TotalValue < s.th.SellSweetSpotMin:
		return model.SellWatch, stats
	case e.TotalValue >= s.th.SellSweetSpotMax:
		return model.SellWatch, stats
	default:
		return model.SellUnranked, stats
	}
}
