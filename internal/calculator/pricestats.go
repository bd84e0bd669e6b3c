package calculator

import (
	"fmt"
	"sort"
	"time"

	"InsiderSentinel/internal/model"
)

// LookbackChangePct computes the percent change of an issuer's close at asOf
// versus its close lookbackDays earlier, using the nearest prior bar for each
// anchor. Returns an error when the history does not cover the lookback.
func LookbackChangePct(bars []model.PriceBar, asOf time.Time, lookbackDays int) (float64, error) {
	if len(bars) == 0 {
		return 0, fmt.Errorf("no price bars")
	}
	sorted := make([]model.PriceBar, len(bars))
	copy(sorted, bars)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	current, ok := closeAtOrBefore(sorted, asOf)
	if !ok {
		return 0, fmt.Errorf("no bar at or before %s", asOf.Format("2006-01-02"))
	}
	anchor := asOf.AddDate(0, 0, -lookbackDays)
	prior, ok := closeAtOrBefore(sorted, anchor)
	if !ok {
		return 0, fmt.Errorf("history does not reach back %d days from %s", lookbackDays, asOf.Format("2006-01-02"))
	}
	if prior <= 0 {
		return 0, fmt.Errorf("non-positive prior close")
	}
	return (current - prior) / prior * 100, nil
}

// closeAtOrBefore returns the close of the latest bar dated at or before t.
func closeAtOrBefore(sorted []model.PriceBar, t time.Time) (float64, bool) {
	idx := sort.Search(len(sorted), func(i int) bool { return sorted[i].Date.After(t) })
	if idx == 0 {
		return 0, false
	}
	return sorted[idx-1].Close, true
}
