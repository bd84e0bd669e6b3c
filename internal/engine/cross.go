package engine

import (
	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/model"
)

// EnrichCrossSignal overlays short-interest trend data on a scored buy
// cluster. Only clusters classified StrongSignal or better are eligible:
// days-to-cover above the threshold with short interest also rising past its
// threshold is the highest-conviction composite; elevated days-to-cover
// alone is secondary. A nil snapshot degrades to NoCross.
func EnrichCrossSignal(tier model.BuyTier, si *model.ShortInterestSnapshot, th config.Thresholds) model.CrossTier {
	if tier.Conviction() < model.TierStrongSignal.Conviction() {
		return model.NoCross
	}
	if si == nil {
		return model.NoCross
	}
	switch {
	case si.DaysToCover > th.DTCThreshold && si.ChangePct > th.SIChangePct:
		return model.CrossSignalTop
	case si.DaysToCover > th.DTCThreshold:
		return model.CrossSignalSecondary
	default:
		return model.NoCross
	}
}
