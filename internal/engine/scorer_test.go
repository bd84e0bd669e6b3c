package engine

import (
	"testing"

	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/model"
)

func testCluster(csuite bool, value float64) *model.Cluster {
	return &model.Cluster{
		Issuer:      "ACME",
		WindowStart: testBase,
		WindowEnd:   testBase.AddDate(0, 0, 10),
		Insiders:    2,
		TotalValue:  value,
		HasCSuite:   csuite,
	}
}

func testSellEvent(officer, director bool, value float64) *model.SellEvent {
	return &model.SellEvent{
		Issuer:      "ACME",
		InsiderID:   "insider-1",
		IsOfficer:   officer,
		IsDirector:  director,
		WindowStart: testBase,
		WindowEnd:   testBase.AddDate(0, 0, 5),
		TotalValue:  value,
	}
}

func TestScoreCluster_TierTable(t *testing.T) {
	scorer := NewScorer(config.DefaultThresholds())
	tests := []struct {
		name   string
		csuite bool
		value  float64
		want   model.BuyTier
	}{
		{"csuite at conviction threshold", true, 5_000_000, model.TierConvictionBuy},
		{"csuite above conviction threshold", true, 8_000_000, model.TierConvictionBuy},
		{"csuite at strong threshold", true, 500_000, model.TierStrongSignal},
		{"csuite below strong threshold", true, 499_999, model.TierWatch},
		{"no csuite small", false, 49_999, model.TierAvoid},
		{"no csuite at small threshold", false, 50_000, model.TierWatch},
		{"no csuite large", false, 10_000_000, model.TierWatch},
	}
	for _, tt := range tests {
		tier, _, _ := scorer.ScoreCluster(testCluster(tt.csuite, tt.value), nil)
		if tier != tt.want {
			t.Errorf("%s: expected %s, got %s", tt.name, tt.want, tier)
		}
	}
}

func TestScoreCluster_Monotonic(t *testing.T) {
	// Holding C-suite presence fixed, more dollars never lowers conviction.
	scorer := NewScorer(config.DefaultThresholds())
	for _, csuite := range []bool{true, false} {
		prev := -1
		for _, value := range []float64{10_000, 60_000, 400_000, 600_000, 2_000_000, 5_000_000, 20_000_000} {
			tier, _, _ := scorer.ScoreCluster(testCluster(csuite, value), nil)
			if tier.Conviction() < prev {
				t.Errorf("csuite=%v: conviction dropped at $%.0f (%s)", csuite, value, tier)
			}
			prev = tier.Conviction()
		}
	}
}

func TestScoreCluster_MeanReversion(t *testing.T) {
	scorer := NewScorer(config.DefaultThresholds())

	down := []model.PriceBar{
		{Date: testBase.AddDate(0, 0, -40), Close: 100},
		{Date: testBase.AddDate(0, 0, -1), Close: 85},
	}
	tier, stats, _ := scorer.ScoreCluster(testCluster(true, 600_000), down)
	if tier != model.TierMeanReversion {
		t.Errorf("expected MEAN_REVERSION with -15%% lookback, got %s", tier)
	}
	if stats.PriceDropPct >= 0 {
		t.Errorf("expected negative price change in stats, got %.1f", stats.PriceDropPct)
	}

	flat := []model.PriceBar{
		{Date: testBase.AddDate(0, 0, -40), Close: 100},
		{Date: testBase.AddDate(0, 0, -1), Close: 99},
	}
	tier, _, _ = scorer.ScoreCluster(testCluster(true, 600_000), flat)
	if tier != model.TierStrongSignal {
		t.Errorf("expected STRONG_SIGNAL with flat prices, got %s", tier)
	}
}

func TestScoreCluster_MissingPricesDowngrades(t *testing.T) {
	// Missing lookback data skips the mean-reversion check rather than
	// failing the scoring pass.
	scorer := NewScorer(config.DefaultThresholds())
	tier, _, notes := scorer.ScoreCluster(testCluster(true, 600_000), nil)
	if tier != model.TierStrongSignal {
		t.Errorf("expected STRONG_SIGNAL fallback, got %s", tier)
	}
	if len(notes) != 1 {
		t.Errorf("expected a data-quality note for missing prices, got %d", len(notes))
	}
}

func TestScoreSell_TierTable(t *testing.T) {
	scorer := NewScorer(config.DefaultThresholds())
	tests := []struct {
		name     string
		officer  bool
		director bool
		value    float64
		want     model.SellTier
	}{
		{"dual role sweet spot", true, true, 1_000_000, model.SellTier1},
		{"dual role at lower bound", true, true, 250_000, model.SellTier1},
		{"dual role at upper bound", true, true, 5_000_000, model.SellTier1},
		{"officer only sweet spot", true, false, 300_000, model.SellTier2},
		{"director only sweet spot", false, true, 300_000, model.SellTier2},
		{"director only at lower bound", false, true, 250_000, model.SellTier2},
		{"officer only below sweet spot", true, false, 100_000, model.SellWatch},
		{"dual role above sweet spot", true, true, 6_000_000, model.SellWatch},
		{"no role large", false, false, 6_000_000, model.SellWatch},
		{"below watch floor", true, true, 40_000, model.SellUnranked},
		{"no role sweet spot", false, false, 300_000, model.SellUnranked},
	}
	for _, tt := range tests {
		tier, _ := scorer.ScoreSell(testSellEvent(tt.officer, tt.director, tt.value))
		if tier != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, tier)
		}
	}
}
