package engine

import (
	"testing"

	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/model"
)

func sellTx(acc, insider string, officer, director bool, day int, shares, price float64) model.Transaction {
	return model.Transaction{
		AccessionNo: acc,
		Issuer:      "ACME",
		InsiderID:   insider,
		InsiderName: insider,
		IsOfficer:   officer,
		IsDirector:  director,
		Type:        model.TxSell,
		Date:        testBase.AddDate(0, 0, day),
		Shares:      shares,
		Price:       price,
	}
}

func TestDetectSellEvents_SingleInsiderQualifies(t *testing.T) {
	txs := []model.Transaction{
		sellTx("s-1", "insider-1", false, true, 0, 1000, 100),
	}
	events, _ := DetectSellEvents(txs, config.DefaultThresholds())
	if len(events) != 1 {
		t.Fatalf("expected 1 sell event, got %d", len(events))
	}
	if !events[0].IsDirector || events[0].IsOfficer {
		t.Errorf("expected director-only role flags, got officer=%v director=%v", events[0].IsOfficer, events[0].IsDirector)
	}
}

func TestDetectSellEvents_GroupedPerInsider(t *testing.T) {
	// Two insiders selling in the same window stay separate events.
	txs := []model.Transaction{
		sellTx("s-1", "insider-1", true, false, 0, 1000, 100),
		sellTx("s-2", "insider-2", false, true, 2, 1000, 100),
		sellTx("s-3", "insider-1", true, false, 5, 500, 100),
	}
	events, _ := DetectSellEvents(txs, config.DefaultThresholds())
	if len(events) != 2 {
		t.Fatalf("expected 2 sell events, got %d", len(events))
	}
	var first *model.SellEvent
	for i := range events {
		if events[i].InsiderID == "insider-1" {
			first = &events[i]
		}
	}
	if first == nil {
		t.Fatal("missing event for insider-1")
	}
	if first.TotalValue != 150000 {
		t.Errorf("expected insider-1 aggregate $150000, got %.0f", first.TotalValue)
	}
	if len(first.Transactions) != 2 {
		t.Errorf("expected 2 sales aggregated for insider-1, got %d", len(first.Transactions))
	}
}

func TestDetectSellEvents_WindowSplit(t *testing.T) {
	txs := []model.Transaction{
		sellTx("s-1", "insider-1", true, false, 0, 1000, 100),
		sellTx("s-2", "insider-1", true, false, 20, 1000, 100),
	}
	events, _ := DetectSellEvents(txs, config.DefaultThresholds())
	if len(events) != 2 {
		t.Fatalf("expected sells 20 days apart to split into 2 events, got %d", len(events))
	}
}
