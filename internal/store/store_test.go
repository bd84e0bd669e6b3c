package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"InsiderSentinel/internal/model"
)

var testDate = time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)

func sampleTx(acc, insider, ticker string, txType model.TxType, day int) model.Transaction {
	return model.Transaction{
		AccessionNo: acc,
		Issuer:      ticker,
		IssuerName:  ticker + " Inc",
		InsiderID:   insider,
		InsiderName: insider,
		IsOfficer:   true,
		Type:        txType,
		Date:        testDate.AddDate(0, 0, day),
		Shares:      1000,
		Price:       25,
		FiledAt:     testDate.AddDate(0, 0, day+1),
	}
}

func sampleAlert(sig string) *model.Alert {
	return &model.Alert{
		ID:        uuid.NewString(),
		Issuer:    "ACME",
		Kind:      model.KindCluster,
		Signature: sig,
		BuyTier:   model.TierStrongSignal,
		Stats:     model.SignalStats{Insiders: 2, TotalValue: 600_000},
		Details:   "2 insiders, $600000 total",
		CreatedAt: testDate,
	}
}

// Both implementations must honor the same contract; run the suite twice.
func openStores(t *testing.T) map[string]Store {
	t.Helper()
	sq, err := NewSQLiteStore(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("open sqlite store: %v", err)
	}
	t.Cleanup(func() { sq.Close() })
	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sq,
	}
}

func TestStore_TransactionIdempotence(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			txs := []model.Transaction{
				sampleTx("a-1", "cik-1", "ACME", model.TxBuy, 0),
				sampleTx("a-2", "cik-2", "ACME", model.TxSell, 1),
			}
			n, err := st.InsertTransactions(txs)
			if err != nil {
				t.Fatalf("insert: %v", err)
			}
			if n != 2 {
				t.Errorf("expected 2 new rows, got %d", n)
			}

			n, err = st.InsertTransactions(txs)
			if err != nil {
				t.Fatalf("re-insert: %v", err)
			}
			if n != 0 {
				t.Errorf("re-ingesting the same filings must insert nothing, got %d", n)
			}
		})
	}
}

func TestStore_RecentTransactionsCutoff(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			txs := []model.Transaction{
				sampleTx("a-1", "cik-1", "ACME", model.TxBuy, 0),
				sampleTx("a-2", "cik-2", "ACME", model.TxBuy, 10),
			}
			if _, err := st.InsertTransactions(txs); err != nil {
				t.Fatalf("insert: %v", err)
			}

			got, err := st.RecentTransactions(testDate.AddDate(0, 0, 5))
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != 1 || got[0].AccessionNo != "a-2" {
				t.Fatalf("expected only the recent filing, got %+v", got)
			}
			if !got[0].IsOfficer || got[0].Type != model.TxBuy {
				t.Errorf("role and type must round-trip, got %+v", got[0])
			}
			if !got[0].Date.Equal(testDate.AddDate(0, 0, 10)) {
				t.Errorf("date must round-trip, got %s", got[0].Date)
			}
		})
	}
}

func TestStore_AlertSignatureUnique(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			first, err := st.InsertAlertIfAbsent(sampleAlert("cluster|ACME|2026-03-02|a-1,a-2"))
			if err != nil {
				t.Fatalf("insert alert: %v", err)
			}
			if !first {
				t.Error("first insert must report new")
			}

			// Same signature under a fresh ID is still a duplicate.
			again, err := st.InsertAlertIfAbsent(sampleAlert("cluster|ACME|2026-03-02|a-1,a-2"))
			if err != nil {
				t.Fatalf("duplicate insert: %v", err)
			}
			if again {
				t.Error("duplicate signature must be suppressed")
			}

			other, err := st.InsertAlertIfAbsent(sampleAlert("cluster|ACME|2026-03-16|a-9"))
			if err != nil {
				t.Fatalf("insert other alert: %v", err)
			}
			if !other {
				t.Error("distinct signature must insert")
			}

			sent, err := st.AlertSent("cluster|ACME|2026-03-02|a-1,a-2")
			if err != nil {
				t.Fatalf("alert sent lookup: %v", err)
			}
			if !sent {
				t.Error("recorded signature must report sent")
			}
			sent, err = st.AlertSent("cluster|ZETA|2026-03-02|z-1")
			if err != nil {
				t.Fatalf("alert sent lookup: %v", err)
			}
			if sent {
				t.Error("unknown signature must not report sent")
			}
		})
	}
}

func TestStore_Stats(t *testing.T) {
	for name, st := range openStores(t) {
		t.Run(name, func(t *testing.T) {
			txs := []model.Transaction{
				sampleTx("a-1", "cik-1", "ACME", model.TxBuy, 0),
				sampleTx("a-2", "cik-2", "ACME", model.TxSell, 3),
				sampleTx("a-3", "cik-1", "ZETA", model.TxBuy, 7),
			}
			if _, err := st.InsertTransactions(txs); err != nil {
				t.Fatalf("insert: %v", err)
			}
			if _, err := st.InsertAlertIfAbsent(sampleAlert("cluster|ACME|2026-03-02|a-1")); err != nil {
				t.Fatalf("insert alert: %v", err)
			}

			stats, err := st.Stats()
			if err != nil {
				t.Fatalf("stats: %v", err)
			}
			if stats.Transactions != 3 || stats.Buys != 2 || stats.Sells != 1 {
				t.Errorf("wrong counts: %+v", stats)
			}
			if stats.Issuers != 2 || stats.Insiders != 2 {
				t.Errorf("wrong distinct counts: %+v", stats)
			}
			if stats.AlertsSent != 1 {
				t.Errorf("expected 1 alert sent, got %d", stats.AlertsSent)
			}
			if stats.Earliest != "2026-03-02" || stats.Latest != "2026-03-09" {
				t.Errorf("wrong date range: %s..%s", stats.Earliest, stats.Latest)
			}
		})
	}
}
