package store

import (
	"sync"
	"time"

	"InsiderSentinel/internal/model"
)

// MemoryStore is an in-memory Store used for tests and dry runs. Alert
// history does not survive the process; production runs must use SQLite.
type MemoryStore struct {
	mu         sync.Mutex
	txs        []model.Transaction
	txKeys     map[string]bool
	signatures map[string]model.Alert
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		txKeys:     make(map[string]bool),
		signatures: make(map[string]model.Alert),
	}
}

func (m *MemoryStore) Ping() error { return nil }

func (m *MemoryStore) InsertTransactions(txs []model.Transaction) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	inserted := 0
	for _, tx := range txs {
		key := tx.AccessionNo + "|" + tx.InsiderID + "|" + string(tx.Type) + "|" + tx.Date.Format(dateLayout)
		if m.txKeys[key] {
			continue
		}
		m.txKeys[key] = true
		m.txs = append(m.txs, tx)
		inserted++
	}
	return inserted, nil
}

func (m *MemoryStore) RecentTransactions(since time.Time) ([]model.Transaction, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var out []model.Transaction
	for _, tx := range m.txs {
		if !tx.Date.Before(since) {
			out = append(out, tx)
		}
	}
	return out, nil
}

func (m *MemoryStore) InsertAlertIfAbsent(a *model.Alert) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.signatures[a.Signature]; exists {
		return false, nil
	}
	m.signatures[a.Signature] = *a
	return true, nil
}

func (m *MemoryStore) AlertSent(signature string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, exists := m.signatures[signature]
	return exists, nil
}

func (m *MemoryStore) Stats() (*Stats, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := &Stats{Transactions: len(m.txs), AlertsSent: len(m.signatures)}
	issuers := make(map[string]bool)
	insiders := make(map[string]bool)
	for _, tx := range m.txs {
		issuers[tx.Issuer] = true
		insiders[tx.InsiderID] = true
		switch tx.Type {
		case model.TxBuy:
			st.Buys++
		case model.TxSell:
			st.Sells++
		}
		d := tx.Date.Format(dateLayout)
		if st.Earliest == "" || d < st.Earliest {
			st.Earliest = d
		}
		if d > st.Latest {
			st.Latest = d
		}
	}
	st.Issuers = len(issuers)
	st.Insiders = len(insiders)
	return st, nil
}

func (m *MemoryStore) Close() error { return nil }
