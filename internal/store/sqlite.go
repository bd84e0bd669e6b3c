package store

import (
	"database/sql"
	"fmt"
	"log"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"InsiderSentinel/internal/model"
)

const dateLayout = "2006-01-02"

// SQLiteStore persists transactions and alert history to a SQLite database.
// The UNIQUE constraint on sent_alerts.signature is the arbiter for the
// at-most-one-alert invariant.
type SQLiteStore struct {
	db *sql.DB
	mu sync.Mutex
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// WAL mode so the scan can read while the ingest pipeline writes.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	log.Printf("[INFO] sqlite store opened: %s", dbPath)
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS form4_transactions (
			id                   INTEGER PRIMARY KEY AUTOINCREMENT,
			accession_number     TEXT NOT NULL,
			issuer_ticker        TEXT NOT NULL,
			issuer_name          TEXT,
			insider_cik          TEXT,
			insider_name         TEXT,
			insider_title        TEXT,
			is_officer           INTEGER,
			is_director          INTEGER,
			is_ten_percent_owner INTEGER,
			tx_type              TEXT,
			transaction_date     TEXT,
			shares               REAL,
			price_per_share      REAL,
			filed_at             TEXT,
			created_at           DATETIME DEFAULT CURRENT_TIMESTAMP,
			UNIQUE(accession_number, insider_cik, tx_type, transaction_date, shares, price_per_share)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_txn_date ON form4_transactions(transaction_date)`,
		`CREATE INDEX IF NOT EXISTS idx_txn_ticker ON form4_transactions(issuer_ticker)`,

		`CREATE TABLE IF NOT EXISTS sent_alerts (
			id            TEXT PRIMARY KEY,
			signature     TEXT NOT NULL UNIQUE,
			alert_kind    TEXT NOT NULL,
			issuer_ticker TEXT NOT NULL,
			buy_tier      TEXT,
			sell_tier     TEXT,
			cross_tier    TEXT,
			contaminated  INTEGER,
			call_heavy    INTEGER,
			insiders      INTEGER,
			total_value   REAL,
			details       TEXT,
			created_at    TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_alert_ticker ON sent_alerts(issuer_ticker)`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}
	return nil
}

func (s *SQLiteStore) Ping() error {
	return s.db.Ping()
}

func (s *SQLiteStore) InsertTransactions(txs []model.Transaction) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	inserted := 0
	for i := range txs {
		tx := &txs[i]
		res, err := s.db.Exec(`INSERT OR IGNORE INTO form4_transactions
			(accession_number, issuer_ticker, issuer_name, insider_cik, insider_name, insider_title,
			 is_officer, is_director, is_ten_percent_owner,
			 tx_type, transaction_date, shares, price_per_share, filed_at)
			VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
			tx.AccessionNo, tx.Issuer, tx.IssuerName, tx.InsiderID, tx.InsiderName, tx.InsiderTitle,
			boolInt(tx.IsOfficer), boolInt(tx.IsDirector), boolInt(tx.IsTenPercentOwner),
			string(tx.Type), tx.Date.Format(dateLayout), tx.Shares, tx.Price,
			tx.FiledAt.UTC().Format(time.RFC3339),
		)
		if err != nil {
			return inserted, fmt.Errorf("insert transaction %s: %w", tx.AccessionNo, err)
		}
		if n, err := res.RowsAffected(); err == nil && n > 0 {
			inserted++
		}
	}
	return inserted, nil
}

func (s *SQLiteStore) RecentTransactions(since time.Time) ([]model.Transaction, error) {
	rows, err := s.db.Query(`SELECT
			accession_number, issuer_ticker, issuer_name, insider_cik, insider_name, insider_title,
			is_officer, is_director, is_ten_percent_owner,
			tx_type, transaction_date, shares, price_per_share, filed_at
		FROM form4_transactions
		WHERE transaction_date >= ?`,
		since.Format(dateLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txs []model.Transaction
	for rows.Next() {
		var (
			tx                        model.Transaction
			officer, director, tenPct int
			txType, dateStr, filedAt  string
		)
		if err := rows.Scan(
			&tx.AccessionNo, &tx.Issuer, &tx.IssuerName, &tx.InsiderID, &tx.InsiderName, &tx.InsiderTitle,
			&officer, &director, &tenPct,
			&txType, &dateStr, &tx.Shares, &tx.Price, &filedAt,
		); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		tx.IsOfficer = officer != 0
		tx.IsDirector = director != 0
		tx.IsTenPercentOwner = tenPct != 0
		tx.Type = model.TxType(txType)
		if dateStr != "" {
			if d, err := time.Parse(dateLayout, dateStr); err == nil {
				tx.Date = d
			}
		}
		if filedAt != "" {
			if f, err := time.Parse(time.RFC3339, filedAt); err == nil {
				tx.FiledAt = f
			}
		}
		txs = append(txs, tx)
	}
	return txs, rows.Err()
}

func (s *SQLiteStore) InsertAlertIfAbsent(a *model.Alert) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`INSERT OR IGNORE INTO sent_alerts
		(id, signature, alert_kind, issuer_ticker, buy_tier, sell_tier, cross_tier,
		 contaminated, call_heavy, insiders, total_value, details, created_at)
		VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		a.ID, a.Signature, string(a.Kind), a.Issuer, string(a.BuyTier), string(a.SellTier), string(a.CrossTier),
		boolInt(a.Contaminated), boolInt(a.CallHeavy), a.Stats.Insiders, a.Stats.TotalValue, a.Details,
		a.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return false, fmt.Errorf("insert alert: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) AlertSent(signature string) (bool, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM sent_alerts WHERE signature = ?`, signature).Scan(&n); err != nil {
		return false, fmt.Errorf("query alert signature: %w", err)
	}
	return n > 0, nil
}

func (s *SQLiteStore) Stats() (*Stats, error) {
	st := &Stats{}
	queries := []struct {
		dest  *int
		query string
	}{
		{&st.Transactions, `SELECT COUNT(*) FROM form4_transactions`},
		{&st.Buys, `SELECT COUNT(*) FROM form4_transactions WHERE tx_type = 'BUY'`},
		{&st.Sells, `SELECT COUNT(*) FROM form4_transactions WHERE tx_type = 'SELL'`},
		{&st.Issuers, `SELECT COUNT(DISTINCT issuer_ticker) FROM form4_transactions`},
		{&st.Insiders, `SELECT COUNT(DISTINCT insider_cik) FROM form4_transactions`},
		{&st.AlertsSent, `SELECT COUNT(*) FROM sent_alerts`},
	}
	for _, q := range queries {
		if err := s.db.QueryRow(q.query).Scan(q.dest); err != nil {
			return nil, fmt.Errorf("stats query: %w", err)
		}
	}
	var earliest, latest sql.NullString
	if err := s.db.QueryRow(`SELECT MIN(transaction_date), MAX(transaction_date) FROM form4_transactions`).Scan(&earliest, &latest); err != nil {
		return nil, fmt.Errorf("stats date range: %w", err)
	}
	st.Earliest = earliest.String
	st.Latest = latest.String
	return st, nil
}

func (s *SQLiteStore) Close() error {
	log.Println("[INFO] closing sqlite store")
	return s.db.Close()
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
