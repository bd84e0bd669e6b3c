package store

import (
	"time"

	"InsiderSentinel/internal/model"
)

// Stats summarizes database contents for the weekly digest.
type Stats struct {
	Transactions int
	Buys         int
	Sells        int
	Issuers      int
	Insiders     int
	Earliest     string
	Latest       string
	AlertsSent   int
}

// Store persists ingested transactions and sent-alert history. It is the
// engine's single external collaborator: alert inserts must be atomic
// insert-if-absent so the at-most-one-alert invariant holds under parallel
// issuer processing and across overlapping scheduled runs.
type Store interface {
	// Ping verifies the store is reachable. A failing store is fatal for a
	// run; the engine aborts before emitting any alerts.
	Ping() error

	// InsertTransactions loads rows idempotently and returns how many were
	// new. The upstream filing pipeline may replay batches freely.
	InsertTransactions(txs []model.Transaction) (int, error)

	// RecentTransactions returns all transactions with a trade date at or
	// after since, in no guaranteed order.
	RecentTransactions(since time.Time) ([]model.Transaction, error)

	// InsertAlertIfAbsent records the alert and reports whether its
	// signature was new. Must be backed by a unique constraint or
	// equivalent compare-and-swap, never in-process memory alone.
	InsertAlertIfAbsent(a *model.Alert) (bool, error)

	// AlertSent reports whether the signature was already alerted, without
	// recording anything. Dry runs use this instead of InsertAlertIfAbsent.
	AlertSent(signature string) (bool, error)

	// Stats reports database-wide counts.
	Stats() (*Stats, error)

	Close() error
}
