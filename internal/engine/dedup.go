package engine

import (
	"fmt"

	"InsiderSentinel/internal/model"
)

// AlertHistory is the persistent alert-history contract the deduplicator
// relies on. InsertAlertIfAbsent must be atomic (unique constraint or
// equivalent): it is the sole write-serialization point under parallel
// issuer processing.
type AlertHistory interface {
	// Ping verifies the history is reachable before any alert is emitted.
	Ping() error
	// InsertAlertIfAbsent records the alert and reports whether it was new.
	// A false return with nil error means the signature was already alerted.
	InsertAlertIfAbsent(a *model.Alert) (bool, error)
	// AlertSent reports whether the signature was already alerted without
	// recording anything.
	AlertSent(signature string) (bool, error)
}

// Deduplicator guarantees at-most-one alert per signature across runs,
// retries, and overlapping scheduled executions. In dry-run mode it still
// suppresses signatures already in the history, but records nothing, so a
// dry run never swallows a later live alert.
type Deduplicator struct {
	history AlertHistory
	dryRun  bool
}

// NewDeduplicator creates a Deduplicator backed by the given history.
func NewDeduplicator(history AlertHistory, dryRun bool) *Deduplicator {
	return &Deduplicator{history: history, dryRun: dryRun}
}

// Emit records the alert if its signature has not been alerted before.
// Returns true when the alert is new. A duplicate signature is not an error;
// it is silently suppressed. A store failure is fatal for the run — without
// the history the at-most-once invariant cannot be guaranteed.
func (d *Deduplicator) Emit(a *model.Alert) (bool, error) {
	if d.dryRun {
		sent, err := d.history.AlertSent(a.Signature)
		if err != nil {
			return false, fmt.Errorf("alert history lookup %s: %w", a.Signature, err)
		}
		return !sent, nil
	}
	inserted, err := d.history.InsertAlertIfAbsent(a)
	if err != nil {
		return false, fmt.Errorf("alert history insert %s: %w", a.Signature, err)
	}
	return inserted, nil
}
