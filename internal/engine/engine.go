package engine

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/model"
)

// Engine runs the full signal detection pass: cluster and sell detection,
// tier scoring, options contamination, cross-signal enrichment, and
// deduplicated alert emission. One bounded batch pass per invocation; all
// market data arrives pre-fetched, so the engine performs no I/O of its own
// besides the alert-history lookups.
type Engine struct {
	th      config.Thresholds
	scorer  *Scorer
	dedup   *Deduplicator
	history AlertHistory
	workers int
}

// New creates an Engine using the given thresholds and alert history.
// In dry-run mode detected alerts are reported but never written to the
// history, so nothing is marked as sent before a real delivery.
func New(th config.Thresholds, history AlertHistory, workers int, dryRun bool) *Engine {
	if workers < 1 {
		workers = 1
	}
	return &Engine{
		th:      th,
		scorer:  NewScorer(th),
		dedup:   NewDeduplicator(history, dryRun),
		history: history,
		workers: workers,
	}
}

// issuerResult carries one issuer's candidates and counters back from a
// worker. Candidates are not yet deduplicated.
type issuerResult struct {
	candidates   []model.Alert
	malformed    int
	clusters     int
	sellSignals  int
	contaminated int
	enriched     int
	notes        []string
}

// Run executes one full pass over the transaction set. Independent issuers
// are analyzed in parallel; alert emission is sequential through the
// deduplicator, the single write-serialization point. The alert history is
// probed up front: if it is unreachable the run aborts before emitting
// anything, so a retry cannot double-alert.
func (e *Engine) Run(txs []model.Transaction, md *model.MarketData) (*model.RunSummary, []model.Alert, error) {
	summary := &model.RunSummary{StartedAt: time.Now().UTC(), Processed: len(txs)}
	if md == nil {
		md = model.NewMarketData()
	}

	if err := e.history.Ping(); err != nil {
		return nil, nil, fmt.Errorf("alert history unavailable, aborting run: %w", err)
	}

	byIssuer := make(map[string][]model.Transaction)
	var issuers []string
	for _, tx := range txs {
		if tx.Issuer == "" {
			summary.Malformed++
			summary.Notes = append(summary.Notes, fmt.Sprintf("transaction %s has no issuer, excluded", tx.AccessionNo))
			continue
		}
		if _, seen := byIssuer[tx.Issuer]; !seen {
			issuers = append(issuers, tx.Issuer)
		}
		byIssuer[tx.Issuer] = append(byIssuer[tx.Issuer], tx)
	}
	summary.Issuers = len(issuers)

	var (
		mu         sync.Mutex
		wg         sync.WaitGroup
		candidates []model.Alert
	)
	sem := make(chan struct{}, e.workers)
	for _, issuer := range issuers {
		wg.Add(1)
		go func(issuer string) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			r := e.analyzeIssuer(issuer, byIssuer[issuer], md)

			mu.Lock()
			candidates = append(candidates, r.candidates...)
			summary.Malformed += r.malformed
			summary.Clusters += r.clusters
			summary.SellSignals += r.sellSignals
			summary.Contaminated += r.contaminated
			summary.Enriched += r.enriched
			summary.Notes = append(summary.Notes, r.notes...)
			mu.Unlock()
		}(issuer)
	}
	wg.Wait()

	// Deterministic emission order regardless of worker scheduling.
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].Issuer != candidates[j].Issuer {
			return candidates[i].Issuer < candidates[j].Issuer
		}
		return candidates[i].Signature < candidates[j].Signature
	})

	var emitted []model.Alert
	for i := range candidates {
		inserted, err := e.dedup.Emit(&candidates[i])
		if err != nil {
			return nil, nil, err
		}
		if inserted {
			summary.Alerted++
			emitted = append(emitted, candidates[i])
		} else {
			summary.Suppressed++
		}
	}

	sortAlertsByStrength(emitted)
	summary.FinishedAt = time.Now().UTC()
	return summary, emitted, nil
}

// analyzeIssuer runs the per-issuer pipeline: detect, score, filter, enrich.
func (e *Engine) analyzeIssuer(issuer string, txs []model.Transaction, md *model.MarketData) issuerResult {
	var r issuerResult

	valid := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Malformed() {
			r.malformed++
			r.notes = append(r.notes, fmt.Sprintf("%s: malformed transaction %s excluded (missing shares/price/date)", issuer, tx.AccessionNo))
			continue
		}
		valid = append(valid, tx)
	}

	clusters, notes := DetectClusters(valid, e.th)
	r.notes = append(r.notes, notes...)
	r.clusters = len(clusters)

	for i := range clusters {
		c := &clusters[i]

		tier, stats, scoreNotes := e.scorer.ScoreCluster(c, md.Prices[issuer])
		r.notes = append(r.notes, scoreNotes...)

		contam := CheckContamination(c, md.Options[issuer], e.th)
		if contam.Note != "" {
			r.notes = append(r.notes, contam.Note)
		}
		if contam.Contaminated {
			r.contaminated++
		}
		stats.MaxVolOI = contam.MaxVolOI

		si := md.ShortInterest[issuer]
		cross := EnrichCrossSignal(tier, si, e.th)
		if cross != model.NoCross {
			r.enriched++
		}
		if si == nil && tier.Conviction() >= model.TierStrongSignal.Conviction() {
			r.notes = append(r.notes, fmt.Sprintf("%s: no short interest data, cross-signal check skipped", issuer))
		}
		if si != nil {
			stats.DaysToCover = si.DaysToCover
			stats.SIChangePct = si.ChangePct
		}

		r.candidates = append(r.candidates, model.Alert{
			ID:           uuid.NewString(),
			Issuer:       c.Issuer,
			IssuerName:   c.IssuerName,
			Kind:         model.KindCluster,
			Signature:    c.Signature(),
			BuyTier:      tier,
			CrossTier:    cross,
			Contaminated: contam.Contaminated,
			CallHeavy:    contam.CallHeavy,
			Stats:        stats,
			Details:      fmt.Sprintf("%d insiders, $%.0f total", c.Insiders, c.TotalValue),
			CreatedAt:    time.Now().UTC(),
		})
	}

	events, sellNotes := DetectSellEvents(valid, e.th)
	r.notes = append(r.notes, sellNotes...)

	for i := range events {
		ev := &events[i]
		tier, stats := e.scorer.ScoreSell(ev)
		if tier == model.SellUnranked {
			continue
		}
		r.sellSignals++
		// SellWatch is informational only: counted and reported in the
		// summary, never alerted.
		if tier == model.SellWatch {
			continue
		}
		who := ev.InsiderName
		if ev.InsiderTitle != "" {
			who = fmt.Sprintf("%s (%s)", ev.InsiderName, ev.InsiderTitle)
		}
		r.candidates = append(r.candidates, model.Alert{
			ID:         uuid.NewString(),
			Issuer:     ev.Issuer,
			IssuerName: ev.IssuerName,
			Kind:       model.KindSell,
			Signature:  ev.Signature(),
			SellTier:   tier,
			CrossTier:  model.NoCross,
			Stats:      stats,
			Details:    fmt.Sprintf("%s, $%.0f over %d sale(s)", who, ev.TotalValue, len(ev.Transactions)),
			CreatedAt:  time.Now().UTC(),
		})
	}

	return r
}

// sortAlertsByStrength orders alerts for notification: buy clusters by
// conviction then value, then sells by tier then value.
func sortAlertsByStrength(alerts []model.Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		a, b := alerts[i], alerts[j]
		if a.Kind != b.Kind {
			return a.Kind == model.KindCluster
		}
		if a.Kind == model.KindCluster {
			if a.BuyTier.Conviction() != b.BuyTier.Conviction() {
				return a.BuyTier.Conviction() > b.BuyTier.Conviction()
			}
		} else if a.SellTier.Priority() != b.SellTier.Priority() {
			return a.SellTier.Priority() < b.SellTier.Priority()
		}
		return a.Stats.TotalValue > b.Stats.TotalValue
	})
}
