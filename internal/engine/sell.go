package engine

import (
	"fmt"
	"sort"

	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/model"
)

// DetectSellEvents groups one issuer's sell transactions per insider using
// the same windowing rule as the cluster detector, keyed by insider instead
// of issuer-wide. A single insider's aggregated sells qualify; there is no
// multi-insider requirement on the sell side.
func DetectSellEvents(txs []model.Transaction, th config.Thresholds) ([]model.SellEvent, []string) {
	var notes []string

	byInsider := make(map[string][]model.Transaction)
	var insiderOrder []string
	for _, tx := range txs {
		if tx.Type != model.TxSell {
			continue
		}
		if tx.Malformed() {
			notes = append(notes, fmt.Sprintf("%s: malformed sell %s excluded (missing shares/price/date)", tx.Issuer, tx.AccessionNo))
			continue
		}
		if _, seen := byInsider[tx.InsiderID]; !seen {
			insiderOrder = append(insiderOrder, tx.InsiderID)
		}
		byInsider[tx.InsiderID] = append(byInsider[tx.InsiderID], tx)
	}

	var events []model.SellEvent
	for _, insider := range insiderOrder {
		sells := byInsider[insider]
		sort.SliceStable(sells, func(i, j int) bool { return sells[i].Date.Before(sells[j].Date) })

		i := 0
		for i < len(sells) {
			start := sells[i].Date
			end := start.AddDate(0, 0, th.ClusterWindowDays)

			group := []model.Transaction{sells[i]}
			j := i + 1
			for j < len(sells) && sells[j].Date.Before(end) {
				group = append(group, sells[j])
				j++
			}
			i = j

			events = append(events, buildSellEvent(group))
		}
	}
	return events, notes
}

func buildSellEvent(group []model.Transaction) model.SellEvent {
	e := model.SellEvent{
		Issuer:       group[0].Issuer,
		IssuerName:   group[0].IssuerName,
		InsiderID:    group[0].InsiderID,
		InsiderName:  group[0].InsiderName,
		InsiderTitle: group[0].InsiderTitle,
		WindowStart:  group[0].Date,
		WindowEnd:    group[len(group)-1].Date,
		Transactions: group,
	}
	for _, tx := range group {
		e.TotalValue += tx.Value()
		if tx.IsOfficer {
			e.IsOfficer = true
		}
		if tx.IsDirector {
			e.IsDirector = true
		}
	}
	return e
}
