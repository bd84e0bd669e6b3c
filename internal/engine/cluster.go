package engine

import (
	"fmt"
	"sort"

	"InsiderSentinel/internal/config"
	"InsiderSentinel/internal/model"
)

// DetectClusters groups one issuer's buy transactions into time-windowed
// clusters. Input order is not assumed: transactions are sorted by trade date
// before scanning (sort order is a contract of the detector, not of upstream
// storage).
//
// Scan: open a window at the first unassigned transaction's date, spanning
// [date, date+window); greedily absorb every later unassigned transaction
// whose date falls inside. Window start never shifts backward. A group only
// qualifies as a cluster with at least MinClusterInsiders distinct insiders;
// single-insider residues are dropped. Malformed transactions are excluded
// and reported as data-quality notes, never fatal.
func DetectClusters(txs []model.Transaction, th config.Thresholds) ([]model.Cluster, []string) {
	var notes []string

	buys := make([]model.Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Type != model.TxBuy {
			continue
		}
		if tx.Malformed() {
			notes = append(notes, fmt.Sprintf("%s: malformed buy %s excluded (missing shares/price/date)", tx.Issuer, tx.AccessionNo))
			continue
		}
		buys = append(buys, tx)
	}
	if len(buys) == 0 {
		return nil, notes
	}

	sort.SliceStable(buys, func(i, j int) bool { return buys[i].Date.Before(buys[j].Date) })

	var clusters []model.Cluster
	i := 0
	for i < len(buys) {
		start := buys[i].Date
		end := start.AddDate(0, 0, th.ClusterWindowDays)

		group := []model.Transaction{buys[i]}
		j := i + 1
		for j < len(buys) && buys[j].Date.Before(end) {
			group = append(group, buys[j])
			j++
		}
		i = j

		c := buildCluster(group)
		if c.Insiders < th.MinClusterInsiders {
			continue
		}
		clusters = append(clusters, c)
	}
	return clusters, notes
}

func buildCluster(group []model.Transaction) model.Cluster {
	c := model.Cluster{
		Issuer:       group[0].Issuer,
		IssuerName:   group[0].IssuerName,
		WindowStart:  group[0].Date,
		WindowEnd:    group[len(group)-1].Date,
		Transactions: group,
	}
	insiders := make(map[string]bool)
	for _, tx := range group {
		insiders[tx.InsiderID] = true
		c.TotalValue += tx.Value()
		if tx.IsCSuite() {
			c.HasCSuite = true
		}
	}
	c.Insiders = len(insiders)
	return c
}
