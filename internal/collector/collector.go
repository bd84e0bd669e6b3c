package collector

import (
	"log"
	"time"

	"InsiderSentinel/internal/model"
)

// Fetcher retrieves ancillary market data for one issuer. Implementations
// must be safe for sequential reuse; the collector drives all calls.
type Fetcher interface {
	Name() string
	FetchPriceHistory(ticker string, days int) ([]model.PriceBar, error)
	FetchOptionsHistory(ticker string, from, to time.Time) ([]model.OptionsSnapshot, error)
	FetchShortInterest(ticker string) (*model.ShortInterestSnapshot, error)
}

// Collector pre-fetches every external dataset the engine needs into one
// immutable MarketData snapshot, so the engine itself never blocks on
// network I/O. Partial failures degrade to missing entries with a warning;
// the engine treats missing data as a safe default, not an error.
type Collector struct {
	fetcher           Fetcher
	priceLookbackDays int
	contaminationDays int
}

// NewCollector creates a Collector. priceLookbackDays and contaminationDays
// size the fetch windows around the scan period.
func NewCollector(fetcher Fetcher, priceLookbackDays, contaminationDays int) *Collector {
	return &Collector{
		fetcher:           fetcher,
		priceLookbackDays: priceLookbackDays,
		contaminationDays: contaminationDays,
	}
}

// Collect fetches price, options, and short-interest data for every issuer.
// scanFrom/scanTo bound the transaction window being analyzed; fetch windows
// are padded so lookback and contamination checks have full coverage.
func (c *Collector) Collect(issuers []string, scanFrom, scanTo time.Time) *model.MarketData {
	md := model.NewMarketData()

	// Pad so the lookback anchor has prior bars to land on.
	priceDays := int(scanTo.Sub(scanFrom).Hours()/24) + c.priceLookbackDays + 10
	optFrom := scanFrom.AddDate(0, 0, -c.contaminationDays)
	optTo := scanTo.AddDate(0, 0, c.contaminationDays)

	for _, ticker := range issuers {
		if bars, err := c.fetcher.FetchPriceHistory(ticker, priceDays); err != nil {
			log.Printf("[WARN] %s: price history fetch failed: %v", ticker, err)
		} else if len(bars) > 0 {
			md.Prices[ticker] = bars
		}

		if snaps, err := c.fetcher.FetchOptionsHistory(ticker, optFrom, optTo); err != nil {
			log.Printf("[WARN] %s: options history fetch failed: %v", ticker, err)
		} else if len(snaps) > 0 {
			md.Options[ticker] = snaps
		}

		if si, err := c.fetcher.FetchShortInterest(ticker); err != nil {
			log.Printf("[WARN] %s: short interest fetch failed: %v", ticker, err)
		} else if si != nil {
			md.ShortInterest[ticker] = si
		}
	}
	return md
}
