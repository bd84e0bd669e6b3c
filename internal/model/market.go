package model

import "time"

// PriceBar is one daily close for an issuer.
type PriceBar struct {
	Date  time.Time
	Close float64
}

// OptionsSnapshot is one day of aggregate options activity for an issuer.
// Supplied externally; used read-only.
type OptionsSnapshot struct {
	Issuer       string
	Date         time.Time
	Volume       float64
	OpenInterest float64
	CallVolume   float64
	PutVolume    float64
}

// VolOIRatio is the unusual-activity proxy: volume over open interest.
// Returns 0 when open interest is unknown.
func (s *OptionsSnapshot) VolOIRatio() float64 {
	if s.OpenInterest <= 0 {
		return 0
	}
	return s.Volume / s.OpenInterest
}

// CallPutRatio returns call volume over put volume, 0 when puts are unknown.
func (s *OptionsSnapshot) CallPutRatio() float64 {
	if s.PutVolume <= 0 {
		return 0
	}
	return s.CallVolume / s.PutVolume
}

// ShortInterestSnapshot is the latest periodic short-interest reading for an
// issuer. Supplied externally; used read-only.
type ShortInterestSnapshot struct {
	Issuer      string
	Date        time.Time
	DaysToCover float64
	ChangePct   float64 // percent change vs the prior reporting period
}

// MarketData holds all pre-fetched ancillary data for one engine run, keyed
// by issuer. The engine never performs I/O; missing entries degrade the
// corresponding checks to their safe defaults.
type MarketData struct {
	Prices        map[string][]PriceBar
	Options       map[string][]OptionsSnapshot
	ShortInterest map[string]*ShortInterestSnapshot
}

// NewMarketData returns an empty MarketData with initialized maps.
func NewMarketData() *MarketData {
	return &MarketData{
		Prices:        make(map[string][]PriceBar),
		Options:       make(map[string][]OptionsSnapshot),
		ShortInterest: make(map[string]*ShortInterestSnapshot),
	}
}
