package collector

import (
	"time"

	"InsiderSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Prices        map[string][]model.PriceBar
	Options       map[string][]model.OptionsSnapshot
	ShortInterest map[string]*model.ShortInterestSnapshot
	Err           error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchPriceHistory(ticker string, _ int) ([]model.PriceBar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Prices[ticker], nil
}

func (m *MockFetcher) FetchOptionsHistory(ticker string, _, _ time.Time) ([]model.OptionsSnapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Options[ticker], nil
}

func (m *MockFetcher) FetchShortInterest(ticker string) (*model.ShortInterestSnapshot, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.ShortInterest[ticker], nil
}
