package collector

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"time"

	"InsiderSentinel/internal/model"
)

// APIFetcher implements Fetcher against the market-data gateway's JSON API.
type APIFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewAPIFetcher creates a fetcher for the given gateway.
func NewAPIFetcher(baseURL, apiKey string) *APIFetcher {
	return &APIFetcher{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (f *APIFetcher) Name() string { return "market-data-api" }

func (f *APIFetcher) get(path string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, f.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if f.APIKey != "" {
		req.Header.Set("X-API-Key", f.APIKey)
	}

	resp, err := f.Client.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("request %s: status %d, body: %s", path, resp.StatusCode, string(body))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

type priceResponse struct {
	Bars []struct {
		Date  string  `json:"date"`
		Close float64 `json:"close"`
	} `json:"bars"`
}

func (f *APIFetcher) FetchPriceHistory(ticker string, days int) ([]model.PriceBar, error) {
	var resp priceResponse
	if err := f.get(fmt.Sprintf("/v1/prices/%s?days=%d", ticker, days), &resp); err != nil {
		return nil, err
	}

	bars := make([]model.PriceBar, 0, len(resp.Bars))
	for _, b := range resp.Bars {
		d, err := time.Parse("2006-01-02", b.Date)
		if err != nil || b.Close <= 0 {
			continue
		}
		bars = append(bars, model.PriceBar{Date: d, Close: b.Close})
	}
	sort.Slice(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })
	return bars, nil
}

type optionsResponse struct {
	Days []struct {
		Date         string  `json:"date"`
		Volume       float64 `json:"volume"`
		OpenInterest float64 `json:"open_interest"`
		CallVolume   float64 `json:"call_volume"`
		PutVolume    float64 `json:"put_volume"`
	} `json:"days"`
}

func (f *APIFetcher) FetchOptionsHistory(ticker string, from, to time.Time) ([]model.OptionsSnapshot, error) {
	path := fmt.Sprintf("/v1/options/%s/daily?from=%s&to=%s",
		ticker, from.Format("2006-01-02"), to.Format("2006-01-02"))
	var resp optionsResponse
	if err := f.get(path, &resp); err != nil {
		return nil, err
	}

	snaps := make([]model.OptionsSnapshot, 0, len(resp.Days))
	for _, d := range resp.Days {
		day, err := time.Parse("2006-01-02", d.Date)
		if err != nil {
			continue
		}
		snaps = append(snaps, model.OptionsSnapshot{
			Issuer:       ticker,
			Date:         day,
			Volume:       d.Volume,
			OpenInterest: d.OpenInterest,
			CallVolume:   d.CallVolume,
			PutVolume:    d.PutVolume,
		})
	}
	return snaps, nil
}

type shortInterestResponse struct {
	Date        string  `json:"date"`
	DaysToCover float64 `json:"days_to_cover"`
	ChangePct   float64 `json:"change_pct"`
}

func (f *APIFetcher) FetchShortInterest(ticker string) (*model.ShortInterestSnapshot, error) {
	var resp shortInterestResponse
	if err := f.get("/v1/short-interest/"+ticker, &resp); err != nil {
		return nil, err
	}
	if resp.Date == "" {
		return nil, nil
	}
	d, err := time.Parse("2006-01-02", resp.Date)
	if err != nil {
		return nil, fmt.Errorf("parse short interest date %q: %w", resp.Date, err)
	}
	return &model.ShortInterestSnapshot{
		Issuer:      ticker,
		Date:        d,
		DaysToCover: resp.DaysToCover,
		ChangePct:   resp.ChangePct,
	}, nil
}
