package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

func init() {
	godotenv.Load(".env")
}

// Thresholds holds every tuning constant the engine honors. All values are
// injectable so backtests can run against alternate threshold sets without
// code changes.
type Thresholds struct {
	ClusterWindowDays  int     `yaml:"cluster_window_days"`
	MinClusterInsiders int     `yaml:"min_cluster_insiders"`
	ConvictionBuyValue float64 `yaml:"conviction_buy_value"`
	StrongSignalValue  float64 `yaml:"strong_signal_value"`
	SmallClusterValue  float64 `yaml:"small_cluster_value"`

	MeanReversionDropPct float64 `yaml:"mean_reversion_drop_pct"`
	PriceLookbackDays    int     `yaml:"price_lookback_days"`

	SellSweetSpotMin float64 `yaml:"sell_sweet_spot_min"`
	SellSweetSpotMax float64 `yaml:"sell_sweet_spot_max"`
	SellWatchMin     float64 `yaml:"sell_watch_min"`

	VolOIRatio   float64 `yaml:"vol_oi_ratio"`
	CallPutRatio float64 `yaml:"call_put_ratio"`
	// ±20 trading days, carried as calendar days around the cluster window.
	ContaminationWindowDays int `yaml:"contamination_window_days"`

	DTCThreshold float64 `yaml:"dtc_threshold"`
	SIChangePct  float64 `yaml:"si_change_pct"`
}

// DefaultThresholds returns the backtest-validated threshold set.
func DefaultThresholds() Thresholds {
	return Thresholds{
		ClusterWindowDays:       14,
		MinClusterInsiders:      2,
		ConvictionBuyValue:      5_000_000,
		StrongSignalValue:       500_000,
		SmallClusterValue:       50_000,
		MeanReversionDropPct:    10,
		PriceLookbackDays:       30,
		SellSweetSpotMin:        250_000,
		SellSweetSpotMax:        5_000_000,
		SellWatchMin:            50_000,
		VolOIRatio:              7.0,
		CallPutRatio:            1.25,
		ContaminationWindowDays: 28,
		DTCThreshold:            5,
		SIChangePct:             10,
	}
}

// Config holds all application configuration.
type Config struct {
	Email struct {
		SMTPHost string `yaml:"smtp_host"`
		SMTPPort int    `yaml:"smtp_port"`
		From     string `yaml:"from"`
		Password string `yaml:"password"`
		To       string `yaml:"to"`
	} `yaml:"email"`
	DataSource struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
	} `yaml:"data_source"`
	Schedule struct {
		ScanCron   string `yaml:"scan_cron"`
		DigestCron string `yaml:"digest_cron"`
	} `yaml:"schedule"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Scan struct {
		LookbackDays int  `yaml:"lookback_days"`
		Workers      int  `yaml:"workers"`
		DryRun       bool `yaml:"dry_run"`
	} `yaml:"scan"`
	Thresholds Thresholds `yaml:"thresholds"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides and defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("SMTP_HOST"); v != "" {
		cfg.Email.SMTPHost = v
	}
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Email.SMTPPort = port
		}
	}
	if v := os.Getenv("SMTP_FROM"); v != "" {
		cfg.Email.From = v
	}
	if v := os.Getenv("SMTP_PASSWORD"); v != "" {
		cfg.Email.Password = v
	}
	if v := os.Getenv("SMTP_TO"); v != "" {
		cfg.Email.To = v
	}
	if v := os.Getenv("MARKET_DATA_BASE_URL"); v != "" {
		cfg.DataSource.BaseURL = v
	}
	if v := os.Getenv("MARKET_DATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("CRON_SCAN"); v != "" {
		cfg.Schedule.ScanCron = v
	}
	if v := os.Getenv("DRY_RUN"); v == "true" || v == "1" {
		cfg.Scan.DryRun = true
	}

	// Defaults
	if cfg.Email.SMTPPort == 0 {
		cfg.Email.SMTPPort = 587
	}
	if cfg.Schedule.ScanCron == "" {
		// Weekdays 22:15 UTC, after the Form 4 ingest at 22:00.
		cfg.Schedule.ScanCron = "0 15 22 * * 1-5"
	}
	if cfg.Schedule.DigestCron == "" {
		cfg.Schedule.DigestCron = "0 0 12 * * 6"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/insider_signals.db"
	}
	if cfg.Scan.LookbackDays == 0 {
		cfg.Scan.LookbackDays = 14
	}
	if cfg.Scan.Workers == 0 {
		cfg.Scan.Workers = 4
	}

	applyThresholdDefaults(&cfg.Thresholds)

	return cfg, nil
}

func applyThresholdDefaults(t *Thresholds) {
	def := DefaultThresholds()
	if t.ClusterWindowDays == 0 {
		t.ClusterWindowDays = def.ClusterWindowDays
	}
	if t.MinClusterInsiders == 0 {
		t.MinClusterInsiders = def.MinClusterInsiders
	}
	if t.ConvictionBuyValue == 0 {
		t.ConvictionBuyValue = def.ConvictionBuyValue
	}
	if t.StrongSignalValue == 0 {
		t.StrongSignalValue = def.StrongSignalValue
	}
	if t.SmallClusterValue == 0 {
		t.SmallClusterValue = def.SmallClusterValue
	}
	if t.MeanReversionDropPct == 0 {
		t.MeanReversionDropPct = def.MeanReversionDropPct
	}
	if t.PriceLookbackDays == 0 {
		t.PriceLookbackDays = def.PriceLookbackDays
	}
	if t.SellSweetSpotMin == 0 {
		t.SellSweetSpotMin = def.SellSweetSpotMin
	}
	if t.SellSweetSpotMax == 0 {
		t.SellSweetSpotMax = def.SellSweetSpotMax
	}
	if t.SellWatchMin == 0 {
		t.SellWatchMin = def.SellWatchMin
	}
	if t.VolOIRatio == 0 {
		t.VolOIRatio = def.VolOIRatio
	}
	if t.CallPutRatio == 0 {
		t.CallPutRatio = def.CallPutRatio
	}
	if t.ContaminationWindowDays == 0 {
		t.ContaminationWindowDays = def.ContaminationWindowDays
	}
	if t.DTCThreshold == 0 {
		t.DTCThreshold = def.DTCThreshold
	}
	if t.SIChangePct == 0 {
		t.SIChangePct = def.SIChangePct
	}
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if !c.Scan.DryRun {
		if c.Email.SMTPHost == "" {
			return fmt.Errorf("email.smtp_host is required")
		}
		if c.Email.From == "" {
			return fmt.Errorf("email.from is required")
		}
		if c.Email.To == "" {
			return fmt.Errorf("email.to is required")
		}
	}
	if c.Thresholds.SellSweetSpotMin >= c.Thresholds.SellSweetSpotMax {
		return fmt.Errorf("thresholds.sell_sweet_spot_min must be below sell_sweet_spot_max")
	}
	if c.Thresholds.ClusterWindowDays <= 0 {
		return fmt.Errorf("thresholds.cluster_window_days must be positive")
	}
	return nil
}
