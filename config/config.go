// Package config builds the run configuration from the environment.
//
// The configuration is read once at process start and handed to each
// component; nothing else in the module reads the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/etnz/exposure"
	"github.com/joho/godotenv"
)

// Public endpoint of the default fund holdings (Amundi MSCI Emerging Markets Swap UCITS ETF).
const DefaultHoldingsURL = "https://www.amundi.com/download/LU1681045370/fund_holdings.csv"

// Config holds the application configuration.
type Config struct {
	// Single fund report.
	HoldingsURL  string // http(s):// or s3://bucket/key
	JSONPath     string // where the records are in a JSON payload
	FundISIN     string
	FundName     string
	FetchTimeout time.Duration
	HTTPCache    bool // cache downloads on disk for the day

	// Portfolio report.
	PortfolioName   string
	OutputCSV       string
	EqualFundWeight bool
	Allocations     exposure.Allocations // used when EqualFundWeight is false

	// Classification and alerts.
	ThemeFile  string // TOML rule set replacing the built-in preset
	Thresholds exposure.Thresholds

	// Delivery.
	SMTP       SMTP
	WebhookURL string

	// Scheduling.
	Schedule string // cron spec

	LogLevel  string
	LogPretty bool
}

// SMTP is the mail delivery target.
type SMTP struct {
	Enabled  bool
	Host     string
	Port     int
	User     string
	Password string
	From     string
	To       []string
}

// Configured tells whether mail delivery should be attempted.
func (s SMTP) Configured() bool { return s.Enabled && s.Host != "" && len(s.To) > 0 }

// Addr returns host:port.
func (s SMTP) Addr() string { return s.Host + ":" + strconv.Itoa(s.Port) }

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	cfg := &Config{
		HoldingsURL:     getEnv("HOLDINGS_URL", DefaultHoldingsURL),
		JSONPath:        getEnv("HOLDINGS_JSON_PATH", "$"),
		FundISIN:        getEnv("FUND_ISIN", "LU1681045370"),
		FundName:        getEnv("FUND_NAME", "Amundi MSCI Emerging Markets Swap UCITS ETF (EUR Acc)"),
		FetchTimeout:    getEnvAsDuration("FETCH_TIMEOUT", 30*time.Second),
		HTTPCache:       getEnvAsBool("HTTP_CACHE", false),
		PortfolioName:   getEnv("PORTFOLIO_NAME", "My Portfolio — Aggregated Holdings"),
		OutputCSV:       getEnv("OUTPUT_CSV", "portfolio_summary.csv"),
		EqualFundWeight: getEnvAsBool("EQUAL_FUND_WEIGHT", true),
		ThemeFile:       getEnv("THEME_FILE", ""),
		Thresholds: exposure.Thresholds{
			TopConcentration: getEnvAsFloat("TOP10_ALERT", exposure.DefaultThresholds.TopConcentration),
			ThemeExposure:    getEnvAsFloat("AI_EXPOSURE_ALERT", exposure.DefaultThresholds.ThemeExposure),
		},
		SMTP: SMTP{
			Enabled:  getEnvAsBool("SMTP_ENABLED", true),
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			User:     getEnv("SMTP_USER", ""),
			Password: getEnv("SMTP_PASS", ""),
			From:     getEnv("EMAIL_FROM", ""),
			To:       getEnvAsList("EMAIL_TO"),
		},
		WebhookURL: getEnv("WEBHOOK_URL", getEnv("SLACK_WEBHOOK", "")),
		Schedule:   getEnv("SCHEDULE", "0 7 * * 1"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		LogPretty:  getEnvAsBool("LOG_PRETTY", true),
	}

	if raw := getEnv("FUND_ALLOCATIONS", ""); raw != "" {
		a, err := exposure.ParseAllocations(raw, getEnv("ALLOCATION_CURRENCY", "EUR"))
		if err != nil {
			return nil, fmt.Errorf("FUND_ALLOCATIONS: %w", err)
		}
		cfg.Allocations = a
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the configuration is consistent.
func (c *Config) Validate() error {
	if c.OutputCSV == "" {
		return fmt.Errorf("OUTPUT_CSV is required")
	}
	if !c.EqualFundWeight && len(c.Allocations) == 0 {
		return fmt.Errorf("EQUAL_FUND_WEIGHT is false but FUND_ALLOCATIONS is empty")
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	return nil
}

// WeightPolicy returns the fund weighting policy of the portfolio report.
func (c *Config) WeightPolicy() exposure.WeightPolicy {
	if c.EqualFundWeight {
		return exposure.EqualWeight{}
	}
	return c.Allocations
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvAsList(key string) []string {
	var list []string
	for _, s := range strings.Split(os.Getenv(key), ",") {
		if s = strings.TrimSpace(s); s != "" {
			list = append(list, s)
		}
	}
	return list
}
