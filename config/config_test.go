package config

import (
	"testing"
	"time"

	"github.com/etnz/exposure"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, k := range []string{"HOLDINGS_URL", "FETCH_TIMEOUT", "EQUAL_FUND_WEIGHT", "FUND_ALLOCATIONS", "SMTP_HOST", "EMAIL_TO", "WEBHOOK_URL", "SLACK_WEBHOOK", "OUTPUT_CSV"} {
		t.Setenv(k, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DefaultHoldingsURL, cfg.HoldingsURL)
	assert.Equal(t, "$", cfg.JSONPath)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, "portfolio_summary.csv", cfg.OutputCSV)
	assert.True(t, cfg.EqualFundWeight)
	assert.Equal(t, exposure.DefaultThresholds, cfg.Thresholds)
	assert.Equal(t, 587, cfg.SMTP.Port)
	assert.False(t, cfg.SMTP.Configured())
	assert.Empty(t, cfg.WebhookURL)
	assert.IsType(t, exposure.EqualWeight{}, cfg.WeightPolicy())
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("HOLDINGS_URL", "s3://funds/holdings.json")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("EQUAL_FUND_WEIGHT", "false")
	t.Setenv("FUND_ALLOCATIONS", "a.csv=12000,b.csv=8000")
	t.Setenv("ALLOCATION_CURRENCY", "usd")
	t.Setenv("SMTP_HOST", "smtp.example.com")
	t.Setenv("SMTP_PORT", "2525")
	t.Setenv("EMAIL_TO", "risk@example.com, ops@example.com ,")
	t.Setenv("WEBHOOK_URL", "")
	t.Setenv("SLACK_WEBHOOK", "https://hooks.example.com/x")
	t.Setenv("TOP10_ALERT", "0.5")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "s3://funds/holdings.json", cfg.HoldingsURL)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.False(t, cfg.EqualFundWeight)
	require.Len(t, cfg.Allocations, 2)
	assert.Equal(t, "USD", cfg.Allocations["a.csv"].Currency())
	assert.Equal(t, cfg.Allocations, cfg.WeightPolicy())
	assert.Equal(t, "smtp.example.com:2525", cfg.SMTP.Addr())
	assert.Equal(t, []string{"risk@example.com", "ops@example.com"}, cfg.SMTP.To)
	assert.True(t, cfg.SMTP.Configured())
	assert.Equal(t, "https://hooks.example.com/x", cfg.WebhookURL)
	assert.Equal(t, 0.5, cfg.Thresholds.TopConcentration)
}

func TestLoad_Invalid(t *testing.T) {
	tests := map[string]map[string]string{
		"allocations required": {"EQUAL_FUND_WEIGHT": "false", "FUND_ALLOCATIONS": ""},
		"bad allocation":       {"FUND_ALLOCATIONS": "a.csv"},
		"mixed currencies":     {"FUND_ALLOCATIONS": "a.csv=100 EUR,b.csv=100 JPY"},
		"negative timeout":     {"FETCH_TIMEOUT": "-1s"},
	}
	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestSMTP_Disabled(t *testing.T) {
	s := SMTP{Enabled: false, Host: "smtp.example.com", To: []string{"a@example.com"}}
	assert.False(t, s.Configured())
}
