package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 17, cfg.Projection.Steps)
	assert.Equal(t, 10, cfg.Journal.MinRankTrades)
	assert.Equal(t, "ignore", cfg.Journal.BreakevenPolicy)
	assert.Equal(t, 365, cfg.Ledger.Days)
	assert.Len(t, cfg.Ledger.Phases, 1)
	assert.Equal(t, 8080, cfg.Web.Port)
	assert.Equal(t, time.Sunday, cfg.ReviewWeekday())
	assert.Equal(t, time.Hour, cfg.ReviewInterval())
	assert.Equal(t, 60*time.Second, cfg.AITimeout())
}

func TestLoadParsesYAML(t *testing.T) {
	path := writeConfig(t, `
ai:
  api_key: sk-test
  model: gpt-test
journal:
  timezone: UTC
  breakeven_policy: reset
ledger:
  anchor_date: "2025-03-03"
  initial_balance: 500
  phases:
    - {from_week: 1, to_week: 10, weekly_gain: 50}
    - {from_week: 11, to_week: 52, weekly_gain: 80}
review:
  weekday: friday
  hour: 20
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.True(t, cfg.AIEnabled())
	assert.Equal(t, "gpt-test", cfg.AI.Model)
	assert.Equal(t, "reset", cfg.Journal.BreakevenPolicy)
	assert.Equal(t, time.UTC, cfg.Location())
	assert.Equal(t, time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), cfg.AnchorDate())
	assert.Len(t, cfg.Ledger.Phases, 2)
	assert.Equal(t, time.Friday, cfg.ReviewWeekday())
	assert.Equal(t, 20, cfg.Review.Hour)
}

func TestEnvOverridesAPIKey(t *testing.T) {
	t.Setenv("QUEST_AI_API_KEY", "from-env")
	path := writeConfig(t, "ai:\n  api_key: from-file\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.AI.APIKey)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"policy":   "journal:\n  breakeven_policy: maybe\n",
		"anchor":   "ledger:\n  anchor_date: 03/03/2025\n",
		"phase":    "ledger:\n  phases:\n    - {from_week: 5, to_week: 2, weekly_gain: 10}\n",
		"weekday":  "review:\n  weekday: someday\n",
		"telegram": "telegram:\n  enabled: true\n",
		"timezone": "journal:\n  timezone: Mars/Olympus\n",
		"days":     "ledger:\n  days: -1\n",
		"longdays": "ledger:\n  days: 100000\n",
		"steps":    "projection:\n  steps: 99999999999\n",
		"negsteps": "projection:\n  steps: -3\n",
		"minrank":  "journal:\n  min_rank_trades: -1\n",
		"hour":     "review:\n  hour: 24\n",
	}

	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Load(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestExplicitZeroSurvivesDefaults(t *testing.T) {
	path := writeConfig(t, "journal:\n  min_rank_trades: 0\nreview:\n  hour: 0\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 0, cfg.Journal.MinRankTrades)
	assert.Equal(t, 0, cfg.Review.Hour)

	cfg, err = Load(writeConfig(t, "web:\n  port: 9000\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMinRankTrades, cfg.Journal.MinRankTrades)
	assert.Equal(t, DefaultReviewHour, cfg.Review.Hour)
}
