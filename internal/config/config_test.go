package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeConfig(t, `
organization: example-org
output_dir: summaries
periods:
  weekly:
    days: 7
  monthly:
    days: 30
excluded_repos:
  - sandbox
api:
  max_workers: 5
ai:
  model: test-model
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "example-org", cfg.Organization)
	assert.Equal(t, "summaries", cfg.OutputDir)
	assert.Equal(t, 7, cfg.Periods["weekly"].Days)
	assert.Equal(t, 5, cfg.API.MaxWorkers)
	assert.Equal(t, "test-model", cfg.AI.Model)

	// Untouched sections keep their defaults.
	assert.Equal(t, 30*time.Second, cfg.API.RequestTimeout)
	assert.Equal(t, 60*time.Second, cfg.AI.RequestTimeout)
	assert.Equal(t, 200, cfg.AI.RepoSummaryTokens)
	assert.Equal(t, 300, cfg.AI.OverallSummaryTokens)
}

func TestLoad_MissingRequiredKey(t *testing.T) {
	path := writeConfig(t, `
output_dir: summaries
periods:
  weekly:
    days: 7
`)

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "organization")
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}

func TestPeriodDays(t *testing.T) {
	cfg := Config{Periods: map[string]PeriodConfig{"weekly": {Days: 7}, "quarterly": {}}}

	assert.Equal(t, 7, cfg.PeriodDays("weekly"))
	assert.Equal(t, 7, cfg.PeriodDays("quarterly"))
	assert.Equal(t, 7, cfg.PeriodDays("unknown"))
}

func TestIsExcluded(t *testing.T) {
	cfg := Config{ExcludedRepos: []string{"sandbox", "attic"}}

	assert.True(t, cfg.IsExcluded("sandbox"))
	assert.False(t, cfg.IsExcluded("tools"))
}
