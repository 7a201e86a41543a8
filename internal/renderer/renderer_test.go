package renderer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orgpulse/orgpulse/internal/domain"
)

func sampleSummary() *domain.Summary {
	return &domain.Summary{
		ReposActive:        2,
		IssuesNew:          1,
		IssuesClosed:       1,
		PRsOpened:          1,
		PRsMerged:          2,
		ContributorsUnique: 3,
		TopRepos: []domain.RepoStat{
			{Name: "tools", PRsMerged: 2, ActivityScore: 6},
			{Name: "server", IssuesNew: 1, ActivityScore: 1},
		},
		MergedPRsByRepo: []domain.RepoGroup{
			{Repo: "tools", Items: []domain.ActivityRecord{
				{Title: "Add retry logic", URL: "https://example.com/p/10", Author: "alice"},
			}},
		},
		NewIssuesByRepo: []domain.RepoGroup{
			{Repo: "server", Items: []domain.ActivityRecord{
				{Title: "Parser crash", URL: "https://example.com/i/1", Author: "bob"},
			}},
		},
		ClosedIssuesByRepo: []domain.RepoGroup{},
	}
}

// repoRootTemplate resolves the template shipped with the repository.
func repoRootTemplate(t *testing.T) string {
	path := filepath.Join("..", "..", "templates", "summary.md.tmpl")
	_, err := os.Stat(path)
	require.NoError(t, err)
	return path
}

func TestRenderMarkdown(t *testing.T) {
	out, err := RenderMarkdown(sampleSummary(), repoRootTemplate(t), "Week 4, 2025", "2025-01-20", "2025-01-26")
	require.NoError(t, err)

	assert.Contains(t, out, "# Week 4, 2025")
	assert.Contains(t, out, "*2025-01-20 to 2025-01-26*")
	assert.Contains(t, out, "**2** repositories with activity")
	assert.Contains(t, out, "**3** contributors")
	assert.Contains(t, out, "| tools | 2 |")
	assert.Contains(t, out, "[Add retry logic](https://example.com/p/10) by @alice")
	assert.Contains(t, out, "[Parser crash](https://example.com/i/1) by @bob")
	assert.NotContains(t, out, "## Closed issues")
}

func TestRenderMarkdown_WithNarrative(t *testing.T) {
	summary := sampleSummary()
	summary.OverallSummary = "Two repositories saw activity this week."
	summary.RepoSummaries = map[string]string{"tools": "Retry logic landed in the HTTP client."}

	out, err := RenderMarkdown(summary, repoRootTemplate(t), "Week 4, 2025", "2025-01-20", "2025-01-26")
	require.NoError(t, err)

	assert.Contains(t, out, "Two repositories saw activity this week.")
	assert.Contains(t, out, "Retry logic landed in the HTTP client.")
}

func TestRenderMarkdown_NarrativeAbsent(t *testing.T) {
	// Rendering must work with the narrative fields absent entirely.
	out, err := RenderMarkdown(&domain.Summary{}, repoRootTemplate(t), "Week 1, 2025", "2024-12-30", "2025-01-05")
	require.NoError(t, err)

	assert.Contains(t, out, "**0** repositories with activity")
	assert.NotContains(t, out, "## Most active repositories")
}

func TestRenderMarkdown_MissingTemplate(t *testing.T) {
	_, err := RenderMarkdown(sampleSummary(), filepath.Join(t.TempDir(), "nope.tmpl"), "x", "y", "z")
	assert.Error(t, err)
}
