package usecase

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/orgpulse/orgpulse/internal/domain"
)

func rec(author string) domain.ActivityRecord {
	return domain.ActivityRecord{Title: "item", URL: "https://example.com", Author: author}
}

func TestAggregator_Aggregate(t *testing.T) {
	agg := NewAggregator(nil)

	testCases := []struct {
		name   string
		input  []domain.RepoActivity
		verify func(t *testing.T, s *domain.Summary)
	}{
		{
			name:  "empty input yields zeroed summary with empty collections",
			input: []domain.RepoActivity{},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Equal(t, 0, s.ReposActive)
				assert.Equal(t, 0, s.IssuesNew)
				assert.Equal(t, 0, s.IssuesClosed)
				assert.Equal(t, 0, s.PRsOpened)
				assert.Equal(t, 0, s.PRsMerged)
				assert.Equal(t, 0, s.ContributorsUnique)
				assert.Empty(t, s.TopRepos)
				assert.NotNil(t, s.TopRepos)
				assert.Empty(t, s.MergedPRsByRepo)
				assert.Empty(t, s.NewIssuesByRepo)
				assert.Empty(t, s.ClosedIssuesByRepo)
			},
		},
		{
			name: "single repo with one record per category",
			input: []domain.RepoActivity{{
				Repo:         "test-repo",
				IssuesNew:    []domain.ActivityRecord{rec("user1")},
				IssuesClosed: []domain.ActivityRecord{{Title: "closed"}},
				PRsOpened:    []domain.ActivityRecord{rec("user2")},
				PRsMerged:    []domain.ActivityRecord{rec("user1")},
			}},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Equal(t, 1, s.ReposActive)
				assert.Equal(t, 1, s.IssuesNew)
				assert.Equal(t, 1, s.IssuesClosed)
				assert.Equal(t, 1, s.PRsOpened)
				assert.Equal(t, 1, s.PRsMerged)
				assert.Equal(t, 2, s.ContributorsUnique)
			},
		},
		{
			name: "repo with no activity is not counted as active",
			input: []domain.RepoActivity{{
				Repo: "inactive-repo",
			}},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Equal(t, 0, s.ReposActive)
				assert.Empty(t, s.TopRepos)
			},
		},
		{
			name: "same contributor across categories counts once",
			input: []domain.RepoActivity{{
				Repo:      "test-repo",
				IssuesNew: []domain.ActivityRecord{rec("user1"), rec("user1")},
				PRsOpened: []domain.ActivityRecord{rec("user1")},
				PRsMerged: []domain.ActivityRecord{rec("user1")},
			}},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Equal(t, 1, s.ContributorsUnique)
			},
		},
		{
			name: "authorless record in an authored category is skipped",
			input: []domain.RepoActivity{{
				Repo:      "test-repo",
				IssuesNew: []domain.ActivityRecord{rec("user1"), {Title: "ghost"}},
			}},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Equal(t, 1, s.ContributorsUnique)
			},
		},
		{
			name: "repos are ranked by activity score",
			input: []domain.RepoActivity{
				{
					Repo:      "low-activity",
					IssuesNew: []domain.ActivityRecord{rec("u1")},
				},
				{
					Repo:      "high-activity",
					PRsMerged: []domain.ActivityRecord{rec("u1"), rec("u2"), rec("u3")},
				},
			},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Len(t, s.TopRepos, 2)
				assert.Equal(t, "high-activity", s.TopRepos[0].Name)
				assert.Equal(t, 9, s.TopRepos[0].ActivityScore)
				assert.Equal(t, "low-activity", s.TopRepos[1].Name)
				assert.Equal(t, 1, s.TopRepos[1].ActivityScore)
			},
		},
		{
			name: "activity score weights merged 3 opened 2 closed 1 new 1",
			input: []domain.RepoActivity{{
				Repo:         "test",
				IssuesNew:    []domain.ActivityRecord{rec("u")},
				IssuesClosed: []domain.ActivityRecord{{Title: "closed"}},
				PRsOpened:    []domain.ActivityRecord{rec("u")},
				PRsMerged:    []domain.ActivityRecord{rec("u")},
			}},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Equal(t, 7, s.TopRepos[0].ActivityScore)
			},
		},
		{
			name: "grouped items are sorted by repository name",
			input: []domain.RepoActivity{
				{Repo: "zebra", PRsMerged: []domain.ActivityRecord{rec("u1")}},
				{Repo: "alpha", PRsMerged: []domain.ActivityRecord{rec("u1")}},
			},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Len(t, s.MergedPRsByRepo, 2)
				assert.Equal(t, "alpha", s.MergedPRsByRepo[0].Repo)
				assert.Equal(t, "zebra", s.MergedPRsByRepo[1].Repo)
			},
		},
		{
			name: "grouping omits repos with an empty category",
			input: []domain.RepoActivity{
				{Repo: "issues-only", IssuesNew: []domain.ActivityRecord{rec("u1")}},
				{Repo: "merges-only", PRsMerged: []domain.ActivityRecord{rec("u2")}},
			},
			verify: func(t *testing.T, s *domain.Summary) {
				assert.Len(t, s.NewIssuesByRepo, 1)
				assert.Equal(t, "issues-only", s.NewIssuesByRepo[0].Repo)
				assert.Len(t, s.MergedPRsByRepo, 1)
				assert.Equal(t, "merges-only", s.MergedPRsByRepo[0].Repo)
				assert.Empty(t, s.ClosedIssuesByRepo)
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tc.verify(t, agg.Aggregate(tc.input))
		})
	}
}

func TestAggregator_TopReposTruncation(t *testing.T) {
	agg := NewAggregator(nil)

	input := make([]domain.RepoActivity, 0, 15)
	for i := 0; i < 15; i++ {
		input = append(input, domain.RepoActivity{
			Repo:      fmt.Sprintf("repo-%02d", i),
			IssuesNew: []domain.ActivityRecord{rec("u1")},
		})
	}

	s := agg.Aggregate(input)
	assert.Len(t, s.TopRepos, 10)
}

func TestAggregator_TopReposTieBreakIsStable(t *testing.T) {
	agg := NewAggregator(nil)

	// Equal scores keep their input order.
	input := []domain.RepoActivity{
		{Repo: "second", IssuesNew: []domain.ActivityRecord{rec("u1")}},
		{Repo: "first", PRsMerged: []domain.ActivityRecord{rec("u1")}},
		{Repo: "third", IssuesClosed: []domain.ActivityRecord{{Title: "closed"}}},
	}

	s := agg.Aggregate(input)
	assert.Equal(t, []string{"first", "second", "third"}, []string{
		s.TopRepos[0].Name, s.TopRepos[1].Name, s.TopRepos[2].Name,
	})
}

func TestAggregator_ZeroScoreExcludedFromTopRepos(t *testing.T) {
	agg := NewAggregator(nil)

	// A zero-score repo occupies a top-10 slot by position but is dropped
	// after truncation, so fewer than 10 entries come back.
	input := []domain.RepoActivity{
		{Repo: "active", PRsMerged: []domain.ActivityRecord{rec("u1")}},
		{Repo: "idle"},
	}

	s := agg.Aggregate(input)
	assert.Len(t, s.TopRepos, 1)
	assert.Equal(t, "active", s.TopRepos[0].Name)
	assert.Equal(t, 1, s.ReposActive)
}
