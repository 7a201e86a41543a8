// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// ActivityRecord is a single issue or pull request event.
// Author is empty when the originating account no longer exists;
// such records are filtered out upstream for the authored categories.
type ActivityRecord struct {
	Title     string    `json:"title"`
	URL       string    `json:"url"`
	Author    string    `json:"author,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// RepoActivity is the per-repository activity bundle for one reporting run.
// Each slice is already filtered to the requested date window.
type RepoActivity struct {
	Repo         string           `json:"repo"`
	IssuesNew    []ActivityRecord `json:"issues_new"`
	IssuesClosed []ActivityRecord `json:"issues_closed"`
	PRsOpened    []ActivityRecord `json:"prs_opened"`
	PRsMerged    []ActivityRecord `json:"prs_merged"`
}

// RepoStat holds the derived activity counts and ranking score for a single repository.
type RepoStat struct {
	Name          string `json:"name"`
	PRsMerged     int    `json:"prs_merged"`
	PRsOpened     int    `json:"prs_opened"`
	IssuesNew     int    `json:"issues_new"`
	IssuesClosed  int    `json:"issues_closed"`
	ActivityScore int    `json:"activity_score"`
}

// RepoGroup pairs a repository name with its records for one activity
// category. Groupings hold only repositories with at least one record and
// are kept sorted by name for deterministic report output.
type RepoGroup struct {
	Repo  string           `json:"repo"`
	Items []ActivityRecord `json:"items"`
}

// Summary is the aggregated result of one reporting run.
// The narrative fields are additive: rendering must work with them empty.
type Summary struct {
	ReposActive        int `json:"repos_active"`
	IssuesNew          int `json:"issues_new"`
	IssuesClosed       int `json:"issues_closed"`
	PRsOpened          int `json:"prs_opened"`
	PRsMerged          int `json:"prs_merged"`
	ContributorsUnique int `json:"contributors_unique"`

	TopRepos []RepoStat `json:"top_repos"`

	MergedPRsByRepo    []RepoGroup `json:"merged_prs_by_repo"`
	NewIssuesByRepo    []RepoGroup `json:"new_issues_by_repo"`
	ClosedIssuesByRepo []RepoGroup `json:"closed_issues_by_repo"`

	RepoSummaries  map[string]string `json:"repo_summaries,omitempty"`
	OverallSummary string            `json:"overall_summary,omitempty"`
}
