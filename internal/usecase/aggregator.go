// Package usecase contains the business logic of the application.
package usecase

import (
	"sort"

	"go.uber.org/zap"

	"github.com/orgpulse/orgpulse/internal/domain"
)

// topRepoLimit caps the ranked repository list in the summary.
const topRepoLimit = 10

// Aggregator is the use case for turning raw per-repository activity into
// the summary consumed by the renderer.
type Aggregator struct {
	logger *zap.SugaredLogger
}

// NewAggregator creates a new Aggregator instance.
func NewAggregator(logger *zap.SugaredLogger) *Aggregator {
	return &Aggregator{logger: logger}
}

// Aggregate computes summary metrics from one run's activity data.
//
// It is a pure, total function over its input: an empty or partial input list
// (for example when some repositories failed to fetch) yields a valid summary
// with zeroed totals and empty collections. The input is never mutated.
func (a *Aggregator) Aggregate(activity []domain.RepoActivity) *domain.Summary {
	summary := &domain.Summary{
		TopRepos:           []domain.RepoStat{},
		MergedPRsByRepo:    []domain.RepoGroup{},
		NewIssuesByRepo:    []domain.RepoGroup{},
		ClosedIssuesByRepo: []domain.RepoGroup{},
	}

	contributors := make(map[string]struct{})
	stats := make([]domain.RepoStat, 0, len(activity))

	for _, repo := range activity {
		nNew := len(repo.IssuesNew)
		nClosed := len(repo.IssuesClosed)
		nOpened := len(repo.PRsOpened)
		nMerged := len(repo.PRsMerged)

		summary.IssuesNew += nNew
		summary.IssuesClosed += nClosed
		summary.PRsOpened += nOpened
		summary.PRsMerged += nMerged

		if nNew+nClosed+nOpened+nMerged > 0 {
			summary.ReposActive++
		}

		// Closed issues carry no author and contribute nobody here.
		collectAuthors(contributors, repo.PRsOpened)
		collectAuthors(contributors, repo.PRsMerged)
		collectAuthors(contributors, repo.IssuesNew)

		stats = append(stats, domain.RepoStat{
			Name:          repo.Repo,
			PRsMerged:     nMerged,
			PRsOpened:     nOpened,
			IssuesNew:     nNew,
			IssuesClosed:  nClosed,
			ActivityScore: nMerged*3 + nOpened*2 + nClosed + nNew,
		})

		// Repositories with an empty category are omitted from that
		// category's grouping rather than stored as empty entries.
		if nMerged > 0 {
			summary.MergedPRsByRepo = append(summary.MergedPRsByRepo, domain.RepoGroup{Repo: repo.Repo, Items: repo.PRsMerged})
		}
		if nNew > 0 {
			summary.NewIssuesByRepo = append(summary.NewIssuesByRepo, domain.RepoGroup{Repo: repo.Repo, Items: repo.IssuesNew})
		}
		if nClosed > 0 {
			summary.ClosedIssuesByRepo = append(summary.ClosedIssuesByRepo, domain.RepoGroup{Repo: repo.Repo, Items: repo.IssuesClosed})
		}
	}

	summary.ContributorsUnique = len(contributors)

	// Rank by score, keeping equal scores in input order. The order here
	// matters: truncate to the top slots first, then drop zero scores.
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].ActivityScore > stats[j].ActivityScore
	})
	if len(stats) > topRepoLimit {
		stats = stats[:topRepoLimit]
	}
	for _, s := range stats {
		if s.ActivityScore > 0 {
			summary.TopRepos = append(summary.TopRepos, s)
		}
	}

	sortGroups(summary.MergedPRsByRepo)
	sortGroups(summary.NewIssuesByRepo)
	sortGroups(summary.ClosedIssuesByRepo)

	if a.logger != nil {
		a.logger.Debugw("aggregated activity",
			"repos_active", summary.ReposActive,
			"prs_merged", summary.PRsMerged,
			"issues_closed", summary.IssuesClosed,
			"contributors", summary.ContributorsUnique,
		)
	}

	return summary
}

// collectAuthors adds every non-empty record author to the contributor set.
// Authorless records should not reach the authored categories, but skipping
// them keeps the count correct if one slips through.
func collectAuthors(set map[string]struct{}, records []domain.ActivityRecord) {
	for _, rec := range records {
		if rec.Author != "" {
			set[rec.Author] = struct{}{}
		}
	}
}

// sortGroups orders a grouping by repository name ascending.
func sortGroups(groups []domain.RepoGroup) {
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].Repo < groups[j].Repo
	})
}
