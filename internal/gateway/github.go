// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/orgpulse/orgpulse/internal/config"
	"github.com/orgpulse/orgpulse/internal/domain"
)

const perPage = 100

// Fetcher defines the behavior of a gateway for fetching organization
// activity from GitHub.
type Fetcher interface {
	FetchOrgRepos(ctx context.Context, org string) ([]string, error)
	FetchRepoActivity(ctx context.Context, org, repo string, start, end time.Time) (domain.RepoActivity, error)
	FetchAllActivity(ctx context.Context, org string, repos []string, start, end time.Time) []domain.RepoActivity
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *zap.SugaredLogger
	rateDelay     time.Duration
	maxWorkers    int
}

// orgReposQuery pages through an organization's repositories, newest first.
type orgReposQuery struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name       string
				IsArchived bool
				IsEmpty    bool
				UpdatedAt  githubv4.DateTime
			}
		} `graphql:"repositories(first: 100, after: $cursor, orderBy: {field: UPDATED_AT, direction: DESC})"`
	} `graphql:"organization(login: $org)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(token string, apiCfg config.APIConfig, logger *zap.SugaredLogger) (Fetcher, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
		Timeout: apiCfg.RequestTimeout,
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
		rateDelay:     apiCfg.RateLimitDelay,
		maxWorkers:    apiCfg.MaxWorkers,
	}, nil
}

// FetchOrgRepos lists the organization's repositories via GraphQL,
// skipping archived and empty ones.
func (g *GitHubGateway) FetchOrgRepos(ctx context.Context, org string) ([]string, error) {
	g.logger.Infof("Fetching repositories for %s...", org)

	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}

	var repos []string
	for {
		var q orgReposQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("failed to list repositories for %s: %w", org, err)
		}
		for _, node := range q.Organization.Repositories.Nodes {
			if node.IsArchived || node.IsEmpty {
				continue
			}
			repos = append(repos, node.Name)
		}
		if !q.Organization.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		g.pause(ctx)
	}

	g.logger.Infof("Found %d active repositories", len(repos))
	return repos, nil
}

// FetchRepoActivity collects a repository's issue and pull request events
// inside the closed window [start, end]. Both bounds compare by calendar day.
func (g *GitHubGateway) FetchRepoActivity(ctx context.Context, org, repo string, start, end time.Time) (domain.RepoActivity, error) {
	activity := domain.RepoActivity{
		Repo:         repo,
		IssuesNew:    []domain.ActivityRecord{},
		IssuesClosed: []domain.ActivityRecord{},
		PRsOpened:    []domain.ActivityRecord{},
		PRsMerged:    []domain.ActivityRecord{},
	}

	if err := g.fetchIssues(ctx, org, repo, start, end, &activity); err != nil {
		return domain.RepoActivity{}, err
	}
	if err := g.fetchPullRequests(ctx, org, repo, start, end, &activity); err != nil {
		return domain.RepoActivity{}, err
	}

	return activity, nil
}

func (g *GitHubGateway) fetchIssues(ctx context.Context, org, repo string, start, end time.Time, activity *domain.RepoActivity) error {
	opts := &github.IssueListByRepoOptions{
		Since:       start,
		State:       "all",
		Sort:        "updated",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		issues, resp, err := g.restClient.Issues.ListByRepo(ctx, org, repo, opts)
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			// Repo vanished between listing and fetching; nothing to report.
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list issues for %s/%s: %w", org, repo, err)
		}

		for _, issue := range issues {
			// PRs show up in the issues endpoint too.
			if issue.IsPullRequest() {
				continue
			}

			author := issue.GetUser().GetLogin()
			created := issue.GetCreatedAt().Time

			// Skip null-author records rather than inventing an "unknown" author.
			if inWindow(created, start, end) && author != "" {
				activity.IssuesNew = append(activity.IssuesNew, domain.ActivityRecord{
					Title:     issue.GetTitle(),
					URL:       issue.GetHTMLURL(),
					Author:    author,
					Timestamp: created,
				})
			}

			if issue.ClosedAt != nil && inWindow(issue.GetClosedAt().Time, start, end) {
				activity.IssuesClosed = append(activity.IssuesClosed, domain.ActivityRecord{
					Title:     issue.GetTitle(),
					URL:       issue.GetHTMLURL(),
					Timestamp: issue.GetClosedAt().Time,
				})
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.pause(ctx)
	}

	return nil
}

func (g *GitHubGateway) fetchPullRequests(ctx context.Context, org, repo string, start, end time.Time, activity *domain.RepoActivity) error {
	opts := &github.PullRequestListOptions{
		State:       "all",
		Sort:        "created",
		Direction:   "desc",
		ListOptions: github.ListOptions{PerPage: perPage},
	}

	for {
		prs, resp, err := g.restClient.PullRequests.List(ctx, org, repo, opts)
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to list pull requests for %s/%s: %w", org, repo, err)
		}

		for _, pr := range prs {
			created := pr.GetCreatedAt().Time

			// Results are sorted by creation date descending, so everything
			// past this point predates the window.
			if dateOf(created).Before(dateOf(start)) {
				return nil
			}

			author := pr.GetUser().GetLogin()
			if author == "" {
				continue
			}

			if inWindow(created, start, end) {
				activity.PRsOpened = append(activity.PRsOpened, domain.ActivityRecord{
					Title:     pr.GetTitle(),
					URL:       pr.GetHTMLURL(),
					Author:    author,
					Timestamp: created,
				})
			}

			if pr.MergedAt != nil && inWindow(pr.GetMergedAt().Time, start, end) {
				activity.PRsMerged = append(activity.PRsMerged, domain.ActivityRecord{
					Title:     pr.GetTitle(),
					URL:       pr.GetHTMLURL(),
					Author:    author,
					Timestamp: pr.GetMergedAt().Time,
				})
			}
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		g.pause(ctx)
	}

	return nil
}

// FetchAllActivity fetches activity for all repos with a bounded worker pool.
// A failing repository is logged and skipped, so the result may be shorter
// than the input list; downstream aggregation treats that as ordinary input.
func (g *GitHubGateway) FetchAllActivity(ctx context.Context, org string, repos []string, start, end time.Time) []domain.RepoActivity {
	var (
		mu      sync.Mutex
		results []domain.RepoActivity
		failed  []string
	)

	workers := g.maxWorkers
	if workers < 1 {
		workers = 1
	}

	var eg errgroup.Group
	eg.SetLimit(workers)

	for _, repo := range repos {
		eg.Go(func() error {
			activity, err := g.FetchRepoActivity(ctx, org, repo, start, end)
			if err != nil {
				g.logger.Errorw("failed to fetch repo activity", "repo", repo, "error", err)
				mu.Lock()
				failed = append(failed, repo)
				mu.Unlock()
				return nil
			}
			g.logger.Infof("Fetched: %s", repo)
			mu.Lock()
			results = append(results, activity)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	if len(failed) > 0 {
		g.logger.Warnw("some repositories could not be fetched", "count", len(failed), "repos", failed)
	}

	return results
}

// pause spaces out paginated requests without blocking cancellation.
func (g *GitHubGateway) pause(ctx context.Context) {
	if g.rateDelay <= 0 {
		return
	}
	select {
	case <-time.After(g.rateDelay):
	case <-ctx.Done():
	}
}

func inWindow(t, start, end time.Time) bool {
	d := dateOf(t)
	return !d.Before(dateOf(start)) && !d.After(dateOf(end))
}

func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
