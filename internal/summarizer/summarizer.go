// Package summarizer generates narrative summaries of repository activity
// through the Anthropic API. Summaries are purely additive: when the API key
// is absent or a request fails, the report renders without them.
package summarizer

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/orgpulse/orgpulse/internal/config"
	"github.com/orgpulse/orgpulse/internal/domain"
	"github.com/orgpulse/orgpulse/internal/period"
)

const overallContextRepos = 5

// Summarizer produces per-repository and overall activity summaries.
type Summarizer struct {
	client      anthropic.Client
	enabled     bool
	org         string
	model       string
	repoTokens  int
	totalTokens int
	maxWorkers  int
	logger      *zap.SugaredLogger
}

// New builds a Summarizer from config. Without ANTHROPIC_API_KEY in the
// environment the returned instance is disabled and all methods no-op.
func New(org string, aiCfg config.AIConfig, maxWorkers int, logger *zap.SugaredLogger) *Summarizer {
	s := &Summarizer{
		org:         org,
		model:       aiCfg.Model,
		repoTokens:  aiCfg.RepoSummaryTokens,
		totalTokens: aiCfg.OverallSummaryTokens,
		maxWorkers:  maxWorkers,
		logger:      logger,
	}

	key := os.Getenv("ANTHROPIC_API_KEY")
	if key == "" {
		return s
	}

	s.client = anthropic.NewClient(
		option.WithAPIKey(key),
		option.WithRequestTimeout(aiCfg.RequestTimeout),
	)
	s.enabled = true
	return s
}

// Enabled reports whether summary generation is available.
func (s *Summarizer) Enabled() bool {
	return s.enabled
}

// SummarizeRepo generates a short narrative for one repository's activity.
// Repositories with nothing to report return an empty summary.
func (s *Summarizer) SummarizeRepo(ctx context.Context, kind period.Kind, activity domain.RepoActivity) (string, error) {
	if !s.enabled {
		return "", nil
	}

	promptContext := buildRepoContext(activity)
	if promptContext == "" {
		return "", nil
	}

	prompt := fmt.Sprintf(`Summarize %s activity for the %s repository %q in 2-3 sentences.
Write for a general audience. Be factual and specific about what changed. Avoid superlatives, marketing language, and filler phrases like "significant improvements", "major enhancements", "exciting updates", etc. Just state what was done.

%s

Summary:`, period.Phrase(kind), s.org, activity.Repo, promptContext)

	return s.complete(ctx, prompt, s.repoTokens)
}

// GenerateRepoSummaries produces summaries for every repository with
// reportable activity, in parallel. Individual failures are logged and the
// repository simply gets no summary.
func (s *Summarizer) GenerateRepoSummaries(ctx context.Context, kind period.Kind, activity []domain.RepoActivity) map[string]string {
	summaries := make(map[string]string)
	if !s.enabled {
		s.logger.Warn("No ANTHROPIC_API_KEY - skipping narrative summaries")
		return summaries
	}

	var active []domain.RepoActivity
	for _, a := range activity {
		if len(a.PRsMerged) > 0 || len(a.IssuesNew) > 0 || len(a.IssuesClosed) > 0 {
			active = append(active, a)
		}
	}
	s.logger.Infof("Generating narrative summaries for %d repositories...", len(active))

	workers := s.maxWorkers
	if workers < 1 {
		workers = 1
	}

	var mu sync.Mutex
	var eg errgroup.Group
	eg.SetLimit(workers)

	for _, a := range active {
		eg.Go(func() error {
			text, err := s.SummarizeRepo(ctx, kind, a)
			if err != nil {
				s.logger.Errorw("failed to summarize repo", "repo", a.Repo, "error", err)
				return nil
			}
			if text != "" {
				mu.Lock()
				summaries[a.Repo] = text
				mu.Unlock()
				s.logger.Infof("Summarized: %s", a.Repo)
			}
			return nil
		})
	}
	_ = eg.Wait()

	return summaries
}

// GenerateOverallSummary writes an executive summary from the aggregated
// metrics and the top repositories' narratives.
func (s *Summarizer) GenerateOverallSummary(ctx context.Context, kind period.Kind, summary *domain.Summary, repoSummaries map[string]string) (string, error) {
	if !s.enabled {
		return "", nil
	}

	top := summary.TopRepos
	if len(top) > overallContextRepos {
		top = top[:overallContextRepos]
	}

	var repoContext []string
	for _, repo := range top {
		line, ok := repoSummaries[repo.Name]
		if !ok {
			line = fmt.Sprintf("%d PRs merged, %d issues closed", repo.PRsMerged, repo.IssuesClosed)
		}
		repoContext = append(repoContext, fmt.Sprintf("**%s**: %s", repo.Name, line))
	}

	prompt := fmt.Sprintf(`Write a 3-4 sentence summary of %s %s activity.
State the key themes and what was accomplished. Be factual and accessible to non-developers. Avoid superlatives, marketing language, and filler phrases like "significant", "major", "exciting", "enhanced", etc. Just state what happened.

Stats:
- %d repositories had activity
- %d pull requests merged
- %d issues closed
- %d contributors

Top repositories:
%s

Summary:`,
		period.Phrase(kind), s.org,
		summary.ReposActive, summary.PRsMerged, summary.IssuesClosed, summary.ContributorsUnique,
		strings.Join(repoContext, "\n"))

	return s.complete(ctx, prompt, s.totalTokens)
}

func (s *Summarizer) complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	msg, err := s.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(s.model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("message request failed: %w", err)
	}
	if len(msg.Content) == 0 {
		return "", nil
	}
	return strings.TrimSpace(msg.Content[0].Text), nil
}

// buildRepoContext flattens a repository's activity into the prompt context.
// An empty string means there is nothing worth summarizing.
func buildRepoContext(activity domain.RepoActivity) string {
	var parts []string

	if len(activity.PRsMerged) > 0 {
		parts = append(parts, "Merged PRs:\n"+titleList(activity.PRsMerged))
	}
	if len(activity.IssuesNew) > 0 {
		parts = append(parts, "New issues:\n"+titleList(activity.IssuesNew))
	}
	if len(activity.IssuesClosed) > 0 {
		parts = append(parts, "Closed issues:\n"+titleList(activity.IssuesClosed))
	}

	return strings.Join(parts, "\n\n")
}

func titleList(records []domain.ActivityRecord) string {
	lines := make([]string, 0, len(records))
	for _, rec := range records {
		lines = append(lines, "- "+rec.Title)
	}
	return strings.Join(lines, "\n")
}
