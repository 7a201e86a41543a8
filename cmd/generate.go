// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fatih/color"
	"github.com/montanaflynn/stats"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orgpulse/orgpulse/internal/config"
	"github.com/orgpulse/orgpulse/internal/domain"
	"github.com/orgpulse/orgpulse/internal/gateway"
	"github.com/orgpulse/orgpulse/internal/period"
	"github.com/orgpulse/orgpulse/internal/renderer"
	"github.com/orgpulse/orgpulse/internal/summarizer"
	"github.com/orgpulse/orgpulse/internal/usecase"
)

var errorColor = color.New(color.FgRed)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generates the activity summary report",
	Long: `Fetches issue and pull request activity for every repository in the
configured organization over the selected period, aggregates it, and writes
the rendered markdown report to the configured output directory.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		log := newLogger(verbose)
		defer func() { _ = log.Sync() }()

		periodStr, _ := cmd.Flags().GetString("period")
		startStr, _ := cmd.Flags().GetString("start")
		endStr, _ := cmd.Flags().GetString("end")
		configPath, _ := cmd.Flags().GetString("config")
		templatePath, _ := cmd.Flags().GetString("template")
		dryRun, _ := cmd.Flags().GetBool("dry-run")
		noAI, _ := cmd.Flags().GetBool("no-ai")

		cfg, err := config.Load(configPath)
		if err != nil {
			fail("Config error: %v\n", err)
		}

		token := os.Getenv("GITHUB_TOKEN")
		if token == "" {
			fail("Error: GITHUB_TOKEN environment variable is not set.\n")
		}

		explicitStart, err := parseDateFlag(startStr)
		if err != nil {
			fail("Invalid --start date format. Please use YYYY-MM-DD. Error: %v\n", err)
		}
		explicitEnd, err := parseDateFlag(endStr)
		if err != nil {
			fail("Invalid --end date format. Please use YYYY-MM-DD. Error: %v\n", err)
		}

		kind := period.Kind(periodStr)
		start, end := period.Range(kind, time.Now().UTC(), explicitStart, explicitEnd, cfg.PeriodDays(periodStr))
		log.Infof("Period: %s", periodStr)
		log.Infof("Date range: %s to %s", start.Format(time.DateOnly), end.Format(time.DateOnly))

		githubGateway, err := gateway.NewGitHubGateway(token, cfg.API, log)
		if err != nil {
			fail("Failed to create GitHub gateway: %v\n", err)
		}

		repos, err := githubGateway.FetchOrgRepos(ctx, cfg.Organization)
		if err != nil {
			fail("Failed to fetch repositories: %v\n", err)
		}

		kept := repos[:0]
		for _, repo := range repos {
			if !cfg.IsExcluded(repo) {
				kept = append(kept, repo)
			}
		}
		log.Infof("After exclusions: %d repositories", len(kept))

		activity := githubGateway.FetchAllActivity(ctx, cfg.Organization, kept, start, end)

		aggregator := usecase.NewAggregator(log)
		summary := aggregator.Aggregate(activity)
		log.Infof("Summary: %d active repos, %d PRs merged, %d issues closed, %d contributors",
			summary.ReposActive, summary.PRsMerged, summary.IssuesClosed, summary.ContributorsUnique)
		logScoreDistribution(log, summary)

		if !noAI {
			enricher := summarizer.New(cfg.Organization, cfg.AI, cfg.API.MaxWorkers, log)
			repoSummaries := enricher.GenerateRepoSummaries(ctx, kind, activity)
			if len(repoSummaries) > 0 {
				summary.RepoSummaries = repoSummaries
				overall, err := enricher.GenerateOverallSummary(ctx, kind, summary, repoSummaries)
				if err != nil {
					log.Errorw("failed to generate overall summary", "error", err)
				} else {
					summary.OverallSummary = overall
				}
			}
		}

		label := period.Label(kind, start, end)
		markdown, err := renderer.RenderMarkdown(summary, templatePath, label, start.Format(time.DateOnly), end.Format(time.DateOnly))
		if err != nil {
			fail("Failed to render report: %v\n", err)
		}

		if dryRun {
			color.New(color.FgCyan, color.Bold).Fprintf(os.Stderr, "--- dry run: %s ---\n", label)
			fmt.Println(markdown)
			return
		}

		outputPath := filepath.Join(cfg.OutputDir, periodStr, period.OutputFilename(kind, start, end))
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			fail("Failed to create output directory: %v\n", err)
		}
		if err := os.WriteFile(outputPath, []byte(markdown), 0o644); err != nil {
			fail("Failed to write report: %v\n", err)
		}
		log.Infof("Output written to: %s", outputPath)
	},
}

// logScoreDistribution emits the activity score spread of the ranked repos
// for tuning the weighting, debug level only.
func logScoreDistribution(log *zap.SugaredLogger, summary *domain.Summary) {
	if len(summary.TopRepos) == 0 {
		return
	}
	scores := make([]float64, 0, len(summary.TopRepos))
	for _, repo := range summary.TopRepos {
		scores = append(scores, float64(repo.ActivityScore))
	}
	mean, err := stats.Mean(scores)
	if err != nil {
		return
	}
	median, err := stats.Median(scores)
	if err != nil {
		return
	}
	log.Debugw("activity score distribution", "repos", len(scores), "mean", mean, "median", median)
}

func parseDateFlag(value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.Parse(time.DateOnly, value)
	if err != nil {
		return nil, err
	}
	t = t.UTC()
	return &t, nil
}

func fail(format string, args ...any) {
	errorColor.Fprintf(os.Stderr, format, args...)
	os.Exit(1)
}

func init() {
	rootCmd.AddCommand(generateCmd)
	generateCmd.Flags().String("period", "weekly", "Summary period (weekly, monthly, yearly)")
	generateCmd.Flags().String("start", "", "Custom start date (YYYY-MM-DD)")
	generateCmd.Flags().String("end", "", "Custom end date (YYYY-MM-DD)")
	generateCmd.Flags().String("config", "config.yml", "Config file path")
	generateCmd.Flags().String("template", filepath.Join("templates", "summary.md.tmpl"), "Template file path")
	generateCmd.Flags().Bool("dry-run", false, "Print output to stdout instead of file")
	generateCmd.Flags().Bool("no-ai", false, "Skip model-generated summaries")
}
