// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orgpulse/orgpulse/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "orgpulse",
	Short: "A CLI tool to generate organization activity summaries.",
	Long: `orgpulse polls a GitHub organization's repositories for issue and
pull request activity over a reporting period, aggregates it into ranked
summary metrics, optionally adds model-generated narrative summaries, and
renders a markdown report.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// newLogger builds the command logger; --verbose lowers the level to debug.
func newLogger(verbose bool) *zap.SugaredLogger {
	level := "info"
	if verbose {
		level = "debug"
	}
	log, err := logger.New(level)
	if err != nil {
		fail("Failed to create logger: %v\n", err)
	}
	return log
}

func init() {
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
}
