// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/orgpulse/orgpulse/internal/newspost"
)

var newspostCmd = &cobra.Command{
	Use:   "newspost",
	Short: "Converts the latest weekly summary into a hub news post",
	Long: `Finds the most recent weekly summary, strips its title header,
rewrites relative image paths, and writes an index.md with the YAML
frontmatter the hub expects.`,
	Run: func(cmd *cobra.Command, args []string) {
		verbose, _ := cmd.InheritedFlags().GetBool("verbose")
		log := newLogger(verbose)
		defer func() { _ = log.Sync() }()

		summariesDir, _ := cmd.Flags().GetString("summaries-dir")
		outputDir, _ := cmd.Flags().GetString("output-dir")

		outPath, err := newspost.Convert(summariesDir, outputDir)
		if err != nil {
			fail("Failed to convert summary: %v\n", err)
		}
		log.Infof("Created: %s", outPath)
	},
}

func init() {
	rootCmd.AddCommand(newspostCmd)
	newspostCmd.Flags().String("summaries-dir", filepath.Join("summaries", "weekly"), "Directory containing weekly summaries")
	newspostCmd.Flags().String("output-dir", "news-post", "Directory to write the news post into")
}
