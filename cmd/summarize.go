package cmd

import (
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/naka-gawa/repo-miner/internal/domain"
	"github.com/naka-gawa/repo-miner/internal/table"
	"github.com/naka-gawa/repo-miner/internal/usecase"
)

func newSummarizeCmd() *cobra.Command {
	summarizeCmd := &cobra.Command{
		Use:   "summarize",
		Short: "Summarize previously fetched commits and issues tables",
		Long: `Reads a commits CSV and an issues CSV written by fetch-commits and fetch-issues and
prints commit counts, the commit date range, top committers and issue state statistics.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(cmd, cmd.ErrOrStderr())
			commitsPath, _ := cmd.Flags().GetString("commits")
			issuesPath, _ := cmd.Flags().GetString("issues")
			formatStr, _ := cmd.Flags().GetString("format")
			format, err := resolveFormat(formatStr, cmd.OutOrStdout())
			if err != nil {
				return err
			}

			// The two tables are independent, so load them concurrently.
			var commits []domain.CommitRecord
			var issues []domain.IssueRecord
			var eg errgroup.Group
			eg.Go(func() error {
				var err error
				commits, err = table.ReadCommits(commitsPath)
				return err
			})
			eg.Go(func() error {
				var err error
				issues, err = table.ReadIssues(issuesPath)
				return err
			})
			if err := eg.Wait(); err != nil {
				return err
			}
			logger.WithField("commits", len(commits)).WithField("issues", len(issues)).Debug("Tables loaded.")

			report, err := usecase.Summarize(commits, issues)
			if err != nil {
				return err
			}
			return writeSummary(cmd.OutOrStdout(), report, format)
		},
	}
	summarizeCmd.Flags().String("commits", "", "Path to a commits CSV (required)")
	summarizeCmd.Flags().String("issues", "", "Path to an issues CSV (required)")
	summarizeCmd.Flags().String("format", formatAuto, "Output format: auto, text or json (auto prints text on a terminal)")
	summarizeCmd.MarkFlagRequired("commits")
	summarizeCmd.MarkFlagRequired("issues")
	return summarizeCmd
}
