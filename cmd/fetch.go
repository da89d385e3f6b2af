package cmd

import (
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-miner/internal/domain"
	"github.com/naka-gawa/repo-miner/internal/gateway"
	"github.com/naka-gawa/repo-miner/internal/table"
	"github.com/naka-gawa/repo-miner/internal/usecase"
)

func newFetchCommitsCmd() *cobra.Command {
	fetchCommitsCmd := &cobra.Command{
		Use:   "fetch-commits",
		Short: "Fetch commits of a repository and save them to CSV",
		Long: `Fetches commits of a GitHub repository, newest first, and writes one row per commit
(sha, author, email, date, message) to the output CSV file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _ := cmd.Flags().GetString("repo")
			out, _ := cmd.Flags().GetString("out")
			sinceStr, _ := cmd.Flags().GetString("since")
			untilStr, _ := cmd.Flags().GetString("until")
			max, err := maxFlag(cmd)
			if err != nil {
				return err
			}
			since, until, err := parseDateRange(sinceStr, untilStr, time.Now())
			if err != nil {
				return err
			}

			miner, err := newMiner(cmd)
			if err != nil {
				return err
			}
			records, err := miner.Commits(cmd.Context(), repo, gateway.CommitQuery{Max: max, Since: since, Until: until})
			if err != nil {
				return err
			}
			if err := table.WriteCommits(out, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d commits to %s\n", len(records), out)
			return nil
		},
	}
	fetchCommitsCmd.Flags().StringP("repo", "r", "", "Repository in owner/repo format (required)")
	fetchCommitsCmd.Flags().Int("max", 0, "Max number of commits to fetch")
	fetchCommitsCmd.Flags().StringP("out", "o", "", "Path to output commits CSV (required)")
	fetchCommitsCmd.Flags().String("since", "", `Only commits on or after this date, e.g. "2024-01-31" or "2 weeks ago"`)
	fetchCommitsCmd.Flags().String("until", "", `Only commits on or before this date, e.g. "2024-02-29" or "yesterday"`)
	fetchCommitsCmd.MarkFlagRequired("repo")
	fetchCommitsCmd.MarkFlagRequired("out")
	return fetchCommitsCmd
}

func newFetchIssuesCmd() *cobra.Command {
	fetchIssuesCmd := &cobra.Command{
		Use:   "fetch-issues",
		Short: "Fetch issues of a repository and save them to CSV",
		Long: `Fetches issues (pull requests excluded) of a GitHub repository, newest first, and writes
one row per issue (id, number, title, user, state, created_at, closed_at, comments) to the output CSV file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, _ := cmd.Flags().GetString("repo")
			out, _ := cmd.Flags().GetString("out")
			stateStr, _ := cmd.Flags().GetString("state")
			apiStr, _ := cmd.Flags().GetString("api")
			max, err := maxFlag(cmd)
			if err != nil {
				return err
			}
			state, err := domain.ParseStateFilter(stateStr)
			if err != nil {
				return err
			}
			api, err := gateway.ParseAPI(apiStr)
			if err != nil {
				return err
			}

			miner, err := newMiner(cmd)
			if err != nil {
				return err
			}
			records, err := miner.Issues(cmd.Context(), repo, gateway.IssueQuery{State: state, Max: max, API: api})
			if err != nil {
				return err
			}
			if err := table.WriteIssues(out, records); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved %d issues to %s\n", len(records), out)
			return nil
		},
	}
	fetchIssuesCmd.Flags().StringP("repo", "r", "", "Repository in owner/repo format (required)")
	fetchIssuesCmd.Flags().String("state", string(domain.StateAll), "Issue state to fetch: all, open or closed")
	fetchIssuesCmd.Flags().Int("max", 0, "Max number of issues to fetch")
	fetchIssuesCmd.Flags().StringP("out", "o", "", "Path to output issues CSV (required)")
	fetchIssuesCmd.Flags().String("api", string(gateway.APIREST), "GitHub API used to list issues: rest or graphql")
	fetchIssuesCmd.MarkFlagRequired("repo")
	fetchIssuesCmd.MarkFlagRequired("out")
	return fetchIssuesCmd
}

// maxFlag returns --max, or 0 when it was not given. A given value must be positive.
func maxFlag(cmd *cobra.Command) (int, error) {
	max, _ := cmd.Flags().GetInt("max")
	if cmd.Flags().Changed("max") && max <= 0 {
		return 0, fmt.Errorf("%w: --max must be a positive integer, got %d", domain.ErrInvalidArgument, max)
	}
	return max, nil
}

// newMiner injects the configured gateway into the mining use case.
func newMiner(cmd *cobra.Command) (*usecase.Miner, error) {
	logger := newLogger(cmd, cmd.ErrOrStderr())
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	githubGateway, err := gateway.NewGitHubGateway(gateway.Options{
		Token:      cfg.Token,
		BaseURL:    cfg.BaseURL,
		PerPage:    cfg.PerPage,
		SleepLimit: cfg.RateLimitSleep,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create GitHub gateway: %w", err)
	}
	logger.WithFields(logrus.Fields{"base_url": cfg.BaseURL, "per_page": cfg.PerPage}).Debug("GitHub gateway ready")
	return usecase.NewMiner(githubGateway, logger), nil
}
