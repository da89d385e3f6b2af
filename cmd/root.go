// Package cmd contains all the CLI commands for the application,
// built using the Cobra library.
package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/naka-gawa/repo-miner/internal/config"
	"github.com/naka-gawa/repo-miner/internal/domain"
)

// Exit codes returned by the binary.
const (
	exitFailure         = 1
	exitInvalidArgument = 2
	exitNotFound        = 3
	exitRateLimit       = 4
	exitSchemaMismatch  = 5
)

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "repo-miner",
		Short: "Fetch GitHub commits and issues into CSV tables and summarize them.",
		Long: `repo-miner fetches commit and issue metadata of a GitHub repository,
writes them to CSV tables, and summarizes previously written tables.
The API token is read from the config file or the GITHUB_TOKEN environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		// Runs before cobra's own required flag check so a missing flag is reported as invalid input.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.ValidateRequiredFlags(); err != nil {
				return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
			}
			return nil
		},
	}
	// Add a persistent flag for verbose output, available to all commands.
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (default "+config.DefaultPath+" if present)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", domain.ErrInvalidArgument, err)
	})

	rootCmd.AddCommand(newFetchCommitsCmd(), newFetchIssuesCmd(), newSummarizeCmd())
	return rootCmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidArgument):
		return exitInvalidArgument
	case errors.Is(err, domain.ErrNotFound):
		return exitNotFound
	case errors.Is(err, domain.ErrRateLimit):
		return exitRateLimit
	case errors.Is(err, domain.ErrSchemaMismatch):
		return exitSchemaMismatch
	}
	return exitFailure
}

// newLogger logs to w at warn level, or debug level when verbose.
func newLogger(cmd *cobra.Command, w io.Writer) *logrus.Logger {
	verbose, _ := cmd.Flags().GetBool("verbose")
	logger := logrus.New()
	logger.SetOutput(w)
	logger.SetLevel(logrus.WarnLevel)
	if verbose {
		logger.SetLevel(logrus.DebugLevel)
	}
	return logger
}

// loadConfig reads the config named by --config and checks it is usable for API calls.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
