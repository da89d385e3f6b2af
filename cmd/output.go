package cmd

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"

	"github.com/mattn/go-isatty"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

const (
	formatAuto = "auto"
	formatText = "text"
	formatJSON = "json"
)

// resolveFormat turns "auto" into text for terminals and JSON for everything else.
func resolveFormat(format string, w io.Writer) (string, error) {
	switch format {
	case formatText, formatJSON:
		return format, nil
	case "", formatAuto:
		if f, ok := w.(*os.File); ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())) {
			return formatText, nil
		}
		return formatJSON, nil
	}
	return "", fmt.Errorf("%w: --format must be auto, text or json, got %q", domain.ErrInvalidArgument, format)
}

func writeSummary(w io.Writer, report *domain.SummaryReport, format string) error {
	if format == formatJSON {
		// Marshal the results into a pretty-printed JSON string.
		jsonData, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal results to JSON: %w", err)
		}
		_, err = fmt.Fprintln(w, string(jsonData))
		return err
	}
	return textSummary(w, report)
}

func textSummary(w io.Writer, report *domain.SummaryReport) error {
	title := cases.Title(language.English)
	bw := bufio.NewWriter(w)

	fmt.Fprintf(bw, "Commits: %d\n", report.TotalCommits)
	if report.EarliestCommit != nil && report.LatestCommit != nil {
		fmt.Fprintf(bw, "  Earliest: %s\n", domain.FormatTime(*report.EarliestCommit))
		fmt.Fprintf(bw, "  Latest:   %s (%d days)\n", domain.FormatTime(*report.LatestCommit),
			daysBetween(*report.EarliestCommit, *report.LatestCommit))
	}
	if len(report.TopCommitters) > 0 {
		bw.WriteString("  Top committers:\n")
		for _, c := range report.TopCommitters {
			label := c.Author
			if label == "" {
				label = "n/a"
			}
			fmt.Fprintf(bw, "    %-24s %d\n", label, c.Commits)
		}
	}

	fmt.Fprintf(bw, "\nIssues: %d\n", report.TotalIssues)
	states := make([]string, 0, len(report.IssuesByState))
	for state := range report.IssuesByState {
		states = append(states, state)
	}
	sort.Strings(states)
	for _, state := range states {
		fmt.Fprintf(bw, "  %s: %d\n", title.String(state), report.IssuesByState[state])
	}
	if report.TotalIssues > 0 {
		fmt.Fprintf(bw, "  Close rate: %.0f%%\n", report.IssueCloseRate*100)
	}
	if report.MeanDaysToClose != nil && report.MedianDaysToClose != nil {
		fmt.Fprintf(bw, "  Days to close: mean %.2f, median %.2f\n", *report.MeanDaysToClose, *report.MedianDaysToClose)
	}
	return bw.Flush()
}

func daysBetween(from, to time.Time) int {
	return int(to.Sub(from).Hours() / 24)
}
