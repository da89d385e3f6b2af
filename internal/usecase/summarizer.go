package usecase

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

// topCommitterCount bounds SummaryReport.TopCommitters.
const topCommitterCount = 5

// Summarize aggregates a commits table and an issues table into a SummaryReport.
// Empty tables are valid and yield zero counts and a nil date range.
func Summarize(commits []domain.CommitRecord, issues []domain.IssueRecord) (*domain.SummaryReport, error) {
	report := &domain.SummaryReport{
		TotalCommits:  len(commits),
		TotalIssues:   len(issues),
		IssuesByState: make(map[string]int),
		TopCommitters: []domain.AuthorCount{},
	}

	authorCounts := make(map[string]int)
	for i, c := range commits {
		if c.Date.IsZero() {
			return nil, fmt.Errorf("%w: commit row %d (%s) has no date", domain.ErrSchemaMismatch, i+1, c.SHA)
		}
		date := c.Date
		if report.EarliestCommit == nil || date.Before(*report.EarliestCommit) {
			report.EarliestCommit = &date
		}
		if report.LatestCommit == nil || date.After(*report.LatestCommit) {
			report.LatestCommit = &date
		}
		authorCounts[c.Author]++
	}
	report.TopCommitters = topCommitters(authorCounts, topCommitterCount)

	var daysToClose stats.Float64Data
	for i, issue := range issues {
		if issue.State == "" {
			return nil, fmt.Errorf("%w: issue row %d (#%d) has no state", domain.ErrSchemaMismatch, i+1, issue.Number)
		}
		if issue.CreatedAt.IsZero() {
			return nil, fmt.Errorf("%w: issue row %d (#%d) has no created_at", domain.ErrSchemaMismatch, i+1, issue.Number)
		}
		report.IssuesByState[issue.State]++
		if issue.ClosedAt != nil {
			daysToClose = append(daysToClose, issue.ClosedAt.Sub(issue.CreatedAt).Hours()/24)
		}
	}

	if len(issues) > 0 {
		rate, err := stats.Round(float64(report.IssuesByState["closed"])/float64(len(issues)), 2)
		if err != nil {
			return nil, fmt.Errorf("failed to compute close rate: %w", err)
		}
		report.IssueCloseRate = rate
	}
	if len(daysToClose) > 0 {
		mean, err := roundedStat(daysToClose.Mean)
		if err != nil {
			return nil, fmt.Errorf("failed to compute mean days to close: %w", err)
		}
		median, err := roundedStat(daysToClose.Median)
		if err != nil {
			return nil, fmt.Errorf("failed to compute median days to close: %w", err)
		}
		report.MeanDaysToClose = &mean
		report.MedianDaysToClose = &median
	}
	return report, nil
}

func roundedStat(f func() (float64, error)) (float64, error) {
	v, err := f()
	if err != nil {
		return 0, err
	}
	return stats.Round(v, 2)
}

// topCommitters orders authors by commit count, then name, and keeps the first n.
func topCommitters(counts map[string]int, n int) []domain.AuthorCount {
	out := make([]domain.AuthorCount, 0, len(counts))
	for author, count := range counts {
		out = append(out, domain.AuthorCount{Author: author, Commits: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Commits != out[j].Commits {
			return out[i].Commits > out[j].Commits
		}
		return out[i].Author < out[j].Author
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
