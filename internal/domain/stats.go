// Package domain contains the core data structures and domain logic for the application.
package domain

import "time"

// SummaryReport holds aggregate statistics over a commits table and an issues table.
// It is computed fresh on every summarize run and never persisted.
type SummaryReport struct {
	TotalCommits   int            `json:"total_commits"`
	TotalIssues    int            `json:"total_issues"`
	IssuesByState  map[string]int `json:"issues_by_state"`
	EarliestCommit *time.Time     `json:"earliest_commit"`
	LatestCommit   *time.Time     `json:"latest_commit"`
	TopCommitters  []AuthorCount  `json:"top_committers"`
	IssueCloseRate float64        `json:"issue_close_rate"`
	// Close-time statistics are nil when no issue carries a closed_at timestamp.
	MeanDaysToClose   *float64 `json:"mean_days_to_close"`
	MedianDaysToClose *float64 `json:"median_days_to_close"`
}

// AuthorCount is the number of commits attributed to one author name.
type AuthorCount struct {
	Author  string `json:"author"`
	Commits int    `json:"commits"`
}
