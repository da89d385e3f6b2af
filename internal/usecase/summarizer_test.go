package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestSummarize(t *testing.T) {
	closedAt := day(2021, 1, 5)
	testCases := []struct {
		name     string
		commits  []domain.CommitRecord
		issues   []domain.IssueRecord
		expected *domain.SummaryReport
	}{
		{
			name: "empty tables",
			expected: &domain.SummaryReport{
				IssuesByState: map[string]int{},
				TopCommitters: []domain.AuthorCount{},
			},
		},
		{
			name: "commit date range and issue states",
			commits: []domain.CommitRecord{
				{SHA: "a", Author: "alice", Date: day(2021, 1, 1)},
				{SHA: "b", Author: "bob", Date: day(2021, 6, 1)},
				{SHA: "c", Author: "alice", Date: day(2020, 1, 1)},
			},
			issues: []domain.IssueRecord{
				{Number: 1, State: "open", CreatedAt: day(2021, 1, 1)},
				{Number: 2, State: "open", CreatedAt: day(2021, 1, 2)},
				{Number: 3, State: "closed", CreatedAt: day(2021, 1, 1), ClosedAt: &closedAt},
			},
			expected: &domain.SummaryReport{
				TotalCommits:   3,
				TotalIssues:    3,
				IssuesByState:  map[string]int{"open": 2, "closed": 1},
				EarliestCommit: ptr(day(2020, 1, 1)),
				LatestCommit:   ptr(day(2021, 6, 1)),
				TopCommitters: []domain.AuthorCount{
					{Author: "alice", Commits: 2},
					{Author: "bob", Commits: 1},
				},
				IssueCloseRate:    0.33,
				MeanDaysToClose:   ptr(4.0),
				MedianDaysToClose: ptr(4.0),
			},
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			report, err := Summarize(tc.commits, tc.issues)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, report)
		})
	}
}

func TestSummarize_CloseTimes(t *testing.T) {
	created := day(2022, 3, 1)
	issues := []domain.IssueRecord{}
	for _, days := range []int{1, 2, 9} {
		closed := created.AddDate(0, 0, days)
		issues = append(issues, domain.IssueRecord{State: "closed", CreatedAt: created, ClosedAt: &closed})
	}
	report, err := Summarize(nil, issues)
	require.NoError(t, err)
	assert.Equal(t, 1.0, report.IssueCloseRate)
	require.NotNil(t, report.MeanDaysToClose)
	assert.Equal(t, 4.0, *report.MeanDaysToClose)
	assert.Equal(t, 2.0, *report.MedianDaysToClose)
	assert.Nil(t, report.EarliestCommit)
	assert.Nil(t, report.LatestCommit)
}

func TestSummarize_TopCommittersAreBounded(t *testing.T) {
	var commits []domain.CommitRecord
	for i, author := range []string{"a", "b", "c", "d", "e", "f", "f"} {
		commits = append(commits, domain.CommitRecord{SHA: author, Author: author, Date: day(2021, 1, i+1)})
	}
	report, err := Summarize(commits, nil)
	require.NoError(t, err)
	require.Len(t, report.TopCommitters, topCommitterCount)
	assert.Equal(t, domain.AuthorCount{Author: "f", Commits: 2}, report.TopCommitters[0])
	assert.Equal(t, "a", report.TopCommitters[1].Author)
}

func TestSummarize_SchemaMismatch(t *testing.T) {
	_, err := Summarize([]domain.CommitRecord{{SHA: "x"}}, nil)
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)

	_, err = Summarize(nil, []domain.IssueRecord{{Number: 1, CreatedAt: day(2021, 1, 1)}})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)

	_, err = Summarize(nil, []domain.IssueRecord{{Number: 1, State: "open"}})
	assert.ErrorIs(t, err, domain.ErrSchemaMismatch)
}

func ptr[T any](v T) *T {
	return &v
}
