package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRepo(t *testing.T) {
	testCases := []struct {
		input       string
		expected    RepoRef
		expectError bool
	}{
		{input: "octocat/Hello-World", expected: RepoRef{Owner: "octocat", Name: "Hello-World"}},
		{input: "  owner/repo ", expected: RepoRef{Owner: "owner", Name: "repo"}},
		{input: "", expectError: true},
		{input: "owner", expectError: true},
		{input: "/repo", expectError: true},
		{input: "owner/", expectError: true},
		{input: "a/b/c", expectError: true},
	}
	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			ref, err := ParseRepo(tc.input)
			if tc.expectError {
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.expected, ref)
			assert.Equal(t, tc.expected.Owner+"/"+tc.expected.Name, ref.String())
		})
	}
}

func TestParseStateFilter(t *testing.T) {
	for input, expected := range map[string]StateFilter{
		"":       StateAll,
		"all":    StateAll,
		"open":   StateOpen,
		"Closed": StateClosed,
	} {
		got, err := ParseStateFilter(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, got)
	}

	_, err := ParseStateFilter("merged")
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestIssueRecord_Row(t *testing.T) {
	created := time.Date(2021, 3, 4, 5, 6, 7, 0, time.FixedZone("JST", 9*60*60))
	issue := IssueRecord{ID: 42, Number: 7, Title: "Bug", User: "alice", State: "open", CreatedAt: created, Comments: 3}

	row := issue.Row()
	assert.Len(t, row, len(IssueColumns))
	assert.Equal(t, []string{"42", "7", "Bug", "alice", "open", "2021-03-03T20:06:07Z", "", "3"}, row)

	closed := created.Add(48 * time.Hour)
	issue.ClosedAt = &closed
	assert.Equal(t, "2021-03-05T20:06:07Z", issue.Row()[6])
}

func TestCommitRecord_Row(t *testing.T) {
	c := CommitRecord{SHA: "abc", Author: "Bob", Email: "b@example.com", Date: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), Message: "init"}
	assert.Len(t, c.Row(), len(CommitColumns))
	assert.Equal(t, "2020-01-01T00:00:00Z", c.Row()[3])
}
