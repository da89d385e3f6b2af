package cmd

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

func TestParseDateRange(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)

	t.Run("empty values are unbounded", func(t *testing.T) {
		since, until, err := parseDateRange("", "", now)
		require.NoError(t, err)
		assert.True(t, since.IsZero())
		assert.True(t, until.IsZero())
	})

	t.Run("exact dates cover whole days", func(t *testing.T) {
		since, until, err := parseDateRange("2024-01-31", "2024-02-29", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), since)
		assert.Equal(t, time.Date(2024, 2, 29, 23, 59, 59, 0, time.UTC), until)
	})

	t.Run("natural language", func(t *testing.T) {
		since, _, err := parseDateRange("yesterday", "", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), since)
	})

	t.Run("present", func(t *testing.T) {
		_, until, err := parseDateRange("", "now", now)
		require.NoError(t, err)
		assert.Equal(t, time.Date(2024, 3, 15, 23, 59, 59, 0, time.UTC), until)
	})

	t.Run("unrecognised values", func(t *testing.T) {
		for _, tc := range []struct{ since, until string }{
			{since: "garbage"},
			{since: "tomorrw"},
			{until: "not a date at all"},
			{since: "2024-13-45"},
		} {
			_, _, err := parseDateRange(tc.since, tc.until, now)
			assert.ErrorIs(t, err, domain.ErrInvalidArgument, "since=%q until=%q", tc.since, tc.until)
		}
	})

	t.Run("since after until", func(t *testing.T) {
		_, _, err := parseDateRange("2024-03-01", "2024-02-01", now)
		assert.ErrorIs(t, err, domain.ErrInvalidArgument)
	})
}
