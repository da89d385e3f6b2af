package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	naturaldate "github.com/tj/go-naturaldate"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

const dateFormat = "2006-01-02"

// parseDateRange resolves the --since and --until flag values into a [since, until] range.
//
// Both flags accept either an exact date (YYYY-MM-DD) or a natural language expression
// such as "yesterday", "2 weeks ago", or "last monday", relative to now.
// --since is moved to the start of its day and --until to the end of its day.
// An empty value leaves that side unbounded and yields the zero time.
func parseDateRange(sinceStr, untilStr string, now time.Time) (time.Time, time.Time, error) {
	var since, until time.Time
	if sinceStr != "" {
		t, err := parseDate(sinceStr, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid --since value %q: %v", domain.ErrInvalidArgument, sinceStr, err)
		}
		since = startOfDay(t)
	}
	if untilStr != "" {
		t, err := parseDate(untilStr, now)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: invalid --until value %q: %v", domain.ErrInvalidArgument, untilStr, err)
		}
		until = endOfDay(t)
	}

	if !since.IsZero() && !until.IsZero() && since.After(until) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: --since (%s) must be before --until (%s)",
			domain.ErrInvalidArgument, since.Format(dateFormat), until.Format(dateFormat))
	}
	return since, until, nil
}

// presentWords are the expressions naturaldate may legitimately resolve to the reference time itself.
var presentWords = map[string]bool{
	"now":       true,
	"right now": true,
	"today":     true,
}

// parseDate tries YYYY-MM-DD first, then falls back to natural language parsing.
// naturaldate returns ref unchanged for text it does not understand, so that result
// is only accepted for expressions meaning the present.
func parseDate(s string, ref time.Time) (time.Time, error) {
	if t, err := time.ParseInLocation(dateFormat, s, ref.Location()); err == nil {
		return t, nil
	}
	t, err := naturaldate.Parse(s, ref)
	if err != nil {
		return time.Time{}, err
	}
	if t.Equal(ref) && !presentWords[strings.ToLower(strings.TrimSpace(s))] {
		return time.Time{}, errors.New("not a date or a recognised relative expression")
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, 0, t.Location())
}
