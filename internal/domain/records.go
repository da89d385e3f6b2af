package domain

import (
	"strconv"
	"time"
)

// TimeLayout is the canonical timestamp format used in every table.
const TimeLayout = "2006-01-02T15:04:05Z"

// CommitColumns is the header of a commits table.
var CommitColumns = []string{"sha", "author", "email", "date", "message"}

// IssueColumns is the header of an issues table.
var IssueColumns = []string{"id", "number", "title", "user", "state", "created_at", "closed_at", "comments"}

// CommitRecord is one flattened commit.
type CommitRecord struct {
	SHA     string
	Author  string
	Email   string
	Date    time.Time
	Message string
}

// Row returns the record's fields in CommitColumns order.
func (c CommitRecord) Row() []string {
	return []string{c.SHA, c.Author, c.Email, FormatTime(c.Date), c.Message}
}

// IssueRecord is one flattened issue. ClosedAt is nil for issues that were never closed.
type IssueRecord struct {
	ID        int64
	Number    int
	Title     string
	User      string
	State     string
	CreatedAt time.Time
	ClosedAt  *time.Time
	Comments  int
}

// Row returns the record's fields in IssueColumns order.
func (i IssueRecord) Row() []string {
	closedAt := ""
	if i.ClosedAt != nil {
		closedAt = FormatTime(*i.ClosedAt)
	}
	return []string{
		strconv.FormatInt(i.ID, 10),
		strconv.Itoa(i.Number),
		i.Title,
		i.User,
		i.State,
		FormatTime(i.CreatedAt),
		closedAt,
		strconv.Itoa(i.Comments),
	}
}

// FormatTime renders t in TimeLayout, in UTC.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeLayout)
}

// ParseTime is the inverse of FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(TimeLayout, s)
}
