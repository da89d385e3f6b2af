package usecase

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

// NormalizeCommit flattens a raw commit into a CommitRecord.
// A missing sha, commit, commit author, author date or message is a schema mismatch.
func NormalizeCommit(raw *github.RepositoryCommit) (domain.CommitRecord, error) {
	if raw == nil {
		return domain.CommitRecord{}, missingField("commit", "record")
	}
	if raw.SHA == nil || raw.GetSHA() == "" {
		return domain.CommitRecord{}, missingField("commit", "sha")
	}
	sha := raw.GetSHA()
	switch {
	case raw.Commit == nil:
		return domain.CommitRecord{}, missingField("commit "+sha, "commit")
	case raw.Commit.Author == nil:
		return domain.CommitRecord{}, missingField("commit "+sha, "commit.author")
	case raw.Commit.Author.Date == nil:
		return domain.CommitRecord{}, missingField("commit "+sha, "commit.author.date")
	case raw.Commit.Message == nil:
		return domain.CommitRecord{}, missingField("commit "+sha, "commit.message")
	}

	return domain.CommitRecord{
		SHA:     sha,
		Author:  raw.Commit.Author.GetName(),
		Email:   raw.Commit.Author.GetEmail(),
		Date:    canonicalTime(raw.Commit.Author.Date.Time),
		Message: firstLine(raw.Commit.GetMessage()),
	}, nil
}

// NormalizeIssue flattens a raw issue into an IssueRecord.
// A missing number, title, state or creation time is a schema mismatch.
func NormalizeIssue(raw *github.Issue) (domain.IssueRecord, error) {
	if raw == nil {
		return domain.IssueRecord{}, missingField("issue", "record")
	}
	if raw.Number == nil {
		return domain.IssueRecord{}, missingField("issue", "number")
	}
	owner := fmt.Sprintf("issue #%d", raw.GetNumber())
	switch {
	case raw.Title == nil:
		return domain.IssueRecord{}, missingField(owner, "title")
	case raw.State == nil || raw.GetState() == "":
		return domain.IssueRecord{}, missingField(owner, "state")
	case raw.CreatedAt == nil:
		return domain.IssueRecord{}, missingField(owner, "created_at")
	}

	record := domain.IssueRecord{
		ID:        raw.GetID(),
		Number:    raw.GetNumber(),
		Title:     raw.GetTitle(),
		User:      raw.GetUser().GetLogin(),
		State:     strings.ToLower(raw.GetState()),
		CreatedAt: canonicalTime(raw.CreatedAt.Time),
		Comments:  raw.GetComments(),
	}
	if raw.ClosedAt != nil {
		closedAt := canonicalTime(raw.ClosedAt.Time)
		record.ClosedAt = &closedAt
	}
	return record, nil
}

func missingField(owner, field string) error {
	return fmt.Errorf("%w: %s is missing required field %q", domain.ErrSchemaMismatch, owner, field)
}

func canonicalTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimRight(line, "\r")
}
