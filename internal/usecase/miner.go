// Package usecase contains the business logic of the application.
package usecase

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/naka-gawa/repo-miner/internal/domain"
	"github.com/naka-gawa/repo-miner/internal/gateway"
)

// Miner is the use case for turning upstream records into table rows.
// It validates the request, fetches raw records and normalizes them in order.
type Miner struct {
	fetcher gateway.Fetcher
	logger  logrus.FieldLogger
}

// NewMiner creates a new Miner instance.
func NewMiner(fetcher gateway.Fetcher, logger logrus.FieldLogger) *Miner {
	return &Miner{
		fetcher: fetcher,
		logger:  logger,
	}
}

// Commits returns at most q.Max normalized commits of repo, in upstream order.
func (m *Miner) Commits(ctx context.Context, repo string, q gateway.CommitQuery) ([]domain.CommitRecord, error) {
	ref, err := domain.ParseRepo(repo)
	if err != nil {
		return nil, err
	}
	if err := checkMax(q.Max); err != nil {
		return nil, err
	}

	raw, err := m.fetcher.FetchCommits(ctx, ref, q)
	if err != nil {
		return nil, err
	}
	records := make([]domain.CommitRecord, 0, len(raw))
	for _, c := range raw {
		record, err := NormalizeCommit(c)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	m.logger.WithFields(logrus.Fields{"repo": ref.String(), "count": len(records)}).Info("Usecase: commits normalized.")
	return records, nil
}

// Issues returns at most q.Max normalized issues of repo, in upstream order.
func (m *Miner) Issues(ctx context.Context, repo string, q gateway.IssueQuery) ([]domain.IssueRecord, error) {
	ref, err := domain.ParseRepo(repo)
	if err != nil {
		return nil, err
	}
	if err := checkMax(q.Max); err != nil {
		return nil, err
	}
	if q.State, err = domain.ParseStateFilter(string(q.State)); err != nil {
		return nil, err
	}

	raw, err := m.fetcher.FetchIssues(ctx, ref, q)
	if err != nil {
		return nil, err
	}
	records := make([]domain.IssueRecord, 0, len(raw))
	for _, issue := range raw {
		record, err := NormalizeIssue(issue)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	m.logger.WithFields(logrus.Fields{"repo": ref.String(), "state": q.State, "count": len(records)}).Info("Usecase: issues normalized.")
	return records, nil
}

func checkMax(max int) error {
	if max < 0 {
		return fmt.Errorf("%w: max must be a positive integer, got %d", domain.ErrInvalidArgument, max)
	}
	return nil
}
