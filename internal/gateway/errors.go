package gateway

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/google/go-github/v62/github"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

// classifyRESTError maps go-github failures onto the domain error kinds.
func classifyRESTError(repo domain.RepoRef, op string, err error) error {
	var rateErr *github.RateLimitError
	if errors.As(err, &rateErr) {
		return fmt.Errorf("%w: %s for %s: resets at %s", domain.ErrRateLimit, op, repo, rateErr.Rate.Reset.Time.UTC().Format(domain.TimeLayout))
	}
	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return fmt.Errorf("%w: %s for %s: secondary rate limit, retry after %s", domain.ErrRateLimit, op, repo, abuseErr.GetRetryAfter())
	}
	var respErr *github.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		switch respErr.Response.StatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %s for %s", domain.ErrRateLimit, op, repo)
		case http.StatusNotFound, http.StatusForbidden:
			return fmt.Errorf("%w: %s does not exist or is not accessible", domain.ErrNotFound, repo)
		}
	}
	return fmt.Errorf("failed to %s with REST API: %w", op, err)
}

// classifyGraphQLError maps GraphQL error messages onto the domain error kinds.
// The GraphQL client only exposes errors as text.
func classifyGraphQLError(repo domain.RepoRef, err error) error {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "could not resolve to a repository"):
		return fmt.Errorf("%w: %s does not exist or is not accessible", domain.ErrNotFound, repo)
	case strings.Contains(msg, "rate limit"):
		return fmt.Errorf("%w: list issues for %s: %v", domain.ErrRateLimit, repo, err)
	}
	return fmt.Errorf("failed to execute GraphQL query for issues: %w", err)
}
