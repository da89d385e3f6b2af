// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/repo-miner/internal/domain"
)

// API selects the backend used for issue listing.
type API string

const (
	APIREST    API = "rest"
	APIGraphQL API = "graphql"
)

// ParseAPI accepts rest or graphql. The empty string means rest.
func ParseAPI(s string) (API, error) {
	switch a := API(strings.ToLower(s)); a {
	case "":
		return APIREST, nil
	case APIREST, APIGraphQL:
		return a, nil
	}
	return "", fmt.Errorf("%w: api must be rest or graphql, got %q", domain.ErrInvalidArgument, s)
}

// CommitQuery narrows a commit listing. Max 0 means no cap; zero times mean no bound.
type CommitQuery struct {
	Max   int
	Since time.Time
	Until time.Time
}

// IssueQuery narrows an issue listing. Max 0 means no cap.
type IssueQuery struct {
	State domain.StateFilter
	Max   int
	API   API
}

// Fetcher defines the behavior of a gateway for fetching raw records from GitHub.
// Results keep the upstream order and never exceed the requested Max.
type Fetcher interface {
	FetchCommits(ctx context.Context, repo domain.RepoRef, q CommitQuery) ([]*github.RepositoryCommit, error)
	FetchIssues(ctx context.Context, repo domain.RepoRef, q IssueQuery) ([]*github.Issue, error)
}

// Options carries the credentials and client settings passed into the gateway.
type Options struct {
	Token   string
	BaseURL string
	PerPage int
	// SleepLimit caps a single wait on a secondary rate limit.
	SleepLimit time.Duration
}

// GitHubGateway is the concrete implementation of the Fetcher interface.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	perPage       int
	logger        logrus.FieldLogger
}

// issuesQuery lists repository issues newest first, matching the REST default order.
type issuesQuery struct {
	Repository struct {
		Issues struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				DatabaseID int64 `graphql:"databaseId"`
				Number     int
				Title      string
				State      githubv4.IssueState
				CreatedAt  githubv4.DateTime
				ClosedAt   *githubv4.DateTime
				Author     struct {
					Login string
				}
				Comments struct {
					TotalCount int
				}
			}
		} `graphql:"issues(first: $pageSize, after: $cursor, states: $states, orderBy: {field: CREATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $name)"`
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
func NewGitHubGateway(opts Options, logger logrus.FieldLogger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(opts.SleepLimit, func(cbc *github_ratelimit.CallbackContext) {
		logger.WithField("sleep_until", cbc.SleepUntil).Warn("secondary rate limit wait exceeds the configured limit")
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: opts.Token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}

	restClient := github.NewClient(httpClient)
	graphqlClient := githubv4.NewClient(httpClient)
	if opts.BaseURL != "" {
		restClient, err = restClient.WithEnterpriseURLs(opts.BaseURL, opts.BaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to configure enterprise URL: %w", err)
		}
		graphqlClient = githubv4.NewEnterpriseClient(strings.TrimRight(opts.BaseURL, "/")+"/api/graphql", httpClient)
	}

	perPage := opts.PerPage
	if perPage <= 0 || perPage > 100 {
		perPage = 100
	}
	return &GitHubGateway{
		restClient:    restClient,
		graphqlClient: graphqlClient,
		perPage:       perPage,
		logger:        logger,
	}, nil
}

// pageSize shrinks the configured page size when fewer records are wanted.
func (g *GitHubGateway) pageSize(max int) int {
	if max > 0 && max < g.perPage {
		return max
	}
	return g.perPage
}

func (g *GitHubGateway) FetchCommits(ctx context.Context, repo domain.RepoRef, q CommitQuery) ([]*github.RepositoryCommit, error) {
	if q.Max < 0 {
		return nil, fmt.Errorf("%w: max must be a positive integer, got %d", domain.ErrInvalidArgument, q.Max)
	}
	log := g.logger.WithField("repo", repo.String())
	log.Debug("Fetching commit data using REST API...")

	opts := &github.CommitsListOptions{
		Since:       q.Since,
		Until:       q.Until,
		ListOptions: github.ListOptions{PerPage: g.pageSize(q.Max)},
	}
	var commits []*github.RepositoryCommit
	for {
		page, resp, err := g.restClient.Repositories.ListCommits(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, classifyRESTError(repo, "list commits", err)
		}
		for _, c := range page {
			commits = append(commits, c)
			if q.Max > 0 && len(commits) == q.Max {
				log.WithField("count", len(commits)).Debug("Reached requested maximum of commits.")
				return commits, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		log.WithField("page", opts.Page).Debug("  Fetching next page of commits...")
	}
	log.WithField("count", len(commits)).Debug("Completed fetching commit data.")
	return commits, nil
}

func (g *GitHubGateway) FetchIssues(ctx context.Context, repo domain.RepoRef, q IssueQuery) ([]*github.Issue, error) {
	if q.Max < 0 {
		return nil, fmt.Errorf("%w: max must be a positive integer, got %d", domain.ErrInvalidArgument, q.Max)
	}
	state, err := domain.ParseStateFilter(string(q.State))
	if err != nil {
		return nil, err
	}
	q.State = state

	switch q.API {
	case "", APIREST:
		return g.fetchIssuesREST(ctx, repo, q)
	case APIGraphQL:
		return g.fetchIssuesGraphQL(ctx, repo, q)
	}
	return nil, fmt.Errorf("%w: unknown api %q", domain.ErrInvalidArgument, q.API)
}

func (g *GitHubGateway) fetchIssuesREST(ctx context.Context, repo domain.RepoRef, q IssueQuery) ([]*github.Issue, error) {
	log := g.logger.WithFields(logrus.Fields{"repo": repo.String(), "state": q.State})
	log.Debug("Fetching issue data using REST API...")

	// Pull requests are dropped after each page arrives, so the page size is not shrunk to Max.
	opts := &github.IssueListByRepoOptions{
		State:       string(q.State),
		ListOptions: github.ListOptions{PerPage: g.perPage},
	}
	var issues []*github.Issue
	for {
		page, resp, err := g.restClient.Issues.ListByRepo(ctx, repo.Owner, repo.Name, opts)
		if err != nil {
			return nil, classifyRESTError(repo, "list issues", err)
		}
		for _, issue := range page {
			// The issues endpoint also returns pull requests.
			if issue.IsPullRequest() {
				continue
			}
			issues = append(issues, issue)
			if q.Max > 0 && len(issues) == q.Max {
				log.WithField("count", len(issues)).Debug("Reached requested maximum of issues.")
				return issues, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
		log.WithField("page", opts.Page).Debug("  Fetching next page of issues...")
	}
	log.WithField("count", len(issues)).Debug("Completed fetching issue data.")
	return issues, nil
}

func (g *GitHubGateway) fetchIssuesGraphQL(ctx context.Context, repo domain.RepoRef, q IssueQuery) ([]*github.Issue, error) {
	log := g.logger.WithFields(logrus.Fields{"repo": repo.String(), "state": q.State})
	log.Debug("Fetching issue data using GraphQL API...")

	states := []githubv4.IssueState{githubv4.IssueStateOpen, githubv4.IssueStateClosed}
	switch q.State {
	case domain.StateOpen:
		states = []githubv4.IssueState{githubv4.IssueStateOpen}
	case domain.StateClosed:
		states = []githubv4.IssueState{githubv4.IssueStateClosed}
	}
	variables := map[string]interface{}{
		"owner":    githubv4.String(repo.Owner),
		"name":     githubv4.String(repo.Name),
		"pageSize": githubv4.Int(g.pageSize(q.Max)),
		"states":   states,
		"cursor":   (*githubv4.String)(nil),
	}

	var issues []*github.Issue
	for {
		var query issuesQuery
		if err := g.graphqlClient.Query(ctx, &query, variables); err != nil {
			return nil, classifyGraphQLError(repo, err)
		}
		for _, node := range query.Repository.Issues.Nodes {
			issue := &github.Issue{
				Number:    github.Int(node.Number),
				Title:     github.String(node.Title),
				State:     github.String(strings.ToLower(string(node.State))),
				CreatedAt: &github.Timestamp{Time: node.CreatedAt.Time},
				Comments:  github.Int(node.Comments.TotalCount),
			}
			if node.DatabaseID != 0 {
				issue.ID = github.Int64(node.DatabaseID)
			}
			if node.ClosedAt != nil {
				issue.ClosedAt = &github.Timestamp{Time: node.ClosedAt.Time}
			}
			if node.Author.Login != "" {
				issue.User = &github.User{Login: github.String(node.Author.Login)}
			}
			issues = append(issues, issue)
			if q.Max > 0 && len(issues) == q.Max {
				log.WithField("count", len(issues)).Debug("Reached requested maximum of issues.")
				return issues, nil
			}
		}
		if !query.Repository.Issues.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(query.Repository.Issues.PageInfo.EndCursor)
		log.Debug("  Fetching next page of issues...")
	}
	log.WithField("count", len(issues)).Debug("Completed fetching issue data.")
	return issues, nil
}
