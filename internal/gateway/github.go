// Package gateway provides a gateway to the GitHub API,
// abstracting away the underlying REST and GraphQL clients.
package gateway

import (
	"context"
	"fmt"
	"iter"
	"net/http"
	"time"

	"github.com/google/go-github/v62/github"
	"github.com/shurcooL/githubv4"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"

	"github.com/gofri/go-github-ratelimit/github_ratelimit"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// GitHubGateway reads pull requests, issues and repositories from GitHub.
type GitHubGateway struct {
	restClient    *github.Client
	graphqlClient *githubv4.Client
	logger        *logrus.Logger
}

// NewGitHubGateway is a constructor that creates a new instance of GitHubGateway.
// The returned http.Client carries the token and the rate limit waiter and is
// shared with the snapshot store.
func NewGitHubGateway(token string, logger *logrus.Logger) (*GitHubGateway, error) {
	rateLimitWaiter, err := github_ratelimit.NewRateLimitWaiter(nil, github_ratelimit.WithSingleSleepLimit(1*time.Hour, nil))
	if err != nil {
		return nil, fmt.Errorf("failed to create rate limit waiter: %w", err)
	}
	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
	httpClient := &http.Client{
		Transport: &oauth2.Transport{
			Base:   rateLimitWaiter,
			Source: ts,
		},
	}
	return &GitHubGateway{
		restClient:    github.NewClient(httpClient),
		graphqlClient: githubv4.NewClient(httpClient),
		logger:        logger,
	}, nil
}

// WorkItemPages returns a lazy sequence of pages of pull requests or issues.
//
// A page is requested only when the consumer pulls the next element, so
// breaking out of the range loop stops pagination immediately. The sequence
// ends after the last page or after yielding the first error; nothing is retried.
// Every call starts again from the first page.
func (g *GitHubGateway) WorkItemPages(ctx context.Context, owner, repo string, kind domain.Kind, filter domain.ListFilter) iter.Seq2[[]domain.WorkItem, error] {
	return func(yield func([]domain.WorkItem, error) bool) {
		page := 0
		for {
			items, next, err := g.fetchPage(ctx, owner, repo, kind, filter, page)
			if err != nil {
				yield(nil, err)
				return
			}
			if !yield(items, nil) {
				return
			}
			if next == 0 {
				return
			}
			page = next
			g.logger.WithFields(logrus.Fields{"repo": owner + "/" + repo, "kind": kind, "page": page}).Debug("Fetching next page")
		}
	}
}

func (g *GitHubGateway) fetchPage(ctx context.Context, owner, repo string, kind domain.Kind, filter domain.ListFilter, page int) ([]domain.WorkItem, int, error) {
	listOpts := github.ListOptions{Page: page, PerPage: filter.PerPage}
	fullName := owner + "/" + repo

	switch kind {
	case domain.KindPulls:
		opts := &github.PullRequestListOptions{
			State:       filter.State,
			Sort:        filter.Sort,
			Direction:   filter.Direction,
			ListOptions: listOpts,
		}
		pulls, resp, err := g.restClient.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to list pull requests of %s: %w", domain.ErrProviderFetch, fullName, err)
		}
		items := make([]domain.WorkItem, 0, len(pulls))
		for _, pr := range pulls {
			items = append(items, pullToWorkItem(fullName, pr))
		}
		return items, resp.NextPage, nil

	case domain.KindIssues:
		opts := &github.IssueListByRepoOptions{
			State:       filter.State,
			Sort:        filter.Sort,
			Direction:   filter.Direction,
			ListOptions: listOpts,
		}
		issues, resp, err := g.restClient.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: failed to list issues of %s: %w", domain.ErrProviderFetch, fullName, err)
		}
		items := make([]domain.WorkItem, 0, len(issues))
		for _, issue := range issues {
			// The issues endpoint also returns pull requests.
			if issue.IsPullRequest() {
				continue
			}
			items = append(items, issueToWorkItem(fullName, issue))
		}
		return items, resp.NextPage, nil
	}
	return nil, 0, fmt.Errorf("unknown work item kind %q", kind)
}

func pullToWorkItem(repo string, pr *github.PullRequest) domain.WorkItem {
	item := domain.WorkItem{
		ID:            pr.GetID(),
		Number:        pr.GetNumber(),
		Repository:    repo,
		Author:        pr.GetUser().GetLogin(),
		CreatedAt:     pr.GetCreatedAt().Time,
		IsPullRequest: true,
	}
	if pr.ClosedAt != nil {
		closedAt := pr.ClosedAt.Time
		item.ClosedAt = &closedAt
	}
	return item
}

func issueToWorkItem(repo string, issue *github.Issue) domain.WorkItem {
	item := domain.WorkItem{
		ID:         issue.GetID(),
		Number:     issue.GetNumber(),
		Repository: repo,
		Author:     issue.GetUser().GetLogin(),
		CreatedAt:  issue.GetCreatedAt().Time,
	}
	if issue.ClosedAt != nil {
		closedAt := issue.ClosedAt.Time
		item.ClosedAt = &closedAt
	}
	return item
}
