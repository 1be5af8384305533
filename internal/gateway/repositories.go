package gateway

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/naka-gawa/community-stats/internal/domain"
)

// orgRepositoriesQuery lists the public repositories of an organization.
type orgRepositoriesQuery struct {
	Organization struct {
		Repositories struct {
			PageInfo struct {
				HasNextPage bool
				EndCursor   githubv4.String
			}
			Nodes []struct {
				Name       string
				IsArchived bool
				IsFork     bool
			}
		} `graphql:"repositories(first: 100, after: $cursor, privacy: PUBLIC, orderBy: {field: NAME, direction: ASC})"`
	} `graphql:"organization(login: $org)"`
}

// ListRepositories returns the names of the organization's public repositories,
// skipping archived repositories and forks. With firstPageOnly set, only the
// first page of results is requested.
func (g *GitHubGateway) ListRepositories(ctx context.Context, org string, firstPageOnly bool) ([]string, error) {
	g.logger.WithField("org", org).Info("Discovering repositories using GraphQL API...")
	variables := map[string]interface{}{
		"org":    githubv4.String(org),
		"cursor": (*githubv4.String)(nil),
	}

	var names []string
	for {
		var q orgRepositoriesQuery
		if err := g.graphqlClient.Query(ctx, &q, variables); err != nil {
			return nil, fmt.Errorf("%w: failed to execute GraphQL query for repositories: %w", domain.ErrProviderFetch, err)
		}
		for _, node := range q.Organization.Repositories.Nodes {
			if node.IsArchived || node.IsFork {
				continue
			}
			names = append(names, node.Name)
		}
		if firstPageOnly || !q.Organization.Repositories.PageInfo.HasNextPage {
			break
		}
		variables["cursor"] = githubv4.NewString(q.Organization.Repositories.PageInfo.EndCursor)
		g.logger.Debug("Fetching next page of repositories...")
	}
	g.logger.WithField("count", len(names)).Info("Completed repository discovery.")
	return names, nil
}
