package github

import (
	"context"
	"fmt"
	"strings"

	"github.com/shurcooL/githubv4"
	"github.com/sourcegraph/conc/iter"

	"github.com/fini-net/gh-batch-review/internal/review"
)

// GraphQL query for the open pull requests of one repository, most recently
// updated first, with the CI rollup of each head commit
type openPullsQuery struct {
	Repository struct {
		PullRequests struct {
			Nodes []struct {
				Number         int
				Title          string
				URL            string `graphql:"url"`
				IsDraft        bool
				CreatedAt      githubv4.DateTime
				ReviewDecision string
				Author         struct {
					Login string
				}
				Commits struct {
					Nodes []struct {
						Commit struct {
							StatusCheckRollup struct {
								State string
							}
						}
					}
				} `graphql:"commits(last: 1)"`
			}
		} `graphql:"pullRequests(first: $limit, states: OPEN, orderBy: {field: UPDATED_AT, direction: DESC})"`
	} `graphql:"repository(owner: $owner, name: $repo)"`
}

// OpenPulls fetches up to limit open pull requests of repo ("owner/name").
// None of the returned pulls are checked.
func (c *Client) OpenPulls(ctx context.Context, repo string, limit int) (review.RepoHasCheck, error) {
	owner, name, err := SplitRepo(repo)
	if err != nil {
		return review.RepoHasCheck{Repo: repo}, err
	}

	var query openPullsQuery
	variables := map[string]interface{}{
		"owner": githubv4.String(owner),
		"repo":  githubv4.String(name),
		"limit": githubv4.Int(limit),
	}

	if err := c.gql.Query(ctx, &query, variables); err != nil {
		return review.RepoHasCheck{Repo: repo}, fmt.Errorf("failed to list pull requests of %s: %w", repo, err)
	}

	result := review.RepoHasCheck{Repo: repo}
	for _, node := range query.Repository.PullRequests.Nodes {
		ciState := ""
		if len(node.Commits.Nodes) > 0 {
			ciState = strings.ToLower(node.Commits.Nodes[0].Commit.StatusCheckRollup.State)
		}

		result.Pulls = append(result.Pulls, review.Pull{
			Number:         node.Number,
			Title:          node.Title,
			URL:            node.URL,
			Author:         node.Author.Login,
			CreatedAt:      node.CreatedAt.Time,
			IsDraft:        node.IsDraft,
			CIState:        ciState,
			ReviewDecision: strings.ToLower(node.ReviewDecision),
		})
	}

	c.log.Debug("loaded pull requests", "repo", repo, "count", len(result.Pulls))
	return result, nil
}

// RepoLoad is the result of loading one repository.
type RepoLoad struct {
	Repo review.RepoHasCheck
	Err  error
}

// LoadRepos loads every repo concurrently. Results keep the order of repos and
// a failing repo does not affect the others.
func (c *Client) LoadRepos(ctx context.Context, repos []string, limit int) []RepoLoad {
	return iter.Map(repos, func(repo *string) RepoLoad {
		r, err := c.OpenPulls(ctx, *repo, limit)
		if err != nil {
			c.log.Warn("failed to load repo", "repo", *repo, "error", err)
		}
		return RepoLoad{Repo: r, Err: err}
	})
}
