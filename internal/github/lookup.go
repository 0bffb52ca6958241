package github

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/iter"

	"github.com/fini-net/gh-batch-review/internal/review"
)

// PullLookup is the result of fetching one referenced pull.
type PullLookup struct {
	Ref  PullRef
	Pull review.Pull
	Err  error
}

// PullByNumber fetches one pull request and fails unless it is open.
func (c *Client) PullByNumber(ctx context.Context, ref PullRef) (review.Pull, error) {
	owner, name, err := SplitRepo(ref.Repo)
	if err != nil {
		return review.Pull{}, err
	}

	pr, _, err := c.rest.PullRequests.Get(ctx, owner, name, ref.Number)
	if err != nil {
		return review.Pull{}, fmt.Errorf("failed to fetch %s: %w", ref, err)
	}
	if pr.GetState() != "open" {
		return review.Pull{}, fmt.Errorf("%s is not an open pull request", ref)
	}

	return review.Pull{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		URL:       pr.GetHTMLURL(),
		Author:    pr.GetUser().GetLogin(),
		CreatedAt: pr.GetCreatedAt().Time,
		IsDraft:   pr.GetDraft(),
	}, nil
}

// LookupPulls fetches every ref concurrently, keeping the order of refs.
func (c *Client) LookupPulls(ctx context.Context, refs []PullRef) []PullLookup {
	return iter.Map(refs, func(ref *PullRef) PullLookup {
		pull, err := c.PullByNumber(ctx, *ref)
		if err != nil {
			c.log.Warn("failed to fetch pull", "pull", ref.String(), "error", err)
		}
		return PullLookup{Ref: *ref, Pull: pull, Err: err}
	})
}
