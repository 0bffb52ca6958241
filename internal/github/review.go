package github

import (
	"context"
	"fmt"

	"github.com/google/go-github/v58/github"

	"github.com/fini-net/gh-batch-review/internal/review"
)

var _ review.Submitter = (*Client)(nil)

// CurrentUser returns the login of the authenticated user.
func (c *Client) CurrentUser(ctx context.Context) (string, error) {
	user, _, err := c.rest.Users.Get(ctx, "")
	if err != nil {
		return "", fmt.Errorf("failed to fetch current user: %w", err)
	}
	return user.GetLogin(), nil
}

// SubmitReview posts one review on pull. An empty body is omitted from the request.
func (c *Client) SubmitReview(ctx context.Context, pull review.CheckedPullInfo, t review.Type, body string) error {
	owner, repo, err := SplitRepo(pull.Repo)
	if err != nil {
		return err
	}

	req := &github.PullRequestReviewRequest{
		Event: github.String(t.Event()),
	}
	if body != "" {
		req.Body = github.String(body)
	}

	_, resp, err := c.rest.PullRequests.CreateReview(ctx, owner, repo, pull.Number, req)
	if err != nil {
		return fmt.Errorf("failed to submit %s review on %s: %w", t, pull.Ref(), err)
	}

	if resp != nil {
		c.log.Debug("review submitted",
			"pull", pull.Ref(),
			"event", t.Event(),
			"rate_remaining", resp.Rate.Remaining,
		)
	}
	return nil
}
