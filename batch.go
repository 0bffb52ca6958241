package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	ghclient "github.com/fini-net/gh-batch-review/internal/github"
	"github.com/fini-net/gh-batch-review/internal/logger"
	"github.com/fini-net/gh-batch-review/internal/review"
	"github.com/fini-net/gh-batch-review/internal/timing"
	"github.com/fini-net/gh-batch-review/internal/tui"
)

// batchBackend is what the non-interactive mode needs from GitHub.
type batchBackend interface {
	review.Submitter
	CurrentUser(ctx context.Context) (string, error)
	LookupPulls(ctx context.Context, refs []ghclient.PullRef) []ghclient.PullLookup
}

// runBatch reviews the referenced pulls without the form. It reports whether
// every review was submitted.
func runBatch(ctx context.Context, backend batchBackend, refs []ghclient.PullRef, t review.Type, message string, log *logger.Logger, w io.Writer) (bool, error) {
	if len(refs) == 0 {
		return false, fmt.Errorf("%w: pass owner/repo#N arguments with --event", review.ErrNoPulls)
	}
	log = log.Component("batch")

	repos, err := selectRefs(backend.LookupPulls(ctx, refs))
	if err != nil {
		return false, err
	}

	login, err := backend.CurrentUser(ctx)
	if err != nil {
		// Same as the form: self-review gating is skipped
		log.Warn("failed to resolve current user", "error", err)
	}
	gate := review.NewGate(repos, login, message)
	if err := gate.Check(t); errors.Is(err, review.ErrOwnPull) {
		return false, fmt.Errorf("%w as %s", err, login)
	}

	start := time.Now()
	outcomes, err := review.Submit(ctx, backend, review.CheckedPulls(repos), t, message, nil)
	if err != nil {
		return false, err
	}
	elapsed := timing.Elapsed(start, time.Now())

	for _, o := range outcomes {
		if o.Fulfilled() {
			fmt.Fprintf(w, "✓ %s %s\n", o.Pull.Ref(), o.Pull.Title)
			continue
		}
		log.Warn("review failed", "pull", o.Pull.Ref(), "error", o.Err)
		fmt.Fprintf(w, "✗ %s %s: %v\n", o.Pull.Ref(), o.Pull.Title, o.Err)
	}

	failed := len(review.Failures(outcomes))
	fmt.Fprintf(w, "\n%s: %d submitted, %d failed in %s\n",
		t, len(outcomes)-failed, failed, timing.FormatDuration(elapsed))
	log.Info("batch finished", "type", t.String(), "count", len(outcomes), "failed", failed)

	return failed == 0, nil
}

// selectRefs groups the fetched pulls by repo, in the order the repos were
// first referenced, with every pull checked. Any failed lookup is an error.
func selectRefs(lookups []ghclient.PullLookup) ([]review.RepoHasCheck, error) {
	byRepo := map[string]int{}
	seen := map[ghclient.PullRef]bool{}
	var repos []review.RepoHasCheck
	for _, l := range lookups {
		if l.Err != nil {
			return nil, l.Err
		}
		if seen[l.Ref] {
			continue
		}
		seen[l.Ref] = true

		i, ok := byRepo[l.Ref.Repo]
		if !ok {
			i = len(repos)
			byRepo[l.Ref.Repo] = i
			repos = append(repos, review.RepoHasCheck{Repo: l.Ref.Repo})
		}
		pull := l.Pull
		pull.Checked = true
		repos[i].Pulls = append(repos[i].Pulls, pull)
	}
	return repos, nil
}

// runSnapshot prints the open pulls once (non-interactive mode)
func runSnapshot(ctx context.Context, backend tui.Backend, repos []string, limit int, w io.Writer) error {
	loads := backend.LoadRepos(ctx, repos, limit)

	list := make([]review.RepoHasCheck, 0, len(loads))
	for _, load := range loads {
		if load.Err != nil {
			return fmt.Errorf("failed to load %s: %w", load.Repo.Repo, load.Err)
		}
		list = append(list, load.Repo)
	}

	fmt.Fprint(w, tui.FormatSnapshot(list, time.Now()))
	return nil
}
