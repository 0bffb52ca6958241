package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fini-net/gh-batch-review/internal/config"
	ghclient "github.com/fini-net/gh-batch-review/internal/github"
	"github.com/fini-net/gh-batch-review/internal/logger"
	"github.com/fini-net/gh-batch-review/internal/review"
)

type stubBackend struct {
	mu      sync.Mutex
	login   string
	loads   []ghclient.RepoLoad
	fail    map[int]error
	pulls   []int
	limitIn int
}

func (s *stubBackend) CurrentUser(context.Context) (string, error) {
	if s.login == "" {
		return "", errors.New("401 Bad credentials")
	}
	return s.login, nil
}

func (s *stubBackend) LoadRepos(_ context.Context, _ []string, limit int) []ghclient.RepoLoad {
	s.limitIn = limit
	return s.loads
}

func (s *stubBackend) LookupPulls(_ context.Context, refs []ghclient.PullRef) []ghclient.PullLookup {
	out := make([]ghclient.PullLookup, 0, len(refs))
	for _, ref := range refs {
		l := ghclient.PullLookup{Ref: ref, Err: fmt.Errorf("%s is not an open pull request", ref)}
		for _, load := range s.loads {
			for _, p := range load.Repo.Pulls {
				if load.Repo.Repo == ref.Repo && p.Number == ref.Number {
					l.Pull, l.Err = p, nil
				}
			}
		}
		out = append(out, l)
	}
	return out
}

func (s *stubBackend) SubmitReview(_ context.Context, pull review.CheckedPullInfo, _ review.Type, _ string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pulls = append(s.pulls, pull.Number)
	return s.fail[pull.Number]
}

func stubLoads() []ghclient.RepoLoad {
	return []ghclient.RepoLoad{
		{Repo: review.RepoHasCheck{Repo: "o/api", Pulls: []review.Pull{
			{Number: 1, Title: "Add retries", Author: "alice"},
			{Number: 2, Title: "Bump deps", Author: "renovate"},
		}}},
		{Repo: review.RepoHasCheck{Repo: "o/web", Pulls: []review.Pull{
			{Number: 7, Title: "Dark mode", Author: "me"},
		}}},
	}
}

func TestParseArgs(t *testing.T) {
	repos, refs, err := parseArgs([]string{"o/api", "o/web#7", "o/api#2"})
	require.NoError(t, err)
	require.Equal(t, []string{"o/api"}, repos)
	require.Equal(t, []ghclient.PullRef{{Repo: "o/web", Number: 7}, {Repo: "o/api", Number: 2}}, refs)

	_, _, err = parseArgs([]string{"not-a-repo"})
	require.Error(t, err)

	_, _, err = parseArgs([]string{"o/api#abc"})
	require.Error(t, err)
}

func TestResolveRepos(t *testing.T) {
	refs := []ghclient.PullRef{{Repo: "o/web", Number: 7}, {Repo: "o/api", Number: 1}}

	got, err := resolveRepos([]string{"o/api"}, refs, []string{"o/config"})
	require.NoError(t, err)
	require.Equal(t, []string{"o/api", "o/web"}, got)

	got, err = resolveRepos(nil, nil, []string{"o/config"})
	require.NoError(t, err)
	require.Equal(t, []string{"o/config"}, got)
}

func TestSelectRefs(t *testing.T) {
	lookups := []ghclient.PullLookup{
		{Ref: ghclient.PullRef{Repo: "o/web", Number: 7}, Pull: review.Pull{Number: 7, Title: "Dark mode"}},
		{Ref: ghclient.PullRef{Repo: "o/api", Number: 2}, Pull: review.Pull{Number: 2, Title: "Bump deps"}},
		{Ref: ghclient.PullRef{Repo: "o/web", Number: 9}, Pull: review.Pull{Number: 9, Title: "Old fix"}},
		{Ref: ghclient.PullRef{Repo: "o/api", Number: 2}, Pull: review.Pull{Number: 2, Title: "Bump deps"}},
	}

	repos, err := selectRefs(lookups)
	require.NoError(t, err)

	checked := review.CheckedPulls(repos)
	require.Len(t, checked, 3)
	require.Equal(t, "o/web#7", checked[0].Ref())
	require.Equal(t, "o/web#9", checked[1].Ref())
	require.Equal(t, "o/api#2", checked[2].Ref())

	lookups = append(lookups, ghclient.PullLookup{
		Ref: ghclient.PullRef{Repo: "o/api", Number: 99},
		Err: errors.New("o/api#99 is not an open pull request"),
	})
	_, err = selectRefs(lookups)
	require.ErrorContains(t, err, "o/api#99 is not an open pull request")
}

func TestRunBatch(t *testing.T) {
	t.Run("all submitted", func(t *testing.T) {
		backend := &stubBackend{login: "me", loads: stubLoads()}
		var out bytes.Buffer

		ok, err := runBatch(context.Background(), backend,
			[]ghclient.PullRef{{Repo: "o/api", Number: 1}, {Repo: "o/api", Number: 2}},
			review.Approve, "", logger.Discard(), &out)

		require.NoError(t, err)
		require.True(t, ok)
		require.ElementsMatch(t, []int{1, 2}, backend.pulls)
		require.Contains(t, out.String(), "✓ o/api#1 Add retries\n")
		require.Contains(t, out.String(), "approve: 2 submitted, 0 failed")
	})

	t.Run("partial failure", func(t *testing.T) {
		backend := &stubBackend{login: "me", loads: stubLoads(), fail: map[int]error{2: errors.New("422")}}
		var out bytes.Buffer

		ok, err := runBatch(context.Background(), backend,
			[]ghclient.PullRef{{Repo: "o/api", Number: 1}, {Repo: "o/api", Number: 2}},
			review.Comment, "lgtm", logger.Discard(), &out)

		require.NoError(t, err)
		require.False(t, ok)
		require.Contains(t, out.String(), "✗ o/api#2 Bump deps: 422\n")
		require.Contains(t, out.String(), "comment: 1 submitted, 1 failed")
	})

	t.Run("own pull refused before any call", func(t *testing.T) {
		backend := &stubBackend{login: "me", loads: stubLoads()}

		_, err := runBatch(context.Background(), backend,
			[]ghclient.PullRef{{Repo: "o/web", Number: 7}},
			review.Approve, "", logger.Discard(), &bytes.Buffer{})

		require.ErrorIs(t, err, review.ErrOwnPull)
		require.Empty(t, backend.pulls)
	})

	t.Run("comment on own pull allowed", func(t *testing.T) {
		backend := &stubBackend{login: "me", loads: stubLoads()}

		ok, err := runBatch(context.Background(), backend,
			[]ghclient.PullRef{{Repo: "o/web", Number: 7}},
			review.Comment, "note", logger.Discard(), &bytes.Buffer{})

		require.NoError(t, err)
		require.True(t, ok)
	})

	t.Run("comment required", func(t *testing.T) {
		backend := &stubBackend{login: "me", loads: stubLoads()}

		_, err := runBatch(context.Background(), backend,
			[]ghclient.PullRef{{Repo: "o/api", Number: 1}},
			review.RequestChanges, "  ", logger.Discard(), &bytes.Buffer{})

		require.ErrorIs(t, err, review.ErrCommentRequired)
		require.Empty(t, backend.pulls)
	})

	t.Run("ref not open", func(t *testing.T) {
		backend := &stubBackend{login: "me", loads: stubLoads()}

		_, err := runBatch(context.Background(), backend,
			[]ghclient.PullRef{{Repo: "o/api", Number: 1}, {Repo: "o/api", Number: 99}},
			review.Approve, "", logger.Discard(), &bytes.Buffer{})

		require.ErrorContains(t, err, "o/api#99 is not an open pull request")
		require.Empty(t, backend.pulls)
	})

	t.Run("no refs", func(t *testing.T) {
		_, err := runBatch(context.Background(), &stubBackend{}, nil,
			review.Approve, "", logger.Discard(), &bytes.Buffer{})
		require.ErrorIs(t, err, review.ErrNoPulls)
	})

	t.Run("unknown user fails open", func(t *testing.T) {
		backend := &stubBackend{loads: stubLoads()}

		ok, err := runBatch(context.Background(), backend,
			[]ghclient.PullRef{{Repo: "o/web", Number: 7}},
			review.Approve, "", logger.Discard(), &bytes.Buffer{})

		require.NoError(t, err)
		require.True(t, ok)
	})
}

func TestRunSnapshot(t *testing.T) {
	backend := &stubBackend{loads: stubLoads()}
	var out bytes.Buffer

	require.NoError(t, runSnapshot(context.Background(), backend, []string{"o/api", "o/web"}, 30, &out))
	require.Contains(t, out.String(), "o/api\n")
	require.Contains(t, out.String(), "Dark mode")
	require.Equal(t, 30, backend.limitIn)
}

func TestApplyFlags(t *testing.T) {
	base := func() *config.Config {
		return &config.Config{
			Limit:         30,
			Language:      "en",
			ToastDuration: 3 * time.Second,
			Log:           config.LogConfig{Level: "info", Format: "text"},
		}
	}

	t.Run("overrides set flags only", func(t *testing.T) {
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--limit", "5", "--lang", "ja", "--log-level", "DEBUG"}))
		cfg := base()

		require.NoError(t, applyFlags(cmd, cfg, options{limit: 5, lang: "ja", logLevel: "DEBUG"}))
		require.Equal(t, 5, cfg.Limit)
		require.Equal(t, "ja", cfg.Language)
		require.Equal(t, "debug", cfg.Log.Level)
		require.False(t, cfg.NoColor)
	})

	t.Run("invalid limit", func(t *testing.T) {
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"--limit", "500"}))

		require.Error(t, applyFlags(cmd, base(), options{limit: 500}))
	})

	t.Run("message without event", func(t *testing.T) {
		cmd := newRootCmd()
		require.NoError(t, cmd.ParseFlags([]string{"-m", "hi"}))

		require.ErrorContains(t, applyFlags(cmd, base(), options{message: "hi"}), "--message requires --event")
	})
}
