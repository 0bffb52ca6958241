package tui

import (
	"context"
	"errors"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	ghclient "github.com/fini-net/gh-batch-review/internal/github"
	"github.com/fini-net/gh-batch-review/internal/review"
)

type fakeBackend struct {
	mu       sync.Mutex
	login    string
	loginErr error
	loads    []ghclient.RepoLoad
	fail     map[int]error
	calls    []review.CheckedPullInfo
	bodies   []string
}

func (f *fakeBackend) CurrentUser(context.Context) (string, error) {
	return f.login, f.loginErr
}

func (f *fakeBackend) LoadRepos(context.Context, []string, int) []ghclient.RepoLoad {
	return f.loads
}

func (f *fakeBackend) SubmitReview(_ context.Context, pull review.CheckedPullInfo, _ review.Type, body string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, pull)
	f.bodies = append(f.bodies, body)
	return f.fail[pull.Number]
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) WriteText(text string) error {
	c.text = text
	return c.err
}

func sampleLoads() []ghclient.RepoLoad {
	return []ghclient.RepoLoad{
		{Repo: review.RepoHasCheck{
			Repo: "fini-net/api",
			Pulls: []review.Pull{
				{Number: 1, Title: "Add retries", Author: "alice", CIState: "success"},
				{Number: 2, Title: "Bump deps", Author: "renovate", CIState: "pending"},
			},
		}},
		{Repo: review.RepoHasCheck{
			Repo: "fini-net/web",
			Pulls: []review.Pull{
				{Number: 7, Title: "Dark mode", Author: "bob", ReviewDecision: "approved"},
			},
		}},
		{Repo: review.RepoHasCheck{Repo: "fini-net/broken"}, Err: errors.New("Could not resolve to a Repository")},
	}
}

// newTestModel returns a model with sampleLoads applied and me as the current user.
func newTestModel(t *testing.T, backend *fakeBackend) (Model, *fakeClipboard) {
	t.Helper()
	if backend.loads == nil {
		backend.loads = sampleLoads()
	}
	cb := &fakeClipboard{}
	m := NewModel(context.Background(), backend, Options{
		Repos:     []string{"fini-net/api", "fini-net/web", "fini-net/broken"},
		Limit:     30,
		Styles:    NewStyles(10, 9, 11, 8),
		Clipboard: cb,
	})
	m, _ = update(t, m, ReposLoadedMsg{Loads: backend.LoadRepos(context.Background(), nil, 0)})
	m, _ = update(t, m, CurrentUserMsg{Login: "me"})
	return m, cb
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update returned %T, want Model", next)
	}
	return nm, cmd
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func press(t *testing.T, m Model, keys ...string) Model {
	t.Helper()
	for _, k := range keys {
		m, _ = update(t, m, keyMsg(k))
	}
	return m
}

// runBatch drives the submit command chain until the done message has been
// applied and returns the model plus every progress value it displayed.
func runBatch(t *testing.T, m Model, cmd tea.Cmd) (Model, []float64) {
	t.Helper()
	var seen []float64
	for i := 0; i < 100; i++ {
		if cmd == nil {
			t.Fatal("submit chain ended without a done message")
		}
		msg := cmd()
		switch msg := msg.(type) {
		case submitProgressMsg:
			m, cmd = update(t, m, msg)
			if running, ok := m.progress.(Running); ok {
				seen = append(seen, running.Value)
			}
		case submitDoneMsg:
			m, _ = update(t, m, msg)
			return m, seen
		default:
			t.Fatalf("unexpected message %T in submit chain", msg)
		}
	}
	t.Fatal("submit chain did not finish")
	return m, nil
}
