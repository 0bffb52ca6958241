package tui

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/fini-net/gh-batch-review/internal/i18n"
	"github.com/fini-net/gh-batch-review/internal/review"
	"github.com/fini-net/gh-batch-review/internal/timing"
)

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.spinner.Tick,
		fetchCurrentUser(m.ctx, m.backend),
		loadRepos(m.ctx, m.backend, m.repoNames, m.limit),
	)
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.comment.SetWidth(max(msg.Width-4, 20))
		m.bar.Width = max(min(msg.Width-16, 60), 10)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if _, open := m.dialog.(Open); open {
			return m.updateDialog(msg)
		}
		if m.focus == focusComment {
			return m.updateComment(msg)
		}
		return m.updateList(msg)

	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case CurrentUserMsg:
		if msg.Err != nil {
			// Self-review gating stays off until the user is known
			m.identityErr = msg.Err
			m.log.Warn("failed to resolve current user", "error", msg.Err)
			return m, nil
		}
		m.currentUser = msg.Login
		m.identityErr = nil
		return m, nil

	case ReposLoadedMsg:
		m.loading = false
		m.repos, m.loadErrs = mergeLoads(m.repos, msg)
		if rows := len(m.rows()); m.cursor >= rows {
			m.cursor = max(rows-1, 0)
		}
		return m, nil

	case submitProgressMsg:
		if msg.runID != m.runID {
			return m, nil
		}
		if running, ok := m.progress.(Running); ok && msg.value > running.Value {
			m.progress = Running{Value: review.ClampProgress(msg.value)}
		}
		return m, waitForSubmit(msg.ch)

	case submitDoneMsg:
		if msg.runID != m.runID {
			// Dialog was dismissed while this batch was in flight
			m.log.Info("ignoring result of dismissed batch", "run_id", msg.runID)
			return m, nil
		}
		return m.finishSubmit(msg)

	case toastExpiredMsg:
		if msg.seq == m.toastSeq {
			m.toast = ""
		}
		return m, nil

	case clipboardResultMsg:
		if msg.err != nil {
			m.log.Warn("failed to copy to clipboard", "error", msg.err)
			m.dialogErr = msg.err
			return m, nil
		}
		return m.showToast(m.tr.T(i18n.KeyAlertCopied))
	}

	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.rows())-1 {
			m.cursor++
		}
	case " ", "space":
		if ref, ok := m.selectedRow(); ok {
			m.repos = cloneRepos(m.repos)
			p := &m.repos[ref.repo].Pulls[ref.pull]
			p.Checked = !p.Checked
		}
	case "A":
		if ref, ok := m.selectedRow(); ok {
			m.repos = cloneRepos(m.repos)
			pulls := m.repos[ref.repo].Pulls
			all := true
			for _, p := range pulls {
				all = all && p.Checked
			}
			for i := range pulls {
				pulls[i].Checked = !all
			}
		}
	case "tab":
		m.focus = focusComment
		return m, m.comment.Focus()
	case "r":
		if m.loading {
			return m, nil
		}
		m.loading = true
		return m, tea.Batch(m.spinner.Tick, loadRepos(m.ctx, m.backend, m.repoNames, m.limit))
	case "c":
		return m.openWithType(review.Comment)
	case "a":
		return m.openWithType(review.Approve)
	case "x":
		return m.openWithType(review.RequestChanges)
	}
	return m, nil
}

func (m Model) updateComment(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "tab", "esc":
		m.focus = focusList
		m.comment.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.comment, cmd = m.comment.Update(msg)
	return m, cmd
}

func (m Model) updateDialog(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	_, running := m.progress.(Running)

	switch msg.String() {
	case "esc", "n":
		return m.dismiss(), nil
	case "enter", "y":
		if running {
			return m, nil
		}
		return m.confirm()
	case "C":
		if running || len(m.errors) == 0 {
			return m, nil
		}
		return m, copyToClipboard(m.clipboard, FormatFailedItems(m.errors))
	}
	return m, nil
}

// openWithType opens the confirmation dialog if the gate allows t.
func (m Model) openWithType(t review.Type) (tea.Model, tea.Cmd) {
	if !m.gate().Allows(t) {
		return m, nil
	}
	m.dialog = Open{Type: t, Title: m.dialogTitle(t)}
	m.progress = Idle{}
	m.errors = nil
	m.dialogErr = nil
	m.preview = ""
	if comment := strings.TrimSpace(m.comment.Value()); t != review.Approve && comment != "" {
		m.preview = renderMarkdown(comment, m.markdownStyle, dialogWidth)
	}
	return m, nil
}

// confirm starts a batch for every checked pull.
func (m Model) confirm() (tea.Model, tea.Cmd) {
	open, ok := m.dialog.(Open)
	if !ok {
		return m, nil
	}
	// The user may have been resolved after the dialog opened
	if err := m.gate().Check(open.Type); err != nil {
		m.log.Warn("batch blocked", "type", open.Type.String(), "error", err)
		m.dialogErr = err
		return m, nil
	}

	m.runID = uuid.NewString()
	m.progress = Running{Value: 0}
	m.errors = nil
	m.dialogErr = nil

	pulls := m.checkedPulls()
	m.log.Info("submitting batch",
		"run_id", m.runID,
		"type", open.Type.String(),
		"count", len(pulls),
	)
	return m, startSubmit(m.ctx, m.backend, m.runID, pulls, open.Type, m.comment.Value())
}

// dismiss closes the dialog and forgets the current batch. In-flight calls
// keep running; their messages no longer match runID and are dropped.
func (m Model) dismiss() Model {
	m.dialog = Closed{}
	m.progress = Idle{}
	m.errors = nil
	m.dialogErr = nil
	m.preview = ""
	m.runID = ""
	return m
}

func (m Model) finishSubmit(msg submitDoneMsg) (tea.Model, tea.Cmd) {
	m.progress = Idle{}
	log := m.log.With("run_id", msg.runID)

	if msg.err != nil {
		log.Error("batch rejected", "error", msg.err)
		m.dialogErr = msg.err
		return m, nil
	}

	if !review.AllFulfilled(msg.outcomes) {
		for _, o := range msg.outcomes {
			if !o.Fulfilled() {
				log.Warn("review failed", "pull", o.Pull.Ref(), "error", o.Err)
			}
		}
		m.errors = review.Failures(msg.outcomes)
		log.Info("batch finished with failures",
			"failed", len(m.errors),
			"count", len(msg.outcomes),
			"elapsed", timing.FormatDuration(msg.elapsed),
		)
		return m, nil
	}

	log.Info("batch finished",
		"count", len(msg.outcomes),
		"elapsed", timing.FormatDuration(msg.elapsed),
	)

	m.dialog = Closed{}
	m.errors = nil
	m.preview = ""
	m.runID = ""
	m.comment.Reset()
	m.repos = clearChecks(m.repos)
	return m.showToast(m.tr.T(i18n.KeyToastSuccess, len(msg.outcomes)))
}

func (m Model) showToast(text string) (tea.Model, tea.Cmd) {
	m.toastSeq++
	m.toast = text
	return m, expireToast(m.toastSeq, m.toastDuration)
}

// startSubmit runs the batch in the background. Its events arrive on a
// channel buffered for every progress report plus the final result, so the
// goroutine finishes even after the UI stops listening.
func startSubmit(ctx context.Context, s review.Submitter, runID string, pulls []review.CheckedPullInfo, t review.Type, comment string) tea.Cmd {
	return func() tea.Msg {
		ch := make(chan tea.Msg, len(pulls)+2)
		go func() {
			defer close(ch)
			start := time.Now()
			outcomes, err := review.Submit(ctx, s, pulls, t, comment, func(v float64) {
				ch <- submitProgressMsg{runID: runID, value: v, ch: ch}
			})
			ch <- submitDoneMsg{
				runID:    runID,
				outcomes: outcomes,
				elapsed:  timing.Elapsed(start, time.Now()),
				err:      err,
			}
		}()
		return <-ch
	}
}

// waitForSubmit waits for the next event of a running batch
func waitForSubmit(ch <-chan tea.Msg) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-ch
		if !ok {
			return nil
		}
		return msg
	}
}

// fetchCurrentUser resolves the authenticated user's login
func fetchCurrentUser(ctx context.Context, backend Backend) tea.Cmd {
	return func() tea.Msg {
		login, err := backend.CurrentUser(ctx)
		if err == nil && login == "" {
			err = errors.New("empty login")
		}
		return CurrentUserMsg{Login: login, Err: err}
	}
}

// loadRepos fetches the open pulls of every repo
func loadRepos(ctx context.Context, backend Backend, repos []string, limit int) tea.Cmd {
	return func() tea.Msg {
		return ReposLoadedMsg{Loads: backend.LoadRepos(ctx, repos, limit)}
	}
}

func expireToast(seq int, d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return toastExpiredMsg{seq: seq}
	})
}

func copyToClipboard(cb ClipboardWriter, text string) tea.Cmd {
	return func() tea.Msg {
		return clipboardResultMsg{err: cb.WriteText(text)}
	}
}

// mergeLoads builds the new repo list, carrying over the checked state of
// pulls that are still open. A repo that failed to load keeps its previous
// pulls.
func mergeLoads(previous []review.RepoHasCheck, msg ReposLoadedMsg) ([]review.RepoHasCheck, map[string]error) {
	before := map[string]review.RepoHasCheck{}
	checked := map[string]map[int]bool{}
	for _, repo := range previous {
		before[repo.Repo] = repo
		for _, p := range repo.Pulls {
			if p.Checked {
				if checked[repo.Repo] == nil {
					checked[repo.Repo] = map[int]bool{}
				}
				checked[repo.Repo][p.Number] = true
			}
		}
	}

	repos := make([]review.RepoHasCheck, 0, len(msg.Loads))
	errs := map[string]error{}
	for _, load := range msg.Loads {
		repo := load.Repo
		if load.Err != nil {
			errs[repo.Repo] = load.Err
			if old, ok := before[repo.Repo]; ok {
				repo.Pulls = old.Pulls
			}
		}
		pulls := make([]review.Pull, len(repo.Pulls))
		for i, p := range repo.Pulls {
			p.Checked = checked[repo.Repo][p.Number]
			pulls[i] = p
		}
		repo.Pulls = pulls
		repos = append(repos, repo)
	}
	return repos, errs
}

func cloneRepos(repos []review.RepoHasCheck) []review.RepoHasCheck {
	out := make([]review.RepoHasCheck, len(repos))
	for i, repo := range repos {
		out[i] = review.RepoHasCheck{
			Repo:  repo.Repo,
			Pulls: append([]review.Pull(nil), repo.Pulls...),
		}
	}
	return out
}

func clearChecks(repos []review.RepoHasCheck) []review.RepoHasCheck {
	out := cloneRepos(repos)
	for i := range out {
		for j := range out[i].Pulls {
			out[i].Pulls[j].Checked = false
		}
	}
	return out
}
