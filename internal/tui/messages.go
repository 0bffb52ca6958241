package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	ghclient "github.com/fini-net/gh-batch-review/internal/github"
	"github.com/fini-net/gh-batch-review/internal/review"
)

// CurrentUserMsg carries the authenticated user's login
type CurrentUserMsg struct {
	Login string
	Err   error
}

// ReposLoadedMsg contains the open pulls of every configured repo
type ReposLoadedMsg struct {
	Loads []ghclient.RepoLoad
}

// submitProgressMsg reports progress of the batch identified by runID.
// ch is the batch's event channel, used to wait for the next event.
type submitProgressMsg struct {
	runID string
	value float64
	ch    <-chan tea.Msg
}

// submitDoneMsg is sent once every call of the batch has settled
type submitDoneMsg struct {
	runID    string
	outcomes []review.Outcome
	elapsed  time.Duration
	err      error
}

type toastExpiredMsg struct {
	seq int
}

type clipboardResultMsg struct {
	err error
}
