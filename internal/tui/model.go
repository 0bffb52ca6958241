package tui

import (
	"context"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"

	ghclient "github.com/fini-net/gh-batch-review/internal/github"
	"github.com/fini-net/gh-batch-review/internal/i18n"
	"github.com/fini-net/gh-batch-review/internal/logger"
	"github.com/fini-net/gh-batch-review/internal/review"
)

// Backend is the remote capability behind the form.
type Backend interface {
	review.Submitter
	CurrentUser(ctx context.Context) (string, error)
	LoadRepos(ctx context.Context, repos []string, limit int) []ghclient.RepoLoad
}

// ClipboardWriter is an interface for clipboard operations (allows mocking in tests)
type ClipboardWriter interface {
	WriteText(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteText(text string) error {
	return clipboard.WriteAll(text)
}

type focusArea int

const (
	focusList focusArea = iota
	focusComment
)

// Options configures a Model.
type Options struct {
	Repos         []string
	Limit         int
	ToastDuration time.Duration
	Styles        Styles
	Translator    *i18n.Translator
	Logger        *logger.Logger
	Clipboard     ClipboardWriter
	MarkdownStyle string // glamour standard style name
}

// Model holds the application state
type Model struct {
	ctx     context.Context
	backend Backend

	repoNames []string
	limit     int

	// Selection
	repos       []review.RepoHasCheck
	loadErrs    map[string]error
	cursor      int
	currentUser string
	identityErr error

	// Form
	comment textarea.Model
	focus   focusArea

	// Dialog and batch
	dialog    DialogState
	progress  ProgressState
	errors    []review.SubmissionError
	dialogErr error
	preview   string // rendered comment, fixed while the dialog is open
	runID     string
	bar       progress.Model

	// Toast
	toast         string
	toastSeq      int
	toastDuration time.Duration

	// UI state
	spinner       spinner.Model
	loading       bool
	width         int
	height        int
	styles        Styles
	tr            *i18n.Translator
	log           *logger.Logger
	clipboard     ClipboardWriter
	markdownStyle string

	quitting bool
}

// NewModel creates a new TUI model
func NewModel(ctx context.Context, backend Backend, opts Options) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	tr := opts.Translator
	if tr == nil {
		tr = i18n.New("en")
	}
	log := opts.Logger
	if log == nil {
		log = logger.Discard()
	}
	cb := opts.Clipboard
	if cb == nil {
		cb = systemClipboard{}
	}
	mdStyle := opts.MarkdownStyle
	if mdStyle == "" {
		mdStyle = "dark"
	}
	toastDuration := opts.ToastDuration
	if toastDuration <= 0 {
		toastDuration = 3 * time.Second
	}

	ta := textarea.New()
	ta.Placeholder = tr.T(i18n.KeyCommentPlaceholder)
	ta.ShowLineNumbers = false
	ta.CharLimit = 65536
	ta.SetHeight(4)

	return Model{
		ctx:           ctx,
		backend:       backend,
		repoNames:     opts.Repos,
		limit:         opts.Limit,
		loadErrs:      map[string]error{},
		comment:       ta,
		dialog:        Closed{},
		progress:      Idle{},
		bar:           progress.New(progress.WithDefaultGradient()),
		toastDuration: toastDuration,
		spinner:       s,
		loading:       true,
		styles:        opts.Styles,
		tr:            tr,
		log:           log.Component("tui"),
		clipboard:     cb,
		markdownStyle: mdStyle,
	}
}

// checkedPulls returns the flattened checked selection.
func (m Model) checkedPulls() []review.CheckedPullInfo {
	return review.CheckedPulls(m.repos)
}

// gate returns the current enablement flags.
func (m Model) gate() review.Gate {
	return review.NewGate(m.repos, m.currentUser, m.comment.Value())
}

// rowRef locates one pull in m.repos.
type rowRef struct {
	repo int
	pull int
}

// rows flattens the pulls in display order.
func (m Model) rows() []rowRef {
	var refs []rowRef
	for i, repo := range m.repos {
		for j := range repo.Pulls {
			refs = append(refs, rowRef{repo: i, pull: j})
		}
	}
	return refs
}

// selectedRow returns the row under the cursor.
func (m Model) selectedRow() (rowRef, bool) {
	rows := m.rows()
	if m.cursor < 0 || m.cursor >= len(rows) {
		return rowRef{}, false
	}
	return rows[m.cursor], true
}

func (m Model) dialogTitle(t review.Type) string {
	switch t {
	case review.Comment:
		return m.tr.T(i18n.KeyTitleComment)
	case review.Approve:
		return m.tr.T(i18n.KeyTitleApprove)
	case review.RequestChanges:
		return m.tr.T(i18n.KeyTitleRequestChange)
	}
	return ""
}
