package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fini-net/gh-batch-review/internal/config"
	ghclient "github.com/fini-net/gh-batch-review/internal/github"
	"github.com/fini-net/gh-batch-review/internal/i18n"
	"github.com/fini-net/gh-batch-review/internal/logger"
	"github.com/fini-net/gh-batch-review/internal/review"
	"github.com/fini-net/gh-batch-review/internal/tui"
)

// exitError carries a process exit code without printing anything extra
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

type options struct {
	repos    []string
	limit    int
	lang     string
	event    string
	message  string
	noColor  bool
	logLevel string
}

func main() {
	exitCode := run()
	os.Exit(exitCode)
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := newRootCmd().ExecuteContext(ctx)
	if err == nil {
		return 0
	}
	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	return 1
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "gh-batch-review [owner/repo | owner/repo#N ...]",
		Short: "Review several GitHub pull requests at once",
		Long: `gh-batch-review lists the open pull requests of one or more repositories
and submits the same review (comment, approve, or request changes) to every
selected pull request concurrently.

Without --event it opens an interactive form. With --event it reviews the
pull requests given as owner/repo#N arguments and exits non-zero if any
review failed.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRoot(cmd, args, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringArrayVar(&opts.repos, "repo", nil, "repository to list (owner/name), repeatable")
	flags.IntVar(&opts.limit, "limit", 0, "maximum open pull requests per repository")
	flags.StringVar(&opts.lang, "lang", "", "interface language (en, ja)")
	flags.StringVar(&opts.event, "event", "", "submit without the form: comment, approve, or request-changes")
	flags.StringVarP(&opts.message, "message", "m", "", "review body for --event")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colors")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	return cmd
}

func runRoot(cmd *cobra.Command, args []string, opts options) error {
	ctx := cmd.Context()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cmd, cfg, opts); err != nil {
		return err
	}

	argRepos, refs, err := parseArgs(args)
	if err != nil {
		return err
	}
	repos, err := resolveRepos(append(opts.repos, argRepos...), refs, cfg.Repos)
	if err != nil {
		return err
	}

	if cfg.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	log, err := logger.New(cfg.LoggerConfig())
	if err != nil {
		return fmt.Errorf("failed to open log: %w", err)
	}
	defer log.Close()

	// Get GitHub token
	token, err := ghclient.GetToken()
	if err != nil {
		return err
	}
	client, err := ghclient.NewClient(ctx, token, cfg.GitHub.BaseURL, log)
	if err != nil {
		return fmt.Errorf("failed to create GitHub client: %w", err)
	}

	out := cmd.OutOrStdout()

	if opts.event != "" {
		t, err := review.ParseType(opts.event)
		if err != nil {
			return err
		}
		ok, err := runBatch(ctx, client, refs, t, opts.message, log, out)
		if err != nil {
			return err
		}
		if !ok {
			return &exitError{code: 1}
		}
		return nil
	}

	// Non-interactive mode: print snapshot and exit
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return runSnapshot(ctx, client, repos, cfg.Limit, out)
	}

	mdStyle := "dark"
	if cfg.NoColor {
		mdStyle = "notty"
	}
	model := tui.NewModel(ctx, client, tui.Options{
		Repos:         repos,
		Limit:         cfg.Limit,
		ToastDuration: cfg.ToastDuration,
		Styles: tui.NewStyles(
			cfg.Colors.Success,
			cfg.Colors.Failure,
			cfg.Colors.Running,
			cfg.Colors.Queued,
		),
		Translator:    i18n.New(cfg.Language),
		Logger:        log,
		MarkdownStyle: mdStyle,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("error running TUI: %w", err)
	}
	return nil
}

// applyFlags overrides config values with the flags that were set.
func applyFlags(cmd *cobra.Command, cfg *config.Config, opts options) error {
	flags := cmd.Flags()
	if flags.Changed("limit") {
		cfg.Limit = opts.limit
	}
	if flags.Changed("lang") {
		cfg.Language = opts.lang
	}
	if flags.Changed("no-color") {
		cfg.NoColor = opts.noColor
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = strings.ToLower(opts.logLevel)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid flags: %w", err)
	}
	if flags.Changed("message") && opts.event == "" {
		return errors.New("--message requires --event")
	}
	return nil
}

// parseArgs splits positional arguments into repositories and pull references.
func parseArgs(args []string) ([]string, []ghclient.PullRef, error) {
	var (
		repos []string
		refs  []ghclient.PullRef
	)
	for _, arg := range args {
		if strings.Contains(arg, "#") {
			ref, err := ghclient.ParsePullRef(arg)
			if err != nil {
				return nil, nil, err
			}
			refs = append(refs, ref)
			continue
		}
		if _, _, err := ghclient.SplitRepo(arg); err != nil {
			return nil, nil, err
		}
		repos = append(repos, arg)
	}
	return repos, refs, nil
}

// resolveRepos picks the repositories to list: explicit ones first, then the
// repositories of the pull references, then config, then the git origin.
func resolveRepos(explicit []string, refs []ghclient.PullRef, configured []string) ([]string, error) {
	var repos []string
	seen := map[string]bool{}
	add := func(repo string) {
		if !seen[repo] {
			seen[repo] = true
			repos = append(repos, repo)
		}
	}
	for _, repo := range explicit {
		add(repo)
	}
	for _, ref := range refs {
		add(ref.Repo)
	}
	if len(repos) > 0 {
		return repos, nil
	}
	for _, repo := range configured {
		add(repo)
	}
	if len(repos) > 0 {
		return repos, nil
	}

	owner, name, err := ghclient.ParseOwnerRepo()
	if err != nil {
		return nil, fmt.Errorf("no repository given and %w", err)
	}
	return []string{owner + "/" + name}, nil
}
