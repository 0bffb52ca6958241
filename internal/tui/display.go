package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/mattn/go-runewidth"

	"github.com/fini-net/gh-batch-review/internal/review"
	"github.com/fini-net/gh-batch-review/internal/timing"
)

// ColumnWidths stores calculated column widths for pull rows
type ColumnWidths struct {
	NumberWidth int
	TitleWidth  int
	AuthorWidth int
}

// CIIcon returns the icon for a statusCheckRollup state
func CIIcon(state string) string {
	switch state {
	case "success":
		return "✓"
	case "failure", "error":
		return "✗"
	case "pending", "expected":
		return "◐"
	case "":
		return "-"
	default:
		return "?"
	}
}

// DecisionLabel returns a short label for a pull's review decision
func DecisionLabel(decision string) string {
	switch decision {
	case "approved":
		return "approved"
	case "changes_requested":
		return "changes requested"
	case "review_required":
		return "review required"
	default:
		return ""
	}
}

// Checkbox renders the selection flag
func Checkbox(checked bool) string {
	if checked {
		return "[x]"
	}
	return "[ ]"
}

// TruncateTitle shortens title to fit width terminal cells
func TruncateTitle(title string, width int) string {
	if width <= 0 {
		return ""
	}
	if runewidth.StringWidth(title) <= width {
		return title
	}
	return runewidth.Truncate(title, width, "…")
}

// CalculateColumnWidths scans all pulls and sizes the columns to fit totalWidth
func CalculateColumnWidths(repos []review.RepoHasCheck, totalWidth int) ColumnWidths {
	const (
		minTitleWidth  = 20
		maxTitleWidth  = 60
		minAuthorWidth = 6
		maxAuthorWidth = 20
		// "  [x] " + gaps between number/title/author/age + age + icon + decision
		fixedWidth = 6 + 2 + 2 + 2 + 4 + 2 + 1 + 2 + 17
	)

	widths := ColumnWidths{
		NumberWidth: 2,
		AuthorWidth: minAuthorWidth,
	}

	longestTitle := 0
	for _, repo := range repos {
		for _, pull := range repo.Pulls {
			if n := len(fmt.Sprintf("#%d", pull.Number)); n > widths.NumberWidth {
				widths.NumberWidth = n
			}
			if w := runewidth.StringWidth(pull.Author); w > widths.AuthorWidth {
				widths.AuthorWidth = min(w, maxAuthorWidth)
			}
			if w := runewidth.StringWidth(displayTitle(pull)); w > longestTitle {
				longestTitle = w
			}
		}
	}

	available := totalWidth - fixedWidth - widths.NumberWidth - widths.AuthorWidth
	widths.TitleWidth = max(minTitleWidth, min(longestTitle, maxTitleWidth, available))

	return widths
}

func displayTitle(pull review.Pull) string {
	if pull.IsDraft {
		return pull.Title + " (draft)"
	}
	return pull.Title
}

// FormatPullRow formats the plain columns of one pull:
// checkbox, number, title, author and age
func FormatPullRow(pull review.Pull, widths ColumnWidths, now time.Time) string {
	number := fmt.Sprintf("#%d", pull.Number)
	title := TruncateTitle(displayTitle(pull), widths.TitleWidth)
	author := TruncateTitle(pull.Author, widths.AuthorWidth)

	return fmt.Sprintf("%s %s  %s  %s  %4s",
		Checkbox(pull.Checked),
		runewidth.FillLeft(number, widths.NumberWidth),
		runewidth.FillRight(title, widths.TitleWidth),
		runewidth.FillRight(author, widths.AuthorWidth),
		timing.Age(pull.CreatedAt, now),
	)
}

// FormatFailedItems lists failed items one per line as "repo: title"
func FormatFailedItems(failed []review.SubmissionError) string {
	var b strings.Builder
	for _, f := range failed {
		fmt.Fprintf(&b, "%s: %s\n", f.Repo, f.PullTitle)
	}
	return b.String()
}

// FormatSnapshot renders repos and their pulls as plain text for non-terminal output
func FormatSnapshot(repos []review.RepoHasCheck, now time.Time) string {
	widths := CalculateColumnWidths(repos, 120)

	var b strings.Builder
	for i, repo := range repos {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(repo.Repo + "\n")
		if len(repo.Pulls) == 0 {
			b.WriteString("  (no open pull requests)\n")
			continue
		}
		for _, pull := range repo.Pulls {
			line := fmt.Sprintf("  %s %s %s", FormatPullRow(pull, widths, now), CIIcon(pull.CIState), DecisionLabel(pull.ReviewDecision))
			b.WriteString(strings.TrimRight(line, " ") + "\n")
		}
	}
	return b.String()
}
