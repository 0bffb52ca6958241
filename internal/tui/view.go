package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/fini-net/gh-batch-review/internal/i18n"
	"github.com/fini-net/gh-batch-review/internal/review"
)

const (
	defaultWidth   = 100
	maxDialogItems = 10
	dialogWidth    = 72
)

// View renders the current state
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	if open, ok := m.dialog.(Open); ok {
		return m.renderDialog(open)
	}

	var b strings.Builder

	// Header
	b.WriteString(m.styles.Header.Render(m.tr.T(i18n.KeyAppTitle)))
	if m.currentUser != "" {
		b.WriteString(m.styles.Info.Render("  @" + m.currentUser))
	}
	b.WriteString("\n")
	if m.identityErr != nil {
		b.WriteString(m.styles.Running.Render("⚠ " + m.tr.T(i18n.KeyUnknownUser)))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if m.loading {
		b.WriteString(fmt.Sprintf("%s %s\n\n", m.spinner.View(), m.tr.T(i18n.KeyLoading)))
	}

	b.WriteString(m.renderPulls())
	b.WriteString("\n")

	// Comment box
	b.WriteString(m.styles.Repo.Render(m.tr.T(i18n.KeyCommentLabel)) + "\n")
	b.WriteString(m.comment.View() + "\n\n")

	b.WriteString(m.renderActions())
	b.WriteString("\n")

	if m.toast != "" {
		b.WriteString("\n" + m.styles.Toast.Render("✓ "+m.toast) + "\n")
	}

	b.WriteString("\n")
	if m.focus == focusComment {
		b.WriteString(m.styles.Disabled.Render(m.tr.T(i18n.KeyHelpComment)))
	} else {
		b.WriteString(m.styles.Disabled.Render(m.tr.T(i18n.KeyHelpList)))
	}
	b.WriteString("\n")

	return b.String()
}

// renderPulls lists every repo with its pulls, highlighting the cursor row
func (m Model) renderPulls() string {
	var b strings.Builder

	width := m.width
	if width == 0 {
		width = defaultWidth
	}
	widths := CalculateColumnWidths(m.repos, width)
	now := time.Now()

	row := 0
	for _, repo := range m.repos {
		b.WriteString(m.styles.Repo.Render(repo.Repo) + "\n")

		if err, failed := m.loadErrs[repo.Repo]; failed {
			b.WriteString("  " + m.styles.Error.Render(m.tr.T(i18n.KeyRepoLoadFailed, err)) + "\n")
		} else if len(repo.Pulls) == 0 {
			b.WriteString("  " + m.styles.Queued.Render(m.tr.T(i18n.KeyNoPulls)) + "\n")
		}

		for _, pull := range repo.Pulls {
			line := FormatPullRow(pull, widths, now)
			if row == m.cursor && m.focus == focusList {
				line = m.styles.Cursor.Render(line)
			}
			b.WriteString(fmt.Sprintf("  %s %s %s\n",
				line,
				m.ciStyle(pull.CIState).Render(CIIcon(pull.CIState)),
				m.styles.Queued.Render(DecisionLabel(pull.ReviewDecision)),
			))
			row++
		}
	}

	return b.String()
}

// renderActions shows the action keys, dimmed when the gate disallows them
func (m Model) renderActions() string {
	gate := m.gate()
	labels := map[review.Type]string{
		review.Comment:        m.tr.T(i18n.KeyButtonComment),
		review.Approve:        m.tr.T(i18n.KeyButtonApprove),
		review.RequestChanges: m.tr.T(i18n.KeyButtonRequestChange),
	}

	parts := make([]string, 0, len(review.Types)+1)
	for _, t := range review.Types {
		style := m.styles.Disabled
		if gate.Allows(t) {
			style = m.styles.Enabled
		}
		parts = append(parts, style.Render(labels[t]))
	}
	parts = append(parts, m.styles.Info.Render(m.tr.T(i18n.KeySelected, len(m.checkedPulls()))))

	return strings.Join(parts, "   ")
}

// renderDialog draws the confirmation dialog centred on screen
func (m Model) renderDialog(open Open) string {
	var b strings.Builder

	b.WriteString(m.styles.Header.Render(open.Title) + "\n\n")

	pulls := m.checkedPulls()
	b.WriteString(m.tr.T(i18n.KeyDialogTargets, len(pulls)) + "\n")
	for i, p := range pulls {
		if i == maxDialogItems {
			b.WriteString(m.styles.Queued.Render(fmt.Sprintf("  … +%d", len(pulls)-maxDialogItems)) + "\n")
			break
		}
		b.WriteString(fmt.Sprintf("  %s  %s\n", p.Ref(), TruncateTitle(p.Title, dialogWidth-len(p.Ref())-4)))
	}

	if m.preview != "" {
		b.WriteString("\n" + m.preview + "\n")
	}

	switch p := m.progress.(type) {
	case Running:
		b.WriteString("\n" + m.bar.ViewAs(p.Value/100) + "\n")
		b.WriteString(m.styles.Running.Render(m.tr.T(i18n.KeyDialogRunning, p.Value)) + "\n")
	case Idle:
	}

	if m.dialogErr != nil {
		b.WriteString("\n" + m.styles.Error.Render(m.tr.T(i18n.KeyDialogError, m.dialogErr)) + "\n")
	}

	if len(m.errors) > 0 {
		b.WriteString("\n" + m.styles.Failure.Render(m.tr.T(i18n.KeyAlertFailed, len(m.errors))) + "\n")
		b.WriteString(m.styles.ErrorBox.Render(strings.TrimRight(FormatFailedItems(m.errors), "\n")) + "\n")
	}

	if m.toast != "" {
		b.WriteString("\n" + m.styles.Toast.Render("✓ "+m.toast) + "\n")
	}

	footer := m.tr.T(i18n.KeyDialogConfirm)
	if len(m.errors) > 0 {
		footer += "   " + m.tr.T(i18n.KeyDialogCopy)
	}
	b.WriteString("\n" + m.styles.Disabled.Render(footer))

	modal := m.styles.Modal.Render(b.String())
	if m.width == 0 || m.height == 0 {
		return modal
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal)
}

func (m Model) ciStyle(state string) lipgloss.Style {
	switch state {
	case "success":
		return m.styles.Success
	case "failure", "error":
		return m.styles.Failure
	case "pending", "expected":
		return m.styles.Running
	default:
		return m.styles.Queued
	}
}
