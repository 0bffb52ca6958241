package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds all lipgloss styles for rendering
type Styles struct {
	Success  lipgloss.Style
	Failure  lipgloss.Style
	Running  lipgloss.Style
	Queued   lipgloss.Style
	Error    lipgloss.Style
	Header   lipgloss.Style
	Info     lipgloss.Style
	ErrorBox lipgloss.Style
	Repo     lipgloss.Style
	Cursor   lipgloss.Style
	Disabled lipgloss.Style
	Enabled  lipgloss.Style
	Toast    lipgloss.Style
	Modal    lipgloss.Style
}

// NewStyles creates styled renderers based on config colors
func NewStyles(successColor, failureColor, runningColor, queuedColor int) Styles {
	return Styles{
		Success: lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprint(successColor))).Bold(true),
		Failure: lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprint(failureColor))).Bold(true),
		Running: lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprint(runningColor))).Bold(true),
		Queued:  lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprint(queuedColor))),
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true), // Red
		Header:  lipgloss.NewStyle().Bold(true).Underline(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")), // Blue
		ErrorBox: lipgloss.NewStyle().
			BorderStyle(lipgloss.NormalBorder()).
			BorderLeft(true).
			BorderForeground(lipgloss.Color(fmt.Sprint(failureColor))).
			PaddingLeft(1),
		Repo:     lipgloss.NewStyle().Bold(true),
		Cursor:   lipgloss.NewStyle().Reverse(true),
		Disabled: lipgloss.NewStyle().Faint(true),
		Enabled:  lipgloss.NewStyle().Bold(true),
		Toast:    lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprint(successColor))).Bold(true),
		Modal: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("12")).
			Padding(1, 3),
	}
}
