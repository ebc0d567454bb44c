package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mandelcalc/internal/ui"
)

// Dashboard styles, rebuilt from the ui theme by initTUIStyles.
var (
	panelStyle         lipgloss.Style
	headerStyle        lipgloss.Style
	titleStyle         lipgloss.Style
	dimStyle           lipgloss.Style
	accentStyle        lipgloss.Style
	labelStyle         lipgloss.Style
	valueStyle         lipgloss.Style
	barFullStyle       lipgloss.Style
	barEmptyStyle      lipgloss.Style
	successStyle       lipgloss.Style
	errorStyle         lipgloss.Style
	footerKeyStyle     lipgloss.Style
	statusRunningStyle lipgloss.Style
	statusPausedStyle  lipgloss.Style
	statusDoneStyle    lipgloss.Style
	statusErrorStyle   lipgloss.Style
	cpuSparklineStyle  lipgloss.Style
	memSparklineStyle  lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles is called again by Run once the theme reflects -no-color.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()
	fg := func(c lipgloss.TerminalColor) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

	panelStyle = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Foreground(t.Text).
		Padding(0, 1)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1)
	titleStyle = fg(t.Accent).Bold(true)
	dimStyle = fg(t.Dim)
	accentStyle = fg(t.Accent)
	labelStyle = fg(t.Dim)
	valueStyle = fg(t.Text).Bold(true)
	barFullStyle = fg(t.Border)
	barEmptyStyle = fg(t.Dim)
	successStyle = fg(t.Success)
	errorStyle = fg(t.Error)
	footerKeyStyle = fg(t.Accent).Bold(true)
	statusRunningStyle = fg(t.Success).Bold(true)
	statusPausedStyle = fg(t.Warning).Bold(true)
	statusDoneStyle = fg(t.Accent).Bold(true)
	statusErrorStyle = fg(t.Error).Bold(true)
	cpuSparklineStyle = fg(t.Border)
	memSparklineStyle = fg(t.Warning)
}
