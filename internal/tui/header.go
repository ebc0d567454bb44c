package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/mandelcalc/internal/format"
)

// HeaderModel renders the title bar with the render geometry and the
// elapsed time.
type HeaderModel struct {
	startTime time.Time
	endTime   time.Time
	version   string
	summary   string
	width     int
}

func NewHeaderModel(version, summary string) HeaderModel {
	return HeaderModel{startTime: time.Now(), version: version, summary: summary}
}

// SetDone freezes the elapsed timer.
func (h *HeaderModel) SetDone() {
	if h.endTime.IsZero() {
		h.endTime = time.Now()
	}
}

func (h *HeaderModel) Reset() {
	h.startTime = time.Now()
	h.endTime = time.Time{}
}

func (h *HeaderModel) SetWidth(w int) { h.width = w }

// Elapsed returns the running or frozen duration.
func (h HeaderModel) Elapsed() time.Duration {
	if !h.endTime.IsZero() {
		return h.endTime.Sub(h.startTime)
	}
	return time.Since(h.startTime)
}

func (h HeaderModel) View() string {
	title := "Mandelcalc"
	if h.version != "" && h.version != "dev" {
		title += " " + h.version
	}
	sep := dimStyle.Render(" | ")
	row := titleStyle.Render(title) + sep + dimStyle.Render(h.summary) + sep +
		accentStyle.Render(fmt.Sprintf("Elapsed: %s", format.FormatExecutionDuration(h.Elapsed())))
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += spaces(gap)
	}
	return headerStyle.Render(row)
}

func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	return fmt.Sprintf("%*s", n, "")
}
