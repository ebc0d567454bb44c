package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/orchestration"
)

type rowState int

const (
	rowPending rowState = iota
	rowRunning
	rowDone
	rowFailed
)

type strategyRow struct {
	name     string
	progress float64
	state    rowState
	duration time.Duration
	checksum string
	err      error
}

// StrategiesModel shows one progress bar per strategy.
type StrategiesModel struct {
	rows     []strategyRow
	average  float64
	eta      time.Duration
	selected string
	saved    string
	width    int
}

func NewStrategiesModel(names []string) StrategiesModel {
	rows := make([]strategyRow, len(names))
	for i, n := range names {
		rows[i] = strategyRow{name: n}
	}
	return StrategiesModel{rows: rows}
}

func (s *StrategiesModel) SetWidth(w int) { s.width = w }

// SetProgress updates the bar of the strategy at index.
func (s *StrategiesModel) SetProgress(msg ProgressMsg) {
	if msg.RenderIndex < 0 || msg.RenderIndex >= len(s.rows) {
		return
	}
	row := &s.rows[msg.RenderIndex]
	row.progress = min(max(msg.Value, 0), 1)
	if row.state == rowPending {
		row.state = rowRunning
	}
	s.average = msg.AverageProgress
	s.eta = msg.ETA
}

// SetResults records durations, checksums and errors by strategy name.
func (s *StrategiesModel) SetResults(results []orchestration.RenderResult) {
	for _, res := range results {
		for i := range s.rows {
			if s.rows[i].name != res.Name {
				continue
			}
			row := &s.rows[i]
			row.duration = res.Duration
			row.checksum = res.Checksum
			row.err = res.Err
			row.state = rowDone
			row.progress = 1
			if res.Err != nil {
				row.state = rowFailed
			}
		}
	}
}

func (s *StrategiesModel) SetSelected(name string) { s.selected = name }

func (s *StrategiesModel) SetSaved(path string) { s.saved = path }

// Reset returns every row to pending.
func (s *StrategiesModel) Reset() {
	for i := range s.rows {
		s.rows[i] = strategyRow{name: s.rows[i].name}
	}
	s.average, s.eta, s.selected, s.saved = 0, 0, "", ""
}

func (s StrategiesModel) View() string {
	nameWidth := 0
	for _, r := range s.rows {
		nameWidth = max(nameWidth, len(r.name))
	}
	barWidth := max(s.width-nameWidth-30, 10)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Strategies"))
	for _, r := range s.rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s ", nameWidth, r.name)))
		b.WriteString(renderBar(r.progress, barWidth))
		b.WriteString(fmt.Sprintf(" %5.1f%% ", r.progress*100))
		b.WriteString(rowStatus(r))
	}
	b.WriteString("\n\n")
	b.WriteString(labelStyle.Render("Overall "))
	b.WriteString(valueStyle.Render(format.FormatProgressBarWithETA(s.average, s.eta, barWidth)))
	if s.selected != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Fastest "))
		b.WriteString(successStyle.Render(s.selected))
	}
	if s.saved != "" {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render("Saved   "))
		b.WriteString(accentStyle.Render(s.saved))
	}
	return panelStyle.Width(max(s.width-2, 0)).Render(b.String())
}

func renderBar(p float64, width int) string {
	filled := int(p * float64(width))
	return barFullStyle.Render(strings.Repeat("█", filled)) + barEmptyStyle.Render(strings.Repeat("░", width-filled))
}

func rowStatus(r strategyRow) string {
	switch r.state {
	case rowRunning:
		return statusRunningStyle.Render("running")
	case rowDone:
		sum := r.checksum
		if len(sum) > 8 {
			sum = sum[:8]
		}
		return successStyle.Render(format.FormatExecutionDuration(r.duration)) + " " + dimStyle.Render(sum)
	case rowFailed:
		return errorStyle.Render("failed: " + r.err.Error())
	}
	return dimStyle.Render("pending")
}
