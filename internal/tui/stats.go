package tui

import (
	"fmt"
	"strings"

	"github.com/agbru/mandelcalc/internal/format"
)

// sparklineSamples is the history kept for the host usage sparklines.
const sparklineSamples = 120

// StatsModel shows runtime memory and host CPU/memory usage.
type StatsModel struct {
	mem        MemStatsMsg
	cpuHistory *RingBuffer
	memHistory *RingBuffer
	width      int
}

func NewStatsModel() StatsModel {
	return StatsModel{
		cpuHistory: NewRingBuffer(sparklineSamples),
		memHistory: NewRingBuffer(sparklineSamples),
	}
}

func (s *StatsModel) SetWidth(w int) { s.width = w }

func (s *StatsModel) UpdateMemStats(msg MemStatsMsg) { s.mem = msg }

func (s *StatsModel) UpdateSysStats(msg SysStatsMsg) {
	s.cpuHistory.Push(msg.CPUPercent)
	s.memHistory.Push(msg.MemPercent)
}

func (s *StatsModel) Reset() {
	s.mem = MemStatsMsg{}
	s.cpuHistory.Reset()
	s.memHistory.Reset()
}

func (s StatsModel) View() string {
	sparkWidth := max(s.width-20, 8)
	var b strings.Builder
	b.WriteString(titleStyle.Render("System"))
	fmt.Fprintf(&b, "\n%s %s / %s",
		labelStyle.Render("Heap      "),
		valueStyle.Render(format.FormatBytes(s.mem.HeapAlloc)),
		valueStyle.Render(format.FormatBytes(s.mem.HeapSys)))
	fmt.Fprintf(&b, "\n%s %s",
		labelStyle.Render("GC        "),
		valueStyle.Render(fmt.Sprintf("%d (%.1fms)", s.mem.NumGC, float64(s.mem.PauseTotalNs)/1e6)))
	fmt.Fprintf(&b, "\n%s %s",
		labelStyle.Render("Goroutines"),
		valueStyle.Render(fmt.Sprintf("%d", s.mem.NumGoroutine)))
	fmt.Fprintf(&b, "\n%s %5.1f%% %s",
		labelStyle.Render("CPU       "), s.cpuHistory.Last(),
		cpuSparklineStyle.Render(RenderSparkline(s.cpuHistory.Values(), sparkWidth)))
	fmt.Fprintf(&b, "\n%s %5.1f%% %s",
		labelStyle.Render("Memory    "), s.memHistory.Last(),
		memSparklineStyle.Render(RenderSparkline(s.memHistory.Values(), sparkWidth)))
	return panelStyle.Width(max(s.width-2, 0)).Render(b.String())
}
