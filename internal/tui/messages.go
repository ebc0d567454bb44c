package tui

import (
	"time"

	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/orchestration"
)

// ProgressMsg carries one aggregated progress update.
type ProgressMsg struct {
	RenderIndex     int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// ProgressDoneMsg is sent once the progress channel is closed.
type ProgressDoneMsg struct{}

// ComparisonResultsMsg carries every strategy result, sorted.
type ComparisonResultsMsg struct {
	Results []orchestration.RenderResult
}

// FinalResultMsg carries the result that will be written to disk.
type FinalResultMsg struct {
	Result  orchestration.RenderResult
	Options orchestration.PresentationOptions
}

// ErrorMsg reports a failed run.
type ErrorMsg struct {
	Err      error
	Duration time.Duration
}

// TickMsg drives periodic sampling.
type TickMsg time.Time

// MemStatsMsg carries a runtime memory snapshot.
type MemStatsMsg struct {
	metrics.MemorySnapshot
	NumGoroutine int
}

// SysStatsMsg carries host-wide usage percentages.
type SysStatsMsg struct {
	CPUPercent float64
	MemPercent float64
}

// RenderCompleteMsg ends a run. Messages from an older generation (before a
// restart) are ignored.
type RenderCompleteMsg struct {
	ExitCode   int
	Generation uint64
	Saved      string
	Err        error
}

// ContextCancelledMsg is sent when the run's context ends.
type ContextCancelledMsg struct {
	Err        error
	Generation uint64
}
