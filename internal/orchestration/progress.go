package orchestration

import (
	"time"

	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/progress"
)

// ProgressAggregator folds per-render updates into an average and an ETA.
// The CLI spinner and the TUI both consume updates through it.
type ProgressAggregator struct {
	state      *format.ProgressWithETA
	numRenders int
}

// NewProgressAggregator returns nil if numRenders <= 0.
func NewProgressAggregator(numRenders int) *ProgressAggregator {
	if numRenders <= 0 {
		return nil
	}
	return &ProgressAggregator{
		state:      format.NewProgressWithETA(numRenders),
		numRenders: numRenders,
	}
}

// AggregatedProgress holds the result of processing a single progress update.
type AggregatedProgress struct {
	RenderIndex     int
	Value           float64
	AverageProgress float64
	ETA             time.Duration
}

// Update processes a single progress update and returns the aggregated result.
func (a *ProgressAggregator) Update(update progress.ProgressUpdate) AggregatedProgress {
	avgProgress, eta := a.state.UpdateWithETA(update.RenderIndex, update.Value)
	return AggregatedProgress{
		RenderIndex:     update.RenderIndex,
		Value:           update.Value,
		AverageProgress: avgProgress,
		ETA:             eta,
	}
}

// CalculateAverage returns the current average without updating.
func (a *ProgressAggregator) CalculateAverage() float64 {
	return a.state.CalculateAverage()
}

// GetETA returns the current estimate without updating.
func (a *ProgressAggregator) GetETA() time.Duration {
	return a.state.GetETA()
}

// NumRenders returns the number of renders tracked.
func (a *ProgressAggregator) NumRenders() int {
	return a.numRenders
}

// IsMultiRender reports whether more than one render is tracked.
func (a *ProgressAggregator) IsMultiRender() bool {
	return a.numRenders > 1
}

// DrainChannel discards updates until the channel is closed.
func DrainChannel(progressChan <-chan progress.ProgressUpdate) {
	for range progressChan {
	}
}
