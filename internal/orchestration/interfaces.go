package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/mandelcalc/internal/progress"
	"github.com/agbru/mandelcalc/internal/raster"
)

// RenderResult is the outcome of running one strategy.
type RenderResult struct {
	// Name is the strategy name.
	Name string
	// Buffer is the rendered image; nil if Err is set.
	Buffer *raster.Buffer
	// Checksum is the hex SHA-256 of the buffer.
	Checksum string
	// Duration is the wall-clock time of the render phase.
	Duration time.Duration
	Err      error
}

// PresentationOptions configures how results are presented.
type PresentationOptions struct {
	Width   int
	Height  int
	Threads int
	Verbose bool
	Details bool
}

// ProgressReporter displays render progress. DisplayProgress runs in its own
// goroutine until progressChan is closed, then calls wg.Done.
type ProgressReporter interface {
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numRenders int, out io.Writer)
}

// ProgressReporterFunc adapts a function to ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numRenders int, out io.Writer)

// DisplayProgress calls f.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numRenders int, out io.Writer) {
	f(wg, progressChan, numRenders, out)
}

// NullProgressReporter drains the channel without output. Used in quiet mode.
type NullProgressReporter struct{}

// DisplayProgress drains the channel.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter formats render results.
type ResultPresenter interface {
	// PresentComparisonTable displays one row per strategy.
	PresentComparisonTable(results []RenderResult, out io.Writer)
	// PresentResult displays the selected result.
	PresentResult(result RenderResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler prints a render error and returns its exit code.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
