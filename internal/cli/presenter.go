package cli

import (
	"fmt"
	"io"
	"runtime"
	"sync"
	"time"

	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/orchestration"
	"github.com/agbru/mandelcalc/internal/progress"
	"github.com/agbru/mandelcalc/internal/ui"
)

// CLIProgressReporter shows a spinner and progress bar while rendering.
type CLIProgressReporter struct{}

var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress implements orchestration.ProgressReporter.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numRenders int, out io.Writer) {
	DisplayProgress(wg, progressChan, numRenders, out)
}

// CLIResultPresenter prints colorized render results.
type CLIResultPresenter struct{}

var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentComparisonTable prints one row per strategy. Columns are padded by
// hand because the cells contain ANSI sequences.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.RenderResult, out io.Writer) {
	if len(results) < 2 {
		return
	}
	fmt.Fprintf(out, "\n--- Strategy Comparison ---\n")

	nameWidth, durWidth := len("Strategy"), len("Duration")
	for _, res := range results {
		nameWidth = max(nameWidth, len(res.Name))
		durWidth = max(durWidth, len(format.FormatExecutionDuration(res.Duration)))
	}

	fmt.Fprintf(out, "%sStrategy%s%s   %sDuration%s%s   %sStatus%s\n",
		ui.ColorBold(), ui.ColorReset(), padRight("", nameWidth-len("Strategy")),
		ui.ColorBold(), ui.ColorReset(), padRight("", durWidth-len("Duration")),
		ui.ColorBold(), ui.ColorReset())

	for _, res := range results {
		status := fmt.Sprintf("%sOK%s %s", ui.ColorGreen(), ui.ColorReset(), shortChecksum(res.Checksum))
		if res.Err != nil {
			status = fmt.Sprintf("%sFailed (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())
		}
		duration := format.FormatExecutionDuration(res.Duration)
		fmt.Fprintf(out, "%s%s%s%s   %s%s%s%s   %s\n",
			ui.ColorBlue(), res.Name, ui.ColorReset(), padRight("", nameWidth-len(res.Name)),
			ui.ColorYellow(), duration, ui.ColorReset(), padRight("", durWidth-len(duration)),
			status)
	}
}

func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + fmt.Sprintf("%*s", length, "")
}

func shortChecksum(sum string) string {
	if len(sum) > 12 {
		return sum[:12]
	}
	return sum
}

// PresentResult prints the render summary of the selected strategy.
func (CLIResultPresenter) PresentResult(result orchestration.RenderResult, opts orchestration.PresentationOptions, out io.Writer) {
	pixels := opts.Width * opts.Height
	fmt.Fprintf(out, "\n--- Render Result ---\n")
	fmt.Fprintf(out, "Strategy:   %s%s%s\n", ui.ColorGreen(), result.Name, ui.ColorReset())
	fmt.Fprintf(out, "Image:      %s%dx%d%s (%s pixels)\n", ui.ColorCyan(), opts.Width, opts.Height, ui.ColorReset(), format.FormatInt(pixels))
	fmt.Fprintf(out, "Throughput: %s\n", format.FormatPixelRate(pixels, result.Duration.Seconds()))
	if opts.Verbose {
		fmt.Fprintf(out, "Threads:    %d (%d columns per band)\n", opts.Threads, opts.Width/max(1, opts.Threads))
	}
	if opts.Details {
		fmt.Fprintf(out, "SHA-256:    %s\n", result.Checksum)
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)
		DisplayMemoryStats(ms.HeapAlloc, ms.TotalAlloc, ms.NumGC, ms.PauseTotalNs, out)
	}
}

// FormatDuration implements orchestration.DurationFormatter.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError implements orchestration.ErrorHandler.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleRenderError(err, duration, out, CLIColorProvider{})
}

// DisplayMemoryStats prints runtime memory statistics.
func DisplayMemoryStats(heapAlloc, totalAlloc uint64, numGC uint32, pauseTotalNs uint64, out io.Writer) {
	fmt.Fprintf(out, "\nMemory Stats:\n")
	fmt.Fprintf(out, "  Heap in use:     %s\n", format.FormatBytes(heapAlloc))
	fmt.Fprintf(out, "  Total allocated: %s\n", format.FormatBytes(totalAlloc))
	fmt.Fprintf(out, "  GC cycles:       %d\n", numGC)
	fmt.Fprintf(out, "  GC pause total:  %.2fms\n", float64(pauseTotalNs)/1e6)
}
