package orchestration

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/progress"
	"github.com/agbru/mandelcalc/internal/render"
)

// ProgressBufferMultiplier sizes the progress channel relative to the number
// of renders so the display rarely forces updates to be dropped.
const ProgressBufferMultiplier = 5

// ExecuteRenders runs each strategy in turn with the same options and
// returns one result per strategy, in input order. Strategies run one after
// another so each gets the whole machine. Once ctx is done the remaining
// strategies are not started and report ctx.Err().
//
// Parameters:
//   - ctx: The context for cancellation and the render deadline.
//   - strategies: The strategies to run.
//   - opts: The render options shared by every strategy.
//   - reporter: The progress reporter (NullProgressReporter for quiet mode).
//   - out: The io.Writer for progress output.
//
// Returns:
//   - []RenderResult: One result per strategy, in input order.
func ExecuteRenders(ctx context.Context, strategies []render.Strategy, opts render.Options, reporter ProgressReporter, out io.Writer) []RenderResult {
	results := make([]RenderResult, len(strategies))
	progressChan := make(chan progress.ProgressUpdate, max(1, len(strategies))*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(strategies), out)

	for i, s := range strategies {
		results[i] = RenderResult{Name: s.Name()}
		if err := ctx.Err(); err != nil {
			results[i].Err = err
			continue
		}

		start := time.Now()
		buf, err := s.Render(ctx, opts, progress.ChannelCallback(progressChan, i))
		results[i].Duration = time.Since(start)
		results[i].Err = err
		if err == nil {
			results[i].Buffer = buf
			results[i].Checksum = buf.Checksum()
		}
	}

	close(progressChan)
	displayWg.Wait()
	return results
}

// AnalyzeComparisonResults sorts results (successes first, fastest first),
// presents them and checks that every successful render produced the same
// image. It returns ExitErrorMismatch when two images differ and the exit
// code of the first error when nothing succeeded.
//
// Parameters:
//   - results: The render results to analyze. The slice is sorted in place.
//   - opts: The presentation options for the selected result.
//   - presenter: The result presenter for display formatting.
//   - errHandler: The handler that prints the error when nothing succeeded.
//   - out: The io.Writer for the summary report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeComparisonResults(results []RenderResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Duration < results[j].Duration
	})

	reference := BestResult(results)

	presenter.PresentComparisonTable(results, out)

	if reference == nil {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No strategy completed the render.\n")
		return errHandler.HandleError(FirstError(results), 0, out)
	}

	for _, res := range results {
		if res.Err == nil && !sameImage(res, *reference) {
			fmt.Fprintf(out, "\nGlobal Status: CRITICAL ERROR! %s and %s produced different images.\n", reference.Name, res.Name)
			return apperrors.ExitErrorMismatch
		}
	}

	if len(results) > 1 {
		fmt.Fprintf(out, "\nGlobal Status: Success. All images are byte-identical.\n")
	}
	presenter.PresentResult(*reference, opts, out)
	return apperrors.ExitSuccess
}

func sameImage(a, b RenderResult) bool {
	if a.Buffer == nil || b.Buffer == nil {
		return a.Checksum == b.Checksum
	}
	return bytes.Equal(a.Buffer.Pix, b.Buffer.Pix)
}

// BestResult returns the fastest successful result, or nil.
func BestResult(results []RenderResult) *RenderResult {
	var best *RenderResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if best == nil || results[i].Duration < best.Duration {
			best = &results[i]
		}
	}
	return best
}

// FirstError returns the first error in results, or nil.
func FirstError(results []RenderResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
