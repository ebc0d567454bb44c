// Package calibration benchmarks thread counts for the configured image width
// and strategy.
package calibration

import (
	"context"
	"io"
	"runtime"
	"time"

	"github.com/agbru/mandelcalc/internal/config"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/progress"
	"github.com/agbru/mandelcalc/internal/render"
)

// MaxSampleHeight caps the rows rendered per trial. Every column keeps its
// full cost profile, so relative timings match the full image.
const MaxSampleHeight = 256

// Result is the timing of one thread count.
type Result struct {
	Threads  int
	Columns  int // columns per band
	Duration time.Duration
	Err      error
}

// Candidates returns the thread counts worth trying for width: every divisor
// up to four times the CPU count.
func Candidates(width int) []int {
	return config.CandidateThreads(width, 4*runtime.NumCPU())
}

// SampleOptions returns base with its height reduced to the trial size.
func SampleOptions(base render.Options) render.Options {
	base.Height = min(base.Height, MaxSampleHeight)
	return base
}

// Benchmark renders the sample once per candidate with strategy and returns
// the timings in candidate order together with the fastest thread count.
// It stops at the first context error.
func Benchmark(ctx context.Context, strategy render.Strategy, base render.Options, candidates []int, logger logging.Logger) ([]Result, int, error) {
	if logger == nil {
		logger = logging.Nop()
	}
	opts := SampleOptions(base)
	results := make([]Result, 0, len(candidates))
	best, bestDur := 0, time.Duration(0)

	for _, threads := range candidates {
		opts.Threads = threads
		start := time.Now()
		_, err := strategy.Render(ctx, opts, progress.Noop)
		res := Result{Threads: threads, Columns: opts.Width / threads, Duration: time.Since(start), Err: err}
		results = append(results, res)
		if apperrors.IsContextError(err) {
			return results, best, err
		}
		if err != nil {
			logger.Error("calibration trial failed", err, logging.Int("threads", threads))
			continue
		}
		logger.Debug("calibration trial", logging.Int("threads", threads), logging.Duration("duration", res.Duration))
		if best == 0 || res.Duration < bestDur {
			best, bestDur = threads, res.Duration
		}
	}
	if best == 0 {
		return results, 0, apperrors.NewConfigError("no thread count could render a %dx%d sample", opts.Width, opts.Height)
	}
	return results, best, nil
}

// RunCalibration benchmarks the candidates for cfg and prints the summary.
// It returns an exit code.
func RunCalibration(ctx context.Context, cfg config.AppConfig, strategy render.Strategy, logger logging.Logger, out io.Writer) int {
	base := cfg.ToRenderOptions()
	base.Logger = logger
	candidates := Candidates(cfg.Width)
	printCalibrationHeader(out, cfg, strategy.Name(), SampleOptions(base).Height, len(candidates))

	results, best, err := Benchmark(ctx, strategy, base, candidates, logger)
	printCalibrationResults(out, results, best)
	if err != nil {
		return apperrors.HandleRenderError(err, 0, out, nil)
	}
	printRecommendation(out, best)
	return apperrors.ExitSuccess
}
