package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/mandelcalc/internal/bmp"
	"github.com/agbru/mandelcalc/internal/cli"
	"github.com/agbru/mandelcalc/internal/config"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/orchestration"
	"github.com/agbru/mandelcalc/internal/raster"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/server"
	"github.com/agbru/mandelcalc/internal/sysmon"
)

const metricsShutdownTimeout = 5 * time.Second

// runRender renders the image with the selected strategies, reports the
// comparison and writes the fastest result to the output file.
func (a *Application) runRender(ctx context.Context, out io.Writer) int {
	if code := a.checkMemoryBudget(ctx, out); code != apperrors.ExitSuccess {
		return code
	}

	ctx, stop := a.lifecycle(ctx)
	defer stop()

	recorder, stopMetrics, err := a.startMetrics()
	if err != nil {
		return apperrors.HandleRenderError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	defer stopMetrics()

	strategies := orchestration.GetStrategiesToRun(a.Config.Strategy, a.Factory)
	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(strategies, out)
	}

	var reporter orchestration.ProgressReporter = cli.CLIProgressReporter{}
	progressOut := out
	if a.Config.Quiet {
		reporter = orchestration.NullProgressReporter{}
		progressOut = io.Discard
	}

	memory := metrics.NewMemoryCollector()
	before := memory.Snapshot()
	results := orchestration.ExecuteRenders(ctx, strategies, a.renderOptions(recorder), reporter, progressOut)
	allocated := before.Delta(memory.Snapshot())
	a.markTimeouts(results)

	presOpts := orchestration.PresentationOptions{
		Width:   a.Config.Width,
		Height:  a.Config.Height,
		Threads: a.Config.Threads,
		Verbose: a.Config.Verbose,
		Details: a.Config.Details,
	}
	var code int
	if a.Config.Quiet {
		code = orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, stderrHandler{a.ErrWriter}, io.Discard)
	} else {
		code = orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)
	}
	if code != apperrors.ExitSuccess {
		return code
	}

	best := orchestration.BestResult(results)
	if err := bmp.WriteFile(a.Config.OutputFile, best.Buffer); err != nil {
		a.Logger.Error("writing bitmap failed", err, logging.String("path", a.Config.OutputFile))
		fmt.Fprintf(a.ErrWriter, "Error writing %s: %v\n", a.Config.OutputFile, err)
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet {
		if a.Config.Details {
			cli.DisplayAllocations(out, allocated)
		}
		cli.DisplaySaved(out, a.Config.OutputFile, bmp.HeaderSize+best.Buffer.Len())
	}
	cli.DisplayElapsed(out, best.Duration, a.Config.Quiet)
	return apperrors.ExitSuccess
}

// checkMemoryBudget refuses renders whose image buffers exceed -memory-limit.
// Every selected strategy keeps its own buffer until the comparison is done.
func (a *Application) checkMemoryBudget(ctx context.Context, out io.Writer) int {
	if a.Config.MemoryLimit == "" {
		return apperrors.ExitSuccess
	}
	limit, err := config.ParseMemoryLimit(a.Config.MemoryLimit)
	if err != nil {
		return apperrors.HandleRenderError(apperrors.ConfigError{Message: err.Error()}, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	buffers := uint64(max(1, len(orchestration.GetStrategiesToRun(a.Config.Strategy, a.Factory))))
	requested := buffers * uint64(raster.SizeOf(a.Config.Width, a.Config.Height))
	if requested > limit {
		memErr := apperrors.MemoryError{Requested: requested, Available: sysmon.AvailableMemory(ctx), Limit: limit}
		return apperrors.HandleRenderError(memErr, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	a.Logger.Debug("memory budget ok", logging.Uint64("requested", requested), logging.Uint64("buffers", buffers), logging.Uint64("limit", limit))
	if !a.Config.Quiet {
		fmt.Fprintf(out, "Image buffers: %d x %d bytes (limit %d bytes)\n", buffers, requested/buffers, limit)
	}
	return apperrors.ExitSuccess
}

// startMetrics creates the Prometheus recorder when -metrics-addr or
// -metrics-file is set. The returned function stops the server and writes
// the textfile.
func (a *Application) startMetrics() (render.Recorder, func(), error) {
	if a.Config.MetricsAddr == "" && a.Config.MetricsFile == "" {
		return nil, func() {}, nil
	}
	m := metrics.NewRenderMetrics()

	var srv *server.Server
	if a.Config.MetricsAddr != "" {
		srv = server.New(a.Config.MetricsAddr, m, a.Logger)
		if err := srv.Start(); err != nil {
			return nil, nil, apperrors.WrapError(err, "starting metrics server")
		}
	}

	return m, func() {
		if srv != nil {
			ctx, cancel := context.WithTimeout(context.Background(), metricsShutdownTimeout)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				a.Logger.Error("metrics server shutdown failed", err)
			}
		}
		if a.Config.MetricsFile != "" {
			if err := m.WriteTextfile(a.Config.MetricsFile); err != nil {
				a.Logger.Error("writing metrics file failed", err, logging.String("path", a.Config.MetricsFile))
			}
		}
	}, nil
}

func (a *Application) renderOptions(recorder render.Recorder) render.Options {
	opts := a.Config.ToRenderOptions()
	opts.Logger = a.Logger
	opts.Recorder = recorder
	return opts
}

// markTimeouts replaces deadline errors with a TimeoutError naming the
// strategy and the configured limit.
func (a *Application) markTimeouts(results []orchestration.RenderResult) {
	for i := range results {
		if errors.Is(results[i].Err, context.DeadlineExceeded) {
			results[i].Err = apperrors.TimeoutError{
				Operation: "render " + results[i].Name,
				Limit:     a.Config.Timeout,
			}
		}
	}
}

// stderrHandler reports errors on w regardless of the presentation writer,
// so quiet mode still surfaces failures.
type stderrHandler struct{ w io.Writer }

func (h stderrHandler) HandleError(err error, duration time.Duration, _ io.Writer) int {
	return apperrors.HandleRenderError(err, duration, h.w, cli.CLIColorProvider{})
}
