// Package app wires configuration, rendering and presentation into the
// mandelcalc command.
package app

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"

	"github.com/agbru/mandelcalc/internal/bmp"
	"github.com/agbru/mandelcalc/internal/calibration"
	"github.com/agbru/mandelcalc/internal/cli"
	"github.com/agbru/mandelcalc/internal/config"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/orchestration"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/tui"
	"github.com/agbru/mandelcalc/internal/ui"
)

// Application is one mandelcalc invocation.
type Application struct {
	Config    config.AppConfig
	Factory   *render.Factory
	ErrWriter io.Writer
	Logger    logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithFactory replaces the default strategy factory.
func WithFactory(f *render.Factory) AppOption {
	return func(a *Application) { a.Factory = f }
}

// WithLogger replaces the zerolog logger built from the configuration.
func WithLogger(l logging.Logger) AppOption {
	return func(a *Application) { a.Logger = l }
}

// New parses args (program name first) into an Application.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter}
	for _, opt := range opts {
		opt(app)
	}
	if app.Factory == nil {
		app.Factory = render.NewDefaultFactory()
	}

	programName := "mandelcalc"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter, app.Factory.List())
	if err != nil {
		return nil, err
	}
	app.Config = cfg

	if app.Logger == nil {
		level := zerolog.InfoLevel
		if cfg.Verbose {
			level = zerolog.DebugLevel
		}
		app.Logger = logging.NewZerologAdapter(zerolog.New(errWriter).Level(level).With().
			Timestamp().Str("component", "mandelcalc").Logger())
	}
	return app, nil
}

// Run executes the configured mode and returns the process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	switch {
	case a.Config.Completion != "":
		return a.runCompletion(out)
	case a.Config.Inspect != "":
		return a.runInspect(out)
	}

	ui.InitTheme(a.Config.NoColor)

	switch {
	case a.Config.Calibrate:
		return a.runCalibration(ctx, out)
	case a.Config.TUI:
		return a.runTUI(ctx, out)
	}
	return a.runRender(ctx, out)
}

// lifecycle bounds ctx by the configured timeout and SIGINT/SIGTERM.
func (a *Application) lifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

func (a *Application) runCompletion(out io.Writer) int {
	lists := cli.CompletionLists{Strategies: a.Factory.List(), Regions: config.RegionNames()}
	if err := cli.GenerateCompletion(out, a.Config.Completion, lists); err != nil {
		fmt.Fprintf(a.ErrWriter, "Error generating completion: %v\n", err)
		return apperrors.ExitErrorConfig
	}
	return apperrors.ExitSuccess
}

func (a *Application) runInspect(out io.Writer) int {
	h, err := bmp.ReadFileHeader(a.Config.Inspect)
	if err != nil {
		fmt.Fprintf(a.ErrWriter, "Error inspecting %s: %v\n", a.Config.Inspect, err)
		return apperrors.ExitErrorGeneric
	}
	cli.DisplayHeader(out, a.Config.Inspect, h)
	return apperrors.ExitSuccess
}

func (a *Application) runCalibration(ctx context.Context, out io.Writer) int {
	ctx, stop := a.lifecycle(ctx)
	defer stop()

	name := a.Config.Strategy
	if name == render.StrategyAll {
		name = config.DefaultStrategy
	}
	strategy, err := a.Factory.Get(name)
	if err != nil {
		return apperrors.HandleRenderError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	return calibration.RunCalibration(ctx, a.Config, strategy, a.Logger, out)
}

// runTUI launches the dashboard. Logs are discarded so they do not corrupt
// the alternate screen.
func (a *Application) runTUI(ctx context.Context, _ io.Writer) int {
	if code := a.checkMemoryBudget(ctx, io.Discard); code != apperrors.ExitSuccess {
		return code
	}
	ctx, stop := a.lifecycle(ctx)
	defer stop()

	a.Logger = logging.Nop()
	recorder, stopMetrics, err := a.startMetrics()
	if err != nil {
		return apperrors.HandleRenderError(err, 0, a.ErrWriter, cli.CLIColorProvider{})
	}
	defer stopMetrics()

	strategies := orchestration.GetStrategiesToRun(a.Config.Strategy, a.Factory)
	return tui.Run(ctx, strategies, a.Config, a.renderOptions(recorder), Version)
}

// IsHelpError reports whether err is the result of -h or -help.
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
