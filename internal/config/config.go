// Package config parses command-line flags and MANDELCALC_* environment
// variables into an AppConfig.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/agbru/mandelcalc/internal/bmp"
	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/render"
)

// EnvPrefix is the prefix of every environment variable override.
const EnvPrefix = "MANDELCALC_"

const (
	DefaultWidth    = 8000
	DefaultHeight   = 4571
	DefaultMaxIter  = 1000
	DefaultThreads  = 20
	DefaultStrategy = "locked"
	DefaultOutput   = "images/test.bmp"
	DefaultTimeout  = 10 * time.Minute
)

// AppConfig holds the complete application configuration.
type AppConfig struct {
	Width   int
	Height  int
	MaxIter int
	// Threads is the number of work bands. 0 selects EstimateOptimalThreads.
	Threads      int
	ChunkColumns int
	Region       string
	Strategy     string
	OutputFile   string
	Timeout      time.Duration

	Verbose   bool
	Details   bool
	Quiet     bool
	TUI       bool
	Calibrate bool
	NoColor   bool

	MetricsAddr string
	MetricsFile string
	MemoryLimit string

	Inspect    string
	Completion string
}

// Window returns the complex-plane window of the configured region.
func (c AppConfig) Window() escape.Window {
	if w, ok := LookupRegion(c.Region); ok {
		return w
	}
	return escape.ClassicWindow
}

// ToRenderOptions converts the configuration into scheduler options.
func (c AppConfig) ToRenderOptions() render.Options {
	return render.Options{
		Width:        c.Width,
		Height:       c.Height,
		Threads:      c.Threads,
		MaxIter:      c.MaxIter,
		Window:       c.Window(),
		ChunkColumns: c.ChunkColumns,
	}
}

// Validate checks the configuration. strategies lists the accepted strategy
// names; "all" is always accepted.
func (c AppConfig) Validate(strategies []string) error {
	if c.Width <= 0 || c.Height <= 0 {
		return apperrors.NewConfigError("image dimensions must be positive, got %dx%d", c.Width, c.Height)
	}
	if err := bmp.CheckDimensions(c.Width, c.Height); err != nil {
		return apperrors.NewConfigError("image dimensions %dx%d exceed the bitmap format: %v", c.Width, c.Height, err)
	}
	if c.MaxIter <= 0 {
		return apperrors.NewConfigError("-iter must be positive, got %d", c.MaxIter)
	}
	if c.Threads <= 0 {
		return apperrors.NewConfigError("-threads must be positive, got %d", c.Threads)
	}
	if c.Width%c.Threads != 0 {
		return apperrors.NewConfigError("width %d is not evenly divisible by %d threads", c.Width, c.Threads)
	}
	if c.ChunkColumns < 0 {
		return apperrors.NewConfigError("-chunk must not be negative, got %d", c.ChunkColumns)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("-timeout must be positive, got %s", c.Timeout)
	}
	window, ok := LookupRegion(c.Region)
	if !ok {
		return apperrors.NewConfigError("unknown region %q (available: %s)", c.Region, strings.Join(RegionNames(), ", "))
	}
	if err := window.Validate(); err != nil {
		return apperrors.ConfigError{Message: err.Error()}
	}
	if c.Strategy != render.StrategyAll && !slices.Contains(strategies, c.Strategy) {
		return apperrors.NewConfigError("unknown strategy %q (available: %s, %s)", c.Strategy, strings.Join(strategies, ", "), render.StrategyAll)
	}
	if c.MemoryLimit != "" {
		if _, err := ParseMemoryLimit(c.MemoryLimit); err != nil {
			return apperrors.NewConfigError("invalid -memory-limit: %v", err)
		}
	}
	if c.Quiet && c.TUI {
		return apperrors.NewConfigError("-quiet and -tui are mutually exclusive")
	}
	return nil
}

// ParseConfig parses args into an AppConfig. Flags take precedence over
// MANDELCALC_* environment variables, which take precedence over defaults.
// A -help request returns flag.ErrHelp.
//
// Parameters:
//   - programName: The name shown in the usage message.
//   - args: The command-line arguments, without the program name.
//   - errWriter: The io.Writer for usage and configuration errors.
//   - strategies: The registered strategy names accepted by -strategy.
//
// Returns:
//   - AppConfig: The parsed and validated configuration.
//   - error: A ConfigError, flag.ErrHelp, or a flag parsing error.
func ParseConfig(programName string, args []string, errWriter io.Writer, strategies []string) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errWriter)

	config := AppConfig{}
	fs.IntVar(&config.Width, "width", DefaultWidth, "Image width in pixels.")
	fs.IntVar(&config.Height, "height", DefaultHeight, "Image height in pixels.")
	fs.IntVar(&config.MaxIter, "iter", DefaultMaxIter, "Maximum escape-time iterations per pixel.")
	fs.IntVar(&config.Threads, "threads", DefaultThreads, "Number of worker bands; must divide the width (0 = auto).")
	fs.IntVar(&config.ChunkColumns, "chunk", render.DefaultChunkColumns, "Columns per task for the chunked strategy.")
	fs.StringVar(&config.Region, "region", DefaultRegion, fmt.Sprintf("Region of the complex plane (%s).", strings.Join(RegionNames(), ", ")))
	fs.StringVar(&config.Strategy, "strategy", DefaultStrategy, fmt.Sprintf("Scheduling strategy (%s, %s).", strings.Join(strategies, ", "), render.StrategyAll))
	fs.StringVar(&config.OutputFile, "output", DefaultOutput, "Output bitmap path.")
	fs.StringVar(&config.OutputFile, "o", DefaultOutput, "Output bitmap path (shorthand).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum render time.")
	fs.BoolVar(&config.Verbose, "v", false, "Enable debug logging.")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging.")
	fs.BoolVar(&config.Details, "d", false, "Display memory statistics and image checksums.")
	fs.BoolVar(&config.Details, "details", false, "Display memory statistics and image checksums.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode: only print the elapsed time.")
	fs.BoolVar(&config.Quiet, "quiet", false, "Quiet mode: only print the elapsed time.")
	fs.BoolVar(&config.TUI, "tui", false, "Launch the interactive dashboard.")
	fs.BoolVar(&config.Calibrate, "calibrate", false, "Benchmark thread counts and exit.")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.StringVar(&config.MetricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address during the render (e.g. :9090).")
	fs.StringVar(&config.MetricsFile, "metrics-file", "", "Write Prometheus metrics to this file after the render.")
	fs.StringVar(&config.MemoryLimit, "memory-limit", "", "Refuse to render images larger than this (e.g. 512MB).")
	fs.StringVar(&config.Inspect, "inspect", "", "Print the header of a bitmap file and exit.")
	fs.StringVar(&config.Completion, "completion", "", "Generate a shell completion script (bash, zsh, fish).")

	fs.Usage = func() {
		fmt.Fprintf(errWriter, "Usage: %s [options]\n\n", programName)
		fmt.Fprintln(errWriter, "Renders the Mandelbrot set in parallel and writes a 24-bit bitmap.")
		fmt.Fprintln(errWriter, "\nOptions:")
		fs.PrintDefaults()
		fmt.Fprintf(errWriter, "\nEvery option can also be set with %s<NAME> (e.g. %sTHREADS=8).\n", EnvPrefix, EnvPrefix)
	}

	if err := fs.Parse(args); err != nil {
		return AppConfig{}, err
	}
	if fs.NArg() > 0 {
		return AppConfig{}, apperrors.NewConfigError("unexpected arguments: %s", strings.Join(fs.Args(), " "))
	}

	applyEnvOverrides(&config, fs)

	if config.Threads == 0 {
		config.Threads = EstimateOptimalThreads(config.Width)
	}
	if config.Inspect != "" || config.Completion != "" {
		return config, nil
	}
	if err := config.Validate(strategies); err != nil {
		fmt.Fprintf(errWriter, "Configuration error: %v\n", err)
		return AppConfig{}, err
	}
	return config, nil
}
