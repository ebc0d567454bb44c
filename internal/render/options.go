package render

import (
	"time"

	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/logging"
)

// DefaultChunkColumns is the chunk width used by the chunked strategy when
// Options.ChunkColumns is zero.
const DefaultChunkColumns = 16

// Options is the rendering configuration passed to every strategy.
type Options struct {
	Width   int
	Height  int
	Threads int
	MaxIter int
	Window  escape.Window

	// ChunkColumns is the work unit of the chunked strategy.
	ChunkColumns int

	// Logger receives band-level debug logs; nil discards them.
	Logger logging.Logger
	// Recorder receives metrics; nil discards them.
	Recorder Recorder

	// pixel replaces the evaluator in tests.
	pixel func(x, y int) escape.RGB
}

// Evaluator returns the escape-time evaluator for these options.
func (o Options) Evaluator() escape.Evaluator {
	return escape.NewEvaluator(o.Width, o.Height, o.MaxIter, o.Window)
}

// Validate checks the options and returns a ConfigError describing the first
// problem found.
func (o Options) Validate() error {
	if err := o.Evaluator().Validate(); err != nil {
		return apperrors.ConfigError{Message: err.Error()}
	}
	if o.ChunkColumns < 0 {
		return apperrors.NewConfigError("chunk columns must not be negative, got %d", o.ChunkColumns)
	}
	_, err := Partition(o.Width, o.Threads)
	return err
}

func (o Options) pixelFunc() func(x, y int) escape.RGB {
	if o.pixel != nil {
		return o.pixel
	}
	return o.Evaluator().Evaluate
}

func (o Options) logger() logging.Logger {
	if o.Logger == nil {
		return logging.Nop()
	}
	return o.Logger
}

func (o Options) recorder() Recorder {
	if o.Recorder == nil {
		return nopRecorder{}
	}
	return o.Recorder
}

func (o Options) chunkColumns() int {
	if o.ChunkColumns == 0 {
		return DefaultChunkColumns
	}
	return o.ChunkColumns
}

// Recorder receives render metrics. Implementations must be safe for
// concurrent use.
type Recorder interface {
	RenderFinished(strategy string, d time.Duration, err error)
	BandFinished(strategy string, d time.Duration)
	PixelsComputed(strategy string, n int)
	WorkerStarted()
	WorkerFinished()
}

type nopRecorder struct{}

func (nopRecorder) RenderFinished(string, time.Duration, error) {}
func (nopRecorder) BandFinished(string, time.Duration)          {}
func (nopRecorder) PixelsComputed(string, int)                  {}
func (nopRecorder) WorkerStarted()                              {}
func (nopRecorder) WorkerFinished()                             {}
