// Package render is the parallel grid scheduler. It partitions the image
// columns into bands, runs the escape-time evaluator for every pixel on a
// fixed pool of goroutines and returns the completed buffer once all workers
// have joined.
package render

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/logging"
	"github.com/agbru/mandelcalc/internal/progress"
	"github.com/agbru/mandelcalc/internal/raster"
)

var tracer = otel.Tracer("github.com/agbru/mandelcalc/internal/render")

// Strategy is a way of scheduling the per-pixel work onto goroutines. Every
// strategy produces the same buffer for the same Options.
type Strategy interface {
	// Name returns the identifier used on the command line.
	Name() string
	// Render computes the whole image. It blocks until every worker has
	// finished and returns no buffer if any of them failed.
	Render(ctx context.Context, opts Options, cb progress.ProgressCallback) (*raster.Buffer, error)
}

// StrategyAll selects every registered strategy.
const StrategyAll = "all"

// Factory is a registry of strategies keyed by name.
type Factory struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewFactory returns an empty factory.
func NewFactory() *Factory {
	return &Factory{strategies: make(map[string]Strategy)}
}

// NewDefaultFactory returns a factory holding the locked, disjoint and
// chunked strategies.
func NewDefaultFactory() *Factory {
	f := NewFactory()
	f.Register(LockedStrategy{})
	f.Register(DisjointStrategy{})
	f.Register(ChunkedStrategy{})
	return f
}

// Register adds or replaces a strategy.
func (f *Factory) Register(s Strategy) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.strategies[s.Name()] = s
}

// Get returns the strategy with the given name.
func (f *Factory) Get(name string) (Strategy, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	s, ok := f.strategies[name]
	if !ok {
		return nil, apperrors.NewConfigError("unknown strategy %q", name)
	}
	return s, nil
}

// List returns the registered strategy names in sorted order.
func (f *Factory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.strategies))
	for name := range f.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll returns every registered strategy, sorted by name.
func (f *Factory) GetAll() []Strategy {
	names := f.List()
	out := make([]Strategy, 0, len(names))
	for _, name := range names {
		s, _ := f.Get(name)
		out = append(out, s)
	}
	return out
}

// run holds the state shared by the workers of one render.
type run struct {
	name     string
	opts     Options
	eval     func(x, y int) escape.RGB
	tracker  *progress.ColumnTracker
	logger   logging.Logger
	recorder Recorder
	start    time.Time
}

// begin validates opts, returns the bands and opens the render span. The
// returned context carries the span; the caller must call finish.
func begin(ctx context.Context, name string, opts Options, cb progress.ProgressCallback) (context.Context, *run, []Band, error) {
	if err := opts.Validate(); err != nil {
		return ctx, nil, nil, err
	}
	bands, err := Partition(opts.Width, opts.Threads)
	if err != nil {
		return ctx, nil, nil, err
	}

	ctx, _ = tracer.Start(ctx, "render", trace.WithAttributes(
		attribute.String("strategy", name),
		attribute.Int("width", opts.Width),
		attribute.Int("height", opts.Height),
		attribute.Int("threads", opts.Threads),
		attribute.Int("max_iter", opts.MaxIter),
	))

	r := &run{
		name:     name,
		opts:     opts,
		eval:     opts.pixelFunc(),
		tracker:  progress.NewColumnTracker(opts.Width, cb),
		logger:   opts.logger(),
		recorder: opts.recorder(),
		start:    time.Now(),
	}
	r.logger.Debug("render started",
		logging.String("strategy", name),
		logging.Int("width", opts.Width),
		logging.Int("height", opts.Height),
		logging.Int("threads", opts.Threads))
	return ctx, r, bands, nil
}

// finish closes the render span and records the outcome. A non-nil err is
// returned wrapped in a RenderError.
func (r *run) finish(ctx context.Context, err error) error {
	elapsed := time.Since(r.start)
	span := trace.SpanFromContext(ctx)
	defer span.End()

	r.recorder.RenderFinished(r.name, elapsed, err)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		r.logger.Error("render failed", err, logging.String("strategy", r.name), logging.Duration("elapsed", elapsed))
		return apperrors.RenderError{Strategy: r.name, Cause: err}
	}
	r.logger.Debug("render finished", logging.String("strategy", r.name), logging.Duration("elapsed", elapsed))
	return nil
}

// worker wraps the body of one worker goroutine: it recovers panics into a
// WorkerError, opens a band span and records timing.
func (r *run) worker(ctx context.Context, band Band, body func(ctx context.Context) error) func() error {
	return func() (err error) {
		defer func() {
			if rec := recover(); rec != nil {
				err = apperrors.NewWorkerPanic(band.Index, rec)
			}
		}()

		ctx, span := tracer.Start(ctx, "render.band", trace.WithAttributes(
			attribute.Int("band", band.Index),
			attribute.Int("start", band.Start),
			attribute.Int("end", band.End),
		))
		defer span.End()

		r.recorder.WorkerStarted()
		defer r.recorder.WorkerFinished()

		began := time.Now()
		if err := body(ctx); err != nil {
			span.RecordError(err)
			return err
		}
		r.recorder.BandFinished(r.name, time.Since(began))
		r.logger.Debug("band finished",
			logging.String("strategy", r.name),
			logging.Int("band", band.Index),
			logging.Int("columns", band.Columns()))
		return nil
	}
}

// columns evaluates columns [from, to) top to bottom and hands every pixel
// to set. Cancellation is checked after each column.
func (r *run) columns(ctx context.Context, from, to int, set func(x, y int, c escape.RGB)) error {
	height := r.opts.Height
	for x := from; x < to; x++ {
		for y := 0; y < height; y++ {
			set(x, y, r.eval(x, y))
		}
		r.recorder.PixelsComputed(r.name, height)
		r.tracker.Advance()
		if err := ctx.Err(); err != nil {
			return err
		}
	}
	return nil
}
