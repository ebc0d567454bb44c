package render

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	apperrors "github.com/agbru/mandelcalc/internal/errors"
	"github.com/agbru/mandelcalc/internal/escape"
	"github.com/agbru/mandelcalc/internal/progress"
	"github.com/agbru/mandelcalc/internal/raster"
)

func smallOptions() Options {
	return Options{
		Width:   60,
		Height:  40,
		Threads: 4,
		MaxIter: 200,
		Window:  escape.ClassicWindow,
	}
}

func TestPartition(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		width   int
		threads int
		want    []Band
		wantErr bool
	}{
		{"single band", 10, 1, []Band{{0, 0, 10}}, false},
		{"four bands", 8000, 4, []Band{{0, 0, 2000}, {1, 2000, 4000}, {2, 4000, 6000}, {3, 6000, 8000}}, false},
		{"one column each", 3, 3, []Band{{0, 0, 1}, {1, 1, 2}, {2, 2, 3}}, false},
		{"not divisible", 10, 3, nil, true},
		{"zero threads", 10, 0, nil, true},
		{"negative threads", 10, -2, nil, true},
		{"zero width", 0, 1, nil, true},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := Partition(tt.width, tt.threads)
			if tt.wantErr {
				var cfgErr apperrors.ConfigError
				if !errors.As(err, &cfgErr) {
					t.Fatalf("expected ConfigError, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("got %d bands, want %d", len(got), len(tt.want))
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("band %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestPartitionProperties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("bands tile [0, width) in order with equal size", prop.ForAll(
		func(threads, perBand int) bool {
			width := threads * perBand
			bands, err := Partition(width, threads)
			if err != nil || len(bands) != threads {
				return false
			}
			next := 0
			for i, b := range bands {
				if b.Index != i || b.Start != next || b.Columns() != perBand {
					return false
				}
				next = b.End
			}
			return next == width
		},
		gen.IntRange(1, 64),
		gen.IntRange(1, 200),
	))

	properties.Property("chunks cover every column exactly once", prop.ForAll(
		func(width, size int) bool {
			seen := make([]int, width)
			for _, c := range chunks(width, size) {
				if c.Columns() < 1 || c.Columns() > size {
					return false
				}
				for x := c.Start; x < c.End; x++ {
					seen[x]++
				}
			}
			for _, n := range seen {
				if n != 1 {
					return false
				}
			}
			return true
		},
		gen.IntRange(1, 500),
		gen.IntRange(1, 64),
	))

	properties.TestingRun(t)
}

func reference(opts Options) []byte {
	e := opts.Evaluator()
	pix := make([]byte, 0, opts.Width*opts.Height*3)
	for y := 0; y < opts.Height; y++ {
		for x := 0; x < opts.Width; x++ {
			c := e.Evaluate(x, y)
			pix = append(pix, c.R, c.G, c.B)
		}
	}
	return pix
}

func TestStrategiesMatchSequentialRender(t *testing.T) {
	t.Parallel()
	opts := smallOptions()
	want := reference(opts)

	for _, s := range NewDefaultFactory().GetAll() {
		s := s
		t.Run(s.Name(), func(t *testing.T) {
			t.Parallel()
			for _, threads := range []int{1, 2, 4, 5, 6} {
				o := opts
				o.Threads = threads
				o.ChunkColumns = 7
				img, err := s.Render(context.Background(), o, nil)
				if err != nil {
					t.Fatalf("threads=%d: %v", threads, err)
				}
				if !bytes.Equal(img.Pix, want) {
					t.Fatalf("threads=%d: buffer differs from sequential render", threads)
				}
			}
		})
	}
}

func TestRenderIsDeterministic(t *testing.T) {
	t.Parallel()
	opts := smallOptions()
	first, err := renderNamed(context.Background(), "locked", opts, nil)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 3; i++ {
		again, err := renderNamed(context.Background(), "locked", opts, nil)
		if err != nil {
			t.Fatal(err)
		}
		if again.Checksum() != first.Checksum() {
			t.Fatalf("run %d produced a different image", i)
		}
	}
}

func TestRenderCompleteness(t *testing.T) {
	t.Parallel()
	opts := smallOptions()
	var visits [60 * 40]atomic.Int32
	opts.pixel = func(x, y int) escape.RGB {
		visits[y*opts.Width+x].Add(1)
		return escape.RGB{R: 1, G: 2, B: 3}
	}

	for _, s := range NewDefaultFactory().GetAll() {
		for i := range visits {
			visits[i].Store(0)
		}
		img, err := s.Render(context.Background(), opts, nil)
		if err != nil {
			t.Fatalf("%s: %v", s.Name(), err)
		}
		for i := range visits {
			if n := visits[i].Load(); n != 1 {
				t.Fatalf("%s: pixel %d evaluated %d times", s.Name(), i, n)
			}
		}
		for i := 0; i < img.Len(); i += 3 {
			if img.Pix[i] != 1 || img.Pix[i+1] != 2 || img.Pix[i+2] != 3 {
				t.Fatalf("%s: pixel at byte %d not written", s.Name(), i)
			}
		}
	}
}

func TestRenderRejectsConfigBeforeSpawning(t *testing.T) {
	t.Parallel()
	var calls atomic.Int32
	opts := smallOptions()
	opts.Threads = 7
	opts.pixel = func(x, y int) escape.RGB {
		calls.Add(1)
		return escape.RGB{}
	}

	for _, s := range NewDefaultFactory().GetAll() {
		img, err := s.Render(context.Background(), opts, nil)
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Errorf("%s: expected ConfigError, got %v", s.Name(), err)
		}
		if img != nil {
			t.Errorf("%s: expected no buffer", s.Name())
		}
	}
	if calls.Load() != 0 {
		t.Errorf("evaluator called %d times for an invalid configuration", calls.Load())
	}
}

func TestRenderWorkerPanic(t *testing.T) {
	t.Parallel()
	opts := smallOptions()
	opts.pixel = func(x, y int) escape.RGB {
		if x == 31 && y == 5 {
			panic("boom")
		}
		return escape.RGB{}
	}

	for _, s := range NewDefaultFactory().GetAll() {
		img, err := s.Render(context.Background(), opts, nil)
		if img != nil {
			t.Errorf("%s: expected no buffer after a worker failure", s.Name())
		}
		var workerErr apperrors.WorkerError
		if !errors.As(err, &workerErr) {
			t.Fatalf("%s: expected WorkerError, got %v", s.Name(), err)
		}
		var renderErr apperrors.RenderError
		if !errors.As(err, &renderErr) || renderErr.Strategy != s.Name() {
			t.Errorf("%s: expected RenderError for the strategy, got %v", s.Name(), err)
		}
	}
}

func TestRenderCanceled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	for _, s := range NewDefaultFactory().GetAll() {
		img, err := s.Render(ctx, smallOptions(), nil)
		if !errors.Is(err, context.Canceled) {
			t.Errorf("%s: expected context.Canceled, got %v", s.Name(), err)
		}
		if img != nil {
			t.Errorf("%s: expected no buffer", s.Name())
		}
	}
}

func TestRenderReportsProgress(t *testing.T) {
	t.Parallel()
	var (
		mu   sync.Mutex
		last float64
		n    int
	)
	_, err := renderNamed(context.Background(), "disjoint", smallOptions(), func(v float64) {
		mu.Lock()
		defer mu.Unlock()
		if v > last {
			last = v
		}
		n++
	})
	if err != nil {
		t.Fatal(err)
	}
	if last != 1.0 {
		t.Errorf("final progress = %v, want 1.0", last)
	}
	if n == 0 {
		t.Error("expected progress reports")
	}
}

type countingRecorder struct {
	mu       sync.Mutex
	pixels   int
	bands    int
	renders  int
	lastErr  error
	active   atomic.Int32
	peak     atomic.Int32
	finished atomic.Int32
}

func (r *countingRecorder) RenderFinished(_ string, _ time.Duration, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.renders++
	r.lastErr = err
}

func (r *countingRecorder) BandFinished(string, time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bands++
}

func (r *countingRecorder) PixelsComputed(_ string, n int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pixels += n
}

func (r *countingRecorder) WorkerStarted() {
	v := r.active.Add(1)
	for {
		p := r.peak.Load()
		if v <= p || r.peak.CompareAndSwap(p, v) {
			return
		}
	}
}

func (r *countingRecorder) WorkerFinished() {
	r.active.Add(-1)
	r.finished.Add(1)
}

func TestRenderRecordsMetrics(t *testing.T) {
	t.Parallel()
	rec := &countingRecorder{}
	opts := smallOptions()
	opts.Recorder = rec

	if _, err := renderNamed(context.Background(), "locked", opts, nil); err != nil {
		t.Fatal(err)
	}
	if rec.pixels != opts.Width*opts.Height {
		t.Errorf("pixels = %d, want %d", rec.pixels, opts.Width*opts.Height)
	}
	if rec.bands != opts.Threads {
		t.Errorf("bands = %d, want %d", rec.bands, opts.Threads)
	}
	if rec.renders != 1 || rec.lastErr != nil {
		t.Errorf("renders = %d, err = %v", rec.renders, rec.lastErr)
	}
	if rec.active.Load() != 0 || int(rec.finished.Load()) != opts.Threads {
		t.Errorf("workers not balanced: active=%d finished=%d", rec.active.Load(), rec.finished.Load())
	}
	if int(rec.peak.Load()) > opts.Threads {
		t.Errorf("peak workers %d exceeds thread count", rec.peak.Load())
	}
}

func TestChunkedRespectsThreadLimit(t *testing.T) {
	t.Parallel()
	rec := &countingRecorder{}
	opts := smallOptions()
	opts.Threads = 2
	opts.ChunkColumns = 3
	opts.Recorder = rec

	if _, err := renderNamed(context.Background(), "chunked", opts, nil); err != nil {
		t.Fatal(err)
	}
	if p := rec.peak.Load(); p > 2 {
		t.Errorf("peak concurrency %d exceeds limit 2", p)
	}
	if rec.bands != 20 {
		t.Errorf("chunks finished = %d, want 20", rec.bands)
	}
}

func TestFactory(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	if got := f.List(); len(got) != 3 || got[0] != "chunked" || got[1] != "disjoint" || got[2] != "locked" {
		t.Errorf("List() = %v", got)
	}
	if _, err := f.Get("missing"); err == nil {
		t.Error("expected error for unknown strategy")
	}
	if _, err := renderNamed(context.Background(), "missing", smallOptions(), nil); err == nil {
		t.Error("expected error for unknown strategy")
	}
}

// renderNamed runs the named strategy from the default factory.
func renderNamed(ctx context.Context, name string, opts Options, cb progress.ProgressCallback) (*raster.Buffer, error) {
	s, err := NewDefaultFactory().Get(name)
	if err != nil {
		return nil, err
	}
	return s.Render(ctx, opts, cb)
}
