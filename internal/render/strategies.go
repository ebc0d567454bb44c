package render

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/agbru/mandelcalc/internal/progress"
	"github.com/agbru/mandelcalc/internal/raster"
)

// LockedStrategy runs one goroutine per band. All workers write into a single
// buffer guarded by a mutex that is held only for the three bytes of a pixel.
type LockedStrategy struct{}

// Name returns "locked".
func (LockedStrategy) Name() string { return "locked" }

// Render implements Strategy.
func (s LockedStrategy) Render(ctx context.Context, opts Options, cb progress.ProgressCallback) (*raster.Buffer, error) {
	ctx, r, bands, err := begin(ctx, s.Name(), opts, cb)
	if err != nil {
		return nil, err
	}

	img := raster.NewLocked(opts.Width, opts.Height)
	g, gctx := errgroup.WithContext(ctx)
	for _, band := range bands {
		band := band
		g.Go(r.worker(gctx, band, func(ctx context.Context) error {
			return r.columns(ctx, band.Start, band.End, img.SetPixel)
		}))
	}
	if err := r.finish(ctx, g.Wait()); err != nil {
		return nil, err
	}
	return img.Release(), nil
}

// DisjointStrategy gives every worker exclusive ownership of its band of the
// buffer, so pixel writes need no synchronisation.
type DisjointStrategy struct{}

// Name returns "disjoint".
func (DisjointStrategy) Name() string { return "disjoint" }

// Render implements Strategy.
func (s DisjointStrategy) Render(ctx context.Context, opts Options, cb progress.ProgressCallback) (*raster.Buffer, error) {
	ctx, r, bands, err := begin(ctx, s.Name(), opts, cb)
	if err != nil {
		return nil, err
	}

	img := raster.New(opts.Width, opts.Height)
	writers, err := img.SplitColumns(columnRanges(bands))
	if err != nil {
		return nil, r.finish(ctx, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, band := range bands {
		band := band
		w := writers[i]
		g.Go(r.worker(gctx, band, func(ctx context.Context) error {
			return r.columns(ctx, band.Start, band.End, w.Set)
		}))
	}
	if err := r.finish(ctx, g.Wait()); err != nil {
		return nil, err
	}
	return img, nil
}

// ChunkedStrategy splits the columns into small chunks and feeds them to at
// most Threads concurrent goroutines. Faster workers pick up more chunks,
// which balances the uneven cost of columns near the set boundary.
type ChunkedStrategy struct{}

// Name returns "chunked".
func (ChunkedStrategy) Name() string { return "chunked" }

// Render implements Strategy.
func (s ChunkedStrategy) Render(ctx context.Context, opts Options, cb progress.ProgressCallback) (*raster.Buffer, error) {
	ctx, r, _, err := begin(ctx, s.Name(), opts, cb)
	if err != nil {
		return nil, err
	}

	work := chunks(opts.Width, opts.chunkColumns())
	img := raster.New(opts.Width, opts.Height)
	writers, err := img.SplitColumns(columnRanges(work))
	if err != nil {
		return nil, r.finish(ctx, err)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Threads)
	for i, chunk := range work {
		chunk := chunk
		if gctx.Err() != nil {
			break
		}
		w := writers[i]
		g.Go(r.worker(gctx, chunk, func(ctx context.Context) error {
			return r.columns(ctx, chunk.Start, chunk.End, w.Set)
		}))
	}
	err = g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err := r.finish(ctx, err); err != nil {
		return nil, err
	}
	return img, nil
}
