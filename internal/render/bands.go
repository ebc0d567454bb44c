package render

import (
	apperrors "github.com/agbru/mandelcalc/internal/errors"
)

// Band is a half-open range of image columns [Start, End) assigned to one worker.
type Band struct {
	Index int
	Start int
	End   int
}

// Columns returns the number of columns in the band.
func (b Band) Columns() int { return b.End - b.Start }

// Partition splits [0, width) into threads equal contiguous bands. width must
// be a positive multiple of threads; anything else is a configuration error.
//
// Parameters:
//   - width: The image width in columns.
//   - threads: The number of bands.
//
// Returns:
//   - []Band: The bands, in column order.
//   - error: A ConfigError if width is not divisible by threads.
func Partition(width, threads int) ([]Band, error) {
	if threads <= 0 {
		return nil, apperrors.NewConfigError("thread count must be positive, got %d", threads)
	}
	if width <= 0 {
		return nil, apperrors.NewConfigError("width must be positive, got %d", width)
	}
	if width%threads != 0 {
		return nil, apperrors.NewConfigError("width %d is not evenly divisible by %d threads", width, threads)
	}

	bandWidth := width / threads
	bands := make([]Band, threads)
	for t := range bands {
		bands[t] = Band{Index: t, Start: t * bandWidth, End: t*bandWidth + bandWidth}
	}
	return bands, nil
}

// chunks splits [0, width) into consecutive ranges of at most size columns.
// The last chunk may be shorter.
func chunks(width, size int) []Band {
	n := (width + size - 1) / size
	out := make([]Band, n)
	for i := range out {
		end := (i + 1) * size
		if end > width {
			end = width
		}
		out[i] = Band{Index: i, Start: i * size, End: end}
	}
	return out
}

func columnRanges(bands []Band) [][2]int {
	ranges := make([][2]int, len(bands))
	for i, b := range bands {
		ranges[i] = [2]int{b.Start, b.End}
	}
	return ranges
}
