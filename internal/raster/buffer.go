// Package raster holds the flat RGB image buffer shared by render workers.
//
// The buffer is a single allocation of width*height*3 bytes, row-major,
// three interleaved channel bytes (R, G, B) per pixel. Workers reach it either
// through a LockedBuffer (one mutex for the whole image) or through
// BandWriters, which own disjoint column ranges of the same allocation and
// write without synchronization.
package raster

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"sync"

	"github.com/agbru/mandelcalc/internal/escape"
)

// BytesPerPixel is the number of channel bytes stored per pixel.
const BytesPerPixel = 3

// Buffer is the image buffer. Pix is allocated once and never resized.
type Buffer struct {
	Width  int
	Height int
	Pix    []byte
}

// New allocates a zeroed width×height buffer.
func New(width, height int) *Buffer {
	return &Buffer{
		Width:  width,
		Height: height,
		Pix:    make([]byte, SizeOf(width, height)),
	}
}

// SizeOf returns the number of bytes a width×height buffer occupies.
func SizeOf(width, height int) int {
	return width * height * BytesPerPixel
}

// Offset returns the index of the first channel byte of pixel (x, y).
func (b *Buffer) Offset(x, y int) int {
	return (y*b.Width + x) * BytesPerPixel
}

// Set stores c at pixel (x, y). It performs no locking.
func (b *Buffer) Set(x, y int, c escape.RGB) {
	i := b.Offset(x, y)
	b.Pix[i] = c.R
	b.Pix[i+1] = c.G
	b.Pix[i+2] = c.B
}

// At returns the color stored at pixel (x, y).
func (b *Buffer) At(x, y int) escape.RGB {
	i := b.Offset(x, y)
	return escape.RGB{R: b.Pix[i], G: b.Pix[i+1], B: b.Pix[i+2]}
}

// Len returns the number of bytes in the buffer.
func (b *Buffer) Len() int { return len(b.Pix) }

// Checksum returns the hex SHA-256 digest of the pixel data.
func (b *Buffer) Checksum() string {
	sum := sha256.Sum256(b.Pix)
	return hex.EncodeToString(sum[:])
}

// LockedBuffer guards a Buffer with a single mutex covering the whole image.
type LockedBuffer struct {
	mu  sync.Mutex
	buf *Buffer
}

// NewLocked allocates a zeroed buffer behind a mutex.
func NewLocked(width, height int) *LockedBuffer {
	return &LockedBuffer{buf: New(width, height)}
}

// SetPixel writes one pixel while holding the lock. The lock covers only the
// three-byte write.
func (l *LockedBuffer) SetPixel(x, y int, c escape.RGB) {
	l.mu.Lock()
	l.buf.Set(x, y, c)
	l.mu.Unlock()
}

// Release hands the underlying buffer to the caller. It must only be called
// after every writer has finished.
func (l *LockedBuffer) Release() *Buffer {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.buf
}

// BandWriter writes pixels of a fixed column range [Start, End) of a shared
// buffer. Writers created by SplitColumns never touch the same index, so they
// need no lock.
type BandWriter struct {
	buf   *Buffer
	Start int
	End   int
}

// Set writes pixel (x, y). It panics if x lies outside the writer's band.
func (w BandWriter) Set(x, y int, c escape.RGB) {
	if x < w.Start || x >= w.End {
		panic(fmt.Sprintf("raster: column %d outside band [%d, %d)", x, w.Start, w.End))
	}
	w.buf.Set(x, y, c)
}

// owns reports whether buffer index i belongs to the writer's band.
func (w BandWriter) owns(i int) bool {
	x := (i / BytesPerPixel) % w.buf.Width
	return x >= w.Start && x < w.End
}

// SplitColumns returns one BandWriter per [start, end) range. The ranges
// must be disjoint and lie within [0, Width).
func (b *Buffer) SplitColumns(ranges [][2]int) ([]BandWriter, error) {
	writers := make([]BandWriter, len(ranges))
	owner := make([]int, b.Width)
	for i := range owner {
		owner[i] = -1
	}
	for i, r := range ranges {
		start, end := r[0], r[1]
		if start < 0 || end > b.Width || start >= end {
			return nil, fmt.Errorf("raster: invalid column range [%d, %d) for width %d", start, end, b.Width)
		}
		for x := start; x < end; x++ {
			if owner[x] != -1 {
				return nil, fmt.Errorf("raster: column %d claimed by ranges %d and %d", x, owner[x], i)
			}
			owner[x] = i
		}
		writers[i] = BandWriter{buf: b, Start: start, End: end}
	}
	return writers, nil
}
