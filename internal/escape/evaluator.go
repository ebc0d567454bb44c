// Package escape implements the Mandelbrot escape-time evaluator: it maps a
// pixel to a point of the complex plane, iterates z = z² + c until the point
// escapes or the iteration bound is reached, and derives an RGB triple from
// the iteration count.
//
// Evaluator methods are pure; an Evaluator can be shared by any number of
// goroutines.
package escape

import (
	"fmt"
	"math"
)

// EscapeRadiusSquared is the |z|² bound beyond which a point is considered escaped.
const EscapeRadiusSquared = 4.0

// Window is a rectangle of the complex plane mapped onto the image.
type Window struct {
	RealMin float64
	RealMax float64
	ImagMin float64
	ImagMax float64
}

// ClassicWindow is the default view: real axis [-2, 1], imaginary axis [-1, 1].
var ClassicWindow = Window{RealMin: -2.0, RealMax: 1.0, ImagMin: -1.0, ImagMax: 1.0}

// Width returns the extent of the real axis.
func (w Window) Width() float64 { return w.RealMax - w.RealMin }

// Height returns the extent of the imaginary axis.
func (w Window) Height() float64 { return w.ImagMax - w.ImagMin }

// Validate reports whether the window has a positive, finite area.
func (w Window) Validate() error {
	for _, v := range []float64{w.RealMin, w.RealMax, w.ImagMin, w.ImagMax} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("window bounds must be finite, got %+v", w)
		}
	}
	if w.RealMax <= w.RealMin || w.ImagMax <= w.ImagMin {
		return fmt.Errorf("window must have RealMax > RealMin and ImagMax > ImagMin, got %+v", w)
	}
	return nil
}

// RGB is one pixel as stored in the image buffer.
type RGB struct {
	R, G, B uint8
}

// Sample is the iteration count and resulting color for one coordinate.
type Sample struct {
	Iterations int
	Color      RGB
}

// Evaluator computes escape-time colors for a fixed image geometry.
type Evaluator struct {
	Width   int
	Height  int
	MaxIter int
	Window  Window
}

// NewEvaluator returns an Evaluator for a width×height image of the window.
func NewEvaluator(width, height, maxIter int, window Window) Evaluator {
	return Evaluator{Width: width, Height: height, MaxIter: maxIter, Window: window}
}

// Validate checks the evaluator geometry.
func (e Evaluator) Validate() error {
	if e.Width <= 0 || e.Height <= 0 {
		return fmt.Errorf("image dimensions must be positive, got %dx%d", e.Width, e.Height)
	}
	if e.MaxIter <= 0 {
		return fmt.Errorf("max iterations must be positive, got %d", e.MaxIter)
	}
	return e.Window.Validate()
}

// Map converts pixel (x, y) to the point c of the complex plane.
//
// The kernel runs in float32 and scales as (x*width)/W + min, in that
// order; boundary pixels change iteration count under any other rounding.
func (e Evaluator) Map(x, y int) (re, im float32) {
	rw := float32(e.Window.RealMax) - float32(e.Window.RealMin)
	iw := float32(e.Window.ImagMax) - float32(e.Window.ImagMin)
	re = float32(float32(x)*rw)/float32(e.Width) + float32(e.Window.RealMin)
	im = float32(float32(y)*iw)/float32(e.Height) + float32(e.Window.ImagMin)
	return re, im
}

// Iterations returns the number of z = z² + c steps taken for pixel (x, y).
// The bound is tested before every step, so the result is in [0, MaxIter];
// a point with |c|² > 4 stops after its first step.
func (e Evaluator) Iterations(x, y int) int {
	cr, ci := e.Map(x, y)
	return iterate(cr, ci, e.MaxIter)
}

// iterate converts every product explicitly so the compiler cannot fuse a
// multiply-add into one rounding.
func iterate(cr, ci float32, maxIter int) int {
	var zr, zi float32
	n := 0
	for n < maxIter {
		rr, ii := float32(zr*zr), float32(zi*zi)
		if rr+ii > EscapeRadiusSquared {
			break
		}
		zi = float32(2*zr*zi) + ci
		zr = rr - ii + cr
		n++
	}
	return n
}

// Evaluate returns the color of pixel (x, y).
func (e Evaluator) Evaluate(x, y int) RGB {
	return Colorize(e.Iterations(x, y), e.MaxIter)
}

// Sample returns both the iteration count and the color of pixel (x, y).
func (e Evaluator) Sample(x, y int) Sample {
	n := e.Iterations(x, y)
	return Sample{Iterations: n, Color: Colorize(n, e.MaxIter)}
}

// Colorize derives the pixel color from an iteration count.
//
// Every float-to-byte step truncates toward zero and keeps the low 8 bits,
// so green wraps past 255 and red wraps when the sine is negative. The
// banding this produces is part of the image.
func Colorize(n, maxIter int) RGB {
	green := wrapByte(float32(float32(float32(n)/float32(maxIter))*255) * 3)
	blue := green * 4
	red := wrapByte(float32(math.Sin(float64(float32(blue)/3))) * 255)
	return RGB{R: red, G: green, B: blue}
}

func wrapByte(v float32) uint8 {
	return uint8(int64(v))
}
