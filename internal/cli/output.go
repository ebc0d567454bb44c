// # Naming Conventions
//
//   - Display* functions write formatted output to an [io.Writer].
//   - Format* functions return a string without performing I/O.
//   - Print* functions describe the run before it starts.

package cli

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/agbru/mandelcalc/internal/bmp"
	"github.com/agbru/mandelcalc/internal/config"
	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/metrics"
	"github.com/agbru/mandelcalc/internal/render"
	"github.com/agbru/mandelcalc/internal/ui"
)

// FormatElapsed formats the render duration line printed on success.
func FormatElapsed(d time.Duration) string {
	return fmt.Sprintf("Render completed in %s", format.FormatExecutionDuration(d))
}

// DisplayElapsed prints the render duration. In quiet mode only the
// duration itself is printed, for scripts.
func DisplayElapsed(out io.Writer, d time.Duration, quiet bool) {
	if quiet {
		fmt.Fprintln(out, format.FormatExecutionDuration(d))
		return
	}
	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorBold(), FormatElapsed(d), ui.ColorReset())
}

// DisplaySaved reports the written bitmap.
func DisplaySaved(out io.Writer, path string, size int) {
	fmt.Fprintf(out, "%sImage saved to:%s %s%s%s (%s)\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorCyan(), path, ui.ColorReset(), format.FormatBytes(uint64(size)))
}

// DisplayAllocations prints what the render phase allocated.
func DisplayAllocations(out io.Writer, d metrics.MemorySnapshot) {
	fmt.Fprintf(out, "Render allocations: %s in %s objects, %d GC cycles\n",
		format.FormatBytes(d.TotalAlloc), format.FormatInt(int(d.HeapObjects)), d.NumGC)
}

// DisplayHeader prints a decoded bitmap header.
func DisplayHeader(out io.Writer, path string, h bmp.Header) {
	fmt.Fprintf(out, "--- Bitmap Header: %s ---\n", path)
	fmt.Fprintf(out, "Type:          %s\n", string(h.File.Type[:]))
	fmt.Fprintf(out, "File size:     %d bytes\n", h.File.Size)
	fmt.Fprintf(out, "Pixel offset:  %d\n", h.File.OffBits)
	fmt.Fprintf(out, "Dimensions:    %dx%d\n", h.Info.Width, h.Info.Height)
	fmt.Fprintf(out, "Bit count:     %d\n", h.Info.BitCount)
	fmt.Fprintf(out, "Compression:   %d\n", h.Info.Compression)
	fmt.Fprintf(out, "Image size:    %d bytes\n", h.Info.SizeImage)
	fmt.Fprintf(out, "Resolution:    %d x %d px/m\n", h.Info.XPelsPerMeter, h.Info.YPelsPerMeter)
}

// PrintExecutionConfig describes the render about to run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	w := cfg.Window()
	fmt.Fprintf(out, "--- Render Configuration ---\n")
	fmt.Fprintf(out, "Rendering %s%dx%d%s pixels, %s%d%s iterations max, timeout %s%s%s.\n",
		ui.ColorMagenta(), cfg.Width, cfg.Height, ui.ColorReset(),
		ui.ColorMagenta(), cfg.MaxIter, ui.ColorReset(),
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Region: %s%s%s re [%g, %g] im [%g, %g].\n",
		ui.ColorCyan(), cfg.Region, ui.ColorReset(), w.RealMin, w.RealMax, w.ImagMin, w.ImagMax)
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
	fmt.Fprintf(out, "Workers: %s%d%s bands of %d columns.\n",
		ui.ColorCyan(), cfg.Threads, ui.ColorReset(), cfg.Width/max(1, cfg.Threads))
}

// PrintExecutionMode describes whether one strategy runs or all of them.
func PrintExecutionMode(strategies []render.Strategy, out io.Writer) {
	if len(strategies) > 1 {
		names := make([]string, len(strategies))
		for i, s := range strategies {
			names[i] = s.Name()
		}
		fmt.Fprintf(out, "Execution mode: sequential comparison of %s.\n", strings.Join(names, ", "))
	} else if len(strategies) == 1 {
		fmt.Fprintf(out, "Execution mode: %s%s%s strategy.\n", ui.ColorGreen(), strategies[0].Name(), ui.ColorReset())
	}
	fmt.Fprintf(out, "\n--- Starting Render ---\n")
}
