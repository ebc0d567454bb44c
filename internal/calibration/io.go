package calibration

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/agbru/mandelcalc/internal/config"
	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/ui"
)

func printCalibrationHeader(out io.Writer, cfg config.AppConfig, strategy string, sampleHeight, candidates int) {
	fmt.Fprintf(out, "--- Calibration ---\n")
	fmt.Fprintf(out, "Benchmarking %s%d%s thread counts with the %s%s%s strategy on a %dx%d sample.\n",
		ui.ColorCyan(), candidates, ui.ColorReset(),
		ui.ColorGreen(), strategy, ui.ColorReset(),
		cfg.Width, sampleHeight)
}

// printCalibrationResults prints one row per trial and marks the fastest.
func printCalibrationResults(out io.Writer, results []Result, best int) {
	fmt.Fprintf(out, "\n--- Calibration Summary ---\n")
	tw := tabwriter.NewWriter(out, 0, 0, 3, ' ', 0)
	fmt.Fprintf(tw, "  %sThreads%s\t│ %sColumns/band%s\t│ %sExecution Time%s\n",
		ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(tw, "  %s\t┼%s\t┼%s\n", strings.Repeat("─", 8), strings.Repeat("─", 14), strings.Repeat("─", 24))
	for _, res := range results {
		duration := fmt.Sprintf("%sN/A%s", ui.ColorRed(), ui.ColorReset())
		if res.Err == nil {
			duration = format.FormatExecutionDuration(res.Duration)
		}
		highlight := ""
		if res.Threads == best && res.Err == nil {
			highlight = fmt.Sprintf(" %s(Optimal)%s", ui.ColorGreen(), ui.ColorReset())
		}
		fmt.Fprintf(tw, "  %s%d%s\t│ %d\t│ %s%s%s%s\n",
			ui.ColorCyan(), res.Threads, ui.ColorReset(),
			res.Columns,
			ui.ColorYellow(), duration, ui.ColorReset(), highlight)
	}
	tw.Flush()
}

func printRecommendation(out io.Writer, best int) {
	fmt.Fprintf(out, "\n%sRecommended%s: -threads %s%d%s (or %sTHREADS=%d)\n",
		ui.ColorGreen(), ui.ColorReset(), ui.ColorYellow(), best, ui.ColorReset(),
		config.EnvPrefix, best)
}
