//go:generate mockgen -source=ui.go -destination=mocks/mock_ui.go -package=mocks

package cli

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/briandowns/spinner"

	"github.com/agbru/mandelcalc/internal/format"
	"github.com/agbru/mandelcalc/internal/orchestration"
	"github.com/agbru/mandelcalc/internal/progress"
)

const (
	// ProgressRefreshRate is how often the spinner line is redrawn.
	ProgressRefreshRate = 200 * time.Millisecond
	// ProgressBarWidth is the width in characters of the progress bar.
	ProgressBarWidth = 40
)

// Spinner abstracts the terminal spinner so DisplayProgress can be tested.
type Spinner interface {
	Start()
	Stop()
	// UpdateSuffix sets the text shown after the spinner glyph.
	UpdateSuffix(suffix string)
}

// realSpinner adapts briandowns/spinner to Spinner.
type realSpinner struct {
	s *spinner.Spinner
}

func (rs *realSpinner) Start() { rs.s.Start() }

func (rs *realSpinner) Stop() { rs.s.Stop() }

func (rs *realSpinner) UpdateSuffix(suffix string) {
	rs.s.Lock()
	rs.s.Suffix = suffix
	rs.s.Unlock()
}

var newSpinner = func(options ...spinner.Option) Spinner {
	s := spinner.New(spinner.CharSets[11], ProgressRefreshRate, options...)
	return &realSpinner{s}
}

// DisplayProgress shows a spinner with an aggregated progress bar and ETA
// until progressChan is closed. It calls wg.Done on return.
//
// Parameters:
//   - wg: The WaitGroup to signal when the display loop exits.
//   - progressChan: The channel of progress updates from the renders.
//   - numRenders: The number of renders sending updates.
//   - out: The io.Writer the spinner draws on.
func DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numRenders int, out io.Writer) {
	defer wg.Done()
	agg := orchestration.NewProgressAggregator(numRenders)
	if agg == nil {
		orchestration.DrainChannel(progressChan)
		return
	}

	s := newSpinner(spinner.WithWriter(out))
	s.Start()
	defer func() {
		s.Stop()
		fmt.Fprintln(out)
	}()

	label := "Rendering"
	if agg.IsMultiRender() {
		label = fmt.Sprintf("Rendering (%d strategies)", agg.NumRenders())
	}
	s.UpdateSuffix(fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(0, 0, ProgressBarWidth)))

	ticker := time.NewTicker(ProgressRefreshRate)
	defer ticker.Stop()
	for {
		select {
		case update, ok := <-progressChan:
			if !ok {
				s.UpdateSuffix(fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(agg.CalculateAverage(), 0, ProgressBarWidth)))
				return
			}
			ap := agg.Update(update)
			s.UpdateSuffix(fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(ap.AverageProgress, ap.ETA, ProgressBarWidth)))
		case <-ticker.C:
			s.UpdateSuffix(fmt.Sprintf(" %s %s", label, format.FormatProgressBarWithETA(agg.CalculateAverage(), agg.GetETA(), ProgressBarWidth)))
		}
	}
}
