package format

import (
	"fmt"
	"time"
)

const (
	maxETA = 24 * time.Hour
	// minRateSample is the elapsed time below which no rate is estimated.
	minRateSample = 100 * time.Millisecond
)

// ProgressWithETA extends ProgressState with a completion-time estimate
// derived from the average progress rate since start.
type ProgressWithETA struct {
	*ProgressState
	startTime    time.Time
	progressRate float64 // fraction per second
}

// NewProgressWithETA returns a tracker for numRenders renders started now.
func NewProgressWithETA(numRenders int) *ProgressWithETA {
	return &ProgressWithETA{
		ProgressState: NewProgressState(numRenders),
		startTime:     time.Now(),
	}
}

// UpdateWithETA records a progress value and returns the new average with
// the estimated time remaining.
func (p *ProgressWithETA) UpdateWithETA(index int, value float64) (float64, time.Duration) {
	p.Update(index, value)
	avg := p.CalculateAverage()
	if elapsed := time.Since(p.startTime); elapsed >= minRateSample && avg > 0 {
		p.progressRate = avg / elapsed.Seconds()
	}
	return avg, p.GetETA()
}

// GetETA returns the estimated remaining time, or 0 while no rate is known.
func (p *ProgressWithETA) GetETA() time.Duration {
	if p.progressRate <= 0 {
		return 0
	}
	remaining := 1 - p.CalculateAverage()
	if remaining <= 0 {
		return 0
	}
	eta := time.Duration(remaining / p.progressRate * float64(time.Second))
	if eta > maxETA || eta < 0 {
		return maxETA
	}
	return eta
}

// FormatETA formats an estimate compactly ("45s", "2m30s", "1h15m").
func FormatETA(eta time.Duration) string {
	switch {
	case eta <= 0:
		return "calculating..."
	case eta < time.Second:
		return "< 1s"
	case eta < time.Minute:
		return fmt.Sprintf("%ds", int(eta.Seconds()))
	case eta < time.Hour:
		m := int(eta.Minutes())
		s := int(eta.Seconds()) % 60
		if s == 0 {
			return fmt.Sprintf("%dm", m)
		}
		return fmt.Sprintf("%dm%ds", m, s)
	default:
		h := int(eta.Hours())
		m := int(eta.Minutes()) % 60
		if m == 0 {
			return fmt.Sprintf("%dh", h)
		}
		return fmt.Sprintf("%dh%dm", h, m)
	}
}

// FormatProgressBarWithETA renders "[bar] 42.0% ETA: 1m5s".
func FormatProgressBarWithETA(progress float64, eta time.Duration, width int) string {
	etaText := FormatETA(eta)
	if progress >= 1 {
		etaText = "done"
	}
	return fmt.Sprintf("[%s] %5.1f%% ETA: %s", ProgressBar(progress, width), clamp01(progress)*100, etaText)
}
