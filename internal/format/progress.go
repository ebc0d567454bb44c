package format

import "strings"

// ProgressState tracks the completion fraction of several concurrent renders.
// It is not safe for concurrent use; the display goroutine owns it.
type ProgressState struct {
	progresses []float64
	numRenders int
}

// NewProgressState returns a state for numRenders renders, all at 0.
func NewProgressState(numRenders int) *ProgressState {
	return &ProgressState{
		progresses: make([]float64, numRenders),
		numRenders: numRenders,
	}
}

// Update records the progress of render index. Out-of-range indices are
// ignored and values are clamped to [0, 1].
func (p *ProgressState) Update(index int, value float64) {
	if index < 0 || index >= len(p.progresses) {
		return
	}
	p.progresses[index] = clamp01(value)
}

// CalculateAverage returns the mean progress across renders.
func (p *ProgressState) CalculateAverage() float64 {
	if p.numRenders == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.progresses {
		sum += v
	}
	return sum / float64(p.numRenders)
}

// ProgressBar renders a bar of length runes for a fraction in [0, 1].
func ProgressBar(progress float64, length int) string {
	filled := int(clamp01(progress) * float64(length))
	return strings.Repeat("█", filled) + strings.Repeat("░", length-filled)
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
