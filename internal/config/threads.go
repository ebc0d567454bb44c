package config

import "runtime"

// Thread resolution chain (highest priority first):
//   1. CLI flag (-threads)
//   2. Environment variable (MANDELCALC_THREADS)
//   3. Hardware estimation (this file) when the resolved value is 0

// EstimateOptimalThreads returns the largest divisor of width that does not
// exceed twice the number of CPUs. Oversubscribing by two lets bands that
// finish early (outside the set) leave room for the expensive ones.
func EstimateOptimalThreads(width int) int {
	return largestDivisorAtMost(width, 2*runtime.NumCPU())
}

// CandidateThreads returns the divisors of width in [1, limit], ascending.
func CandidateThreads(width, limit int) []int {
	var out []int
	for t := 1; t <= limit && t <= width; t++ {
		if width%t == 0 {
			out = append(out, t)
		}
	}
	return out
}

func largestDivisorAtMost(width, limit int) int {
	if width <= 0 || limit <= 1 {
		return 1
	}
	for t := min(limit, width); t > 1; t-- {
		if width%t == 0 {
			return t
		}
	}
	return 1
}
