package format

import (
	"fmt"
	"strconv"
)

// FormatNumberString inserts thousands separators into a decimal string.
func FormatNumberString(s string) string {
	if s == "" {
		return s
	}
	sign := ""
	if s[0] == '-' {
		sign, s = "-", s[1:]
	}
	n := len(s)
	if n <= 3 {
		return sign + s
	}
	out := make([]byte, 0, n+n/3)
	head := n % 3
	if head == 0 {
		head = 3
	}
	out = append(out, s[:head]...)
	for i := head; i < n; i += 3 {
		out = append(out, ',')
		out = append(out, s[i:i+3]...)
	}
	return sign + string(out)
}

// FormatInt formats n with thousands separators.
func FormatInt(n int) string {
	return FormatNumberString(strconv.Itoa(n))
}

// FormatBytes formats a byte count with binary units ("1.5 MiB").
func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}

// FormatPixelRate formats a throughput in pixels per second ("12.3 Mpx/s").
func FormatPixelRate(pixels int, seconds float64) string {
	if seconds <= 0 {
		return "n/a"
	}
	rate := float64(pixels) / seconds
	switch {
	case rate >= 1e9:
		return fmt.Sprintf("%.1f Gpx/s", rate/1e9)
	case rate >= 1e6:
		return fmt.Sprintf("%.1f Mpx/s", rate/1e6)
	case rate >= 1e3:
		return fmt.Sprintf("%.1f kpx/s", rate/1e3)
	}
	return fmt.Sprintf("%.0f px/s", rate)
}
