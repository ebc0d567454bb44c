package format

import (
	"fmt"
	"time"
)

// FormatExecutionDuration formats a render duration: microseconds below a
// millisecond, whole milliseconds below a second, time.Duration.String above.
//
// Parameters:
//   - d: The duration to format.
//
// Returns:
//   - string: The formatted duration.
func FormatExecutionDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return d.String()
}
