package apperrors

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// A nil provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

type noColor struct{}

func (noColor) Red() string    { return "" }
func (noColor) Yellow() string { return "" }
func (noColor) Reset() string  { return "" }

// ExitCodeFor maps an error to the process exit code without printing anything.
func ExitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var (
		configErr  ConfigError
		memErr     MemoryError
		timeoutErr TimeoutError
	)
	switch {
	case errors.As(err, &configErr), errors.As(err, &memErr):
		return ExitErrorConfig
	case errors.As(err, &timeoutErr), errors.Is(err, context.DeadlineExceeded):
		return ExitErrorTimeout
	case errors.Is(err, context.Canceled):
		return ExitErrorCanceled
	default:
		return ExitErrorGeneric
	}
}

// HandleRenderError prints a render failure to out and returns the matching
// exit code. A nil error returns ExitSuccess and prints nothing.
//
// Parameters:
//   - err: The error returned by the render (may be nil).
//   - duration: How long the render ran before failing; omitted when zero.
//   - out: The writer for the message.
//   - colors: The color provider; nil disables colors.
//
// Returns:
//   - int: The exit code for the error class.
func HandleRenderError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	if colors == nil {
		colors = noColor{}
	}

	code := ExitCodeFor(err)
	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s%s%s", colors.Yellow(), duration, colors.Reset())
	}

	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sStatus: Timeout%s. The render exceeded its time limit%s: %v\n",
			colors.Red(), colors.Reset(), suffix, err)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sStatus: Canceled%s. The render was interrupted%s.\n",
			colors.Yellow(), colors.Reset(), suffix)
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sConfiguration error%s: %v\n", colors.Red(), colors.Reset(), err)
	default:
		fmt.Fprintf(out, "%sStatus: Failure%s%s: %v\n", colors.Red(), colors.Reset(), suffix, err)
	}
	return code
}
