// Package logging provides a unified logging interface for the renderer.
// It abstracts the underlying logging implementation (zerolog by default,
// the standard library logger as a fallback) so components log consistently.
package logging
