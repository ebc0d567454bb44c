// Package orchestration runs one or more render strategies, feeds their
// progress to a reporter and compares their images. Presentation is kept
// behind the ProgressReporter and ResultPresenter interfaces.
package orchestration
