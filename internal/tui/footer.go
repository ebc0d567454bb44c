package tui

import "strings"

// FooterModel shows the key bindings and the run status.
type FooterModel struct {
	keys   KeyMap
	paused bool
	done   bool
	failed bool
	width  int
}

func NewFooterModel(keys KeyMap) FooterModel {
	return FooterModel{keys: keys}
}

func (f *FooterModel) SetWidth(w int) { f.width = w }
func (f *FooterModel) SetPaused(p bool) { f.paused = p }
func (f *FooterModel) SetDone(d bool) { f.done = d }
func (f *FooterModel) SetFailed(e bool) { f.failed = e }

func (f FooterModel) status() string {
	switch {
	case f.failed:
		return statusErrorStyle.Render("FAILED")
	case f.done:
		return statusDoneStyle.Render("DONE")
	case f.paused:
		return statusPausedStyle.Render("PAUSED")
	}
	return statusRunningStyle.Render("RUNNING")
}

func (f FooterModel) View() string {
	parts := []string{f.status()}
	for _, b := range f.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, footerKeyStyle.Render(h.Key)+" "+dimStyle.Render(h.Desc))
	}
	return " " + strings.Join(parts, dimStyle.Render("  ·  "))
}
