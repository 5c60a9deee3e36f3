package app

import (
	"github.com/bethropolis/mirror/internal/config"
	"github.com/bethropolis/mirror/internal/logger"
	"github.com/bethropolis/mirror/internal/tui"
)

// drawEditor clears the screen and redraws every pane and the status bar.
func (a *App) drawEditor() {
	a.updateStatusBarContent()

	screen := a.tui.GetScreen()
	width, height := a.tui.Size()
	viewHeight := height - config.StatusBarHeight
	logger.DebugTagf("draw", "drawEditor: screen %dx%d, view height %d", width, height, viewHeight)

	a.tui.Clear()
	rects := tui.SplitColumns(tui.Rect{W: width, H: viewHeight}, len(a.panes))
	for i, p := range a.panes {
		p.Draw(a.tui, rects[i], i == a.focus)
	}
	tui.DrawSeparators(a.tui, rects)
	a.statusBar.Draw(screen, width, height)
	a.tui.Show()
}

// updateStatusBarContent pushes the focused pane's state to the status bar.
func (a *App) updateStatusBarContent() {
	p := a.panes[a.focus]
	hist := p.Editor.History()
	a.statusBar.SetPaneInfo(p.Title, hist.UndoCount(), hist.RedoCount())
	a.statusBar.SetCursorInfo(p.Editor.Cursor())
	if a.focus < len(a.trackers) {
		a.statusBar.SetSyntaxInfo(a.trackers[a.focus].Status().String())
	} else {
		a.statusBar.SetSyntaxInfo("")
	}
}
