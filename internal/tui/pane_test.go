package tui

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/mirror/internal/core"
	"github.com/bethropolis/mirror/internal/types"
)

func newSimTUI(t *testing.T, w, h int) (*TUI, tcell.SimulationScreen) {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	ui, err := NewWithScreen(s)
	require.NoError(t, err)
	t.Cleanup(ui.Close)
	s.SetSize(w, h)
	return ui, s
}

func rowText(s tcell.SimulationScreen, y, from, to int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := from; x < to; x++ {
		r := cells[y*w+x].Runes
		if len(r) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteString(string(r))
	}
	return b.String()
}

func TestSplitColumns(t *testing.T) {
	rects := SplitColumns(Rect{W: 21, H: 5}, 2)
	assert.Equal(t, []Rect{{X: 0, W: 10, H: 5}, {X: 11, W: 10, H: 5}}, rects)

	rects = SplitColumns(Rect{W: 10, H: 5}, 3)
	require.Len(t, rects, 3)
	assert.Equal(t, 3, rects[0].W)
	assert.Equal(t, 3, rects[1].W)
	assert.Equal(t, 2, rects[2].W)

	assert.Nil(t, SplitColumns(Rect{W: 10}, 0))
}

func TestPaneDraw(t *testing.T) {
	ui, s := newSimTUI(t, 30, 6)

	ed := core.NewEditor()
	ed.SetContent("hello\nworld")
	ed.SetSelection(types.Caret(8))
	require.NoError(t, ed.Insert("X"))

	p := NewPane(ed, "pane 1", 4)
	p.Draw(ui, Rect{W: 30, H: 6}, true)
	s.Show()

	assert.Equal(t, " pane 1  undo:1 redo:0", rowText(s, 0, 0, 22))
	assert.Equal(t, "1 hello", rowText(s, 1, 0, 7))
	assert.Equal(t, "2 woXrld", rowText(s, 2, 0, 8))

	x, y, visible := s.(interface{ GetCursor() (int, int, bool) }).GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 5, x) // gutter 2 + "woX"
	assert.Equal(t, 2, y)
}

func TestPaneSelectionStyle(t *testing.T) {
	ui, s := newSimTUI(t, 20, 4)

	ed := core.NewEditor()
	ed.SetContent("abcd")
	ed.SetSelection(types.Selection{Start: 1, End: 3})

	NewPane(ed, "p", 4).Draw(ui, Rect{W: 20, H: 4}, false)
	s.Show()

	cells, w, _ := s.GetContents()
	sel := ui.Styles().Selection
	def := ui.Styles().Default
	assert.Equal(t, def, cells[1*w+2].Style) // 'a'
	assert.Equal(t, sel, cells[1*w+3].Style) // 'b'
	assert.Equal(t, sel, cells[1*w+4].Style) // 'c'
	assert.Equal(t, def, cells[1*w+5].Style) // 'd'
}

func TestPaneScrollsToCursor(t *testing.T) {
	ui, s := newSimTUI(t, 20, 4)

	ed := core.NewEditor()
	ed.SetContent("1\n2\n3\n4\n5\n6")
	ed.SetSelection(types.Caret(len(ed.Text())))

	p := NewPane(ed, "p", 4)
	p.Draw(ui, Rect{W: 20, H: 4}, true)
	s.Show()

	assert.Equal(t, 3, p.ViewportY)
	assert.Equal(t, "4 4", rowText(s, 1, 0, 3))
	assert.Equal(t, "6 6", rowText(s, 3, 0, 3))
}

func TestPaneExpandsTabs(t *testing.T) {
	ui, s := newSimTUI(t, 20, 3)

	ed := core.NewEditor()
	ed.SetContent("\tx")
	ed.SetSelection(types.Caret(2))

	NewPane(ed, "p", 4).Draw(ui, Rect{W: 20, H: 3}, true)
	s.Show()

	assert.Equal(t, "1     x", rowText(s, 1, 0, 7))
	x, _, _ := s.(interface{ GetCursor() (int, int, bool) }).GetCursor()
	assert.Equal(t, 7, x)
}
