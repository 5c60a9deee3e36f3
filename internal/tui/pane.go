// internal/tui/pane.go
package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg"

	"github.com/bethropolis/mirror/internal/core"
)

// Rect is a screen region.
type Rect struct {
	X, Y, W, H int
}

// Pane is one editor's view: a title row followed by the text area.
type Pane struct {
	Editor   *core.Editor
	Title    string
	TabWidth int

	// Scroll state, in lines and visual columns.
	ViewportY int
	ViewportX int
}

// NewPane creates a pane showing ed.
func NewPane(ed *core.Editor, title string, tabWidth int) *Pane {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	return &Pane{Editor: ed, Title: title, TabWidth: tabWidth}
}

// SplitColumns divides area into n side-by-side columns with a one-cell
// separator between neighbours.
func SplitColumns(area Rect, n int) []Rect {
	if n <= 0 {
		return nil
	}
	usable := area.W - (n - 1)
	if usable < n {
		usable = n
	}
	rects := make([]Rect, n)
	x := area.X
	for i := 0; i < n; i++ {
		w := usable / n
		if i < usable%n {
			w++
		}
		rects[i] = Rect{X: x, Y: area.Y, W: w, H: area.H}
		x += w + 1
	}
	return rects
}

// DrawSeparators draws the vertical bars between columns.
func DrawSeparators(t *TUI, rects []Rect) {
	for _, r := range rects[:max(len(rects)-1, 0)] {
		x := r.X + r.W
		for y := r.Y; y < r.Y+r.H; y++ {
			t.screen.SetContent(x, y, tcell.RuneVLine, nil, t.styles.Separator)
		}
	}
}

func gutterWidth(lineCount, width int) int {
	if lineCount == 0 {
		lineCount = 1
	}
	w := int(math.Log10(float64(lineCount))) + 1 + 1 // digits + padding
	if w >= width {
		return 0 // Disable gutter if too narrow
	}
	return w
}

// visualColumn returns the display width of line up to byte offset col.
func (p *Pane) visualColumn(line string, col int) int {
	visual := 0
	gr := uniseg.NewGraphemes(line)
	for gr.Next() {
		from, _ := gr.Positions()
		if from >= col {
			break
		}
		visual += p.clusterWidth(gr, visual)
	}
	return visual
}

func (p *Pane) clusterWidth(gr *uniseg.Graphemes, visual int) int {
	if gr.Str() == "\t" {
		return p.TabWidth - visual%p.TabWidth
	}
	return gr.Width()
}

// scrollToCursor adjusts the viewport so the caret is inside a text area of w x h.
func (p *Pane) scrollToCursor(lines []string, w, h int) {
	cur := p.Editor.Cursor()
	if cur.Line < p.ViewportY {
		p.ViewportY = cur.Line
	} else if h > 0 && cur.Line >= p.ViewportY+h {
		p.ViewportY = cur.Line - h + 1
	}

	vx := p.visualColumn(lines[cur.Line], cur.Col)
	if vx < p.ViewportX {
		p.ViewportX = vx
	} else if w > 0 && vx >= p.ViewportX+w {
		p.ViewportX = vx - w + 1
	}
}

// Draw renders the pane into r and, when focused, places the terminal cursor.
func (p *Pane) Draw(t *TUI, r Rect, focused bool) {
	if r.W <= 0 || r.H <= 0 {
		return
	}
	styles := t.styles
	ed := p.Editor
	text := ed.Text()
	lines := strings.Split(text, "\n")
	sel := ed.Selection().Normalized()
	cur := ed.Cursor()

	p.drawTitle(t, r, focused)

	viewHeight := r.H - 1
	gutter := gutterWidth(len(lines), r.W)
	textWidth := r.W - gutter
	p.scrollToCursor(lines, textWidth, viewHeight)

	// Byte offset where each visible line starts.
	lineStart := 0
	for i := 0; i < p.ViewportY && i < len(lines); i++ {
		lineStart += len(lines[i]) + 1
	}

	for row := 0; row < viewHeight; row++ {
		y := r.Y + 1 + row
		lineIdx := p.ViewportY + row
		for x := r.X; x < r.X+r.W; x++ {
			t.screen.SetContent(x, y, ' ', nil, styles.Default)
		}
		if lineIdx >= len(lines) {
			continue
		}

		if gutter > 0 {
			numStyle := styles.LineNumber
			if lineIdx == cur.Line {
				numStyle = styles.CurrentLineNo
			}
			num := fmt.Sprintf("%*d", gutter-1, lineIdx+1)
			for i, ch := range num {
				t.screen.SetContent(r.X+i, y, ch, nil, numStyle)
			}
		}

		line := lines[lineIdx]
		visual := 0
		gr := uniseg.NewGraphemes(line)
		for gr.Next() {
			from, _ := gr.Positions()
			width := p.clusterWidth(gr, visual)
			screenX := visual - p.ViewportX
			visual += width
			if screenX < 0 {
				continue
			}
			if screenX >= textWidth {
				break
			}

			style := styles.Default
			if off := lineStart + from; off >= sel.Start && off < sel.End {
				style = styles.Selection
			}

			runes := gr.Runes()
			x := r.X + gutter + screenX
			if runes[0] == '\t' {
				for i := 0; i < width && screenX+i < textWidth; i++ {
					t.screen.SetContent(x+i, y, ' ', nil, style)
				}
				continue
			}
			t.screen.SetContent(x, y, runes[0], runes[1:], style)
		}

		// Show a selected line break as one highlighted cell.
		if end := lineStart + len(line); end >= sel.Start && end < sel.End && lineIdx < len(lines)-1 {
			if screenX := visual - p.ViewportX; screenX >= 0 && screenX < textWidth {
				t.screen.SetContent(r.X+gutter+screenX, y, ' ', nil, styles.Selection)
			}
		}
		lineStart += len(line) + 1
	}

	if !focused {
		return
	}
	screenX := p.visualColumn(lines[cur.Line], cur.Col) - p.ViewportX
	screenY := cur.Line - p.ViewportY
	if screenX < 0 || screenX >= textWidth || screenY < 0 || screenY >= viewHeight {
		t.screen.HideCursor()
		return
	}
	t.screen.ShowCursor(r.X+gutter+screenX, r.Y+1+screenY)
}

func (p *Pane) drawTitle(t *TUI, r Rect, focused bool) {
	style := t.styles.Title
	if focused {
		style = t.styles.TitleFocused
	}
	hist := p.Editor.History()
	title := fmt.Sprintf(" %s  undo:%d redo:%d ", p.Title, hist.UndoCount(), hist.RedoCount())
	drawString(t.screen, r.X, r.Y, r.W, title, style)
}

// drawString fills width cells at (x, y) with s, padded with spaces.
func drawString(s tcell.Screen, x, y, width int, str string, style tcell.Style) {
	for i := 0; i < width; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
	cx := 0
	gr := uniseg.NewGraphemes(str)
	for gr.Next() {
		w := gr.Width()
		if cx+w > width {
			break
		}
		runes := gr.Runes()
		s.SetContent(x+cx, y, runes[0], runes[1:], style)
		cx += w
	}
}
