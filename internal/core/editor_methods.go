package core

import (
	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/types"
)

// Insert replaces the selection with s and leaves the caret after it.
func (e *Editor) Insert(s string) error {
	sel := e.sel.Normalized()
	if s == "" && sel.Collapsed() {
		return nil
	}

	newText := e.text[:sel.Start] + s + e.text[sel.End:]
	_, err := e.Edit(newText, types.Caret(sel.Start+len(s)))
	return err
}

// InsertNewLine inserts a line break at the caret.
func (e *Editor) InsertNewLine() error {
	return e.Insert("\n")
}

// DeleteBackward removes the selection, or the grapheme cluster before the caret.
func (e *Editor) DeleteBackward() error {
	sel := e.sel.Normalized()
	if sel.Collapsed() {
		if sel.Start == 0 {
			return nil
		}
		sel.Start = text.PrevBoundary(e.text, sel.End)
	}
	return e.deleteRange(sel)
}

// DeleteForward removes the selection, or the grapheme cluster after the caret.
func (e *Editor) DeleteForward() error {
	sel := e.sel.Normalized()
	if sel.Collapsed() {
		if sel.End >= len(e.text) {
			return nil
		}
		sel.End = text.NextBoundary(e.text, sel.Start)
	}
	return e.deleteRange(sel)
}

func (e *Editor) deleteRange(sel types.Selection) error {
	newText := e.text[:sel.Start] + e.text[sel.End:]
	_, err := e.Edit(newText, types.Caret(sel.Start))
	return err
}

// MoveLeft moves the caret one grapheme cluster left. With extend the anchor
// stays put; without it a selection collapses to its left edge.
func (e *Editor) MoveLeft(extend bool) {
	if !extend && !e.sel.Collapsed() {
		e.SetSelection(types.Caret(e.sel.Normalized().Start))
		return
	}
	e.moveCaret(text.PrevBoundary(e.text, e.sel.End), extend)
}

// MoveRight moves the caret one grapheme cluster right.
func (e *Editor) MoveRight(extend bool) {
	if !extend && !e.sel.Collapsed() {
		e.SetSelection(types.Caret(e.sel.Normalized().End))
		return
	}
	e.moveCaret(text.NextBoundary(e.text, e.sel.End), extend)
}

// Home moves the caret to the start of its line.
func (e *Editor) Home(extend bool) {
	off := e.sel.End
	for off > 0 && e.text[off-1] != '\n' {
		off--
	}
	e.moveCaret(off, extend)
}

// End moves the caret to the end of its line.
func (e *Editor) End(extend bool) {
	off := e.sel.End
	for off < len(e.text) && e.text[off] != '\n' {
		off++
	}
	e.moveCaret(off, extend)
}

// SelectAll selects the whole snapshot.
func (e *Editor) SelectAll() {
	e.SetSelection(types.Selection{Start: 0, End: len(e.text)})
}

func (e *Editor) moveCaret(off int, extend bool) {
	if extend {
		e.SetSelection(types.Selection{Start: e.sel.Start, End: off})
		return
	}
	e.SetSelection(types.Caret(off))
}
