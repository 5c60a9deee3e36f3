package core

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/mirror/internal/core/history"
	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/event"
	"github.com/bethropolis/mirror/internal/types"
)

func typeString(t *testing.T, ed *Editor, s string) {
	t.Helper()
	for _, r := range s {
		require.NoError(t, ed.Insert(string(r)))
	}
}

func TestEditorTypingIsOneUndoStep(t *testing.T) {
	ed := NewEditor()
	typeString(t, ed, "abc")

	assert.Equal(t, "abc", ed.Text())
	assert.Equal(t, types.Caret(3), ed.Selection())
	assert.Equal(t, 1, ed.History().UndoCount())

	ok, err := ed.Undo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", ed.Text())
	assert.Equal(t, types.Caret(0), ed.Selection())

	ok, err = ed.Redo()
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "abc", ed.Text())
	assert.Equal(t, types.Caret(3), ed.Selection())
}

func TestEditorNewlineSplitsUndo(t *testing.T) {
	ed := NewEditor()
	typeString(t, ed, "ab")
	require.NoError(t, ed.InsertNewLine())
	typeString(t, ed, "cd")

	assert.Equal(t, 3, ed.History().UndoCount())
	assert.Equal(t, types.Position{Line: 1, Col: 2}, ed.Cursor())

	_, err := ed.Undo()
	require.NoError(t, err)
	assert.Equal(t, "ab\n", ed.Text())
}

func TestEditorWithMergeDisabled(t *testing.T) {
	ed := NewEditor(WithMerge(false), WithMaxHistory(2))
	typeString(t, ed, "abc")

	assert.Equal(t, 2, ed.History().UndoCount())
}

func TestEditorWithMaxDiffMemory(t *testing.T) {
	old := strings.Repeat("a", 300)
	ed := NewEditor(WithMaxDiffMemory(1))
	ed.SetContent(old)
	ed.SelectAll()

	require.NoError(t, ed.Insert(strings.Repeat("b", 300)))
	rec, ok := ed.History().PeekUndo()
	require.True(t, ok)
	assert.Equal(t, []text.Change{
		{Position: 0, Kind: text.Removed, Text: old},
		{Position: 0, Kind: text.Added, Text: strings.Repeat("b", 300)},
	}, rec.Changes)

	_, err := ed.Undo()
	require.NoError(t, err)
	assert.Equal(t, old, ed.Text())
}

func TestEditorDeleteGraphemes(t *testing.T) {
	ed := NewEditor()
	ed.SetContent("e\u0301xy")

	ed.SetSelection(types.Caret(4))
	require.NoError(t, ed.DeleteBackward())
	assert.Equal(t, "e\u0301y", ed.Text())

	require.NoError(t, ed.DeleteBackward())
	assert.Equal(t, "y", ed.Text())
	assert.Equal(t, types.Caret(0), ed.Selection())

	// backspace run folds into one step
	assert.Equal(t, 1, ed.History().UndoCount())

	require.NoError(t, ed.DeleteBackward())
	assert.Equal(t, "y", ed.Text())

	require.NoError(t, ed.DeleteForward())
	assert.Equal(t, "", ed.Text())

	require.NoError(t, ed.DeleteForward())
	assert.Equal(t, 1, ed.History().UndoCount())

	_, err := ed.Undo()
	require.NoError(t, err)
	assert.Equal(t, "e\u0301xy", ed.Text())
	assert.Equal(t, types.Caret(4), ed.Selection())
}

func TestEditorDeleteSelection(t *testing.T) {
	ed := NewEditor()
	ed.SetContent("hello world")
	ed.SetSelection(types.Selection{Start: 11, End: 5})

	assert.Equal(t, " world", ed.SelectedText())
	require.NoError(t, ed.DeleteForward())
	assert.Equal(t, "hello", ed.Text())
	assert.Equal(t, types.Caret(5), ed.Selection())
}

func TestEditorInsertReplacesSelection(t *testing.T) {
	ed := NewEditor()
	ed.SetContent("one two")
	ed.SetSelection(types.Selection{Start: 4, End: 7})

	require.NoError(t, ed.Insert("three"))
	assert.Equal(t, "one three", ed.Text())
	assert.Equal(t, types.Caret(9), ed.Selection())

	_, err := ed.Undo()
	require.NoError(t, err)
	assert.Equal(t, "one two", ed.Text())
	assert.Equal(t, types.Selection{Start: 4, End: 7}, ed.Selection())
}

func TestEditorMovement(t *testing.T) {
	ed := NewEditor()
	ed.SetContent("ab\ne\u0301f")

	ed.End(false)
	assert.Equal(t, types.Caret(2), ed.Selection())

	ed.MoveRight(false)
	ed.MoveRight(false)
	assert.Equal(t, types.Caret(6), ed.Selection())

	ed.MoveLeft(true)
	assert.Equal(t, types.Selection{Start: 6, End: 3}, ed.Selection())
	assert.Equal(t, "e\u0301", ed.SelectedText())

	ed.MoveRight(false)
	assert.Equal(t, types.Caret(6), ed.Selection())

	ed.Home(true)
	assert.Equal(t, types.Selection{Start: 6, End: 3}, ed.Selection())
	ed.MoveLeft(false)
	assert.Equal(t, types.Caret(3), ed.Selection())

	ed.SelectAll()
	assert.Equal(t, types.Selection{Start: 0, End: 7}, ed.Selection())
}

func TestEditorSetContentClearsHistory(t *testing.T) {
	ed := NewEditor()
	cleared := 0
	ed.Events().Subscribe(event.TypeHistoryCleared, func(event.Event) bool {
		cleared++
		return false
	})

	typeString(t, ed, "x")
	require.True(t, ed.History().CanUndo())

	ed.SetContent("fresh")
	assert.False(t, ed.History().CanUndo())
	assert.Equal(t, types.Caret(0), ed.Selection())
	assert.Equal(t, 1, cleared)

	ok, err := ed.Undo()
	assert.NoError(t, err)
	assert.False(t, ok)
}

func TestEditorEditWithoutTextChange(t *testing.T) {
	ed := NewEditor()
	ed.SetContent("same")

	_, err := ed.Edit("same", types.Caret(2))
	assert.ErrorIs(t, err, history.ErrEmptyRecord)
	assert.Equal(t, types.Caret(2), ed.Selection())
	assert.False(t, ed.History().CanUndo())
}

func TestEditorBufferModifiedEdits(t *testing.T) {
	ed := NewEditor()
	ed.SetContent("ab\ncd")

	var got event.BufferModifiedData
	ed.Events().Subscribe(event.TypeBufferModified, func(e event.Event) bool {
		got = e.Data.(event.BufferModifiedData)
		return false
	})

	ed.SetSelection(types.Caret(4))
	require.NoError(t, ed.Insert("X"))

	require.Len(t, got.Edits, 1)
	assert.Equal(t, uint32(4), got.Edits[0].StartIndex)
	assert.Equal(t, uint32(5), got.Edits[0].NewEndIndex)
	assert.Equal(t, uint32(1), got.Edits[0].StartPosition.Row)
	assert.Equal(t, uint32(1), got.Edits[0].StartPosition.Column)
}

func TestEditorApplyExternal(t *testing.T) {
	ed := NewEditor()
	ed.SetContent("ac")
	ed.SetSelection(types.Caret(2))

	other := history.NewEditorID()
	rec, err := history.NewRecord(other, types.Caret(1), types.Caret(2), []text.Change{
		{Position: 1, Kind: text.Added, Text: "b"},
	})
	require.NoError(t, err)

	require.NoError(t, ed.ApplyExternal(rec))
	assert.Equal(t, "abc", ed.Text())
	assert.Equal(t, types.Caret(3), ed.Selection())

	bad, err := history.NewRecord(other, types.Caret(0), types.Caret(0), []text.Change{
		{Position: 0, Kind: text.Removed, Text: "zz"},
	})
	require.NoError(t, err)
	assert.ErrorIs(t, ed.ApplyExternal(bad), text.ErrTextMismatch)
	assert.Equal(t, "abc", ed.Text())
	assert.Equal(t, 1, ed.History().UndoCount())
}
