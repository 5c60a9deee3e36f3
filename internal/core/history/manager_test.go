package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/event"
	"github.com/bethropolis/mirror/internal/types"
)

type recordingNotifier struct {
	events []ActionCreateData
}

func (n *recordingNotifier) Dispatch(eventType event.Type, data interface{}) {
	if eventType != event.TypeActionCreate {
		return
	}
	n.events = append(n.events, data.(ActionCreateData))
}

// typer drives a Manager the way an editor shell does.
type typer struct {
	t    *testing.T
	m    *Manager
	text string
	sel  types.Selection
}

func (ty *typer) edit(newText string, newSel types.Selection) {
	ty.t.Helper()
	_, err := ty.m.RecordLocalEdit(ty.text, newText, ty.sel, newSel)
	require.NoError(ty.t, err)
	ty.text, ty.sel = newText, newSel
}

func (ty *typer) undo() bool {
	ty.t.Helper()
	res, ok, err := ty.m.Undo(ty.text)
	require.NoError(ty.t, err)
	if ok {
		ty.text, ty.sel = res.Text, res.Selection
	}
	return ok
}

func (ty *typer) redo() bool {
	ty.t.Helper()
	res, ok, err := ty.m.Redo(ty.text)
	require.NoError(ty.t, err)
	if ok {
		ty.text, ty.sel = res.Text, res.Selection
	}
	return ok
}

func TestUndoSingleInsert(t *testing.T) {
	m := NewManager(namedID("me"))

	cand, err := m.RecordLocalEdit("", "ab", types.Caret(0), types.Caret(2))
	require.NoError(t, err)
	assert.Equal(t, []text.Change{added(0, "ab")}, cand.Changes)

	res, ok, err := m.Undo("ab")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "", res.Text)
	assert.Equal(t, types.Caret(0), res.Selection)
	assert.Equal(t, []text.Change{removed(0, "ab")}, res.Record.Changes)
}

func TestContiguousInsertFolds(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m, text: "ac", sel: types.Caret(1)}

	ty.edit("abc", types.Caret(2))
	ty.edit("abdc", types.Caret(3))

	require.Equal(t, 1, m.UndoCount())
	top, ok := m.PeekUndo()
	require.True(t, ok)
	assert.Equal(t, []text.Change{added(1, "bd")}, top.Changes)

	require.True(t, ty.undo())
	assert.Equal(t, "ac", ty.text)
	assert.Equal(t, types.Caret(1), ty.sel)
}

func TestTypingFoldsIntoOneStep(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	ty.edit("ab", types.Caret(2))
	ty.edit("abc", types.Caret(3))

	assert.Equal(t, 1, m.UndoCount())
	require.True(t, ty.undo())
	assert.Equal(t, "", ty.text)
	assert.False(t, m.CanUndo())
}

func TestBackspaceFoldsIntoOneStep(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m, text: "abcd", sel: types.Caret(4)}

	ty.edit("abc", types.Caret(3))
	ty.edit("ab", types.Caret(2))

	require.Equal(t, 1, m.UndoCount())
	require.True(t, ty.undo())
	assert.Equal(t, "abcd", ty.text)
	assert.Equal(t, types.Caret(4), ty.sel)
}

func TestNewlineBreaksFolding(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	ty.edit("a\n", types.Caret(2))
	ty.edit("a\nb", types.Caret(3))

	assert.Equal(t, 3, m.UndoCount())
}

func TestMultiChangeEditDoesNotFold(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m, text: "x-x", sel: types.Caret(0)}

	ty.edit("y-x", types.Caret(1))
	ty.edit("y-y", types.Caret(1))
	ty.edit("yy-yy", types.Caret(2))

	assert.Equal(t, 3, m.UndoCount())
	top, _ := m.PeekUndo()
	assert.Len(t, top.Changes, 2)
}

func TestWithMergeDisabled(t *testing.T) {
	m := NewManager(namedID("me"), WithMerge(false))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	ty.edit("ab", types.Caret(2))

	assert.Equal(t, 2, m.UndoCount())
}

func TestRoundTrip(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m, text: "hello world", sel: types.Caret(5)}

	ty.edit("hello, world", types.Caret(6))
	ty.edit("hello,\nworld", types.Caret(7))
	ty.edit("hello,\nbig world", types.Caret(11))
	ty.edit("Hello,\nbig world!", types.Selection{Start: 0, End: 1})
	ty.edit("", types.Caret(0))

	for ty.undo() {
	}
	assert.Equal(t, "hello world", ty.text)
	assert.Equal(t, types.Caret(5), ty.sel)

	for ty.redo() {
	}
	assert.Equal(t, "", ty.text)
}

func TestUndoRedoInverse(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m, text: "abc", sel: types.Caret(3)}

	ty.edit("abXc", types.Selection{Start: 2, End: 3})
	wantText, wantSel := ty.text, ty.sel

	require.True(t, ty.undo())
	assert.Equal(t, "abc", ty.text)
	assert.True(t, m.CanRedo())

	require.True(t, ty.redo())
	assert.Equal(t, wantText, ty.text)
	assert.Equal(t, wantSel, ty.sel)
	assert.False(t, m.CanRedo())
}

func TestLocalEditClearsRedo(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	require.True(t, ty.undo())
	require.True(t, m.CanRedo())

	ty.edit("b", types.Caret(1))
	assert.False(t, m.CanRedo())
	assert.Equal(t, 0, m.RedoCount())
}

func TestUndoRedoEmptyIsNoop(t *testing.T) {
	n := &recordingNotifier{}
	m := NewManager(namedID("me"), WithNotifier(n))

	_, ok, err := m.Undo("text")
	assert.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = m.Redo("text")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.Empty(t, n.events)
}

func TestIdenticalSnapshotsRejected(t *testing.T) {
	n := &recordingNotifier{}
	m := NewManager(namedID("me"), WithNotifier(n))

	_, err := m.RecordLocalEdit("same", "same", types.Caret(0), types.Caret(0))
	assert.ErrorIs(t, err, ErrEmptyRecord)
	assert.False(t, m.CanUndo())
	assert.Empty(t, n.events)
}

func TestNotificationsCarryUnmergedCandidate(t *testing.T) {
	me := namedID("me")
	n := &recordingNotifier{}
	m := NewManager(me, WithNotifier(n))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	ty.edit("ab", types.Caret(2))
	require.True(t, ty.undo())
	require.True(t, ty.redo())

	require.Len(t, n.events, 4)
	assert.Equal(t, KindUpdate, n.events[0].Kind)
	assert.Equal(t, []text.Change{added(0, "a")}, n.events[0].Record.Changes)
	assert.Equal(t, KindUpdate, n.events[1].Kind)
	assert.Equal(t, []text.Change{added(1, "b")}, n.events[1].Record.Changes)

	assert.Equal(t, KindRestore, n.events[2].Kind)
	assert.Equal(t, []text.Change{removed(0, "ab")}, n.events[2].Record.Changes)
	assert.Equal(t, KindRestore, n.events[3].Kind)
	assert.Equal(t, []text.Change{added(0, "ab")}, n.events[3].Record.Changes)
	assert.True(t, me.Equal(n.events[3].Record.Editor))
}

func TestExternalEditStoredVerbatim(t *testing.T) {
	me, other := namedID("me"), namedID("other")
	n := &recordingNotifier{}
	m := NewManager(me, WithNotifier(n))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	notified := len(n.events)

	ext := rec(other, 1, 2, added(1, "b"))
	newText, newSel, err := m.RecordExternalEdit(ext, ty.text, ty.sel)
	require.NoError(t, err)
	assert.Equal(t, "ab", newText)
	assert.Equal(t, types.Caret(2), newSel)
	ty.text, ty.sel = newText, newSel

	assert.Equal(t, 2, m.UndoCount())
	top, _ := m.PeekUndo()
	assert.Equal(t, ext, top)
	assert.Len(t, n.events, notified)

	require.True(t, ty.undo())
	assert.Equal(t, "a", ty.text)

	// the undone external record comes back stamped with the local identity
	redoTop, ok := m.PeekRedo()
	require.True(t, ok)
	assert.True(t, me.Equal(redoTop.Editor))
}

func TestExternalEditWithLocalIdentityNotMerged(t *testing.T) {
	me := namedID("me")
	m := NewManager(me)
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	require.Equal(t, 1, m.UndoCount())

	// Same identity and contiguous with the top, so a local edit would merge.
	ext := rec(me, 1, 2, added(1, "b"))
	newText, newSel, err := m.RecordExternalEdit(ext, ty.text, ty.sel)
	require.NoError(t, err)
	ty.text, ty.sel = newText, newSel

	assert.Equal(t, 2, m.UndoCount())
	top, _ := m.PeekUndo()
	assert.Equal(t, ext, top)

	require.True(t, ty.undo())
	assert.Equal(t, "a", ty.text)
	assert.Equal(t, types.Caret(1), ty.sel)

	require.True(t, ty.undo())
	assert.Equal(t, "", ty.text)
}

func TestExternalEditKeepsRedo(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	require.True(t, ty.undo())

	_, _, err := m.RecordExternalEdit(rec(namedID("other"), 0, 1, added(0, "z")), ty.text, ty.sel)
	require.NoError(t, err)
	assert.True(t, m.CanRedo())
}

func TestExternalEditMismatchLeavesHistory(t *testing.T) {
	m := NewManager(namedID("me"))

	_, _, err := m.RecordExternalEdit(rec(namedID("other"), 0, 0, removed(0, "zz")), "ab", types.Caret(0))
	assert.ErrorIs(t, err, text.ErrTextMismatch)
	assert.False(t, m.CanUndo())

	_, _, err = m.RecordExternalEdit(Record{Editor: namedID("other")}, "ab", types.Caret(0))
	assert.ErrorIs(t, err, ErrEmptyRecord)
}

func TestUndoFailureLeavesHistory(t *testing.T) {
	m := NewManager(namedID("me"))
	_, err := m.RecordLocalEdit("", "abc", types.Caret(0), types.Caret(3))
	require.NoError(t, err)

	_, ok, err := m.Undo("xyz")
	assert.Error(t, err)
	assert.False(t, ok)
	assert.Equal(t, 1, m.UndoCount())
	assert.Equal(t, 0, m.RedoCount())
}

func TestMaxEntriesEvictsOldest(t *testing.T) {
	m := NewManager(namedID("me"), WithMaxEntries(2), WithMerge(false))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	ty.edit("ab", types.Caret(2))
	ty.edit("abc", types.Caret(3))

	assert.Equal(t, 2, m.UndoCount())
	for ty.undo() {
	}
	assert.Equal(t, "a", ty.text)
}

func TestClear(t *testing.T) {
	m := NewManager(namedID("me"))
	ty := &typer{t: t, m: m}

	ty.edit("a", types.Caret(1))
	ty.edit("a\n", types.Caret(2))
	require.True(t, ty.undo())

	m.Clear()
	assert.False(t, m.CanUndo())
	assert.False(t, m.CanRedo())
	_, ok := m.PeekRedo()
	assert.False(t, ok)
}

func TestReverseKeepsOriginal(t *testing.T) {
	orig := rec(namedID("me"), 0, 2, added(0, "ab"), removed(2, "c"))

	rev := Reverse(orig, text.Engine{})

	assert.Equal(t, []text.Change{added(2, "c"), removed(0, "ab")}, rev.Changes)
	assert.Equal(t, types.Caret(2), rev.SelectionBefore)
	assert.Equal(t, types.Caret(0), rev.SelectionAfter)
	assert.Equal(t, added(0, "ab"), orig.Changes[0])
}
