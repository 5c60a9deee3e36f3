// internal/core/editor.go
package core

import (
	"errors"

	"github.com/bethropolis/mirror/internal/core/history"
	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/event"
	"github.com/bethropolis/mirror/internal/logger"
	"github.com/bethropolis/mirror/internal/types"
)

// Editor is one live view on a document: a text snapshot, a selection and
// the undo/redo history of edits made through it. An Editor is driven from a
// single goroutine; mirrored editors talk to each other through a Group.
type Editor struct {
	id      history.EditorID
	text    string
	sel     types.Selection
	engine  text.Engine
	events  *event.Manager
	history *history.Manager
}

type editorOptions struct {
	id              *history.EditorID
	events          *event.Manager
	maxHistory      int
	merge           bool
	maxDiffTokens   int
	maxDiffMemoryMB int
}

// EditorOption configures NewEditor.
type EditorOption func(*editorOptions)

// WithEditorID uses id instead of minting a fresh one.
func WithEditorID(id history.EditorID) EditorOption {
	return func(o *editorOptions) { o.id = &id }
}

// WithEventManager makes the editor dispatch on mgr instead of its own manager.
func WithEventManager(mgr *event.Manager) EditorOption {
	return func(o *editorOptions) { o.events = mgr }
}

// WithMaxHistory bounds the number of undo steps kept.
func WithMaxHistory(n int) EditorOption {
	return func(o *editorOptions) { o.maxHistory = n }
}

// WithMerge toggles folding of consecutive typing into one undo step.
func WithMerge(enabled bool) EditorOption {
	return func(o *editorOptions) { o.merge = enabled }
}

// WithMaxDiffTokens sets the diff size above which an edit is recorded as a
// single replacement.
func WithMaxDiffTokens(n int) EditorOption {
	return func(o *editorOptions) { o.maxDiffTokens = n }
}

// WithMaxDiffMemory caps the memory, in megabytes, one diff may use before
// the edit is recorded as a single replacement.
func WithMaxDiffMemory(mb int) EditorOption {
	return func(o *editorOptions) { o.maxDiffMemoryMB = mb }
}

// NewEditor creates an empty editor with its own identity and history.
func NewEditor(opts ...EditorOption) *Editor {
	o := editorOptions{merge: true}
	for _, opt := range opts {
		opt(&o)
	}

	id := history.NewEditorID()
	if o.id != nil {
		id = *o.id
	}
	if o.events == nil {
		o.events = event.NewManager()
	}

	engine := text.Engine{MaxDiffTokens: o.maxDiffTokens, MaxDiffMemoryMB: o.maxDiffMemoryMB}
	e := &Editor{
		id:     id,
		engine: engine,
		events: o.events,
	}
	e.history = history.NewManager(id,
		history.WithEngine(engine),
		history.WithNotifier(o.events),
		history.WithMaxEntries(o.maxHistory),
		history.WithMerge(o.merge),
	)

	logger.DebugTagf("core", "Editor %s: created", id)
	return e
}

// ID returns the identity stamped on records made here.
func (e *Editor) ID() history.EditorID {
	return e.id
}

// Text returns the current snapshot.
func (e *Editor) Text() string {
	return e.text
}

// Selection returns the current selection.
func (e *Editor) Selection() types.Selection {
	return e.sel
}

// SelectedText returns the text covered by the selection, if any.
func (e *Editor) SelectedText() string {
	sel := e.sel.Normalized()
	return e.text[sel.Start:sel.End]
}

// Cursor returns the caret as a line/column position.
func (e *Editor) Cursor() types.Position {
	return text.PositionAt(e.text, e.sel.End)
}

// History exposes the action stack, mostly for status display.
func (e *Editor) History() *history.Manager {
	return e.history
}

// Events returns the manager this editor dispatches on.
func (e *Editor) Events() *event.Manager {
	return e.events
}

// SetContent replaces the document wholesale. This is a load, not an edit:
// the history is cleared and the caret goes to the start.
func (e *Editor) SetContent(s string) {
	e.text = s
	e.sel = types.Caret(0)
	e.history.Clear()

	e.events.Dispatch(event.TypeBufferLoaded, event.BufferLoadedData{Size: len(s)})
	e.events.Dispatch(event.TypeHistoryCleared, event.HistoryClearedData{})
	logger.DebugTagf("core", "Editor %s: loaded %d bytes", e.id, len(s))
}

// SetSelection moves the selection, clamped to the snapshot.
func (e *Editor) SetSelection(sel types.Selection) {
	sel = sel.Clamp(len(e.text))
	if sel == e.sel {
		return
	}
	e.sel = sel
	e.events.Dispatch(event.TypeSelectionChanged, event.SelectionChangedData{Selection: sel})
}

// ClearHistory drops every undo and redo step without touching the text.
func (e *Editor) ClearHistory() {
	e.history.Clear()
	e.events.Dispatch(event.TypeHistoryCleared, event.HistoryClearedData{})
}

// Edit replaces the snapshot with newText and records the difference as a
// local edit. If the text did not change only the selection moves and
// history.ErrEmptyRecord is returned.
func (e *Editor) Edit(newText string, newSel types.Selection) (history.Record, error) {
	newSel = newSel.Clamp(len(newText))

	rec, err := e.history.RecordLocalEdit(e.text, newText, e.sel, newSel)
	if err != nil {
		if errors.Is(err, history.ErrEmptyRecord) {
			e.SetSelection(newSel)
		}
		return history.Record{}, err
	}

	e.commit(newText, newSel, rec.Changes)
	return rec, nil
}

// Undo reverts the most recent step. It reports false when there is nothing to undo.
func (e *Editor) Undo() (bool, error) {
	res, ok, err := e.history.Undo(e.text)
	if err != nil || !ok {
		return false, err
	}
	e.commit(res.Text, res.Selection, res.Record.Changes)
	return true, nil
}

// Redo replays the most recently undone step. It reports false when there is nothing to redo.
func (e *Editor) Redo() (bool, error) {
	res, ok, err := e.history.Redo(e.text)
	if err != nil || !ok {
		return false, err
	}
	e.commit(res.Text, res.Selection, res.Record.Changes)
	return true, nil
}

// ApplyExternal applies a record made by another editor on the same document.
// The record joins this editor's undo history as received.
func (e *Editor) ApplyExternal(rec history.Record) error {
	newText, newSel, err := e.history.RecordExternalEdit(rec, e.text, e.sel)
	if err != nil {
		logger.Warnf("Editor %s: rejected external edit from %v: %v", e.id, rec.Editor, err)
		return err
	}
	e.commit(newText, newSel, rec.Changes)
	return nil
}

// commit installs a new snapshot produced by changes and tells subscribers.
func (e *Editor) commit(newText string, newSel types.Selection, changes []text.Change) {
	edits := text.EditInfos(e.text, changes)

	e.text = newText
	e.sel = newSel.Clamp(len(newText))

	e.events.Dispatch(event.TypeBufferModified, event.BufferModifiedData{Edits: edits})
	logger.DebugTagf("core", "Editor %s: %d change(s), selection %v", e.id, len(changes), e.sel)
}
