// Package history provides undo/redo for one editor instance that may be
// mirrored by other instances editing the same document.
//
// A Manager owns two stacks of Records. Local edits are diffed into records
// and possibly folded into the previous step; records coming from another
// instance are stored as received. Undo pops, reverses and replays; redo
// replays. Creation of every local or restore record is announced through a
// Notifier so the record can be handed to other instances.
//
// A Manager is not safe for concurrent use: it belongs to one editor and is
// driven from that editor's event path.
package history

import (
	"fmt"

	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/event"
	"github.com/bethropolis/mirror/internal/logger"
	"github.com/bethropolis/mirror/internal/types"
)

const DefaultMaxHistory = 100

// ActionKind says why a record was announced.
type ActionKind int

const (
	KindUpdate  ActionKind = iota // a local edit (always the unmerged candidate)
	KindRestore                   // the record applied by an undo or redo
)

func (k ActionKind) String() string {
	if k == KindRestore {
		return "restore"
	}
	return "update"
}

// ActionCreateData is the payload of event.TypeActionCreate.
type ActionCreateData struct {
	Kind   ActionKind
	Record Record
}

// Notifier receives creation events. *event.Manager satisfies it.
type Notifier interface {
	Dispatch(eventType event.Type, data interface{})
}

// Result is what Undo and Redo hand back to the editor.
type Result struct {
	Text      string
	Selection types.Selection
	Record    Record // the record that was applied to produce Text
}

// Option configures a Manager.
type Option func(*Manager)

// WithEngine replaces the default text engine.
func WithEngine(eng Engine) Option {
	return func(m *Manager) { m.engine = eng }
}

// WithNotifier sets where creation events go. Without one, nothing is announced.
func WithNotifier(n Notifier) Option {
	return func(m *Manager) { m.notifier = n }
}

// WithMaxEntries bounds the undo history; values <= 0 select DefaultMaxHistory.
func WithMaxEntries(n int) Option {
	return func(m *Manager) { m.maxEntries = n }
}

// WithMerge turns folding of consecutive edits on or off. It is on by default.
func WithMerge(enabled bool) Option {
	return func(m *Manager) { m.merge = enabled }
}

// Manager is the action stack of one editor instance.
type Manager struct {
	id         Identity
	engine     Engine
	notifier   Notifier
	maxEntries int
	merge      bool

	undo []Record // bottom -> top
	redo []Record
}

// NewManager creates an empty stack owned by the editor with identity id.
func NewManager(id Identity, opts ...Option) *Manager {
	m := &Manager{
		id:     id,
		engine: text.Engine{},
		merge:  true,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.maxEntries <= 0 {
		m.maxEntries = DefaultMaxHistory
	}
	return m
}

// ID returns the identity records are re-stamped with.
func (m *Manager) ID() Identity {
	return m.id
}

// RecordLocalEdit records the edit that turned lastSnapshot into snapshot.
// The raw candidate is announced before the merge policy runs and is what
// gets returned, whether or not it was folded into the previous step.
// Identical snapshots return ErrEmptyRecord and change nothing.
func (m *Manager) RecordLocalEdit(lastSnapshot, snapshot string, before, after types.Selection) (Record, error) {
	candidate, err := NewRecord(m.id, before, after, m.engine.Diff(lastSnapshot, snapshot))
	if err != nil {
		return Record{}, err
	}

	m.notify(KindUpdate, candidate)

	decision := Decide(m.top(), candidate)
	if !m.merge {
		decision = Decision{Action: Append, Record: candidate}
	}

	switch decision.Action {
	case Fold:
		m.undo[len(m.undo)-1] = decision.Record
	default:
		m.undo = append(m.undo, decision.Record)
		m.trim()
	}
	m.redo = nil

	logger.DebugTagf("history", "History: Local edit %v (%s). Undo: %d, Redo: %d",
		candidate.Changes, decision.Action, len(m.undo), len(m.redo))
	return candidate, nil
}

// RecordExternalEdit applies a record produced by another editor instance to
// lastSnapshot and stores it verbatim on the undo history: no folding, no
// re-stamping, and the redo history is left as it is. Nothing is announced.
// When the record does not fit lastSnapshot the history is untouched.
func (m *Manager) RecordExternalEdit(rec Record, lastSnapshot string, lastSelection types.Selection) (string, types.Selection, error) {
	if len(rec.Changes) == 0 {
		return "", types.Selection{}, ErrEmptyRecord
	}

	newText, err := m.engine.Apply(lastSnapshot, rec.Changes)
	if err != nil {
		return "", types.Selection{}, fmt.Errorf("apply external edit: %w", err)
	}
	newSelection := m.engine.AdjustSelection(lastSelection, rec.Changes)

	m.undo = append(m.undo, rec)
	m.trim()

	logger.DebugTagf("history", "History: External edit %v. Undo: %d, Redo: %d", rec.Changes, len(m.undo), len(m.redo))
	return newText, newSelection, nil
}

// Undo reverts the top of the undo history against current.
// ok is false when there is nothing to undo.
func (m *Manager) Undo(current string) (res Result, ok bool, err error) {
	if len(m.undo) == 0 {
		logger.DebugTagf("history", "History: Nothing to undo.")
		return Result{}, false, nil
	}

	stamped := m.undo[len(m.undo)-1].WithEditor(m.id)
	reversal := Reverse(stamped, m.engine)

	newText, newSelection, err := ApplyRecord(reversal, current, m.engine)
	if err != nil {
		logger.Errorf("History: Error undoing %v: %v", stamped, err)
		return Result{}, false, fmt.Errorf("undo failed: %w", err)
	}

	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, stamped)
	m.notify(KindRestore, reversal)

	logger.DebugTagf("history", "History: Undid %v. Undo: %d, Redo: %d", stamped.Changes, len(m.undo), len(m.redo))
	return Result{Text: newText, Selection: newSelection, Record: reversal}, true, nil
}

// Redo replays the top of the redo history against current.
// ok is false when there is nothing to redo.
func (m *Manager) Redo(current string) (res Result, ok bool, err error) {
	if len(m.redo) == 0 {
		logger.DebugTagf("history", "History: Nothing to redo.")
		return Result{}, false, nil
	}

	stamped := m.redo[len(m.redo)-1].WithEditor(m.id)

	newText, newSelection, err := ApplyRecord(stamped, current, m.engine)
	if err != nil {
		logger.Errorf("History: Error redoing %v: %v", stamped, err)
		return Result{}, false, fmt.Errorf("redo failed: %w", err)
	}

	m.redo = m.redo[:len(m.redo)-1]
	m.undo = append(m.undo, stamped)
	m.trim()
	m.notify(KindRestore, stamped)

	logger.DebugTagf("history", "History: Redid %v. Undo: %d, Redo: %d", stamped.Changes, len(m.undo), len(m.redo))
	return Result{Text: newText, Selection: newSelection, Record: stamped}, true, nil
}

// Clear empties both histories. Call it on load, new document or rollback.
func (m *Manager) Clear() {
	m.undo = nil
	m.redo = nil
	logger.DebugTagf("history", "History: Cleared.")
}

// CanUndo returns true if there are records that can be undone.
func (m *Manager) CanUndo() bool {
	return len(m.undo) > 0
}

// CanRedo returns true if there are records that can be redone.
func (m *Manager) CanRedo() bool {
	return len(m.redo) > 0
}

// UndoCount returns the number of undo steps available.
func (m *Manager) UndoCount() int {
	return len(m.undo)
}

// RedoCount returns the number of redo steps available.
func (m *Manager) RedoCount() int {
	return len(m.redo)
}

// PeekUndo returns the record the next Undo would revert.
func (m *Manager) PeekUndo() (Record, bool) {
	if top := m.top(); top != nil {
		return *top, true
	}
	return Record{}, false
}

// PeekRedo returns the record the next Redo would replay.
func (m *Manager) PeekRedo() (Record, bool) {
	if len(m.redo) == 0 {
		return Record{}, false
	}
	return m.redo[len(m.redo)-1], true
}

func (m *Manager) top() *Record {
	if len(m.undo) == 0 {
		return nil
	}
	return &m.undo[len(m.undo)-1]
}

// trim drops the oldest undo entries beyond maxEntries.
func (m *Manager) trim() {
	if excess := len(m.undo) - m.maxEntries; excess > 0 {
		m.undo = append([]Record(nil), m.undo[excess:]...)
	}
}

func (m *Manager) notify(kind ActionKind, rec Record) {
	if m.notifier == nil {
		return
	}
	m.notifier.Dispatch(event.TypeActionCreate, ActionCreateData{Kind: kind, Record: rec})
}
