package history

import (
	"errors"
	"fmt"

	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/types"
)

// ErrEmptyRecord is returned when a record would carry no changes. Every
// other code path relies on at least one change being present.
var ErrEmptyRecord = errors.New("history: edit record has no changes")

// Record is one undoable edit: who made it, the selection around it and the
// ordered changes. Records are values; folding, reversing and re-stamping all
// return new records with their own Changes slice.
type Record struct {
	Editor          Identity
	SelectionBefore types.Selection
	SelectionAfter  types.Selection
	Changes         []text.Change
}

// NewRecord builds a record, copying changes.
func NewRecord(editor Identity, before, after types.Selection, changes []text.Change) (Record, error) {
	if len(changes) == 0 {
		return Record{}, ErrEmptyRecord
	}
	return Record{
		Editor:          editor,
		SelectionBefore: before,
		SelectionAfter:  after,
		Changes:         text.Clone(changes),
	}, nil
}

// WithEditor returns a copy of r stamped with editor.
func (r Record) WithEditor(editor Identity) Record {
	r.Editor = editor
	r.Changes = text.Clone(r.Changes)
	return r
}

// LastChange returns the final change of the record.
func (r Record) LastChange() text.Change {
	return r.Changes[len(r.Changes)-1]
}

func (r Record) String() string {
	editor := "<nil>"
	if r.Editor != nil {
		editor = r.Editor.String()
	}
	return fmt.Sprintf("record{editor=%s sel=%v->%v changes=%v}", editor, r.SelectionBefore, r.SelectionAfter, r.Changes)
}
