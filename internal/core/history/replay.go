package history

import (
	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/types"
)

// Engine is the text machinery the stack relies on. text.Engine implements it.
type Engine interface {
	Diff(oldText, newText string) []text.Change
	Apply(s string, changes []text.Change) (string, error)
	Reverse(changes []text.Change) []text.Change
	AdjustSelection(sel types.Selection, changes []text.Change) types.Selection
}

// Reverse returns the record that undoes rec: selections swapped and the
// change sequence inverted by eng. rec itself is left untouched.
func Reverse(rec Record, eng Engine) Record {
	return Record{
		Editor:          rec.Editor,
		SelectionBefore: rec.SelectionAfter,
		SelectionAfter:  rec.SelectionBefore,
		Changes:         eng.Reverse(rec.Changes),
	}
}

// ApplyRecord replays rec on snapshot and returns the new text together with
// the selection the record ends on.
func ApplyRecord(rec Record, snapshot string, eng Engine) (string, types.Selection, error) {
	out, err := eng.Apply(snapshot, rec.Changes)
	if err != nil {
		return "", types.Selection{}, err
	}
	return out, rec.SelectionAfter, nil
}
