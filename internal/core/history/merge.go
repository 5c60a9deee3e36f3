package history

import "github.com/bethropolis/mirror/internal/core/text"

// Action is the outcome of the merge policy.
type Action int

const (
	Append Action = iota // push the candidate as a new undo step
	Fold                 // replace the undo top with the combined record
)

func (a Action) String() string {
	if a == Fold {
		return "fold"
	}
	return "append"
}

// Decision is what Decide returns: the action and the record to store.
type Decision struct {
	Action Action
	Record Record
}

// Decide runs the merge policy for candidate against the current undo top
// (nil when the history is empty). Only simple candidates are ever folded: a
// single change, a collapsed caret afterwards, made by the same editor.
// Newline-only text is never folded.
func Decide(last *Record, candidate Record) Decision {
	appendIt := Decision{Action: Append, Record: candidate}

	if last == nil || len(last.Changes) == 0 ||
		len(candidate.Changes) != 1 ||
		!candidate.SelectionAfter.Collapsed() ||
		!sameEditor(last.Editor, candidate.Editor) {
		return appendIt
	}

	prev := last.LastChange()
	cur := candidate.Changes[0]

	if prev.IsNewlineOnly() || cur.IsNewlineOnly() {
		return appendIt
	}

	folded, ok := foldChange(prev, cur)
	if !ok {
		return appendIt
	}

	changes := make([]text.Change, 0, len(last.Changes))
	changes = append(changes, last.Changes[:len(last.Changes)-1]...)
	changes = append(changes, folded)

	return Decision{
		Action: Fold,
		Record: Record{
			Editor:          last.Editor,
			SelectionBefore: last.SelectionBefore,
			SelectionAfter:  candidate.SelectionAfter,
			Changes:         changes,
		},
	}
}

// foldChange combines two same-kind changes that touch end to end.
func foldChange(prev, cur text.Change) (text.Change, bool) {
	if prev.Kind != cur.Kind {
		return text.Change{}, false
	}

	switch cur.Kind {
	case text.Added:
		// Typing continues right where the previous insertion ended.
		if cur.Position == prev.End() {
			return text.Change{Position: prev.Position, Kind: text.Added, Text: prev.Text + cur.Text}, true
		}
	case text.Removed:
		// Forward delete: the text to the right slides into the same offset.
		if cur.Position == prev.Position {
			return text.Change{Position: prev.Position, Kind: text.Removed, Text: prev.Text + cur.Text}, true
		}
		// Backspace: each removal ends where the previous one started.
		if cur.Position == prev.Position-len(cur.Text) {
			return text.Change{Position: cur.Position, Kind: text.Removed, Text: cur.Text + prev.Text}, true
		}
	}
	return text.Change{}, false
}
