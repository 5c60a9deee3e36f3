package history

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/mirror/internal/core/text"
	"github.com/bethropolis/mirror/internal/types"
)

func added(pos int, s string) text.Change {
	return text.Change{Position: pos, Kind: text.Added, Text: s}
}

func removed(pos int, s string) text.Change {
	return text.Change{Position: pos, Kind: text.Removed, Text: s}
}

func rec(id Identity, before, after int, changes ...text.Change) Record {
	return Record{
		Editor:          id,
		SelectionBefore: types.Caret(before),
		SelectionAfter:  types.Caret(after),
		Changes:         changes,
	}
}

func TestDecide(t *testing.T) {
	me := namedID("me")
	other := namedID("other")

	tests := []struct {
		name      string
		last      *Record
		candidate Record
		action    Action
		changes   []text.Change
	}{
		{
			name:      "empty history",
			last:      nil,
			candidate: rec(me, 0, 1, added(0, "a")),
			action:    Append,
		},
		{
			name:      "contiguous typing",
			last:      &Record{Editor: me, SelectionAfter: types.Caret(2), Changes: []text.Change{added(1, "b")}},
			candidate: rec(me, 2, 3, added(2, "d")),
			action:    Fold,
			changes:   []text.Change{added(1, "bd")},
		},
		{
			name:      "gap between insertions",
			last:      &Record{Editor: me, Changes: []text.Change{added(0, "a")}},
			candidate: rec(me, 5, 6, added(5, "b")),
			action:    Append,
		},
		{
			name:      "different editors",
			last:      &Record{Editor: other, Changes: []text.Change{added(0, "a")}},
			candidate: rec(me, 1, 2, added(1, "b")),
			action:    Append,
		},
		{
			name:      "newline candidate",
			last:      &Record{Editor: me, Changes: []text.Change{added(0, "a")}},
			candidate: rec(me, 1, 2, added(1, "\n")),
			action:    Append,
		},
		{
			name:      "after newline",
			last:      &Record{Editor: me, Changes: []text.Change{added(0, "\n")}},
			candidate: rec(me, 1, 2, added(1, "b")),
			action:    Append,
		},
		{
			name:      "multi change candidate",
			last:      &Record{Editor: me, Changes: []text.Change{added(0, "a")}},
			candidate: rec(me, 1, 3, added(1, "b"), added(5, "c")),
			action:    Append,
		},
		{
			name: "selection after edit",
			last: &Record{Editor: me, Changes: []text.Change{added(0, "a")}},
			candidate: Record{
				Editor:         me,
				SelectionAfter: types.Selection{Start: 1, End: 2},
				Changes:        []text.Change{added(1, "b")},
			},
			action: Append,
		},
		{
			name:      "kind switch",
			last:      &Record{Editor: me, Changes: []text.Change{added(0, "ab")}},
			candidate: rec(me, 2, 1, removed(1, "b")),
			action:    Append,
		},
		{
			name:      "backspace run",
			last:      &Record{Editor: me, Changes: []text.Change{removed(2, "c")}},
			candidate: rec(me, 2, 1, removed(1, "b")),
			action:    Fold,
			changes:   []text.Change{removed(1, "bc")},
		},
		{
			name:      "forward delete run",
			last:      &Record{Editor: me, Changes: []text.Change{removed(1, "b")}},
			candidate: rec(me, 1, 1, removed(1, "c")),
			action:    Fold,
			changes:   []text.Change{removed(1, "bc")},
		},
		{
			name:      "folds into last of several",
			last:      &Record{Editor: me, Changes: []text.Change{removed(0, "x"), added(0, "a")}},
			candidate: rec(me, 1, 2, added(1, "b")),
			action:    Fold,
			changes:   []text.Change{removed(0, "x"), added(0, "ab")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := Decide(tt.last, tt.candidate)
			assert.Equal(t, tt.action, d.Action)
			if tt.action == Append {
				assert.Equal(t, tt.candidate, d.Record)
				return
			}
			assert.Equal(t, tt.changes, d.Record.Changes)
			assert.Equal(t, tt.last.SelectionBefore, d.Record.SelectionBefore)
			assert.Equal(t, tt.candidate.SelectionAfter, d.Record.SelectionAfter)
		})
	}
}

func TestDecideDoesNotMutateLast(t *testing.T) {
	me := namedID("me")
	last := &Record{Editor: me, Changes: []text.Change{added(0, "a")}}

	d := Decide(last, rec(me, 1, 2, added(1, "b")))

	assert.Equal(t, Fold, d.Action)
	assert.Equal(t, "a", last.Changes[0].Text)
}
