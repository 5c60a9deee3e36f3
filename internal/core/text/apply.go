package text

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bethropolis/mirror/internal/types"
)

// Errors returned when a change sequence does not fit the snapshot it is applied to.
var (
	ErrOutOfRange   = errors.New("change position out of range")
	ErrTextMismatch = errors.New("removed text does not match snapshot")
)

// Apply replays changes against s in order and returns the resulting snapshot.
func Apply(s string, changes []Change) (string, error) {
	for i, c := range changes {
		if c.Position < 0 || c.Position > len(s) {
			return "", fmt.Errorf("change %d (%v) on %d bytes: %w", i, c, len(s), ErrOutOfRange)
		}
		switch c.Kind {
		case Added:
			s = s[:c.Position] + c.Text + s[c.Position:]
		case Removed:
			if c.End() > len(s) {
				return "", fmt.Errorf("change %d (%v) on %d bytes: %w", i, c, len(s), ErrOutOfRange)
			}
			if s[c.Position:c.End()] != c.Text {
				return "", fmt.Errorf("change %d (%v): %w", i, c, ErrTextMismatch)
			}
			s = s[:c.Position] + s[c.End():]
		default:
			return "", fmt.Errorf("change %d: unknown kind %d", i, int(c.Kind))
		}
	}
	return s, nil
}

// Reverse returns the logical inverse of changes: kinds flipped and order
// reversed, so Apply(Apply(t, c), Reverse(c)) == t. The input is not modified.
func Reverse(changes []Change) []Change {
	out := make([]Change, len(changes))
	for i, c := range changes {
		out[len(changes)-1-i] = c.Invert()
	}
	return out
}

// AdjustSelection moves both ends of sel across changes, in order.
func AdjustSelection(sel types.Selection, changes []Change) types.Selection {
	for _, c := range changes {
		sel = types.Selection{
			Start: transformOffset(sel.Start, c),
			End:   transformOffset(sel.End, c),
		}
	}
	return sel
}

// transformOffset updates an offset after one change:
//   - insertion at or before the offset shifts it right
//   - removal entirely before the offset shifts it left
//   - removal spanning the offset collapses it to the removal start
func transformOffset(offset int, c Change) int {
	switch c.Kind {
	case Added:
		if c.Position <= offset {
			return offset + len(c.Text)
		}
	case Removed:
		if c.End() <= offset {
			return offset - len(c.Text)
		}
		if c.Position < offset {
			return c.Position
		}
	}
	return offset
}

// PositionAt converts a byte offset into a line/byte-column position.
func PositionAt(s string, offset int) types.Position {
	if offset > len(s) {
		offset = len(s)
	}
	if offset < 0 {
		offset = 0
	}
	head := s[:offset]
	line := strings.Count(head, "\n")
	col := offset
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		col = offset - i - 1
	}
	return types.Position{Line: line, Col: col}
}

// Engine bundles the package functions behind the interface the history
// stack consumes.
type Engine struct {
	// MaxDiffTokens overrides DefaultMaxDiffTokens when positive.
	MaxDiffTokens int
	// MaxDiffMemoryMB overrides DefaultMaxDiffMemoryMB when positive.
	MaxDiffMemoryMB int
}

func (e Engine) Diff(oldText, newText string) []Change {
	limit := e.MaxDiffTokens
	if limit <= 0 {
		limit = DefaultMaxDiffTokens
	}
	memMB := e.MaxDiffMemoryMB
	if memMB <= 0 {
		memMB = DefaultMaxDiffMemoryMB
	}
	return diffTokens(oldText, newText, limit, memMB)
}

func (Engine) Apply(s string, changes []Change) (string, error) { return Apply(s, changes) }

func (Engine) Reverse(changes []Change) []Change { return Reverse(changes) }

func (Engine) AdjustSelection(sel types.Selection, changes []Change) types.Selection {
	return AdjustSelection(sel, changes)
}
