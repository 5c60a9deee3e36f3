// Package text implements the text engine behind the history stack: it diffs
// two snapshots into change records, applies and reverses change sequences and
// moves selections across them.
package text

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind tells whether a change inserted or removed text.
type Kind int

const (
	Added Kind = iota
	Removed
)

func (k Kind) String() string {
	switch k {
	case Added:
		return "added"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// MarshalJSON writes the kind as "added" or "removed".
func (k Kind) MarshalJSON() ([]byte, error) {
	if k != Added && k != Removed {
		return nil, fmt.Errorf("text: invalid change kind %d", int(k))
	}
	return json.Marshal(k.String())
}

// UnmarshalJSON reads "added" or "removed".
func (k *Kind) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "added":
		*k = Added
	case "removed":
		*k = Removed
	default:
		return fmt.Errorf("text: invalid change kind %q", s)
	}
	return nil
}

// Change is one contiguous insertion or deletion. Position is a byte offset
// into the snapshot as it stands when the change is applied, so a sequence of
// changes must be replayed in order.
type Change struct {
	Position int    `json:"position"`
	Kind     Kind   `json:"kind"`
	Text     string `json:"text"`
}

// End returns the offset just past the text the change covers.
func (c Change) End() int {
	return c.Position + len(c.Text)
}

// Invert returns the change that undoes c.
func (c Change) Invert() Change {
	inv := c
	if c.Kind == Added {
		inv.Kind = Removed
	} else {
		inv.Kind = Added
	}
	return inv
}

// IsNewlineOnly reports whether the change text is made of '\n' only.
func (c Change) IsNewlineOnly() bool {
	return c.Text != "" && strings.Trim(c.Text, "\n") == ""
}

func (c Change) String() string {
	return fmt.Sprintf("%s@%d %q", c.Kind, c.Position, c.Text)
}

// Clone copies a change sequence so callers never share backing arrays.
func Clone(changes []Change) []Change {
	if changes == nil {
		return nil
	}
	out := make([]Change, len(changes))
	copy(out, changes)
	return out
}
