package history

import (
	"fmt"

	"github.com/google/uuid"
)

// Identity tells which live editor produced an edit. The stack only ever
// compares identities; it never orders history by them.
type Identity interface {
	Equal(other Identity) bool
	String() string
}

// EditorID is the UUID-backed Identity minted for every editor instance.
type EditorID struct {
	id uuid.UUID
}

// NewEditorID returns a fresh random identity.
func NewEditorID() EditorID {
	return EditorID{id: uuid.New()}
}

// ParseEditorID rebuilds an identity from its String form, as received over the relay.
func ParseEditorID(s string) (EditorID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return EditorID{}, fmt.Errorf("parse editor id %q: %w", s, err)
	}
	return EditorID{id: id}, nil
}

// Equal reports whether other is an EditorID with the same UUID.
func (e EditorID) Equal(other Identity) bool {
	switch o := other.(type) {
	case EditorID:
		return e.id == o.id
	case *EditorID:
		return o != nil && e.id == o.id
	default:
		return false
	}
}

func (e EditorID) String() string {
	return e.id.String()
}

// sameEditor compares two possibly nil identities.
func sameEditor(a, b Identity) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}
