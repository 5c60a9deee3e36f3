package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type namedID string

func (n namedID) Equal(other Identity) bool {
	o, ok := other.(namedID)
	return ok && o == n
}

func (n namedID) String() string { return string(n) }

func TestEditorIDEquality(t *testing.T) {
	a := NewEditorID()
	b := NewEditorID()

	assert.True(t, a.Equal(a))
	assert.True(t, a.Equal(&a))
	assert.False(t, a.Equal(b))
	assert.False(t, a.Equal(namedID(a.String())))
	assert.False(t, a.Equal((*EditorID)(nil)))
}

func TestParseEditorID(t *testing.T) {
	a := NewEditorID()

	parsed, err := ParseEditorID(a.String())
	require.NoError(t, err)
	assert.True(t, a.Equal(parsed))

	_, err = ParseEditorID("not-a-uuid")
	assert.Error(t, err)
}

func TestSameEditor(t *testing.T) {
	assert.True(t, sameEditor(nil, nil))
	assert.False(t, sameEditor(namedID("a"), nil))
	assert.False(t, sameEditor(nil, namedID("a")))
	assert.True(t, sameEditor(namedID("a"), namedID("a")))
	assert.False(t, sameEditor(namedID("a"), namedID("b")))
}
