package text

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bethropolis/mirror/internal/types"
)

func TestBoundaries(t *testing.T) {
	s := "ae\u0301b" // a | e+combining acute | b

	assert.Equal(t, 0, PrevBoundary(s, 0))
	assert.Equal(t, 0, PrevBoundary(s, 1))
	assert.Equal(t, 1, PrevBoundary(s, 4))
	assert.Equal(t, 4, PrevBoundary(s, 5))

	assert.Equal(t, 1, NextBoundary(s, 0))
	assert.Equal(t, 4, NextBoundary(s, 1))
	assert.Equal(t, 5, NextBoundary(s, 4))
	assert.Equal(t, 5, NextBoundary(s, 5))
}

func TestPositionAt(t *testing.T) {
	s := "ab\ncd"
	assert.Equal(t, types.Position{Line: 0, Col: 0}, PositionAt(s, 0))
	assert.Equal(t, types.Position{Line: 0, Col: 2}, PositionAt(s, 2))
	assert.Equal(t, types.Position{Line: 1, Col: 0}, PositionAt(s, 3))
	assert.Equal(t, types.Position{Line: 1, Col: 2}, PositionAt(s, 99))
}

func TestEditInfo(t *testing.T) {
	info := EditInfo("ab", Change{Position: 1, Kind: Added, Text: "x\ny"})
	assert.Equal(t, uint32(1), info.StartIndex)
	assert.Equal(t, uint32(1), info.OldEndIndex)
	assert.Equal(t, uint32(4), info.NewEndIndex)
	assert.Equal(t, uint32(1), info.NewEndPosition.Row)
	assert.Equal(t, uint32(1), info.NewEndPosition.Column)

	info = EditInfo("a\nbc", Change{Position: 1, Kind: Removed, Text: "\nb"})
	assert.Equal(t, uint32(3), info.OldEndIndex)
	assert.Equal(t, uint32(1), info.OldEndPosition.Row)
	assert.Equal(t, uint32(1), info.OldEndPosition.Column)
	assert.Equal(t, info.StartPosition, info.NewEndPosition)

	infos := EditInfos("abc", []Change{
		{Position: 0, Kind: Added, Text: "\n"},
		{Position: 1, Kind: Removed, Text: "a"},
	})
	if assert.Len(t, infos, 2) {
		assert.Equal(t, uint32(1), infos[1].StartPosition.Row)
		assert.Equal(t, uint32(0), infos[1].StartPosition.Column)
	}
}
