package text

import (
	"github.com/rivo/uniseg"
	sitter "github.com/smacker/go-tree-sitter"

	"github.com/bethropolis/mirror/internal/types"
)

// PrevBoundary returns the start of the grapheme cluster that ends at or
// contains offset-1. It returns 0 at the start of s.
func PrevBoundary(s string, offset int) int {
	if offset <= 0 {
		return 0
	}
	prev := 0
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		from, to := gr.Positions()
		if to >= offset {
			return from
		}
		prev = to
	}
	return prev
}

// NextBoundary returns the end of the grapheme cluster starting at or
// containing offset. It returns len(s) at the end of s.
func NextBoundary(s string, offset int) int {
	if offset >= len(s) {
		return len(s)
	}
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		_, to := gr.Positions()
		if to > offset {
			return to
		}
	}
	return len(s)
}

// EditInfo describes change c, applied to the snapshot before, in the shape
// tree-sitter needs for an incremental reparse.
func EditInfo(before string, c Change) types.EditInfo {
	start := PositionAt(before, c.Position)
	info := types.EditInfo{
		StartIndex:    uint32(c.Position),
		StartPosition: point(start),
	}
	switch c.Kind {
	case Added:
		info.OldEndIndex = info.StartIndex
		info.OldEndPosition = info.StartPosition
		info.NewEndIndex = uint32(c.End())
		info.NewEndPosition = point(advance(start, c.Text))
	case Removed:
		info.OldEndIndex = uint32(c.End())
		info.OldEndPosition = point(advance(start, c.Text))
		info.NewEndIndex = info.StartIndex
		info.NewEndPosition = info.StartPosition
	}
	return info
}

// EditInfos walks changes over before and returns one EditInfo per change.
// Changes that do not fit stop the walk.
func EditInfos(before string, changes []Change) []types.EditInfo {
	infos := make([]types.EditInfo, 0, len(changes))
	for _, c := range changes {
		infos = append(infos, EditInfo(before, c))
		next, err := Apply(before, []Change{c})
		if err != nil {
			break
		}
		before = next
	}
	return infos
}

func advance(p types.Position, s string) types.Position {
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			p.Line++
			p.Col = 0
			continue
		}
		p.Col++
	}
	return p
}

func point(p types.Position) sitter.Point {
	return sitter.Point{Row: uint32(p.Line), Column: uint32(p.Col)}
}
