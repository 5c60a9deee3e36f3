package types

import "fmt"

// Selection is a single contiguous selection expressed as byte offsets into a
// snapshot. Start is where the selection was anchored and End is where the
// caret sits, so End may be smaller than Start for a backward selection.
// Start == End is a collapsed caret.
type Selection struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Caret returns a collapsed selection at offset.
func Caret(offset int) Selection {
	return Selection{Start: offset, End: offset}
}

// Collapsed reports whether the selection is a bare caret.
func (s Selection) Collapsed() bool {
	return s.Start == s.End
}

// Normalized returns the selection with Start <= End.
func (s Selection) Normalized() Selection {
	if s.Start > s.End {
		return Selection{Start: s.End, End: s.Start}
	}
	return s
}

// Clamp keeps both ends inside [0, size].
func (s Selection) Clamp(size int) Selection {
	return Selection{Start: clamp(s.Start, size), End: clamp(s.End, size)}
}

func (s Selection) String() string {
	return fmt.Sprintf("{%d,%d}", s.Start, s.End)
}

func clamp(v, size int) int {
	if v < 0 {
		return 0
	}
	if v > size {
		return size
	}
	return v
}
