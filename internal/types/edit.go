package types

import sitter "github.com/smacker/go-tree-sitter"

// EditInfo encapsulates the information needed for tree-sitter's Edit function.
// One EditInfo describes one applied change record.
type EditInfo struct {
	StartIndex     uint32       // Start byte of the edit
	OldEndIndex    uint32       // End byte of the old text
	NewEndIndex    uint32       // End byte of the new text
	StartPosition  sitter.Point // Start position (row, column)
	OldEndPosition sitter.Point // Old end position
	NewEndPosition sitter.Point // New end position
}

// InputEdit converts the info into the value sitter.Tree.Edit takes.
func (e EditInfo) InputEdit() sitter.EditInput {
	return sitter.EditInput{
		StartIndex:  e.StartIndex,
		OldEndIndex: e.OldEndIndex,
		NewEndIndex: e.NewEndIndex,
		StartPoint:  e.StartPosition,
		OldEndPoint: e.OldEndPosition,
		NewEndPoint: e.NewEndPosition,
	}
}
